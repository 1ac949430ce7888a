package output

// GenerateOutput is the JSON document written by generate.
type GenerateOutput struct {
	RunID       string          `json:"run_id"`
	AdapterType string          `json:"adapter_type"`
	Project     string          `json:"project"`
	OutputDir   string          `json:"output_dir"`
	DryRun      bool            `json:"dry_run,omitempty"`
	Views       []string        `json:"views"`
	Models      []string        `json:"models"`
	Skipped     []string        `json:"skipped,omitempty"`
	Failed      []string        `json:"failed,omitempty"`
	Errors      []string        `json:"errors,omitempty"`
	Summary     GenerateSummary `json:"summary"`
}

// GenerateSummary counts generate results.
type GenerateSummary struct {
	Models     int   `json:"models"`
	Exposures  int   `json:"exposures"`
	Views      int   `json:"views"`
	Skipped    int   `json:"skipped"`
	Failed     int   `json:"failed"`
	DurationMS int64 `json:"duration_ms"`
}

// ListOutput is the JSON document written by list.
type ListOutput struct {
	Project   string         `json:"project"`
	Models    []ModelInfo    `json:"models"`
	Exposures []ExposureInfo `json:"exposures"`
	Skipped   []string       `json:"skipped,omitempty"`
}

// ModelInfo describes one compilable model.
type ModelInfo struct {
	Name       string `json:"name"`
	UniqueID   string `json:"unique_id"`
	Relation   string `json:"relation"`
	Columns    int    `json:"columns"`
	Joins      int    `json:"joins"`
	PrimaryKey string `json:"primary_key,omitempty"`
}

// ExposureInfo describes one exposure.
type ExposureInfo struct {
	Name       string `json:"name"`
	UniqueID   string `json:"unique_id"`
	MainModel  string `json:"main_model,omitempty"`
	Joins      int    `json:"joins"`
	HasExplore bool   `json:"has_explore"`
}

// AdapterInfo describes a supported warehouse adapter.
type AdapterInfo struct {
	Name        string `json:"name"`
	Types       int    `json:"types"`
	Introspects bool   `json:"introspects"`
}
