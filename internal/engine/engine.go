// Package engine drives a compilation run: it loads dbt artifacts, reconciles
// models with the catalog, compiles views and models concurrently and writes
// the LookML files.
package engine

import (
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/leapstack-labs/leaplook/internal/loader"
	"github.com/leapstack-labs/leaplook/internal/registry"
	"github.com/leapstack-labs/leaplook/pkg/adapter"
	"github.com/leapstack-labs/leaplook/pkg/core"
	"github.com/leapstack-labs/leaplook/pkg/dialect"

	// Register the warehouse dialects and catalog adapters
	_ "github.com/leapstack-labs/leaplook/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leaplook/pkg/dialects/bigquery"
	_ "github.com/leapstack-labs/leaplook/pkg/dialects/postgres"
	_ "github.com/leapstack-labs/leaplook/pkg/dialects/redshift"
	_ "github.com/leapstack-labs/leaplook/pkg/dialects/snowflake"
	_ "github.com/leapstack-labs/leaplook/pkg/dialects/spark"
)

// Catalog sources.
const (
	CatalogFromFile     = "file"
	CatalogFromDatabase = "database"
)

// Engine orchestrates compilation runs.
type Engine struct {
	cfg    Config
	logger *slog.Logger

	// newAdapter creates the live catalog adapter (replaceable in tests)
	newAdapter func(adapter.Config, *slog.Logger) (adapter.Adapter, error)

	// runMu serializes Generate runs
	runMu sync.Mutex

	mu       sync.Mutex
	project  *core.Project
	manifest *loader.Manifest
	dialect  *dialect.Dialect
	registry *registry.ModelRegistry
	skipped  []string
}

// Config holds engine configuration.
type Config struct {
	// ProjectDir is the dbt project directory containing dbt_project.yml
	ProjectDir string
	// TargetDir is the dbt target directory containing manifest.json and catalog.json
	TargetDir string
	// OutputDir receives the generated LookML
	OutputDir string
	// Tag restricts compilation to models and exposures carrying this tag (optional)
	Tag string
	// Connection overrides the default LookML connection (defaults to the project name)
	Connection string
	// Concurrency bounds parallel model compilation (defaults to the CPU count)
	Concurrency int
	// CatalogSource is "file" (catalog.json) or "database" (live introspection)
	CatalogSource string
	// Target configures the live catalog connection
	Target *core.TargetConfig
	// WatchDebounce is the quiet period Watch waits for after an artifact
	// write before regenerating (defaults to 300ms)
	WatchDebounce time.Duration
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine. Artifacts are read on each run.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if cfg.ProjectDir == "" {
		cfg.ProjectDir = "."
	}
	if cfg.TargetDir == "" {
		cfg.TargetDir = filepath.Join(cfg.ProjectDir, "target")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "lookml"
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
	if cfg.CatalogSource == "" {
		cfg.CatalogSource = CatalogFromFile
	}
	if cfg.WatchDebounce <= 0 {
		cfg.WatchDebounce = defaultWatchDebounce
	}

	logger.Debug("initializing engine",
		"project_dir", cfg.ProjectDir,
		"target_dir", cfg.TargetDir,
		"catalog_source", cfg.CatalogSource)

	return &Engine{
		cfg:        cfg,
		logger:     logger,
		newAdapter: adapter.NewAdapter,
		registry:   registry.NewModelRegistry(),
	}
}

// --- Getters (public accessors) ---

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Registry returns the registry of the last load.
func (e *Engine) Registry() *registry.ModelRegistry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry
}

// Project returns the project of the last load, or nil.
func (e *Engine) Project() *core.Project {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.project
}

// Exposures returns the exposures of the last load.
func (e *Engine) Exposures() []*core.Exposure {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.manifest == nil {
		return nil
	}
	return e.manifest.Exposures
}

// Skipped returns the models dropped by the last load because the catalog
// had no entry for them.
func (e *Engine) Skipped() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.skipped
}

// connection returns the LookML connection for project.
func (e *Engine) connection(project *core.Project) string {
	if e.cfg.Connection != "" {
		return e.cfg.Connection
	}
	return project.Name
}

func (e *Engine) artifact(name string) string {
	return filepath.Join(e.cfg.TargetDir, name)
}
