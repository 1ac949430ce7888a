// Package loader reads dbt artifacts: manifest.json, catalog.json and
// dbt_project.yml. Meta blocks are decoded into typed core values and
// validated on the way in.
package loader

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/leapstack-labs/leaplook/pkg/core"
)

// ManifestFile is the manifest file name inside the target directory.
const ManifestFile = "manifest.json"

// Options select the nodes loaded from a manifest.
type Options struct {
	// Tag keeps only models and exposures carrying this dbt tag (optional)
	Tag string
}

// Manifest holds the selected contents of a dbt manifest.
type Manifest struct {
	AdapterType string
	ProjectName string
	// Models are the selected models ordered by name
	Models []*core.Model
	// Exposures are the selected exposures ordered by name
	Exposures []*core.Exposure
	// Known lists every non-ephemeral model name, selected or not
	Known []string
}

type rawManifest struct {
	Metadata struct {
		AdapterType string `json:"adapter_type"`
		ProjectName string `json:"project_name"`
	} `json:"metadata"`
	Nodes     map[string]rawNode     `json:"nodes"`
	Exposures map[string]rawExposure `json:"exposures"`
}

type rawNode struct {
	UniqueID     string   `json:"unique_id"`
	ResourceType string   `json:"resource_type"`
	Name         string   `json:"name"`
	Database     string   `json:"database"`
	Schema       string   `json:"schema"`
	Alias        string   `json:"alias"`
	RelationName string   `json:"relation_name"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags"`
	Config       struct {
		Materialized string `json:"materialized"`
	} `json:"config"`
	Columns map[string]rawColumn `json:"columns"`
	Meta    map[string]any       `json:"meta"`
}

type rawColumn struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	DataType    string         `json:"data_type"`
	Meta        map[string]any `json:"meta"`
}

type rawExposure struct {
	UniqueID    string         `json:"unique_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Tags        []string       `json:"tags"`
	Meta        map[string]any `json:"meta"`
}

// LoadManifest reads and decodes the manifest at path.
func LoadManifest(path string, opts Options) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ParseError{File: path, Message: "manifest not found, use --target-dir to change the search path"}
		}
		return nil, &ParseError{File: path, Message: "reading manifest", Err: err}
	}
	m, err := ParseManifest(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseManifest decodes manifest JSON. Every meta validation failure is
// reported; the manifest is rejected if any occur.
func ParseManifest(data []byte, opts Options) (*Manifest, error) {
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Message: "invalid manifest JSON", Err: err}
	}
	if raw.Metadata.AdapterType == "" {
		return nil, &ParseError{Message: "manifest metadata has no adapter_type"}
	}

	out := &Manifest{
		AdapterType: raw.Metadata.AdapterType,
		ProjectName: raw.Metadata.ProjectName,
	}

	var errs []error
	for _, id := range slices.Sorted(maps.Keys(raw.Nodes)) {
		node := raw.Nodes[id]
		if node.ResourceType != "model" || node.Config.Materialized == "ephemeral" {
			continue
		}
		out.Known = append(out.Known, node.Name)
		if !tagged(node.Tags, opts.Tag) {
			continue
		}
		model, err := node.toModel(id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out.Models = append(out.Models, model)
	}

	for _, id := range slices.Sorted(maps.Keys(raw.Exposures)) {
		e := raw.Exposures[id]
		if !tagged(e.Tags, opts.Tag) {
			continue
		}
		exposure, err := e.toExposure(id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out.Exposures = append(out.Exposures, exposure)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	slices.SortFunc(out.Models, func(a, b *core.Model) int { return strings.Compare(a.Name, b.Name) })
	slices.SortFunc(out.Exposures, func(a, b *core.Exposure) int { return strings.Compare(a.Name, b.Name) })
	slices.Sort(out.Known)
	return out, nil
}

func tagged(tags []string, tag string) bool {
	return tag == "" || slices.Contains(tags, tag)
}

func (n rawNode) toModel(id string) (*core.Model, error) {
	if n.UniqueID == "" {
		n.UniqueID = id
	}
	meta, err := decodeModelMeta(n.UniqueID, n.Meta)
	if err != nil {
		return nil, err
	}

	columns := make(map[string]core.Column, len(n.Columns))
	for key, c := range n.Columns {
		name := strings.ToLower(c.Name)
		if name == "" {
			name = strings.ToLower(key)
		}
		colMeta, err := decodeColumnMeta(n.UniqueID, name, c.Meta)
		if err != nil {
			return nil, err
		}
		columns[name] = core.Column{
			Name:        name,
			Description: c.Description,
			DataType:    c.DataType,
			Meta:        colMeta,
		}
	}

	return &core.Model{
		UniqueID:     n.UniqueID,
		Name:         n.Name,
		Database:     n.Database,
		Schema:       n.Schema,
		Alias:        n.Alias,
		RelationName: n.RelationName,
		Description:  n.Description,
		Tags:         n.Tags,
		Columns:      columns,
		Meta:         meta,
	}, nil
}

func (e rawExposure) toExposure(id string) (*core.Exposure, error) {
	if e.UniqueID == "" {
		e.UniqueID = id
	}
	out := &core.Exposure{
		UniqueID:    e.UniqueID,
		Name:        e.Name,
		Description: e.Description,
		Tags:        e.Tags,
	}
	if err := decodeExposureMeta(out, e.Meta); err != nil {
		return nil, err
	}
	return out, nil
}
