package lookml

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leaplook/internal/ref"
	"github.com/leapstack-labs/leaplook/pkg/core"
	"github.com/leapstack-labs/leaplook/pkg/lkml"
)

// File name suffixes.
const (
	ViewSuffix  = ".view.lkml"
	ModelSuffix = ".model.lkml"
)

// View is a compiled view with its synthesized fields.
type View struct {
	Model  *core.Model
	Fields *Fields
	File   core.File
}

// CompileView synthesizes and renders the view file of m.
func (c *Compiler) CompileView(m *core.Model) (*View, error) {
	fields, err := c.Synthesize(m)
	if err != nil {
		return nil, err
	}

	doc, err := c.ViewDocument(m, fields)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("created view from model",
		slog.String("model", m.Name),
		slog.Int("measures", len(fields.Measures)),
		slog.Int("dimensions", len(fields.Dimensions)),
		slog.Int("dimension_groups", len(fields.DimensionGroups)))

	content, err := lkml.Marshal(doc)
	if err != nil {
		c.logger.Error("error dumping lookml for model", slog.String("model", m.Name), slog.Any("error", err))
		return nil, fmt.Errorf("rendering view %s: %w", m.Name, err)
	}

	return &View{
		Model:  m,
		Fields: fields,
		File:   core.File{Name: m.Name + ViewSuffix, Content: content},
	}, nil
}

// ViewDocument assembles the view document of m.
func (c *Compiler) ViewDocument(m *core.Model, fields *Fields) (lkml.Map, error) {
	table, err := relationName(m)
	if err != nil {
		return nil, err
	}

	view := lkml.Map{}.
		Set("name", m.Name).
		Set("sql_table_name", table).
		Set("dimension_groups", mapAll(fields.DimensionGroups, DimensionGroup.lkml)).
		Set("dimensions", mapAll(fields.Dimensions, Dimension.lkml)).
		Set("measures", mapAll(fields.Measures, Measure.lkml))
	if len(fields.Parameters) > 0 {
		view = view.Set("parameters", mapAll(fields.Parameters, parameterLKML))
	}
	if len(fields.Filters) > 0 {
		view = view.Set("filters", mapAll(fields.Filters, filterLKML))
	}
	return lkml.Map{}.Set("view", view), nil
}

// relationName returns the sql_table_name of m.
func relationName(m *core.Model) (string, error) {
	if !m.HasTag(core.SnowflakeTag) {
		return m.RelationName, nil
	}
	sf := m.Meta.Snowflake
	if sf == nil || sf.Schema == "" || sf.Table == "" {
		return "", &core.ConfigError{
			Model:   m.UniqueID,
			Field:   "integration_config.snowflake.properties",
			Message: fmt.Sprintf("models tagged %s need sf_schema and table", core.SnowflakeTag),
		}
	}
	return sf.Schema + "." + sf.Table, nil
}

func parameterLKML(p core.Parameter) lkml.Map {
	out := lkml.Map{}.
		Set("name", p.Name).
		Set("type", p.Type).
		Set("description", p.Description)
	if len(p.AllowedValues) > 0 {
		values := make([]lkml.Map, len(p.AllowedValues))
		for i, v := range p.AllowedValues {
			values[i] = lkml.Map{}.Set("label", v.Label).Set("value", v.Value)
		}
		out = out.Set("allowed_values", values)
	}
	if p.Label != "" {
		out = out.Set("label", p.Label)
	}
	return out
}

func filterLKML(f core.Filter) lkml.Map {
	out := lkml.Map{}.
		Set("name", f.Name).
		Set("description", f.Description).
		Set("type", f.Type)
	if f.SQL != "" {
		out = out.Set("sql", ref.StripEscapes(f.SQL))
	}
	if f.Label != "" {
		out = out.Set("label", f.Label)
	}
	return out
}

func mapAll[T any](items []T, fn func(T) lkml.Map) []lkml.Map {
	out := make([]lkml.Map, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}
