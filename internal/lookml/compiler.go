// Package lookml compiles reconciled dbt models into LookML views and models.
//
// Compilation has two stages. Synthesize derives typed field descriptors
// (dimension groups, dimensions, measures, parameters, filters) from a model's
// columns and meta. The assembler turns those descriptors into ordered
// lkml documents and renders them to text.
//
// A Compiler holds no per-model state and is safe for concurrent use.
package lookml

import (
	"log/slog"

	"github.com/leapstack-labs/leaplook/pkg/core"
	"github.com/leapstack-labs/leaplook/pkg/dialect"
)

// ModelLookup finds the models compiled in this run.
type ModelLookup interface {
	Has(name string) bool
	// Resolve maps a model name or relation name to a model name
	Resolve(name string) (string, bool)
}

// Config configures a Compiler.
type Config struct {
	// Dialect maps warehouse column types to Looker types
	Dialect *dialect.Dialect
	// ProjectName is the default LookML connection
	ProjectName string
	// Models validates explore main_model references (optional)
	Models ModelLookup
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Compiler turns models into LookML files.
type Compiler struct {
	dialect     *dialect.Dialect
	projectName string
	models      ModelLookup
	logger      *slog.Logger
}

// NewCompiler creates a compiler for one warehouse dialect.
func NewCompiler(cfg Config) *Compiler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Compiler{
		dialect:     cfg.Dialect,
		projectName: cfg.ProjectName,
		models:      cfg.Models,
		logger:      logger,
	}
}

// Fields are the synthesized fields of one view.
type Fields struct {
	DimensionGroups []DimensionGroup
	Dimensions      []Dimension
	Measures        []Measure
	Parameters      []core.Parameter
	Filters         []core.Filter
}

// Synthesize derives the view fields of m.
// It fails only when the model's meta is inconsistent, e.g. a measure filter
// naming an undeclared column.
func (c *Compiler) Synthesize(m *core.Model) (*Fields, error) {
	types := c.classifyColumns(m)

	measures, err := c.measures(m)
	if err != nil {
		return nil, err
	}

	return &Fields{
		DimensionGroups: c.dimensionGroups(m, types),
		Dimensions:      c.dimensions(m, types),
		Measures:        measures,
		Parameters:      m.Parameters,
		Filters:         m.Filters,
	}, nil
}

// classifyColumns maps each typed column to its Looker type.
// Unmapped types are warned about once here and left out.
func (c *Compiler) classifyColumns(m *core.Model) map[string]core.LookerType {
	logger := c.logger.With(slog.String("model", m.Name))
	types := make(map[string]core.LookerType, len(m.Columns))
	for _, col := range m.SortedColumns() {
		if t, ok := c.dialect.Classify(col.DataType, logger.With(slog.String("column", col.Name))); ok {
			types[col.Name] = t
		}
	}
	return types
}

func tableColumn(name string) string {
	return "${TABLE}." + name
}
