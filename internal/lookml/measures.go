package lookml

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplook/internal/ref"
	"github.com/leapstack-labs/leaplook/pkg/core"
	"github.com/leapstack-labs/leaplook/pkg/lkml"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Default count measure, appended to every view.
const (
	countMeasureName        = "count"
	countMeasureDescription = "Default count measure"
)

// Measure is a LookML measure.
type Measure struct {
	Name            string
	Type            string
	SQL             string
	Description     string
	ValueFormatName string
	// Filters pairs dimension names with filter expressions
	Filters []core.MeasureFilter
}

// measures returns column measures, exposure measures and the default count.
func (c *Compiler) measures(m *core.Model) ([]Measure, error) {
	// Casers are stateful and must not be shared across goroutines.
	caser := cases.Title(language.English)

	var out []Measure
	for _, col := range m.SortedColumns() {
		for _, nm := range col.Meta.MergedMeasures() {
			measure, err := columnMeasure(m, col, nm, caser)
			if err != nil {
				return nil, err
			}
			out = append(out, measure)
		}
	}

	for _, em := range m.ExposureMeasures {
		out = append(out, Measure{
			Name:        em.Name,
			Type:        em.Type,
			SQL:         ref.Resolve(em.SQL, false),
			Description: em.Description,
		})
	}

	return append(out, Measure{
		Name:        countMeasureName,
		Type:        string(core.AggregateCount),
		Description: countMeasureDescription,
	}), nil
}

func columnMeasure(m *core.Model, col core.Column, nm core.NamedMeasure, caser cases.Caser) (Measure, error) {
	description := nm.Description
	if description == "" {
		description = col.Description
	}
	if description == "" {
		description = fmt.Sprintf("%s of %s", caser.String(string(nm.Type)), col.Name)
	}

	sql := nm.SQL
	if sql == "" {
		sql = tableColumn(col.Name)
	}

	filters, err := measureFilters(m, nm)
	if err != nil {
		return Measure{}, err
	}

	return Measure{
		Name:            nm.Name,
		Type:            string(nm.Type),
		SQL:             sql,
		Description:     description,
		ValueFormatName: nm.ValueFormatName,
		Filters:         filters,
	}, nil
}

// measureFilters maps each filter column to its dimension name.
func measureFilters(m *core.Model, nm core.NamedMeasure) ([]core.MeasureFilter, error) {
	if len(nm.Filters) == 0 {
		return nil, nil
	}
	out := make([]core.MeasureFilter, 0, len(nm.Filters))
	for _, f := range nm.Filters {
		col, ok := m.Columns[strings.ToLower(f.Column)]
		if !ok {
			return nil, &core.ConfigError{
				Model:   m.UniqueID,
				Field:   "measure " + nm.Name,
				Message: fmt.Sprintf("filter references non-existent column %q; ensure the model declares it", f.Column),
			}
		}
		out = append(out, core.MeasureFilter{
			Column:     col.Meta.Dimension.NameOr(col.Name),
			Expression: f.Expression,
		})
	}
	return out, nil
}

func (ms Measure) lkml() lkml.Map {
	out := lkml.Map{}.
		Set("name", ms.Name).
		Set("type", ms.Type).
		Set("description", ms.Description)
	if ms.SQL != "" {
		out = out.Set("sql", ms.SQL)
	}
	if len(ms.Filters) > 0 {
		filters := make(lkml.Pairs, len(ms.Filters))
		for i, f := range ms.Filters {
			filters[i] = lkml.Entry{Key: f.Column, Value: f.Expression}
		}
		out = out.Set("filters", filters)
	}
	if ms.ValueFormatName != "" {
		out = out.Set("value_format_name", ms.ValueFormatName)
	}
	return out
}
