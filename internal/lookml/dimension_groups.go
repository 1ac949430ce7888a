package lookml

import (
	"slices"

	"github.com/leapstack-labs/leaplook/internal/ref"
	"github.com/leapstack-labs/leaplook/pkg/core"
	"github.com/leapstack-labs/leaplook/pkg/lkml"
)

// DimensionGroup is a LookML dimension group, either a time group derived
// from a temporal column or a duration group declared on an exposure.
type DimensionGroup struct {
	Name        string
	Type        string
	SQL         string
	Description string
	Datatype    string
	Timeframes  []string

	// Duration groups only
	SQLStart  string
	SQLEnd    string
	Intervals []string
}

// dimensionGroups returns date-time groups, then date groups, then the
// exposure duration groups.
func (c *Compiler) dimensionGroups(m *core.Model, types map[string]core.LookerType) []DimensionGroup {
	var dateTimes, dates []DimensionGroup
	for _, col := range m.SortedColumns() {
		t, ok := types[col.Name]
		if !ok {
			continue
		}
		switch t.Kind() {
		case core.KindDateTime:
			dateTimes = append(dateTimes, timeGroup(col, t, core.DateTimeTimeframes))
		case core.KindDate:
			if col.Meta.Dimension.IsEnabled() {
				dates = append(dates, timeGroup(col, t, core.DateTimeframes))
			}
		}
	}

	groups := slices.Concat(dateTimes, dates)
	for _, d := range m.DurationGroups {
		groups = append(groups, DimensionGroup{
			Name:        d.Name,
			Type:        d.Type,
			SQLStart:    ref.StripEscapes(d.SQLStart),
			SQLEnd:      ref.StripEscapes(d.SQLEnd),
			Description: d.Description,
			Datatype:    d.Datatype,
			Intervals:   d.Intervals,
		})
	}
	return groups
}

func timeGroup(col core.Column, t core.LookerType, timeframes []string) DimensionGroup {
	override := col.Meta.Dimension
	return DimensionGroup{
		Name:        override.NameOr(col.Name),
		Type:        "time",
		SQL:         override.SQLOr(tableColumn(col.Name)),
		Description: override.DescriptionOr(col.Description),
		Datatype:    string(t),
		Timeframes:  timeframes,
	}
}

func (g DimensionGroup) lkml() lkml.Map {
	out := lkml.Map{}.Set("name", g.Name).Set("type", g.Type)
	if g.SQLStart != "" || g.SQLEnd != "" {
		out = out.Set("sql_start", g.SQLStart).Set("sql_end", g.SQLEnd)
	} else {
		out = out.Set("sql", g.SQL)
	}
	out = out.Set("description", g.Description)
	if g.Datatype != "" {
		out = out.Set("datatype", g.Datatype)
	}
	if len(g.Timeframes) > 0 {
		out = out.Set("timeframes", g.Timeframes)
	}
	if len(g.Intervals) > 0 {
		out = out.Set("intervals", g.Intervals)
	}
	return out
}
