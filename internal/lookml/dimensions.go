package lookml

import (
	"strings"

	"github.com/leapstack-labs/leaplook/internal/ref"
	"github.com/leapstack-labs/leaplook/pkg/core"
	"github.com/leapstack-labs/leaplook/pkg/lkml"
)

// compoundKeyName is the dimension name of a synthesized compound key.
const compoundKeyName = "primary_key"

// Dimension is a LookML dimension.
type Dimension struct {
	Name            string
	Type            string
	SQL             string
	Description     string
	PrimaryKey      bool
	ValueFormatName string
	Hidden          *bool
}

// dimensions returns column dimensions, the compound key dimension and the
// calculated dimensions, in that order.
func (c *Compiler) dimensions(m *core.Model, types map[string]core.LookerType) []Dimension {
	var dims []Dimension
	for _, col := range m.SortedColumns() {
		t, ok := types[col.Name]
		if !ok || t.Kind() != core.KindScalar || !col.Meta.Dimension.IsEnabled() {
			continue
		}
		override := col.Meta.Dimension
		dim := Dimension{
			Name:        override.NameOr(col.Name),
			Type:        string(t),
			SQL:         override.SQLOr(tableColumn(col.Name)),
			Description: override.DescriptionOr(col.Description),
			PrimaryKey:  m.Meta.PrimaryKey == col.Name,
		}
		if vf, ok := override.ValueFormat(); ok && t == core.LookerNumber {
			dim.ValueFormatName = vf
		}
		dims = append(dims, dim)
	}

	if key, ok := compoundKey(m); ok {
		dims = append(dims, key)
	}

	for _, calc := range m.CalculatedDimensions {
		dims = append(dims, Dimension{
			Name:        calc.Name,
			Type:        calc.Type,
			SQL:         ref.StripEscapes(ref.Resolve(calc.SQL, false)),
			Description: calc.Description,
			Hidden:      calc.Hidden,
		})
	}
	return dims
}

// compoundKey builds the synthetic key dimension for comma separated primary keys.
func compoundKey(m *core.Model) (Dimension, bool) {
	cols, ok := m.Meta.CompoundKey()
	if !ok {
		return Dimension{}, false
	}
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = tableColumn(col)
	}
	return Dimension{
		Name:        compoundKeyName,
		SQL:         "CONCAT(" + strings.Join(parts, ",") + ") ",
		Description: "auto generated compound key from the columns:" + m.Meta.PrimaryKey,
		PrimaryKey:  true,
	}, true
}

func (d Dimension) lkml() lkml.Map {
	out := lkml.Map{}.Set("name", d.Name)
	if d.Type != "" {
		out = out.Set("type", d.Type)
	}
	out = out.Set("sql", d.SQL).Set("description", d.Description)
	if d.PrimaryKey {
		out = out.Set("primary_key", "yes")
	}
	if d.ValueFormatName != "" {
		out = out.Set("value_format_name", d.ValueFormatName)
	}
	if d.Hidden != nil {
		out = out.Set("hidden", *d.Hidden)
	}
	return out
}
