package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestColumnMeta_MergedMeasures(t *testing.T) {
	meta := ColumnMeta{
		Measures: map[MeasureAlias]map[string]Measure{
			AliasLookerMeasures: {
				"total":   {Type: AggregateSum, Description: "from looker"},
				"biggest": {Type: AggregateMax},
			},
			AliasMeasures: {
				"total": {Type: AggregateSum, Description: "from measures"},
			},
			AliasMetric: {
				"total":   {Type: AggregateSum, Description: "from metric"},
				"average": {Type: AggregateAverage},
			},
		},
	}

	got := meta.MergedMeasures()
	require.Len(t, got, 3)
	assert.Equal(t, "average", got[0].Name)
	assert.Equal(t, "biggest", got[1].Name)
	assert.Equal(t, "total", got[2].Name)
	assert.Equal(t, "from metric", got[2].Description, "last alias wins")
}

func TestColumnMeta_MergedMeasuresEmpty(t *testing.T) {
	assert.Empty(t, ColumnMeta{}.MergedMeasures())
}

func TestDimensionOverride(t *testing.T) {
	var empty DimensionOverride
	assert.True(t, empty.IsEnabled())
	assert.Equal(t, "col", empty.NameOr("col"))
	assert.Equal(t, "${TABLE}.col", empty.SQLOr("${TABLE}.col"))
	_, ok := empty.ValueFormat()
	assert.False(t, ok)

	disabled := false
	set := DimensionOverride{
		Enabled:         &disabled,
		Name:            strPtr("renamed"),
		SQL:             strPtr("lower(${TABLE}.col)"),
		Description:     strPtr("custom"),
		ValueFormatName: strPtr("usd"),
	}
	assert.False(t, set.IsEnabled())
	assert.Equal(t, "renamed", set.NameOr("col"))
	assert.Equal(t, "lower(${TABLE}.col)", set.SQLOr("x"))
	assert.Equal(t, "custom", set.DescriptionOr("x"))
	vf, ok := set.ValueFormat()
	assert.True(t, ok)
	assert.Equal(t, "usd", vf)
}

func TestModelMeta_CompoundKey(t *testing.T) {
	cols, ok := ModelMeta{PrimaryKey: "order_id,line_id"}.CompoundKey()
	require.True(t, ok)
	assert.Equal(t, []string{"order_id", "line_id"}, cols)

	_, ok = ModelMeta{PrimaryKey: "id"}.CompoundKey()
	assert.False(t, ok)
}

func TestModel_Location(t *testing.T) {
	tests := []struct {
		name  string
		model Model
		want  string
	}{
		{
			name:  "relation name wins",
			model: Model{Name: "orders", Schema: "analytics", RelationName: `"db"."analytics"."orders"`},
			want:  `"db"."analytics"."orders"`,
		},
		{
			name:  "falls back to parts",
			model: Model{Name: "orders", Database: "db", Schema: "analytics"},
			want:  "db.analytics.orders",
		},
		{
			name:  "alias replaces name",
			model: Model{Name: "orders", Schema: "analytics", Alias: "fct_orders"},
			want:  "analytics.fct_orders",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.model.Location())
		})
	}
}

func TestModel_WithColumnsLeavesOriginal(t *testing.T) {
	orig := &Model{Name: "orders", Columns: map[string]Column{"id": {Name: "id"}}}
	enriched := orig.WithColumns(map[string]Column{"id": {Name: "id", DataType: "INT64"}})

	assert.Empty(t, orig.Columns["id"].DataType)
	assert.Equal(t, "INT64", enriched.Columns["id"].DataType)
	assert.Equal(t, "orders", enriched.Name)
}

func TestModel_SortedColumns(t *testing.T) {
	m := &Model{Columns: map[string]Column{
		"zeta":  {Name: "zeta"},
		"alpha": {Name: "alpha"},
		"mid":   {Name: "mid"},
	}}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, m.ColumnNames())
	cols := m.SortedColumns()
	require.Len(t, cols, 3)
	assert.Equal(t, "alpha", cols[0].Name)
}

func TestLookerType_Kind(t *testing.T) {
	assert.Equal(t, KindScalar, LookerNumber.Kind())
	assert.Equal(t, KindScalar, LookerYesNo.Kind())
	assert.Equal(t, KindScalar, LookerString.Kind())
	assert.Equal(t, KindDateTime, LookerTimestamp.Kind())
	assert.Equal(t, KindDateTime, LookerDateTime.Kind())
	assert.Equal(t, KindDate, LookerDate.Kind())
	assert.Equal(t, KindUnknown, LookerType("blob").Kind())
}
