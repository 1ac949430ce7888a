package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/leapstack-labs/leaplook/internal/testutil"
	"github.com/leapstack-labs/leaplook/pkg/adapter"
	"github.com/leapstack-labs/leaplook/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func model(id string, cols ...string) *core.Model {
	m := &core.Model{UniqueID: id, Name: id, Schema: "analytics", Columns: map[string]core.Column{}}
	for _, c := range cols {
		m.Columns[c] = core.Column{Name: c}
	}
	return m
}

func node(id string, cols map[string]string) core.CatalogNode {
	return core.CatalogNode{UniqueID: id, Columns: cols}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		declared []string
		observed []string
		want     ColumnDiff
	}{
		{
			name:     "identical",
			declared: []string{"a", "b"},
			observed: []string{"b", "a"},
			want:     ColumnDiff{},
		},
		{
			name:     "undocumented",
			declared: []string{"a", "b"},
			observed: []string{"a", "b", "c"},
			want:     ColumnDiff{Undocumented: []string{"c"}},
		},
		{
			name:     "missing",
			declared: []string{"a", "b", "c"},
			observed: []string{"a", "b"},
			want:     ColumnDiff{Missing: []string{"c"}},
		},
		{
			name:     "both",
			declared: []string{"a", "x"},
			observed: []string{"a", "y"},
			want:     ColumnDiff{Undocumented: []string{"y"}, Missing: []string{"x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Diff(tt.declared, tt.observed))
		})
	}
}

func TestReconcile_EnrichesTypes(t *testing.T) {
	orig := model("orders", "id", "status")
	nodes := map[string]core.CatalogNode{
		"orders": node("orders", map[string]string{"id": "INT64", "status": "STRING"}),
	}
	logger, rec := testutil.NewRecorder()

	got := Reconcile([]*core.Model{orig}, nodes, logger)

	require.Len(t, got, 1)
	assert.Equal(t, "INT64", got[0].Columns["id"].DataType)
	assert.Equal(t, "STRING", got[0].Columns["status"].DataType)
	assert.Empty(t, orig.Columns["id"].DataType, "input must not be mutated")
	assert.Empty(t, rec.Warnings())
}

func TestReconcile_SkipsModelsMissingFromCatalog(t *testing.T) {
	logger, rec := testutil.NewRecorder()

	got := Reconcile([]*core.Model{model("orders", "id"), model("ghost", "id")},
		map[string]core.CatalogNode{"orders": node("orders", map[string]string{"id": "INT64"})},
		logger)

	require.Len(t, got, 1)
	assert.Equal(t, "orders", got[0].Name)
	require.Len(t, rec.Warnings(), 1)
	assert.Equal(t, "ghost", rec.Warnings()[0].Attrs["model"])
	assert.Equal(t, "analytics.ghost", rec.Warnings()[0].Attrs["location"])
}

func TestReconcile_Warnings(t *testing.T) {
	t.Run("catalog has an undocumented column", func(t *testing.T) {
		logger, rec := testutil.NewRecorder()
		Reconcile([]*core.Model{model("m", "a", "b")},
			map[string]core.CatalogNode{"m": node("m", map[string]string{"a": "INT64", "b": "INT64", "c": "INT64"})},
			logger)

		require.Len(t, rec.Warnings(), 1)
		assert.Equal(t, "c", rec.Warnings()[0].Attrs["column"])
		assert.Contains(t, rec.Warnings()[0].Message, "not documented")
	})

	t.Run("declared column missing from catalog", func(t *testing.T) {
		logger, rec := testutil.NewRecorder()
		got := Reconcile([]*core.Model{model("m", "a", "b", "c")},
			map[string]core.CatalogNode{"m": node("m", map[string]string{"a": "INT64", "b": "INT64"})},
			logger)

		require.Len(t, rec.Warnings(), 1)
		assert.Equal(t, "c", rec.Warnings()[0].Attrs["column"])
		assert.Contains(t, rec.Warnings()[0].Message, "not found in the catalog")
		require.Len(t, got, 1)
		assert.Empty(t, got[0].Columns["c"].DataType)
	})
}

func TestReconcile_UntypedModelPassesThrough(t *testing.T) {
	logger, rec := testutil.NewRecorder()
	got := Reconcile([]*core.Model{model("m", "a")},
		map[string]core.CatalogNode{"m": node("m", map[string]string{"a": ""})},
		logger)

	require.Len(t, got, 1)
	debug := rec.Records(slog.LevelDebug)
	require.Len(t, debug, 1)
	assert.Equal(t, "1", debug[0].Attrs["untyped"])
}

type fakeSource struct {
	tables map[string]*core.TableMetadata
	err    error
}

func (f *fakeSource) GetTableMetadata(_ context.Context, table string) (*core.TableMetadata, error) {
	if f.err != nil {
		return nil, f.err
	}
	md, ok := f.tables[table]
	if !ok {
		return nil, fmt.Errorf("%s: %w", table, adapter.ErrTableNotFound)
	}
	return md, nil
}

func TestIntrospect(t *testing.T) {
	src := &fakeSource{tables: map[string]*core.TableMetadata{
		"analytics.orders": {
			Schema: "analytics",
			Name:   "orders",
			Columns: []core.ColumnMetadata{
				{Name: "ID", Type: "integer"},
				{Name: "created_at", Type: "timestamp without time zone"},
			},
		},
	}}

	nodes, err := Introspect(context.Background(), src,
		[]*core.Model{model("orders", "id"), model("ghost", "id")},
		testutil.NewTestLogger(t))
	require.NoError(t, err)

	require.Len(t, nodes, 1)
	assert.Equal(t, map[string]string{"id": "integer", "created_at": "timestamp without time zone"}, nodes["orders"].Columns)
}

func TestIntrospect_Error(t *testing.T) {
	_, err := Introspect(context.Background(), &fakeSource{err: assert.AnError}, []*core.Model{model("orders")}, nil)
	require.ErrorIs(t, err, assert.AnError)
}

func TestIntrospect_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Introspect(ctx, &fakeSource{}, []*core.Model{model("orders")}, nil)
	require.ErrorIs(t, err, context.Canceled)
}
