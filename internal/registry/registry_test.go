package registry

import (
	"log/slog"
	"testing"

	"github.com/leapstack-labs/leaplook/internal/testutil"
	"github.com/leapstack-labs/leaplook/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *ModelRegistry {
	r := NewModelRegistry()
	r.Register(&core.Model{
		UniqueID: "model.shop.orders", Name: "orders",
		Database: "analytics", Schema: "shop", RelationName: "`analytics`.`shop`.`orders`",
	})
	r.Register(&core.Model{
		UniqueID: "model.shop.customers", Name: "customers",
		Database: "analytics", Schema: "shop", Alias: "dim_customers",
	})
	return r
}

// modelNamed returns the registered model called name, or nil.
func modelNamed(r *ModelRegistry, name string) *core.Model {
	for _, m := range r.AllModels() {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func TestModelRegistry_Register(t *testing.T) {
	r := NewModelRegistry()
	model := &core.Model{UniqueID: "model.shop.orders", Name: "orders"}

	r.Register(model)

	models := r.AllModels()
	require.Len(t, models, 1)
	assert.Same(t, model, models[0], "expected same model instance")
	assert.True(t, r.Has("orders"))
	assert.False(t, r.Has("customers"))
}

func TestModelRegistry_Resolve(t *testing.T) {
	r := newTestRegistry()

	tests := []struct {
		name      string
		tableName string
		want      string
		wantFound bool
	}{
		{name: "quoted relation name", tableName: "`analytics`.`shop`.`orders`", want: "orders", wantFound: true},
		{name: "schema qualified", tableName: "shop.orders", want: "orders", wantFound: true},
		{name: "case insensitive", tableName: "SHOP.ORDERS", want: "orders", wantFound: true},
		{name: "alias location", tableName: "analytics.shop.dim_customers", want: "customers", wantFound: true},
		{name: "other database", tableName: "prod.shop.dim_customers", want: "customers", wantFound: true},
		{name: "model name", tableName: "customers", want: "customers", wantFound: true},
		{name: "unknown", tableName: "raw.payments", wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Resolve(tt.tableName)
			assert.Equal(t, tt.wantFound, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModelRegistry_AllModels(t *testing.T) {
	r := newTestRegistry()

	models := r.AllModels()
	require.Len(t, models, 2)
	assert.Equal(t, "customers", models[0].Name)
	assert.Equal(t, "orders", models[1].Name)
}

func TestModelRegistry_AttachExposures(t *testing.T) {
	r := newTestRegistry()
	before := modelNamed(r, "orders")

	err := r.AttachExposures([]*core.Exposure{
		{
			UniqueID: "exposure.shop.sales",
			Measures: []core.ExposureMeasure{
				{Model: "ref('orders')", Name: "aov", Type: "number", SQL: "1"},
			},
			Dimensions: []core.CalculatedDimension{
				{Model: "ref('customers')", Name: "is_vip", Type: "yesno", SQL: "1"},
			},
			Parameters: []core.Parameter{{Model: "ref('orders')", Name: "grain"}},
		},
		{
			UniqueID: "exposure.shop.ops",
			Measures: []core.ExposureMeasure{
				{Model: `ref("orders")`, Name: "late", Type: "number", SQL: "2"},
			},
			DimensionGroups: []core.DurationDimensionGroup{{Model: "ref('orders')", Name: "fulfilment"}},
			Filters:         []core.Filter{{Model: "ref('customers')", Name: "region"}},
		},
	}, testutil.NewTestLogger(t))
	require.NoError(t, err)

	orders := modelNamed(r, "orders")
	require.NotNil(t, orders)
	require.Len(t, orders.ExposureMeasures, 2)
	assert.Equal(t, "aov", orders.ExposureMeasures[0].Name)
	assert.Equal(t, "late", orders.ExposureMeasures[1].Name)
	assert.Len(t, orders.Parameters, 1)
	assert.Len(t, orders.DurationGroups, 1)

	customers := modelNamed(r, "customers")
	require.NotNil(t, customers)
	assert.Len(t, customers.CalculatedDimensions, 1)
	assert.Len(t, customers.Filters, 1)

	assert.Empty(t, before.ExposureMeasures, "registered model must not be mutated")
	name, ok := r.Resolve("analytics.shop.orders")
	require.True(t, ok)
	assert.Equal(t, "orders", name)
}

func TestModelRegistry_AttachExposures_Errors(t *testing.T) {
	tests := []struct {
		name  string
		model string
		field string
	}{
		{name: "unknown model", model: "ref('ghosts')", field: "measure m"},
		{name: "not a ref", model: "orders", field: "measure m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry()
			err := r.AttachExposures([]*core.Exposure{{
				UniqueID: "exposure.shop.sales",
				Measures: []core.ExposureMeasure{{Model: tt.model, Name: "m"}},
			}}, nil)

			var cfgErr *core.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, "exposure.shop.sales", cfgErr.Model)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestModelRegistry_AttachExposures_FilteredModel(t *testing.T) {
	r := newTestRegistry()
	r.MarkKnown("payments")
	logger, rec := testutil.NewRecorder()

	err := r.AttachExposures([]*core.Exposure{{
		UniqueID: "exposure.shop.finance",
		Measures: []core.ExposureMeasure{{Model: "ref('payments')", Name: "total"}},
	}}, logger)
	require.NoError(t, err)
	assert.Len(t, r.AllModels(), 2)
	assert.True(t, rec.Contains(slog.LevelDebug, "not compiled"))
}
