package lkml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_View(t *testing.T) {
	doc := Map{}.Set("view", Map{}.
		Set("name", "orders").
		Set("sql_table_name", "`proj.shop.orders`").
		Set("dimension_groups", []Map{
			Map{}.
				Set("name", "created_at").
				Set("type", "time").
				Set("sql", "${TABLE}.created_at").
				Set("description", "").
				Set("datatype", "timestamp").
				Set("timeframes", []string{"raw", "date"}),
		}).
		Set("dimensions", []Map{
			Map{}.
				Set("name", "id").
				Set("type", "number").
				Set("sql", "${TABLE}.id").
				Set("description", `The "order" id`).
				Set("primary_key", "yes"),
		}).
		Set("measures", []Map{
			Map{}.
				Set("name", "completed").
				Set("type", "count").
				Set("filters", Pairs{{Key: "status", Value: "complete"}}),
			Map{}.
				Set("name", "count").
				Set("type", "count").
				Set("description", "Default count measure"),
		}))

	got, err := Marshal(doc)
	require.NoError(t, err)

	want := `view: orders {
  sql_table_name: ` + "`proj.shop.orders`" + ` ;;

  dimension_group: created_at {
    type: time
    sql: ${TABLE}.created_at ;;
    description: ""
    datatype: timestamp
    timeframes: [raw, date]
  }

  dimension: id {
    type: number
    sql: ${TABLE}.id ;;
    description: "The \"order\" id"
    primary_key: yes
  }

  measure: completed {
    type: count
    filters: [status: "complete"]
  }

  measure: count {
    type: count
    description: "Default count measure"
  }
}
`
	assert.Equal(t, want, string(got))
}

func TestMarshal_Model(t *testing.T) {
	doc := Map{}.
		Set("connection", "shop").
		Set("include", "views/*").
		Set("explore", Map{}.
			Set("name", "orders").
			Set("description", "Orders").
			Set("joins", []Map{
				Map{}.
					Set("name", "customers").
					Set("type", "left_outer").
					Set("relationship", "many_to_one").
					Set("sql_on", "${orders.customer_id} = ${customers.id}"),
			}).
			Set("sql_always_where", "${orders.status} != 'test'"))

	got, err := Marshal(doc)
	require.NoError(t, err)

	want := `connection: "shop"
include: "views/*"

explore: orders {
  description: "Orders"

  join: customers {
    type: left_outer
    relationship: many_to_one
    sql_on: ${orders.customer_id} = ${customers.id} ;;
  }
  sql_always_where: ${orders.status} != 'test' ;;
}
`
	assert.Equal(t, want, string(got))
}

func TestMarshal_ParameterAndScalars(t *testing.T) {
	doc := Map{}.Set("parameter", Map{}.
		Set("name", "granularity").
		Set("type", "unquoted").
		Set("hidden", true).
		Set("precision", 2).
		Set("allowed_values", []Map{
			Map{}.Set("label", "Day").Set("value", "day"),
		}))

	got, err := Marshal(doc)
	require.NoError(t, err)

	want := `parameter: granularity {
  type: unquoted
  hidden: yes
  precision: 2

  allowed_value: {
    label: "Day"
    value: "day"
  }
}
`
	assert.Equal(t, want, string(got))
}

func TestMarshal_FilterOnNameColumn(t *testing.T) {
	doc := Map{}.Set("measure", Map{}.Set("name", "m").Set("type", "count").
		Set("filters", Pairs{{Key: "name", Value: "-NULL"}}))

	got, err := Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, "measure: m {\n  type: count\n  filters: [name: \"-NULL\"]\n}\n", string(got))
}

func TestMarshal_NamedFiltersAreBlocks(t *testing.T) {
	doc := Map{}.Set("view", Map{}.Set("name", "v").Set("filters", []Map{
		Map{}.Set("name", "region").Set("type", "string").Set("sql", "{% condition region %} ${TABLE}.region {% endcondition %}"),
	}))

	got, err := Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, `view: v {
  filter: region {
    type: string
    sql: {% condition region %} ${TABLE}.region {% endcondition %} ;;
  }
}
`, string(got))
}

func TestMarshal_QuoteEscapes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`C:\`, `description: "C:\\"`},
		{`say "hi"`, `description: "say \"hi\""`},
		{`a\"b`, `description: "a\\\"b"`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Marshal(Map{}.Set("description", tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", string(got))
		})
	}
}

func TestMarshal_EmptyListsOmitted(t *testing.T) {
	got, err := Marshal(Map{}.Set("view", Map{}.Set("name", "v").Set("dimensions", []Map{})))
	require.NoError(t, err)
	assert.Equal(t, "view: v {\n}\n", string(got))
}

func TestMarshal_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  Map
		path string
	}{
		{
			name: "unsupported scalar",
			doc:  Map{}.Set("view", Map{}.Set("name", "v").Set("weight", 1.5)),
			path: "view.weight",
		},
		{
			name: "nil value",
			doc:  Map{}.Set("view", Map{}.Set("name", "v").Set("sql", nil)),
			path: "view.sql",
		},
		{
			name: "non-string inline filter",
			doc: Map{}.Set("measure", Map{}.Set("name", "m").
				Set("filters", Pairs{{Key: "status", Value: 3}})),
			path: "measure.filters[0].status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Marshal(tt.doc)
			var merr *MarshalError
			require.ErrorAs(t, err, &merr)
			assert.Equal(t, tt.path, merr.Path)
		})
	}
}

func TestMarshal_Deterministic(t *testing.T) {
	doc := Map{}.Set("view", Map{}.Set("name", "v").Set("dimensions", []Map{
		Map{}.Set("name", "a").Set("type", "string"),
		Map{}.Set("name", "b").Set("type", "number"),
	}))
	first, err := Marshal(doc)
	require.NoError(t, err)
	second, err := Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
