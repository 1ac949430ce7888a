package ref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name             string
		input            string
		normalizeSpacing bool
		want             string
	}{
		{
			name:             "bare ref",
			input:            "ref('some_model')",
			normalizeSpacing: true,
			want:             "some_model",
		},
		{
			name:             "no token is unchanged",
			input:            "'some_model'",
			normalizeSpacing: true,
			want:             "'some_model'",
		},
		{
			name:             "no token keeps whitespace",
			input:            "  ${orders.id} =   ${customers.id} ",
			normalizeSpacing: true,
			want:             "  ${orders.id} =   ${customers.id} ",
		},
		{
			name:             "single condition",
			input:            " ${ref('model1').key1} = ${ref('model2').key2}",
			normalizeSpacing: true,
			want:             "${model1.key1}  =  ${model2.key2}",
		},
		{
			name:             "two conditions",
			input:            "${ref('model1').key1} = ${ref('model2').key2} and ${ref('model1').key2} = ${ref('model3').key1}",
			normalizeSpacing: true,
			want:             "${model1.key1}  =  ${model2.key2} and ${model1.key2}  =  ${model3.key1}",
		},
		{
			name: "nested groups",
			input: "(${ref('model1').key1} = ${ref('model2').key2} and ${ref('model1').key2} = ${ref('model3').key1} )" +
				"or( ${ref('model4').key1} = ${ref('model5').key2} or ${ref('model6').key2} = ${ref('model7').key1})",
			normalizeSpacing: true,
			want: "(${model1.key1}  =  ${model2.key2} and ${model1.key2}  =  ${model3.key1} )" +
				"or( ${model4.key1}  =  ${model5.key2} or ${model6.key2}  =  ${model7.key1})",
		},
		{
			name: "four conditions",
			input: "${ref('a').x} = ${ref('b').x} and ${ref('a').y} = ${ref('c').y} and " +
				"${ref('a').z} = ${ref('d').z} or ${ref('a').w} = ${ref('e').w}",
			normalizeSpacing: true,
			want:             "${a.x}  =  ${b.x} and ${a.y}  =  ${c.y} and ${a.z}  =  ${d.z} or ${a.w}  =  ${e.w}",
		},
		{
			name:             "double quotes and inner whitespace",
			input:            `${ref("orders").id}=${ref( "customers" ).order_id}`,
			normalizeSpacing: true,
			want:             "${orders.id}  =  ${customers.order_id}",
		},
		{
			name:             "without spacing normalization",
			input:            "${ref('orders').status} = 'complete'",
			normalizeSpacing: false,
			want:             "${orders.status} = 'complete'",
		},
		{
			name:             "without spacing normalization pads gaps",
			input:            "${ref('orders').amount} > 0 and ${ref('orders').status} = 'x'",
			normalizeSpacing: false,
			want:             "${orders.amount}  > 0 and  ${orders.status} = 'x'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.input, tt.normalizeSpacing))
		})
	}
}

func TestResolve_Idempotent(t *testing.T) {
	inputs := []string{
		"ref('some_model')",
		" ${ref('model1').key1} = ${ref('model2').key2}",
		"${ref('model1').key1} = ${ref('model2').key2} and ${ref('model1').key2} = ${ref('model3').key1}",
	}
	for _, in := range inputs {
		for _, spacing := range []bool{true, false} {
			once := Resolve(in, spacing)
			assert.Equal(t, once, Resolve(once, spacing), in)
		}
	}
}

func TestExtract(t *testing.T) {
	assert.Equal(t, []string{"model1", "model2", "model3"},
		Extract("${ref('model1').key1} = ${ref('model2').key2} and ${ref('model1').key2} = ${ref('model3').key1}"))
	assert.Equal(t, []string{"orders"}, Extract(`ref("orders")`))
	assert.Empty(t, Extract("orders"))
}

func TestSingle(t *testing.T) {
	name, err := Single("ref('orders')")
	require.NoError(t, err)
	assert.Equal(t, "orders", name)

	_, err = Single("orders")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected ref")

	_, err = Single("ref('')")
	require.Error(t, err)

	_, err = Single("${ref('a').id} = ${ref('b').id}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 models")
}

func TestStripEscapes(t *testing.T) {
	assert.Equal(t, `${orders.status} = 'it''s'`, StripEscapes(`\${orders.status} = 'it''s'`))
	assert.Equal(t, "plain", StripEscapes("plain"))
}
