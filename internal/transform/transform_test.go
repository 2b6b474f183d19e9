package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSDKScenario(t *testing.T) {
	in := map[string]any{
		"first_name": "John",
		"cart_products": []any{
			map[string]any{"no_of_items": float64(2), "single_item_price": float64(100)},
		},
	}

	got := ToSDK(in)

	assert.Equal(t, map[string]any{
		"firstName": "John",
		"items": []any{
			map[string]any{"quantity": float64(2), "unitPrice": float64(100)},
		},
	}, got)
}

func TestToSDKLeavesScalarsAndEmpty(t *testing.T) {
	assert.Equal(t, map[string]any{}, ToSDK(map[string]any{}))
	assert.Equal(t, []any{"a_b", float64(1), nil}, ToSDK([]any{"a_b", float64(1), nil}))
	assert.Equal(t, "snake_value", ToSDK("snake_value"))
	assert.Nil(t, ToSDK(nil))
}

func TestToSDKDoesNotUnwrapSingleKey(t *testing.T) {
	in := map[string]any{"cart": map[string]any{"cart_products": []any{}}}

	got := ToSDK(in).(map[string]any)

	require.Contains(t, got, "cart")
	assert.Contains(t, got["cart"], "items")
}

func TestToWireUsesFirstSeenReverse(t *testing.T) {
	tests := []struct {
		sdk  string
		wire string
	}{
		{"items", "cart_products"},
		{"identifier", "unique_identifier"},
		{"name", "product_name"},
		{"stockQuantity", "stock_quantity"},
		{"digipayPaymentGateway", "activate_digipay_payment"},
		{"firstName", "first_name"},
		{"someNewField", "some_new_field"},
	}
	for _, tt := range tests {
		t.Run(tt.sdk, func(t *testing.T) {
			assert.Equal(t, tt.wire, Default().WireName(tt.sdk))
		})
	}
}

func TestLossyCollapseIsNotInverted(t *testing.T) {
	in := map[string]any{"invoice_items": []any{}}

	back := ToWire(ToSDK(in)).(map[string]any)

	assert.NotContains(t, back, "invoice_items")
	assert.Contains(t, back, "cart_products")
}

func TestNormalizationIsIdempotent(t *testing.T) {
	inputs := []map[string]any{
		{"invoice_items": []any{map[string]any{"single_item_price": float64(5)}}, "title": "x"},
		{"payment_identifier": "abc", "shipping_address": map[string]any{"postal_code": "1"}},
		{"entity_name": "product", "other_props": map[string]any{"static_url": "/p"}},
		{"plain_key": true, "nested": map[string]any{"deep_key": []any{float64(1)}}},
	}
	for _, in := range inputs {
		once := ToSDK(in)
		assert.Equal(t, once, ToSDK(ToWire(once)))
	}
}

func TestLexicalConverters(t *testing.T) {
	assert.Equal(t, "fooBarBaz", SnakeToCamel("foo_bar_baz"))
	assert.Equal(t, "foo_1", SnakeToCamel("foo_1"))
	assert.Equal(t, "fooBar_", SnakeToCamel("foo_bar_"))
	assert.Equal(t, "foo_Bar", SnakeToCamel("foo_Bar"))
	assert.Equal(t, "foo_bar_baz", CamelToSnake("fooBarBaz"))
	assert.Equal(t, "_i_d", CamelToSnake("ID"))
}

func TestDictionaryFirstWireNameWins(t *testing.T) {
	d := newDictionary([]fieldPair{{"a_one", "x"}, {"b_two", "x"}})

	assert.Equal(t, "a_one", d.WireName("x"))
	assert.Equal(t, "x", d.SDKName("b_two"))
	assert.Equal(t, 2, d.Len())
}

func TestCollidingKeysResolveDeterministically(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		key  string
		want any
	}{
		{"stock", map[string]any{"stock_quantity": float64(5), "stock_number": float64(7)}, "stockQuantity", float64(7)},
		{"name", map[string]any{"title": "T", "product_name": "P"}, "name", "T"},
		{"items", map[string]any{"cart_products": "c", "invoice_items": "i", "products": "p"}, "items", "p"},
		{"already sdk shaped", map[string]any{"name": "N", "title": "T"}, "name", "T"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 200; i++ {
				got := ToSDK(tt.in).(map[string]any)
				require.Len(t, got, 1)
				require.Equal(t, tt.want, got[tt.key], "iteration %d", i)
			}
		})
	}
}

func TestToWireCollisionsResolveDeterministically(t *testing.T) {
	in := map[string]any{"productName": "lexical", "name": "listed"}

	for i := 0; i < 200; i++ {
		got := ToWire(in).(map[string]any)
		require.Equal(t, map[string]any{"product_name": "listed"}, got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := map[string]any{"a": []any{map[string]any{"b": float64(1)}}}

	cp := Clone(orig).(map[string]any)
	cp["a"].([]any)[0].(map[string]any)["b"] = float64(2)

	assert.Equal(t, float64(1), orig["a"].([]any)[0].(map[string]any)["b"])
}

func TestNormalizeStruct(t *testing.T) {
	type address struct {
		FirstName  string `json:"firstName"`
		PostalCode string `json:"postalCode,omitempty"`
	}

	got, err := Normalize(address{FirstName: "Sara"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"first_name": "Sara"}, ToWire(got))
}

func TestNormalizeRejectsUnencodable(t *testing.T) {
	_, err := Normalize(struct{ C chan int }{C: make(chan int)})
	assert.Error(t, err)
}
