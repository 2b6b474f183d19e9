package envelope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultSelection(t *testing.T) {
	inner := map[string]any{"a": float64(1)}

	assert.Equal(t, inner, Result(map[string]any{"data": map[string]any{"result": inner}}))
	assert.Equal(t, inner, Result(map[string]any{"result": inner}))
	assert.Equal(t, map[string]any{"data": "x"}, Result(map[string]any{"data": "x"}))
	assert.Equal(t, "plain", Result("plain"))
	assert.Nil(t, Result(map[string]any{"result": nil}))
}

func TestCollapseAllowList(t *testing.T) {
	cart := map[string]any{"id": float64(7)}

	assert.Equal(t, cart, Collapse(map[string]any{"cart": cart}))
	assert.Equal(t, map[string]any{"route": cart}, Collapse(map[string]any{"route": cart}))
	assert.Equal(t, map[string]any{"cart": "scalar"}, Collapse(map[string]any{"cart": "scalar"}))

	two := map[string]any{"cart": cart, "other": float64(1)}
	assert.Equal(t, two, Collapse(two))
}

func TestUnwrapPipeline(t *testing.T) {
	payload := map[string]any{
		"data": map[string]any{
			"result": map[string]any{
				"cart": map[string]any{
					"cart_products": []any{
						map[string]any{"no_of_items": float64(2), "single_item_price": float64(100)},
					},
					"unique_identifier": "abc",
				},
			},
		},
	}

	got := Unwrap(payload)

	assert.Equal(t, map[string]any{
		"items":      []any{map[string]any{"quantity": float64(2), "unitPrice": float64(100)}},
		"identifier": "abc",
	}, got)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "bad", Message(map[string]any{"message": "bad"}))
	assert.Equal(t, "", Message(map[string]any{"message": float64(1)}))
	assert.Equal(t, "", Message("text body"))
}

func TestParseEntityKind(t *testing.T) {
	tests := map[string]EntityKind{
		"product":          EntityProduct,
		"product_category": EntityCategory,
		"cms_page":         EntityCMSPage,
		"blog_page":        EntityBlogPage,
		"url":              EntityUnknown,
		"":                 EntityUnknown,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseEntityKind(name), name)
		if want != EntityUnknown {
			assert.Equal(t, name, want.String())
		}
	}
	assert.True(t, EntityBlogPage.IsPage())
	assert.False(t, EntityProduct.IsPage())
}
