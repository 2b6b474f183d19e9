package sazito

import (
	"regexp"
	"testing"
)

func TestFamilyFor(t *testing.T) {
	tests := []struct {
		path string
		want Family
	}{
		{ProductsAPI, FamilyProducts},
		{ProductsAPI + "/12", FamilyProducts},
		{ProductCategoriesAPI, FamilyCategories},
		{CartsAPI + "/3/add_products_to_cart", FamilyCart},
		{OrdersAPI + "/9", FamilyOrders},
		{SearchAPI, FamilySearch},
		{TagsAPI, FamilyTags},
		{EntityRouteAPI, FamilyEntityRoutes},
		{CMSPagesAPI, FamilyCMS},
		{InvoicesAPI, FamilyCMS},
		{UsersAPI + "/current", FamilyCMS},
		{"", FamilyCMS},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FamilyFor(tt.path); got != tt.want {
				t.Errorf("FamilyFor(%q) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestFamilyInvalidationPattern(t *testing.T) {
	tests := []struct {
		family Family
		key    string
		match  bool
	}{
		{FamilyProducts, "GET:http://api/api/v1/products?page=1:", true},
		{FamilyProducts, "GET:http://api/api/v1/product_categories:", false},
		{FamilyCategories, "GET:http://api/api/v1/product_categories/2:", true},
		{FamilyEntityRoutes, "GET:http://api/api/v1/entity_route/route?url_part=%2Fx:", true},
		{FamilyCMS, "GET:http://api/api/v1/cms_pages:", true},
		{FamilyCart, "POST:http://api/api/v2/carts:", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.family), func(t *testing.T) {
			re := regexp.MustCompile(tt.family.InvalidationPattern())
			if got := re.MatchString(tt.key); got != tt.match {
				t.Errorf("pattern %q on %q = %v, want %v", re, tt.key, got, tt.match)
			}
		})
	}
}

func TestFamilies(t *testing.T) {
	families := Families()
	if len(families) != 8 {
		t.Fatalf("Expected 8 families, got %d", len(families))
	}
	for _, f := range families {
		if !f.Valid() {
			t.Errorf("Family %s reported invalid", f)
		}
		if _, ok := DefaultCacheConfig()[f]; !ok {
			t.Errorf("Family %s has no default cache policy", f)
		}
	}
	if Family("images").Valid() {
		t.Error("Unknown family reported valid")
	}
}
