package sazito

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Sazito/client-sdk/internal/envelope"
)

// ProductSort names a storefront ordering.
type ProductSort string

const (
	SortNewest       ProductSort = "newest"
	SortBestSelling  ProductSort = "best-selling"
	SortAvailability ProductSort = "availability"
	SortDiscount     ProductSort = "discount"
	SortPriceAsc     ProductSort = "!price"
	SortPrice        ProductSort = "price"
)

type apiSort struct {
	field string
	order string
}

var productSorts = map[ProductSort]apiSort{
	SortNewest:       {field: "date"},
	SortBestSelling:  {field: "sold"},
	SortAvailability: {field: "stock_status"},
	SortDiscount:     {field: "raw_price"},
	SortPriceAsc:     {field: "price", order: "asc"},
	SortPrice:        {field: "price"},
}

// ProductFilters narrows a product listing. Zero values are not sent.
type ProductFilters struct {
	Categories []string
	// AvailableOnly set to false also lists out-of-stock products.
	AvailableOnly  *bool
	DiscountedOnly bool
	Sort           ProductSort
	PriceMin       *float64
	PriceMax       *float64
	Page           int
	PageSize       int
}

type filterClause struct {
	Name  string `json:"name"`
	Value any    `json:"value,omitempty"`
}

// Params renders the filters as query parameters.
func (f ProductFilters) Params() Params {
	params := Params{}

	var clauses []filterClause
	if len(f.Categories) > 0 {
		clauses = append(clauses, filterClause{Name: "product_categories", Value: strings.Join(f.Categories, ",")})
	}
	if f.AvailableOnly != nil && !*f.AvailableOnly {
		clauses = append(clauses, filterClause{Name: "in_stock"})
	}
	if f.DiscountedOnly {
		clauses = append(clauses, filterClause{Name: "has_raw_price", Value: true})
	}
	if len(clauses) > 0 {
		if b, err := json.Marshal(clauses); err == nil {
			params["filters[]"] = string(b)
		}
	}

	if s, ok := productSorts[f.Sort]; ok {
		params["sort"] = s.field
		if s.order != "" {
			params["sort_order"] = s.order
		}
	}
	if f.PriceMin != nil {
		params["min_price"] = *f.PriceMin
	}
	if f.PriceMax != nil {
		params["max_price"] = *f.PriceMax
	}
	if f.Page > 0 {
		params["page"] = f.Page
	}
	if f.PageSize > 0 {
		params["pageSize"] = f.PageSize
	}
	return params
}

// ProductsService reads the product catalog.
type ProductsService struct {
	client *Client
}

// Get resolves a product by slug or "/product/<slug>" path through the
// entity route. A route resolving to another entity type is an api error
// with status 404.
func (s *ProductsService) Get(ctx context.Context, slugOrPath string, opts ...RequestOption) *Response {
	urlPart := slugOrPath
	if !strings.HasPrefix(urlPart, "/product/") {
		urlPart = "/product/" + strings.TrimPrefix(urlPart, "/")
	}

	resp := s.client.EntityRoutes.Resolve(ctx, urlPart, opts...)
	if resp.Err != nil {
		return resp
	}
	route, ok := RouteFrom(resp)
	if !ok || route.Kind != EntityProduct || route.Entity == nil {
		return failure(&Error{
			Kind:    KindAPI,
			Status:  http.StatusNotFound,
			Message: "Product not found or invalid entity type",
			Details: resp.Data,
		})
	}
	return &Response{Data: route.Entity, Status: resp.Status, Cached: resp.Cached, attempts: resp.attempts}
}

// List returns a page of products as {items, total, page, pageSize, totalPages}.
func (s *ProductsService) List(ctx context.Context, filters ProductFilters, opts ...RequestOption) *Response {
	opts = withParams(opts, filters.Params())
	return reshape(s.client.Get(ctx, ProductsAPI, opts...), envelope.ProductList)
}

// Search runs a storefront search and groups hits per entity type, each
// bucket carrying its own pagination.
func (s *ProductsService) Search(ctx context.Context, query string, page, pageSize int, opts ...RequestOption) *Response {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	opts = withParams(opts, Params{
		"query":            query,
		"search_direction": "center",
		"page_size":        pageSize,
		"page_number":      page,
	})
	return reshape(s.client.Get(ctx, SearchAPI, opts...), envelope.Search)
}

// reshape applies fn to the data of a successful response.
func reshape(resp *Response, fn func(any) any) *Response {
	if resp.OK() && resp.Data != nil {
		resp.Data = fn(resp.Data)
	}
	return resp
}
