package sazito

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/Sazito/client-sdk/internal/envelope"
)

// EntityKind is the closed set of entity types a route can resolve to.
type EntityKind = envelope.EntityKind

const (
	EntityUnknown  = envelope.EntityUnknown
	EntityProduct  = envelope.EntityProduct
	EntityCategory = envelope.EntityCategory
	EntityCMSPage  = envelope.EntityCMSPage
	EntityBlogPage = envelope.EntityBlogPage
)

// MenuItem is one navigable entry of a storefront menu.
type MenuItem = envelope.MenuItem

// EntityRoute is a resolved storefront URL. EntityType keeps the backend
// name, Kind its parsed form; callers decide what a mismatch means.
type EntityRoute struct {
	Kind       EntityKind
	EntityType string
	EntityID   any
	URL        string
	Entity     map[string]any
}

// RouteFrom reads the EntityRoute out of a Resolve response.
func RouteFrom(resp *Response) (EntityRoute, bool) {
	if !resp.OK() {
		return EntityRoute{}, false
	}
	m, ok := resp.Data.(map[string]any)
	if !ok {
		return EntityRoute{}, false
	}
	entityType, _ := m["entityType"].(string)
	if entityType == "" {
		return EntityRoute{}, false
	}
	route := EntityRoute{
		Kind:       envelope.ParseEntityKind(entityType),
		EntityType: entityType,
		EntityID:   m["entityId"],
	}
	route.URL, _ = m["url"].(string)
	route.Entity, _ = m["entity"].(map[string]any)
	return route, true
}

// EntityRoutesService resolves storefront URLs to entities.
type EntityRoutesService struct {
	client *Client
}

// Resolve returns the cleaned route for urlPart. The data carries entityType
// as returned by the backend, whatever type was expected.
func (s *EntityRoutesService) Resolve(ctx context.Context, urlPart string, opts ...RequestOption) *Response {
	opts = withParams(opts, Params{"url_part": urlPart})
	resp := s.client.Get(ctx, EntityRouteAPI, opts...)
	return reshape(resp, func(data any) any {
		if route, ok := envelope.EntityRoute(data); ok {
			return route
		}
		return data
	})
}

// MenuService reads storefront menus.
type MenuService struct {
	client *Client
}

// DefaultMenuIdentifier is the header menu tree.
const DefaultMenuIdentifier = "headermenu"

// HeaderMenu returns the menu tree identifier as []MenuItem. An empty
// identifier selects DefaultMenuIdentifier.
func (s *MenuService) HeaderMenu(ctx context.Context, identifier string, opts ...RequestOption) *Response {
	if identifier == "" {
		identifier = DefaultMenuIdentifier
	}
	opts = withParams(opts, Params{"identifier": identifier})
	resp := s.client.Get(ctx, MenuAPI, opts...)
	if !resp.OK() {
		return resp
	}
	resp.Data = envelope.Navigation(envelope.MenuNodes(envelope.Menu(resp.Data)))
	return resp
}

// Items decodes the navigation of a HeaderMenu response.
func (s *MenuService) Items(resp *Response) []MenuItem {
	if items, ok := resp.Data.([]MenuItem); ok && resp.OK() {
		return items
	}
	return nil
}

// GeneralService reads shop-wide settings.
type GeneralService struct {
	client *Client
}

// Info returns the shop information with the general and shop sections
// merged under shop.
func (s *GeneralService) Info(ctx context.Context, opts ...RequestOption) *Response {
	return reshape(s.client.Get(ctx, GeneralAPI, opts...), envelope.GeneralInfo)
}

// Section returns one top-level section of Info, e.g. "features",
// "checkout", "wallet" or "tajrobe".
func (s *GeneralService) Section(ctx context.Context, name string, opts ...RequestOption) *Response {
	resp := s.Info(ctx, opts...)
	if !resp.OK() {
		return resp
	}
	if m, ok := resp.Data.(map[string]any); ok {
		resp.Data = m[name]
	} else {
		resp.Data = nil
	}
	return resp
}

// Features returns the shop feature flags.
func (s *GeneralService) Features(ctx context.Context, opts ...RequestOption) *Response {
	return s.Section(ctx, "features", opts...)
}

// CheckoutConfig returns the checkout settings.
func (s *GeneralService) CheckoutConfig(ctx context.Context, opts ...RequestOption) *Response {
	return s.Section(ctx, "checkout", opts...)
}

// CMSPageType discriminates CMS listings.
type CMSPageType string

const (
	CMSPageNormal CMSPageType = "normal"
	CMSPageBlog   CMSPageType = "blog"
)

// CMSFilters narrows a CMS page listing.
type CMSFilters struct {
	Page         int
	PageSize     int
	CMSPageTypes CMSPageType
}

// Params renders the filters as query parameters.
func (f CMSFilters) Params() Params {
	params := Params{}
	if f.Page > 0 {
		params["page_number"] = f.Page
	}
	if f.PageSize > 0 {
		params["page_size"] = f.PageSize
	}
	if f.CMSPageTypes != "" {
		b, err := json.Marshal(filterClause{Name: "cms_page_types", Value: string(f.CMSPageTypes)})
		if err == nil {
			params["filters[]"] = string(b)
		}
	}
	return params
}

// CMSService reads content pages and blog posts.
type CMSService struct {
	client *Client
}

// GetPage returns one page by id or slug.
func (s *CMSService) GetPage(ctx context.Context, idOrSlug any, opts ...RequestOption) *Response {
	return reshape(s.client.Get(ctx, resourcePath(CMSPagesAPI, idOrSlug), opts...), envelope.CMSPage)
}

// ListPages returns {items, total, page, pageSize}.
func (s *CMSService) ListPages(ctx context.Context, filters CMSFilters, opts ...RequestOption) *Response {
	opts = withParams(opts, filters.Params())
	return reshape(s.client.Get(ctx, CMSPagesAPI, opts...), envelope.CMSList)
}

// GetBlogPost returns one blog page by id or slug.
func (s *CMSService) GetBlogPost(ctx context.Context, idOrSlug any, opts ...RequestOption) *Response {
	return s.GetPage(ctx, idOrSlug, opts...)
}

// ListBlogPosts lists pages of the blog type.
func (s *CMSService) ListBlogPosts(ctx context.Context, page, pageSize int, opts ...RequestOption) *Response {
	return s.ListPages(ctx, CMSFilters{Page: page, PageSize: pageSize, CMSPageTypes: CMSPageBlog}, opts...)
}

// CategoriesService reads product categories.
type CategoriesService struct {
	client *Client
}

// Get returns one category by id or slug.
func (s *CategoriesService) Get(ctx context.Context, idOrSlug any, opts ...RequestOption) *Response {
	return reshape(s.client.Get(ctx, resourcePath(ProductCategoriesAPI, idOrSlug), opts...), envelope.Category)
}

// List returns the category list and tree.
func (s *CategoriesService) List(ctx context.Context, opts ...RequestOption) *Response {
	return reshape(s.client.Get(ctx, ProductCategoriesAPI, opts...), envelope.CategoryList)
}

// TagsService reads product tags.
type TagsService struct {
	client *Client
}

// Get returns one tag by id or slug.
func (s *TagsService) Get(ctx context.Context, idOrSlug any, opts ...RequestOption) *Response {
	return s.client.Get(ctx, resourcePath(TagsAPI, idOrSlug), opts...)
}

// List returns every tag.
func (s *TagsService) List(ctx context.Context, opts ...RequestOption) *Response {
	return s.client.Get(ctx, TagsAPI, opts...)
}

// SearchService is the raw search endpoint. ProductsService.Search returns
// the bucketed form.
type SearchService struct {
	client *Client
}

// Search sends q plus params as-is.
func (s *SearchService) Search(ctx context.Context, query string, params Params, opts ...RequestOption) *Response {
	p := Params{"q": query}
	for k, v := range params {
		p[k] = v
	}
	opts = withParams(opts, p)
	return s.client.Get(ctx, SearchAPI, opts...)
}

// resourcePath appends an escaped id or slug to base.
func resourcePath(base string, idOrSlug any) string {
	return base + "/" + url.PathEscape(fmt.Sprint(idOrSlug))
}
