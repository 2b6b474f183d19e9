package sazito

import (
	"net/http"
	"regexp"
	"strings"
	"time"
)

// Params holds query parameters for a request. Nil values are skipped when
// the URL is built.
type Params map[string]any

// Middleware represents a middleware function
type Middleware func(req *http.Request, next RoundTripper) (*http.Response, error)

// RoundTripper represents the HTTP transport interface
type RoundTripper interface {
	RoundTrip(*http.Request) (*http.Response, error)
}

// RoundTripperFunc is a helper type for middleware and stub transports.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Option represents a configuration option
type Option func(*Client)

// RequestOption tunes a single call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	params  Params
	retries *int
	timeout time.Duration
	cache   *bool
	headers map[string]string
}

// Family is a resource family: a group of endpoints sharing one cache policy
// and one invalidation partition.
type Family string

const (
	FamilyProducts     Family = "products"
	FamilyCategories   Family = "categories"
	FamilyCart         Family = "cart"
	FamilyOrders       Family = "orders"
	FamilySearch       Family = "search"
	FamilyCMS          Family = "cms"
	FamilyTags         Family = "tags"
	FamilyEntityRoutes Family = "entityRoutes"
)

// Families lists every recognised family in resolution order.
func Families() []Family {
	return []Family{
		FamilyProducts, FamilyCategories, FamilyCart, FamilyOrders,
		FamilySearch, FamilyTags, FamilyEntityRoutes, FamilyCMS,
	}
}

var familyFragments = []struct {
	fragment string
	family   Family
}{
	{"/products", FamilyProducts},
	{"/product_categories", FamilyCategories},
	{"/cart", FamilyCart},
	{"/orders", FamilyOrders},
	{"/search", FamilySearch},
	{"/tags", FamilyTags},
	{"/entity_route", FamilyEntityRoutes},
}

// FamilyFor resolves the family of an endpoint path. Paths that match no
// known fragment belong to FamilyCMS.
func FamilyFor(path string) Family {
	for _, f := range familyFragments {
		if strings.Contains(path, f.fragment) {
			return f.family
		}
	}
	return FamilyCMS
}

// Valid reports whether f is one of the recognised families.
func (f Family) Valid() bool {
	switch f {
	case FamilyProducts, FamilyCategories, FamilyCart, FamilyOrders,
		FamilySearch, FamilyCMS, FamilyTags, FamilyEntityRoutes:
		return true
	}
	return false
}

// Token is the URL fragment identifying cached GET entries of the family.
func (f Family) Token() string {
	switch f {
	case FamilyCategories:
		return "product_categories"
	case FamilyEntityRoutes:
		return "entity_route"
	default:
		return string(f)
	}
}

// InvalidationPattern matches every cached GET key of the family.
func (f Family) InvalidationPattern() string {
	return "^GET:.*" + regexp.QuoteMeta(f.Token())
}

// Context keys for cache control
type contextKey string

const (
	CacheControlKey contextKey = "sazito_cache_control"
)

// CacheControl holds cache control options for a request
type CacheControl struct {
	Enabled bool
}
