// Package sazito is a client for the Sazito storefront API.
//
// A Client exposes one service per resource (Products, Cart, Invoices,
// Payments, Users and so on). Every call returns a *Response that carries
// either Data or an *Error; request methods never return a Go error. Error
// kinds are network, api and validation:
//
//   - network: the request never produced an HTTP response (timeouts included)
//   - api: the server answered with a non-2xx status
//   - validation: a precondition failed locally and no request was sent
//
// Responses are unwrapped from the backend envelope and converted to the SDK
// shape: camelCase keys with a few renamed fields (product_variants becomes
// variants, slug becomes urlSlug). Request bodies take the reverse path.
//
// GET responses are cached per resource family; a POST, PUT or DELETE drops
// the cached GETs of its family. 5xx answers are retried with a linear delay.
// WithCircuitBreaker stops calling a failing backend for a while; calls
// made while it is open fail fast with a network error.
//
// Typical usage:
//
//	client := sazito.New(
//	    sazito.WithDomain("shop.example.com"),
//	    sazito.WithMaxRetries(2),
//	    sazito.WithCacheFamily(sazito.FamilySearch, true, time.Minute),
//	)
//	resp := client.Products.List(ctx, sazito.ProductFilters{Sort: sazito.SortNewest})
//	if resp.Err != nil {
//	    log.Printf("listing failed: %v", resp.Err)
//	}
//
// Guest checkout state (cart, invoice, shipping address and payment
// credentials) is persisted through a storage.Storage; the auth token goes
// to a storage.CookieStorage. Both default to process memory.
package sazito
