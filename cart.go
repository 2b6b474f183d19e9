package sazito

import (
	"context"
	"fmt"

	"github.com/Sazito/client-sdk/internal/envelope"
	"github.com/Sazito/client-sdk/internal/singleflight"
)

// Variant is one cart line request. In the SDK shape the cart calls its
// lines "variants"; they travel as product_variants.
type Variant struct {
	ID             int64          `json:"id"`
	Count          int            `json:"count,omitempty"`
	FormAttributes map[string]any `json:"formAttributes,omitempty"`
}

// CreateCartInput is the body of a cart creation.
type CreateCartInput struct {
	Variants []Variant `json:"variants"`
}

// CartService manages the guest cart. The cart id and identifier are kept
// in the CredentialStore once the cart is created.
type CartService struct {
	client *Client
	create *singleflight.Group[*Response]
}

func newCartService(c *Client) *CartService {
	return &CartService{client: c, create: singleflight.New[*Response]()}
}

// Get returns the current cart.
func (s *CartService) Get(ctx context.Context, opts ...RequestOption) *Response {
	creds, ok := s.client.credentials.Cart()
	if !ok {
		return invalid("No cart found. Please create a cart first.")
	}
	opts = withParams(opts, Params{"identifier": creds.Identifier})
	return reshape(s.client.Get(ctx, fmt.Sprintf("%s/%d", CartsAPI, creds.ID), opts...), envelope.Cart)
}

// Create creates a cart and stores its credentials.
func (s *CartService) Create(ctx context.Context, input CreateCartInput, opts ...RequestOption) *Response {
	resp := s.client.Post(ctx, CartsAPI, input, opts...)
	if resp.OK() {
		if creds, ok := credentialsFrom(resp.Data); ok {
			s.client.credentials.SetCart(creds)
		}
	}
	return resp
}

// AddItem adds a variant to the cart, creating the cart on first use.
// Concurrent first additions share a single cart creation.
func (s *CartService) AddItem(ctx context.Context, variantID int64, count int, formAttributes map[string]any, opts ...RequestOption) *Response {
	creds, ok := s.client.credentials.Cart()
	for !ok {
		first := Variant{ID: variantID, Count: count, FormAttributes: formAttributes}
		ran := false
		resp, err, _ := s.create.DoContext(ctx, "cart", func() (*Response, error) {
			ran = true
			return s.Create(ctx, CreateCartInput{Variants: []Variant{first}}, opts...), nil
		})
		if err != nil {
			return failure(cancelledError(err))
		}
		if ran {
			return resp
		}
		// Another caller created the cart; add to it.
		if creds, ok = s.client.credentials.Cart(); ok {
			break
		}
		if abortedElsewhere(ctx, resp) {
			continue
		}
		return resp.clone()
	}

	return s.client.Post(ctx, fmt.Sprintf("%s/%d/add_products_to_cart", CartsAPI, creds.ID), map[string]any{
		"identifier":     creds.Identifier,
		"variants":       []Variant{{ID: variantID, Count: count}},
		"formAttributes": formAttributes,
	}, opts...)
}

// UpdateItem sets the quantity of a cart line.
func (s *CartService) UpdateItem(ctx context.Context, cartProductID int64, count int, opts ...RequestOption) *Response {
	creds, ok := s.client.credentials.Cart()
	if !ok {
		return invalid("No cart found")
	}
	return s.client.Post(ctx, fmt.Sprintf("%s/%d/update_products_in_cart", CartsAPI, creds.ID), map[string]any{
		"identifier":    creds.Identifier,
		"cartProductId": cartProductID,
		"variants":      []Variant{{ID: cartProductID, Count: count}},
	}, opts...)
}

// RemoveItem removes a cart line.
func (s *CartService) RemoveItem(ctx context.Context, cartProductID, variantID int64, opts ...RequestOption) *Response {
	creds, ok := s.client.credentials.Cart()
	if !ok {
		return invalid("No cart found")
	}
	return s.client.Post(ctx, fmt.Sprintf("%s/%d/remove_products_from_cart", CartsAPI, creds.ID), map[string]any{
		"identifier":    creds.Identifier,
		"cartProductId": cartProductID,
		"variants":      []Variant{{ID: variantID}},
	}, opts...)
}

// Clear forgets the cart credentials. The server-side cart is untouched.
func (s *CartService) Clear() {
	s.client.credentials.ClearCart()
}
