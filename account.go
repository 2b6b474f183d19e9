package sazito

import (
	"context"
	"fmt"
)

// PageFilters is the pagination shared by account listings.
type PageFilters struct {
	Page    int
	PerPage int
}

func (f PageFilters) params() Params {
	params := Params{}
	if f.Page > 0 {
		params["page"] = f.Page
	}
	if f.PerPage > 0 {
		params["per_page"] = f.PerPage
	}
	return params
}

// OrderFilters narrows the order history.
type OrderFilters struct {
	PageFilters
	Status string
}

// Params renders the filters as query parameters.
func (f OrderFilters) Params() Params {
	params := f.params()
	if f.Status != "" {
		params["status"] = f.Status
	}
	return params
}

// OrdersService reads the signed-in user's orders.
type OrdersService struct {
	client *Client
}

// List returns the order history. The user must be signed in.
func (s *OrdersService) List(ctx context.Context, filters OrderFilters, opts ...RequestOption) *Response {
	opts = withParams(opts, filters.Params())
	return s.client.Get(ctx, OrdersAPI, opts...)
}

// Get returns one order by id.
func (s *OrdersService) Get(ctx context.Context, id int64, opts ...RequestOption) *Response {
	return s.client.Get(ctx, fmt.Sprintf("%s/%d", OrdersAPI, id), opts...)
}

// FeedbackFilters narrows a feedback listing.
type FeedbackFilters struct {
	PageFilters
	ProductID int64
}

// Params renders the filters as query parameters.
func (f FeedbackFilters) Params() Params {
	params := f.params()
	if f.ProductID > 0 {
		params["product_id"] = f.ProductID
	}
	return params
}

// CreateFeedbackInput is a product review.
type CreateFeedbackInput struct {
	ProductID int64  `json:"productId"`
	Rating    int    `json:"rating,omitempty"`
	Comment   string `json:"comment"`
}

// FeedbacksService reads and posts product reviews.
type FeedbacksService struct {
	client *Client
}

func (s *FeedbacksService) List(ctx context.Context, filters FeedbackFilters, opts ...RequestOption) *Response {
	opts = withParams(opts, filters.Params())
	return s.client.Get(ctx, FeedbacksAPI, opts...)
}

func (s *FeedbacksService) Get(ctx context.Context, id int64, opts ...RequestOption) *Response {
	return s.client.Get(ctx, fmt.Sprintf("%s/%d", FeedbacksAPI, id), opts...)
}

func (s *FeedbacksService) Create(ctx context.Context, input CreateFeedbackInput, opts ...RequestOption) *Response {
	return s.client.Post(ctx, FeedbacksAPI, input, opts...)
}

// TransactionFilters narrows the wallet history. Type is "credit" or "debit".
type TransactionFilters struct {
	PageFilters
	Type string
}

// Params renders the filters as query parameters.
func (f TransactionFilters) Params() Params {
	params := f.params()
	if f.Type != "" {
		params["type"] = f.Type
	}
	return params
}

// WalletService reads the signed-in user's wallet.
type WalletService struct {
	client *Client
}

func (s *WalletService) Balance(ctx context.Context, opts ...RequestOption) *Response {
	return s.client.Get(ctx, WalletAPI, opts...)
}

func (s *WalletService) Transactions(ctx context.Context, filters TransactionFilters, opts ...RequestOption) *Response {
	opts = withParams(opts, filters.Params())
	return s.client.Get(ctx, WalletTransactionsAPI, opts...)
}
