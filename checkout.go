package sazito

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sazito/client-sdk/internal/envelope"
)

// InvoicesService drives the invoice built from the guest cart.
type InvoicesService struct {
	client *Client
}

// Get returns the current invoice.
func (s *InvoicesService) Get(ctx context.Context, opts ...RequestOption) *Response {
	creds, ok := s.client.credentials.Invoice()
	if !ok {
		return invalid("No invoice found. Please create an invoice first.")
	}
	opts = withParams(opts, Params{"identifier": creds.Identifier})
	return reshape(s.client.Get(ctx, fmt.Sprintf("%s/%d", InvoicesAPI, creds.ID), opts...), envelope.Invoice)
}

// Create turns the current cart into an invoice and stores its credentials.
func (s *InvoicesService) Create(ctx context.Context, opts ...RequestOption) *Response {
	cart, ok := s.client.credentials.Cart()
	if !ok {
		return invalid("No cart found. Please create a cart first.")
	}
	resp := s.client.Post(ctx, InvoicesAPI, map[string]any{
		"cart_id":         cart.ID,
		"cart_identifier": cart.Identifier,
	}, opts...)
	if resp.OK() {
		if creds, ok := credentialsFrom(resp.Data); ok {
			s.client.credentials.SetInvoice(creds)
		}
	}
	return reshape(resp, envelope.Invoice)
}

// Refresh recomputes the invoice after the cart changed.
func (s *InvoicesService) Refresh(ctx context.Context, opts ...RequestOption) *Response {
	cart, hasCart := s.client.credentials.Cart()
	invoice, hasInvoice := s.client.credentials.Invoice()
	if !hasCart || !hasInvoice {
		return invalid("No cart or invoice found")
	}
	return reshape(s.client.Post(ctx, fmt.Sprintf("%s/%d/refresh", InvoicesV1API, invoice.ID), map[string]any{
		"cart_id":         cart.ID,
		"cart_identifier": cart.Identifier,
		"identifier":      invoice.Identifier,
	}, opts...), envelope.Invoice)
}

func (s *InvoicesService) action(ctx context.Context, action string, body map[string]any, opts []RequestOption) *Response {
	invoice, ok := s.client.credentials.Invoice()
	if !ok {
		return invalid("No invoice found")
	}
	body["identifier"] = invoice.Identifier
	return reshape(s.client.Post(ctx, fmt.Sprintf("%s/%d/%s", InvoicesAPI, invoice.ID, action), body, opts...), envelope.Invoice)
}

// AddShippingAddress attaches a stored shipping address to the invoice.
func (s *InvoicesService) AddShippingAddress(ctx context.Context, address ShippingAddressCredentials, opts ...RequestOption) *Response {
	cart, ok := s.client.credentials.Cart()
	if !ok {
		return invalid("No cart found")
	}
	return s.action(ctx, "add_shipping_address", map[string]any{
		"shipping_address_id":         address.ID,
		"shipping_address_identifier": address.Identifier,
		"cart_id":                     cart.ID,
		"cart_identifier":             cart.Identifier,
	}, opts)
}

// AddDiscountCode applies code, upper-cased, and remembers it on success.
func (s *InvoicesService) AddDiscountCode(ctx context.Context, code string, opts ...RequestOption) *Response {
	resp := s.action(ctx, "add_discount_code", map[string]any{
		"discount_code": strings.ToUpper(code),
	}, opts)
	if resp.OK() {
		s.client.credentials.SetDiscountCode(code)
	}
	return resp
}

// AssignShippingMethod selects shipping methods, as returned by
// ApplicableShippingMethods.
func (s *InvoicesService) AssignShippingMethod(ctx context.Context, shippings any, opts ...RequestOption) *Response {
	return s.action(ctx, "add_shipping_method", map[string]any{"shippings": shippings}, opts)
}

// AddDetails attaches a customer comment.
func (s *InvoicesService) AddDetails(ctx context.Context, comment string, opts ...RequestOption) *Response {
	return s.action(ctx, "add_invoice_details", map[string]any{"user_comment": comment}, opts)
}

// ApplicableShippingMethods lists the shipping methods valid for the invoice.
func (s *InvoicesService) ApplicableShippingMethods(ctx context.Context, opts ...RequestOption) *Response {
	invoice, ok := s.client.credentials.Invoice()
	if !ok {
		return invalid("No invoice found")
	}
	opts = withParams(opts, Params{"identifier": invoice.Identifier})
	return s.client.Get(ctx, fmt.Sprintf("%s/%d/applicable_shipping_methods", InvoicesV1API, invoice.ID), opts...)
}

// Clear forgets the invoice credentials and discount code.
func (s *InvoicesService) Clear() {
	s.client.credentials.ClearInvoice()
	s.client.credentials.ClearDiscountCode()
}

// ShippingAddress is a delivery address in the SDK shape.
type ShippingAddress map[string]any

// ShippingService manages the guest shipping address.
type ShippingService struct {
	client *Client
}

func (s *ShippingService) store(resp *Response) *Response {
	if resp.OK() {
		if creds, ok := credentialsFrom(resp.Data); ok {
			s.client.credentials.SetShippingAddress(creds)
		}
	}
	return resp
}

// CreateAddress creates an address and stores its credentials.
func (s *ShippingService) CreateAddress(ctx context.Context, address ShippingAddress, opts ...RequestOption) *Response {
	return s.store(s.client.Post(ctx, ShippingAddressesAPI, map[string]any{
		"shipping_address": map[string]any(address),
	}, opts...))
}

// UpdateAddress replaces the stored address, creating one when none exists.
func (s *ShippingService) UpdateAddress(ctx context.Context, address ShippingAddress, opts ...RequestOption) *Response {
	creds, ok := s.client.credentials.ShippingAddress()
	if !ok {
		return s.CreateAddress(ctx, address, opts...)
	}
	return s.store(s.client.Post(ctx, ShippingAddressesAPI, map[string]any{
		"identifier":       creds.Identifier,
		"shipping_address": map[string]any(address),
	}, opts...))
}

// GetAddress returns the stored address.
func (s *ShippingService) GetAddress(ctx context.Context, opts ...RequestOption) *Response {
	creds, ok := s.client.credentials.ShippingAddress()
	if !ok {
		return invalid("No shipping address found")
	}
	opts = withParams(opts, Params{"identifier": creds.Identifier})
	return s.client.Get(ctx, fmt.Sprintf("%s/%d", ShippingAddressesAPI, creds.ID), opts...)
}

// Methods lists every shipping method of the shop.
func (s *ShippingService) Methods(ctx context.Context, opts ...RequestOption) *Response {
	return s.client.Post(ctx, ShippingMethodsAPI+"/list", map[string]any{}, opts...)
}

// Clear forgets the shipping address credentials.
func (s *ShippingService) Clear() {
	s.client.credentials.ClearShippingAddress()
}

// PaymentsService drives payment of the current invoice.
type PaymentsService struct {
	client *Client
}

// Methods lists the payment methods available for the invoice as {methods}.
func (s *PaymentsService) Methods(ctx context.Context, opts ...RequestOption) *Response {
	invoice, ok := s.client.credentials.Invoice()
	if !ok {
		return invalid("No invoice found")
	}
	return reshape(s.client.Post(ctx, PaymentsAPI+"/list", map[string]any{
		"invoice_id":         invoice.ID,
		"invoice_identifier": invoice.Identifier,
	}, opts...), envelope.PaymentMethods)
}

// Create starts a payment of paymentType and stores its credentials.
func (s *PaymentsService) Create(ctx context.Context, paymentType int64, opts ...RequestOption) *Response {
	invoice, ok := s.client.credentials.Invoice()
	if !ok {
		return invalid("No invoice found")
	}
	resp := s.client.Post(ctx, PaymentsAPI, map[string]any{
		"invoice_id":         invoice.ID,
		"invoice_identifier": invoice.Identifier,
		"payment_type":       paymentType,
	}, opts...)
	if resp.OK() {
		if creds, ok := credentialsFrom(resp.Data); ok {
			s.client.credentials.SetPayment(creds)
		}
	}
	return resp
}

// Initialize runs the first processing step of the payment.
func (s *PaymentsService) Initialize(ctx context.Context, opts ...RequestOption) *Response {
	payment, ok := s.client.credentials.Payment()
	if !ok {
		return invalid("No payment found. Please create a payment first.")
	}
	return s.client.Post(ctx, fmt.Sprintf("%s/%d/process_payment_step", PaymentsAPI, payment.ID), map[string]any{
		"payment_identifier": payment.Identifier,
	}, opts...)
}

// ProcessStep sends input for the next processing step.
func (s *PaymentsService) ProcessStep(ctx context.Context, input map[string]any, opts ...RequestOption) *Response {
	payment, ok := s.client.credentials.Payment()
	if !ok {
		return invalid("No payment found")
	}
	body := map[string]any{}
	for k, v := range input {
		body[k] = v
	}
	body["payment_identifier"] = payment.Identifier
	return s.client.Post(ctx, fmt.Sprintf("%s/%d/process_payment_step", PaymentsAPI, payment.ID), body, opts...)
}

// Clear forgets the payment credentials.
func (s *PaymentsService) Clear() {
	s.client.credentials.ClearPayment()
}
