package sazito

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
)

// ImagesService uploads and removes storefront images.
type ImagesService struct {
	client *Client
}

// Upload sends r as the "image" field of a multipart form. Read and encoding
// failures are validation errors and nothing is sent.
func (s *ImagesService) Upload(ctx context.Context, filename string, r io.Reader, opts ...RequestOption) *Response {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("image", filename)
	if err == nil {
		_, err = io.Copy(part, r)
	}
	if err == nil {
		err = form.Close()
	}
	if err != nil {
		return failure(&Error{Kind: KindValidation, Message: "Failed to encode image upload", Cause: err})
	}

	opts = append(opts[:len(opts):len(opts)], WithRequestHeader("Content-Type", form.FormDataContentType()))
	return s.client.Post(ctx, ImagesAPI, rawBody{data: buf.Bytes()}, opts...)
}

// Delete removes an uploaded image.
func (s *ImagesService) Delete(ctx context.Context, id int64, opts ...RequestOption) *Response {
	return s.client.Delete(ctx, resourcePath(ImagesAPI, id), opts...)
}

// Visit entity types understood by the analytics endpoint.
const (
	VisitEntityProduct  = "product"
	VisitEntityCategory = "category"
)

// VisitInput is one page view.
type VisitInput struct {
	URL        string `json:"url"`
	Referrer   string `json:"referrer,omitempty"`
	UserAgent  string `json:"userAgent,omitempty"`
	EntityType string `json:"entityType,omitempty"`
	EntityID   int64  `json:"entityId,omitempty"`
}

// VisitsService records page views for storefront analytics.
type VisitsService struct {
	client *Client
}

// Track records one page view.
func (s *VisitsService) Track(ctx context.Context, input VisitInput, opts ...RequestOption) *Response {
	return s.client.Post(ctx, VisitsAPI, input, opts...)
}

// TrackProduct records a view of a product page.
func (s *VisitsService) TrackProduct(ctx context.Context, productID int64, pageURL string, opts ...RequestOption) *Response {
	return s.Track(ctx, VisitInput{URL: pageURL, EntityType: VisitEntityProduct, EntityID: productID}, opts...)
}

// TrackCategory records a view of a category page.
func (s *VisitsService) TrackCategory(ctx context.Context, categoryID int64, pageURL string, opts ...RequestOption) *Response {
	return s.Track(ctx, VisitInput{URL: pageURL, EntityType: VisitEntityCategory, EntityID: categoryID}, opts...)
}
