package sazito

import (
	"encoding/json"
	"fmt"

	"github.com/Sazito/client-sdk/internal/transform"
)

// Response is the uniform result of every call. Exactly one of Data or Err
// is meaningful: Err is nil on success.
type Response struct {
	Data   any
	Err    *Error
	Status int
	Cached bool

	attempts int
}

// OK reports whether the call succeeded.
func (r *Response) OK() bool {
	return r != nil && r.Err == nil
}

// Decode copies Data into v through its JSON form. Field names are the SDK
// (camelCase) names.
func (r *Response) Decode(v any) error {
	if r == nil {
		return fmt.Errorf("decode: nil response")
	}
	if r.Err != nil {
		return r.Err
	}
	b, err := json.Marshal(r.Data)
	if err != nil {
		return fmt.Errorf("decode: marshal data: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// Decode is the typed form of Response.Decode.
func Decode[T any](r *Response) (T, error) {
	var out T
	err := r.Decode(&out)
	return out, err
}

func (r *Response) clone() *Response {
	if r == nil {
		return nil
	}
	out := *r
	out.Data = transform.Clone(r.Data)
	if r.Err != nil {
		e := *r.Err
		e.Details = transform.Clone(r.Err.Details)
		out.Err = &e
	}
	return &out
}

func success(data any, status int) *Response {
	return &Response{Data: data, Status: status}
}
