package sazito

import (
	"context"

	"github.com/Sazito/client-sdk/internal/singleflight"
)

// DeduplicationTracker coalesces concurrent identical GETs: while one is in
// flight, later callers with the same cache key wait for its result instead
// of sending their own. Sequential calls are unaffected.
type DeduplicationTracker struct {
	group *singleflight.Group[*Response]
}

// NewDeduplicationTracker returns an empty tracker.
func NewDeduplicationTracker() *DeduplicationTracker {
	return &DeduplicationTracker{group: singleflight.New[*Response]()}
}

// Do runs fn once per key among overlapping callers. Every caller receives
// its own copy of the result; joined is true for callers that did not run fn.
//
// A shared result that failed only because its owner's context ended is not
// handed on: a waiter whose own context is still live fetches again.
func (dt *DeduplicationTracker) Do(ctx context.Context, key string, fn func() *Response) (resp *Response, joined bool) {
	for {
		ran := false
		v, err, _ := dt.group.DoContext(ctx, key, func() (*Response, error) {
			ran = true
			return fn(), nil
		})
		if err != nil {
			return failure(cancelledError(err)), !ran
		}
		if !ran && abortedElsewhere(ctx, v) {
			continue
		}
		return v.clone(), !ran
	}
}

// InFlight reports the number of keys currently being fetched.
func (dt *DeduplicationTracker) InFlight() int {
	return dt.group.InFlight()
}

// abortedElsewhere reports whether resp failed only because the caller that
// produced it gave up, while ctx is still live.
func abortedElsewhere(ctx context.Context, resp *Response) bool {
	return resp != nil && resp.Err != nil && resp.Err.aborted && ctx.Err() == nil
}
