// Package singleflight coalesces concurrent calls that share a key.
package singleflight

import (
	"context"
	"sync"
)

// Group runs at most one call per key at a time. The zero value is not usable;
// call New.
type Group[T any] struct {
	mu sync.Mutex
	m  map[string]*call[T]
}

type call[T any] struct {
	done chan struct{}
	val  T
	err  error
	dups int
}

// New creates an empty Group.
func New[T any]() *Group[T] {
	return &Group[T]{m: make(map[string]*call[T])}
}

// Do runs fn once for concurrent callers with the same key. shared reports
// whether the result was handed to more than one caller.
func (g *Group[T]) Do(key string, fn func() (T, error)) (v T, err error, shared bool) {
	return g.DoContext(context.Background(), key, fn)
}

// DoContext is Do with a context bounding how long a duplicate caller waits.
// The owner's fn is not cancelled when a waiter gives up.
func (g *Group[T]) DoContext(ctx context.Context, key string, fn func() (T, error)) (v T, err error, shared bool) {
	g.mu.Lock()
	if c, ok := g.m[key]; ok {
		c.dups++
		g.mu.Unlock()
		select {
		case <-c.done:
			return c.val, c.err, true
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err(), true
		}
	}
	c := &call[T]{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	g.run(key, c, fn)

	g.mu.Lock()
	shared = c.dups > 0
	g.mu.Unlock()
	return c.val, c.err, shared
}

// TryDo runs fn only when no call for key is in flight. ok is false and err is
// ErrInProgress otherwise.
func (g *Group[T]) TryDo(key string, fn func() (T, error)) (v T, err error, ok bool) {
	g.mu.Lock()
	if _, busy := g.m[key]; busy {
		g.mu.Unlock()
		var zero T
		return zero, ErrInProgress, false
	}
	c := &call[T]{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	g.run(key, c, fn)
	return c.val, c.err, true
}

func (g *Group[T]) run(key string, c *call[T], fn func() (T, error)) {
	defer func() {
		g.mu.Lock()
		if g.m[key] == c {
			delete(g.m, key)
		}
		g.mu.Unlock()
		close(c.done)
	}()
	c.val, c.err = fn()
}

// Forget drops key so the next call starts a fresh execution even while an
// earlier one is still running.
func (g *Group[T]) Forget(key string) {
	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()
}

// InFlight reports the number of keys currently executing.
func (g *Group[T]) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.m)
}
