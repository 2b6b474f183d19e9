// Package storage provides the durable key-value media the SDK persists guest
// credentials and auth tokens in.
//
// Implementations report failures as errors. The SDK's credential and token
// stores swallow them, so a broken medium degrades to "nothing stored".
package storage

import (
	"errors"
	"fmt"
)

// ErrUnavailable reports a medium that cannot be used in this environment.
var ErrUnavailable = errors.New("storage: unavailable")

// Storage is a synchronous string key-value medium.
type Storage interface {
	// Get returns the stored value and whether it exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Error wraps a backend failure with the operation and key it concerns.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Key: key, Err: err}
}

// Unavailable is a Storage that fails every call with ErrUnavailable. It
// stands in for a medium that does not exist in the current process.
type Unavailable struct{}

func (Unavailable) Get(key string) (string, bool, error) {
	return "", false, wrap("get", key, ErrUnavailable)
}

func (Unavailable) Set(key, _ string) error { return wrap("set", key, ErrUnavailable) }

func (Unavailable) Remove(key string) error { return wrap("remove", key, ErrUnavailable) }
