// Package envelope turns raw backend payloads into the logical payloads the
// SDK works with: it strips the result envelope, collapses single-entity
// wrappers, renames keys and cleans per-family shapes.
//
// Nothing in this package fails. Unexpected shapes pass through unchanged.
package envelope

import (
	"github.com/Sazito/client-sdk/internal/transform"
)

// wrapperKeys lists the entity names whose single-key wrapper objects are
// collapsed. Unlisted wrappers such as route are kept on purpose.
var wrapperKeys = map[string]struct{}{
	"cart":     {},
	"product":  {},
	"user":     {},
	"order":    {},
	"invoice":  {},
	"payment":  {},
	"shipping": {},
}

// IsWrapperKey reports whether key is collapsed by Unwrap.
func IsWrapperKey(key string) bool {
	_, ok := wrapperKeys[key]
	return ok
}

// Result selects the logical payload: data.result, then result, then the
// payload itself.
func Result(payload any) any {
	m, ok := payload.(map[string]any)
	if !ok {
		return payload
	}
	if data, ok := m["data"].(map[string]any); ok {
		if result, ok := data["result"]; ok {
			return result
		}
	}
	if result, ok := m["result"]; ok {
		return result
	}
	return payload
}

// Collapse replaces a single allow-listed wrapper key with its mapping value.
func Collapse(v any) any {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return v
	}
	for key, inner := range m {
		if !IsWrapperKey(key) {
			return v
		}
		if innerMap, ok := inner.(map[string]any); ok {
			return innerMap
		}
	}
	return v
}

// Unwrap runs the generic pipeline: envelope selection, wrapper collapse and
// key renaming into the SDK shape.
func Unwrap(payload any) any {
	return transform.ToSDK(Collapse(Result(payload)))
}

// Message extracts a human-readable message from an unwrapped error payload.
func Message(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	if msg, ok := m["message"].(string); ok {
		return msg
	}
	return ""
}
