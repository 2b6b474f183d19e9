// Package transform converts JSON-shaped values between the backend's
// snake_case wire shape and the camelCase SDK shape.
//
// Values are the generic trees produced by encoding/json: map[string]any,
// []any and scalar leaves. Anything else is returned untouched.
package transform

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ToSDK rewrites every mapping key in v to its SDK name. Mappings wrapped under a
// single key are left alone; unwrapping belongs to the envelope package.
func ToSDK(v any) any {
	return defaultDictionary.ToSDK(v)
}

// ToWire rewrites every mapping key in v to its wire name.
func ToWire(v any) any {
	return defaultDictionary.ToWire(v)
}

// ToSDK applies d's SDK naming recursively.
//
// When several keys of one mapping land on the same SDK name
// (stock_quantity and stock_number both give stockQuantity) the key whose
// pair is listed last in the dictionary wins; keys outside the dictionary
// lose to listed ones, and ties between them go to the lexically greater key.
func (d *Dictionary) ToSDK(v any) any {
	return d.rename(v, d.SDKName, d.wireRank)
}

// ToWire applies d's wire naming recursively. Collisions are settled as in
// ToSDK, ranked by the SDK names.
func (d *Dictionary) ToWire(v any) any {
	return d.rename(v, d.WireName, d.sdkRank)
}

func (d *Dictionary) rename(v any, name func(string) string, rank map[string]int) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for _, k := range writeOrder(t, rank) {
			out[name(k)] = d.rename(t[k], name, rank)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = d.rename(val, name, rank)
		}
		return out
	default:
		return v
	}
}

// writeOrder lists the keys of m so that the collision winner is written
// last: unlisted keys first, then listed keys by dictionary position.
func writeOrder(m map[string]any, rank map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	pos := func(k string) int {
		if r, ok := rank[k]; ok {
			return r
		}
		return -1
	}
	sort.Slice(keys, func(i, j int) bool {
		pi, pj := pos(keys[i]), pos(keys[j])
		if pi != pj {
			return pi < pj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// SnakeToCamel upper-cases every lowercase ASCII letter that follows an
// underscore and drops that underscore. Other underscores are kept.
func SnakeToCamel(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' && i+1 < len(s) && s[i+1] >= 'a' && s[i+1] <= 'z' {
			b.WriteByte(s[i+1] - ('a' - 'A'))
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// CamelToSnake replaces every ASCII upper-case letter with an underscore
// followed by its lower-case form.
func CamelToSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			b.WriteByte('_')
			b.WriteByte(c + ('a' - 'A'))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Clone returns a deep copy of a generic JSON tree.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Clone(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Clone(val)
		}
		return out
	default:
		return v
	}
}

// Normalize converts an arbitrary Go value (structs, typed maps, slices) into
// the generic tree form the rename functions operate on.
func Normalize(v any) (any, error) {
	switch v.(type) {
	case nil, map[string]any, []any, string, bool, float64:
		return v, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalize %T: %w", v, err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("normalize %T: %w", v, err)
	}
	return out, nil
}
