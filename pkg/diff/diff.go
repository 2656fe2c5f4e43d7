// Package diff provides structural comparison helpers for JSON-like values
// (maps, slices, scalars) as produced by encoding/json decoding. It is pure
// and schema-agnostic so it can be shared across every content kind.
package diff

import (
	"sort"
	"strings"
)

// DeepEqual reports whether two JSON-like values are structurally equal.
// Maps compare by key set regardless of order, slices compare element-wise
// in order, numbers compare by value across int/float representations.
// A nil value only equals another nil; mismatched shapes are unequal.
func DeepEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case map[string]interface{}:
		bv, ok := b.(map[string]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bval, exists := bv[k]
			if !exists || !DeepEqual(v, bval) {
				return false
			}
		}
		return true
	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !DeepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	}

	// JSON decoding yields float64 for every number, but values built in
	// code may carry int. Compare numerics by value.
	if an, aok := toFloat(a); aok {
		bn, bok := toFloat(b)
		return bok && an == bn
	}

	return a == b
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// NormalizeTags trims each tag, drops empties and sorts lexicographically.
// Duplicate non-empty tags are kept; normalization is about ordering and
// whitespace, not deduplication.
func NormalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	sort.Strings(normalized)
	return normalized
}

// TagsEqual compares two tag sets after normalization, so reordering or
// whitespace differences do not register as a change. Both empty (or nil)
// means equal; exactly one empty means unequal.
func TagsEqual(a, b []string) bool {
	na := NormalizeTags(a)
	nb := NormalizeTags(b)
	if len(na) != len(nb) {
		return false
	}
	for i := range na {
		if na[i] != nb[i] {
			return false
		}
	}
	return true
}

// TopLevelChanges returns the sorted set of top-level keys whose values
// differ between two maps. A key missing from one side counts as changed
// unless the other side's value is nil.
func TopLevelChanges(previous, next map[string]interface{}) []string {
	keys := make(map[string]struct{}, len(previous)+len(next))
	for k := range previous {
		keys[k] = struct{}{}
	}
	for k := range next {
		keys[k] = struct{}{}
	}

	var changed []string
	for k := range keys {
		if !DeepEqual(previous[k], next[k]) {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	return changed
}
