// Package jsontree searches decoded JSON documents (the map[string]any / []any
// trees produced by encoding/json) for values bound to a key, wherever they
// sit in the document.
package jsontree

import (
	"iter"
	"slices"
)

// Search yields every value bound to key anywhere under root. Matched values
// are still searched, so a key nested inside a match is found as well.
//
// Traversal uses an explicit stack. Mapping values are pushed in sorted key
// order and sequence elements in index order, and the most recently pushed
// branch is visited first. The resulting order is deterministic, elements of
// the same sequence are discovered last to first.
func Search(root any, key string) iter.Seq[any] {
	return func(yield func(any) bool) {
		stack := []any{root}
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			switch node := current.(type) {
			case map[string]any:
				keys := make([]string, 0, len(node))
				for k := range node {
					keys = append(keys, k)
				}
				slices.Sort(keys)
				for _, k := range keys {
					value := node[k]
					if k == key && !yield(value) {
						return
					}
					stack = append(stack, value)
				}
			case []any:
				stack = append(stack, node...)
			}
		}
	}
}

// First returns the first value Search would yield.
func First(root any, key string) (any, bool) {
	for v := range Search(root, key) {
		return v, true
	}
	return nil, false
}

// FirstMap is First restricted to values that are mappings.
func FirstMap(root any, key string) (map[string]any, bool) {
	for v := range Search(root, key) {
		m, ok := v.(map[string]any)
		if ok {
			return m, true
		}
	}
	return nil, false
}

// Collect gathers every value bound to key in discovery order.
func Collect(root any, key string) []any {
	return slices.Collect(Search(root, key))
}

// Maps gathers every mapping bound to key in discovery order, values of
// other types are skipped.
func Maps(root any, key string) []map[string]any {
	var out []map[string]any
	for v := range Search(root, key) {
		m, ok := v.(map[string]any)
		if ok {
			out = append(out, m)
		}
	}
	return out
}

// Path walks nested mappings along keys and returns the value at the end.
func Path(root any, keys ...string) (any, bool) {
	current := root
	for _, k := range keys {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[k]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// String is Path for string leaves.
func String(root any, keys ...string) (string, bool) {
	v, ok := Path(root, keys...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
