package storage

import "fmt"

// GetPath walks nested document maps along keys.
func GetPath(doc map[string]any, keys ...string) (any, bool) {
	var cur any = doc
	for _, key := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// SetPath stores value at keys, creating intermediate maps. It fails when an
// intermediate value exists and is not a map.
func SetPath(doc map[string]any, value any, keys ...string) error {
	if len(keys) == 0 {
		return fmt.Errorf("empty document path")
	}
	cur := doc
	for i, key := range keys[:len(keys)-1] {
		next, ok := cur[key]
		if !ok || next == nil {
			child := map[string]any{}
			cur[key] = child
			cur = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("document path %v: %q is not an object", keys[:i+1], key)
		}
		cur = child
	}
	cur[keys[len(keys)-1]] = value
	return nil
}

// RemovePath deletes the value at keys and reports whether it existed.
func RemovePath(doc map[string]any, keys ...string) bool {
	if len(keys) == 0 {
		return false
	}
	parent, ok := GetPath(doc, keys[:len(keys)-1]...)
	if !ok {
		return false
	}
	m, ok := parent.(map[string]any)
	if !ok {
		return false
	}
	if _, ok := m[keys[len(keys)-1]]; !ok {
		return false
	}
	delete(m, keys[len(keys)-1])
	return true
}
