package inbound

import "reflect"

// Store is a caller-owned key/value collection.
type Store map[string]any

// Get returns the value at key, or fallback when key is absent or holds
// nil. Typed nils such as []string(nil) or (*T)(nil) count as nil.
func (s Store) Get(key string, fallback any) any {
	if v, ok := s[key]; ok && !isNil(v) {
		return v
	}
	return fallback
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// Has reports whether Get(key, nil) would return a non-nil value.
func (s Store) Has(key string) bool {
	return s.Get(key, nil) != nil
}

// String returns the value at key when it is a string, else fallback.
func (s Store) String(key, fallback string) string {
	if v, ok := s.Get(key, nil).(string); ok {
		return v
	}
	return fallback
}

// All returns a copy of the whole store, or nil when the store is unset.
func (s Store) All() map[string]any {
	if s == nil {
		return nil
	}
	out := make(map[string]any, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Exists reports whether the store is set at all. It is the keyless form
// of Has.
func (s Store) Exists() bool {
	return s != nil
}

// Len returns the number of entries.
func (s Store) Len() int {
	return len(s)
}
