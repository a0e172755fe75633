package expense

import "encoding/json"

// Field is a mapped value that may be missing. It keeps "not extracted"
// distinct from a legitimate zero value.
type Field[T any] struct {
	value T
	found bool
}

// Found wraps a value that was recovered from the receipt.
func Found[T any](v T) Field[T] {
	return Field[T]{value: v, found: true}
}

// Missing marks a value that could not be recovered.
func Missing[T any]() Field[T] {
	return Field[T]{}
}

// Get returns the value and whether it was found.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.found
}

// IsFound reports whether the value was recovered.
func (f Field[T]) IsFound() bool {
	return f.found
}

// Or returns the value, or def when it is missing.
func (f Field[T]) Or(def T) T {
	if !f.found {
		return def
	}
	return f.value
}

// MarshalJSON encodes a missing field as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.found {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
