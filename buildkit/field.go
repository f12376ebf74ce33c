// Package buildkit holds the runtime pieces imported by builders produced
// by gen-builder.
package buildkit

import (
	"errors"
	"fmt"
)

// ErrMissingRequiredField is matched by every MissingFieldError.
var ErrMissingRequiredField = errors.New("missing required field")

// MissingFieldError reports a Build call made before a field was set.
type MissingFieldError struct {
	Builder string
	Field   string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: field %q is required but was not set", e.Builder, e.Field)
}

// Is reports whether target is ErrMissingRequiredField.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

// Field is a value slot that remembers whether it was assigned.
// The zero value is empty.
type Field[T any] struct {
	value T
	set   bool
}

// Set stores v and marks the slot present.
func (f *Field[T]) Set(v T) {
	f.value = v
	f.set = true
}

// Get returns the stored value and whether it was set.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.set
}

// IsSet reports whether Set was called.
func (f Field[T]) IsSet() bool {
	return f.set
}

// Require returns the stored value, or a *MissingFieldError naming
// builder and field when the slot is empty.
func (f Field[T]) Require(builder, field string) (T, error) {
	if !f.set {
		var zero T
		return zero, &MissingFieldError{Builder: builder, Field: field}
	}
	return f.value, nil
}
