// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package vartype provides a value wrapper that tells a value the upstream API did not deliver
// apart from its zero value.
package vartype

import (
	"fmt"
)

// NotProvided is the string representation of a Variable that has never been set.
const NotProvided = "not provided"

type (
	// VarFloat64 is a type alias for Variable[float64], representing a float64 value with initialization tracking.
	VarFloat64 = Variable[float64]

	// VarInt is a type alias for Variable[int], representing an integer value with initialization tracking.
	VarInt = Variable[int]
)

// Variable holds a value and tracks whether it was ever set.
type Variable[T any] struct {
	value T
	isset bool
}

// NewVariable creates and returns a new Variable instance initialized with the provided value.
func NewVariable[T any](value T) Variable[T] {
	return Variable[T]{
		isset: true,
		value: value,
	}
}

// FromPtr returns a set Variable holding *ptr, or an unset Variable if ptr is nil. Response
// types decode optional JSON numbers into pointers, so this is the usual way to map them.
func FromPtr[T any](ptr *T) Variable[T] {
	if ptr == nil {
		return Variable[T]{}
	}
	return NewVariable(*ptr)
}

// Reset clears the value of the Variable and marks it as uninitialized.
func (v *Variable[T]) Reset() {
	var newVal T
	v.value = newVal
	v.isset = false
}

// Value returns the stored value, or the zero value of T if the Variable is unset.
func (v Variable[T]) Value() T {
	return v.value
}

// Get returns the stored value and whether it was set.
func (v Variable[T]) Get() (T, bool) {
	return v.value, v.isset
}

// Set assigns the provided value to the Variable and marks it as initialized.
func (v *Variable[T]) Set(val T) {
	v.value = val
	v.isset = true
}

// IsSet returns true if the Variable has been initialized with a value, otherwise false.
func (v Variable[T]) IsSet() bool {
	return v.isset
}

// String returns a string representation of the Variable. If uninitialized, it returns NotProvided.
func (v Variable[T]) String() string {
	if !v.isset {
		return NotProvided
	}
	return fmt.Sprint(v.value)
}
