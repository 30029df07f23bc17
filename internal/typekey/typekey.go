// Package typekey provides comparable identity values for Go types.
//
// A Key is produced from a type parameter at compile time, so two Keys are
// equal exactly when they were created for the same type. Keys are used as
// map keys by dispatch tables that need "one entry per concrete type"
// semantics without inspecting values through reflection.
package typekey

import (
	"fmt"
	"strings"
)

// marker is a zero-size type that is distinct for every T.
type marker[T any] struct{}

// Key identifies a Go type.
type Key struct {
	id   any
	name string
}

// Of returns the Key for T.
func Of[T any]() Key {
	return Key{
		id:   marker[T]{},
		name: nameOf[T](),
	}
}

// label is the identity of keys made by Named. It never equals a marker.
type label string

// Named returns a Key identified by an explicit name instead of a type.
// Named keys are equal when their names are, and never equal a type Key.
func Named(n string) Key {
	return Key{id: label(n), name: n}
}

// IsInterface reports whether T is an interface type.
// The zero value of an interface type boxes to a nil any, while the zero
// value of every other type (including nil pointers) does not.
func IsInterface[T any]() bool {
	var zero T
	return any(zero) == nil
}

// String returns the Go syntax name of the type, without a leading pointer star.
func (k Key) String() string {
	return k.name
}

// IsZero reports whether k was never assigned.
func (k Key) IsZero() bool {
	return k.id == nil
}

func nameOf[T any]() string {
	name := fmt.Sprintf("%T", (*T)(nil))
	return strings.TrimPrefix(name, "*")
}
