package resource

import (
	palerrors "github.com/wippyai/pal/errors"
)

// View provides type-safe access to resources of a single type.
// It is a thin wrapper over a shared Table; a subsystem constructs a View
// for its own resource type instead of asserting on Table values.
type View[T any] struct {
	table  *Table
	typeID uint32
}

// NewView creates a typed view over a table.
func NewView[T any](t *Table, typeID uint32) View[T] {
	return View[T]{table: t, typeID: typeID}
}

// Insert adds a value and returns its handle.
func (v View[T]) Insert(value T) Handle {
	return v.table.Insert(v.typeID, value)
}

// Get retrieves a value by handle.
func (v View[T]) Get(h Handle) (T, bool) {
	var zero T
	value, ok := v.table.GetTyped(h, v.typeID)
	if !ok {
		return zero, false
	}
	typed, ok := value.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Remove destroys a resource and returns its value. A live handle of a
// different type is rejected without being destroyed.
func (v View[T]) Remove(h Handle) (T, error) {
	var zero T
	if _, ok := v.table.GetTyped(h, v.typeID); !ok {
		if _, live := v.table.Get(h); live {
			return zero, palerrors.InvalidArgument(palerrors.DomainResource, "destroy", "handle type mismatch")
		}
		// Dead or stale: let the table produce the precise failure.
	}
	value, err := v.table.Remove(h)
	if err != nil {
		return zero, err
	}
	typed, _ := value.(T)
	return typed, nil
}

// Len returns the number of active resources of this view's type.
func (v View[T]) Len() int {
	count := 0
	v.table.Each(func(_ Handle, typeID uint32, _ any) bool {
		if typeID == v.typeID {
			count++
		}
		return true
	})
	return count
}

// Each iterates over all active resources of this view's type.
func (v View[T]) Each(fn func(Handle, T) bool) {
	v.table.Each(func(h Handle, typeID uint32, value any) bool {
		if typeID != v.typeID {
			return true
		}
		typed, ok := value.(T)
		if !ok {
			return true
		}
		return fn(h, typed)
	})
}
