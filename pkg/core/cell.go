package core

import (
	"fmt"
	"reflect"
)

// Cell holds one reactive value owned by a host.
//
// Cell is NOT thread-safe. It must only be accessed from the host's loop
// goroutine; other goroutines should hand updates over with the loop's
// Dispatch.
type Cell[V any] struct {
	host      *Host
	name      string
	value     V
	equal     func(a, b V) bool
	stringify func(V) string
}

// Options configures a cell.
type Options[V any] struct {
	// Stringify serializes the value for String. Defaults to fmt.Sprint.
	Stringify func(V) string
	// Equal reports whether an assignment leaves the value unchanged.
	// Defaults to identity equality, see Same.
	Equal func(a, b V) bool
}

func newCell[V any](h *Host, name string, initial V, opts Options[V]) *Cell[V] {
	c := &Cell[V]{
		host:      h,
		name:      name,
		value:     initial,
		equal:     opts.Equal,
		stringify: opts.Stringify,
	}
	if c.equal == nil {
		c.equal = func(a, b V) bool { return Same(a, b) }
	}
	if c.stringify == nil {
		c.stringify = func(v V) string { return fmt.Sprint(v) }
	}
	return c
}

// Value returns the current value.
func (c *Cell[V]) Value() V {
	return c.value
}

// Set stores next and requests an update, unless next equals the current value.
func (c *Cell[V]) Set(next V) {
	if c.equal(c.value, next) {
		return
	}
	c.value = next
	c.host.RequestUpdate()
}

// Update applies transform to the current value and sets the result.
func (c *Cell[V]) Update(transform func(V) V) {
	c.Set(transform(c.value))
}

// String serializes the current value.
func (c *Cell[V]) String() string {
	return c.stringify(c.value)
}

// Name returns the bound field name, or "" for a free-standing value.
func (c *Cell[V]) Name() string {
	return c.name
}

// Host returns the owning host.
func (c *Cell[V]) Host() *Host {
	return c.host
}

func (c *Cell[V]) fieldValue() any {
	return c.value
}

func (c *Cell[V]) setField(v any) error {
	next, ok := assign[V](v)
	if !ok {
		return fmt.Errorf("%w: field %q holds %v, got %T", ErrFieldType, c.name, reflect.TypeFor[V](), v)
	}
	c.Set(next)
	return nil
}

// field is the untyped view of a bound cell used for host field access.
type field interface {
	fieldValue() any
	setField(v any) error
}

// assign converts v to V. A nil v converts to the zero value when V can
// hold nil.
func assign[V any](v any) (V, bool) {
	if tv, ok := v.(V); ok {
		return tv, true
	}
	var zero V
	if v != nil {
		return zero, false
	}
	switch reflect.TypeFor[V]().Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return zero, true
	}
	return zero, false
}

// Same reports whether a and b are the same value, the way cells detect
// no-op assignments. Comparable values use ==. Slices are the same when they
// share a backing array start and length, and maps when they are the same
// map. Funcs are the same only when both are nil. Values of other
// non-comparable types, such as structs holding slices, are never the same,
// so assigning them always updates.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta.Comparable() {
		return comparableEqual(a, b)
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ta.Kind() {
	case reflect.Slice:
		return va.Len() == vb.Len() && va.UnsafePointer() == vb.UnsafePointer()
	case reflect.Map:
		return va.UnsafePointer() == vb.UnsafePointer()
	case reflect.Func:
		return va.IsNil() && vb.IsNil()
	}
	return false
}

// comparableEqual compares values whose static type is comparable. Interface
// fields may still hold incomparable dynamic values, which makes == panic;
// such values are treated as different.
func comparableEqual(a, b any) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
