package core

import (
	"fmt"
	"reflect"

	ferrors "github.com/go-drift/funlit/pkg/errors"
	"github.com/go-drift/funlit/pkg/names"
)

// AttributeOptions configures an attribute binding.
type AttributeOptions[V any] struct {
	Options[V]
	// Attribute overrides the attribute name. Defaults to the hyphenated
	// field name.
	Attribute string
	// Boolean binds the field to the attribute's presence. V must be bool.
	Boolean bool
	// Parse converts the serialized attribute. Required unless V is string
	// or Boolean is set.
	Parse func(raw string) (V, error)
}

func firstOr[T any](opts []T) T {
	var zero T
	if len(opts) == 0 {
		return zero
	}
	return opts[0]
}

// BindValue creates a free-standing cell owned by h.
func BindValue[V any](h *Host, initial V, opts ...Options[V]) (*Cell[V], error) {
	if h == nil {
		return nil, &ferrors.FunlitError{Op: "core.BindValue", Kind: ferrors.KindBinding, Err: ErrNoHost}
	}
	return newCell(h, "", initial, firstOr(opts)), nil
}

// BindProperty exposes a cell as the host field name. A value assigned to
// the field before binding wins over initial. Binding a name twice returns
// the existing cell unchanged.
func BindProperty[V any](h *Host, name string, initial V, opts ...Options[V]) (*Cell[V], error) {
	const op = "core.BindProperty"
	if h == nil {
		return nil, &ferrors.FunlitError{Op: op, Kind: ferrors.KindBinding, Field: name, Err: ErrNoHost}
	}
	if c, ok, err := existingCell[V](h, op, name); ok || err != nil {
		return c, err
	}
	value, err := presetOr(h, op, name, initial)
	if err != nil {
		return nil, err
	}
	return installCell(h, name, value, firstOr(opts)), nil
}

// BindAttribute binds the host field name to a serialized attribute.
//
// The initial value is the field's preset if any, else the parsed attribute
// if present (true for boolean bindings), else initial. After binding, every
// mutation of the attribute re-derives the field from the attribute's
// current state and assigns it through the field's cell; parse errors are
// returned to whoever mutated the attribute.
func BindAttribute[V any](h *Host, name string, initial V, opts ...AttributeOptions[V]) (*Cell[V], error) {
	const op = "core.BindAttribute"
	if h == nil {
		return nil, &ferrors.FunlitError{Op: op, Kind: ferrors.KindBinding, Field: name, Err: ErrNoHost}
	}
	if c, ok, err := existingCell[V](h, op, name); ok || err != nil {
		return c, err
	}

	o := firstOr(opts)
	attr := o.Attribute
	if attr == "" {
		attr = names.Hyphenate(name)
	}
	derive, err := attributeDeriver(h.element, attr, o)
	if err != nil {
		return nil, &ferrors.FunlitError{Op: op, Kind: ferrors.KindBinding, Tag: h.Tag(), Field: name, Err: err}
	}

	value, err := presetOr(h, op, name, initial)
	if err != nil {
		return nil, err
	}
	if _, preset := h.presets[name]; !preset && h.element.HasAttribute(attr) {
		if value, err = derive(); err != nil {
			return nil, &ferrors.FunlitError{Op: op, Kind: ferrors.KindParse, Tag: h.Tag(), Field: name, Err: err}
		}
	}

	c := installCell(h, name, value, o.Options)
	h.element.ObserveAttribute(attr, func() error {
		next, err := derive()
		if err != nil {
			ferr := &ferrors.FunlitError{Op: "core.attributeObserver", Kind: ferrors.KindParse, Tag: h.Tag(), Field: name, Err: err}
			ferrors.Report(ferr)
			return ferr
		}
		c.Set(next)
		return nil
	})
	return c, nil
}

// BindBoolAttribute is BindAttribute with Boolean set.
func BindBoolAttribute(h *Host, name string, initial bool, opts ...AttributeOptions[bool]) (*Cell[bool], error) {
	o := firstOr(opts)
	o.Boolean = true
	return BindAttribute(h, name, initial, o)
}

// attributeDeriver returns a function reading the field value from the
// attribute's current state.
func attributeDeriver[V any](el Element, attr string, o AttributeOptions[V]) (func() (V, error), error) {
	vt := reflect.TypeFor[V]()
	if o.Boolean {
		if vt != reflect.TypeFor[bool]() {
			return nil, fmt.Errorf("%w: boolean attribute %q needs a bool field, not %v", ErrUnsupportedAttribute, attr, vt)
		}
		return func() (V, error) {
			v, _ := any(el.HasAttribute(attr)).(V)
			return v, nil
		}, nil
	}

	parse := o.Parse
	if parse == nil {
		if vt != reflect.TypeFor[string]() {
			return nil, fmt.Errorf("%w: attribute %q needs a parser for %v", ErrUnsupportedAttribute, attr, vt)
		}
		parse = func(raw string) (V, error) {
			v, _ := any(raw).(V)
			return v, nil
		}
	}
	return func() (V, error) {
		raw, _ := el.GetAttribute(attr)
		v, err := parse(raw)
		if err != nil {
			var zero V
			return zero, &ferrors.ParseError{Attribute: attr, Raw: raw, Err: err}
		}
		return v, nil
	}, nil
}

func existingCell[V any](h *Host, op, name string) (*Cell[V], bool, error) {
	f, ok := h.fields[name]
	if !ok {
		return nil, false, nil
	}
	c, ok := f.(*Cell[V])
	if !ok {
		err := fmt.Errorf("%w: field %q is already bound with a different type", ErrFieldType, name)
		return nil, false, &ferrors.FunlitError{Op: op, Kind: ferrors.KindBinding, Tag: h.Tag(), Field: name, Err: err}
	}
	return c, true, nil
}

func presetOr[V any](h *Host, op, name string, initial V) (V, error) {
	v, ok := h.presets[name]
	if !ok {
		return initial, nil
	}
	tv, ok := assign[V](v)
	if !ok {
		err := fmt.Errorf("%w: preset for %q is %T, field holds %v", ErrFieldType, name, v, reflect.TypeFor[V]())
		return initial, &ferrors.FunlitError{Op: op, Kind: ferrors.KindBinding, Tag: h.Tag(), Field: name, Err: err}
	}
	return tv, nil
}

func installCell[V any](h *Host, name string, value V, opts Options[V]) *Cell[V] {
	c := newCell(h, name, value, opts)
	if h.fields == nil {
		h.fields = make(map[string]field)
	}
	h.fields[name] = c
	delete(h.presets, name)
	return c
}
