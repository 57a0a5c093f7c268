// Package dom is an in-memory stand-in for the host platform's element model.
//
// It provides what funlit hosts consume from a platform: serialized
// attributes with per-attribute mutation observers, connection state, custom
// element lifecycle reactions and a render root. Reactions are delivered
// through the document's scheduler, so an element that is attached and
// detached within one turn sees its true connection state when the reactions
// finally run.
package dom

import (
	"errors"
	"slices"
	"sort"
)

// Reactions are the lifecycle callbacks of an upgraded custom element.
type Reactions interface {
	ConnectedCallback()
	DisconnectedCallback()
	AdoptedCallback()
}

// FormReactions are the extra callbacks of a form-associated element.
type FormReactions interface {
	FormAssociatedCallback(form string)
	FormResetCallback()
	FormDisabledCallback(disabled bool)
	FormStateRestoreCallback(state any, reason string)
}

type observer struct {
	fn func() error
}

// Element is a node carrying attributes, a connection flag and render roots.
type Element struct {
	tag       string
	doc       *Document
	attrs     map[string]string
	observers map[string][]*observer
	connected bool
	reactions Reactions
	light     Fragment
	shadow    *Fragment
	form      string
}

// TagName returns the element's tag name.
func (e *Element) TagName() string {
	return e.tag
}

// OwnerDocument returns the document the element currently belongs to.
func (e *Element) OwnerDocument() *Document {
	return e.doc
}

// IsConnected reports whether the element is currently part of its
// document's tree.
func (e *Element) IsConnected() bool {
	return e.connected
}

// GetAttribute returns the attribute's serialized value and whether it is present.
func (e *Element) GetAttribute(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// HasAttribute reports whether the attribute is present.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.attrs[name]
	return ok
}

// AttributeNames returns the present attribute names in sorted order.
func (e *Element) AttributeNames() []string {
	names := make([]string, 0, len(e.attrs))
	for name := range e.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetAttribute sets an attribute and notifies its observers. Errors returned
// by observers are joined and returned to the caller; the attribute keeps
// its new value regardless.
func (e *Element) SetAttribute(name, value string) error {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
	return e.notify(name)
}

// RemoveAttribute removes an attribute and notifies its observers if it was
// present.
func (e *Element) RemoveAttribute(name string) error {
	if _, ok := e.attrs[name]; !ok {
		return nil
	}
	delete(e.attrs, name)
	return e.notify(name)
}

// ToggleAttribute adds the attribute with an empty value when force is true
// and removes it otherwise.
func (e *Element) ToggleAttribute(name string, force bool) error {
	if force {
		if e.HasAttribute(name) {
			return nil
		}
		return e.SetAttribute(name, "")
	}
	return e.RemoveAttribute(name)
}

// ObserveAttribute registers fn to run after every mutation of the named
// attribute. The returned function cancels the subscription.
func (e *Element) ObserveAttribute(name string, fn func() error) func() {
	if fn == nil {
		return func() {}
	}
	if e.observers == nil {
		e.observers = make(map[string][]*observer)
	}
	obs := &observer{fn: fn}
	e.observers[name] = append(e.observers[name], obs)
	return func() {
		e.observers[name] = slices.DeleteFunc(e.observers[name], func(o *observer) bool {
			return o == obs
		})
	}
}

func (e *Element) notify(name string) error {
	observers := slices.Clone(e.observers[name])
	var errs []error
	for _, o := range observers {
		if err := o.fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Upgrade installs lifecycle reactions. If the element is already
// connected, a connected reaction is queued, as happens when a definition
// arrives after the element was inserted.
func (e *Element) Upgrade(r Reactions) {
	e.reactions = r
	if e.connected && r != nil {
		e.enqueue(r.ConnectedCallback)
	}
}

// Upgraded reports whether reactions are installed.
func (e *Element) Upgraded() bool {
	return e.reactions != nil
}

// AttachShadow creates the shadow root, or returns the existing one.
func (e *Element) AttachShadow() *Fragment {
	if e.shadow == nil {
		e.shadow = &Fragment{}
	}
	return e.shadow
}

// ShadowRoot returns the shadow root, or nil if none was attached.
func (e *Element) ShadowRoot() *Fragment {
	return e.shadow
}

// RenderRoot returns the shadow root when present, otherwise the element's
// light content.
func (e *Element) RenderRoot() *Fragment {
	if e.shadow != nil {
		return e.shadow
	}
	return &e.light
}

// Form returns the associated form name.
func (e *Element) Form() string {
	return e.form
}

// AssociateForm associates the element with a form owner.
func (e *Element) AssociateForm(form string) {
	e.form = form
	if fr, ok := e.reactions.(FormReactions); ok {
		e.enqueue(func() { fr.FormAssociatedCallback(form) })
	}
}

// ResetForm delivers a form reset.
func (e *Element) ResetForm() {
	if fr, ok := e.reactions.(FormReactions); ok {
		e.enqueue(fr.FormResetCallback)
	}
}

// SetDisabled delivers a change to the element's effective disabled state.
func (e *Element) SetDisabled(disabled bool) {
	if fr, ok := e.reactions.(FormReactions); ok {
		e.enqueue(func() { fr.FormDisabledCallback(disabled) })
	}
}

// RestoreState delivers a form state restoration.
func (e *Element) RestoreState(state any, reason string) {
	if fr, ok := e.reactions.(FormReactions); ok {
		e.enqueue(func() { fr.FormStateRestoreCallback(state, reason) })
	}
}

func (e *Element) enqueue(fn func()) {
	if e.doc == nil || e.doc.reactions == nil {
		fn()
		return
	}
	e.doc.reactions.Post(fn)
}
