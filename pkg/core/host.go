package core

import (
	"log/slog"
	"sort"
	"time"

	"github.com/sourcegraph/conc/panics"

	ferrors "github.com/go-drift/funlit/pkg/errors"
	"github.com/go-drift/funlit/pkg/render"
)

// Element is the platform element a host is bound to.
type Element interface {
	render.Target
	IsConnected() bool
	GetAttribute(name string) (string, bool)
	HasAttribute(name string) bool
	ObserveAttribute(name string, fn func() error) func()
}

// RenderFunc produces the value handed to the renderer on each update pass.
type RenderFunc func() any

// InitFunc sets up a host's reactive state and returns its render function.
// A nil RenderFunc renders nothing.
type InitFunc func(h *Host) (RenderFunc, error)

// Status is a host's lifecycle status.
type Status int

const (
	// StatusUninitialized means init has not completed yet.
	StatusUninitialized Status = iota
	// StatusInitialized means init has completed; it never runs again.
	StatusInitialized
)

func (s Status) String() string {
	if s == StatusInitialized {
		return "initialized"
	}
	return "uninitialized"
}

// Host is one component instance.
type Host struct {
	def       *Definition
	element   Element
	status    Status
	render    RenderFunc
	pending   *Settle
	fields    map[string]field
	presets   map[string]any
	listeners map[string][]*listener
}

// Tag returns the host's tag name.
func (h *Host) Tag() string {
	return h.def.tag
}

// Definition returns the definition the host was created from.
func (h *Host) Definition() *Definition {
	return h.def
}

// Element returns the platform element.
func (h *Host) Element() Element {
	return h.element
}

// IsConnected reports the element's current connection state.
func (h *Host) IsConnected() bool {
	return h.element.IsConnected()
}

// Status returns the lifecycle status.
func (h *Host) Status() Status {
	return h.status
}

// Get returns the value of a bound field, or of a field assigned before it
// was bound.
func (h *Host) Get(name string) (any, bool) {
	if f, ok := h.fields[name]; ok {
		return f.fieldValue(), true
	}
	v, ok := h.presets[name]
	return v, ok
}

// Set assigns a field. Bound fields route through their cell, so equality
// short-circuiting and update scheduling apply. Unbound fields keep the value
// as a preset that takes precedence when the field is bound later.
func (h *Host) Set(name string, v any) error {
	if f, ok := h.fields[name]; ok {
		if err := f.setField(v); err != nil {
			return &ferrors.FunlitError{Op: "core.Host.Set", Kind: ferrors.KindBinding, Tag: h.Tag(), Field: name, Err: err}
		}
		return nil
	}
	if h.presets == nil {
		h.presets = make(map[string]any)
	}
	h.presets[name] = v
	return nil
}

// Fields returns the bound field names in sorted order.
func (h *Host) Fields() []string {
	names := make([]string, 0, len(h.fields))
	for name := range h.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UpdateComplete returns the pending update's settle, or an already
// resolved one when no update is pending.
func (h *Host) UpdateComplete() *Settle {
	if h.pending != nil {
		return h.pending
	}
	return resolvedSettle()
}

// RequestUpdate schedules a render pass. Requests made while a pass is
// pending return that pass's settle.
func (h *Host) RequestUpdate() *Settle {
	r := h.def.registry
	if h.pending != nil {
		r.notifyUpdateRequested(h, true)
		r.logger.Debug("update coalesced", "tag", h.Tag())
		return h.pending
	}
	s := newSettle()
	h.pending = s
	r.notifyUpdateRequested(h, false)
	r.scheduler.Post(func() { h.performUpdate(s) })
	return s
}

func (h *Host) performUpdate(s *Settle) {
	h.pending = nil

	r := h.def.registry
	start := time.Now()
	var err error
	if r.skipDetached && !h.element.IsConnected() {
		r.logger.Debug("render skipped for detached host", "tag", h.Tag())
	} else {
		err = h.renderPass()
	}
	elapsed := time.Since(start)
	r.notifyRender(h, elapsed, err)
	r.logger.Debug("render pass", "tag", h.Tag(), "elapsed", elapsed, "error", err)

	defer s.resolve(err)
	h.dispatchEvent(Event{Type: EventUpdate, Err: err})
}

func (h *Host) renderPass() error {
	renderer := h.def.registry.renderer
	var (
		value     any
		renderErr error
	)
	var pc panics.Catcher
	pc.Try(func() {
		if h.render != nil {
			value = h.render()
		}
		if value == render.NoChange {
			return
		}
		renderErr = renderer.Render(value, h.element)
	})

	var err *ferrors.RenderError
	if rec := pc.Recovered(); rec != nil {
		err = &ferrors.RenderError{Tag: h.Tag(), Recovered: rec.Value, StackTrace: string(rec.Stack)}
	} else if renderErr != nil {
		err = &ferrors.RenderError{Tag: h.Tag(), Err: renderErr}
	}
	if err == nil {
		return nil
	}
	ferrors.ReportRenderError(err)
	return err
}

// ConnectedCallback runs when the element is inserted. If the element is
// still connected, it initializes the host on first use, requests an update
// and emits "connect".
func (h *Host) ConnectedCallback() {
	if !h.element.IsConnected() {
		return
	}
	if h.status == StatusUninitialized {
		if err := h.initialize(); err != nil {
			ferrors.Report(err)
			return
		}
	}
	h.RequestUpdate()
	h.dispatchEvent(Event{Type: EventConnect})
}

// DisconnectedCallback runs when the element is removed. If the element is
// still disconnected, it emits "disconnect". Reactive state is kept.
func (h *Host) DisconnectedCallback() {
	if h.element.IsConnected() {
		return
	}
	h.dispatchEvent(Event{Type: EventDisconnect})
}

// AdoptedCallback runs when the element moves to a new document.
func (h *Host) AdoptedCallback() {
	h.dispatchEvent(Event{Type: EventAdopt})
}

func (h *Host) initialize() *ferrors.FunlitError {
	r := h.def.registry
	release := r.enter(h)
	defer release()

	var (
		fn  RenderFunc
		err error
	)
	var pc panics.Catcher
	pc.Try(func() {
		if h.def.init != nil {
			fn, err = h.def.init(h)
		}
	})
	if rec := pc.Recovered(); rec != nil {
		err = &ferrors.PanicError{Op: "core.init", Value: rec.Value, StackTrace: string(rec.Stack), Timestamp: time.Now()}
	}
	r.notifyInit(h, err)
	if err != nil {
		return &ferrors.FunlitError{Op: "core.ConnectedCallback", Kind: ferrors.KindInit, Tag: h.Tag(), Err: err}
	}

	h.render = fn
	h.status = StatusInitialized
	r.logger.Debug("host initialized", slog.String("tag", h.Tag()))
	return nil
}
