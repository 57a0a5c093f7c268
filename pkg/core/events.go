package core

import "slices"

// Lifecycle event types.
const (
	EventAdopt      = "adopt"
	EventConnect    = "connect"
	EventUpdate     = "update"
	EventDisconnect = "disconnect"

	EventFormAssociate    = "formassociate"
	EventFormReset        = "formreset"
	EventFormDisable      = "formdisable"
	EventFormEnable       = "formenable"
	EventFormStateRestore = "formstaterestore"
)

// Event is a lifecycle notification emitted on a host.
type Event struct {
	Type string
	Host *Host
	// Err is the render error for "update" events.
	Err error
	// Detail carries event-specific data: the form name for
	// "formassociate", a FormState for "formstaterestore".
	Detail any
}

// FormState is the detail of a "formstaterestore" event.
type FormState struct {
	State  any
	Reason string
}

type listener struct {
	fn func(Event)
}

// AddEventListener registers fn for events of the given type. Listeners run
// synchronously in registration order. The returned function removes it.
func (h *Host) AddEventListener(eventType string, fn func(Event)) func() {
	if fn == nil {
		return func() {}
	}
	if h.listeners == nil {
		h.listeners = make(map[string][]*listener)
	}
	l := &listener{fn: fn}
	h.listeners[eventType] = append(h.listeners[eventType], l)
	return func() {
		h.listeners[eventType] = slices.DeleteFunc(h.listeners[eventType], func(x *listener) bool {
			return x == l
		})
	}
}

func (h *Host) dispatchEvent(ev Event) {
	ev.Host = h
	for _, l := range slices.Clone(h.listeners[ev.Type]) {
		l.fn(ev)
	}
}
