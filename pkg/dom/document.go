package dom

import (
	"slices"

	"github.com/go-drift/funlit/pkg/sched"
)

// Document owns a flat tree of elements and delivers their lifecycle
// reactions through a scheduler.
type Document struct {
	reactions sched.Scheduler
	children  []*Element
}

// NewDocument creates a document. A nil scheduler delivers reactions
// synchronously.
func NewDocument(reactions sched.Scheduler) *Document {
	return &Document{reactions: reactions}
}

// CreateElement creates a detached element owned by d.
func (d *Document) CreateElement(tag string) *Element {
	return &Element{tag: tag, doc: d}
}

// Append inserts el into the tree. The element is marked connected
// immediately; its connected reaction is queued.
func (d *Document) Append(el *Element) {
	if el.doc != d {
		d.Adopt(el)
	}
	if el.connected {
		return
	}
	d.children = append(d.children, el)
	el.connected = true
	if el.reactions != nil {
		el.enqueue(el.reactions.ConnectedCallback)
	}
}

// Remove takes el out of the tree. The element is marked disconnected
// immediately; its disconnected reaction is queued.
func (d *Document) Remove(el *Element) {
	if !el.connected || el.doc != d {
		return
	}
	d.children = slices.DeleteFunc(d.children, func(c *Element) bool { return c == el })
	el.connected = false
	if el.reactions != nil {
		el.enqueue(el.reactions.DisconnectedCallback)
	}
}

// Adopt moves el from its current document into d, removing it from the
// old tree first.
func (d *Document) Adopt(el *Element) {
	if el.doc == d {
		return
	}
	if old := el.doc; old != nil && el.connected {
		old.Remove(el)
	}
	el.doc = d
	if el.reactions != nil {
		el.enqueue(el.reactions.AdoptedCallback)
	}
}

// Children returns the connected elements in insertion order.
func (d *Document) Children() []*Element {
	return slices.Clone(d.children)
}

// Contains reports whether el is connected in d.
func (d *Document) Contains(el *Element) bool {
	return slices.Contains(d.children, el)
}
