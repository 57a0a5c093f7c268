package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/funlit/pkg/dom"
)

// Finder locates elements in the test document.
type Finder interface {
	// Evaluate returns all matching elements in document order.
	Evaluate(elements []*dom.Element) []*dom.Element
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	elements []*dom.Element
	finder   Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *dom.Element {
	if len(r.elements) == 0 {
		desc := "unknown"
		if r.finder != nil {
			desc = r.finder.Description()
		}
		panic(fmt.Sprintf("Finder found no elements: %s", desc))
	}
	return r.elements[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *dom.Element {
	if len(r.elements) == 0 {
		return nil
	}
	return r.elements[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *dom.Element {
	if index < 0 || index >= len(r.elements) {
		desc := "unknown"
		if r.finder != nil {
			desc = r.finder.Description()
		}
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.elements), desc))
	}
	return r.elements[index]
}

// All returns all matches in document order.
func (r FinderResult) All() []*dom.Element {
	return r.elements
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.elements)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.elements) > 0
}

// predicateFinder matches elements for which fn returns true.
type predicateFinder struct {
	fn   func(*dom.Element) bool
	desc string
}

func (f *predicateFinder) Evaluate(elements []*dom.Element) []*dom.Element {
	var out []*dom.Element
	for _, el := range elements {
		if f.fn(el) {
			out = append(out, el)
		}
	}
	return out
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByTag returns a finder that matches elements with the given tag name.
func ByTag(tag string) Finder {
	return &predicateFinder{
		fn:   func(el *dom.Element) bool { return el.TagName() == tag },
		desc: fmt.Sprintf("ByTag(%q)", tag),
	}
}

// ByText returns a finder that matches elements whose rendered content
// equals text exactly.
func ByText(text string) Finder {
	return &predicateFinder{
		fn:   func(el *dom.Element) bool { return el.RenderRoot().Content() == text },
		desc: fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining returns a finder that matches elements whose rendered
// content contains substring.
func ByTextContaining(substring string) Finder {
	return &predicateFinder{
		fn:   func(el *dom.Element) bool { return strings.Contains(el.RenderRoot().Content(), substring) },
		desc: fmt.Sprintf("ByTextContaining(%q)", substring),
	}
}

// ByAttribute returns a finder that matches elements carrying the attribute
// name with the given value.
func ByAttribute(name, value string) Finder {
	return &predicateFinder{
		fn: func(el *dom.Element) bool {
			v, ok := el.GetAttribute(name)
			return ok && v == value
		},
		desc: fmt.Sprintf("ByAttribute(%s=%q)", name, value),
	}
}

// ByAction returns a finder that matches elements whose rendered content
// binds the named action.
func ByAction(action string) Finder {
	return &predicateFinder{
		fn: func(el *dom.Element) bool {
			for _, a := range el.RenderRoot().Actions() {
				if a == action {
					return true
				}
			}
			return false
		},
		desc: fmt.Sprintf("ByAction(%q)", action),
	}
}

// ByPredicate returns a finder that matches elements for which fn returns
// true.
func ByPredicate(fn func(*dom.Element) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}
