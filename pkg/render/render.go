// Package render turns the values produced by component render routines into
// render-root content.
package render

import (
	"fmt"
	"maps"

	"github.com/go-drift/funlit/pkg/dom"
)

// Target is a render destination.
type Target interface {
	RenderRoot() *dom.Fragment
}

// Renderer commits a render routine's result to a target.
type Renderer interface {
	Render(value any, target Target) error
}

// Func adapts a function to the Renderer interface.
type Func func(value any, target Target) error

// Render calls f(value, target).
func (f Func) Render(value any, target Target) error {
	return f(value, target)
}

type noChange struct{}

func (noChange) String() string { return "render.NoChange" }

// NoChange is returned by a render routine to keep the current content.
// Hosts skip the renderer entirely when they see it.
var NoChange any = noChange{}

// View is a rendered text tree plus the named actions its controls bind.
type View struct {
	Content string
	Actions map[string]func()
}

// Viewf formats a view's content.
func Viewf(format string, args ...any) View {
	return View{Content: fmt.Sprintf(format, args...)}
}

// On returns a copy of v with an action bound under name.
func (v View) On(name string, fn func()) View {
	actions := maps.Clone(v.Actions)
	if actions == nil {
		actions = make(map[string]func())
	}
	actions[name] = fn
	v.Actions = actions
	return v
}

func (v View) String() string {
	return v.Content
}

// DOM renders values into a target's render root. Views keep their actions;
// strings and fmt.Stringers render as text; nil clears the root; anything
// else renders with fmt.Sprint.
type DOM struct{}

// Render implements Renderer.
func (DOM) Render(value any, target Target) error {
	if target == nil {
		return fmt.Errorf("render: nil target")
	}
	root := target.RenderRoot()
	if root == nil {
		return fmt.Errorf("render: target has no render root")
	}
	switch v := value.(type) {
	case nil:
		root.Replace("", nil)
	case View:
		root.Replace(v.Content, v.Actions)
	case *View:
		if v == nil {
			root.Replace("", nil)
			return nil
		}
		root.Replace(v.Content, v.Actions)
	case string:
		root.Replace(v, nil)
	case fmt.Stringer:
		root.Replace(v.String(), nil)
	default:
		root.Replace(fmt.Sprint(v), nil)
	}
	return nil
}
