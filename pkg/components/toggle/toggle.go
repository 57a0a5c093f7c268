// Package toggle implements <fun-toggle>, a form-associated checkbox whose
// state follows the boolean "checked" attribute.
package toggle

import (
	"fmt"

	"github.com/go-drift/funlit/pkg/core"
	"github.com/go-drift/funlit/pkg/render"
)

// Tag is the toggle's tag name.
const Tag = "fun-toggle"

// Define registers the toggle with r as a form-associated component.
func Define(r *core.Registry) (*core.Definition, error) {
	return r.DefineForm(Tag, Init)
}

// Init binds the checked attribute and the label property.
func Init(h *core.Host) (core.RenderFunc, error) {
	checked, err := core.BindBoolAttribute(h, "checked", false)
	if err != nil {
		return nil, err
	}
	label, err := core.BindProperty(h, "label", "toggle")
	if err != nil {
		return nil, err
	}
	disabled, err := core.BindValue(h, false)
	if err != nil {
		return nil, err
	}

	h.AddEventListener(core.EventFormReset, func(core.Event) {
		checked.Set(h.Element().HasAttribute("checked"))
	})
	h.AddEventListener(core.EventFormDisable, func(core.Event) { disabled.Set(true) })
	h.AddEventListener(core.EventFormEnable, func(core.Event) { disabled.Set(false) })
	h.AddEventListener(core.EventFormStateRestore, func(ev core.Event) {
		if st, ok := ev.Detail.(core.FormState); ok {
			if v, ok := st.State.(bool); ok {
				checked.Set(v)
			}
		}
	})

	return func() any {
		mark := " "
		if checked.Value() {
			mark = "x"
		}
		view := render.View{Content: fmt.Sprintf("[%s] %s", mark, label)}
		if disabled.Value() {
			view.Content += " (disabled)"
			return view
		}
		return view.On("toggle", func() { checked.Update(func(v bool) bool { return !v }) })
	}, nil
}
