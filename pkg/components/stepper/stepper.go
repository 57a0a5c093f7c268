// Package stepper implements <fun-stepper>, a counter driven by its "count"
// attribute.
package stepper

import (
	"strconv"

	"github.com/go-drift/funlit/pkg/core"
	"github.com/go-drift/funlit/pkg/render"
)

// Tag is the stepper's tag name.
const Tag = "fun-stepper"

// DefaultCount is used when the element has no count attribute.
const DefaultCount = 20

// Define registers the stepper with r.
func Define(r *core.Registry) (*core.Definition, error) {
	return r.Define(Tag, Init)
}

// Init binds the count field and renders it with decrement, increment and
// reset actions.
func Init(h *core.Host) (core.RenderFunc, error) {
	count, err := core.BindAttribute(h, "count", DefaultCount, core.AttributeOptions[int]{
		Parse: strconv.Atoi,
	})
	if err != nil {
		return nil, err
	}

	decrement := func() { count.Update(func(n int) int { return n - 1 }) }
	increment := func() { count.Update(func(n int) int { return n + 1 }) }
	reset := func() { count.Set(0) }

	return func() any {
		return render.Viewf("%s [-] [+] [x]", count).
			On("decrement", decrement).
			On("increment", increment).
			On("reset", reset)
	}, nil
}
