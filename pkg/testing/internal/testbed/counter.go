// Package testbed provides internal test components for the testing framework.
package testbed

import (
	"strconv"

	"github.com/go-drift/funlit/pkg/core"
	"github.com/go-drift/funlit/pkg/render"
)

// Counter displays a count taken from its "count" attribute and increments
// on the "increment" action.
func Counter(h *core.Host) (core.RenderFunc, error) {
	count, err := core.BindAttribute(h, "count", 0, core.AttributeOptions[int]{Parse: strconv.Atoi})
	if err != nil {
		return nil, err
	}
	return func() any {
		return render.Viewf("%d", count.Value()).On("increment", func() {
			count.Update(func(n int) int { return n + 1 })
		})
	}, nil
}
