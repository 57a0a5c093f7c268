// Package core provides funlit's reactive value model, update scheduler and
// host lifecycle.
//
// A component is a plain init function. It runs once per host, the first
// time the host is connected, binds the host's reactive state and returns the
// render function:
//
//	def, err := registry.Define("fun-stepper", func(h *core.Host) (core.RenderFunc, error) {
//	    count, err := core.BindAttribute(h, "count", 20, core.AttributeOptions[int]{
//	        Parse: strconv.Atoi,
//	    })
//	    if err != nil {
//	        return nil, err
//	    }
//	    return func() any {
//	        return render.Viewf("%v", count).On("increment", func() {
//	            count.Update(func(n int) int { return n + 1 })
//	        })
//	    }, nil
//	})
//
// # Cells
//
// [Cell] is the unit of reactive state. Setting a cell to a value equal to
// its current value does nothing; any other assignment asks the host for an
// update. [BindValue] creates a free-standing cell, [BindProperty] exposes a
// cell as a named host field and [BindAttribute] additionally keeps the field
// in sync with a serialized attribute.
//
// # Updates
//
// [Host.RequestUpdate] coalesces every request made before the scheduler's
// next deferred point into one render pass and returns a [Settle] that
// resolves when that pass finishes. The pending marker is cleared before the
// render function runs, so state changed during a render schedules a new pass.
//
// # Lifecycle
//
// Hosts react to the platform's connected, disconnected and adopted
// callbacks and emit "adopt", "connect", "update" and "disconnect" events.
// Init runs exactly once per host; every connection renders.
package core
