package testbed

import (
	"fmt"
	"time"

	"github.com/go-drift/funlit/pkg/core"
	"github.com/go-drift/funlit/pkg/sched"
)

// Progress returns a component that counts elapsed frame time up to
// duration, requesting a frame from frames until it is done.
func Progress(frames sched.FrameScheduler, duration time.Duration) core.InitFunc {
	return func(h *core.Host) (core.RenderFunc, error) {
		elapsed, err := core.BindValue(h, time.Duration(0))
		if err != nil {
			return nil, err
		}
		var start time.Time
		var tick func(now time.Time)
		tick = func(now time.Time) {
			elapsed.Set(min(now.Sub(start), duration))
			if elapsed.Value() < duration {
				frames.RequestFrame(tick)
			}
		}
		h.AddEventListener(core.EventConnect, func(core.Event) {
			start = frames.Now()
			frames.RequestFrame(tick)
		})
		return func() any {
			return fmt.Sprintf("%d%%", int(100*elapsed.Value()/duration))
		}, nil
	}
}
