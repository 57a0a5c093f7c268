// Package timer implements <fun-timer>, a countdown that runs on animation
// frames.
//
// The timer resets to its duration on every connect and pauses on
// disconnect. While playing, each frame subtracts the time elapsed since the
// previous frame until the countdown reaches zero.
package timer

import (
	"strconv"
	"time"

	"github.com/go-drift/funlit/pkg/core"
	"github.com/go-drift/funlit/pkg/render"
	"github.com/go-drift/funlit/pkg/sched"
)

// Tag is the timer's tag name.
const Tag = "fun-timer"

// DefaultDuration is the countdown length in seconds when the element has
// no duration attribute.
const DefaultDuration = 20.0

// Define registers the timer with r, animating on frames.
func Define(r *core.Registry, frames sched.FrameScheduler) (*core.Definition, error) {
	return r.Define(Tag, New(frames))
}

func parseSeconds(raw string) (float64, error) {
	return strconv.ParseFloat(raw, 64)
}

// New returns the timer's init routine.
func New(frames sched.FrameScheduler) core.InitFunc {
	return func(h *core.Host) (core.RenderFunc, error) {
		duration, err := core.BindAttribute(h, "duration", DefaultDuration, core.AttributeOptions[float64]{
			Parse: parseSeconds,
		})
		if err != nil {
			return nil, err
		}
		remaining, err := core.BindValue(h, 0.0)
		if err != nil {
			return nil, err
		}
		// prev is the time of the last frame while playing, nil while paused.
		prev, err := core.BindValue[*time.Time](h, nil)
		if err != nil {
			return nil, err
		}

		var tick func(next time.Time)
		tick = func(next time.Time) {
			if prev.Value() == nil {
				return
			}
			delta := next.Sub(*prev.Value()).Seconds()
			remaining.Set(max(0, remaining.Value()-delta))
			if remaining.Value() == 0 {
				prev.Set(nil)
				return
			}
			prev.Set(&next)
			frames.RequestFrame(tick)
		}
		play := func() {
			now := frames.Now()
			prev.Set(&now)
			frames.RequestFrame(tick)
		}
		pause := func() { prev.Set(nil) }
		reset := func() { remaining.Set(duration.Value()) }

		h.AddEventListener(core.EventConnect, func(core.Event) { reset() })
		h.AddEventListener(core.EventDisconnect, func(core.Event) { pause() })

		return func() any {
			label, toggle := "play", play
			if prev.Value() != nil {
				label, toggle = "pause", pause
			}
			return render.Viewf("%.2f [%s] [reset]", remaining.Value(), label).
				On(label, toggle).
				On("reset", reset)
		}, nil
	}
}
