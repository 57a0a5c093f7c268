package testing

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-drift/funlit/pkg/core"
	"github.com/go-drift/funlit/pkg/dom"
	ferrors "github.com/go-drift/funlit/pkg/errors"
	"github.com/go-drift/funlit/pkg/render"
	"github.com/go-drift/funlit/pkg/sched"
)

// DefaultFrameDuration is the clock step PumpAndSettle takes per frame.
const DefaultFrameDuration = 16 * time.Millisecond

// maxSteps bounds Pump so a component that updates itself on every render
// fails the test instead of hanging it.
const maxSteps = 10000

var (
	// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
	ErrSettleTimeout = errors.New("PumpAndSettle timed out: hosts did not settle")
	// ErrRunaway is returned when Pump keeps finding work after maxSteps.
	ErrRunaway = errors.New("Pump: loop did not go idle")
	// ErrUndefined is returned for tags without a definition.
	ErrUndefined = errors.New("tag is not defined")
)

// Render is one renderer call recorded by the tester.
type Render struct {
	Tag   string
	Value any
}

// HostTester drives components without a real platform. It wires a
// registry, an in-memory document and a loop running on a fake clock, and
// records every render and reported error.
type HostTester struct {
	registry *core.Registry
	loop     *sched.Loop
	doc      *dom.Document
	clock    *FakeClock
	hosts    map[*dom.Element]*core.Host
	renders  []Render
	errs     []error
}

// NewHostTester creates a tester. Options are applied after the tester's
// own scheduler and recording renderer, so they may replace either.
// Call Cleanup() when done, or use NewHostTesterWithT() instead.
func NewHostTester(opts ...core.Option) *HostTester {
	clk := NewFakeClock()
	t := &HostTester{
		clock: clk,
		loop:  sched.NewLoop(clk),
		hosts: make(map[*dom.Element]*core.Host),
	}
	t.doc = dom.NewDocument(t.loop)
	base := []core.Option{
		core.WithScheduler(t.loop),
		core.WithRenderer(render.Func(t.record)),
	}
	t.registry = core.NewRegistry(append(base, opts...)...)
	ferrors.SetHandler(errorRecorder{t})
	return t
}

// NewHostTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewHostTesterWithT(t *testing.T, opts ...core.Option) *HostTester {
	tester := NewHostTester(opts...)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup detaches every element and restores the default error handler.
func (t *HostTester) Cleanup() {
	for _, el := range t.doc.Children() {
		t.doc.Remove(el)
	}
	t.loop.Step()
	ferrors.SetHandler(nil)
}

func (t *HostTester) record(value any, target render.Target) error {
	tag := ""
	if el, ok := target.(*dom.Element); ok {
		tag = el.TagName()
	}
	t.renders = append(t.renders, Render{Tag: tag, Value: value})
	return render.DOM{}.Render(value, target)
}

// Registry returns the tester's registry.
func (t *HostTester) Registry() *core.Registry {
	return t.registry
}

// Loop returns the loop hosts are scheduled on.
func (t *HostTester) Loop() *sched.Loop {
	return t.loop
}

// Document returns the test document.
func (t *HostTester) Document() *dom.Document {
	return t.doc
}

// Clock returns the fake clock for advancing time in tests.
func (t *HostTester) Clock() *FakeClock {
	return t.clock
}

// Define registers a component with the tester's registry.
func (t *HostTester) Define(tag string, init core.InitFunc) (*core.Definition, error) {
	return t.registry.Define(tag, init)
}

// Create makes a detached element for tag and binds a host to it.
func (t *HostTester) Create(tag string) (*core.Host, *dom.Element, error) {
	def, ok := t.registry.Lookup(tag)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUndefined, tag)
	}
	el := t.doc.CreateElement(tag)
	h := def.New(el)
	t.hosts[el] = h
	return h, el, nil
}

// Mount creates an element for tag, sets attrs, attaches it and pumps.
func (t *HostTester) Mount(tag string, attrs map[string]string) (*core.Host, *dom.Element, error) {
	h, el, err := t.Create(tag)
	if err != nil {
		return nil, nil, err
	}
	for name, value := range attrs {
		if err := el.SetAttribute(name, value); err != nil {
			return nil, nil, err
		}
	}
	t.Attach(el)
	return h, el, t.Pump()
}

// Attach inserts el into the document. Reactions run on the next Pump.
func (t *HostTester) Attach(el *dom.Element) {
	t.doc.Append(el)
}

// Detach removes el from the document. Reactions run on the next Pump.
func (t *HostTester) Detach(el *dom.Element) {
	t.doc.Remove(el)
}

// Host returns the host bound to el.
func (t *HostTester) Host(el *dom.Element) *core.Host {
	return t.hosts[el]
}

// Content returns el's rendered content.
func (t *HostTester) Content(el *dom.Element) string {
	return el.RenderRoot().Content()
}

// Pump runs queued reactions, dispatches and update passes until the loop
// is idle. Frame callbacks are left for PumpFrame.
func (t *HostTester) Pump() error {
	for range maxSteps {
		if !t.loop.Step() {
			return nil
		}
	}
	return ErrRunaway
}

// PumpFrame advances the clock by d, runs one frame and pumps.
func (t *HostTester) PumpFrame(d time.Duration) error {
	t.clock.Advance(d)
	t.loop.Frame()
	return t.Pump()
}

// PumpAndSettle runs frames until no work or frame is pending, or the
// timeout is reached. Each frame advances the fake clock by
// DefaultFrameDuration.
// Returns ErrSettleTimeout if the hosts do not settle within timeout.
func (t *HostTester) PumpAndSettle(timeout time.Duration) error {
	var elapsed time.Duration
	for elapsed < timeout {
		if err := t.Pump(); err != nil {
			return err
		}
		if !t.needsWork() {
			return nil
		}
		if err := t.PumpFrame(DefaultFrameDuration); err != nil {
			return err
		}
		elapsed += DefaultFrameDuration
	}
	return ErrSettleTimeout
}

func (t *HostTester) needsWork() bool {
	return t.loop.Pending() || t.loop.FramePending()
}

// Dispatch queues a callback on the loop, as another goroutine would.
func (t *HostTester) Dispatch(fn func()) {
	t.loop.Dispatch(fn)
}

// Renders returns every recorded renderer call.
func (t *HostTester) Renders() []Render {
	return t.renders
}

// RendersOf returns the recorded values rendered for tag.
func (t *HostTester) RendersOf(tag string) []any {
	var values []any
	for _, r := range t.renders {
		if r.Tag == tag {
			values = append(values, r.Value)
		}
	}
	return values
}

// ResetRenders clears the render log.
func (t *HostTester) ResetRenders() {
	t.renders = nil
}

// Errors returns the errors reported while the tester was installed.
func (t *HostTester) Errors() []error {
	return t.errs
}

// Find evaluates a finder against the document's connected elements.
func (t *HostTester) Find(finder Finder) FinderResult {
	return FinderResult{
		elements: finder.Evaluate(t.doc.Children()),
		finder:   finder,
	}
}

type errorRecorder struct {
	t *HostTester
}

func (r errorRecorder) HandleError(err *ferrors.FunlitError) {
	r.t.errs = append(r.t.errs, err)
}

func (r errorRecorder) HandlePanic(err *ferrors.PanicError) {
	r.t.errs = append(r.t.errs, err)
}

func (r errorRecorder) HandleRenderError(err *ferrors.RenderError) {
	r.t.errs = append(r.t.errs, err)
}
