package scenario

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/go-drift/funlit/internal/logging"
	"github.com/go-drift/funlit/pkg/components/stepper"
	"github.com/go-drift/funlit/pkg/components/timer"
	"github.com/go-drift/funlit/pkg/components/toggle"
	"github.com/go-drift/funlit/pkg/core"
	"github.com/go-drift/funlit/pkg/dom"
	ferrors "github.com/go-drift/funlit/pkg/errors"
	"github.com/go-drift/funlit/pkg/render"
	"github.com/go-drift/funlit/pkg/sched"
)

// maxSteps bounds a pump so a component that keeps requesting work cannot
// hang the run.
const maxSteps = 10000

// epoch is the start time of every run's clock.
var epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

var (
	// ErrUnknownElement is returned for step ids that no create step
	// introduced.
	ErrUnknownElement = errors.New("unknown element id")
	// ErrUndefined is returned when creating an element of an unknown tag.
	ErrUndefined = errors.New("tag is not defined")
	// ErrRunaway is returned when a pump does not go idle.
	ErrRunaway = errors.New("loop did not go idle")
)

// FailedError is returned when expect steps do not match.
type FailedError struct {
	Scenario string
	Failures []string
}

func (e *FailedError) Error() string {
	name := e.Scenario
	if name == "" {
		name = "scenario"
	}
	return fmt.Sprintf("%s: %d expectation(s) failed:\n  %s", name, len(e.Failures), strings.Join(e.Failures, "\n  "))
}

// Options configures a Runner.
type Options struct {
	// Out receives the step, render and event transcript. Nil discards it.
	Out io.Writer
	// Logger is passed to the registry. Nil discards records.
	Logger *slog.Logger
	// Hooks are installed on every run's registry.
	Hooks []core.Hooks
	// SkipDetachedRenders is passed to the registry.
	SkipDetachedRenders bool
}

// Runner executes scenarios against the built-in components.
type Runner struct {
	opts Options
}

// NewRunner creates a runner.
func NewRunner(opts Options) *Runner {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &Runner{opts: opts}
}

// Run executes sc in a fresh document. It returns a *FailedError when any
// expect step fails and stops at the first structural error, such as an
// unknown element id.
func (r *Runner) Run(sc *Scenario) error {
	e := r.newEnv()
	ferrors.SetHandler(reporter{e})
	defer ferrors.SetHandler(nil)
	defer e.teardown()

	if sc.Name != "" {
		e.printf("== %s", sc.Name)
	}
	for i, step := range sc.Steps {
		e.printf("> %s", step)
		if err := e.exec(step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step, err)
		}
	}
	if err := e.pump(); err != nil {
		return err
	}
	if len(e.failures) > 0 {
		return &FailedError{Scenario: sc.Name, Failures: e.failures}
	}
	return nil
}

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

type env struct {
	opts     Options
	clock    *manualClock
	loop     *sched.Loop
	doc      *dom.Document
	registry *core.Registry
	elements map[string]*dom.Element
	hosts    map[string]*core.Host
	ids      map[*dom.Element]string
	renders  map[string]int
	lastErr  error
	reported int
	failures []string
}

func (r *Runner) newEnv() *env {
	e := &env{
		opts:     r.opts,
		clock:    &manualClock{now: epoch},
		elements: make(map[string]*dom.Element),
		hosts:    make(map[string]*core.Host),
		ids:      make(map[*dom.Element]string),
		renders:  make(map[string]int),
	}
	e.loop = sched.NewLoop(e.clock)
	e.doc = dom.NewDocument(e.loop)

	opts := []core.Option{
		core.WithScheduler(e.loop),
		core.WithRenderer(render.Func(e.render)),
		core.WithLogger(r.opts.Logger),
		core.WithSkipDetachedRenders(r.opts.SkipDetachedRenders),
	}
	for _, h := range r.opts.Hooks {
		opts = append(opts, core.WithHooks(h))
	}
	e.registry = core.NewRegistry(opts...)

	// The built-in tags are valid and distinct, so definition cannot fail.
	_, _ = stepper.Define(e.registry)
	_, _ = toggle.Define(e.registry)
	_, _ = timer.Define(e.registry, e.loop)
	return e
}

func (e *env) printf(format string, args ...any) {
	fmt.Fprintf(e.opts.Out, format+"\n", args...)
}

func (e *env) render(value any, target render.Target) error {
	if err := (render.DOM{}).Render(value, target); err != nil {
		return err
	}
	el, ok := target.(*dom.Element)
	if !ok {
		return nil
	}
	id := e.ids[el]
	e.renders[id]++
	e.printf("  render %s: %s", id, el.RenderRoot().Content())
	return nil
}

func (e *env) record(err error) {
	if err == nil {
		return
	}
	e.lastErr = err
	e.printf("  error: %v", err)
}

// mutate records the error returned by fn unless a host already reported
// it.
func (e *env) mutate(fn func() error) {
	before := e.reported
	if err := fn(); err != nil && e.reported == before {
		e.record(err)
	}
}

func (e *env) listen(id string, h *core.Host) {
	for _, typ := range []string{
		core.EventConnect, core.EventDisconnect, core.EventAdopt, core.EventUpdate,
		core.EventFormAssociate, core.EventFormReset, core.EventFormDisable,
		core.EventFormEnable, core.EventFormStateRestore,
	} {
		h.AddEventListener(typ, func(ev core.Event) {
			if ev.Type == core.EventUpdate {
				// Successful passes already print as renders.
				if ev.Err != nil {
					e.printf("  event %s update: %v", id, ev.Err)
				}
				return
			}
			e.printf("  event %s %s", id, ev.Type)
		})
	}
}

func (e *env) element(id string) (*dom.Element, error) {
	el, ok := e.elements[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownElement, id)
	}
	return el, nil
}

func (e *env) pump() error {
	for range maxSteps {
		if !e.loop.Step() {
			return nil
		}
	}
	return ErrRunaway
}

func (e *env) exec(s Step) error {
	switch {
	case s.Create != nil:
		return e.create(s.Create)
	case s.Attach != "":
		el, err := e.element(s.Attach)
		if err != nil {
			return err
		}
		e.doc.Append(el)
	case s.Detach != "":
		el, err := e.element(s.Detach)
		if err != nil {
			return err
		}
		e.doc.Remove(el)
	case s.Adopt != "":
		el, err := e.element(s.Adopt)
		if err != nil {
			return err
		}
		e.doc.Adopt(el)
	case s.SetAttribute != nil:
		el, err := e.element(s.SetAttribute.ID)
		if err != nil {
			return err
		}
		e.mutate(func() error { return el.SetAttribute(s.SetAttribute.Name, s.SetAttribute.Value) })
	case s.RemoveAttribute != nil:
		el, err := e.element(s.RemoveAttribute.ID)
		if err != nil {
			return err
		}
		e.mutate(func() error { return el.RemoveAttribute(s.RemoveAttribute.Name) })
	case s.SetProperty != nil:
		if _, err := e.element(s.SetProperty.ID); err != nil {
			return err
		}
		e.record(e.hosts[s.SetProperty.ID].Set(s.SetProperty.Name, s.SetProperty.Value))
	case s.Click != nil:
		el, err := e.element(s.Click.ID)
		if err != nil {
			return err
		}
		if err := e.pump(); err != nil {
			return err
		}
		if !el.RenderRoot().Invoke(s.Click.Action) {
			return fmt.Errorf("no action %q bound on %s (have %v)", s.Click.Action, s.Click.ID, el.RenderRoot().Actions())
		}
	case s.Pump:
		return e.pump()
	case s.Advance != 0:
		e.clock.now = e.clock.now.Add(s.Advance)
	case s.Frame != nil:
		if err := e.pump(); err != nil {
			return err
		}
		e.clock.now = e.clock.now.Add(*s.Frame)
		e.loop.Frame()
		return e.pump()
	case s.Expect != nil:
		return e.expect(s.Expect)
	}
	return nil
}

func (e *env) create(c *CreateStep) error {
	if _, exists := e.elements[c.ID]; exists {
		return fmt.Errorf("element id %q already exists", c.ID)
	}
	def, ok := e.registry.Lookup(c.Tag)
	if !ok {
		return fmt.Errorf("%w: %s (have %s)", ErrUndefined, c.Tag, strings.Join(e.registry.Tags(), ", "))
	}
	el := e.doc.CreateElement(c.Tag)
	for _, name := range slices.Sorted(maps.Keys(c.Attrs)) {
		if err := el.SetAttribute(name, c.Attrs[name]); err != nil {
			return err
		}
	}
	h := def.New(el)
	for _, name := range slices.Sorted(maps.Keys(c.Props)) {
		if err := h.Set(name, c.Props[name]); err != nil {
			return err
		}
	}
	e.elements[c.ID] = el
	e.hosts[c.ID] = h
	e.ids[el] = c.ID
	e.listen(c.ID, h)
	return nil
}

func (e *env) expect(x *ExpectStep) error {
	el, err := e.element(x.ID)
	if err != nil {
		return err
	}
	if err := e.pump(); err != nil {
		return err
	}
	h := e.hosts[x.ID]
	fail := func(format string, args ...any) {
		msg := x.ID + ": " + fmt.Sprintf(format, args...)
		e.failures = append(e.failures, msg)
		e.printf("  FAIL %s", msg)
	}

	if x.Content != nil {
		if got := el.RenderRoot().Content(); got != *x.Content {
			fail("content = %q, want %q", got, *x.Content)
		}
	}
	if x.Status != "" {
		if got := h.Status().String(); got != x.Status {
			fail("status = %s, want %s", got, x.Status)
		}
	}
	if x.Connected != nil {
		if got := el.IsConnected(); got != *x.Connected {
			fail("connected = %t, want %t", got, *x.Connected)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(x.Fields)) {
		v, ok := h.Get(name)
		if !ok {
			fail("field %s is not bound", name)
			continue
		}
		if got := fmt.Sprint(v); got != x.Fields[name] {
			fail("field %s = %s, want %s", name, got, x.Fields[name])
		}
	}
	if x.Renders != nil {
		if got := e.renders[x.ID]; got != *x.Renders {
			fail("renders = %d, want %d", got, *x.Renders)
		}
	}
	if x.Error != nil {
		switch {
		case *x.Error == "" && e.lastErr != nil:
			fail("unexpected error: %v", e.lastErr)
		case *x.Error != "" && e.lastErr == nil:
			fail("no error, want one containing %q", *x.Error)
		case *x.Error != "" && !strings.Contains(e.lastErr.Error(), *x.Error):
			fail("error = %v, want one containing %q", e.lastErr, *x.Error)
		}
	}
	e.lastErr = nil
	return nil
}

func (e *env) teardown() {
	for _, el := range e.doc.Children() {
		e.doc.Remove(el)
	}
	_ = e.pump()
}

// reporter records errors reported by hosts and forwards them to the
// registry's logger.
type reporter struct {
	e *env
}

func (r reporter) HandleError(err *ferrors.FunlitError) {
	r.e.reported++
	r.e.record(err)
	(&ferrors.LogHandler{Logger: r.e.opts.Logger}).HandleError(err)
}

func (r reporter) HandlePanic(err *ferrors.PanicError) {
	r.e.reported++
	r.e.record(err)
	(&ferrors.LogHandler{Logger: r.e.opts.Logger}).HandlePanic(err)
}

func (r reporter) HandleRenderError(err *ferrors.RenderError) {
	r.e.reported++
	r.e.record(err)
	(&ferrors.LogHandler{Logger: r.e.opts.Logger}).HandleRenderError(err)
}
