package core

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-drift/funlit/internal/logging"
	"github.com/go-drift/funlit/pkg/dom"
	ferrors "github.com/go-drift/funlit/pkg/errors"
	"github.com/go-drift/funlit/pkg/names"
	"github.com/go-drift/funlit/pkg/render"
	"github.com/go-drift/funlit/pkg/sched"
)

// Hooks observe host activity. Any field may be nil.
type Hooks struct {
	// OnInit is called after a host's init routine returns.
	OnInit func(h *Host, err error)
	// OnUpdateRequested is called for every update request; coalesced is
	// true when the request joined an already pending pass.
	OnUpdateRequested func(h *Host, coalesced bool)
	// OnRender is called after every update pass.
	OnRender func(h *Host, elapsed time.Duration, err error)
}

// Option configures a Registry.
type Option func(*Registry)

// WithScheduler sets the scheduler that runs update passes.
func WithScheduler(s sched.Scheduler) Option {
	return func(r *Registry) { r.scheduler = s }
}

// WithRenderer sets the renderer that commits render results.
func WithRenderer(renderer render.Renderer) Option {
	return func(r *Registry) { r.renderer = renderer }
}

// WithLogger sets the registry's logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithHooks adds lifecycle hooks. It may be given more than once.
func WithHooks(h Hooks) Option {
	return func(r *Registry) { r.hooks = append(r.hooks, h) }
}

// WithSkipDetachedRenders makes update passes skip the render routine and
// renderer while the host is disconnected. By default a pass that was
// pending when the host was detached still renders into its root.
func WithSkipDetachedRenders(skip bool) Option {
	return func(r *Registry) { r.skipDetached = skip }
}

// Registry associates tag names with component definitions and holds the
// services their hosts share.
type Registry struct {
	defs         map[string]*Definition
	order        []string
	scheduler    sched.Scheduler
	renderer     render.Renderer
	logger       *slog.Logger
	hooks        []Hooks
	skipDetached bool
	current      *Host
}

// NewRegistry creates a registry. Without options it renders with
// render.DOM, logs nothing and schedules passes on a fresh sched.Loop that
// the caller reaches through Scheduler.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{defs: make(map[string]*Definition)}
	for _, opt := range opts {
		opt(r)
	}
	if r.scheduler == nil {
		r.scheduler = sched.NewLoop(nil)
	}
	if r.renderer == nil {
		r.renderer = render.DOM{}
	}
	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	return r
}

// Scheduler returns the scheduler running update passes.
func (r *Registry) Scheduler() sched.Scheduler {
	return r.scheduler
}

// Define registers init under tag.
func (r *Registry) Define(tag string, init InitFunc) (*Definition, error) {
	return r.define(tag, init, false)
}

// DefineForm registers a form-associated component under tag.
func (r *Registry) DefineForm(tag string, init InitFunc) (*Definition, error) {
	return r.define(tag, init, true)
}

func (r *Registry) define(tag string, init InitFunc, form bool) (*Definition, error) {
	if err := names.ValidateTagName(tag); err != nil {
		return nil, &ferrors.FunlitError{Op: "core.Define", Kind: ferrors.KindBinding, Tag: tag, Err: fmt.Errorf("%w: %v", ErrInvalidTag, err)}
	}
	if _, ok := r.defs[tag]; ok {
		return nil, &ferrors.FunlitError{Op: "core.Define", Kind: ferrors.KindBinding, Tag: tag, Err: ErrDuplicateTag}
	}
	def := &Definition{registry: r, tag: tag, init: init, form: form}
	r.defs[tag] = def
	r.order = append(r.order, tag)
	r.logger.Debug("component defined", "tag", tag, "type", def.TypeName(), "form", form)
	return def, nil
}

// Lookup returns the definition registered under tag.
func (r *Registry) Lookup(tag string) (*Definition, bool) {
	def, ok := r.defs[tag]
	return def, ok
}

// Tags returns the defined tag names in definition order.
func (r *Registry) Tags() []string {
	return append([]string(nil), r.order...)
}

// Current returns the host whose init routine is running.
func (r *Registry) Current() (*Host, error) {
	if r.current == nil {
		return nil, &ferrors.FunlitError{Op: "core.Current", Kind: ferrors.KindBinding, Err: ErrNoHost}
	}
	return r.current, nil
}

// enter makes h the current host until the returned release runs.
func (r *Registry) enter(h *Host) (release func()) {
	prev := r.current
	r.current = h
	return func() { r.current = prev }
}

func (r *Registry) notifyInit(h *Host, err error) {
	for _, hk := range r.hooks {
		if hk.OnInit != nil {
			hk.OnInit(h, err)
		}
	}
}

func (r *Registry) notifyUpdateRequested(h *Host, coalesced bool) {
	for _, hk := range r.hooks {
		if hk.OnUpdateRequested != nil {
			hk.OnUpdateRequested(h, coalesced)
		}
	}
}

func (r *Registry) notifyRender(h *Host, elapsed time.Duration, err error) {
	for _, hk := range r.hooks {
		if hk.OnRender != nil {
			hk.OnRender(h, elapsed, err)
		}
	}
}

// Definition is a registered component: a tag name and its init routine.
type Definition struct {
	registry *Registry
	tag      string
	init     InitFunc
	form     bool
}

// Tag returns the tag name.
func (d *Definition) Tag() string {
	return d.tag
}

// TypeName returns the generated host type name, e.g. "FunStepperElement".
func (d *Definition) TypeName() string {
	return names.Pascalize(d.tag) + "Element"
}

// FormAssociated reports whether hosts take part in form callbacks.
func (d *Definition) FormAssociated() bool {
	return d.form
}

// New creates a host bound to el. Elements that accept lifecycle reactions
// (such as *dom.Element) are upgraded so the platform drives the host.
func (d *Definition) New(el Element) *Host {
	h := &Host{def: d, element: el}
	if u, ok := el.(interface{ Upgrade(dom.Reactions) }); ok {
		u.Upgrade(h)
	}
	return h
}
