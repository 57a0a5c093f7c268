package metrics

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/go-drift/funlit/pkg/core"
	"github.com/go-drift/funlit/pkg/dom"
	ferrors "github.com/go-drift/funlit/pkg/errors"
	"github.com/go-drift/funlit/pkg/sched"
)

type quietHandler struct{}

func (quietHandler) HandleError(*ferrors.FunlitError)       {}
func (quietHandler) HandlePanic(*ferrors.PanicError)        {}
func (quietHandler) HandleRenderError(*ferrors.RenderError) {}

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	c, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues(%v): %v", labels, err)
	}
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestCollector_RegistersWithPrefix(t *testing.T) {
	c := NewCollector()
	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}

	ch := make(chan *prometheus.Desc, 16)
	c.Describe(ch)
	close(ch)
	n := 0
	for desc := range ch {
		n++
		if !strings.Contains(desc.String(), `fqName: "funlit_`) {
			t.Errorf("metric %s does not start with funlit_", desc)
		}
	}
	if n != 7 {
		t.Errorf("described %d metrics, want 7", n)
	}
}

func TestCollector_ObservesHostActivity(t *testing.T) {
	ferrors.SetHandler(quietHandler{})
	t.Cleanup(func() { ferrors.SetHandler(nil) })

	c := NewCollector()
	loop := sched.NewLoop(nil)
	doc := dom.NewDocument(loop)
	registry := core.NewRegistry(core.WithScheduler(loop), core.WithHooks(c.Hooks()))

	fail := false
	var count *core.Cell[int]
	def, err := registry.Define("fun-metered", func(h *core.Host) (core.RenderFunc, error) {
		cell, err := core.BindProperty(h, "count", 0)
		if err != nil {
			return nil, err
		}
		count = cell
		return func() any {
			if fail {
				panic("render failed")
			}
			return cell.Value()
		}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	broken, err := registry.Define("fun-broken", func(h *core.Host) (core.RenderFunc, error) {
		return nil, errors.New("no")
	})
	if err != nil {
		t.Fatal(err)
	}

	el := doc.CreateElement("fun-metered")
	def.New(el)
	doc.Append(el)
	bad := doc.CreateElement("fun-broken")
	broken.New(bad)
	doc.Append(bad)
	for loop.Step() {
	}

	count.Set(1)
	count.Set(2)
	for loop.Step() {
	}
	fail = true
	count.Set(3)
	for loop.Step() {
	}

	tests := []struct {
		name string
		vec  *prometheus.CounterVec
		tag  string
		want float64
	}{
		{"update requests", c.updateRequests, "fun-metered", 4},
		{"coalesced", c.coalesced, "fun-metered", 1},
		{"renders", c.renders, "fun-metered", 3},
		{"render errors", c.renderErrors, "fun-metered", 1},
		{"init failures", c.initFailures, "fun-broken", 1},
		{"no init failures", c.initFailures, "fun-metered", 0},
	}
	for _, tt := range tests {
		if got := counterValue(t, tt.vec, tt.tag); got != tt.want {
			t.Errorf("%s{tag=%q} = %v, want %v", tt.name, tt.tag, got, tt.want)
		}
	}

	g, err := c.initializedHosts.GetMetricWithLabelValues("fun-metered")
	if err != nil {
		t.Fatal(err)
	}
	m := &dto.Metric{}
	if err := g.Write(m); err != nil {
		t.Fatal(err)
	}
	if got := m.GetGauge().GetValue(); got != 1 {
		t.Errorf("initialized hosts = %v, want 1", got)
	}
}
