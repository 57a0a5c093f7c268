package testing

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/funlit/pkg/core"
	"github.com/go-drift/funlit/pkg/testing/internal/testbed"
)

func defineCounter(t *testing.T, tester *HostTester) {
	t.Helper()
	if _, err := tester.Define("fun-counter", testbed.Counter); err != nil {
		t.Fatal(err)
	}
}

func TestMount_RendersFromAttributes(t *testing.T) {
	tester := NewHostTesterWithT(t)
	defineCounter(t, tester)

	h, el, err := tester.Mount("fun-counter", map[string]string{"count": "41"})
	if err != nil {
		t.Fatal(err)
	}
	if h.Status() != core.StatusInitialized {
		t.Error("mounted host should be initialized")
	}
	if tester.Host(el) != h {
		t.Error("Host(el) should return the mounted host")
	}
	if got := tester.Content(el); got != "41" {
		t.Errorf("content = %q, want 41", got)
	}
}

func TestMount_Undefined(t *testing.T) {
	tester := NewHostTesterWithT(t)
	if _, _, err := tester.Mount("fun-missing", nil); !errors.Is(err, ErrUndefined) {
		t.Errorf("Mount() error = %v, want ErrUndefined", err)
	}
}

func TestInvoke_UpdatesContent(t *testing.T) {
	tester := NewHostTesterWithT(t)
	defineCounter(t, tester)
	_, el, err := tester.Mount("fun-counter", nil)
	if err != nil {
		t.Fatal(err)
	}

	for range 2 {
		if err := tester.Invoke(ByTag("fun-counter"), "increment"); err != nil {
			t.Fatal(err)
		}
	}
	if got := tester.Content(el); got != "2" {
		t.Errorf("content = %q, want 2", got)
	}
	if diff := cmp.Diff([]any{"0", "1", "2"}, stringValues(tester.RendersOf("fun-counter"))); diff != "" {
		t.Errorf("renders mismatch (-want +got):\n%s", diff)
	}

	if err := tester.Invoke(ByTag("fun-counter"), "explode"); err == nil {
		t.Error("Invoke of an unbound action should fail")
	}
	if err := tester.Invoke(ByTag("fun-other"), "increment"); err == nil {
		t.Error("Invoke with no match should fail")
	}
}

func TestSetAttribute_ReturnsParseErrors(t *testing.T) {
	tester := NewHostTesterWithT(t)
	defineCounter(t, tester)
	if _, _, err := tester.Mount("fun-counter", nil); err != nil {
		t.Fatal(err)
	}

	if err := tester.SetAttribute(ByTag("fun-counter"), "count", "x"); err == nil {
		t.Error("unparsable attribute should return an error")
	}
	if len(tester.Errors()) != 1 {
		t.Errorf("reported errors = %v, want 1", tester.Errors())
	}
	if err := tester.SetAttribute(ByTag("fun-counter"), "count", "7"); err != nil {
		t.Fatal(err)
	}
	if !tester.Find(ByText("7")).Exists() {
		t.Error("expected content 7 after attribute change")
	}
	if err := tester.RemoveAttribute(ByTag("fun-counter"), "count"); err == nil {
		t.Error("removing a parsed attribute parses the empty string and should fail")
	}
}

func TestDetach_KeepsStateAcrossReattach(t *testing.T) {
	tester := NewHostTesterWithT(t)
	defineCounter(t, tester)
	_, el, err := tester.Mount("fun-counter", map[string]string{"count": "3"})
	if err != nil {
		t.Fatal(err)
	}
	if err := tester.Invoke(ByTag("fun-counter"), "increment"); err != nil {
		t.Fatal(err)
	}

	tester.Detach(el)
	if err := tester.Pump(); err != nil {
		t.Fatal(err)
	}
	if tester.Find(ByTag("fun-counter")).Exists() {
		t.Error("detached element should not be found")
	}
	tester.Attach(el)
	if err := tester.Pump(); err != nil {
		t.Fatal(err)
	}
	if got := tester.Content(el); got != "4" {
		t.Errorf("content after reattach = %q, want 4", got)
	}
}

func TestDispatch(t *testing.T) {
	tester := NewHostTesterWithT(t)

	called := false
	tester.Dispatch(func() { called = true })

	if called {
		t.Error("dispatch should not run until Pump")
	}
	if err := tester.Pump(); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("dispatch should have run after Pump")
	}
}

func TestPump_Runaway(t *testing.T) {
	tester := NewHostTesterWithT(t)
	_, err := tester.Define("fun-restless", func(h *core.Host) (core.RenderFunc, error) {
		n, err := core.BindValue(h, 0)
		if err != nil {
			return nil, err
		}
		return func() any {
			tester.Dispatch(func() { n.Update(func(v int) int { return v + 1 }) })
			return n.Value()
		}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := tester.Mount("fun-restless", nil); !errors.Is(err, ErrRunaway) {
		t.Errorf("Mount() error = %v, want ErrRunaway", err)
	}
}

func stringValues(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		if s, ok := v.(interface{ String() string }); ok {
			out[i] = s.String()
		} else {
			out[i] = v
		}
	}
	return out
}
