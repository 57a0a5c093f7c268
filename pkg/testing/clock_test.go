package testing

import (
	"testing"
	"time"

	"github.com/go-drift/funlit/pkg/testing/internal/testbed"
)

func TestFakeClock_Advance(t *testing.T) {
	clk := NewFakeClock()
	start := clk.Now()

	clk.Advance(100 * time.Millisecond)
	elapsed := clk.Now().Sub(start)

	if elapsed != 100*time.Millisecond {
		t.Errorf("expected 100ms elapsed, got %v", elapsed)
	}
}

func TestFakeClock_Set(t *testing.T) {
	clk := NewFakeClock()
	target := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	clk.Set(target)
	if !clk.Now().Equal(target) {
		t.Errorf("expected %v, got %v", target, clk.Now())
	}
}

func TestHostTester_ClockDrivesLoop(t *testing.T) {
	tester := NewHostTesterWithT(t)
	start := tester.Loop().Now()

	tester.Clock().Advance(500 * time.Millisecond)
	if tester.Loop().Now().Sub(start) != 500*time.Millisecond {
		t.Error("clock advancement not reflected by the loop")
	}
}

func TestProgress_FrameAdvance(t *testing.T) {
	tester := NewHostTesterWithT(t)
	if _, err := tester.Define("fun-progress", testbed.Progress(tester.Loop(), time.Second)); err != nil {
		t.Fatal(err)
	}
	_, el, err := tester.Mount("fun-progress", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := tester.Content(el); got != "0%" {
		t.Fatalf("initial content = %q, want 0%%", got)
	}

	// Advance to halfway
	if err := tester.PumpFrame(500 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if got := tester.Content(el); got != "50%" {
		t.Errorf("content after 500ms = %q, want 50%%", got)
	}

	// Advance past the end
	if err := tester.PumpFrame(600 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if got := tester.Content(el); got != "100%" {
		t.Errorf("final content = %q, want 100%%", got)
	}
	if tester.Loop().FramePending() {
		t.Error("finished component should stop requesting frames")
	}
}

func TestPumpAndSettle_Progress(t *testing.T) {
	tester := NewHostTesterWithT(t)
	if _, err := tester.Define("fun-progress", testbed.Progress(tester.Loop(), 100*time.Millisecond)); err != nil {
		t.Fatal(err)
	}
	_, el, err := tester.Mount("fun-progress", nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Errorf("expected settle after progress completes, got: %v", err)
	}
	if got := tester.Content(el); got != "100%" {
		t.Errorf("content = %q, want 100%%", got)
	}
}

func TestPumpAndSettle_Timeout(t *testing.T) {
	tester := NewHostTesterWithT(t)
	if _, err := tester.Define("fun-progress", testbed.Progress(tester.Loop(), time.Hour)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := tester.Mount("fun-progress", nil); err != nil {
		t.Fatal(err)
	}
	if err := tester.PumpAndSettle(100 * time.Millisecond); err != ErrSettleTimeout {
		t.Errorf("PumpAndSettle() = %v, want ErrSettleTimeout", err)
	}
}
