package testing

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCaptureSnapshot_Elements(t *testing.T) {
	tester := mountCounters(t, "3")

	snap := tester.CaptureSnapshot()
	if len(snap.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(snap.Elements))
	}
	node := snap.Elements[0]
	if node.ID != "fun-counter#0" || node.Tag != "fun-counter" {
		t.Errorf("node identity = %s/%s", node.ID, node.Tag)
	}
	if node.Content != "3" || node.Commits != 1 {
		t.Errorf("node content=%q commits=%d", node.Content, node.Commits)
	}
	if node.Attributes["count"] != "3" || node.Fields["count"] != "3" {
		t.Errorf("node attrs=%v fields=%v", node.Attributes, node.Fields)
	}
	if len(node.Actions) != 1 || node.Actions[0] != "increment" {
		t.Errorf("node actions = %v", node.Actions)
	}
}

func TestSnapshot_Diff_Equal(t *testing.T) {
	tester := mountCounters(t, "1")

	a := tester.CaptureSnapshot()
	b := tester.CaptureSnapshot()

	if diff := a.Diff(b); diff != "" {
		t.Errorf("expected no diff for identical snapshots, got:\n%s", diff)
	}
}

func TestSnapshot_Diff_Different(t *testing.T) {
	tester := mountCounters(t, "1")
	a := tester.CaptureSnapshot()

	if err := tester.Invoke(ByTag("fun-counter"), "increment"); err != nil {
		t.Fatal(err)
	}
	b := tester.CaptureSnapshot()

	if diff := a.Diff(b); diff == "" {
		t.Error("expected diff for different snapshots")
	}
}

func TestSnapshot_UpdateAndMatch(t *testing.T) {
	t.Setenv("FUNLIT_UPDATE_SNAPSHOTS", "")
	tester := mountCounters(t, "8", "9")
	snap := tester.CaptureSnapshot()

	dir := t.TempDir()
	path := filepath.Join(dir, "testdata", "counter.snapshot.json")

	if err := snap.UpdateFile(path); err != nil {
		t.Fatalf("UpdateFile failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("snapshot file should exist after UpdateFile")
	}

	// MatchesFile should pass now
	snap.MatchesFile(t, path)
}

func TestSnapshot_MatchesFile_MissingFile(t *testing.T) {
	t.Setenv("FUNLIT_UPDATE_SNAPSHOTS", "")
	tester := mountCounters(t, "1")
	snap := tester.CaptureSnapshot()

	// Use a recorder to intercept the Fatal
	failed := false
	sub := &fatalRecorder{name: t.Name(), onFatal: func() { failed = true }}
	snap.MatchesFile(sub, "/nonexistent/path/snap.json")

	if !failed {
		t.Error("expected MatchesFile to fail for missing file")
	}
}

func TestSnapshot_MatchesFile_Mismatch(t *testing.T) {
	t.Setenv("FUNLIT_UPDATE_SNAPSHOTS", "")
	tester := mountCounters(t, "1")
	first := tester.CaptureSnapshot()

	dir := t.TempDir()
	path := filepath.Join(dir, "snap.json")
	if err := first.UpdateFile(path); err != nil {
		t.Fatal(err)
	}

	if err := tester.SetAttribute(ByTag("fun-counter"), "count", "50"); err != nil {
		t.Fatal(err)
	}
	second := tester.CaptureSnapshot()

	errored := false
	sub := &mismatchRecorder{name: t.Name(), onError: func() { errored = true }}
	second.MatchesFile(sub, path)

	if !errored {
		t.Error("expected MatchesFile to report error for mismatch")
	}
}

func TestSnapshot_UpdateMode(t *testing.T) {
	tester := mountCounters(t, "1")
	snap := tester.CaptureSnapshot()

	dir := t.TempDir()
	path := filepath.Join(dir, "update.snapshot.json")

	t.Setenv("FUNLIT_UPDATE_SNAPSHOTS", "1")
	snap.MatchesFile(t, path)

	// File should now exist
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("snapshot file should be created in update mode")
	}
}

// fatalRecorder intercepts Fatalf calls for testing MatchesFile failures.
type fatalRecorder struct {
	name    string
	onFatal func()
}

func (r *fatalRecorder) Fatalf(format string, args ...any) { r.onFatal() }
func (r *fatalRecorder) Errorf(format string, args ...any) {}
func (r *fatalRecorder) Helper()                           {}
func (r *fatalRecorder) Name() string                      { return r.name }

// mismatchRecorder intercepts Errorf calls for testing MatchesFile mismatches.
type mismatchRecorder struct {
	name    string
	onError func()
}

func (r *mismatchRecorder) Fatalf(format string, args ...any) {}
func (r *mismatchRecorder) Errorf(format string, args ...any) { r.onError() }
func (r *mismatchRecorder) Helper()                           {}
func (r *mismatchRecorder) Name() string                      { return r.name }
