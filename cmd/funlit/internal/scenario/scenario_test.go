package scenario

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/funlit/pkg/core"
)

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{name: "no steps", yaml: "name: empty\n", wantErr: "no steps"},
		{name: "empty step", yaml: "steps:\n  - {}\n", wantErr: "step 1: no action"},
		{
			name:    "two actions",
			yaml:    "steps:\n  - {attach: a, detach: a}\n",
			wantErr: "multiple actions: attach, detach",
		},
		{
			name:    "create without tag",
			yaml:    "steps:\n  - create: {id: a}\n",
			wantErr: "create: tag is required",
		},
		{
			name:    "click without action",
			yaml:    "steps:\n  - pump: true\n  - click: {id: a}\n",
			wantErr: "step 2: click: id and action is required",
		},
		{name: "bad duration", yaml: "steps:\n  - advance: soon\n", wantErr: "failed to parse scenario"},
		{name: "valid", yaml: "steps:\n  - frame: 0s\n  - advance: 1s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Parse: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Parse error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestStep_String(t *testing.T) {
	sc, err := Parse([]byte(`
steps:
  - create: {id: s, tag: fun-stepper, attrs: {count: "3"}, props: {label: x}}
  - set-attribute: {id: s, name: count, value: "4"}
  - click: {id: s, action: increment}
  - frame: 16ms
`))
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, s := range sc.Steps {
		got = append(got, s.String())
	}
	want := []string{
		`create s <fun-stepper> count="3" .label=x`,
		`set-attribute s count="4"`,
		"click s increment",
		"frame +16ms",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("step strings mismatch (-want +got):\n%s", diff)
	}
}

func TestDemos_Pass(t *testing.T) {
	names := Demos()
	if diff := cmp.Diff([]string{"stepper", "timer", "toggle"}, names); diff != "" {
		t.Fatalf("Demos() mismatch (-want +got):\n%s", diff)
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			sc, err := Demo(name)
			if err != nil {
				t.Fatalf("Demo(%q): %v", name, err)
			}
			var out bytes.Buffer
			if err := NewRunner(Options{Out: &out}).Run(sc); err != nil {
				t.Fatalf("Run: %v\n%s", err, out.String())
			}
		})
	}
}

func TestDemo_Unknown(t *testing.T) {
	if _, err := Demo("spinner"); err == nil || !strings.Contains(err.Error(), "stepper, timer, toggle") {
		t.Errorf("expected unknown demo error listing demos, got %v", err)
	}
}

func TestRunner_Transcript(t *testing.T) {
	sc, err := Parse([]byte(`
name: transcript
steps:
  - create: {id: s, tag: fun-stepper, attrs: {count: "1"}}
  - attach: s
  - pump: true
  - click: {id: s, action: increment}
  - detach: s
  - pump: true
`))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := NewRunner(Options{Out: &out}).Run(sc); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{
		"== transcript",
		`> create s <fun-stepper> count="1"`,
		"> attach s",
		"> pump",
		"  event s connect",
		"  render s: 1 [-] [+] [x]",
		"> click s increment",
		"> detach s",
		"> pump",
		"  render s: 2 [-] [+] [x]",
		"  event s disconnect",
	}
	got := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}
}

func TestRunner_FailedExpectations(t *testing.T) {
	sc, err := Parse([]byte(`
name: wrong
steps:
  - create: {id: s, tag: fun-stepper}
  - attach: s
  - expect: {id: s, content: "21 [-] [+] [x]", status: uninitialized, renders: 1}
`))
	if err != nil {
		t.Fatal(err)
	}
	err = NewRunner(Options{}).Run(sc)

	var failed *FailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected *FailedError, got %v", err)
	}
	want := []string{
		`s: content = "20 [-] [+] [x]", want "21 [-] [+] [x]"`,
		"s: status = initialized, want uninitialized",
	}
	if diff := cmp.Diff(want, failed.Failures); diff != "" {
		t.Errorf("failures mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(err.Error(), "wrong: 2 expectation(s) failed") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestRunner_StructuralErrors(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		target error
		substr string
	}{
		{
			name:   "unknown id",
			yaml:   "steps:\n  - attach: ghost\n",
			target: ErrUnknownElement,
		},
		{
			name:   "undefined tag",
			yaml:   "steps:\n  - create: {id: a, tag: fun-missing}\n",
			target: ErrUndefined,
		},
		{
			name:   "duplicate id",
			yaml:   "steps:\n  - create: {id: a, tag: fun-stepper}\n  - create: {id: a, tag: fun-toggle}\n",
			substr: `step 2 (create a <fun-toggle>): element id "a" already exists`,
		},
		{
			name:   "missing action",
			yaml:   "steps:\n  - create: {id: a, tag: fun-stepper}\n  - attach: a\n  - click: {id: a, action: explode}\n",
			substr: `no action "explode"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := Parse([]byte(tt.yaml))
			if err != nil {
				t.Fatal(err)
			}
			err = NewRunner(Options{}).Run(sc)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("error = %v, want %v", err, tt.target)
			}
			if tt.substr != "" && !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("error = %v, want containing %q", err, tt.substr)
			}
		})
	}
}

func TestRunner_InitErrorIsRecorded(t *testing.T) {
	sc, err := Parse([]byte(`
steps:
  - create: {id: a, tag: fun-stepper, props: {count: many}}
  - attach: a
  - expect: {id: a, status: uninitialized, renders: 0, error: "field type mismatch"}
  - expect: {id: a, error: ""}
`))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := NewRunner(Options{Out: &out}).Run(sc); err != nil {
		t.Fatalf("Run: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "  error: core.ConnectedCallback [init] <fun-stepper>") {
		t.Errorf("transcript missing init error:\n%s", out.String())
	}
}

func TestRunner_SkipDetachedRenders(t *testing.T) {
	sc, err := Parse([]byte(`
steps:
  - create: {id: s, tag: fun-stepper, attrs: {count: "1"}}
  - attach: s
  - pump: true
  - detach: s
  - set-attribute: {id: s, name: count, value: "2"}
  - expect: {id: s, content: "1 [-] [+] [x]", renders: 1, fields: {count: "2"}}
  - attach: s
  - expect: {id: s, content: "2 [-] [+] [x]", renders: 2}
`))
	if err != nil {
		t.Fatal(err)
	}
	if err := NewRunner(Options{SkipDetachedRenders: true}).Run(sc); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunner_Hooks(t *testing.T) {
	sc, err := Demo("stepper")
	if err != nil {
		t.Fatal(err)
	}
	renders := 0
	hooks := core.Hooks{OnRender: func(*core.Host, time.Duration, error) { renders++ }}
	if err := NewRunner(Options{Hooks: []core.Hooks{hooks}}).Run(sc); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if renders == 0 {
		t.Error("expected OnRender hook to run")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	if err := os.WriteFile(path, []byte("steps:\n  - pump: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sc.Steps) != 1 || !sc.Steps[0].Pump {
		t.Errorf("steps = %+v", sc.Steps)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWatch_CallsBackOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	if err := os.WriteFile(path, []byte("steps: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, nil, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// The watcher is registered asynchronously, so keep writing until a
	// change is seen.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for seen := false; !seen; {
		select {
		case <-changed:
			seen = true
		case <-tick.C:
			if err := os.WriteFile(path, []byte("steps:\n  - pump: true\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("timed out waiting for change callback")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
