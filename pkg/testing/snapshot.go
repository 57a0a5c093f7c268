package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/funlit/pkg/dom"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the connected elements and what they rendered.
type Snapshot struct {
	Elements []*ElementNode `json:"elements"`
}

// ElementNode is the serialized state of one element.
type ElementNode struct {
	ID         string            `json:"id"`
	Tag        string            `json:"tag"`
	Attributes map[string]string `json:"attrs,omitempty"`
	Content    string            `json:"content"`
	Actions    []string          `json:"actions,omitempty"`
	Shadow     bool              `json:"shadow,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	Commits    int               `json:"commits"`
}

// CaptureSnapshot captures the current document.
func (t *HostTester) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{}
	counter := &tagCounter{}
	for _, el := range t.doc.Children() {
		snap.Elements = append(snap.Elements, t.captureElement(el, counter))
	}
	return snap
}

func (t *HostTester) captureElement(el *dom.Element, counter *tagCounter) *ElementNode {
	root := el.RenderRoot()
	node := &ElementNode{
		ID:      counter.next(el.TagName()),
		Tag:     el.TagName(),
		Content: root.Content(),
		Actions: root.Actions(),
		Shadow:  el.ShadowRoot() != nil,
		Commits: root.Commits(),
	}
	if names := el.AttributeNames(); len(names) > 0 {
		node.Attributes = make(map[string]string, len(names))
		for _, name := range names {
			node.Attributes[name], _ = el.GetAttribute(name)
		}
	}
	if h := t.hosts[el]; h != nil {
		if fields := h.Fields(); len(fields) > 0 {
			node.Fields = make(map[string]string, len(fields))
			for _, name := range fields {
				v, _ := h.Get(name)
				node.Fields[name] = fmt.Sprint(v)
			}
		}
	}
	return node
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When FUNLIT_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("FUNLIT_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: FUNLIT_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: FUNLIT_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a diff between other (expected) and this snapshot (actual).
// Returns empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	return cmp.Diff(other, s)
}

// tagCounter assigns stable IDs like "fun-stepper#0", "fun-stepper#1".
type tagCounter struct {
	counts map[string]int
}

func (c *tagCounter) next(tag string) string {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	n := c.counts[tag]
	c.counts[tag] = n + 1
	return fmt.Sprintf("%s#%d", tag, n)
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
