package dom

import (
	"maps"
	"slices"
)

// Fragment is a render root: the rendered text content plus the named
// actions (event handlers) that the last render bound.
type Fragment struct {
	content string
	actions map[string]func()
	commits int
}

// Replace swaps the fragment's content and actions.
func (f *Fragment) Replace(content string, actions map[string]func()) {
	f.content = content
	f.actions = maps.Clone(actions)
	f.commits++
}

// Content returns the rendered content.
func (f *Fragment) Content() string {
	return f.content
}

// Commits returns how many times the fragment was replaced.
func (f *Fragment) Commits() int {
	return f.commits
}

// Actions returns the bound action names in sorted order.
func (f *Fragment) Actions() []string {
	return slices.Sorted(maps.Keys(f.actions))
}

// Invoke runs the named action, reporting whether it exists.
func (f *Fragment) Invoke(action string) bool {
	fn, ok := f.actions[action]
	if !ok || fn == nil {
		return false
	}
	fn()
	return true
}
