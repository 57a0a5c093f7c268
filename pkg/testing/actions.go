package testing

import "fmt"

// Invoke fires the named action bound by the first element matched by
// finder, then pumps.
func (t *HostTester) Invoke(finder Finder, action string) error {
	result := t.Find(finder)
	if !result.Exists() {
		return fmt.Errorf("Invoke: finder matched no elements: %s", finder.Description())
	}
	if !result.First().RenderRoot().Invoke(action) {
		return fmt.Errorf("Invoke: no action %q bound on %s", action, finder.Description())
	}
	return t.Pump()
}

// SetAttribute sets an attribute on the first element matched by finder,
// then pumps. Errors returned by attribute observers are returned.
func (t *HostTester) SetAttribute(finder Finder, name, value string) error {
	result := t.Find(finder)
	if !result.Exists() {
		return fmt.Errorf("SetAttribute: finder matched no elements: %s", finder.Description())
	}
	if err := result.First().SetAttribute(name, value); err != nil {
		return err
	}
	return t.Pump()
}

// RemoveAttribute removes an attribute from the first element matched by
// finder, then pumps.
func (t *HostTester) RemoveAttribute(finder Finder, name string) error {
	result := t.Find(finder)
	if !result.Exists() {
		return fmt.Errorf("RemoveAttribute: finder matched no elements: %s", finder.Description())
	}
	if err := result.First().RemoveAttribute(name); err != nil {
		return err
	}
	return t.Pump()
}
