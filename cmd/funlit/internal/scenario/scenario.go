// Package scenario loads and runs scripted component interactions.
//
// A scenario is a YAML document listing steps that drive elements in a
// headless document:
//
//	name: stepper basics
//	steps:
//	  - create: {id: s, tag: fun-stepper, attrs: {count: "5"}}
//	  - attach: s
//	  - pump: true
//	  - click: {id: s, action: increment}
//	  - expect: {id: s, content: "6 [-] [+] [x]"}
//
// Steps run as one turn of the event loop each. Reactions and update passes
// they queue run on the next pump, click, frame or expect step, so several
// steps can be batched into a single update.
package scenario

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario is a named list of steps.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step holds exactly one action.
type Step struct {
	Create          *CreateStep    `yaml:"create,omitempty"`
	Attach          string         `yaml:"attach,omitempty"`
	Detach          string         `yaml:"detach,omitempty"`
	Adopt           string         `yaml:"adopt,omitempty"`
	SetAttribute    *AttributeStep `yaml:"set-attribute,omitempty"`
	RemoveAttribute *AttributeStep `yaml:"remove-attribute,omitempty"`
	SetProperty     *PropertyStep  `yaml:"set-property,omitempty"`
	Click           *ClickStep     `yaml:"click,omitempty"`
	Pump            bool           `yaml:"pump,omitempty"`
	Advance         time.Duration  `yaml:"advance,omitempty"`
	// Frame advances the clock and runs one animation frame. Use
	// "frame: 0s" for a frame at the current time.
	Frame  *time.Duration `yaml:"frame,omitempty"`
	Expect *ExpectStep    `yaml:"expect,omitempty"`
}

// CreateStep makes a detached element. Attributes are set and properties
// preset before the host is bound.
type CreateStep struct {
	ID    string            `yaml:"id"`
	Tag   string            `yaml:"tag"`
	Attrs map[string]string `yaml:"attrs,omitempty"`
	Props map[string]any    `yaml:"props,omitempty"`
}

// AttributeStep sets or removes an attribute.
type AttributeStep struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Value string `yaml:"value,omitempty"`
}

// PropertyStep assigns a field through the host.
type PropertyStep struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`
}

// ClickStep invokes an action bound by the element's rendered content.
type ClickStep struct {
	ID     string `yaml:"id"`
	Action string `yaml:"action"`
}

// ExpectStep asserts on an element after pumping. Unset fields are not
// checked.
type ExpectStep struct {
	ID        string            `yaml:"id"`
	Content   *string           `yaml:"content,omitempty"`
	Status    string            `yaml:"status,omitempty"`
	Connected *bool             `yaml:"connected,omitempty"`
	Fields    map[string]string `yaml:"fields,omitempty"`
	Renders   *int              `yaml:"renders,omitempty"`
	// Error matches a substring of the last error reported since the
	// previous expect step. An empty string expects no error.
	Error *string `yaml:"error,omitempty"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario has no steps")
	}
	for i, step := range sc.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &sc, nil
}

// kinds lists the actions set on s.
func (s Step) kinds() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(s.Create != nil, "create")
	add(s.Attach != "", "attach")
	add(s.Detach != "", "detach")
	add(s.Adopt != "", "adopt")
	add(s.SetAttribute != nil, "set-attribute")
	add(s.RemoveAttribute != nil, "remove-attribute")
	add(s.SetProperty != nil, "set-property")
	add(s.Click != nil, "click")
	add(s.Pump, "pump")
	add(s.Advance != 0, "advance")
	add(s.Frame != nil, "frame")
	add(s.Expect != nil, "expect")
	return out
}

func (s Step) validate() error {
	kinds := s.kinds()
	switch len(kinds) {
	case 0:
		return fmt.Errorf("no action")
	case 1:
	default:
		return fmt.Errorf("multiple actions: %s", strings.Join(kinds, ", "))
	}

	missing := func(field string) error {
		return fmt.Errorf("%s: %s is required", kinds[0], field)
	}
	switch {
	case s.Create != nil:
		if s.Create.ID == "" {
			return missing("id")
		}
		if s.Create.Tag == "" {
			return missing("tag")
		}
	case s.SetAttribute != nil:
		if s.SetAttribute.ID == "" || s.SetAttribute.Name == "" {
			return missing("id and name")
		}
	case s.RemoveAttribute != nil:
		if s.RemoveAttribute.ID == "" || s.RemoveAttribute.Name == "" {
			return missing("id and name")
		}
	case s.SetProperty != nil:
		if s.SetProperty.ID == "" || s.SetProperty.Name == "" {
			return missing("id and name")
		}
	case s.Click != nil:
		if s.Click.ID == "" || s.Click.Action == "" {
			return missing("id and action")
		}
	case s.Expect != nil:
		if s.Expect.ID == "" {
			return missing("id")
		}
	case s.Advance < 0:
		return fmt.Errorf("advance: duration must be positive")
	case s.Frame != nil && *s.Frame < 0:
		return fmt.Errorf("frame: duration must not be negative")
	}
	return nil
}

// String describes the step as printed by the runner.
func (s Step) String() string {
	switch {
	case s.Create != nil:
		var b strings.Builder
		fmt.Fprintf(&b, "create %s <%s>", s.Create.ID, s.Create.Tag)
		for _, k := range slices.Sorted(maps.Keys(s.Create.Attrs)) {
			fmt.Fprintf(&b, " %s=%q", k, s.Create.Attrs[k])
		}
		for _, k := range slices.Sorted(maps.Keys(s.Create.Props)) {
			fmt.Fprintf(&b, " .%s=%v", k, s.Create.Props[k])
		}
		return b.String()
	case s.Attach != "":
		return "attach " + s.Attach
	case s.Detach != "":
		return "detach " + s.Detach
	case s.Adopt != "":
		return "adopt " + s.Adopt
	case s.SetAttribute != nil:
		return fmt.Sprintf("set-attribute %s %s=%q", s.SetAttribute.ID, s.SetAttribute.Name, s.SetAttribute.Value)
	case s.RemoveAttribute != nil:
		return fmt.Sprintf("remove-attribute %s %s", s.RemoveAttribute.ID, s.RemoveAttribute.Name)
	case s.SetProperty != nil:
		return fmt.Sprintf("set-property %s .%s=%v", s.SetProperty.ID, s.SetProperty.Name, s.SetProperty.Value)
	case s.Click != nil:
		return fmt.Sprintf("click %s %s", s.Click.ID, s.Click.Action)
	case s.Pump:
		return "pump"
	case s.Advance != 0:
		return "advance " + s.Advance.String()
	case s.Frame != nil:
		return "frame +" + s.Frame.String()
	case s.Expect != nil:
		return "expect " + s.Expect.ID
	}
	return "noop"
}
