// Package scenario replays scripted window sessions against a headless
// compositor. Scenarios are YAML documents that declare windows and a
// list of steps; replaying one yields a Snapshot of the final state.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/stackwm/internal/geom"
)

// Scenario is a parsed scenario document.
type Scenario struct {
	Screen  geom.Rect    `yaml:"screen"`
	Params  *ParamsSpec  `yaml:"params,omitempty"`
	Windows []WindowSpec `yaml:"windows"`
	Steps   []Step       `yaml:"steps"`
}

// ParamsSpec overrides the hit-region sizes for a scenario.
type ParamsSpec struct {
	ResizeMargin   int `yaml:"resize_margin"`
	TitleBarHeight int `yaml:"title_bar_height"`
}

// WindowSpec declares one window. Windows are created in order, so a
// parent must be declared before its children.
type WindowSpec struct {
	Name     string       `yaml:"name"`
	Title    string       `yaml:"title,omitempty"`
	Geometry geom.Rect    `yaml:"geometry"`
	Margins  geom.Margins `yaml:"margins,omitempty"`
	Min      geom.Size    `yaml:"min,omitempty"`
	Max      geom.Size    `yaml:"max,omitempty"`
	Flags    []string     `yaml:"flags,omitempty"`
	Blocked  bool         `yaml:"blocked,omitempty"`
	Zone     string       `yaml:"zone,omitempty"`
	Parent   string       `yaml:"parent,omitempty"`
	// Container makes a node with no window of its own, used to group
	// children.
	Container bool `yaml:"container,omitempty"`
}

// Step is one scripted action. Exactly one field must be set.
type Step struct {
	Pointer   *PointerStep  `yaml:"pointer,omitempty"`
	Raise     string        `yaml:"raise,omitempty"`
	Lower     string        `yaml:"lower,omitempty"`
	Zone      *ZoneStep     `yaml:"zone,omitempty"`
	Activate  string        `yaml:"activate,omitempty"`
	Focus     *FocusStep    `yaml:"focus,omitempty"`
	Destroy   string        `yaml:"destroy,omitempty"`
	Reparent  *ReparentStep `yaml:"reparent,omitempty"`
	Composite bool          `yaml:"composite,omitempty"`
}

// PointerStep is a raw pointer event.
type PointerStep struct {
	ID      int      `yaml:"id,omitempty"`
	Kind    string   `yaml:"kind"`
	X       int      `yaml:"x"`
	Y       int      `yaml:"y"`
	Buttons []string `yaml:"buttons,omitempty"`
}

type ZoneStep struct {
	Window string `yaml:"window"`
	Zone   string `yaml:"zone"`
}

type FocusStep struct {
	Window  string `yaml:"window"`
	Focused bool   `yaml:"focused"`
}

// ReparentStep moves a window under another one. An empty parent means
// the root.
type ReparentStep struct {
	Window string `yaml:"window"`
	Parent string `yaml:"parent,omitempty"`
	Zone   string `yaml:"zone,omitempty"`
}

// Load reads and parses the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes a scenario document. Unknown keys are errors.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	seen := make(map[string]bool, len(sc.Windows))
	for i, w := range sc.Windows {
		if w.Name == "" {
			return nil, fmt.Errorf("window %d: name is required", i)
		}
		if seen[w.Name] {
			return nil, fmt.Errorf("window %q declared twice", w.Name)
		}
		if w.Parent != "" && !seen[w.Parent] {
			return nil, fmt.Errorf("window %q: parent %q: %w", w.Name, w.Parent, ErrUnknownWindow)
		}
		seen[w.Name] = true
	}
	for i, st := range sc.Steps {
		if n := st.actions(); n != 1 {
			return nil, fmt.Errorf("step %d: %w: %d actions set, want 1", i, ErrInvalidStep, n)
		}
	}
	return &sc, nil
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{
		s.Pointer != nil,
		s.Raise != "",
		s.Lower != "",
		s.Zone != nil,
		s.Activate != "",
		s.Focus != nil,
		s.Destroy != "",
		s.Reparent != nil,
		s.Composite,
	} {
		if set {
			n++
		}
	}
	return n
}
