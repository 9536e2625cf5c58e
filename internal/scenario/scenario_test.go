package scenario

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/1broseidon/stackwm/internal/geom"
	"github.com/1broseidon/stackwm/internal/manip"
	"github.com/1broseidon/stackwm/internal/wintree"
)

func TestRaiseLowerScenario(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "raise_lower.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s, err := NewSession(sc, Options{})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if got := s.Snapshot().Names(); got[0] != "W5" {
		t.Fatalf("top before raise = %q, want W5", got[0])
	}

	if err := s.Apply(sc.Steps[:1]); err != nil {
		t.Fatalf("raise: %v", err)
	}
	if got, want := s.Snapshot().Names(), []string{"W2", "W5", "W4", "W3", "W1", "R"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after raise = %v, want %v", got, want)
	}

	if err := s.Apply(sc.Steps[1:]); err != nil {
		t.Fatalf("lower: %v", err)
	}
	snap := s.Snapshot()
	if got, want := snap.Names(), []string{"W5", "W4", "W3", "W1", "R", "W2"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after lower = %v, want %v", got, want)
	}
	if snap.Draws != 1 {
		t.Fatalf("draws = %d, want 1", snap.Draws)
	}
	w2, _ := snap.Window("W2")
	if w2.Paint != wintree.PaintOrderBase {
		t.Fatalf("W2 paint = %d, want %d", w2.Paint, wintree.PaintOrderBase)
	}
	r, _ := snap.Window("R")
	if r.Paint != wintree.PaintOrderBase+1 {
		t.Fatalf("R paint = %d, want %d", r.Paint, wintree.PaintOrderBase+1)
	}
}

func TestDragScenario(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "drag.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap, err := Run(sc, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	editor, ok := snap.Window("editor")
	if !ok {
		t.Fatalf("editor missing from %v", snap.Names())
	}
	// Moved by (60,20), then grown to the maximum size.
	want := geom.Rect{X: 160, Y: 144, Width: 600, Height: 400}
	if editor.Geometry != want {
		t.Fatalf("editor geometry = %v, want %v", editor.Geometry, want)
	}
	if editor.Title != "Editor" {
		t.Fatalf("editor title = %q", editor.Title)
	}
	if len(editor.Events) != 0 {
		t.Fatalf("gesture events were delivered: %v", editor.Events)
	}
	if _, ok := snap.Window("menu"); ok {
		t.Fatalf("popup still present after a press on empty space")
	}
	if !reflect.DeepEqual(snap.Dismissed, []string{"menu"}) {
		t.Fatalf("dismissed = %v, want [menu]", snap.Dismissed)
	}
	if snap.Gesture != manip.PhaseIdle.String() {
		t.Fatalf("gesture = %q, want idle", snap.Gesture)
	}
	if snap.Focused != "editor" {
		t.Fatalf("focused = %q, want editor", snap.Focused)
	}
}

func TestPointerEventsAreRecorded(t *testing.T) {
	sc, err := Parse([]byte(`
screen: {width: 800, height: 600}
windows:
  - {name: a, geometry: {x: 0, y: 0, width: 100, height: 100}}
steps:
  - pointer: {kind: move, x: 10, y: 10}
  - pointer: {kind: down, x: 10, y: 10, buttons: [right]}
  - pointer: {kind: up, x: 10, y: 10}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	snap, err := Run(sc, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	a, _ := snap.Window("a")
	want := []string{"enter#1@(10,10)", "move#1@(10,10)", "down#1@(10,10)", "up#1@(10,10)"}
	if !reflect.DeepEqual(a.Events, want) {
		t.Fatalf("events = %v, want %v", a.Events, want)
	}
}

func TestContainerChildren(t *testing.T) {
	sc, err := Parse([]byte(`
screen: {width: 800, height: 600}
windows:
  - {name: group, container: true}
  - {name: child, parent: group, geometry: {x: 0, y: 0, width: 100, height: 100}}
  - {name: other, geometry: {x: 0, y: 0, width: 100, height: 100}}
steps:
  - raise: child
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	snap, err := Run(sc, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	child, ok := snap.Window("child")
	if !ok || child.Parent != "group" {
		t.Fatalf("child = %+v, want parent group", child)
	}
	if got := snap.Names(); got[0] != "child" {
		t.Fatalf("order = %v, want child first", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "unknown parent",
			doc:  "windows:\n  - {name: a, parent: b}\n",
			want: ErrUnknownWindow,
		},
		{
			name: "two actions",
			doc:  "windows:\n  - {name: a}\nsteps:\n  - {raise: a, lower: a}\n",
			want: ErrInvalidStep,
		},
		{
			name: "empty step",
			doc:  "steps:\n  - {}\n",
			want: ErrInvalidStep,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := Parse([]byte("windows:\n  - {name: a, colour: red}\n")); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestApplyUnknownWindow(t *testing.T) {
	sc, err := Parse([]byte("windows:\n  - {name: a}\nsteps:\n  - destroy: a\n  - raise: a\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := Run(sc, Options{}); !errors.Is(err, ErrUnknownWindow) {
		t.Fatalf("Run error = %v, want ErrUnknownWindow", err)
	}
}

func TestBadFlag(t *testing.T) {
	sc, err := Parse([]byte("windows:\n  - {name: a, flags: [sticky]}\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := NewSession(sc, Options{}); err == nil {
		t.Fatalf("expected error for unknown flag")
	}
}
