// Package manip drives interactive move and resize gestures.
//
// A Machine is Idle until a press on a window's title region or resize
// band starts a gesture. From then on it only follows the pointer that
// started it, updating the window geometry on every move, until that
// pointer is released or cancelled.
package manip

import (
	"log/slog"
	"math"

	"github.com/1broseidon/stackwm/internal/geom"
	"github.com/1broseidon/stackwm/internal/input"
	"github.com/1broseidon/stackwm/internal/wintree"
)

// Phase is the state of a Machine.
type Phase int

const (
	// PhaseIdle means no gesture is in progress
	PhaseIdle Phase = iota
	// PhaseMoving means the target follows the pointer
	PhaseMoving
	// PhaseResizing means the dragged edges follow the pointer
	PhaseResizing
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseMoving:
		return "moving"
	case PhaseResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// unbounded stands in for a missing maximum size.
const unbounded = math.MaxInt32

// state is the transient data of one gesture.
type state struct {
	pointer int
	target  wintree.NodeID
	win     wintree.Window
	screen  geom.Rect

	// move
	startPoint geom.Point
	startPos   geom.Point

	// resize
	edges     Edges
	origin    geom.Point
	startRect geom.Rect
	minShrink geom.Point
	maxGrow   geom.Point
}

// Machine is the move/resize state machine. The zero value is idle and
// ready to use.
type Machine struct {
	phase  Phase
	st     state
	Logger *slog.Logger
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// Active reports whether a gesture is in progress.
func (m *Machine) Active() bool { return m.phase != PhaseIdle }

// Target returns the node being manipulated, or wintree.None when idle.
func (m *Machine) Target() wintree.NodeID {
	if m.phase == PhaseIdle {
		return wintree.None
	}
	return m.st.target
}

// Pointer returns the id of the pointer driving the gesture.
func (m *Machine) Pointer() (int, bool) {
	return m.st.pointer, m.phase != PhaseIdle
}

// Edges returns the edges being dragged during a resize.
func (m *Machine) Edges() Edges {
	if m.phase != PhaseResizing {
		return 0
	}
	return m.st.edges
}

// BeginMove starts moving w if it accepts activation and is not blocked
// by a modal window. It reports whether the gesture started.
func (m *Machine) BeginMove(pointer int, target wintree.NodeID, w wintree.Window, at geom.Point, screen geom.Rect) bool {
	if m.phase != PhaseIdle || !w.Flags().AcceptsActivation() || w.IsBlockedByModal() {
		return false
	}
	m.st = state{
		pointer:    pointer,
		target:     target,
		win:        w,
		screen:     screen,
		startPoint: screen.Clamp(at),
		startPos:   w.Geometry().Pos(),
	}
	m.phase = PhaseMoving
	m.logger().Debug("move started", "node", target, "pointer", pointer, "at", at.String())
	return true
}

// BeginResize starts resizing the given edges of w, provided its minimum
// and maximum sizes differ and it is not blocked by a modal window. It
// reports whether the gesture started.
func (m *Machine) BeginResize(pointer int, target wintree.NodeID, w wintree.Window, at geom.Point, edges Edges, screen geom.Rect) bool {
	if m.phase != PhaseIdle || edges == 0 || !wintree.Resizable(w) || w.IsBlockedByModal() {
		return false
	}
	rect := w.Geometry()
	minSize, maxSize := w.MinimumSize(), w.MaximumSize()
	if maxSize.Width == 0 {
		maxSize.Width = unbounded
	}
	if maxSize.Height == 0 {
		maxSize.Height = unbounded
	}
	minShrink := geom.Point{X: minSize.Width - rect.Width, Y: minSize.Height - rect.Height}
	maxGrow := geom.Point{X: maxSize.Width - rect.Width, Y: maxSize.Height - rect.Height}

	// Growing through the top or left edge stops at the screen edge.
	if !screen.Empty() {
		frame := wintree.FrameGeometry(w)
		if edges&EdgeLeft != 0 {
			maxGrow.X = min(maxGrow.X, max(0, frame.X-screen.X))
		}
		if edges&EdgeTop != 0 {
			maxGrow.Y = min(maxGrow.Y, max(0, frame.Y-screen.Y))
		}
	}

	m.st = state{
		pointer:   pointer,
		target:    target,
		win:       w,
		screen:    screen,
		edges:     edges,
		origin:    at,
		startRect: rect,
		minShrink: minShrink,
		maxGrow:   maxGrow,
	}
	m.phase = PhaseResizing
	m.logger().Debug("resize started", "node", target, "pointer", pointer, "edges", edges.String())
	return true
}

// Handle feeds a pointer event to the machine. It reports whether the
// event belonged to the current gesture; events from other pointers, and
// every event while idle, are left for the caller.
func (m *Machine) Handle(ev input.PointerEvent) bool {
	if m.phase == PhaseIdle || ev.PointerID != m.st.pointer {
		return false
	}
	switch ev.Kind {
	case input.Move:
		if ev.Buttons == 0 {
			m.end("buttons released")
			return true
		}
		m.update(ev.Point)
	case input.Up:
		m.update(ev.Point)
		m.end("pointer up")
	case input.Cancel:
		m.end(ev.Kind.String())
	}
	return true
}

// Cancel abandons the gesture without touching the window again.
func (m *Machine) Cancel() {
	if m.phase == PhaseIdle {
		return
	}
	m.end("cancelled")
}

func (m *Machine) update(pt geom.Point) {
	switch m.phase {
	case PhaseMoving:
		delta := m.st.screen.Clamp(pt).Sub(m.st.startPoint)
		rect := m.st.win.Geometry()
		pos := m.st.startPos.Add(delta)
		rect.X, rect.Y = pos.X, pos.Y
		m.st.win.SetGeometry(rect)
	case PhaseResizing:
		m.st.win.SetGeometry(m.resized(pt))
	}
}

// resized applies the pointer displacement from the gesture origin to the
// starting geometry. Each axis is clamped independently, and only the
// dragged edges move.
func (m *Machine) resized(pt geom.Point) geom.Rect {
	st := &m.st
	delta := pt.Sub(st.origin)
	var grow geom.Point
	switch {
	case st.edges&EdgeLeft != 0:
		grow.X = -delta.X
	case st.edges&EdgeRight != 0:
		grow.X = delta.X
	}
	switch {
	case st.edges&EdgeTop != 0:
		grow.Y = -delta.Y
	case st.edges&EdgeBottom != 0:
		grow.Y = delta.Y
	}
	grow.X = min(st.maxGrow.X, max(st.minShrink.X, grow.X))
	grow.Y = min(st.maxGrow.Y, max(st.minShrink.Y, grow.Y))

	r := st.startRect
	if st.edges&EdgeLeft != 0 {
		r.X -= grow.X
		r.Width += grow.X
	} else if st.edges&EdgeRight != 0 {
		r.Width += grow.X
	}
	if st.edges&EdgeTop != 0 {
		r.Y -= grow.Y
		r.Height += grow.Y
	} else if st.edges&EdgeBottom != 0 {
		r.Height += grow.Y
	}
	return r
}

func (m *Machine) end(reason string) {
	m.logger().Debug("gesture ended", "phase", m.phase.String(), "node", m.st.target, "reason", reason)
	m.phase = PhaseIdle
	m.st = state{}
}

func (m *Machine) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return m.Logger
}
