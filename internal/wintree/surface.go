package wintree

import (
	"github.com/1broseidon/stackwm/internal/geom"
	"github.com/1broseidon/stackwm/internal/input"
)

// Surface is an in-memory Window. It backs headless sessions and windows
// created over IPC, and records what the compositor did to it.
type Surface struct {
	Name        string
	Rect        geom.Rect
	Margins     geom.Margins
	Min         geom.Size
	Max         geom.Size
	WindowFlags Flags
	Blocked     bool

	Active           bool
	PaintOrder       int
	ActivateRequests int
	Dismissed        bool
	Events           []input.PointerEvent

	// OnDismiss runs when the compositor dismisses this popup.
	OnDismiss func()
}

var (
	_ Window               = (*Surface)(nil)
	_ ActiveSetter         = (*Surface)(nil)
	_ PaintOrderSetter     = (*Surface)(nil)
	_ input.PointerHandler = (*Surface)(nil)
)

func (s *Surface) Geometry() geom.Rect        { return s.Rect }
func (s *Surface) FrameMargins() geom.Margins { return s.Margins }
func (s *Surface) MinimumSize() geom.Size     { return s.Min }
func (s *Surface) MaximumSize() geom.Size     { return s.Max }
func (s *Surface) SetGeometry(r geom.Rect)    { s.Rect = r }
func (s *Surface) Flags() Flags               { return s.WindowFlags }
func (s *Surface) RequestActivate()           { s.ActivateRequests++ }
func (s *Surface) IsBlockedByModal() bool     { return s.Blocked }
func (s *Surface) SetActive(active bool)      { s.Active = active }
func (s *Surface) SetPaintOrder(index int)    { s.PaintOrder = index }
func (s *Surface) Title() string              { return s.Name }

// HandlePointer records the delivered event.
func (s *Surface) HandlePointer(ev input.PointerEvent) {
	s.Events = append(s.Events, ev)
}

// Dismiss marks the surface dismissed and runs OnDismiss.
func (s *Surface) Dismiss() {
	s.Dismissed = true
	if s.OnDismiss != nil {
		s.OnDismiss()
	}
}

// EventKinds returns the kinds of every recorded event, in order.
func (s *Surface) EventKinds() []input.Kind {
	kinds := make([]input.Kind, len(s.Events))
	for i, ev := range s.Events {
		kinds[i] = ev.Kind
	}
	return kinds
}
