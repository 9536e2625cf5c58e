// Package input defines the discrete pointer events the compositor consumes.
// It does not parse any native platform format; front ends translate their
// own events into these types.
package input

import (
	"fmt"
	"strings"

	"github.com/1broseidon/stackwm/internal/geom"
)

// Kind is the type of a pointer event.
type Kind int

const (
	Down Kind = iota
	Move
	Up
	Enter
	Leave
	Cancel
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	case Enter:
		return "enter"
	case Leave:
		return "leave"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "down":
		return Down, nil
	case "move":
		return Move, nil
	case "up":
		return Up, nil
	case "enter":
		return Enter, nil
	case "leave":
		return Leave, nil
	case "cancel":
		return Cancel, nil
	}
	return 0, fmt.Errorf("unknown pointer event kind %q", s)
}

// Buttons is a bitmask of held pointer buttons.
type Buttons uint8

const (
	ButtonPrimary Buttons = 1 << iota
	ButtonSecondary
	ButtonTertiary
)

// ParseButton maps a button name to its mask bit.
func ParseButton(s string) (Buttons, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "primary":
		return ButtonPrimary, nil
	case "right", "secondary":
		return ButtonSecondary, nil
	case "middle", "tertiary":
		return ButtonTertiary, nil
	}
	return 0, fmt.Errorf("unknown button %q", s)
}

// Modifiers is a bitmask of keyboard modifiers held during the event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// PointerEvent is a single pointer event. Buttons holds the buttons that
// remain pressed after the event, so an Up for the last button carries 0.
type PointerEvent struct {
	PointerID int
	Kind      Kind
	Point     geom.Point
	Buttons   Buttons
	Modifiers Modifiers

	// Local is Point relative to the receiving window's geometry. The
	// compositor fills it in on delivery.
	Local geom.Point
}

func (e PointerEvent) String() string {
	return fmt.Sprintf("%s#%d@%v", e.Kind, e.PointerID, e.Point)
}

// PointerHandler is implemented by windows that want pointer events
// delivered to them.
type PointerHandler interface {
	HandlePointer(ev PointerEvent)
}

// Cursor is the pointer shape the compositor asks the front end to show.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorMove
	CursorResizeN
	CursorResizeS
	CursorResizeW
	CursorResizeE
	CursorResizeNW
	CursorResizeNE
	CursorResizeSW
	CursorResizeSE
)

// String returns the string representation of the cursor
func (c Cursor) String() string {
	switch c {
	case CursorDefault:
		return "default"
	case CursorMove:
		return "move"
	case CursorResizeN:
		return "n-resize"
	case CursorResizeS:
		return "s-resize"
	case CursorResizeW:
		return "w-resize"
	case CursorResizeE:
		return "e-resize"
	case CursorResizeNW:
		return "nw-resize"
	case CursorResizeNE:
		return "ne-resize"
	case CursorResizeSW:
		return "sw-resize"
	case CursorResizeSE:
		return "se-resize"
	default:
		return "unknown"
	}
}
