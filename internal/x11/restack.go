package x11

import (
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xcursor"

	"github.com/1broseidon/stackwm/internal/compositor"
	"github.com/1broseidon/stackwm/internal/input"
)

// Restacker is the compositor's Renderer on X. The server draws the
// clients itself, so a paint pass only has to put them in stacking
// order.
type Restacker struct {
	conn    *Connection
	cursors map[input.Cursor]xproto.Cursor
	logger  *slog.Logger
}

var (
	_ compositor.Renderer     = (*Restacker)(nil)
	_ compositor.CursorSetter = (*Restacker)(nil)
)

// NewRestacker creates a Restacker on conn.
func NewRestacker(conn *Connection, logger *slog.Logger) *Restacker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Restacker{
		conn:    conn,
		cursors: make(map[input.Cursor]xproto.Cursor),
		logger:  logger,
	}
}

// DrawWindowsInOrder stacks each client directly above the previous one
// and publishes the order as _NET_CLIENT_LIST_STACKING.
func (r *Restacker) DrawWindowsInOrder(layers []compositor.Layer) {
	order := stackingOrder(layers)
	for i := 1; i < len(order); i++ {
		xproto.ConfigureWindow(r.conn.XUtil.Conn(), order[i],
			xproto.ConfigWindowSibling|xproto.ConfigWindowStackMode,
			[]uint32{uint32(order[i-1]), xproto.StackModeAbove})
	}
	if err := ewmh.ClientListStackingSet(r.conn.XUtil, order); err != nil {
		r.logger.Debug("failed to publish stacking order", "error", err)
	}
}

// SetCursor sets the root window cursor.
func (r *Restacker) SetCursor(c input.Cursor) {
	cur, ok := r.cursors[c]
	if !ok {
		var err error
		cur, err = xcursor.CreateCursor(r.conn.XUtil, cursorGlyph(c))
		if err != nil {
			r.logger.Warn("failed to create cursor", "cursor", c.String(), "error", err)
			return
		}
		r.cursors[c] = cur
	}
	xproto.ChangeWindowAttributes(r.conn.XUtil.Conn(), r.conn.Root, xproto.CwCursor, []uint32{uint32(cur)})
}

// stackingOrder returns the X windows of the layers that are clients,
// bottom to top.
func stackingOrder(layers []compositor.Layer) []xproto.Window {
	order := make([]xproto.Window, 0, len(layers))
	for _, l := range layers {
		if c, ok := l.Window.(*Client); ok {
			order = append(order, c.Window())
		}
	}
	return order
}

func cursorGlyph(c input.Cursor) uint16 {
	switch c {
	case input.CursorMove:
		return xcursor.Fleur
	case input.CursorResizeN:
		return xcursor.TopSide
	case input.CursorResizeS:
		return xcursor.BottomSide
	case input.CursorResizeW:
		return xcursor.LeftSide
	case input.CursorResizeE:
		return xcursor.RightSide
	case input.CursorResizeNW:
		return xcursor.TopLeftCorner
	case input.CursorResizeNE:
		return xcursor.TopRightCorner
	case input.CursorResizeSW:
		return xcursor.BottomLeftCorner
	case input.CursorResizeSE:
		return xcursor.BottomRightCorner
	default:
		return xcursor.LeftPtr
	}
}
