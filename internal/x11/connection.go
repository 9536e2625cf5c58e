// Package x11 runs the compositor against a live X server. It adopts the
// root window's mapped clients as tree nodes, feeds root pointer events
// into the compositor loop and restacks clients after every paint.
package x11

import (
	"fmt"
	"os"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection connects to display, or to $DISPLAY when display is
// empty. A non-empty xauthority replaces $XAUTHORITY first.
func NewConnection(display, xauthority string) (*Connection, error) {
	if xauthority != "" {
		if err := os.Setenv("XAUTHORITY", xauthority); err != nil {
			return nil, fmt.Errorf("failed to set XAUTHORITY: %w", err)
		}
	}
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}
	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// EventLoop starts the main X11 event loop (blocking)
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit stops EventLoop after the event being processed.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
