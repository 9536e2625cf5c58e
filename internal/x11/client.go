package x11

import (
	"log/slog"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/stackwm/internal/geom"
	"github.com/1broseidon/stackwm/internal/stack"
	"github.com/1broseidon/stackwm/internal/wintree"
)

// Client is a top-level X window presented to the compositor. Geometry is
// cached; SetGeometry writes through to the server.
type Client struct {
	xu  *xgbutil.XUtil
	win *xwindow.Window

	title    string
	rect     geom.Rect
	margins  geom.Margins
	min, max geom.Size
	flags    wintree.Flags
	zone     stack.Zone

	transientFor xproto.Window
	modal        bool
	blocked      bool

	logger *slog.Logger
}

var (
	_ wintree.Window       = (*Client)(nil)
	_ wintree.Titled       = (*Client)(nil)
	_ wintree.ActiveSetter = (*Client)(nil)
)

// Window returns the X window id.
func (c *Client) Window() xproto.Window { return c.win.Id }

// Zone is the stacking zone the client asked for through its window type.
func (c *Client) Zone() stack.Zone { return c.zone }

// TransientFor returns the window this client is transient for, or 0.
func (c *Client) TransientFor() xproto.Window { return c.transientFor }

func (c *Client) Geometry() geom.Rect        { return c.rect }
func (c *Client) FrameMargins() geom.Margins { return c.margins }
func (c *Client) MinimumSize() geom.Size     { return c.min }
func (c *Client) MaximumSize() geom.Size     { return c.max }
func (c *Client) Flags() wintree.Flags       { return c.flags }
func (c *Client) IsBlockedByModal() bool     { return c.blocked }
func (c *Client) Title() string              { return c.title }

// SetGeometry moves and resizes the X window.
func (c *Client) SetGeometry(r geom.Rect) {
	if r.Width < 1 {
		r.Width = 1
	}
	if r.Height < 1 {
		r.Height = 1
	}
	c.rect = r
	c.win.MoveResize(r.X, r.Y, r.Width, r.Height)
}

// RequestActivate gives the client input focus and publishes it as the
// active window.
func (c *Client) RequestActivate() {
	xproto.SetInputFocus(c.xu.Conn(), xproto.InputFocusPointerRoot, c.win.Id, xproto.TimeCurrentTime)
	if err := ewmh.ActiveWindowSet(c.xu, c.win.Id); err != nil {
		c.logger.Debug("failed to set active window", "window", c.win.Id, "error", err)
	}
}

// SetActive updates _NET_WM_STATE_FOCUSED on the client.
func (c *Client) SetActive(active bool) {
	action := wmStateRemove
	if active {
		action = wmStateAdd
	}
	if err := ewmh.WmStateReq(c.xu, c.win.Id, action, "_NET_WM_STATE_FOCUSED"); err != nil {
		c.logger.Debug("failed to update focused state", "window", c.win.Id, "error", err)
	}
}

// _NET_WM_STATE client message actions.
const (
	wmStateRemove = 0
	wmStateAdd    = 1
)

// newClient reads the properties of win. It reports false for windows that
// should not be managed.
func newClient(conn *Connection, win xproto.Window, decoration geom.Margins, logger *slog.Logger) (*Client, bool) {
	xu := conn.XUtil
	attrs, err := xproto.GetWindowAttributes(xu.Conn(), win).Reply()
	if err != nil || attrs.OverrideRedirect || attrs.MapState != xproto.MapStateViewable {
		return nil, false
	}

	types, _ := ewmh.WmWindowTypeGet(xu, win)
	flags, zone, manage := classifyTypes(types)
	if !manage {
		return nil, false
	}

	rect, ok := windowRect(conn, win)
	if !ok {
		return nil, false
	}

	c := &Client{
		xu:      xu,
		win:     xwindow.New(xu, win),
		title:   windowTitle(xu, win),
		rect:    rect,
		margins: decoration,
		flags:   flags,
		zone:    zone,
		logger:  logger,
	}
	if flags.Has(wintree.FlagPopup) {
		c.margins = geom.Margins{}
	}
	if hints, err := icccm.WmNormalHintsGet(xu, win); err == nil {
		c.min, c.max = sizeLimits(hints)
	}
	if parent, err := icccm.WmTransientForGet(xu, win); err == nil && parent != win {
		c.transientFor = parent
	}
	if states, err := ewmh.WmStateGet(xu, win); err == nil {
		for _, s := range states {
			if s == "_NET_WM_STATE_MODAL" {
				c.modal = true
			}
		}
	}
	return c, true
}

// classifyTypes maps _NET_WM_WINDOW_TYPE values onto activation flags and a
// stacking zone. Desktop windows are not managed.
func classifyTypes(types []string) (wintree.Flags, stack.Zone, bool) {
	var flags wintree.Flags
	zone := stack.ZoneRegular
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_DESKTOP":
			return 0, zone, false
		case "_NET_WM_WINDOW_TYPE_DOCK":
			flags |= wintree.FlagNoActivate
			zone = stack.ZoneTop
		case "_NET_WM_WINDOW_TYPE_NOTIFICATION", "_NET_WM_WINDOW_TYPE_SPLASH":
			flags |= wintree.FlagNoActivate
			zone = stack.ZoneTop
		case "_NET_WM_WINDOW_TYPE_POPUP_MENU", "_NET_WM_WINDOW_TYPE_DROPDOWN_MENU",
			"_NET_WM_WINDOW_TYPE_TOOLTIP", "_NET_WM_WINDOW_TYPE_COMBO":
			flags |= wintree.FlagPopup
		case "_NET_WM_WINDOW_TYPE_UTILITY", "_NET_WM_WINDOW_TYPE_TOOLBAR", "_NET_WM_WINDOW_TYPE_MENU":
			flags |= wintree.FlagTool
		}
	}
	return flags, zone, true
}

// sizeLimits extracts the minimum and maximum size from WM_NORMAL_HINTS.
func sizeLimits(h *icccm.NormalHints) (minSize, maxSize geom.Size) {
	if h.Flags&icccm.SizeHintPMinSize != 0 {
		minSize = geom.Size{Width: int(h.MinWidth), Height: int(h.MinHeight)}
	}
	if h.Flags&icccm.SizeHintPMaxSize != 0 {
		maxSize = geom.Size{Width: int(h.MaxWidth), Height: int(h.MaxHeight)}
	}
	return minSize, maxSize
}

func windowRect(conn *Connection, win xproto.Window) (geom.Rect, bool) {
	g, err := xproto.GetGeometry(conn.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return geom.Rect{}, false
	}
	translate, err := xproto.TranslateCoordinates(conn.XUtil.Conn(), win, conn.Root, 0, 0).Reply()
	if err != nil {
		return geom.Rect{}, false
	}
	return geom.Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(g.Width),
		Height: int(g.Height),
	}, true
}

func windowTitle(xu *xgbutil.XUtil, win xproto.Window) string {
	if title, err := ewmh.WmNameGet(xu, win); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(xu, win); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}
