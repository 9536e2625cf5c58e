package x11

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/stackwm/internal/compositor"
	"github.com/1broseidon/stackwm/internal/geom"
	"github.com/1broseidon/stackwm/internal/input"
	"github.com/1broseidon/stackwm/internal/wintree"
)

// corePointer is the id given to events from the X core pointer.
const corePointer = 1

// InputConfig configures an Input.
type InputConfig struct {
	// Registry resolves X windows to nodes. Nil means a fresh one.
	Registry *Registry
	// Decoration is the frame given to clients mapped after startup.
	Decoration geom.Margins
	// OnMapped runs on the X event goroutine when an unmanaged client is
	// mapped on the root.
	OnMapped func(*Client)
	// OnGone runs on the X event goroutine when a managed client is
	// unmapped or destroyed.
	OnGone func(xproto.Window, wintree.NodeID)
	Logger *slog.Logger
}

// Input is a compositor.InputSource for the root window. Presses that
// land on the root, such as those in the decoration band around a
// client, start an implicit grab, so the drag that follows is reported
// even when it crosses client windows.
type Input struct {
	conn       *Connection
	registry   *Registry
	decoration geom.Margins
	onMapped   func(*Client)
	onGone     func(xproto.Window, wintree.NodeID)
	logger     *slog.Logger

	mu   sync.Mutex
	sink compositor.InputSink
}

var _ compositor.InputSource = (*Input)(nil)

// NewInput creates an Input reading from conn.
func NewInput(conn *Connection, cfg InputConfig) *Input {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	registry := cfg.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	return &Input{
		conn:       conn,
		registry:   registry,
		decoration: cfg.Decoration,
		onMapped:   cfg.OnMapped,
		onGone:     cfg.OnGone,
		logger:     logger,
	}
}

// Track starts reporting focus changes for win. Its node is looked up in
// the registry when each event arrives.
func (in *Input) Track(win xproto.Window) {
	xu := in.conn.XUtil
	if err := xwindow.New(xu, win).Listen(xproto.EventMaskFocusChange, xproto.EventMaskStructureNotify); err != nil {
		in.logger.Warn("failed to select client events", "window", win, "error", err)
		return
	}
	xevent.FocusInFun(func(xu *xgbutil.XUtil, ev xevent.FocusInEvent) {
		if ev.Mode == xproto.NotifyModeNormal {
			in.focus(win, true)
		}
	}).Connect(xu, win)
	xevent.FocusOutFun(func(xu *xgbutil.XUtil, ev xevent.FocusOutEvent) {
		if ev.Mode == xproto.NotifyModeNormal {
			in.focus(win, false)
		}
	}).Connect(xu, win)
}

// Run listens on the root window and forwards events to sink until ctx
// is done.
func (in *Input) Run(ctx context.Context, sink compositor.InputSink) error {
	in.mu.Lock()
	in.sink = sink
	in.mu.Unlock()

	xu := in.conn.XUtil
	root := in.conn.Root
	err := xwindow.New(xu, root).Listen(
		xproto.EventMaskButtonPress,
		xproto.EventMaskButtonRelease,
		xproto.EventMaskPointerMotion,
		xproto.EventMaskLeaveWindow,
		xproto.EventMaskSubstructureNotify,
	)
	if err != nil {
		return fmt.Errorf("failed to select root pointer events (is another window manager running?): %w", err)
	}

	xevent.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		b := buttonBit(ev.Detail)
		if b == 0 {
			return
		}
		in.pointer(input.Down, ev.RootX, ev.RootY, stateButtons(ev.State)|b, ev.State)
	}).Connect(xu, root)
	xevent.ButtonReleaseFun(func(xu *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		b := buttonBit(ev.Detail)
		if b == 0 {
			return
		}
		in.pointer(input.Up, ev.RootX, ev.RootY, stateButtons(ev.State)&^b, ev.State)
	}).Connect(xu, root)
	xevent.MotionNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		in.pointer(input.Move, ev.RootX, ev.RootY, stateButtons(ev.State), ev.State)
	}).Connect(xu, root)
	xevent.LeaveNotifyFun(func(xu *xgbutil.XUtil, ev xevent.LeaveNotifyEvent) {
		if ev.Detail == xproto.NotifyDetailInferior {
			return
		}
		in.pointer(input.Leave, ev.RootX, ev.RootY, stateButtons(ev.State), ev.State)
	}).Connect(xu, root)
	xevent.MapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
		in.mapped(ev.Window, ev.OverrideRedirect)
	}).Connect(xu, root)
	xevent.UnmapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		in.gone(ev.Window)
	}).Connect(xu, root)
	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		in.gone(ev.Window)
	}).Connect(xu, root)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			in.conn.Quit()
		case <-done:
		}
	}()

	in.logger.Info("x11 input started", "root", root)
	in.conn.EventLoop()
	return ctx.Err()
}

func (in *Input) pointer(kind input.Kind, x, y int16, buttons input.Buttons, state uint16) {
	in.mu.Lock()
	sink := in.sink
	in.mu.Unlock()
	if sink == nil {
		return
	}
	sink.PointerEvent(input.PointerEvent{
		PointerID: corePointer,
		Kind:      kind,
		Point:     geom.Point{X: int(x), Y: int(y)},
		Buttons:   buttons,
		Modifiers: stateModifiers(state),
	})
}

func (in *Input) focus(win xproto.Window, focused bool) {
	node, ok := in.registry.Node(win)
	in.mu.Lock()
	sink := in.sink
	in.mu.Unlock()
	if ok && sink != nil {
		sink.FocusChanged(node, focused)
	}
}

// mapped reads a client newly mapped on the root. Whether it is already
// managed is decided on the loop, after any pending removal of the same
// window.
func (in *Input) mapped(win xproto.Window, overrideRedirect bool) {
	if overrideRedirect || in.onMapped == nil {
		return
	}
	c, ok := newClient(in.conn, win, in.decoration, in.logger)
	if !ok {
		return
	}
	in.logger.Debug("client mapped", "window", win, "title", c.title)
	in.onMapped(c)
}

func (in *Input) gone(win xproto.Window) {
	node, ok := in.registry.Node(win)
	if !ok {
		return
	}
	in.logger.Debug("client gone", "window", win, "node", node)
	xevent.Detach(in.conn.XUtil, win)
	if in.onGone != nil {
		in.onGone(win, node)
	}
}

// buttonBit maps an X button number to its mask bit. Wheel buttons map
// to 0.
func buttonBit(b xproto.Button) input.Buttons {
	switch b {
	case xproto.ButtonIndex1:
		return input.ButtonPrimary
	case xproto.ButtonIndex2:
		return input.ButtonTertiary
	case xproto.ButtonIndex3:
		return input.ButtonSecondary
	}
	return 0
}

// stateButtons returns the buttons held in an X key/button state mask.
func stateButtons(state uint16) input.Buttons {
	var b input.Buttons
	if state&xproto.KeyButMaskButton1 != 0 {
		b |= input.ButtonPrimary
	}
	if state&xproto.KeyButMaskButton2 != 0 {
		b |= input.ButtonTertiary
	}
	if state&xproto.KeyButMaskButton3 != 0 {
		b |= input.ButtonSecondary
	}
	return b
}

func stateModifiers(state uint16) input.Modifiers {
	var m input.Modifiers
	if state&xproto.KeyButMaskShift != 0 {
		m |= input.ModShift
	}
	if state&xproto.KeyButMaskControl != 0 {
		m |= input.ModCtrl
	}
	if state&xproto.KeyButMaskMod1 != 0 {
		m |= input.ModAlt
	}
	if state&xproto.KeyButMaskMod4 != 0 {
		m |= input.ModMeta
	}
	return m
}
