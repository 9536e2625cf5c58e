package x11

import (
	"slices"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xcursor"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/stackwm/internal/compositor"
	"github.com/1broseidon/stackwm/internal/geom"
	"github.com/1broseidon/stackwm/internal/input"
	"github.com/1broseidon/stackwm/internal/stack"
	"github.com/1broseidon/stackwm/internal/wintree"
)

func TestClassifyTypes(t *testing.T) {
	tests := []struct {
		name   string
		types  []string
		flags  wintree.Flags
		zone   stack.Zone
		manage bool
	}{
		{"untyped", nil, 0, stack.ZoneRegular, true},
		{"normal", []string{"_NET_WM_WINDOW_TYPE_NORMAL"}, 0, stack.ZoneRegular, true},
		{"desktop", []string{"_NET_WM_WINDOW_TYPE_DESKTOP"}, 0, stack.ZoneRegular, false},
		{"dock", []string{"_NET_WM_WINDOW_TYPE_DOCK"}, wintree.FlagNoActivate, stack.ZoneTop, true},
		{"menu", []string{"_NET_WM_WINDOW_TYPE_POPUP_MENU"}, wintree.FlagPopup, stack.ZoneRegular, true},
		{"utility", []string{"_NET_WM_WINDOW_TYPE_UTILITY"}, wintree.FlagTool, stack.ZoneRegular, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, zone, manage := classifyTypes(tt.types)
			if flags != tt.flags || zone != tt.zone || manage != tt.manage {
				t.Fatalf("classifyTypes(%v) = %v,%v,%v, want %v,%v,%v",
					tt.types, flags, zone, manage, tt.flags, tt.zone, tt.manage)
			}
		})
	}
}

func TestSizeLimits(t *testing.T) {
	h := &icccm.NormalHints{
		Flags:     icccm.SizeHintPMinSize,
		MinWidth:  80,
		MinHeight: 40,
		MaxWidth:  999,
		MaxHeight: 999,
	}
	minSize, maxSize := sizeLimits(h)
	if minSize != (geom.Size{Width: 80, Height: 40}) {
		t.Fatalf("min = %v, want 80x40", minSize)
	}
	if !maxSize.IsZero() {
		t.Fatalf("max = %v without PMaxSize, want unbounded", maxSize)
	}

	h.Flags |= icccm.SizeHintPMaxSize
	if _, maxSize = sizeLimits(h); maxSize != (geom.Size{Width: 999, Height: 999}) {
		t.Fatalf("max = %v, want 999x999", maxSize)
	}
}

func TestButtonMapping(t *testing.T) {
	if got := buttonBit(xproto.ButtonIndex1); got != input.ButtonPrimary {
		t.Fatalf("button 1 = %v", got)
	}
	if got := buttonBit(xproto.ButtonIndex3); got != input.ButtonSecondary {
		t.Fatalf("button 3 = %v", got)
	}
	if got := buttonBit(xproto.ButtonIndex4); got != 0 {
		t.Fatalf("wheel button = %v, want 0", got)
	}
	state := uint16(xproto.KeyButMaskButton1 | xproto.KeyButMaskButton2 | xproto.KeyButMaskMod1)
	if got := stateButtons(state); got != input.ButtonPrimary|input.ButtonTertiary {
		t.Fatalf("stateButtons = %v", got)
	}
	if got := stateModifiers(state); got != input.ModAlt {
		t.Fatalf("stateModifiers = %v, want alt", got)
	}
}

func TestStackingOrderSkipsNonClients(t *testing.T) {
	layers := []compositor.Layer{
		{Window: &Client{win: &xwindow.Window{Id: 7}}},
		{Window: &wintree.Surface{}},
		{Window: &Client{win: &xwindow.Window{Id: 3}}},
	}
	if got, want := stackingOrder(layers), []xproto.Window{7, 3}; !slices.Equal(got, want) {
		t.Fatalf("stackingOrder = %v, want %v", got, want)
	}
}

func TestCursorGlyph(t *testing.T) {
	if got := cursorGlyph(input.CursorDefault); got != xcursor.LeftPtr {
		t.Fatalf("default glyph = %d", got)
	}
	if got := cursorGlyph(input.CursorResizeSE); got != xcursor.BottomRightCorner {
		t.Fatalf("se glyph = %d", got)
	}
}

func TestMonitorAt(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, Bounds: geom.Rect{Width: 1920, Height: 1080}},
		{ID: 1, Bounds: geom.Rect{X: 1920, Width: 1280, Height: 1024}},
	}
	if mon := monitorAt(monitors, geom.Point{X: 2000, Y: 10}); mon == nil || mon.ID != 1 {
		t.Fatalf("monitorAt right = %+v, want 1", mon)
	}
	if mon := monitorAt(monitors, geom.Point{X: 5000, Y: 10}); mon != nil {
		t.Fatalf("monitorAt outside = %+v, want nil", mon)
	}
}

func TestClientWithoutHintsIsResizable(t *testing.T) {
	c := &Client{rect: geom.Rect{Width: 10, Height: 10}}
	if got := c.Geometry(); got.Width != 10 {
		t.Fatalf("geometry = %v", got)
	}
	if !wintree.Resizable(c) {
		t.Fatalf("client without size hints should be resizable")
	}
}
