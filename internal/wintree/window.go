package wintree

import (
	"github.com/1broseidon/stackwm/internal/geom"
)

// Flags describe how a window takes part in activation.
type Flags uint8

const (
	// FlagPopup marks transient popups; they are dismissed by a press
	// outside every window and never take activation on insertion.
	FlagPopup Flags = 1 << iota
	// FlagTool marks tool windows, which never take activation on insertion.
	FlagTool
	// FlagNoActivate marks windows that do not accept activation at all.
	FlagNoActivate
)

// Has reports whether every bit of x is set.
func (f Flags) Has(x Flags) bool { return f&x == x }

// AcceptsActivation reports whether the window may become active.
func (f Flags) AcceptsActivation() bool { return f&FlagNoActivate == 0 }

// Window is the platform surface a tree node presents. The tree holds it
// by reference; its lifetime belongs to the windowing front end.
type Window interface {
	Geometry() geom.Rect
	FrameMargins() geom.Margins
	MinimumSize() geom.Size
	// MaximumSize returns the largest allowed size. A zero component means
	// unbounded on that axis.
	MaximumSize() geom.Size
	SetGeometry(r geom.Rect)
	Flags() Flags
	RequestActivate()
	IsBlockedByModal() bool
}

// ActiveSetter is implemented by windows that track whether they are their
// parent's active child.
type ActiveSetter interface {
	SetActive(active bool)
}

// PaintOrderSetter is implemented by windows that want their paint index.
type PaintOrderSetter interface {
	SetPaintOrder(index int)
}

// Titled is implemented by windows that have a human-readable title.
type Titled interface {
	Title() string
}

// FrameGeometry returns the window geometry grown by its decoration margins.
func FrameGeometry(w Window) geom.Rect {
	return w.FrameMargins().Grow(w.Geometry())
}

// Resizable reports whether the window's size constraints leave room to
// resize it: the minimum differs from the maximum, or an axis is unbounded.
func Resizable(w Window) bool {
	maxSize := w.MaximumSize()
	if maxSize.Width == 0 || maxSize.Height == 0 {
		return true
	}
	return w.MinimumSize() != maxSize
}

// TitleOf returns the window title, or "" if the window has none.
func TitleOf(w Window) string {
	if t, ok := w.(Titled); ok {
		return t.Title()
	}
	return ""
}
