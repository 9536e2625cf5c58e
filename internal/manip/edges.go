package manip

import (
	"strings"

	"github.com/1broseidon/stackwm/internal/geom"
	"github.com/1broseidon/stackwm/internal/input"
	"github.com/1broseidon/stackwm/internal/wintree"
)

// Edges is a bitmask of frame edges. Corners are unions of two edges.
type Edges uint8

const (
	EdgeTop Edges = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// String returns the string representation of the edge mask
func (e Edges) String() string {
	if e == 0 {
		return "none"
	}
	var parts []string
	if e&EdgeTop != 0 {
		parts = append(parts, "top")
	}
	if e&EdgeBottom != 0 {
		parts = append(parts, "bottom")
	}
	if e&EdgeLeft != 0 {
		parts = append(parts, "left")
	}
	if e&EdgeRight != 0 {
		parts = append(parts, "right")
	}
	return strings.Join(parts, "|")
}

// Region classifies where a point falls on a window.
type Region int

const (
	RegionNone Region = iota
	RegionClient
	RegionTitle
	RegionEdge
)

// String returns the string representation of the region
func (r Region) String() string {
	switch r {
	case RegionNone:
		return "none"
	case RegionClient:
		return "client"
	case RegionTitle:
		return "title"
	case RegionEdge:
		return "edge"
	default:
		return "unknown"
	}
}

// Params are the tunable hit-region sizes.
type Params struct {
	// ResizeMargin is the width of the resize band on each side of a frame
	// edge. The band reaches ResizeMargin pixels outside the frame and
	// ResizeMargin pixels inside it.
	ResizeMargin int
	// TitleBarHeight is the height of the drag region at the top of a
	// decorated frame.
	TitleBarHeight int
}

// HitRect returns the rectangle a point must fall in to hit w: the frame,
// expanded by the resize margin when w can be resized.
func HitRect(w wintree.Window, p Params) geom.Rect {
	frame := wintree.FrameGeometry(w)
	if p.ResizeMargin > 0 && wintree.Resizable(w) {
		return frame.Inset(-p.ResizeMargin)
	}
	return frame
}

// EdgesAt returns the frame edges whose resize band contains pt. pt is
// assumed to lie inside the frame expanded by margin.
func EdgesAt(frame geom.Rect, pt geom.Point, margin int) Edges {
	if margin <= 0 {
		return 0
	}
	var e Edges
	if pt.X < frame.X+margin {
		e |= EdgeLeft
	} else if pt.X >= frame.Right()-margin {
		e |= EdgeRight
	}
	if pt.Y < frame.Y+margin {
		e |= EdgeTop
	} else if pt.Y >= frame.Bottom()-margin {
		e |= EdgeBottom
	}
	return e
}

// Classify reports which part of w lies under pt. Resize edges win over
// the title region, so the top band of a decorated frame still resizes.
func Classify(w wintree.Window, pt geom.Point, p Params) (Region, Edges) {
	if !HitRect(w, p).Contains(pt) {
		return RegionNone, 0
	}
	frame := wintree.FrameGeometry(w)
	if wintree.Resizable(w) {
		if e := EdgesAt(frame, pt, p.ResizeMargin); e != 0 {
			return RegionEdge, e
		}
	}
	if !frame.Contains(pt) {
		return RegionNone, 0
	}
	if w.FrameMargins().Top > 0 && pt.Y < frame.Y+p.TitleBarHeight {
		return RegionTitle, 0
	}
	return RegionClient, 0
}

// CursorFor maps a resize edge mask to a cursor shape.
func CursorFor(e Edges) input.Cursor {
	switch e {
	case EdgeTop:
		return input.CursorResizeN
	case EdgeBottom:
		return input.CursorResizeS
	case EdgeLeft:
		return input.CursorResizeW
	case EdgeRight:
		return input.CursorResizeE
	case EdgeTop | EdgeLeft:
		return input.CursorResizeNW
	case EdgeTop | EdgeRight:
		return input.CursorResizeNE
	case EdgeBottom | EdgeLeft:
		return input.CursorResizeSW
	case EdgeBottom | EdgeRight:
		return input.CursorResizeSE
	default:
		return input.CursorDefault
	}
}
