// Package geom holds the integer screen-coordinate types shared by the
// window stack, the manipulation state machine and the compositor.
package geom

import "fmt"

// Point is a position in screen coordinates.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Size is a width/height pair.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// IsZero reports whether both components are zero.
func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// Rect describes a rectangular region in screen coordinates. The right and
// bottom edges are exclusive.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// RectFrom builds a Rect from a position and a size.
func RectFrom(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, Width: s.Width, Height: s.Height}
}

// Pos returns the top-left corner.
func (r Rect) Pos() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the dimensions of r.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Inset shrinks r by n on every side. Negative n grows it.
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, Width: r.Width - 2*n, Height: r.Height - 2*n}
}

// Translate moves r by d.
func (r Rect) Translate(d Point) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Clamp returns p moved to the nearest point inside r. An empty r returns p
// unchanged.
func (r Rect) Clamp(p Point) Point {
	if r.Empty() {
		return p
	}
	p.X = max(r.X, min(p.X, r.Right()-1))
	p.Y = max(r.Y, min(p.Y, r.Bottom()-1))
	return p
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Margins represents decoration extents around a window's client area.
type Margins struct {
	Top    int `json:"top" yaml:"top"`
	Bottom int `json:"bottom" yaml:"bottom"`
	Left   int `json:"left" yaml:"left"`
	Right  int `json:"right" yaml:"right"`
}

// Grow returns r expanded outward by m.
func (m Margins) Grow(r Rect) Rect {
	return Rect{
		X:      r.X - m.Left,
		Y:      r.Y - m.Top,
		Width:  r.Width + m.Left + m.Right,
		Height: r.Height + m.Top + m.Bottom,
	}
}

// Shrink returns r contracted inward by m; it is the inverse of Grow.
func (m Margins) Shrink(r Rect) Rect {
	return Rect{
		X:      r.X + m.Left,
		Y:      r.Y + m.Top,
		Width:  r.Width - m.Left - m.Right,
		Height: r.Height - m.Top - m.Bottom,
	}
}
