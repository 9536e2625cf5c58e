package compositor

import (
	"github.com/1broseidon/stackwm/internal/geom"
	"github.com/1broseidon/stackwm/internal/input"
	"github.com/1broseidon/stackwm/internal/wintree"
)

// Layer is one window in a composite pass.
type Layer struct {
	Node   wintree.NodeID
	Window wintree.Window
	Frame  geom.Rect
	Paint  int
}

// Renderer draws already-rasterized window content. The compositor calls
// DrawWindowsInOrder once per composite pass with layers ordered bottom to
// top.
type Renderer interface {
	DrawWindowsInOrder(layers []Layer)
}

// CursorSetter is implemented by renderers that can change the pointer
// shape.
type CursorSetter interface {
	SetCursor(c input.Cursor)
}

// Dismisser is implemented by popup windows that can be closed by a press
// outside every window.
type Dismisser interface {
	Dismiss()
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(layers []Layer)

func (f RendererFunc) DrawWindowsInOrder(layers []Layer) { f(layers) }

// RequestUpdate marks the view dirty. Any number of requests before the
// next Composite collapse into one draw.
func (c *Compositor) RequestUpdate() { c.dirty = true }

// Dirty reports whether a composite pass is pending.
func (c *Compositor) Dirty() bool { return c.dirty }

// Draws returns the number of composite passes performed so far.
func (c *Compositor) Draws() int { return c.draws }

// Composite draws the current stack if an update was requested. It
// reports whether a draw happened.
func (c *Compositor) Composite() bool {
	if !c.dirty {
		return false
	}
	c.dirty = false
	c.draws++
	if c.renderer != nil {
		c.renderer.DrawWindowsInOrder(c.Layers())
	}
	return true
}

// Layers returns every window under the root, bottom to top. A node's
// children are drawn above the node itself.
func (c *Compositor) Layers() []Layer {
	var layers []Layer
	var walk func(parent wintree.NodeID)
	walk = func(parent wintree.NodeID) {
		for id := range c.tree.BottomToTop(parent) {
			if w := c.tree.Window(id); w != nil {
				layers = append(layers, Layer{
					Node:   id,
					Window: w,
					Frame:  wintree.FrameGeometry(w),
					Paint:  c.tree.PaintIndex(id),
				})
			}
			walk(id)
		}
	}
	walk(c.root)
	return layers
}
