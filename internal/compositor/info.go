package compositor

import (
	"github.com/1broseidon/stackwm/internal/geom"
	"github.com/1broseidon/stackwm/internal/wintree"
)

// WindowInfo describes one window for listings.
type WindowInfo struct {
	ID       wintree.NodeID `json:"id"`
	Parent   wintree.NodeID `json:"parent"`
	Title    string         `json:"title"`
	Geometry geom.Rect      `json:"geometry"`
	Frame    geom.Rect      `json:"frame"`
	Zone     string         `json:"zone"`
	Paint    int            `json:"paint"`
	Active   bool           `json:"active"`
	Depth    int            `json:"depth"`
}

// Status summarizes the compositor for status queries.
type Status struct {
	ID      string         `json:"id"`
	Windows int            `json:"windows"`
	Focused wintree.NodeID `json:"focused"`
	Gesture string         `json:"gesture"`
	Draws   int            `json:"draws"`
	Screen  geom.Rect      `json:"screen"`
}

// Windows lists every window under the root, top to bottom. A node's
// children come before the node itself, matching hit-test order.
func (c *Compositor) Windows() []WindowInfo {
	var out []WindowInfo
	var walk func(parent wintree.NodeID, depth int)
	walk = func(parent wintree.NodeID, depth int) {
		for id := range c.tree.TopToBottom(parent) {
			walk(id, depth+1)
			w := c.tree.Window(id)
			if w == nil {
				continue
			}
			out = append(out, WindowInfo{
				ID:       id,
				Parent:   parent,
				Title:    wintree.TitleOf(w),
				Geometry: w.Geometry(),
				Frame:    wintree.FrameGeometry(w),
				Zone:     c.tree.Zone(id).String(),
				Paint:    c.tree.PaintIndex(id),
				Active:   c.tree.IsActive(id),
				Depth:    depth,
			})
		}
	}
	walk(c.root, 0)
	return out
}

// Lookup returns the info for id if it is a window under the root.
func (c *Compositor) Lookup(id wintree.NodeID) (WindowInfo, bool) {
	if !c.Manages(id) {
		return WindowInfo{}, false
	}
	for _, info := range c.Windows() {
		if info.ID == id {
			return info, true
		}
	}
	return WindowInfo{}, false
}

// Status returns a summary of the compositor state.
func (c *Compositor) Status() Status {
	return Status{
		ID:      c.id.String(),
		Windows: len(c.Windows()),
		Focused: c.tree.Focused(c.root),
		Gesture: c.gesture.Phase().String(),
		Draws:   c.draws,
		Screen:  c.screen,
	}
}

// Manages reports whether id is a live node under the root, other than
// the root itself.
func (c *Compositor) Manages(id wintree.NodeID) bool {
	return id != c.root && c.attached(id)
}
