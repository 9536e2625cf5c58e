// Package compositor routes pointer input to windows in a wintree.Tree,
// drives move and resize gestures, and batches redraw requests into
// composite passes.
//
// A Compositor is not safe for concurrent use. Loop owns one and runs
// every call on a single goroutine.
package compositor

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/1broseidon/stackwm/internal/geom"
	"github.com/1broseidon/stackwm/internal/input"
	"github.com/1broseidon/stackwm/internal/manip"
	"github.com/1broseidon/stackwm/internal/stack"
	"github.com/1broseidon/stackwm/internal/wintree"
)

// Config holds configuration for a Compositor.
type Config struct {
	// Tree and Root name the window tree to manage. If Tree is nil a new
	// tree with an empty root container is created.
	Tree *wintree.Tree
	Root wintree.NodeID

	Renderer Renderer
	// Screen bounds pointer clamping during gestures. An empty rect
	// disables clamping.
	Screen geom.Rect
	Params manip.Params
	Logger *slog.Logger
}

// Compositor is the pointer router and composite scheduler for one screen.
type Compositor struct {
	id       uuid.UUID
	tree     *wintree.Tree
	root     wintree.NodeID
	renderer Renderer
	screen   geom.Rect
	params   manip.Params
	logger   *slog.Logger

	capture map[int]wintree.NodeID
	pressed map[int]wintree.NodeID
	hover   map[int]wintree.NodeID
	gesture manip.Machine
	cursor  input.Cursor

	dirty bool
	draws int
}

// New creates a compositor over cfg.Tree.
func New(cfg Config) *Compositor {
	id := uuid.New()
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("compositor", id.String())

	tree, root := cfg.Tree, cfg.Root
	if tree == nil {
		tree = wintree.New(wintree.Config{Logger: logger})
		root = tree.Add(nil)
	}

	c := &Compositor{
		id:       id,
		tree:     tree,
		root:     root,
		renderer: cfg.Renderer,
		screen:   cfg.Screen,
		params:   cfg.Params,
		logger:   logger,
		capture:  make(map[int]wintree.NodeID),
		pressed:  make(map[int]wintree.NodeID),
		hover:    make(map[int]wintree.NodeID),
	}
	c.gesture.Logger = logger
	tree.Observe(root, c.treeChanged)
	tree.OnTopChanged(root, c.RequestUpdate)
	return c
}

// ID returns the instance id of the compositor.
func (c *Compositor) ID() uuid.UUID { return c.id }

// Tree returns the managed tree.
func (c *Compositor) Tree() *wintree.Tree { return c.tree }

// Root returns the root node of the managed tree.
func (c *Compositor) Root() wintree.NodeID { return c.root }

// Screen returns the clamping bounds.
func (c *Compositor) Screen() geom.Rect { return c.screen }

// SetScreen replaces the clamping bounds, e.g. after a monitor change.
func (c *Compositor) SetScreen(r geom.Rect) {
	c.screen = r
	c.RequestUpdate()
}

// Params returns the hit-region sizes.
func (c *Compositor) Params() manip.Params { return c.params }

// Phase returns the phase of the current gesture.
func (c *Compositor) Phase() manip.Phase { return c.gesture.Phase() }

// Cursor returns the cursor shape last requested.
func (c *Compositor) Cursor() input.Cursor { return c.cursor }

// Captured returns the window capturing pointer.
func (c *Compositor) Captured(pointer int) (wintree.NodeID, bool) {
	id, ok := c.capture[pointer]
	return id, ok
}

// Pressed returns the window that received the press of pointer.
func (c *Compositor) Pressed(pointer int) (wintree.NodeID, bool) {
	id, ok := c.pressed[pointer]
	return id, ok
}

// Hovered returns the window last notified as under pointer.
func (c *Compositor) Hovered(pointer int) (wintree.NodeID, bool) {
	id, ok := c.hover[pointer]
	return id, ok
}

// AddWindow creates a node for win under parent (the root if None) at the
// top of zone.
func (c *Compositor) AddWindow(win wintree.Window, parent wintree.NodeID, zone stack.Zone) wintree.NodeID {
	if parent == wintree.None {
		parent = c.root
	}
	id := c.tree.Add(win)
	c.tree.SetParent(id, parent, zone)
	return id
}

// Reparent moves id under parent (the root if None).
func (c *Compositor) Reparent(id, parent wintree.NodeID, zone stack.Zone) {
	if parent == wintree.None {
		parent = c.root
	}
	c.tree.SetParent(id, parent, zone)
}

// Raise brings id to the top of its zone at every level.
func (c *Compositor) Raise(id wintree.NodeID) {
	c.tree.BringToTop(id)
	c.RequestUpdate()
}

// Lower sends id to the bottom of its zone at every level.
func (c *Compositor) Lower(id wintree.NodeID) {
	c.tree.SendToBottom(id)
	c.RequestUpdate()
}

// SetZone moves id into zone within its parent.
func (c *Compositor) SetZone(id wintree.NodeID, zone stack.Zone) {
	c.tree.SetZone(id, zone)
	c.RequestUpdate()
}

// Activate requests activation of id and makes it the active chain.
func (c *Compositor) Activate(id wintree.NodeID) {
	c.tree.Activate(id)
	c.RequestUpdate()
}

// Destroy removes id and its subtree. Any pointer state referring to the
// removed nodes is dropped.
func (c *Compositor) Destroy(id wintree.NodeID) {
	c.tree.Destroy(id)
}

// FocusChanged applies a keyboard focus notification from the front end.
// Gaining focus makes id the active chain without asking the window to
// activate again. Losing focus clears the active child of its parent.
func (c *Compositor) FocusChanged(id wintree.NodeID, focused bool) {
	if !c.tree.Alive(id) {
		return
	}
	parent := c.tree.Parent(id)
	if parent == wintree.None {
		return
	}
	switch {
	case focused:
		c.tree.SetActiveChild(parent, id)
	case c.tree.ActiveChild(parent) == id:
		c.tree.SetActiveChild(parent, wintree.None)
	}
	c.RequestUpdate()
}

// attached reports whether id is alive and still under the root.
func (c *Compositor) attached(id wintree.NodeID) bool {
	return c.tree.Alive(id) && c.tree.IsAncestor(c.root, id)
}

// treeChanged drops pointer state that refers to nodes no longer under
// the root and cancels a gesture whose target went away.
func (c *Compositor) treeChanged(ch wintree.Change) {
	c.RequestUpdate()
	if ch.Kind != wintree.NodeRemoval {
		return
	}
	for _, m := range []map[int]wintree.NodeID{c.capture, c.pressed, c.hover} {
		for pointer, id := range m {
			if !c.attached(id) {
				delete(m, pointer)
			}
		}
	}
	if c.gesture.Active() && !c.attached(c.gesture.Target()) {
		c.logger.Debug("gesture target removed", "node", c.gesture.Target())
		c.gesture.Cancel()
		c.setCursor(input.CursorDefault)
	}
}

func (c *Compositor) setCursor(cur input.Cursor) {
	if cur == c.cursor {
		return
	}
	c.cursor = cur
	if cs, ok := c.renderer.(CursorSetter); ok {
		cs.SetCursor(cur)
	}
}
