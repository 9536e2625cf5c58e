package compositor

import (
	"github.com/1broseidon/stackwm/internal/geom"
	"github.com/1broseidon/stackwm/internal/input"
	"github.com/1broseidon/stackwm/internal/manip"
	"github.com/1broseidon/stackwm/internal/wintree"
)

// HitTest returns the topmost window whose hit rectangle contains pt.
// Children are tested before their parent, and containers without a
// window are only searched through.
func (c *Compositor) HitTest(pt geom.Point) (wintree.NodeID, bool) {
	return c.hitTest(c.root, pt)
}

func (c *Compositor) hitTest(parent wintree.NodeID, pt geom.Point) (wintree.NodeID, bool) {
	for id := range c.tree.TopToBottom(parent) {
		if hit, ok := c.hitTest(id, pt); ok {
			return hit, true
		}
		if w := c.tree.Window(id); w != nil && manip.HitRect(w, c.params).Contains(pt) {
			return id, true
		}
	}
	return wintree.None, false
}

// HandlePointer routes one pointer event. Events for a pointer are handled
// strictly in the order they arrive.
func (c *Compositor) HandlePointer(ev input.PointerEvent) {
	if c.gesture.Handle(ev) {
		c.RequestUpdate()
		if !c.gesture.Active() {
			c.release(ev.PointerID)
			c.setCursor(input.CursorDefault)
		}
		return
	}

	target, captured := c.capture[ev.PointerID]
	if !captured {
		if c.gesture.Active() {
			// Another pointer has no candidate while a gesture runs, so its
			// press counts as one outside every window.
			if ev.Kind == input.Down {
				c.dismissPopups()
			}
			return
		}
		target, _ = c.HitTest(ev.Point)
	}

	switch ev.Kind {
	case input.Down:
		c.press(ev, target, captured)
	case input.Move:
		c.move(ev, target, captured)
	case input.Up:
		c.up(ev, target)
	case input.Cancel:
		pressed, ok := c.pressed[ev.PointerID]
		c.release(ev.PointerID)
		if ok {
			c.deliver(pressed, ev)
		}
	case input.Enter:
		if !captured {
			c.updateHover(ev, target)
		}
	case input.Leave:
		if id, ok := c.hover[ev.PointerID]; ok {
			delete(c.hover, ev.PointerID)
			c.deliver(id, ev)
		}
	}
}

func (c *Compositor) press(ev input.PointerEvent, target wintree.NodeID, captured bool) {
	if target == wintree.None {
		c.dismissPopups()
		return
	}
	w := c.tree.Window(target)
	if w.IsBlockedByModal() {
		return
	}
	if !captured {
		c.capture[ev.PointerID] = target
		c.pressed[ev.PointerID] = target
		c.logger.Debug("pointer captured", "pointer", ev.PointerID, "node", target)
	}
	if w.Flags().AcceptsActivation() {
		c.tree.BringToTop(target)
		c.tree.Activate(target)
		c.RequestUpdate()
	}
	if !captured && ev.Buttons&input.ButtonPrimary != 0 && c.beginGesture(ev, target, w) {
		return
	}
	c.deliver(target, ev)
}

// beginGesture hands a press on a title region or resize band to the
// move/resize machine.
func (c *Compositor) beginGesture(ev input.PointerEvent, target wintree.NodeID, w wintree.Window) bool {
	region, edges := manip.Classify(w, ev.Point, c.params)
	switch region {
	case manip.RegionEdge:
		if c.gesture.BeginResize(ev.PointerID, target, w, ev.Point, edges, c.screen) {
			c.setCursor(manip.CursorFor(edges))
			return true
		}
	case manip.RegionTitle:
		if c.gesture.BeginMove(ev.PointerID, target, w, ev.Point, c.screen) {
			c.setCursor(input.CursorMove)
			return true
		}
	}
	return false
}

func (c *Compositor) move(ev input.PointerEvent, target wintree.NodeID, captured bool) {
	if captured {
		c.deliver(target, ev)
		return
	}
	if ev.Buttons == 0 {
		c.updateCursor(ev.Point, target)
	}
	c.updateHover(ev, target)
	if target != wintree.None {
		c.deliver(target, ev)
	}
}

func (c *Compositor) up(ev input.PointerEvent, target wintree.NodeID) {
	pressed, ok := c.pressed[ev.PointerID]
	c.release(ev.PointerID)
	if ok {
		target = pressed
	}
	if target != wintree.None {
		c.deliver(target, ev)
	}
}

// updateHover synthesizes Leave for the window previously under the
// pointer and Enter for the new one.
func (c *Compositor) updateHover(ev input.PointerEvent, target wintree.NodeID) {
	prev, had := c.hover[ev.PointerID]
	if had && prev == target {
		return
	}
	if had {
		leave := ev
		leave.Kind = input.Leave
		c.deliver(prev, leave)
		delete(c.hover, ev.PointerID)
	}
	if target != wintree.None {
		enter := ev
		enter.Kind = input.Enter
		c.hover[ev.PointerID] = target
		c.deliver(target, enter)
	}
}

func (c *Compositor) updateCursor(pt geom.Point, target wintree.NodeID) {
	cur := input.CursorDefault
	if target != wintree.None {
		w := c.tree.Window(target)
		if region, edges := manip.Classify(w, pt, c.params); region == manip.RegionEdge && !w.IsBlockedByModal() {
			cur = manip.CursorFor(edges)
		}
	}
	c.setCursor(cur)
}

func (c *Compositor) release(pointer int) {
	if id, ok := c.capture[pointer]; ok {
		c.logger.Debug("pointer released", "pointer", pointer, "node", id)
	}
	delete(c.capture, pointer)
	delete(c.pressed, pointer)
}

// deliver hands ev to the window of id with Local set relative to its
// geometry. Windows blocked by a modal receive nothing.
func (c *Compositor) deliver(id wintree.NodeID, ev input.PointerEvent) {
	if !c.tree.Alive(id) {
		return
	}
	w := c.tree.Window(id)
	if w == nil || w.IsBlockedByModal() {
		return
	}
	h, ok := w.(input.PointerHandler)
	if !ok {
		return
	}
	ev.Local = ev.Point.Sub(w.Geometry().Pos())
	h.HandlePointer(ev)
}

// dismissPopups closes every popup under the root.
func (c *Compositor) dismissPopups() {
	var popups []wintree.NodeID
	var walk func(parent wintree.NodeID)
	walk = func(parent wintree.NodeID) {
		for id := range c.tree.TopToBottom(parent) {
			if w := c.tree.Window(id); w != nil && w.Flags().Has(wintree.FlagPopup) {
				popups = append(popups, id)
			}
			walk(id)
		}
	}
	walk(c.root)
	for _, id := range popups {
		if !c.tree.Alive(id) {
			continue
		}
		if d, ok := c.tree.Window(id).(Dismisser); ok {
			c.logger.Debug("popup dismissed", "node", id)
			d.Dismiss()
		}
	}
	if len(popups) > 0 {
		c.RequestUpdate()
	}
}
