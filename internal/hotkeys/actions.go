// Package hotkeys binds global key sequences to stacking actions.
package hotkeys

import (
	"fmt"

	"github.com/1broseidon/stackwm/internal/compositor"
	"github.com/1broseidon/stackwm/internal/stack"
	"github.com/1broseidon/stackwm/internal/wintree"
)

// Action is a stacking operation triggered from the keyboard.
type Action string

const (
	// ActionRaise raises the focused window.
	ActionRaise Action = "raise"
	// ActionLower lowers the focused window and activates the new top.
	ActionLower Action = "lower"
	// ActionCycle raises and activates the bottom-most regular window.
	ActionCycle Action = "cycle"
	// ActionToggleTop moves the focused window between the regular and
	// top zones.
	ActionToggleTop Action = "toggle_top"
)

// Apply runs a on c. It reports whether anything changed.
func Apply(c *compositor.Compositor, a Action) (bool, error) {
	tree := c.Tree()
	focused := tree.Focused(c.Root())
	switch a {
	case ActionRaise:
		if focused == wintree.None {
			return false, nil
		}
		c.Raise(focused)
	case ActionLower:
		if focused == wintree.None {
			return false, nil
		}
		c.Lower(focused)
		if top, ok := topActivatable(c); ok && top != focused {
			c.Activate(top)
		}
	case ActionCycle:
		next, ok := bottomRegular(c)
		if !ok || next == focused {
			return false, nil
		}
		c.Raise(next)
		c.Activate(next)
	case ActionToggleTop:
		if focused == wintree.None {
			return false, nil
		}
		zone := stack.ZoneTop
		if tree.Zone(focused) == stack.ZoneTop {
			zone = stack.ZoneRegular
		}
		c.SetZone(focused, zone)
	default:
		return false, fmt.Errorf("unknown hotkey action %q", a)
	}
	return true, nil
}

func accepts(tree *wintree.Tree, id wintree.NodeID) bool {
	w := tree.Window(id)
	return w != nil && w.Flags().AcceptsActivation() && !w.IsBlockedByModal()
}

// topActivatable returns the highest root-level window that can take
// activation.
func topActivatable(c *compositor.Compositor) (wintree.NodeID, bool) {
	tree := c.Tree()
	for id := range tree.TopToBottom(c.Root()) {
		if accepts(tree, id) {
			return id, true
		}
	}
	return wintree.None, false
}

// bottomRegular returns the lowest root-level regular window that can
// take activation.
func bottomRegular(c *compositor.Compositor) (wintree.NodeID, bool) {
	tree := c.Tree()
	for id := range tree.BottomToTop(c.Root()) {
		if tree.Zone(id) == stack.ZoneRegular && accepts(tree, id) {
			return id, true
		}
	}
	return wintree.None, false
}
