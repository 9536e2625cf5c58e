package x11

import (
	"sync"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/stackwm/internal/compositor"
	"github.com/1broseidon/stackwm/internal/wintree"
)

// Registry records the tree node presenting each managed X window. Manage
// and Forget change the compositor and must run on its loop; Node may be
// called from the X event goroutine.
type Registry struct {
	mu      sync.Mutex
	nodes   map[xproto.Window]wintree.NodeID
	clients map[xproto.Window]*Client
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes:   make(map[xproto.Window]wintree.NodeID),
		clients: make(map[xproto.Window]*Client),
	}
}

// Manage adds c to comp and returns its node. A transient client becomes
// a child of the window it is transient for when that window is managed,
// and a modal one blocks it. A window that is already managed keeps its
// node.
func (r *Registry) Manage(comp *compositor.Compositor, c *Client) wintree.NodeID {
	win := c.Window()
	r.mu.Lock()
	if id, ok := r.nodes[win]; ok {
		r.mu.Unlock()
		return id
	}
	parent := wintree.None
	if c.transientFor != 0 {
		if id, ok := r.nodes[c.transientFor]; ok {
			parent = id
			if c.modal {
				r.clients[c.transientFor].blocked = true
			}
		}
	}
	r.mu.Unlock()

	id := comp.AddWindow(c, parent, c.Zone())

	r.mu.Lock()
	r.nodes[win] = id
	r.clients[win] = c
	r.mu.Unlock()
	return id
}

// ManageAll manages clients in order, so transients listed after their
// parent are nested under it.
func (r *Registry) ManageAll(comp *compositor.Compositor, clients []*Client) map[xproto.Window]wintree.NodeID {
	out := make(map[xproto.Window]wintree.NodeID, len(clients))
	for _, c := range clients {
		out[c.Window()] = r.Manage(comp, c)
	}
	return out
}

// Node returns the node presenting win.
func (r *Registry) Node(win xproto.Window) (wintree.NodeID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.nodes[win]
	return id, ok
}

// Forget stops managing win and returns the node that presented it. The
// window it was a modal transient for is unblocked unless another modal
// transient remains.
func (r *Registry) Forget(win xproto.Window) (wintree.NodeID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.nodes[win]
	if !ok {
		return wintree.None, false
	}
	c := r.clients[win]
	delete(r.nodes, win)
	delete(r.clients, win)
	if c.modal && c.transientFor != 0 {
		if parent, ok := r.clients[c.transientFor]; ok {
			parent.blocked = r.hasModalFor(c.transientFor)
		}
	}
	return id, true
}

func (r *Registry) hasModalFor(win xproto.Window) bool {
	for _, c := range r.clients {
		if c.modal && c.transientFor == win {
			return true
		}
	}
	return false
}
