// Package wintree composes window stacks into a tree of nodes.
//
// Every node owns a stack.Stack of its direct children and a weak
// reference to one active child. Nodes live in an arena keyed by NodeID;
// children refer to their parent by id, never by pointer, so teardown can
// happen in any order.
//
// Structural changes are reported as Change values. A change is recorded
// together with the ancestry it bubbles through and is delivered after
// the mutating call finishes, first to the node whose stack changed and
// then to each ancestor in turn. Observers that mutate the tree from a
// callback enqueue further changes rather than re-entering delivery.
package wintree

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/1broseidon/stackwm/internal/stack"
)

// NodeID identifies a node in a Tree. The zero value means "no node".
type NodeID uint32

// None is the absent node.
const None NodeID = 0

// PaintOrderBase is the paint index given to the bottommost child.
const PaintOrderBase = 1

// ChangeKind is the type of a subtree change.
type ChangeKind int

const (
	NodeInsertion ChangeKind = iota
	NodeRemoval
)

// String returns the string representation of the change kind
func (k ChangeKind) String() string {
	switch k {
	case NodeInsertion:
		return "insertion"
	case NodeRemoval:
		return "removal"
	default:
		return "unknown"
	}
}

// Change describes a child entering or leaving Parent's stack.
type Change struct {
	Kind   ChangeKind
	Parent NodeID
	Child  NodeID
}

type node struct {
	id       NodeID
	win      Window
	parent   NodeID
	children *stack.Stack[NodeID]
	active   NodeID
	paint    int

	observers    []func(Change)
	topObservers []func()
}

// Config holds configuration for a Tree.
type Config struct {
	Logger *slog.Logger
}

// Tree is an arena of window nodes. It is not safe for concurrent use.
type Tree struct {
	nodes    map[NodeID]*node
	nextID   NodeID
	pending  []func()
	draining bool
	logger   *slog.Logger
}

// New creates an empty tree.
func New(cfg Config) *Tree {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tree{
		nodes:  make(map[NodeID]*node),
		logger: logger,
	}
}

// Add creates a parentless node presenting win. A nil win makes a pure
// container, such as the root of a display.
func (t *Tree) Add(win Window) NodeID {
	t.nextID++
	id := t.nextID
	n := &node{id: id, win: win}
	n.children = stack.New[NodeID](func() { t.topChanged(id) })
	n.children.OnOrderChanged = func() { t.assignPaintOrder(id) }
	t.nodes[id] = n
	return id
}

// Alive reports whether id names a node that has not been destroyed.
func (t *Tree) Alive(id NodeID) bool {
	_, ok := t.nodes[id]
	return ok
}

// Len returns the number of live nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Window returns the window presented by id, or nil for containers.
func (t *Tree) Window(id NodeID) Window { return t.must(id).win }

// Parent returns the parent of id, or None for a root.
func (t *Tree) Parent(id NodeID) NodeID { return t.must(id).parent }

// ActiveChild returns the active child of id, or None.
func (t *Tree) ActiveChild(id NodeID) NodeID { return t.must(id).active }

// PaintIndex returns the paint order index id was last assigned by its
// parent. Parentless nodes report 0.
func (t *Tree) PaintIndex(id NodeID) int { return t.must(id).paint }

// Zone returns the zone id occupies in its parent's stack.
func (t *Tree) Zone(id NodeID) stack.Zone {
	n := t.must(id)
	if n.parent == None {
		return stack.ZoneRegular
	}
	return t.must(n.parent).children.ZoneOf(id)
}

// ChildCount returns the number of direct children of id.
func (t *Tree) ChildCount(id NodeID) int { return t.must(id).children.Len() }

// TopChild returns the topmost child of id.
func (t *Tree) TopChild(id NodeID) (NodeID, bool) { return t.must(id).children.Top() }

// Children returns the direct children of id, bottom-to-top.
func (t *Tree) Children(id NodeID) []NodeID { return t.must(id).children.Windows() }

// TopToBottom iterates the direct children of id from the top down.
func (t *Tree) TopToBottom(id NodeID) iter.Seq[NodeID] { return t.must(id).children.TopToBottom() }

// BottomToTop iterates the direct children of id from the bottom up.
func (t *Tree) BottomToTop(id NodeID) iter.Seq[NodeID] { return t.must(id).children.BottomToTop() }

// IsAncestor reports whether a is b or one of b's ancestors.
func (t *Tree) IsAncestor(a, b NodeID) bool {
	for n := b; n != None; {
		if n == a {
			return true
		}
		nd, ok := t.nodes[n]
		if !ok {
			return false
		}
		n = nd.parent
	}
	return false
}

// IsActive reports whether every link from id up to its root is the
// active child of its parent.
func (t *Tree) IsActive(id NodeID) bool {
	n := t.must(id)
	if n.parent == None {
		return false
	}
	for n.parent != None {
		p := t.must(n.parent)
		if p.active != n.id {
			return false
		}
		n = p
	}
	return true
}

// Focused follows the active-child chain down from id and returns the
// deepest node reached, or None if id has no active child.
func (t *Tree) Focused(id NodeID) NodeID {
	cur := None
	for n := t.must(id); n.active != None; n = t.must(n.active) {
		cur = n.active
	}
	return cur
}

// Observe registers fn to receive every change in the subtree rooted at id.
func (t *Tree) Observe(id NodeID, fn func(Change)) {
	n := t.must(id)
	n.observers = append(n.observers, fn)
}

// OnTopChanged registers fn to run whenever the top child of id changes.
func (t *Tree) OnTopChanged(id NodeID, fn func()) {
	n := t.must(id)
	n.topObservers = append(n.topObservers, fn)
}

// SetParent moves id under parent, at the top of zone. A None parent
// detaches id and makes it a root. Reparenting a node under one of its own
// descendants is a caller error and is not detected.
func (t *Tree) SetParent(id, parent NodeID, zone stack.Zone) {
	n := t.must(id)
	if parent != None {
		t.must(parent)
	}
	if n.parent != None {
		t.detach(n)
	}
	if parent != None {
		p := t.nodes[parent]
		n.parent = parent
		p.children.Push(id, zone)
		t.record(Change{Kind: NodeInsertion, Parent: parent, Child: id})
	}
	t.drain()
}

// SetZone moves id into zone within its parent's stack.
func (t *Tree) SetZone(id NodeID, zone stack.Zone) {
	n := t.must(id)
	if n.parent == None {
		return
	}
	t.must(n.parent).children.SetZone(id, zone)
	t.drain()
}

// BringToTop raises id among its siblings, then raises each ancestor among
// its own siblings, so a window raised inside a nested group also brings
// the group forward.
func (t *Tree) BringToTop(id NodeID) {
	for n := t.must(id); n.parent != None; n = t.must(n.parent) {
		t.must(n.parent).children.Raise(n.id)
	}
	t.drain()
}

// SendToBottom lowers id among its siblings, then repeats at every
// ancestor level.
func (t *Tree) SendToBottom(id NodeID) {
	for n := t.must(id); n.parent != None; n = t.must(n.parent) {
		t.must(n.parent).children.Lower(n.id)
	}
	t.drain()
}

// SetActiveChild makes child the active child of parent, tells every child
// of parent whether it is now active, and makes parent the active child of
// its own parent. A None child clears the reference without propagating.
func (t *Tree) SetActiveChild(parent, child NodeID) {
	p := t.must(parent)
	if child != None && !p.children.Contains(child) {
		panic(fmt.Sprintf("wintree: node %d is not a child of %d", child, parent))
	}
	changed := p.active != child
	p.active = child
	if changed {
		t.logger.Debug("active child changed", "parent", parent, "child", child)
	}
	for c := range p.children.BottomToTop() {
		if as, ok := t.nodes[c].win.(ActiveSetter); ok {
			as.SetActive(c == child)
		}
	}
	if child != None && p.parent != None {
		t.SetActiveChild(p.parent, parent)
	}
}

// Activate asks the window of id to take activation and makes id the
// active node along its whole ancestry.
func (t *Tree) Activate(id NodeID) {
	n := t.must(id)
	if n.win != nil {
		n.win.RequestActivate()
	}
	if n.parent != None {
		t.SetActiveChild(n.parent, id)
	}
}

// Destroy removes id and its whole subtree. Children are destroyed first,
// deepest first, so observers see a removal for every node.
func (t *Tree) Destroy(id NodeID) {
	n := t.must(id)
	wasDraining := t.draining
	t.draining = true
	for _, c := range n.children.Windows() {
		t.Destroy(c)
	}
	if n.parent != None {
		t.detach(n)
	}
	delete(t.nodes, id)
	t.draining = wasDraining
	t.drain()
}

// detach removes n from its parent's stack and records the removal. If n
// was the active child, the topmost remaining child that accepts
// activation takes over.
func (t *Tree) detach(n *node) {
	p := t.must(n.parent)
	p.children.Remove(n.id)
	n.parent = None
	n.paint = 0
	if p.active == n.id {
		p.active = None
		for c := range p.children.TopToBottom() {
			if takesActivation(t.nodes[c].win) {
				p.active = c
				break
			}
		}
		for c := range p.children.BottomToTop() {
			if as, ok := t.nodes[c].win.(ActiveSetter); ok {
				as.SetActive(c == p.active)
			}
		}
	}
	t.record(Change{Kind: NodeRemoval, Parent: p.id, Child: n.id})
}

// record queues delivery of ch to ch.Parent and each of its current
// ancestors.
func (t *Tree) record(ch Change) {
	var path []NodeID
	for id := ch.Parent; id != None; {
		path = append(path, id)
		nd, ok := t.nodes[id]
		if !ok {
			break
		}
		id = nd.parent
	}
	t.pending = append(t.pending, func() {
		for _, id := range path {
			n, ok := t.nodes[id]
			if !ok {
				continue
			}
			if id == ch.Parent {
				t.handleLocal(n, ch)
			}
			for _, fn := range n.observers {
				fn(ch)
			}
		}
	})
}

// handleLocal reacts to a change in n's own stack.
func (t *Tree) handleLocal(n *node, ch Change) {
	if ch.Kind != NodeInsertion {
		return
	}
	top, ok := n.children.Top()
	if !ok || top != ch.Child {
		return
	}
	c, ok := t.nodes[ch.Child]
	if !ok || !takesActivation(c.win) {
		return
	}
	t.SetActiveChild(n.id, ch.Child)
}

func (t *Tree) topChanged(id NodeID) {
	t.pending = append(t.pending, func() {
		n, ok := t.nodes[id]
		if !ok {
			return
		}
		for _, fn := range n.topObservers {
			fn()
		}
	})
}

func (t *Tree) assignPaintOrder(id NodeID) {
	n := t.nodes[id]
	idx := PaintOrderBase
	for c := range n.children.BottomToTop() {
		child := t.nodes[c]
		child.paint = idx
		if ps, ok := child.win.(PaintOrderSetter); ok {
			ps.SetPaintOrder(idx)
		}
		idx++
	}
}

func (t *Tree) drain() {
	if t.draining {
		return
	}
	t.draining = true
	defer func() { t.draining = false }()
	for len(t.pending) > 0 {
		fn := t.pending[0]
		t.pending = t.pending[1:]
		fn()
	}
}

func (t *Tree) must(id NodeID) *node {
	n, ok := t.nodes[id]
	if !ok {
		panic(fmt.Sprintf("wintree: unknown node %d", id))
	}
	return n
}

// takesActivation reports whether a window inserted on top should become
// active: it must accept activation and be neither a popup nor a tool.
func takesActivation(w Window) bool {
	if w == nil {
		return false
	}
	f := w.Flags()
	return f.AcceptsActivation() && !f.Has(FlagPopup) && !f.Has(FlagTool)
}
