package x11

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/stackwm/internal/compositor"
	"github.com/1broseidon/stackwm/internal/geom"
	"github.com/1broseidon/stackwm/internal/wintree"
)

// testClient builds a client that never talks to a server. It does not
// take activation, so the tree never asks it to update its X state.
func testClient(win xproto.Window) *Client {
	return &Client{
		win:   &xwindow.Window{Id: win},
		rect:  geom.Rect{Width: 100, Height: 100},
		flags: wintree.FlagNoActivate,
	}
}

func TestRegistryRemapGetsNewNode(t *testing.T) {
	comp := compositor.New(compositor.Config{})
	reg := NewRegistry()

	first := reg.Manage(comp, testClient(7))
	if again := reg.Manage(comp, testClient(7)); again != first {
		t.Fatalf("managing a mapped window twice gave %d, want %d", again, first)
	}
	if got := comp.Tree().ChildCount(comp.Root()); got != 1 {
		t.Fatalf("root has %d children, want 1", got)
	}

	node, ok := reg.Forget(7)
	if !ok || node != first {
		t.Fatalf("Forget = %d,%v, want %d", node, ok, first)
	}
	comp.Destroy(node)
	if _, ok := reg.Node(7); ok {
		t.Fatalf("window still registered after Forget")
	}
	if _, ok := reg.Forget(7); ok {
		t.Fatalf("second Forget reported a node")
	}

	second := reg.Manage(comp, testClient(7))
	if second == first {
		t.Fatalf("remapped window reused node %d", first)
	}
	if got, ok := reg.Node(7); !ok || got != second {
		t.Fatalf("Node(7) = %d,%v, want %d", got, ok, second)
	}
	if !comp.Manages(second) {
		t.Fatalf("remapped window is not under the root")
	}
}

func TestRegistryNestsTransients(t *testing.T) {
	comp := compositor.New(compositor.Config{})
	reg := NewRegistry()

	parent := testClient(1)
	dialog := testClient(2)
	dialog.transientFor = 1
	dialog.modal = true
	orphan := testClient(3)
	orphan.transientFor = 99

	nodes := reg.ManageAll(comp, []*Client{parent, dialog, orphan})
	tree := comp.Tree()
	if got := tree.Parent(nodes[2]); got != nodes[1] {
		t.Fatalf("dialog parent = %d, want %d", got, nodes[1])
	}
	if got := tree.Parent(nodes[3]); got != comp.Root() {
		t.Fatalf("orphan transient parent = %d, want root", got)
	}
	if !parent.IsBlockedByModal() {
		t.Fatalf("parent of a modal transient should be blocked")
	}

	reg.Forget(2)
	if parent.IsBlockedByModal() {
		t.Fatalf("parent still blocked after its modal transient went away")
	}
}
