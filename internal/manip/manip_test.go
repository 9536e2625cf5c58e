package manip

import (
	"testing"

	"github.com/1broseidon/stackwm/internal/geom"
	"github.com/1broseidon/stackwm/internal/input"
	"github.com/1broseidon/stackwm/internal/wintree"
)

var screen = geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

func move(pointer int, x, y int) input.PointerEvent {
	return input.PointerEvent{PointerID: pointer, Kind: input.Move, Point: geom.Point{X: x, Y: y}, Buttons: input.ButtonPrimary}
}

func resizable() *wintree.Surface {
	return &wintree.Surface{
		Rect: geom.Rect{X: 100, Y: 100, Width: 200, Height: 200},
		Min:  geom.Size{Width: 50, Height: 50},
		Max:  geom.Size{Width: 500, Height: 500},
	}
}

func TestResizeClampsToMaximum(t *testing.T) {
	s := resizable()
	var m Machine
	if !m.BeginResize(1, 7, s, geom.Point{X: 299, Y: 299}, EdgeBottom|EdgeRight, screen) {
		t.Fatalf("BeginResize refused")
	}
	m.Handle(move(1, 1299, 1299))

	want := geom.Rect{X: 100, Y: 100, Width: 500, Height: 500}
	if s.Rect != want {
		t.Fatalf("geometry = %v, want %v", s.Rect, want)
	}
}

func TestResizeClampsToMinimum(t *testing.T) {
	s := resizable()
	var m Machine
	m.BeginResize(1, 7, s, geom.Point{X: 100, Y: 200}, EdgeLeft, screen)
	m.Handle(move(1, 1100, 200))

	want := geom.Rect{X: 250, Y: 100, Width: 50, Height: 200}
	if s.Rect != want {
		t.Fatalf("geometry = %v, want %v", s.Rect, want)
	}
}

func TestResizeTopStopsAtScreenEdge(t *testing.T) {
	s := resizable()
	var m Machine
	m.BeginResize(1, 7, s, geom.Point{X: 200, Y: 100}, EdgeTop, screen)
	m.Handle(move(1, 200, -400))

	want := geom.Rect{X: 100, Y: 0, Width: 200, Height: 300}
	if s.Rect != want {
		t.Fatalf("geometry = %v, want %v", s.Rect, want)
	}
}

func TestResizeTopAccountsForDecoration(t *testing.T) {
	s := resizable()
	s.Margins = geom.Margins{Top: 24}
	var m Machine
	m.BeginResize(1, 7, s, geom.Point{X: 200, Y: 76}, EdgeTop|EdgeLeft, screen)
	m.Handle(move(1, -900, -900))

	// Frame top may not cross y=0; the frame starts 24px above the client.
	if got := wintree.FrameGeometry(s).Y; got != 0 {
		t.Fatalf("frame top = %d, want 0", got)
	}
	if s.Rect.X != 0 || s.Rect.Width != 300 {
		t.Fatalf("horizontal geometry = %v, want x=0 width=300", s.Rect)
	}
}

func TestResizeUnboundedAxis(t *testing.T) {
	s := &wintree.Surface{Rect: geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}}
	var m Machine
	if !m.BeginResize(1, 1, s, geom.Point{X: 99, Y: 50}, EdgeRight, screen) {
		t.Fatalf("BeginResize refused for unconstrained window")
	}
	m.Handle(move(1, 2099, 50))
	if s.Rect.Width != 2100 {
		t.Fatalf("width = %d, want 2100", s.Rect.Width)
	}
}

func TestResizeRefused(t *testing.T) {
	tests := []struct {
		name string
		win  *wintree.Surface
	}{
		{
			name: "fixed size",
			win: &wintree.Surface{
				Rect: geom.Rect{Width: 100, Height: 100},
				Min:  geom.Size{Width: 100, Height: 100},
				Max:  geom.Size{Width: 100, Height: 100},
			},
		},
		{
			name: "blocked by modal",
			win:  &wintree.Surface{Rect: geom.Rect{Width: 100, Height: 100}, Blocked: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Machine
			if m.BeginResize(1, 1, tt.win, geom.Point{X: 99, Y: 99}, EdgeRight, screen) {
				t.Fatalf("BeginResize started on %s window", tt.name)
			}
			if m.Active() {
				t.Fatalf("machine active after refusal")
			}
		})
	}
}

func TestMoveFollowsClampedPointer(t *testing.T) {
	s := resizable()
	var m Machine
	if !m.BeginMove(1, 7, s, geom.Point{X: 150, Y: 110}, screen) {
		t.Fatalf("BeginMove refused")
	}
	m.Handle(move(1, 250, 160))
	if got := s.Rect.Pos(); got != (geom.Point{X: 200, Y: 150}) {
		t.Fatalf("pos = %v, want (200,150)", got)
	}

	m.Handle(move(1, -500, 500))
	if got := s.Rect.Pos(); got != (geom.Point{X: -50, Y: 490}) {
		t.Fatalf("pos = %v, want (-50,490)", got)
	}
	if s.Rect.Size() != (geom.Size{Width: 200, Height: 200}) {
		t.Fatalf("move changed size to %v", s.Rect.Size())
	}
}

func TestMoveRefusedWithoutActivation(t *testing.T) {
	s := resizable()
	s.WindowFlags = wintree.FlagNoActivate
	var m Machine
	if m.BeginMove(1, 7, s, geom.Point{X: 150, Y: 110}, screen) {
		t.Fatalf("BeginMove started on no-activate window")
	}
}

func TestOtherPointersIgnored(t *testing.T) {
	s := resizable()
	var m Machine
	m.BeginMove(1, 7, s, geom.Point{X: 150, Y: 110}, screen)

	if m.Handle(move(2, 900, 900)) {
		t.Fatalf("event from pointer 2 consumed")
	}
	if s.Rect.Pos() != (geom.Point{X: 100, Y: 100}) {
		t.Fatalf("pointer 2 moved the window to %v", s.Rect.Pos())
	}
	up := input.PointerEvent{PointerID: 2, Kind: input.Up, Point: geom.Point{X: 900, Y: 900}}
	m.Handle(up)
	if m.Phase() != PhaseMoving {
		t.Fatalf("phase = %v after foreign release, want moving", m.Phase())
	}
}

func TestGestureEnds(t *testing.T) {
	tests := []struct {
		name string
		ev   input.PointerEvent
	}{
		{"up", input.PointerEvent{PointerID: 1, Kind: input.Up, Point: geom.Point{X: 160, Y: 120}}},
		{"empty buttons", input.PointerEvent{PointerID: 1, Kind: input.Move, Point: geom.Point{X: 160, Y: 120}}},
		{"cancel", input.PointerEvent{PointerID: 1, Kind: input.Cancel}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Machine
			m.BeginMove(1, 7, resizable(), geom.Point{X: 150, Y: 110}, screen)
			if !m.Handle(tt.ev) {
				t.Fatalf("event not consumed")
			}
			if m.Active() || m.Target() != wintree.None {
				t.Fatalf("gesture still active after %s", tt.name)
			}
		})
	}
}

func TestUpEndsGestureWithButtonsHeld(t *testing.T) {
	var m Machine
	s := resizable()
	m.BeginMove(1, 7, s, geom.Point{X: 150, Y: 110}, screen)
	start := s.Rect.Pos()
	if !m.Handle(input.PointerEvent{PointerID: 1, Kind: input.Up, Point: geom.Point{X: 160, Y: 120}, Buttons: input.ButtonSecondary}) {
		t.Fatalf("up not consumed")
	}
	if m.Active() {
		t.Fatalf("phase = %v after up, want idle", m.Phase())
	}
	if got, want := s.Rect.Pos(), start.Add(geom.Point{X: 10, Y: 10}); got != want {
		t.Fatalf("pos = %v, want %v", got, want)
	}
}

func TestClassify(t *testing.T) {
	s := &wintree.Surface{
		Rect:    geom.Rect{X: 100, Y: 100, Width: 200, Height: 200},
		Margins: geom.Margins{Top: 24, Left: 2, Right: 2, Bottom: 2},
	}
	p := Params{ResizeMargin: 6, TitleBarHeight: 24}
	// Frame is 204x226+98+76.
	tests := []struct {
		name   string
		pt     geom.Point
		region Region
		edges  Edges
	}{
		{"outside", geom.Point{X: 10, Y: 10}, RegionNone, 0},
		{"outer left band", geom.Point{X: 94, Y: 200}, RegionEdge, EdgeLeft},
		{"inner right band", geom.Point{X: 300, Y: 200}, RegionEdge, EdgeRight},
		{"top left corner", geom.Point{X: 98, Y: 76}, RegionEdge, EdgeTop | EdgeLeft},
		{"bottom right corner", geom.Point{X: 305, Y: 305}, RegionEdge, EdgeBottom | EdgeRight},
		{"title", geom.Point{X: 200, Y: 90}, RegionTitle, 0},
		{"client", geom.Point{X: 200, Y: 200}, RegionClient, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region, edges := Classify(s, tt.pt, p)
			if region != tt.region || edges != tt.edges {
				t.Fatalf("Classify(%v) = %v/%v, want %v/%v", tt.pt, region, edges, tt.region, tt.edges)
			}
		})
	}
}

func TestClassifyFixedSizeHasNoEdges(t *testing.T) {
	s := &wintree.Surface{
		Rect: geom.Rect{X: 0, Y: 0, Width: 100, Height: 100},
		Min:  geom.Size{Width: 100, Height: 100},
		Max:  geom.Size{Width: 100, Height: 100},
	}
	p := Params{ResizeMargin: 6}
	if r, _ := Classify(s, geom.Point{X: 1, Y: 50}, p); r != RegionClient {
		t.Fatalf("region = %v, want client", r)
	}
	if r, _ := Classify(s, geom.Point{X: -3, Y: 50}, p); r != RegionNone {
		t.Fatalf("outer band region = %v, want none", r)
	}
}

func TestCursorFor(t *testing.T) {
	if got := CursorFor(EdgeTop | EdgeRight); got != input.CursorResizeNE {
		t.Fatalf("CursorFor(top|right) = %v", got)
	}
	if got := CursorFor(0); got != input.CursorDefault {
		t.Fatalf("CursorFor(0) = %v", got)
	}
}
