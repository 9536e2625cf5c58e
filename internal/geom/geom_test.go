package geom

import "testing"

func TestRectContainsExclusiveEdges(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 5, Height: 5}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{10, 10}, true},
		{Point{14, 14}, true},
		{Point{15, 10}, false},
		{Point{10, 15}, false},
		{Point{9, 12}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestMarginsGrowShrinkRoundTrip(t *testing.T) {
	m := Margins{Top: 24, Bottom: 2, Left: 3, Right: 4}
	r := Rect{X: 100, Y: 100, Width: 200, Height: 150}
	frame := m.Grow(r)
	if frame != (Rect{X: 97, Y: 76, Width: 207, Height: 176}) {
		t.Fatalf("unexpected frame %v", frame)
	}
	if back := m.Shrink(frame); back != r {
		t.Fatalf("Shrink(Grow(r)) = %v, want %v", back, r)
	}
}

func TestRectClamp(t *testing.T) {
	screen := Rect{X: 0, Y: 0, Width: 100, Height: 50}
	if got := screen.Clamp(Point{-5, 70}); got != (Point{0, 49}) {
		t.Fatalf("Clamp = %v", got)
	}
	if got := (Rect{}).Clamp(Point{-5, 70}); got != (Point{-5, 70}) {
		t.Fatalf("empty Clamp should not move the point, got %v", got)
	}
}
