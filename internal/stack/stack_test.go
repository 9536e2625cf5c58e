package stack

import (
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"
)

type recorder struct {
	top   int
	order int
}

func newRecorded() (*Stack[string], *recorder) {
	r := &recorder{}
	s := New[string](func() { r.top++ })
	s.OnOrderChanged = func() { r.order++ }
	return s, r
}

func bottomToTop(s *Stack[string]) []string { return slices.Collect(s.BottomToTop()) }
func topToBottom(s *Stack[string]) []string { return slices.Collect(s.TopToBottom()) }

func checkInvariant(t *testing.T, s *Stack[string], zones map[string]Zone) {
	t.Helper()
	rb, tb := s.Bounds()
	if rb < 0 || rb > tb || tb > s.Len() {
		t.Fatalf("cut points out of order: regularBegin=%d topBegin=%d len=%d", rb, tb, s.Len())
	}
	prev := ZoneBottom
	for i, w := range bottomToTop(s) {
		z := s.ZoneOf(w)
		if z < prev {
			t.Fatalf("window %q at %d in zone %v appears after zone %v", w, i, z, prev)
		}
		prev = z
		if want, ok := zones[w]; ok && want != z {
			t.Fatalf("window %q in zone %v, want %v", w, z, want)
		}
	}
}

func TestPushRespectsZones(t *testing.T) {
	s, r := newRecorded()
	s.Push("r1", ZoneRegular)
	s.Push("t1", ZoneTop)
	s.Push("b1", ZoneBottom)
	s.Push("r2", ZoneRegular)
	s.Push("b2", ZoneBottom)

	want := []string{"b1", "b2", "r1", "r2", "t1"}
	if got := bottomToTop(s); !reflect.DeepEqual(got, want) {
		t.Fatalf("bottom-to-top = %v, want %v", got, want)
	}
	if top, _ := s.Top(); top != "t1" {
		t.Fatalf("top = %q, want t1", top)
	}
	// r1 and t1 changed the top; nothing after that did.
	if r.top != 2 {
		t.Fatalf("top-changed fired %d times, want 2", r.top)
	}
	checkInvariant(t, s, map[string]Zone{"b1": ZoneBottom, "b2": ZoneBottom, "r1": ZoneRegular, "r2": ZoneRegular, "t1": ZoneTop})
}

func TestEndToEndRaiseLower(t *testing.T) {
	s, _ := newRecorded()
	for _, w := range []string{"R", "W1", "W2", "W3", "W4", "W5"} {
		s.Push(w, ZoneRegular)
	}
	if top, _ := s.Top(); top != "W5" {
		t.Fatalf("top = %q, want W5", top)
	}

	s.Raise("W2")
	if top, _ := s.Top(); top != "W2" {
		t.Fatalf("top after raise = %q, want W2", top)
	}
	if got, want := topToBottom(s), []string{"W2", "W5", "W4", "W3", "W1", "R"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("top-to-bottom after raise = %v, want %v", got, want)
	}

	s.Lower("W2")
	if top, _ := s.Top(); top != "W5" {
		t.Fatalf("top after lower = %q, want W5", top)
	}
	if got, want := bottomToTop(s), []string{"W2", "R", "W1", "W3", "W4", "W5"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("bottom-to-top after lower = %v, want %v", got, want)
	}
}

func TestRaiseIdempotent(t *testing.T) {
	s, r := newRecorded()
	s.Push("a", ZoneRegular)
	s.Push("b", ZoneRegular)
	r.top, r.order = 0, 0

	s.Raise("a")
	s.Raise("a")
	if r.top != 1 {
		t.Fatalf("top-changed fired %d times, want 1", r.top)
	}
	if r.order != 1 {
		t.Fatalf("order-changed fired %d times, want 1", r.order)
	}
}

func TestRaiseStaysInZone(t *testing.T) {
	s, r := newRecorded()
	s.Push("r1", ZoneRegular)
	s.Push("r2", ZoneRegular)
	s.Push("t1", ZoneTop)
	r.top = 0

	s.Raise("r1")
	if got, want := bottomToTop(s), []string{"r2", "r1", "t1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("bottom-to-top = %v, want %v", got, want)
	}
	if r.top != 0 {
		t.Fatalf("raise below a stay-on-top window must not change the top")
	}

	s.Lower("t1")
	if top, _ := s.Top(); top != "t1" {
		t.Fatalf("lowering the only stay-on-top window moved it, top = %q", top)
	}
}

func TestRemoveAdjustsCutPoints(t *testing.T) {
	s, r := newRecorded()
	s.Push("b1", ZoneBottom)
	s.Push("r1", ZoneRegular)
	s.Push("r2", ZoneRegular)
	s.Push("t1", ZoneTop)
	r.top = 0

	s.Remove("b1")
	if rb, tb := s.Bounds(); rb != 0 || tb != 2 {
		t.Fatalf("bounds after removing bottom = %d,%d, want 0,2", rb, tb)
	}
	s.Remove("r1")
	if rb, tb := s.Bounds(); rb != 0 || tb != 1 {
		t.Fatalf("bounds after removing first regular = %d,%d, want 0,1", rb, tb)
	}
	if s.ZoneOf("r2") != ZoneRegular {
		t.Fatalf("r2 left the regular zone")
	}
	if r.top != 0 {
		t.Fatalf("top unchanged, but callback fired %d times", r.top)
	}
	s.Remove("t1")
	if r.top != 1 {
		t.Fatalf("removing the top must fire once, got %d", r.top)
	}
	if top, _ := s.Top(); top != "r2" {
		t.Fatalf("top = %q, want r2", top)
	}
}

func TestSetZone(t *testing.T) {
	tests := []struct {
		name   string
		window string
		zone   Zone
		want   []string
	}{
		{"regular to top lands at bottom of top zone", "r1", ZoneTop, []string{"b1", "b2", "r2", "r1", "t1"}},
		{"regular to bottom lands at top of bottom zone", "r2", ZoneBottom, []string{"b1", "b2", "r2", "r1", "t1"}},
		{"bottom to top crosses regular", "b1", ZoneTop, []string{"b2", "r1", "r2", "b1", "t1"}},
		{"top to bottom crosses regular", "t1", ZoneBottom, []string{"b1", "b2", "t1", "r1", "r2"}},
		{"top to regular lands at top of regular", "t1", ZoneRegular, []string{"b1", "b2", "r1", "r2", "t1"}},
		{"bottom to regular lands at bottom of regular", "b1", ZoneRegular, []string{"b2", "b1", "r1", "r2", "t1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newRecorded()
			s.Push("b1", ZoneBottom)
			s.Push("b2", ZoneBottom)
			s.Push("r1", ZoneRegular)
			s.Push("r2", ZoneRegular)
			s.Push("t1", ZoneTop)

			s.SetZone(tt.window, tt.zone)
			if got := bottomToTop(s); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("bottom-to-top = %v, want %v", got, tt.want)
			}
			if got := s.ZoneOf(tt.window); got != tt.zone {
				t.Fatalf("zone = %v, want %v", got, tt.zone)
			}
			checkInvariant(t, s, nil)
		})
	}
}

func TestZoneInvariantRandomized(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	s, _ := newRecorded()
	zones := map[string]Zone{}

	for step := 0; step < 5000; step++ {
		w := names[rng.IntN(len(names))]
		_, present := zones[w]
		switch op := rng.IntN(5); {
		case !present:
			z := Zone(rng.IntN(3))
			s.Push(w, z)
			zones[w] = z
		case op == 0:
			s.Remove(w)
			delete(zones, w)
		case op == 1:
			s.Raise(w)
			if idx := s.Index(w); idx != lastOfZone(s, zones[w]) {
				t.Fatalf("step %d: raised %q not at top of its zone", step, w)
			}
		case op == 2:
			s.Lower(w)
		case op == 3:
			z := Zone(rng.IntN(3))
			s.SetZone(w, z)
			zones[w] = z
		}
		checkInvariant(t, s, zones)
		if s.Len() != len(zones) {
			t.Fatalf("step %d: len %d, want %d", step, s.Len(), len(zones))
		}
	}
}

func lastOfZone(s *Stack[string], z Zone) int {
	_, end := s.zoneBounds(z)
	return end - 1
}

func TestPreconditionsPanic(t *testing.T) {
	tests := []struct {
		name string
		fn   func(s *Stack[string])
	}{
		{"double push", func(s *Stack[string]) { s.Push("a", ZoneTop) }},
		{"remove missing", func(s *Stack[string]) { s.Remove("x") }},
		{"raise missing", func(s *Stack[string]) { s.Raise("x") }},
		{"lower missing", func(s *Stack[string]) { s.Lower("x") }},
		{"zone missing", func(s *Stack[string]) { s.SetZone("x", ZoneTop) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newRecorded()
			s.Push("a", ZoneRegular)
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic")
				}
			}()
			tt.fn(s)
		})
	}
}

func TestEmptyTop(t *testing.T) {
	s := New[int](nil)
	if _, ok := s.Top(); ok {
		t.Fatalf("empty stack reported a top window")
	}
	s.Push(1, ZoneRegular)
	s.Remove(1)
	if _, ok := s.Top(); ok {
		t.Fatalf("stack should be empty again")
	}
}
