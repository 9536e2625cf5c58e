// Package stack implements the ordered window stack a node keeps for its
// children.
//
// The stack is stored bottom-to-top and split into three contiguous zones:
// stay-on-bottom, regular and stay-on-top. Two cut points mark where the
// regular and stay-on-top zones begin. Raise and Lower rotate a window
// within its own zone, so windows in other zones (and the relative order
// of unaffected windows) never move.
//
// Operating on a window that is not in the stack, or pushing one twice, is
// a caller bug and panics.
package stack

import (
	"fmt"
	"iter"
	"strings"
)

// Zone is one of the three ordering partitions of a stack.
type Zone int

const (
	ZoneBottom Zone = iota
	ZoneRegular
	ZoneTop
)

// String returns the string representation of the zone
func (z Zone) String() string {
	switch z {
	case ZoneBottom:
		return "bottom"
	case ZoneRegular:
		return "regular"
	case ZoneTop:
		return "top"
	default:
		return "unknown"
	}
}

// ParseZone is the inverse of Zone.String. The empty string maps to
// ZoneRegular.
func ParseZone(s string) (Zone, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "regular":
		return ZoneRegular, nil
	case "bottom", "stay-on-bottom":
		return ZoneBottom, nil
	case "top", "stay-on-top":
		return ZoneTop, nil
	}
	return 0, fmt.Errorf("unknown zone %q", s)
}

// Stack is an ordered set of window handles partitioned into zones.
type Stack[T comparable] struct {
	items        []T // bottom-to-top
	regularBegin int
	topBegin     int

	// OnTopChanged is invoked once per call that changes Top().
	OnTopChanged func()
	// OnOrderChanged is invoked once per call that changes the order or
	// zone membership in any way.
	OnOrderChanged func()
}

// New creates an empty stack that reports top-of-stack changes to onTopChanged.
func New[T comparable](onTopChanged func()) *Stack[T] {
	return &Stack[T]{OnTopChanged: onTopChanged}
}

// Len returns the number of windows in the stack.
func (s *Stack[T]) Len() int { return len(s.items) }

// Index returns the bottom-to-top position of w, or -1.
func (s *Stack[T]) Index(w T) int {
	for i, item := range s.items {
		if item == w {
			return i
		}
	}
	return -1
}

// Contains reports whether w is in the stack.
func (s *Stack[T]) Contains(w T) bool { return s.Index(w) >= 0 }

// Top returns the topmost window.
func (s *Stack[T]) Top() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// Bottom returns the bottommost window.
func (s *Stack[T]) Bottom() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[0], true
}

// ZoneOf returns the zone w currently belongs to.
func (s *Stack[T]) ZoneOf(w T) Zone {
	return s.zoneAt(s.mustIndex(w, "zone lookup"))
}

// Bounds returns the cut points: the index where the regular zone begins
// and the index where the stay-on-top zone begins.
func (s *Stack[T]) Bounds() (regularBegin, topBegin int) {
	return s.regularBegin, s.topBegin
}

// BottomToTop iterates from the bottom of the stack to the top. This is
// the draw order.
func (s *Stack[T]) BottomToTop() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range s.items {
			if !yield(item) {
				return
			}
		}
	}
}

// TopToBottom iterates from the top of the stack to the bottom. This is
// the hit-test order.
func (s *Stack[T]) TopToBottom() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := len(s.items) - 1; i >= 0; i-- {
			if !yield(s.items[i]) {
				return
			}
		}
	}
}

// Windows returns a bottom-to-top copy of the stack.
func (s *Stack[T]) Windows() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Push inserts w at the top of zone z.
func (s *Stack[T]) Push(w T, z Zone) {
	if s.Contains(w) {
		panic(fmt.Sprintf("stack: push of %v which is already in the stack", w))
	}
	s.mutate(func() bool {
		switch z {
		case ZoneBottom:
			s.insert(s.regularBegin, w)
			s.regularBegin++
			s.topBegin++
		case ZoneRegular:
			s.insert(s.topBegin, w)
			s.topBegin++
		case ZoneTop:
			s.items = append(s.items, w)
		default:
			panic(fmt.Sprintf("stack: push into invalid zone %d", int(z)))
		}
		return true
	})
}

// Remove takes w out of the stack.
func (s *Stack[T]) Remove(w T) {
	idx := s.mustIndex(w, "remove")
	s.mutate(func() bool {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
		if idx < s.regularBegin {
			s.regularBegin--
		}
		if idx < s.topBegin {
			s.topBegin--
		}
		return true
	})
}

// Raise moves w to the top of its zone.
func (s *Stack[T]) Raise(w T) {
	idx := s.mustIndex(w, "raise")
	_, end := s.zoneBounds(s.zoneAt(idx))
	if idx == end-1 {
		return
	}
	s.mutate(func() bool {
		s.move(idx, end-1)
		return true
	})
}

// Lower moves w to the bottom of its zone.
func (s *Stack[T]) Lower(w T) {
	idx := s.mustIndex(w, "lower")
	begin, _ := s.zoneBounds(s.zoneAt(idx))
	if idx == begin {
		return
	}
	s.mutate(func() bool {
		s.move(idx, begin)
		return true
	})
}

// SetZone moves w into zone z. A window moving up lands at the bottom of
// its new zone, a window moving down lands at the top of it; everything
// else keeps its relative order.
func (s *Stack[T]) SetZone(w T, z Zone) {
	if z < ZoneBottom || z > ZoneTop {
		panic(fmt.Sprintf("stack: invalid zone %d", int(z)))
	}
	idx := s.mustIndex(w, "zone change")
	cur := s.zoneAt(idx)
	if cur == z {
		return
	}
	s.mutate(func() bool {
		if z > cur {
			// Slide w up against the lower boundary of z, then pull the
			// crossed cut points below it.
			s.move(idx, s.zoneBegin(z)-1)
			if z == ZoneTop {
				s.topBegin--
			}
			if cur == ZoneBottom {
				s.regularBegin--
			}
		} else {
			// Slide w down against the upper boundary of z, then push the
			// crossed cut points above it.
			s.move(idx, s.zoneBegin(z+1))
			if z == ZoneBottom {
				s.regularBegin++
			}
			if cur == ZoneTop {
				s.topBegin++
			}
		}
		return true
	})
}

func (s *Stack[T]) mutate(fn func() bool) {
	before, hadTop := s.Top()
	if !fn() {
		return
	}
	if s.OnOrderChanged != nil {
		s.OnOrderChanged()
	}
	after, hasTop := s.Top()
	if (hadTop != hasTop || before != after) && s.OnTopChanged != nil {
		s.OnTopChanged()
	}
}

func (s *Stack[T]) insert(at int, w T) {
	var zero T
	s.items = append(s.items, zero)
	copy(s.items[at+1:], s.items[at:])
	s.items[at] = w
}

// move rotates the sub-range between from and to so the element at from
// ends up at to.
func (s *Stack[T]) move(from, to int) {
	w := s.items[from]
	switch {
	case from < to:
		copy(s.items[from:to], s.items[from+1:to+1])
	case from > to:
		copy(s.items[to+1:from+1], s.items[to:from])
	}
	s.items[to] = w
}

func (s *Stack[T]) zoneAt(idx int) Zone {
	switch {
	case idx < s.regularBegin:
		return ZoneBottom
	case idx < s.topBegin:
		return ZoneRegular
	default:
		return ZoneTop
	}
}

func (s *Stack[T]) zoneBegin(z Zone) int {
	begin, _ := s.zoneBounds(z)
	return begin
}

func (s *Stack[T]) zoneBounds(z Zone) (begin, end int) {
	switch z {
	case ZoneBottom:
		return 0, s.regularBegin
	case ZoneRegular:
		return s.regularBegin, s.topBegin
	default:
		return s.topBegin, len(s.items)
	}
}

func (s *Stack[T]) mustIndex(w T, op string) int {
	idx := s.Index(w)
	if idx < 0 {
		panic(fmt.Sprintf("stack: %s of %v which is not in the stack", op, w))
	}
	return idx
}
