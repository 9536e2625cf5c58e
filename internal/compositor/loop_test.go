package compositor

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/1broseidon/stackwm/internal/input"
	"github.com/1broseidon/stackwm/internal/stack"
	"github.com/1broseidon/stackwm/internal/wintree"
)

func TestLoopSerializesWork(t *testing.T) {
	drawn := make(chan []Layer, 16)
	c := newTestCompositor(RendererFunc(func(layers []Layer) { drawn <- layers }))
	a := &wintree.Surface{Rect: at(0, 0)}
	c.AddWindow(a, wintree.None, stack.ZoneRegular)

	ctx, cancel := context.WithCancel(context.Background())
	loop := NewLoop(c, LoopConfig{FrameInterval: time.Millisecond})
	errc := make(chan error, 1)
	go func() { errc <- loop.Run(ctx) }()

	loop.PointerEvent(ev(input.Down, 10, 10, input.ButtonPrimary))
	loop.PointerEvent(ev(input.Up, 10, 10, 0))

	var got []input.Kind
	if err := loop.Do(ctx, func(c *Compositor) error {
		got = a.EventKinds()
		return nil
	}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if want := kinds(input.Down, input.Up); !slices.Equal(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}

	select {
	case layers := <-drawn:
		if len(layers) != 1 {
			t.Fatalf("drew %d layers, want 1", len(layers))
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no composite pass after update")
	}

	sentinel := errors.New("boom")
	if err := loop.Do(ctx, func(*Compositor) error { return sentinel }); !errors.Is(err, sentinel) {
		t.Fatalf("Do error = %v, want %v", err, sentinel)
	}

	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
	if err := loop.Do(context.Background(), func(*Compositor) error { return nil }); !errors.Is(err, ErrLoopStopped) {
		t.Fatalf("Do after stop = %v, want ErrLoopStopped", err)
	}
}
