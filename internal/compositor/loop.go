package compositor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/1broseidon/stackwm/internal/input"
	"github.com/1broseidon/stackwm/internal/wintree"
)

// ErrLoopStopped is returned by Do once the loop has exited.
var ErrLoopStopped = errors.New("compositor loop stopped")

// DefaultFrameInterval is the composite tick used when none is configured.
const DefaultFrameInterval = 16 * time.Millisecond

// InputSink receives events from an InputSource.
type InputSink interface {
	PointerEvent(ev input.PointerEvent)
	FocusChanged(node wintree.NodeID, focused bool)
}

// InputSource delivers platform input to a sink until ctx is done.
type InputSource interface {
	Run(ctx context.Context, sink InputSink) error
}

// LoopConfig holds configuration for a Loop.
type LoopConfig struct {
	FrameInterval time.Duration
	// Queue is the capacity of the pending work queue.
	Queue  int
	Logger *slog.Logger
}

// Loop runs a Compositor on a single goroutine. Input, IPC requests and
// composite ticks are all funnelled through it in arrival order.
type Loop struct {
	comp     *Compositor
	interval time.Duration
	work     chan func()
	done     chan struct{}
	logger   *slog.Logger
}

var _ InputSink = (*Loop)(nil)

// NewLoop creates a loop around comp. It does nothing until Run is called.
func NewLoop(comp *Compositor, cfg LoopConfig) *Loop {
	interval := cfg.FrameInterval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	queue := cfg.Queue
	if queue <= 0 {
		queue = 256
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		comp:     comp,
		interval: interval,
		work:     make(chan func(), queue),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// Run processes queued work and composite ticks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Info("compositor loop started", "compositor", l.comp.ID().String(), "interval", l.interval)
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("compositor loop stopped")
			return ctx.Err()
		case fn := <-l.work:
			fn()
		case <-ticker.C:
			l.comp.Composite()
		}
	}
}

// Post queues fn to run on the loop goroutine. It drops fn if the loop has
// already exited.
func (l *Loop) Post(fn func()) {
	select {
	case l.work <- fn:
	case <-l.done:
	}
}

// Do runs fn on the loop goroutine and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func(c *Compositor) error) error {
	result := make(chan error, 1)
	job := func() { result <- fn(l.comp) }
	select {
	case l.work <- job:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-result:
		return err
	case <-l.done:
		select {
		case err := <-result:
			return err
		default:
			return ErrLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PointerEvent queues ev for routing.
func (l *Loop) PointerEvent(ev input.PointerEvent) {
	l.Post(func() { l.comp.HandlePointer(ev) })
}

// FocusChanged queues a focus notification.
func (l *Loop) FocusChanged(node wintree.NodeID, focused bool) {
	l.Post(func() { l.comp.FocusChanged(node, focused) })
}

// RequestUpdate asks for a composite pass on the next tick.
func (l *Loop) RequestUpdate() {
	l.Post(l.comp.RequestUpdate)
}
