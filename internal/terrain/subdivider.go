package terrain

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrSubdividerClosed is returned by Enqueue after Close.
var ErrSubdividerClosed = errors.New("terrain: subdivider closed")

// Request asks for chunk (X, Y) to be refined up to Level.
type Request struct {
	X, Y  int
	Level int
}

// Subdivider serializes refinement of a Geometry on a single consumer
// goroutine. While Run is active it must be the only caller mutating the
// Geometry. Requests run to completion in arrival order.
type Subdivider struct {
	geom  *Geometry
	tasks chan Request

	done      chan struct{} // closed by Close
	closeOnce sync.Once

	onDone func(Request)
	log    *zap.Logger
}

// SubdividerOption configures a Subdivider.
type SubdividerOption func(*Subdivider)

// OnDone registers a hook called on the worker goroutine after each request.
func OnDone(fn func(Request)) SubdividerOption {
	return func(s *Subdivider) { s.onDone = fn }
}

// NewSubdivider creates a worker for g with room for queueSize pending requests.
func NewSubdivider(g *Geometry, queueSize int, opts ...SubdividerOption) *Subdivider {
	if queueSize < 0 {
		queueSize = 0
	}
	s := &Subdivider{
		geom:  g,
		tasks: make(chan Request, queueSize),
		done:  make(chan struct{}),
		log:   g.log.Named("subdivider"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enqueue queues a request, waiting for room while the queue is full. A
// pending Enqueue gives up with ErrSubdividerClosed when Close is called.
// A request that races with Close may be accepted but never run.
func (s *Subdivider) Enqueue(ctx context.Context, r Request) error {
	select {
	case <-s.done:
		return ErrSubdividerClosed
	default:
	}

	select {
	case s.tasks <- r:
		return nil
	case <-s.done:
		return ErrSubdividerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of queued requests.
func (s *Subdivider) Pending() int {
	return len(s.tasks)
}

// Close stops accepting requests and releases blocked Enqueue calls. Run
// drains what is already queued and returns. Close never blocks.
func (s *Subdivider) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Run processes requests until Close has been called and the queue is empty,
// or until ctx is done. A request in progress is always finished.
func (s *Subdivider) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r := <-s.tasks:
			s.process(r)
		case <-s.done:
			return s.drain(ctx)
		}
	}
}

// drain runs what is left in the queue after Close.
func (s *Subdivider) drain(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case r := <-s.tasks:
			s.process(r)
		default:
			return nil
		}
	}
}

func (s *Subdivider) process(r Request) {
	s.log.Debug("refining chunk",
		zap.Int("x", r.X),
		zap.Int("y", r.Y),
		zap.Int("level", r.Level))
	s.geom.SubdivideChunk(r.X, r.Y, r.Level)
	if s.onDone != nil {
		s.onDone(r)
	}
}
