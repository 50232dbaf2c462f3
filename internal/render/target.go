// Package render turns pipeline results into terminal output and owns the
// single output slot that competing invocations write into.
package render

import (
	"context"
	"sync"
)

// Ticket identifies one invocation against a Target.
// Tickets are handed out in strictly increasing order.
type Ticket uint64

// Target is an output slot where only the most recently started invocation
// may deliver. Starting a new invocation cancels the context of the one
// before it, and a value committed under a stale ticket is dropped.
type Target[T any] struct {
	mu     sync.Mutex
	latest Ticket
	cancel context.CancelFunc
	sink   func(T)
}

// NewTarget creates a Target that delivers accepted values to sink.
// sink is called with the Target's lock held, so deliveries never interleave.
func NewTarget[T any](sink func(T)) *Target[T] {
	return &Target[T]{sink: sink}
}

// Begin starts a new invocation. The previous invocation's context is
// canceled and its ticket stops being current.
func (t *Target[T]) Begin(parent context.Context) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	t.latest++
	t.cancel = cancel

	return ctx, t.latest
}

// Commit delivers value if ticket is still the latest one and reports
// whether it was delivered.
func (t *Target[T]) Commit(ticket Ticket, value T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ticket != t.latest {
		return false
	}
	t.sink(value)
	return true
}

// Run begins an invocation, runs fn with its context and commits the result.
func (t *Target[T]) Run(parent context.Context, fn func(ctx context.Context) T) bool {
	ctx, ticket := t.Begin(parent)
	return t.Commit(ticket, fn(ctx))
}

// Current returns the latest ticket handed out.
func (t *Target[T]) Current() Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest
}

// Close cancels the in-flight invocation, if any, and retires its ticket so
// nothing it commits afterwards is delivered.
func (t *Target[T]) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.latest++
}
