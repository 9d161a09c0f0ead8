// SPDX-License-Identifier: EPL-2.0

// Package transport hands fragments from one producer to one consumer in
// order, with a small bounded buffer between them.
package transport

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Push once the consumer has abandoned the transport
// or the producer has closed it.
var ErrClosed = errors.New("transport closed")

// DefaultCapacity is the buffer size used when none is configured.
const DefaultCapacity = 8

// Fragment is one unit of audio bytes. Seq is its 1-based arrival ordinal.
// Ownership of Data moves with the Fragment; senders must not touch it after Push.
type Fragment struct {
	Seq  uint64
	Data []byte
}

// Transport is a single-producer single-consumer queue. Close ends the stream
// after everything already pushed is delivered. Abandon tells the producer
// that nobody is listening any more.
type Transport struct {
	items chan Fragment

	closeOnce   sync.Once
	closed      chan struct{}
	abandonOnce sync.Once
	abandoned   chan struct{}
}

// New returns a transport buffering up to capacity fragments. Capacities
// below 1 are raised to 1.
func New(capacity int) *Transport {
	return &Transport{
		items:     make(chan Fragment, max(capacity, 1)),
		closed:    make(chan struct{}),
		abandoned: make(chan struct{}),
	}
}

// Push blocks while the buffer is full. It returns ErrClosed when the consumer
// is gone and ctx.Err() when ctx ends first.
func (t *Transport) Push(ctx context.Context, f Fragment) error {
	select {
	case <-t.abandoned:
		return ErrClosed
	case <-t.closed:
		return ErrClosed
	default:
	}

	select {
	case t.items <- f:
		return nil
	case <-t.abandoned:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close marks the end of input. It is safe to call more than once. Close must
// not race with Push; only the producer calls either.
func (t *Transport) Close() {
	t.closeOnce.Do(func() {
		close(t.closed)
		close(t.items)
	})
}

// Pull returns the next fragment. It blocks until one is available and
// returns false once the transport is closed and drained, or when ctx ends.
func (t *Transport) Pull(ctx context.Context) (Fragment, bool) {
	select {
	case f, ok := <-t.items:
		return f, ok
	case <-ctx.Done():
		return Fragment{}, false
	}
}

// Abandon is called by the consumer when it stops pulling. Pending and future
// Push calls return ErrClosed.
func (t *Transport) Abandon() {
	t.abandonOnce.Do(func() { close(t.abandoned) })
}

// Len reports the number of buffered fragments.
func (t *Transport) Len() int { return len(t.items) }

// Cap reports the buffer capacity.
func (t *Transport) Cap() int { return cap(t.items) }
