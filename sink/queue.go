// SPDX-License-Identifier: EPL-2.0

// Package sink plays decoded audio sources back to back on an output device.
package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ik5/chunkplay/audio"
	"github.com/ik5/chunkplay/internal/logging"
)

// Queue concatenates sources in the order they were enqueued. Every source is
// converted to the queue's rate and channel count on the way in.
//
// Enqueue and Drain may be called from any goroutine; Read from one.
type Queue struct {
	rate     int
	channels int
	logger   *slog.Logger

	mu          sync.Mutex
	pending     []audio.Source
	outstanding int // enqueued and not yet read to the end
	closed      bool
	changed     chan struct{}

	ready  chan struct{}
	cur    audio.Source
	stalls int
}

// maxStalls is how many empty reads in a row end a source.
const maxStalls = 8

func NewQueue(rate, channels int, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Queue{
		rate:     rate,
		channels: channels,
		logger:   logger,
		changed:  make(chan struct{}),
		ready:    make(chan struct{}, 1),
	}
}

func (q *Queue) SampleRate() int { return q.rate }
func (q *Queue) Channels() int   { return q.channels }

// Ready is signalled after an Enqueue.
func (q *Queue) Ready() <-chan struct{} { return q.ready }

// Enqueue appends src. It does not wait for playback.
func (q *Queue) Enqueue(src audio.Source) error {
	adapted, err := audio.Adapt(src, q.rate, q.channels)
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("adapting source: %w", err)
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		_ = src.Close()
		return ErrClosed
	}
	q.pending = append(q.pending, adapted)
	q.outstanding++
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}

	return nil
}

// Len reports how many sources have not been fully read.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.outstanding
}

// Read fills dst with queued audio and zero-fills whatever is left once the
// queue runs dry. It returns the number of samples that came from sources.
// len(dst) must be a multiple of Channels.
func (q *Queue) Read(dst []float32) int {
	n := 0
	for n < len(dst) {
		if q.cur == nil && !q.next() {
			break
		}

		got, err := q.cur.ReadSamples(dst[n:])
		n += got
		switch {
		case err == nil && got > 0:
			q.stalls = 0
			continue
		case err == nil:
			if q.stalls++; q.stalls < maxStalls {
				continue
			}
			q.logger.Debug("audio source stalled, skipping rest")
		case !errors.Is(err, io.EOF):
			q.logger.Warn("audio source failed, skipping rest", slog.Any("error", err))
		}
		q.finish()
	}

	clear(dst[n:])
	return n
}

func (q *Queue) next() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return false
	}
	q.cur = q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	return true
}

func (q *Queue) finish() {
	_ = q.cur.Close()
	q.cur = nil
	q.stalls = 0

	q.mu.Lock()
	if q.outstanding > 0 {
		q.outstanding--
	}
	q.broadcast()
	q.mu.Unlock()
}

// broadcast wakes Drain callers. q.mu must be held.
func (q *Queue) broadcast() {
	close(q.changed)
	q.changed = make(chan struct{})
}

// Drain blocks until every enqueued source has been read to the end, or the
// queue is closed.
func (q *Queue) Drain(ctx context.Context) error {
	for {
		q.mu.Lock()
		if q.outstanding == 0 || q.closed {
			q.mu.Unlock()
			return nil
		}
		ch := q.changed
		q.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close drops pending sources and refuses new ones. The source being read, if
// any, is closed by the next Read.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	for _, src := range q.pending {
		_ = src.Close()
	}
	q.pending = nil
	q.outstanding = 0
	q.broadcast()
}
