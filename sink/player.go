// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ik5/chunkplay/audio"
	"github.com/ik5/chunkplay/internal/logging"
	"github.com/ik5/chunkplay/utils"
)

// Output is a blocking PCM device. Write returns once buf has been accepted.
type Output interface {
	Write(buf []int16) error
	Close() error
}

// Config describes the device format a Player renders to.
type Config struct {
	SampleRate      int
	Channels        int
	FramesPerBuffer int
}

// Player pumps a Queue into an Output on its own goroutine.
type Player struct {
	queue  *Queue
	out    Output
	logger *slog.Logger

	fbuf []float32
	ibuf []int16

	flush chan chan struct{}
	stop  chan struct{}
	done  chan struct{}

	closeOnce sync.Once
	mu        sync.Mutex
	err       error
}

// NewPlayer starts playing into out. The player owns out from now on.
func NewPlayer(out Output, cfg Config, logger *slog.Logger) *Player {
	logger = logging.Component(logger, "sink")
	n := cfg.FramesPerBuffer * cfg.Channels

	p := &Player{
		queue:  NewQueue(cfg.SampleRate, cfg.Channels, logger),
		out:    out,
		logger: logger,
		fbuf:   make([]float32, n),
		ibuf:   make([]int16, n),
		flush:  make(chan chan struct{}),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go p.run()

	return p
}

func (p *Player) run() {
	defer close(p.done)

	for {
		select {
		case <-p.stop:
			return
		case ack := <-p.flush:
			close(ack)
			continue
		default:
		}

		if p.queue.Read(p.fbuf) == 0 {
			select {
			case <-p.stop:
				return
			case ack := <-p.flush:
				close(ack)
			case <-p.queue.Ready():
			}
			continue
		}

		utils.ConvertToInt16(p.ibuf, p.fbuf)
		if err := p.out.Write(p.ibuf); err != nil {
			p.fail(fmt.Errorf("output write: %w", err))
			return
		}
	}
}

func (p *Player) fail(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()

	p.logger.Error("audio output failed", slog.Any("error", err))
	p.queue.Close()
}

// Err returns the output failure that stopped the player, if any.
func (p *Player) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Enqueue appends src to the play queue.
func (p *Player) Enqueue(src audio.Source) error {
	if err := p.Err(); err != nil {
		_ = src.Close()
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	return p.queue.Enqueue(src)
}

// Drain blocks until everything enqueued has been written to the output.
func (p *Player) Drain(ctx context.Context) error {
	if err := p.queue.Drain(ctx); err != nil {
		return err
	}

	// The last buffer read from the queue may still be in flight.
	ack := make(chan struct{})
	select {
	case p.flush <- ack:
	case <-p.done:
		return p.Err()
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-ack:
		return p.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the pump, drops anything still queued and closes the output.
func (p *Player) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.stop)
		<-p.done
		p.queue.Close()
		err = p.out.Close()
	})
	return err
}
