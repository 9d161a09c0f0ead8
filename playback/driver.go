// SPDX-License-Identifier: EPL-2.0

// Package playback decodes fragments in arrival order and queues the audio on
// a sink.
package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ik5/chunkplay/audio"
	"github.com/ik5/chunkplay/internal/logging"
	"github.com/ik5/chunkplay/transport"
)

// Sink plays decoded audio back to back in the order it was enqueued.
type Sink interface {
	// Enqueue must not wait for playback.
	Enqueue(src audio.Source) error
	// Drain blocks until everything enqueued has been played.
	Drain(ctx context.Context) error
}

// Stats counts fragments seen by a Driver.
type Stats struct {
	Received int
	Decoded  int
	Failed   int
}

// Result is reported for every fragment a Driver pulls. Err is nil on success
// and wraps ErrDecodeFailure otherwise.
type Result struct {
	Seq   uint64
	Bytes int
	Err   error
}

type Option func(*Driver)

// WithHook registers fn to be called after each fragment.
func WithHook(fn func(Result)) Option {
	return func(d *Driver) { d.hook = fn }
}

// Driver is the consuming side of a transport.
type Driver struct {
	format  string
	codecs  *audio.Registry
	sink    Sink
	logger  *slog.Logger
	hook    func(Result)
}

// NewDriver returns a driver decoding every fragment as format.
func NewDriver(codecs *audio.Registry, format string, sink Sink, logger *slog.Logger, opts ...Option) (*Driver, error) {
	if _, ok := codecs.Get(format); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	d := &Driver{
		format:  format,
		codecs:  codecs,
		sink:    sink,
		logger:  logger,
		hook:    func(Result) {},
	}
	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// Run pulls fragments until the transport is closed and drained, then waits
// for the sink to finish. A fragment that fails to decode, or whose layout the
// sink cannot convert, is logged and skipped. If the sink refuses audio the transport is abandoned, so the
// producer stops, and the sink error is returned.
func (d *Driver) Run(ctx context.Context, tr *transport.Transport) (Stats, error) {
	var stats Stats

	for {
		f, ok := tr.Pull(ctx)
		if !ok {
			break
		}
		stats.Received++

		src, err := d.codecs.DecodeBytes(f.Data, d.format)
		if err != nil {
			stats.Failed++
			d.skip(f, err)
			continue
		}

		if err := d.sink.Enqueue(src); err != nil {
			_ = src.Close()
			if errors.Is(err, audio.ErrInvalidLayout) {
				// Only this fragment is unplayable.
				stats.Failed++
				d.skip(f, err)
				continue
			}
			tr.Abandon()
			d.logger.Error("sink refused audio, stopping playback",
				slog.Uint64("fragment", f.Seq),
				slog.Any("error", err),
			)
			return stats, fmt.Errorf("enqueue fragment %d: %w", f.Seq, err)
		}

		stats.Decoded++
		d.logger.Debug("fragment queued",
			slog.Uint64("fragment", f.Seq),
			slog.Int("bytes", len(f.Data)),
			slog.Int("sample_rate", src.SampleRate()),
			slog.Int("channels", src.Channels()),
		)
		d.hook(Result{Seq: f.Seq, Bytes: len(f.Data)})
	}

	if err := d.sink.Drain(ctx); err != nil {
		return stats, fmt.Errorf("drain: %w", err)
	}

	return stats, nil
}

func (d *Driver) skip(f transport.Fragment, cause error) {
	err := fmt.Errorf("%w: %w", ErrDecodeFailure, cause)
	d.logger.Warn("fragment decode failed",
		slog.Uint64("fragment", f.Seq),
		slog.Int("bytes", len(f.Data)),
		slog.String("format", d.format),
		slog.String("kind", "decode_failure"),
		slog.Any("error", err),
	)
	d.hook(Result{Seq: f.Seq, Bytes: len(f.Data), Err: err})
}
