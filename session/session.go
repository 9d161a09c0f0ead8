// SPDX-License-Identifier: EPL-2.0

// Package session reads a JSON lines stream of audio fragments and plays it.
//
// A Session runs two goroutines: ingest reads lines, decodes envelopes and
// rebuilds WAV containers; playback decodes audio and feeds the sink. They are
// joined by a bounded transport, so playback pacing never stalls parsing by
// more than a few fragments.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ik5/chunkplay/audio"
	"github.com/ik5/chunkplay/envelope"
	"github.com/ik5/chunkplay/formats"
	"github.com/ik5/chunkplay/formats/wav"
	"github.com/ik5/chunkplay/internal/logging"
	"github.com/ik5/chunkplay/playback"
	"github.com/ik5/chunkplay/transport"
)

// Config holds the per-run settings.
type Config struct {
	// Format is the codec key every fragment is decoded with.
	Format string
	// Gzip treats every payload as a gzip stream.
	Gzip bool
	// Verbose raises per-fragment traces from debug to info.
	Verbose bool
	// Buffer is the transport capacity in fragments.
	Buffer int
}

// Stats are the counters reported at the end of a run.
type Stats struct {
	Lines   int // every line read, blank ones included
	Parsed  int // lines holding a well-formed envelope
	Decoded int // envelopes whose payload was recovered

	Malformed             int
	InvalidEncoding       int
	DecompressionFailures int
	CaptureFailures       int

	Received       int // fragments pulled by playback
	Played         int // fragments queued on the sink
	DecodeFailures int
}

type Option func(*Session)

// WithObserver reports counter updates to o.
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observer = o }
}

// Session plays one input stream.
type Session struct {
	cfg      Config
	codecs   *audio.Registry
	sink     playback.Sink
	logger   *slog.Logger
	observer Observer
}

// New validates cfg against codecs. The sink must already be open; a Session
// never opens or closes it.
func New(cfg Config, codecs *audio.Registry, sink playback.Sink, logger *slog.Logger, opts ...Option) (*Session, error) {
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	if _, ok := codecs.Get(cfg.Format); !ok {
		return nil, fmt.Errorf("%w: %q", playback.ErrUnknownFormat, cfg.Format)
	}
	if cfg.Buffer < 1 {
		cfg.Buffer = transport.DefaultCapacity
	}

	s := &Session{
		cfg:      cfg,
		codecs:   codecs,
		sink:     sink,
		logger:   logging.Component(logger, "session"),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Run plays everything in r and returns once input is exhausted and the sink
// has drained. Bad lines and fragments are logged and skipped; the returned
// error is only set when the sink fails or ctx ends.
func (s *Session) Run(ctx context.Context, r io.Reader) (Stats, error) {
	logger := s.logger.With(slog.String("session_id", uuid.NewString()))

	tr := transport.New(s.cfg.Buffer)
	driver, err := playback.NewDriver(s.codecs, s.cfg.Format, s.sink,
		logging.Component(logger, "playback"), playback.WithHook(s.onPlayed))
	if err != nil {
		return Stats{}, err
	}

	type outcome struct {
		stats playback.Stats
		err   error
	}
	played := make(chan outcome, 1)
	go func() {
		st, err := driver.Run(ctx, tr)
		played <- outcome{st, err}
	}()

	logger.Info("session started",
		slog.String("format", s.cfg.Format),
		slog.Bool("gzip", s.cfg.Gzip),
		slog.Int("buffer", s.cfg.Buffer),
	)

	stats := s.ingest(ctx, r, tr, logger)
	tr.Close()

	res := <-played
	stats.Received = res.stats.Received
	stats.Played = res.stats.Decoded
	stats.DecodeFailures = res.stats.Failed

	logger.Info("session finished",
		slog.Int("lines", stats.Lines),
		slog.Int("parsed", stats.Parsed),
		slog.Int("decoded", stats.Decoded),
		slog.Int("played", stats.Played),
		slog.Int("decode_failures", stats.DecodeFailures),
	)

	return stats, res.err
}

func (s *Session) ingest(ctx context.Context, r io.Reader, tr *transport.Transport, logger *slog.Logger) Stats {
	var (
		stats     Stats
		dec       = envelope.Decoder{Gzip: s.cfg.Gzip}
		br        = bufio.NewReader(r)
		container *wav.Reassembler
		trace     = slog.LevelDebug
	)
	if s.cfg.Format == formats.WAV {
		container = wav.NewReassembler()
	}
	if s.cfg.Verbose {
		trace = slog.LevelInfo
	}

	for ctx.Err() == nil {
		line, readErr := br.ReadString('\n')
		if line != "" {
			stats.Lines++
			s.observer.LineRead()

			fragment, ok := s.decodeLine(line, stats.Lines, dec, &stats, logger)
			if ok && container != nil {
				fragment = s.reassemble(container, fragment, stats.Lines, &stats, logger)
			}
			if ok {
				logger.Log(ctx, trace, "fragment decoded",
					slog.Int("line", stats.Lines),
					slog.Int("bytes", len(fragment)),
				)
				err := tr.Push(ctx, transport.Fragment{Seq: uint64(stats.Decoded), Data: fragment})
				s.observer.TransportDepth(tr.Len())
				if err != nil {
					if errors.Is(err, transport.ErrClosed) {
						logger.Debug("playback stopped, ending input", slog.Int("line", stats.Lines))
					}
					return stats
				}
			}
		}

		if readErr != nil {
			if !errors.Is(readErr, io.EOF) {
				logger.Warn("input read failed, ending input", slog.Any("error", readErr))
			}
			return stats
		}
	}

	return stats
}

// decodeLine turns one line into fragment bytes and updates the line counters.
func (s *Session) decodeLine(line string, lineNo int, dec envelope.Decoder, stats *Stats, logger *slog.Logger) ([]byte, bool) {
	fragment, err := dec.Decode(line)
	switch {
	case err == nil:
		stats.Parsed++
		stats.Decoded++
		s.observer.EnvelopeParsed()
		s.observer.FragmentDecoded()
		return fragment, true

	case errors.Is(err, envelope.ErrEmptyLine):
		return nil, false

	case errors.Is(err, envelope.ErrMalformedEnvelope):
		stats.Malformed++

	case errors.Is(err, envelope.ErrInvalidEncoding):
		stats.Parsed++
		stats.InvalidEncoding++
		s.observer.EnvelopeParsed()

	case errors.Is(err, envelope.ErrDecompressionFailure):
		stats.Parsed++
		stats.DecompressionFailures++
		s.observer.EnvelopeParsed()
	}

	kind := envelope.Kind(err)
	s.observer.Failure(kind)
	logger.Warn("skipping line",
		slog.Int("line", lineNo),
		slog.Int("bytes", len(line)),
		slog.String("kind", kind),
		slog.Any("error", err),
	)

	return nil, false
}

func (s *Session) reassemble(r *wav.Reassembler, fragment []byte, lineNo int, stats *Stats, logger *slog.Logger) []byte {
	out, err := r.Process(fragment)
	if err != nil {
		stats.CaptureFailures++
		s.observer.Failure("container_capture_failure")
		logger.Warn("no WAV header in first fragment, passing fragments through",
			slog.Int("line", lineNo),
			slog.Int("bytes", len(fragment)),
			slog.String("kind", "container_capture_failure"),
			slog.Any("error", err),
		)
	}
	return out
}

func (s *Session) onPlayed(res playback.Result) {
	if res.Err != nil {
		s.observer.Failure("decode_failure")
		return
	}
	s.observer.FragmentPlayed()
}
