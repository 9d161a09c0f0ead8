// SPDX-License-Identifier: EPL-2.0

// Package metrics exports session counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ik5/chunkplay/internal/logging"
)

const namespace = "chunkplay"

// Metrics holds the collectors for one process. It satisfies session.Observer.
type Metrics struct {
	registry *prometheus.Registry

	LinesRead         prometheus.Counter
	EnvelopesParsed   prometheus.Counter
	FragmentsDecoded  prometheus.Counter
	FragmentsPlayed   prometheus.Counter
	Failures          *prometheus.CounterVec
	TransportDepthNow prometheus.Gauge
}

// New registers every collector on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		LinesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_total",
			Help:      "Input lines read, blank lines included.",
		}),
		EnvelopesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "envelopes_parsed_total",
			Help:      "Lines holding a well-formed envelope.",
		}),
		FragmentsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fragments_decoded_total",
			Help:      "Envelopes whose audio bytes were recovered.",
		}),
		FragmentsPlayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fragments_played_total",
			Help:      "Fragments decoded and queued for playback.",
		}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Discarded lines and fragments by failure kind.",
		}, []string{"kind"}),
		TransportDepthNow: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transport_depth",
			Help:      "Fragments waiting between ingest and playback.",
		}),
	}

	reg.MustRegister(
		m.LinesRead,
		m.EnvelopesParsed,
		m.FragmentsDecoded,
		m.FragmentsPlayed,
		m.Failures,
		m.TransportDepthNow,
	)

	return m
}

func (m *Metrics) LineRead()            { m.LinesRead.Inc() }
func (m *Metrics) EnvelopeParsed()      { m.EnvelopesParsed.Inc() }
func (m *Metrics) FragmentDecoded()     { m.FragmentsDecoded.Inc() }
func (m *Metrics) FragmentPlayed()      { m.FragmentsPlayed.Inc() }
func (m *Metrics) Failure(kind string)  { m.Failures.WithLabelValues(kind).Inc() }
func (m *Metrics) TransportDepth(n int) { m.TransportDepthNow.Set(float64(n)) }

// Registry exposes the private registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on ln until ctx is done.
func (m *Metrics) Serve(ctx context.Context, ln net.Listener, logger *slog.Logger) error {
	logger = logging.Component(logger, "metrics")

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", slog.String("address", ln.Addr().String()))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

// ListenAndServe is Serve on a new TCP listener at addr.
func (m *Metrics) ListenAndServe(ctx context.Context, addr string, logger *slog.Logger) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listen %s: %w", addr, err)
	}
	return m.Serve(ctx, ln, logger)
}
