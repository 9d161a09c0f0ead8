package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ik5/chunkplay/formats"
	"github.com/ik5/chunkplay/internal/config"
	"github.com/ik5/chunkplay/internal/metrics"
	"github.com/ik5/chunkplay/session"
	"github.com/ik5/chunkplay/sink"
)

type playOptions struct {
	format        string
	gzip          bool
	verbose       bool
	buffer        int
	sampleRate    int
	channels      int
	metricsListen string
}

// apply copies every flag the user set onto cfg.
func (o *playOptions) apply(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("playback") {
		cfg.Playback.Format = o.format
	}
	if flags.Changed("gzip") {
		cfg.Playback.Gzip = o.gzip
	}
	if flags.Changed("verbose") {
		cfg.Playback.Verbose = o.verbose
	}
	if flags.Changed("buffer") {
		cfg.Playback.Buffer = o.buffer
	}
	if flags.Changed("sample-rate") {
		cfg.Output.SampleRate = o.sampleRate
	}
	if flags.Changed("channels") {
		cfg.Output.Channels = o.channels
	}
	if flags.Changed("metrics-listen") {
		cfg.Metrics.Listen = o.metricsListen
	}
}

func newPlayCommand(ctx *commandContext) *cobra.Command {
	opts := &playOptions{}

	cmd := &cobra.Command{
		Use:   "play [file]",
		Short: "Play fragments from stdin or a file",
		Long: `Read one {"data":"<base64>"} envelope per line and play the audio
fragments back to back on the default output device. Bad lines and fragments
are logged and skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, args, ctx, opts)
		},
	}

	defaults := config.Default()
	flags := cmd.Flags()
	flags.StringVar(&opts.format, "playback", defaults.Playback.Format, "Fragment format: mp3, wav, ogg or aiff")
	flags.BoolVar(&opts.gzip, "gzip", false, "Payloads are gzip compressed")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging and an end of run summary")
	flags.IntVar(&opts.buffer, "buffer", defaults.Playback.Buffer, "Fragments buffered ahead of playback")
	flags.IntVar(&opts.sampleRate, "sample-rate", defaults.Output.SampleRate, "Output device sample rate")
	flags.IntVar(&opts.channels, "channels", defaults.Output.Channels, "Output device channels (1 or 2)")
	flags.StringVar(&opts.metricsListen, "metrics-listen", "", "Serve Prometheus metrics on this address")

	return cmd
}

func runPlay(cmd *cobra.Command, args []string, ctx *commandContext, opts *playOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	opts.apply(cmd.Flags(), &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	logger, err := ctx.newLogger(cfg, stderr)
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	} else if isTerminal(in) {
		logger.Info("waiting for JSON lines on stdin, one {\"data\":\"<base64>\"} object per line")
	}

	runCtx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	m := metrics.New()
	if cfg.Metrics.Listen != "" {
		go func() {
			if err := m.ListenAndServe(runCtx, cfg.Metrics.Listen, logger); err != nil {
				logger.Error("metrics endpoint failed", slog.Any("error", err))
			}
		}()
	}

	sinkCfg := sink.Config{
		SampleRate:      cfg.Output.SampleRate,
		Channels:        cfg.Output.Channels,
		FramesPerBuffer: cfg.Output.FramesPerBuffer,
	}
	out, err := ctx.openOutput(sinkCfg)
	if err != nil {
		return err
	}
	player := sink.NewPlayer(out, sinkCfg, logger)
	defer func() {
		if err := player.Close(); err != nil {
			logger.Warn("closing output", slog.Any("error", err))
		}
	}()

	s, err := session.New(session.Config{
		Format:  cfg.Playback.Format,
		Gzip:    cfg.Playback.Gzip,
		Verbose: cfg.Playback.Verbose,
		Buffer:  cfg.Playback.Buffer,
	}, formats.NewRegistry(), player, logger, session.WithObserver(m))
	if err != nil {
		return err
	}

	stats, err := s.Run(runCtx, in)
	if cfg.Playback.Verbose {
		fmt.Fprintln(stderr, renderSummary(stats))
	}
	return err
}
