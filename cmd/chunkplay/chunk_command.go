package main

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/chunkplay"
	"github.com/ik5/chunkplay/chunker"
	"github.com/ik5/chunkplay/envelope"
	"github.com/ik5/chunkplay/formats"
)

type chunkOptions struct {
	blockSize     int
	typ           string
	mode          string
	gzipLevel     int
	transcodeRate int
}

func newChunkCommand(ctx *commandContext) *cobra.Command {
	opts := &chunkOptions{}

	cmd := &cobra.Command{
		Use:   "chunk [flags] <file>",
		Short: "Split an audio file into a JSON lines fragment stream",
		Long: `Cut an audio file into fragments and print each as a
{"data":"<base64>"} line on stdout, ready to be piped into chunkplay.

MP3 input is cut on frame boundaries. WAV input is cut on sample frames and
either streams the header once (streaming) or wraps every fragment in its own
header (complete).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChunk(cmd, args[0], ctx, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.blockSize, "block-size", "b", chunker.DefaultBlockSize, "Target fragment size in bytes")
	flags.StringVar(&opts.typ, "type", "auto", "Input type: mp3, wav, dumb or auto")
	flags.StringVar(&opts.mode, "mode", chunker.ModeStreaming.String(), "WAV mode: streaming or complete")
	flags.IntVar(&opts.gzipLevel, "gzip-level", gzip.NoCompression, "Gzip level for WAV payloads (0 none, -1 default, 1-9)")
	flags.IntVar(&opts.transcodeRate, "transcode-rate", 0, "Decode the input and re-encode it as mono 16-bit WAV at this rate first")

	return cmd
}

func runChunk(cmd *cobra.Command, path string, ctx *commandContext, opts *chunkOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	mode, err := chunker.ParseMode(opts.mode)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var in io.Reader = f
	typ := strings.ToLower(strings.TrimSpace(opts.typ))
	if typ == "auto" {
		typ = chunker.DetectType(path)
	}

	if opts.transcodeRate > 0 {
		format, ok := formats.ForExtension(filepath.Ext(path))
		if !ok {
			return fmt.Errorf("cannot tell the format of %s from its extension", path)
		}
		var buf bytes.Buffer
		samples, err := chunkplay.TranscodeWAV16(&buf, f, format, formats.NewRegistry(), opts.transcodeRate)
		if err != nil {
			return fmt.Errorf("transcode: %w", err)
		}
		logger.Debug("transcoded input",
			slog.String("format", format),
			slog.Int("rate", opts.transcodeRate),
			slog.Int("samples", samples),
		)
		in = &buf
		typ = chunker.TypeWAV
	}

	if opts.gzipLevel != gzip.NoCompression && typ != chunker.TypeWAV {
		return fmt.Errorf("gzip compression is only supported for wav input, not %s", typ)
	}

	c, err := chunker.New(typ, in, chunker.Options{BlockSize: opts.blockSize, Mode: mode})
	if err != nil {
		return err
	}

	w := bufio.NewWriter(cmd.OutOrStdout())
	enc := envelope.Encoder{Level: opts.gzipLevel}

	count := 0
	for {
		chunk, err := c.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("chunking %s: %w", path, err)
		}
		if err := enc.Encode(w, chunk); err != nil {
			return fmt.Errorf("writing fragment %d: %w", count+1, err)
		}
		count++
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	logger.Debug("chunked input",
		slog.String("file", path),
		slog.String("type", typ),
		slog.String("mode", mode.String()),
		slog.Int("fragments", count),
	)
	return nil
}
