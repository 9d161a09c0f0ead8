package main

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/ik5/chunkplay/internal/config"
	"github.com/ik5/chunkplay/internal/logging"
	"github.com/ik5/chunkplay/sink"
)

// commandContext carries the global flags and lazily loaded configuration
// shared by every command.
type commandContext struct {
	configFlag    string
	envFileFlag   string
	logLevelFlag  string
	logFormatFlag string

	// openOutput opens the playback device.
	openOutput func(sink.Config) (sink.Output, error)

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext() *commandContext {
	return &commandContext{
		openOutput: func(cfg sink.Config) (sink.Output, error) {
			return sink.OpenPortAudio(cfg)
		},
	}
}

// ensureConfig loads the file and environment layers once. The result is
// shared, so callers copy it before applying their own flags.
func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = config.Load(strings.TrimSpace(c.configFlag), strings.TrimSpace(c.envFileFlag))
	})
	if c.configErr != nil {
		return config.Config{}, c.configErr
	}

	cfg := *c.config
	if c.logLevelFlag != "" {
		cfg.Logging.Level = c.logLevelFlag
	}
	if c.logFormatFlag != "" {
		cfg.Logging.Format = c.logFormatFlag
	}
	return cfg, nil
}

func (c *commandContext) newLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Verbose: cfg.Playback.Verbose,
		Output:  w,
	})
}

// isTerminal reports whether v is an interactive terminal.
func isTerminal(v any) bool {
	file, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
