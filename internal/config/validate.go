// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ik5/chunkplay/formats"
	"github.com/ik5/chunkplay/internal/logging"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Validate normalizes c and reports the first unusable setting.
func (c *Config) Validate() error {
	c.Playback.Format = strings.ToLower(strings.TrimSpace(c.Playback.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	if known := formats.NewRegistry().Formats(); !slices.Contains(known, c.Playback.Format) {
		return fmt.Errorf("%w: playback.format %q is not one of %s",
			ErrInvalid, c.Playback.Format, strings.Join(known, ", "))
	}
	if c.Playback.Buffer < 1 {
		return fmt.Errorf("%w: playback.buffer must be at least 1", ErrInvalid)
	}

	if c.Output.SampleRate <= 0 {
		return fmt.Errorf("%w: output.sample_rate must be positive", ErrInvalid)
	}
	if c.Output.Channels != 1 && c.Output.Channels != 2 {
		return fmt.Errorf("%w: output.channels must be 1 or 2", ErrInvalid)
	}
	if c.Output.FramesPerBuffer <= 0 {
		return fmt.Errorf("%w: output.frames_per_buffer must be positive", ErrInvalid)
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %w", ErrInvalid, err)
	}
	switch c.Logging.Format {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("%w: logging.format %q must be console or json", ErrInvalid, c.Logging.Format)
	}

	return nil
}
