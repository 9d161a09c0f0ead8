// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is every setting the player and chunker read.
type Config struct {
	Playback Playback `toml:"playback"`
	Output   Output   `toml:"output"`
	Logging  Logging  `toml:"logging"`
	Metrics  Metrics  `toml:"metrics"`
}

type Playback struct {
	Format  string `toml:"format"`
	Gzip    bool   `toml:"gzip"`
	Verbose bool   `toml:"verbose"`
	// Buffer is the number of decoded fragments queued ahead of playback.
	Buffer int `toml:"buffer"`
}

type Output struct {
	SampleRate      int `toml:"sample_rate"`
	Channels        int `toml:"channels"`
	FramesPerBuffer int `toml:"frames_per_buffer"`
}

type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Metrics struct {
	// Listen is the address serving /metrics. Empty disables the endpoint.
	Listen string `toml:"listen"`
}

// Load builds a Config from defaults, the TOML file at path and the
// environment. A missing file is an error only when path was given
// explicitly; envFile is read when it exists.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	lookup, err := envLookup(envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Encode renders cfg as TOML.
func (c Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}
