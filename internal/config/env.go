// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix starts every environment variable read by ApplyEnv.
const EnvPrefix = "CHUNKPLAY_"

// DefaultEnvFile is read by Load when no other dotenv file is named.
const DefaultEnvFile = ".env"

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// envLookup layers the dotenv file under the process environment.
func envLookup(envFile string) (LookupFunc, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}

	ok, err := fileExists(envFile)
	if err != nil || !ok {
		return os.LookupEnv, err
	}

	values, err := godotenv.Read(envFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", envFile, err)
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}, nil
}

// ApplyEnv overrides c with every CHUNKPLAY_* variable lookup knows about.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	strs := map[string]*string{
		"FORMAT":         &c.Playback.Format,
		"LOG_LEVEL":      &c.Logging.Level,
		"LOG_FORMAT":     &c.Logging.Format,
		"METRICS_LISTEN": &c.Metrics.Listen,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	bools := map[string]*bool{
		"GZIP":    &c.Playback.Gzip,
		"VERBOSE": &c.Playback.Verbose,
	}
	for key, dst := range bools {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
	}

	ints := map[string]*int{
		"BUFFER":            &c.Playback.Buffer,
		"SAMPLE_RATE":       &c.Output.SampleRate,
		"CHANNELS":          &c.Output.Channels,
		"FRAMES_PER_BUFFER": &c.Output.FramesPerBuffer,
	}
	for key, dst := range ints {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
	}

	return nil
}
