package config

import (
	"github.com/ik5/chunkplay/formats"
	"github.com/ik5/chunkplay/transport"
)

const (
	defaultFormat          = formats.MP3
	defaultSampleRate      = 44100
	defaultChannels        = 2
	defaultFramesPerBuffer = 1024
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
)

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		Playback: Playback{
			Format: defaultFormat,
			Buffer: transport.DefaultCapacity,
		},
		Output: Output{
			SampleRate:      defaultSampleRate,
			Channels:        defaultChannels,
			FramesPerBuffer: defaultFramesPerBuffer,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
