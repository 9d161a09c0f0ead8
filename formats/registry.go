// SPDX-License-Identifier: EPL-2.0

// Package formats wires every bundled codec into an audio.Registry.
package formats

import (
	"github.com/ik5/chunkplay/audio"
	"github.com/ik5/chunkplay/formats/aiff"
	"github.com/ik5/chunkplay/formats/mp3"
	"github.com/ik5/chunkplay/formats/vorbis"
	"github.com/ik5/chunkplay/formats/wav"
)

// Format keys accepted by NewRegistry's registry.
const (
	MP3  = "mp3"
	WAV  = "wav"
	OGG  = "ogg"
	AIFF = "aiff"
)

// NewRegistry returns a registry with the mp3, wav, ogg and aiff decoders.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register(MP3, mp3.Decoder{})
	r.Register(WAV, wav.Decoder{})
	r.Register(OGG, vorbis.Decoder{})
	r.Register(AIFF, aiff.Decoder{})

	return r
}

// ForExtension maps a file extension, with or without the leading dot, to a
// format key.
func ForExtension(ext string) (string, bool) {
	switch ext {
	case ".mp3", "mp3":
		return MP3, true
	case ".wav", "wav", ".wave", "wave":
		return WAV, true
	case ".ogg", "ogg", ".oga", "oga":
		return OGG, true
	case ".aif", "aif", ".aiff", "aiff":
		return AIFF, true
	default:
		return "", false
	}
}
