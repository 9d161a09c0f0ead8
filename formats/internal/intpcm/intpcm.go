// SPDX-License-Identifier: EPL-2.0

// Package intpcm exposes go-audio integer PCM decoders as audio.Source.
package intpcm

import (
	"io"

	goaudio "github.com/go-audio/audio"
)

// Reader is the PCM half of the go-audio wav and aiff decoders.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Layout describes the samples a Reader yields.
type Layout struct {
	SampleRate int
	Channels   int
	BitDepth   int
	// Unsigned marks 8-bit samples stored with a bias of 128, as in WAV.
	Unsigned bool
}

// Playable reports whether the layout has a positive sample rate and at
// least one channel. Sources with any other layout never reach EOF once
// resampled.
func (l Layout) Playable() bool {
	return l.SampleRate > 0 && l.Channels > 0
}

// Supported reports whether bitDepth can be normalised.
func Supported(bitDepth int) bool {
	switch bitDepth {
	case 8, 16, 24, 32:
		return true
	default:
		return false
	}
}

// Source normalises integer samples to [-1, 1).
type Source struct {
	r      Reader
	layout Layout
	scale  float32
	bias   int
	buf    *goaudio.IntBuffer
}

// New returns a source over r. layout.BitDepth must be Supported.
func New(r Reader, layout Layout) *Source {
	s := &Source{
		r:      r,
		layout: layout,
		scale:  float32(int64(1) << (layout.BitDepth - 1)),
	}
	if layout.Unsigned && layout.BitDepth == 8 {
		s.bias = 128
	}
	return s
}

func (s *Source) SampleRate() int { return s.layout.SampleRate }
func (s *Source) Channels() int   { return s.layout.Channels }
func (s *Source) Close() error    { return nil }
func (s *Source) BufSize() int {
	if s.buf != nil {
		return cap(s.buf.Data)
	}
	return 4096
}

// ReadSamples returns io.EOF together with the last samples when the reader
// comes up short.
func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.buf == nil || cap(s.buf.Data) < len(dst) {
		s.buf = &goaudio.IntBuffer{
			Data: make([]int, len(dst)),
			Format: &goaudio.Format{
				NumChannels: s.layout.Channels,
				SampleRate:  s.layout.SampleRate,
			},
			SourceBitDepth: s.layout.BitDepth,
		}
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.r.PCMBuffer(s.buf)
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	for i, v := range s.buf.Data[:n] {
		dst[i] = float32(v-s.bias) / s.scale
	}

	if err == nil && n < len(dst) {
		err = io.EOF
	}
	return n, err
}
