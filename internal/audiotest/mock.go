// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds synthetic sources and fixture builders shared by tests.
package audiotest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sync/atomic"
)

// MockSource generates frames from a waveform function.
// It implements audio.Source without importing it, to avoid cycles.
type MockSource struct {
	sampleRate int
	channels   int
	frames     int
	pos        int
	waveform   func(frame int, channel int) float32
	closed     atomic.Bool
}

// NewMockSource returns a source of frames frames produced by waveform.
func NewMockSource(sampleRate, channels, frames int, waveform func(frame int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		waveform:   waveform,
	}
}

func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewConstantSource(sampleRate, channels, frames, 0)
}

func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 {
		return value
	})
}

func NewSineSource(sampleRate, channels, frames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(frame int, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewRampSource emits frame/frames on every channel, handy for ordering checks.
func NewRampSource(sampleRate, channels, frames int) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(frame int, _ int) float32 {
		return float32(frame) / float32(frames)
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closed.Store(true)
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed.Load() }

// Rewind restarts generation from the first frame.
func (m *MockSource) Rewind() { m.pos = 0 }

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.pos >= m.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/m.channels, m.frames-m.pos)
	for f := range n {
		for c := range m.channels {
			dst[f*m.channels+c] = m.waveform(m.pos+f, c)
		}
	}
	m.pos += n

	if m.pos >= m.frames {
		return n * m.channels, io.EOF
	}
	return n * m.channels, nil
}

// ErrSourceBroken is returned by BrokenSource.
var ErrSourceBroken = errors.New("audiotest: broken source")

// BrokenSource fails on the first read.
type BrokenSource struct {
	Rate, Chans int
}

func (b BrokenSource) SampleRate() int                     { return b.Rate }
func (b BrokenSource) Channels() int                       { return b.Chans }
func (b BrokenSource) BufSize() int                        { return 0 }
func (b BrokenSource) Close() error                        { return nil }
func (b BrokenSource) ReadSamples([]float32) (int, error) { return 0, ErrSourceBroken }

// WAVHeader builds a canonical 44 byte PCM header. dataLen is written verbatim
// into the data sub-chunk size field.
func WAVHeader(sampleRate, channels, bitsPerSample int, dataLen uint32) []byte {
	return WAVHeaderWithChunks(sampleRate, channels, bitsPerSample, dataLen)
}

// WAVHeaderWithChunks builds a PCM header with extra sub-chunks between fmt and data.
// Each extra chunk is given as tag followed by payload; odd payloads get a pad byte.
func WAVHeaderWithChunks(sampleRate, channels, bitsPerSample int, dataLen uint32, extra ...[]byte) []byte {
	buf := new(bytes.Buffer)

	blockAlign := channels * bitsPerSample / 8
	body := new(bytes.Buffer)
	body.WriteString("fmt ")
	binary.Write(body, binary.LittleEndian, uint32(16))
	binary.Write(body, binary.LittleEndian, uint16(1))
	binary.Write(body, binary.LittleEndian, uint16(channels))
	binary.Write(body, binary.LittleEndian, uint32(sampleRate))
	binary.Write(body, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(body, binary.LittleEndian, uint16(blockAlign))
	binary.Write(body, binary.LittleEndian, uint16(bitsPerSample))

	for _, chunk := range extra {
		tag, payload := chunk[:4], chunk[4:]
		body.Write(tag)
		binary.Write(body, binary.LittleEndian, uint32(len(payload)))
		body.Write(payload)
		if len(payload)%2 == 1 {
			body.WriteByte(0)
		}
	}

	body.WriteString("data")
	binary.Write(body, binary.LittleEndian, dataLen)

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(4+body.Len())+dataLen)
	buf.WriteString("WAVE")
	buf.Write(body.Bytes())

	return buf.Bytes()
}

// PCM16 encodes samples as little-endian 16-bit PCM.
func PCM16(samples ...int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

// MP3Frames returns n silent MPEG-1 Layer III frames (128 kbps, 44.1 kHz,
// stereo, no CRC). Side info and main data are zero, which decodes to silence.
func MP3Frames(n int) []byte {
	const frameLen = 417 // 144 * 128000 / 44100
	out := make([]byte, 0, n*frameLen)
	for range n {
		frame := make([]byte, frameLen)
		frame[0], frame[1], frame[2], frame[3] = 0xFF, 0xFB, 0x90, 0x00
		out = append(out, frame...)
	}
	return out
}
