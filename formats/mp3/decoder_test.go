// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/chunkplay/internal/audiotest"
)

// mockMP3Reader serves 16-bit samples the way gomp3.Decoder does.
type mockMP3Reader struct {
	sampleRate int
	samples    []int16
	offset     int
	err        error
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	count := min(len(buf)/2, len(m.samples)-m.offset)
	for i := range count {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(m.samples[m.offset+i]))
	}
	m.offset += count

	return count * 2, nil
}

func TestDecoder_RejectsNonMP3(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"text", []byte("This is not MP3 data")},
		{"riff header", audiotest.WAVHeader(8000, 1, 16, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if err == nil {
				t.Fatal("Decode() error = nil, want error")
			}
			if errors.Is(err, io.EOF) && !errors.Is(err, ErrNoFrames) {
				t.Errorf("Decode() error = %v, bare EOF leaked", err)
			}
		})
	}
}

func TestDecoder_SilentFrames(t *testing.T) {
	t.Parallel()

	src, err := Decoder{}.Decode(bytes.NewReader(audiotest.MP3Frames(4)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	if src.SampleRate() != 44100 || src.Channels() != 2 {
		t.Fatalf("format = %d Hz/%d ch, want 44100 Hz/2 ch", src.SampleRate(), src.Channels())
	}

	total := 0
	buf := make([]float32, 1000)
	for {
		n, err := src.ReadSamples(buf)
		for _, v := range buf[:n] {
			if v != 0 {
				t.Fatalf("sample = %v, want silence", v)
			}
		}
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if total == 0 {
		t.Error("no samples decoded")
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	mock := &mockMP3Reader{sampleRate: 44100, samples: []int16{0, 32767, -32767, 16384}}
	src := &source{dec: mock, sampleRate: 44100, channels: 2}

	buf := make([]float32, 8)
	n, err := src.ReadSamples(buf)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 4 {
		t.Fatalf("ReadSamples() n = %d, want 4", n)
	}

	want := []float32{0, 1, -1, 16384.0 / 32767.0}
	for i, w := range want {
		if buf[i] != w {
			t.Errorf("sample %d = %v, want %v", i, buf[i], w)
		}
	}

	if n, err := src.ReadSamples(buf); n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() at end = (%d, %v), want (0, EOF)", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockMP3Reader{err: io.ErrUnexpectedEOF}, channels: 2}
	if _, err := src.ReadSamples(make([]float32, 4)); err != io.ErrUnexpectedEOF {
		t.Errorf("ReadSamples() error = %v, want ErrUnexpectedEOF", err)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]int16, 1<<16)
	buf := make([]float32, 4096)

	b.ResetTimer()
	for range b.N {
		src := &source{dec: &mockMP3Reader{sampleRate: 44100, samples: samples}, channels: 2}
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
