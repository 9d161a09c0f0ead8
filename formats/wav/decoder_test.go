package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/chunkplay/internal/audiotest"
)

func readAll(t *testing.T, data []byte) (rate, channels int, samples []float32) {
	t.Helper()

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	buf := make([]float32, 3)
	for {
		n, err := src.ReadSamples(buf)
		samples = append(samples, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	return src.SampleRate(), src.Channels(), samples
}

func TestDecoder_Decode(t *testing.T) {
	t.Parallel()

	pcm16 := audiotest.PCM16(0, 16384, -16384, 32767)
	pcm24 := []byte{0x00, 0x00, 0x40, 0x00, 0x00, 0xC0}

	tests := []struct {
		name     string
		data     []byte
		rate     int
		channels int
		want     []float32
	}{
		{
			name:     "16-bit mono",
			data:     append(audiotest.WAVHeader(8000, 1, 16, 8), pcm16...),
			rate:     8000,
			channels: 1,
			want:     []float32{0, 0.5, -0.5, 32767.0 / 32768.0},
		},
		{
			name:     "16-bit stereo",
			data:     append(audiotest.WAVHeader(44100, 2, 16, 8), pcm16...),
			rate:     44100,
			channels: 2,
			want:     []float32{0, 0.5, -0.5, 32767.0 / 32768.0},
		},
		{
			name:     "8-bit unsigned",
			data:     append(audiotest.WAVHeader(11025, 1, 8, 4), 0, 128, 192, 64),
			rate:     11025,
			channels: 1,
			want:     []float32{-1, 0, 0.5, -0.5},
		},
		{
			name:     "24-bit",
			data:     append(audiotest.WAVHeader(48000, 1, 24, 6), pcm24...),
			rate:     48000,
			channels: 1,
			want:     []float32{0.5, -0.5},
		},
		{
			name: "odd sized chunk before data",
			data: append(audiotest.WAVHeaderWithChunks(16000, 1, 16, 8,
				append([]byte("JUNK"), 1, 2, 3)), pcm16...),
			rate:     16000,
			channels: 1,
			want:     []float32{0, 0.5, -0.5, 32767.0 / 32768.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rate, channels, got := readAll(t, tt.data)
			if rate != tt.rate || channels != tt.channels {
				t.Errorf("format = %d Hz/%d ch, want %d Hz/%d ch", rate, channels, tt.rate, tt.channels)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d samples, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(float64(got[i]-tt.want[i])) > 1e-6 {
					t.Errorf("sample %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecoder_Rejects(t *testing.T) {
	t.Parallel()

	float32Header := audiotest.WAVHeader(8000, 1, 32, 4)
	binary.LittleEndian.PutUint16(float32Header[20:22], 3)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrNotWavFile},
		{"text", []byte("definitely not a riff stream"), ErrNotWavFile},
		{"float samples", append(float32Header, 0, 0, 0, 0), ErrUnsupportedEncoding},
		{"12-bit", append(audiotest.WAVHeader(8000, 1, 12, 2), 0, 0), ErrUnsupportedBitDepth},
		{"no data chunk", audiotest.WAVHeader(8000, 1, 16, 0)[:36], ErrNoPCMData},
		{"zero sample rate", append(audiotest.WAVHeader(0, 1, 16, 4), audiotest.PCM16(100, 200)...), ErrUnsupportedWavLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecoder_NonSeekableReader(t *testing.T) {
	t.Parallel()

	data := append(audiotest.WAVHeader(8000, 1, 16, 4), audiotest.PCM16(100, -100)...)
	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", src.SampleRate())
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	pcm := make([]byte, 1<<16)
	data := append(audiotest.WAVHeader(44100, 2, 16, uint32(len(pcm))), pcm...)
	buf := make([]float32, 4096)

	b.ResetTimer()
	for range b.N {
		src, err := Decoder{}.Decode(bytes.NewReader(data))
		if err != nil {
			b.Fatal(err)
		}
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
