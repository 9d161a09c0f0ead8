// SPDX-License-Identifier: EPL-2.0

package chunker

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"slices"
	"testing"

	"github.com/ik5/chunkplay/formats/wav"
	"github.com/ik5/chunkplay/internal/audiotest"
)

// ramp returns n 16-bit samples 100, 200, ...
func ramp(n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(100 * (i + 1))
	}
	return out
}

func decodeWAV(t *testing.T, b []byte) []int16 {
	t.Helper()

	src, err := wav.Decoder{}.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	var out []int16
	buf := make([]float32, 256)
	for {
		n, err := src.ReadSamples(buf)
		for _, v := range buf[:n] {
			out = append(out, int16(math.Round(float64(v)*32768)))
		}
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
}

func TestWAV_StreamingRoundTrip(t *testing.T) {
	t.Parallel()

	samples := ramp(10)
	input := append(audiotest.WAVHeader(8000, 1, 16, 20), audiotest.PCM16(samples...)...)

	chunks := collect(t, NewWAV(bytes.NewReader(input), 7, ModeStreaming))

	// 7 bytes round down to 3 whole frames.
	if got, want := lengths(chunks), []int{44 + 6, 6, 6, 2}; !slices.Equal(got, want) {
		t.Fatalf("chunk lengths = %v, want %v", got, want)
	}

	r := wav.NewReassembler()
	var got []int16
	for i, chunk := range chunks {
		fragment, err := r.Process(chunk)
		if err != nil {
			t.Fatalf("Process(chunk %d) error = %v", i, err)
		}
		got = append(got, decodeWAV(t, fragment)...)
	}

	if !slices.Equal(got, samples) {
		t.Errorf("round trip = %v, want %v", got, samples)
	}
}

func TestWAV_CompleteFragmentsStandAlone(t *testing.T) {
	t.Parallel()

	samples := ramp(1500)
	input := append(audiotest.WAVHeader(16000, 1, 16, 3000), audiotest.PCM16(samples...)...)

	// Blocks smaller than the header still carry minPCMBlock bytes of PCM.
	chunks := collect(t, NewWAV(bytes.NewReader(input), 100, ModeComplete))

	if got, want := lengths(chunks), []int{44 + 1024, 44 + 1024, 44 + 952}; !slices.Equal(got, want) {
		t.Fatalf("chunk lengths = %v, want %v", got, want)
	}

	var got []int16
	for _, chunk := range chunks {
		if size := binary.LittleEndian.Uint32(chunk[40:44]); int(size) != len(chunk)-44 {
			t.Errorf("data size field = %d, want %d", size, len(chunk)-44)
		}
		if size := binary.LittleEndian.Uint32(chunk[4:8]); int(size) != len(chunk)-8 {
			t.Errorf("RIFF size field = %d, want %d", size, len(chunk)-8)
		}
		got = append(got, decodeWAV(t, chunk)...)
	}
	if !slices.Equal(got, samples) {
		t.Error("complete fragments do not reproduce the input")
	}
}

func TestWAV_StopsAtDeclaredDataSize(t *testing.T) {
	t.Parallel()

	input := append(audiotest.WAVHeader(8000, 1, 16, 4), audiotest.PCM16(1, 2, 3, 4)...)
	input = append(input, "LIST trailing metadata"...)

	chunks := collect(t, NewWAV(bytes.NewReader(input), 64, ModeStreaming))
	if got, want := lengths(chunks), []int{44 + 4}; !slices.Equal(got, want) {
		t.Errorf("chunk lengths = %v, want %v", got, want)
	}
}

func TestWAV_UnknownDataSizeReadsToEOF(t *testing.T) {
	t.Parallel()

	input := append(audiotest.WAVHeader(8000, 2, 16, 0xFFFFFFFF), audiotest.PCM16(ramp(12)...)...)

	c := NewWAV(bytes.NewReader(input), 16, ModeStreaming)
	chunks := collect(t, c)

	if got, want := lengths(chunks), []int{44 + 16, 8}; !slices.Equal(got, want) {
		t.Errorf("chunk lengths = %v, want %v", got, want)
	}
	if h := c.Header(); h.Channels != 2 || h.BlockAlign != 4 {
		t.Errorf("Header() = %+v, want 2 channels, block align 4", h)
	}
}

func TestWAV_RejectsNonWAV(t *testing.T) {
	t.Parallel()

	c := NewWAV(bytes.NewReader([]byte("OggS not a riff stream at all")), 64, ModeStreaming)

	for range 2 {
		if _, err := c.Next(); !errors.Is(err, wav.ErrNotWavFile) {
			t.Fatalf("Next() error = %v, want ErrNotWavFile", err)
		}
	}
}
