// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ik5/chunkplay/internal/audiotest"
)

func TestReassembler_SplicesCapturedHeader(t *testing.T) {
	t.Parallel()

	header := audiotest.WAVHeader(8000, 1, 16, 0xFFFFFFFF)
	first := append(bytes.Clone(header), audiotest.PCM16(1, 2)...)
	second := audiotest.PCM16(3, 4, 5)

	r := NewReassembler()
	if r.State() != Uncaptured {
		t.Fatalf("State() = %v, want uncaptured", r.State())
	}

	out, err := r.Process(first)
	if err != nil {
		t.Fatalf("Process(first) error = %v", err)
	}
	if !bytes.Equal(out, first) {
		t.Error("first fragment was modified")
	}
	if r.State() != Captured {
		t.Fatalf("State() = %v, want captured", r.State())
	}

	out, err = r.Process(second)
	if err != nil {
		t.Fatalf("Process(second) error = %v", err)
	}

	m := len(second)
	if len(out) != len(header)+m {
		t.Fatalf("container is %d bytes, want %d", len(out), len(header)+m)
	}
	if got := binary.LittleEndian.Uint32(out[4:8]); got != uint32(len(header)+m-8) {
		t.Errorf("RIFF size = %d, want %d", got, len(header)+m-8)
	}
	if got := binary.LittleEndian.Uint32(out[40:44]); got != uint32(m) {
		t.Errorf("data size = %d, want %d", got, m)
	}
	if !bytes.Equal(out[len(header):], second) {
		t.Error("payload not appended verbatim")
	}

	_, _, samples := readAll(t, out)
	if len(samples) != 3 {
		t.Errorf("decoded %d samples, want 3", len(samples))
	}
}

func TestReassembler_KeepsExtraChunksAndPadding(t *testing.T) {
	t.Parallel()

	header := audiotest.WAVHeaderWithChunks(22050, 2, 16, 4,
		append([]byte("LIST"), []byte("INFOx")...),
		append([]byte("JUNK"), 9, 9, 9),
	)
	first := append(bytes.Clone(header), audiotest.PCM16(7, 8)...)

	r := NewReassembler()
	if _, err := r.Process(first); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	got, ok := r.Header()
	if !ok {
		t.Fatal("Header() ok = false after capture")
	}
	// 12 outer + 24 fmt + (8+5+1) LIST + (8+3+1) JUNK + 8 data
	if len(got) != 70 || !bytes.Equal(got, header) {
		t.Errorf("Header() = %d bytes, want the %d byte source header", len(got), len(header))
	}

	got[0] = 'X'
	if again, _ := r.Header(); again[0] != 'R' {
		t.Error("Header() exposes internal state")
	}

	out, _ := r.Process(audiotest.PCM16(1))
	if got := binary.LittleEndian.Uint32(out[len(header)-4:]); got != 2 {
		t.Errorf("data size = %d, want 2", got)
	}
}

func TestReassembler_CapturesLargeMetadataChunk(t *testing.T) {
	t.Parallel()

	bext := append([]byte("bext"), make([]byte, 2<<20)...)
	header := audiotest.WAVHeaderWithChunks(8000, 1, 16, 4, bext)
	first := append(bytes.Clone(header), audiotest.PCM16(1, 2)...)

	if _, err := ReadHeader(bytes.NewReader(first)); !errors.Is(err, ErrChunkTooLarge) {
		t.Fatalf("ReadHeader() error = %v, want ErrChunkTooLarge", err)
	}

	r := NewReassembler()
	if _, err := r.Process(first); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got, ok := r.Header(); !ok || len(got) != len(header) {
		t.Errorf("Header() = %d bytes, %v; want %d bytes", len(got), ok, len(header))
	}
}

func TestReassembler_CaptureFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		first []byte
		cause error
	}{
		{"not riff", []byte("raw pcm without any header"), ErrNotWavFile},
		{"short", []byte("RIFF"), ErrNotWavFile},
		{"data missing", audiotest.WAVHeader(8000, 1, 16, 0)[:36], ErrUnsupportedWavLayout},
		{
			"oversized chunk",
			append(audiotest.WAVHeader(8000, 1, 16, 0)[:36], 'b', 'i', 'g', ' ', 0, 0, 0, 1),
			ErrChunkTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := NewReassembler()
			out, err := r.Process(tt.first)
			if !errors.Is(err, ErrContainerCaptureFailure) || !errors.Is(err, tt.cause) {
				t.Fatalf("Process() error = %v, want capture failure caused by %v", err, tt.cause)
			}
			if !bytes.Equal(out, tt.first) {
				t.Error("failed fragment was modified")
			}
			if r.State() != Passthrough {
				t.Errorf("State() = %v, want passthrough", r.State())
			}

			// Even a valid header later on is not captured.
			later := append(audiotest.WAVHeader(8000, 1, 16, 2), 0, 0)
			out, err = r.Process(later)
			if err != nil || !bytes.Equal(out, later) {
				t.Errorf("Process(later) = (%d bytes, %v), want passthrough", len(out), err)
			}
			if _, ok := r.Header(); ok {
				t.Error("Header() ok = true in passthrough")
			}
		})
	}
}

func TestReassembler_FragmentsDoNotAlias(t *testing.T) {
	t.Parallel()

	r := NewReassembler()
	_, _ = r.Process(audiotest.WAVHeader(8000, 1, 16, 0))

	a, _ := r.Process(audiotest.PCM16(1, 1))
	b, _ := r.Process(audiotest.PCM16(2))

	if got := binary.LittleEndian.Uint32(a[40:44]); got != 4 {
		t.Errorf("first container data size = %d after a later splice, want 4", got)
	}
	if got := binary.LittleEndian.Uint32(b[40:44]); got != 2 {
		t.Errorf("second container data size = %d, want 2", got)
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()

	for state, want := range map[State]string{
		Uncaptured:  "uncaptured",
		Captured:    "captured",
		Passthrough: "passthrough",
		State(9):    "State(9)",
	} {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}
