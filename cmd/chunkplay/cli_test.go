package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ik5/chunkplay/envelope"
	"github.com/ik5/chunkplay/formats/wav"
	"github.com/ik5/chunkplay/internal/audiotest"
	"github.com/ik5/chunkplay/session"
	"github.com/ik5/chunkplay/sink"
)

// runCLI executes the command tree with the given stdin and returns stdout
// and stderr.
func runCLI(t *testing.T, ctx *commandContext, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(ctx)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func fakeDevice(out sink.Output, err error) *commandContext {
	ctx := newCommandContext()
	ctx.openOutput = func(sink.Config) (sink.Output, error) { return out, err }
	return ctx
}

func writeWAVFile(t *testing.T, samples int) string {
	t.Helper()

	pcm := make([]int16, samples)
	for i := range pcm {
		pcm[i] = int16(1000 + i%1000)
	}
	data := append(audiotest.WAVHeader(8000, 1, 16, uint32(2*samples)), audiotest.PCM16(pcm...)...)

	path := filepath.Join(t.TempDir(), "take.wav")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	return path
}

func TestChunkThenPlay(t *testing.T) {
	t.Parallel()

	path := writeWAVFile(t, 4000)
	lines, _, err := runCLI(t, newCommandContext(), "", "chunk", "-b", "2048", path)
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}
	if n := strings.Count(lines, "\n"); n != 4 {
		t.Fatalf("chunk wrote %d lines, want 4", n)
	}

	out := &audiotest.Output{}
	_, stderr, err := runCLI(t, fakeDevice(out, nil), lines, "--playback", "wav", "-v")
	if err != nil {
		t.Fatalf("play: %v\n%s", err, stderr)
	}

	if !out.Closed() {
		t.Error("output device was not closed")
	}
	nonZero := 0
	for _, s := range out.Samples() {
		if s != 0 {
			nonZero++
		}
	}
	if nonZero == 0 {
		t.Error("nothing audible reached the output device")
	}
	if !strings.Contains(stderr, "Fragments played") {
		t.Errorf("verbose run printed no summary:\n%s", stderr)
	}
}

func TestChunkCompleteModeWithGzip(t *testing.T) {
	t.Parallel()

	path := writeWAVFile(t, 1500)
	lines, _, err := runCLI(t, newCommandContext(), "", "chunk", "--mode", "complete", "--gzip-level", "6", "-b", "1068", path)
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}

	dec := envelope.Decoder{Gzip: true}
	var total int
	for _, line := range strings.Split(strings.TrimSpace(lines), "\n") {
		fragment, err := dec.Decode(line)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		h, err := wav.ReadHeader(bytes.NewReader(fragment))
		if err != nil {
			t.Fatalf("fragment is not a complete WAV: %v", err)
		}
		if int(h.DataSize) != len(fragment)-len(h.Raw) {
			t.Errorf("data size %d, want %d", h.DataSize, len(fragment)-len(h.Raw))
		}
		total += int(h.DataSize)
	}
	if total != 3000 {
		t.Errorf("fragments carry %d PCM bytes, want 3000", total)
	}
}

func TestChunkRejectsGzipForMP3(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(path, audiotest.MP3Frames(4), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, newCommandContext(), "", "chunk", "--gzip-level", "1", path); err == nil {
		t.Fatal("expected gzip on mp3 input to be rejected")
	}
}

func TestChunkTranscodesMP3ToWAV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(path, audiotest.MP3Frames(8), 0o600); err != nil {
		t.Fatal(err)
	}

	lines, _, err := runCLI(t, newCommandContext(), "", "chunk", "--transcode-rate", "8000", path)
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}

	first, _, _ := strings.Cut(lines, "\n")
	fragment, err := envelope.Decoder{}.Decode(first)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	h, err := wav.ReadHeader(bytes.NewReader(fragment))
	if err != nil {
		t.Fatalf("first fragment is not WAV: %v", err)
	}
	if h.SampleRate != 8000 || h.Channels != 1 || h.BitsPerSample != 16 {
		t.Errorf("header = %d Hz, %d ch, %d bit; want 8000 Hz mono 16 bit", h.SampleRate, h.Channels, h.BitsPerSample)
	}
}

func TestPlaySkipsBadLines(t *testing.T) {
	t.Parallel()

	var good bytes.Buffer
	if err := (envelope.Encoder{}).Encode(&good, audiotest.MP3Frames(3)); err != nil {
		t.Fatal(err)
	}
	input := good.String() + "garbage\n\n" + good.String()

	out := &audiotest.Output{}
	_, stderr, err := runCLI(t, fakeDevice(out, nil), input, "play", "--log-format", "json")
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if !strings.Contains(stderr, `"kind":"malformed_envelope"`) {
		t.Errorf("malformed line was not logged:\n%s", stderr)
	}
	if strings.Contains(stderr, "Session summary") {
		t.Error("summary printed without --verbose")
	}
}

func TestPlayDeviceUnavailable(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, fakeDevice(nil, sink.ErrDeviceUnavailable), "", "play")
	if !errors.Is(err, sink.ErrDeviceUnavailable) {
		t.Fatalf("play error = %v, want ErrDeviceUnavailable", err)
	}
}

func TestPlayRejectsInvalidFlags(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{
		{"--playback", "flac"},
		{"--channels", "6"},
		{"--buffer", "0"},
	} {
		if _, _, err := runCLI(t, fakeDevice(&audiotest.Output{}, nil), "", args...); err == nil {
			t.Errorf("args %v: expected validation error", args)
		}
	}
}

func TestConfigShow(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "chunkplay.toml")
	if err := os.WriteFile(cfgPath, []byte("[playback]\nformat = \"wav\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := runCLI(t, newCommandContext(), "", "config", "show", "--config", cfgPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(stdout, "format = 'wav'") && !strings.Contains(stdout, `format = "wav"`) {
		t.Errorf("config show did not reflect the file:\n%s", stdout)
	}

	stdout, _, err = runCLI(t, newCommandContext(), "", "config", "validate", "--config", cfgPath)
	if err != nil || !strings.Contains(stdout, "valid") {
		t.Errorf("config validate = %q, %v", stdout, err)
	}
}

func TestRenderSummary(t *testing.T) {
	t.Parallel()

	got := renderSummary(session.Stats{Lines: 7, Parsed: 5, Decoded: 4, Played: 3, Malformed: 2})
	for _, want := range []string{"Session summary", "Lines read", "7", "Fragments played", "3"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}
