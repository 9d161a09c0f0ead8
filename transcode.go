package chunkplay

import (
	"fmt"
	"io"

	"github.com/ik5/chunkplay/audio"
	"github.com/ik5/chunkplay/formats/wav"
	"github.com/ik5/chunkplay/utils"
)

// ResampleToMono16 reads src to the end through a resampler and a mono mixer
// and returns the result as 16-bit PCM at targetRate.
//
// bufferSize is the float32 read size per iteration; 4096 is a sensible default.
func ResampleToMono16(src audio.Source, targetRate int, bufferSize int) ([]int16, int, error) {
	mono, err := audio.Adapt(src, targetRate, 1)
	if err != nil {
		return nil, targetRate, fmt.Errorf("%w", err)
	}

	pcm16 := make([]int16, 0, targetRate*2)
	buf := make([]float32, bufferSize)

	for {
		n, err := mono.ReadSamples(buf)
		if n > 0 {
			start := len(pcm16)
			pcm16 = append(pcm16, make([]int16, n)...)
			utils.ConvertToInt16(pcm16[start:], buf[:n])
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, targetRate, fmt.Errorf("%w", err)
		}
	}

	return pcm16, targetRate, nil
}

// TranscodeWAV16 decodes r as format with codecs and writes it to w as a mono
// 16-bit WAV at rate. It returns the number of samples written.
func TranscodeWAV16(w io.Writer, r io.Reader, format string, codecs *audio.Registry, rate int) (int, error) {
	dec, ok := codecs.Get(format)
	if !ok {
		return 0, fmt.Errorf("%w: %q", audio.ErrUnknownFormat, format)
	}

	src, err := dec.Decode(r)
	if err != nil {
		return 0, fmt.Errorf("decoding %s: %w", format, err)
	}
	defer src.Close()

	pcm16, rate, err := ResampleToMono16(src, rate, 4096)
	if err != nil {
		return 0, err
	}

	if err := wav.WriteWAV16(w, rate, pcm16); err != nil {
		return 0, err
	}

	return len(pcm16), nil
}
