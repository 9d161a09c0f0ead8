package aiff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/aiff"

	"github.com/ik5/chunkplay/audio"
	"github.com/ik5/chunkplay/formats/internal/intpcm"
)

// Decoder reads big-endian AIFF at 8, 16, 24 or 32 bits. AIFF samples are
// signed at every depth.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	if !intpcm.Supported(int(dec.BitDepth)) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	format := dec.Format()
	if format == nil {
		return nil, ErrUnsupportedAiffLayout
	}

	layout := intpcm.Layout{
		SampleRate: format.SampleRate,
		Channels:   format.NumChannels,
		BitDepth:   int(dec.BitDepth),
	}
	if !layout.Playable() {
		return nil, fmt.Errorf("%w: %d Hz, %d channels", ErrUnsupportedAiffLayout, layout.SampleRate, layout.Channels)
	}

	return intpcm.New(dec, layout), nil
}
