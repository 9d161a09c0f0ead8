// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	riffHeaderSize = 12
	subChunkHeader = 8

	maxChunkSize  = 1 << 20
	maxHeaderSize = 8 << 20

	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// Header is everything in a RIFF/WAVE stream before the first PCM byte:
// the outer RIFF header, every sub-chunk preceding data, and the 8 byte
// data sub-chunk header itself.
type Header struct {
	Raw []byte

	AudioFormat   uint16
	Channels      int
	SampleRate    int
	BitsPerSample int
	BlockAlign    int

	// DataSize is the data length declared by the stream, which streaming
	// producers often leave as a placeholder.
	DataSize uint32
}

// NewHeader returns a canonical 44 byte PCM header.
func NewHeader(sampleRate, channels, bitsPerSample int, dataSize uint32) Header {
	blockAlign := channels * bitsPerSample / 8

	raw := make([]byte, 44)
	copy(raw[0:4], "RIFF")
	binary.LittleEndian.PutUint32(raw[4:8], 36+dataSize)
	copy(raw[8:12], "WAVE")
	copy(raw[12:16], "fmt ")
	binary.LittleEndian.PutUint32(raw[16:20], 16)
	binary.LittleEndian.PutUint16(raw[20:22], formatPCM)
	binary.LittleEndian.PutUint16(raw[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(raw[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(raw[28:32], uint32(sampleRate*blockAlign))
	binary.LittleEndian.PutUint16(raw[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(raw[34:36], uint16(bitsPerSample))
	copy(raw[36:40], "data")
	binary.LittleEndian.PutUint32(raw[40:44], dataSize)

	return Header{
		Raw:           raw,
		AudioFormat:   formatPCM,
		Channels:      channels,
		SampleRate:    sampleRate,
		BitsPerSample: bitsPerSample,
		BlockAlign:    blockAlign,
		DataSize:      dataSize,
	}
}

// ReadHeader consumes r up to and including the data sub-chunk header.
// Odd sized sub-chunks are followed by a pad byte which is kept in Raw.
// Sub-chunks before data are limited to 1 MiB each and the whole header to 8 MiB.
func ReadHeader(r io.Reader) (Header, error) {
	return readHeader(r, maxChunkSize)
}

func readHeader(r io.Reader, chunkLimit int64) (Header, error) {
	var h Header

	buf := new(bytes.Buffer)
	if _, err := io.CopyN(buf, r, riffHeaderSize); err != nil {
		return h, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}
	outer := buf.Bytes()
	if !bytes.Equal(outer[0:4], []byte("RIFF")) || !bytes.Equal(outer[8:12], []byte("WAVE")) {
		return h, ErrNotWavFile
	}

	for {
		start := buf.Len()
		if _, err := io.CopyN(buf, r, subChunkHeader); err != nil {
			return h, fmt.Errorf("%w: reading sub-chunk header: %w", ErrUnsupportedWavLayout, err)
		}
		tag := string(buf.Bytes()[start : start+4])
		size := binary.LittleEndian.Uint32(buf.Bytes()[start+4:])

		if tag == "data" {
			h.Raw = buf.Bytes()
			h.DataSize = size
			return h, nil
		}

		if int64(size) > chunkLimit {
			return h, fmt.Errorf("%w: %q is %d bytes, limit %d", ErrChunkTooLarge, tag, size, chunkLimit)
		}
		padded := int64(size) + int64(size&1)
		if int64(buf.Len())+padded+subChunkHeader > maxHeaderSize {
			return h, fmt.Errorf("%w: %q ends past %d bytes", ErrHeaderTooLarge, tag, maxHeaderSize)
		}

		payloadAt := buf.Len()
		if _, err := io.CopyN(buf, r, padded); err != nil {
			return h, fmt.Errorf("%w: reading %q: %w", ErrUnsupportedWavLayout, tag, err)
		}
		if tag == "fmt " && size >= 16 {
			h.parseFormat(buf.Bytes()[payloadAt:])
		}
	}
}

func (h *Header) parseFormat(p []byte) {
	h.AudioFormat = binary.LittleEndian.Uint16(p[0:2])
	h.Channels = int(binary.LittleEndian.Uint16(p[2:4]))
	h.SampleRate = int(binary.LittleEndian.Uint32(p[4:8]))
	h.BlockAlign = int(binary.LittleEndian.Uint16(p[12:14]))
	h.BitsPerSample = int(binary.LittleEndian.Uint16(p[14:16]))
}

// Wrap returns a new container holding payload behind a copy of the header,
// with the RIFF and data sizes rewritten for payload.
func (h Header) Wrap(payload []byte) []byte {
	n := len(h.Raw)
	out := make([]byte, n+len(payload))
	copy(out, h.Raw)
	copy(out[n:], payload)

	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))
	binary.LittleEndian.PutUint32(out[n-4:n], uint32(len(payload)))

	return out
}
