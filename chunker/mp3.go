// SPDX-License-Identifier: EPL-2.0

package chunker

import (
	"bufio"
	"errors"
	"io"
)

// MaxReservoir is the largest Layer III bit reservoir, in bytes.
const MaxReservoir = 511

var (
	mpeg1Bitrates = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}
	mpeg2Bitrates = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0}

	mpeg1Rates  = [4]int{44100, 48000, 32000, 0}
	mpeg2Rates  = [4]int{22050, 24000, 16000, 0}
	mpeg25Rates = [4]int{11025, 12000, 8000, 0}
)

// FrameLength returns the size in bytes of the MPEG-1, 2 or 2.5 Layer III
// frame whose 4 byte header is hdr.
func FrameLength(hdr []byte) (int, error) {
	if len(hdr) < 4 || hdr[0] != 0xFF || hdr[1]&0xE0 != 0xE0 {
		return 0, ErrInvalidFrame
	}

	version := (hdr[1] >> 3) & 0x03
	layer := (hdr[1] >> 1) & 0x03
	bitrateIdx := hdr[2] >> 4
	rateIdx := (hdr[2] >> 2) & 0x03
	padding := int((hdr[2] >> 1) & 0x01)

	// version 1 is reserved; layer 1 encodes Layer III.
	if version == 1 || layer != 1 || hdr[3]&0x03 == 2 {
		return 0, ErrInvalidFrame
	}

	var bitrate, rate, slots int
	switch version {
	case 3:
		bitrate, rate, slots = mpeg1Bitrates[bitrateIdx], mpeg1Rates[rateIdx], 144
	case 2:
		bitrate, rate, slots = mpeg2Bitrates[bitrateIdx], mpeg2Rates[rateIdx], 72
	default:
		bitrate, rate, slots = mpeg2Bitrates[bitrateIdx], mpeg25Rates[rateIdx], 72
	}
	if bitrate == 0 || rate == 0 {
		return 0, ErrInvalidFrame
	}

	return slots*bitrate*1000/rate + padding, nil
}

// MP3 cuts an MP3 stream on frame boundaries. Bytes between frames, ID3 tags
// included, are dropped. Each fragment after the first starts with the last
// reservoir bytes of the previous one so frames borrowing from the bit
// reservoir can still be decoded; decoders resync on the first full frame.
type MP3 struct {
	r         *bufio.Reader
	size      int
	reservoir int
	tail      []byte
	hdr       [4]byte
	err       error
}

func NewMP3(r io.Reader, blockSize, reservoir int) *MP3 {
	return &MP3{
		r:         bufio.NewReader(r),
		size:      max(blockSize, 1),
		reservoir: min(max(reservoir, 0), MaxReservoir),
	}
}

func (c *MP3) Next() ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}

	chunk := append([]byte(nil), c.tail...)
	carried := len(chunk)

	for len(chunk) < c.size {
		frameLen, err := c.sync()
		if err == nil {
			frame := make([]byte, frameLen)
			copy(frame, c.hdr[:])
			_, err = io.ReadFull(c.r, frame[4:])
			if err == nil {
				chunk = append(chunk, frame...)
				continue
			}
		}

		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = io.EOF
		}
		c.err = err
		if len(chunk) > carried {
			break
		}
		return nil, err
	}

	c.keepTail(chunk)
	return chunk, nil
}

// sync advances to the next valid frame header, leaving it in c.hdr.
func (c *MP3) sync() (int, error) {
	if _, err := io.ReadFull(c.r, c.hdr[:]); err != nil {
		return 0, err
	}
	for {
		if n, err := FrameLength(c.hdr[:]); err == nil {
			return n, nil
		}

		b, err := c.r.ReadByte()
		if err != nil {
			return 0, err
		}
		copy(c.hdr[:], c.hdr[1:])
		c.hdr[3] = b
	}
}

func (c *MP3) keepTail(chunk []byte) {
	n := min(len(chunk), c.reservoir)
	c.tail = append(c.tail[:0], chunk[len(chunk)-n:]...)
}
