// SPDX-License-Identifier: EPL-2.0

package chunker

import (
	"errors"
	"io"

	"github.com/ik5/chunkplay/formats/wav"
)

// minPCMBlock is the smallest PCM payload of a complete mode fragment.
const minPCMBlock = 1024

// unknownSize is the data length streaming producers write when they do not
// know it yet.
const unknownSize = 0xFFFFFFFF

// WAV cuts a RIFF/WAVE stream on sample frame boundaries.
type WAV struct {
	r      io.Reader
	size   int
	mode   Mode
	header wav.Header
	left   int64 // PCM bytes still to read, -1 when unbounded
	sent   bool
	buf    []byte
	err    error
}

func NewWAV(r io.Reader, blockSize int, mode Mode) *WAV {
	return &WAV{r: r, size: max(blockSize, 1), mode: mode}
}

// Header returns the parsed container header. It is zero until the first
// call to Next.
func (c *WAV) Header() wav.Header { return c.header }

func (c *WAV) Next() ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}

	if c.header.Raw == nil {
		h, err := wav.ReadHeader(c.r)
		if err != nil {
			c.err = err
			return nil, err
		}
		c.header = h
		c.left = int64(h.DataSize)
		if h.DataSize == unknownSize || h.DataSize == 0 {
			c.left = -1
		}
	}

	if c.left == 0 {
		c.err = io.EOF
		return nil, io.EOF
	}

	readSize := c.blockLen()
	if c.left > 0 {
		readSize = int(min(int64(readSize), c.left))
	}
	if cap(c.buf) < readSize {
		c.buf = make([]byte, readSize)
	}

	n, err := io.ReadFull(c.r, c.buf[:readSize])
	switch {
	case err == nil:
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		c.err = io.EOF
	default:
		c.err = err
		return nil, err
	}
	if n == 0 {
		return nil, io.EOF
	}
	if c.left > 0 {
		c.left -= int64(n)
	}

	pcm := c.buf[:n]
	if c.mode == ModeComplete || !c.sent {
		c.sent = true
		return c.header.Wrap(pcm), nil
	}
	return append([]byte(nil), pcm...), nil
}

// blockLen is the PCM length of the next fragment, rounded down to whole
// sample frames.
func (c *WAV) blockLen() int {
	size := c.size
	if c.mode == ModeComplete {
		size -= len(c.header.Raw)
		if size < minPCMBlock {
			size = minPCMBlock
		}
	}

	if align := c.header.BlockAlign; align > 0 && size >= align {
		size -= size % align
	}
	return size
}
