// SPDX-License-Identifier: EPL-2.0

// Package chunker splits audio files into fragments that can each be played on
// their own, the producer side of a chunkplay stream.
package chunker

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultBlockSize is the target fragment size in bytes.
const DefaultBlockSize = 8192

// Chunker yields fragments until it returns io.EOF. Any other error is sticky.
type Chunker interface {
	Next() ([]byte, error)
}

// Input types accepted by New.
const (
	TypeMP3  = "mp3"
	TypeWAV  = "wav"
	TypeDumb = "dumb"
)

// Options configure New. Zero values pick defaults.
type Options struct {
	BlockSize int
	Mode      Mode
	// Reservoir is how many tail bytes of each MP3 fragment are repeated at
	// the start of the next one. Capped at MaxReservoir.
	Reservoir int
}

// New returns the chunker for typ. Only WAV input supports ModeComplete.
func New(typ string, r io.Reader, opts Options) (Chunker, error) {
	if opts.BlockSize <= 0 {
		opts.BlockSize = DefaultBlockSize
	}

	switch strings.ToLower(strings.TrimSpace(typ)) {
	case TypeMP3:
		if opts.Mode != ModeStreaming {
			return nil, fmt.Errorf("%w: %s for mp3", ErrUnsupportedMode, opts.Mode)
		}
		reservoir := opts.Reservoir
		if reservoir == 0 {
			reservoir = MaxReservoir
		}
		return NewMP3(r, opts.BlockSize, reservoir), nil

	case TypeWAV:
		return NewWAV(r, opts.BlockSize, opts.Mode), nil

	case TypeDumb:
		if opts.Mode != ModeStreaming {
			return nil, fmt.Errorf("%w: %s for dumb", ErrUnsupportedMode, opts.Mode)
		}
		return NewDumb(r, opts.BlockSize), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, typ)
	}
}

// DetectType guesses the input type from a file name, defaulting to mp3.
func DetectType(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.HasSuffix(name, ".wav"), strings.HasSuffix(name, ".wave"):
		return TypeWAV
	default:
		return TypeMP3
	}
}

// Dumb cuts its input into fixed size blocks with no regard for content.
type Dumb struct {
	r    io.Reader
	size int
	err  error
}

func NewDumb(r io.Reader, blockSize int) *Dumb {
	return &Dumb{r: r, size: max(blockSize, 1)}
}

func (c *Dumb) Next() ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}

	block := make([]byte, c.size)
	n, err := io.ReadFull(c.r, block)
	switch {
	case err == nil:
		return block, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		c.err = io.EOF
	default:
		c.err = err
		return nil, err
	}

	if n == 0 {
		return nil, io.EOF
	}
	return block[:n], nil
}
