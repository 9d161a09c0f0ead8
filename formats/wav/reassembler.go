// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
)

// State is the capture state of a Reassembler.
type State int

const (
	// Uncaptured means no fragment has been seen yet.
	Uncaptured State = iota
	// Captured means a header was taken from the first fragment and is
	// spliced onto every later one.
	Captured
	// Passthrough means the first fragment carried no usable header and every
	// fragment is returned as is.
	Passthrough
)

func (s State) String() string {
	switch s {
	case Uncaptured:
		return "uncaptured"
	case Captured:
		return "captured"
	case Passthrough:
		return "passthrough"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Reassembler turns a stream that sends its WAV header once, followed by raw
// PCM fragments, into a sequence of self-contained WAV files.
//
// A Reassembler is bound to one stream and is not safe for concurrent use.
type Reassembler struct {
	state  State
	header Header
}

func NewReassembler() *Reassembler {
	return &Reassembler{}
}

func (r *Reassembler) State() State { return r.state }

// Header returns a copy of the captured header bytes.
func (r *Reassembler) Header() ([]byte, bool) {
	if r.state != Captured {
		return nil, false
	}
	return bytes.Clone(r.header.Raw), true
}

// Process returns the container to decode for fragment. The first fragment is
// returned unchanged since it already holds its own header. When the header
// cannot be captured the error wraps ErrContainerCaptureFailure, the fragment
// is still returned, and the stream continues in passthrough.
func (r *Reassembler) Process(fragment []byte) ([]byte, error) {
	switch r.state {
	case Uncaptured:
		// Only the overall header bound applies here; metadata chunks such as
		// LIST or bext may exceed the per-chunk limit the chunker uses.
		h, err := readHeader(bytes.NewReader(fragment), maxHeaderSize)
		if err != nil {
			r.state = Passthrough
			return fragment, fmt.Errorf("%w: %w", ErrContainerCaptureFailure, err)
		}
		r.header = h
		r.state = Captured
		return fragment, nil

	case Captured:
		return r.header.Wrap(fragment), nil

	default:
		return fragment, nil
	}
}
