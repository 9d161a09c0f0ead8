// SPDX-License-Identifier: EPL-2.0

package chunker

import "errors"

var (
	// ErrUnsupportedType is returned by New for an unknown input type.
	ErrUnsupportedType = errors.New("unsupported input type")
	// ErrUnsupportedMode is returned for a mode the input type cannot honour.
	ErrUnsupportedMode = errors.New("unsupported chunking mode")
	// ErrInvalidFrame is returned by FrameLength for anything but a valid
	// Layer III frame header.
	ErrInvalidFrame = errors.New("invalid or unsupported MP3 frame")
)
