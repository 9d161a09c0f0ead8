package playback

import "errors"

var (
	// ErrDecodeFailure wraps codec errors for a single fragment.
	ErrDecodeFailure = errors.New("fragment decode failed")
	// ErrUnknownFormat is returned by NewDriver for a format without a codec.
	ErrUnknownFormat = errors.New("unknown playback format")
)
