package sink

import "errors"

var (
	// ErrClosed is returned when audio is enqueued on a closed sink.
	ErrClosed = errors.New("sink closed")
	// ErrDeviceUnavailable wraps failures to open the output device.
	ErrDeviceUnavailable = errors.New("audio output device unavailable")
)
