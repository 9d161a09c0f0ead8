package wav

import "errors"

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")
	ErrUnsupportedEncoding  = errors.New("only integer PCM WAV is supported")
	ErrUnsupportedBitDepth  = errors.New("unsupported WAV bit depth")
	ErrNoPCMData            = errors.New("WAV has no data chunk")

	// ErrChunkTooLarge is returned when a sub-chunk before data exceeds the
	// per-chunk limit. The error text names the chunk and the limit.
	ErrChunkTooLarge = errors.New("WAV sub-chunk too large")
	// ErrHeaderTooLarge is returned when no data chunk starts within maxHeaderSize bytes.
	ErrHeaderTooLarge = errors.New("WAV header too large")

	// ErrContainerCaptureFailure is returned by Reassembler when the first
	// fragment of a stream does not carry a usable RIFF/WAVE header.
	ErrContainerCaptureFailure = errors.New("WAV container header not captured")
)
