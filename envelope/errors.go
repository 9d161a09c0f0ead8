package envelope

import "errors"

var (
	// ErrEmptyLine marks a blank line. It is a skip signal, not a failure.
	ErrEmptyLine = errors.New("empty line")

	ErrMalformedEnvelope    = errors.New("malformed envelope")
	ErrInvalidEncoding      = errors.New("invalid base64 payload")
	ErrDecompressionFailure = errors.New("gzip decompression failed")
)

// Kind names the failure class of err for logs and metrics, or "" when err
// is not an envelope failure.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrMalformedEnvelope):
		return "malformed_envelope"
	case errors.Is(err, ErrInvalidEncoding):
		return "invalid_encoding"
	case errors.Is(err, ErrDecompressionFailure):
		return "decompression_failure"
	default:
		return ""
	}
}
