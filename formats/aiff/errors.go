package aiff

import "errors"

var (
	// ErrNotAiffFile indicates the input is not a readable AIFF stream
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrUnsupportedBitDepth indicates a sample size other than 8, 16, 24 or 32 bits
	ErrUnsupportedBitDepth = errors.New("unsupported AIFF bit depth")

	// ErrUnsupportedAiffLayout indicates the COMM chunk carried no usable rate or channel count
	ErrUnsupportedAiffLayout = errors.New("unsupported AIFF layout")
)
