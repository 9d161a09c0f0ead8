// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF audio with github.com/go-audio/aiff.
//
// Integer PCM at 8, 16, 24 and 32 bits is supported with any channel count.
// Samples are returned as float32 in [-1, 1]:
//
//	src, err := aiff.Decoder{}.Decode(bytes.NewReader(fragment))
//
// go-audio needs an io.ReadSeeker, so other readers are buffered in memory.
package aiff
