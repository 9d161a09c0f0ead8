// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG Layer III audio with github.com/hajimehoshi/go-mp3.
//
// A fragment only needs to contain whole frames to be playable on its own, so
// every envelope of a streamed MP3 can be decoded independently:
//
//	src, err := mp3.Decoder{}.Decode(bytes.NewReader(fragment))
//	if errors.Is(err, mp3.ErrNoFrames) {
//	    // not audio
//	}
//
// Output is always stereo float32 in [-1, 1] at the stream's sample rate.
package mp3
