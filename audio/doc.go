// SPDX-License-Identifier: EPL-2.0

// Package audio holds the sample pipeline shared by the codecs and the sink.
//
// Everything between a codec and an output device is a Source: a pull based
// stream of interleaved float32 samples in [-1, 1] with a fixed rate and
// channel count. ReadSamples returns io.EOF once the stream is exhausted,
// possibly together with the final samples.
//
// Codecs are looked up by format key in a Registry:
//
//	codecs := audio.NewRegistry()
//	codecs.Register("wav", wav.Decoder{})
//	src, err := codecs.DecodeBytes(fragment, "wav")
//
// Keys are case-insensitive; an unknown key wraps ErrUnknownFormat.
//
// A device usually wants one rate and layout for every fragment. Adapt
// chains a Resampler (Catmull-Rom, low-pass filtered when downsampling) and
// a MonoMixer or StereoMixer as needed:
//
//	out, err := audio.Adapt(src, 44100, 2)
//
// Stages are skipped when the source already matches, and closing the
// returned Source closes the whole chain.
package audio
