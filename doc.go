// SPDX-License-Identifier: EPL-2.0

// Package chunkplay plays audio that arrives as a stream of JSON lines, each
// carrying one base64 encoded fragment of an MP3, WAV, Ogg or AIFF stream.
//
// The pipeline lives in subpackages:
//
//   - envelope turns a line into fragment bytes, optionally gunzipping them
//   - formats/wav rebuilds a full container for headerless PCM fragments
//   - transport hands fragments from the reader to the player in order
//   - playback decodes fragments and queues them on a sink
//   - sink plays queued audio gaplessly on a PortAudio device
//   - session runs all of the above for one input stream
//   - chunker produces such streams from audio files
//
// This package holds conversions shared by the command line tools:
//
//	codecs := formats.NewRegistry()
//	n, err := chunkplay.TranscodeWAV16(out, file, "mp3", codecs, 16000)
package chunkplay
