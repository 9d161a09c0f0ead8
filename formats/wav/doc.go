// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and writes RIFF/WAVE audio and rebuilds containers for
// streams that carry their header only once.
//
// # Decoding
//
// Decoder is built on github.com/go-audio/wav and accepts integer PCM at 8, 16,
// 24 or 32 bits with any sub-chunk layout:
//
//	src, err := wav.Decoder{}.Decode(bytes.NewReader(data))
//
// # Reassembly
//
// Streaming producers often send one header followed by bare PCM fragments.
// A Reassembler captures the header from the first fragment and wraps every
// later fragment in a copy with the RIFF and data sizes rewritten:
//
//	r := wav.NewReassembler()
//	for fragment := range fragments {
//	    container, err := r.Process(fragment)
//	    if errors.Is(err, wav.ErrContainerCaptureFailure) {
//	        // logged once; the stream continues in passthrough
//	    }
//	    play(container)
//	}
//
// A Reassembler belongs to a single stream. Use a new one per session.
//
// # Writing
//
// WriteWAV16 writes a mono 16-bit file:
//
//	err := wav.WriteWAV16(file, 8000, samples)
package wav
