// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WriteWAV16 writes samples as a mono 16-bit PCM WAV at sampleRate.
func WriteWAV16(w io.Writer, sampleRate int, samples []int16) error {
	header := NewHeader(sampleRate, 1, 16, uint32(len(samples)*2))
	if _, err := w.Write(header.Raw); err != nil {
		return fmt.Errorf("%w", err)
	}

	const chunkSize = 8192
	if len(samples) == 0 {
		return nil
	}

	buf := make([]byte, 0, min(len(samples), chunkSize)*2)
	for i := 0; i < len(samples); i += chunkSize {
		buf = buf[:0]
		for _, s := range samples[i:min(i+chunkSize, len(samples))] {
			buf = binary.LittleEndian.AppendUint16(buf, uint16(s))
		}

		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}
