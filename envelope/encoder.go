// SPDX-License-Identifier: EPL-2.0

package envelope

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
)

// Encoder writes fragments as lines readable by Decoder.
type Encoder struct {
	// Level is a compress/gzip level. gzip.NoCompression (0) writes the
	// payload as is.
	Level int
}

// Encode writes chunk to w as one JSON line.
func (e Encoder) Encode(w io.Writer, chunk []byte) error {
	payload := chunk
	if e.Level != gzip.NoCompression {
		var buf bytes.Buffer
		zw, err := gzip.NewWriterLevel(&buf, e.Level)
		if err != nil {
			return fmt.Errorf("gzip level %d: %w", e.Level, err)
		}
		if _, err := zw.Write(chunk); err != nil {
			return fmt.Errorf("gzip: %w", err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("gzip: %w", err)
		}
		payload = buf.Bytes()
	}

	data := base64.StdEncoding.EncodeToString(payload)
	line, err := json.Marshal(Envelope{Data: &data})
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	if _, err := w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}
