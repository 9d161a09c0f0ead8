// SPDX-License-Identifier: EPL-2.0

// Package envelope converts between JSON lines and raw audio fragments.
//
// Each line is an object with a base64 "data" field:
//
//	{"data":"SUQzBAAAAAAAI1RTU0UAAAAPAAADTGF2ZjYwLjMuMTAw..."}
//
// The payload may be gzip compressed. Unknown fields are ignored.
package envelope

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Envelope is the wire form of one line.
type Envelope struct {
	Data *string `json:"data"`
}

// Decoder extracts fragments from lines. The zero value handles uncompressed
// payloads.
type Decoder struct {
	// Gzip treats every payload as a complete gzip stream.
	Gzip bool
}

// Decode returns the fragment carried by line. Blank lines yield ErrEmptyLine.
// Other failures wrap ErrMalformedEnvelope, ErrInvalidEncoding or
// ErrDecompressionFailure.
func (d Decoder) Decode(line string) ([]byte, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, ErrEmptyLine
	}

	var env Envelope
	if err := json.Unmarshal([]byte(line), &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	if env.Data == nil {
		return nil, fmt.Errorf("%w: missing data field", ErrMalformedEnvelope)
	}

	raw, err := base64.StdEncoding.DecodeString(*env.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}

	if !d.Gzip {
		return raw, nil
	}

	return gunzip(raw)
}

func gunzip(raw []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompressionFailure, err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompressionFailure, err)
	}

	return out, nil
}
