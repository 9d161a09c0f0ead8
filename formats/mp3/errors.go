// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

// ErrNoFrames is returned when the input holds no decodable MPEG audio frame.
var ErrNoFrames = errors.New("mp3: no decodable frames")
