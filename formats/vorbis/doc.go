// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio with github.com/jfreymuth/oggvorbis.
//
// Each fragment handed to the decoder must be a complete Ogg stream, headers
// included.
package vorbis
