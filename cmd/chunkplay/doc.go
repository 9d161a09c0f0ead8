// Package main hosts the chunkplay CLI.
//
// Running chunkplay with no subcommand plays a JSON lines stream of audio
// fragments from stdin (or a file) on the default output device. The chunk
// subcommand produces such a stream from an audio file, and config prints or
// checks the effective settings.
package main
