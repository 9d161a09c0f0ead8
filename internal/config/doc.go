// Package config loads chunkplay settings.
//
// Values come from Default, then an optional TOML file, then an optional
// dotenv file and the process environment (CHUNKPLAY_* variables). Command
// line flags are applied on top by the CLI before Validate is called.
package config
