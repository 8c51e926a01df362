// Package config loads agentsync configuration.
//
// Values are layered: the embedded defaults, then the user's TOML file,
// then AGENTSYNC_* environment variables. The result is decoded into a
// Config and validated before any job is built from it.
package config
