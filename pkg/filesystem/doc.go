// Package filesystem provides filesystem implementations for agentsync.
//
// This package contains implementations of the types.FS interface: the
// operating system filesystem used in production and an afero adapter for
// any afero.Fs that supports symlinks.
package filesystem
