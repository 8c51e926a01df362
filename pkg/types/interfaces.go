package types

import (
	"io/fs"
)

// FS is the filesystem interface required for link reconciliation
type FS interface {
	// Inspection
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)
	// EvalSymlinks follows every hop of a link chain and returns the
	// final path. It fails if any hop is missing.
	EvalSymlinks(path string) (string, error)

	// Mutation
	MkdirAll(path string, perm fs.FileMode) error
	Remove(name string) error
}
