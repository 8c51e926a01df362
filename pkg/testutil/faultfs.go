package testutil

import (
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/agentsync/pkg/types"
)

// Op names a types.FS operation for fault injection
type Op string

const (
	OpStat         Op = "stat"
	OpLstat        Op = "lstat"
	OpReadDir      Op = "readdir"
	OpSymlink      Op = "symlink"
	OpReadlink     Op = "readlink"
	OpEvalSymlinks Op = "evalsymlinks"
	OpMkdirAll     Op = "mkdirall"
	OpRemove       Op = "remove"
)

// FaultFS wraps a types.FS and returns injected errors for chosen
// (operation, path) pairs. Everything else is delegated.
type FaultFS struct {
	types.FS

	mu     sync.Mutex
	faults map[Op]map[string]error
	calls  map[Op]int
}

// NewFaultFS wraps base
func NewFaultFS(base types.FS) *FaultFS {
	return &FaultFS{
		FS:     base,
		faults: make(map[Op]map[string]error),
		calls:  make(map[Op]int),
	}
}

// WithError configures the filesystem to return err for op on path
func (f *FaultFS) WithError(op Op, path string, err error) *FaultFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.faults[op] == nil {
		f.faults[op] = make(map[string]error)
	}
	f.faults[op][filepath.Clean(path)] = err
	return f
}

// Calls returns how many times op was invoked
func (f *FaultFS) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FaultFS) check(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.faults[op][filepath.Clean(path)]
}

func (f *FaultFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.check(OpStat, name); err != nil {
		return nil, err
	}
	return f.FS.Stat(name)
}

func (f *FaultFS) Lstat(name string) (fs.FileInfo, error) {
	if err := f.check(OpLstat, name); err != nil {
		return nil, err
	}
	return f.FS.Lstat(name)
}

func (f *FaultFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := f.check(OpReadDir, name); err != nil {
		return nil, err
	}
	return f.FS.ReadDir(name)
}

func (f *FaultFS) Symlink(oldname, newname string) error {
	if err := f.check(OpSymlink, newname); err != nil {
		return err
	}
	return f.FS.Symlink(oldname, newname)
}

func (f *FaultFS) Readlink(name string) (string, error) {
	if err := f.check(OpReadlink, name); err != nil {
		return "", err
	}
	return f.FS.Readlink(name)
}

func (f *FaultFS) EvalSymlinks(path string) (string, error) {
	if err := f.check(OpEvalSymlinks, path); err != nil {
		return "", err
	}
	return f.FS.EvalSymlinks(path)
}

func (f *FaultFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.check(OpMkdirAll, path); err != nil {
		return err
	}
	return f.FS.MkdirAll(path, perm)
}

func (f *FaultFS) Remove(name string) error {
	if err := f.check(OpRemove, name); err != nil {
		return err
	}
	return f.FS.Remove(name)
}
