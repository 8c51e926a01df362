package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/arthur-debert/agentsync/pkg/types"
	"github.com/spf13/afero"
)

// maxLinkHops bounds link-chain resolution, matching the usual ELOOP limit
const maxLinkHops = 40

var errTooManyLinks = errors.New("too many levels of symbolic links")

// aferoFS implements types.FS using afero. Link operations require the
// underlying filesystem to implement afero.Symlinker (OsFs does, MemMapFs
// does not); without it they fail with afero.ErrNoSymlink.
type aferoFS struct {
	fs afero.Fs
}

// NewAferoFS creates a new afero filesystem implementation
func NewAferoFS(fs afero.Fs) types.FS {
	return &aferoFS{fs: fs}
}

func (a *aferoFS) symlinker() (afero.Symlinker, bool) {
	sl, ok := a.fs.(afero.Symlinker)
	return sl, ok
}

func (a *aferoFS) Stat(name string) (fs.FileInfo, error) {
	return a.fs.Stat(name)
}

func (a *aferoFS) Lstat(name string) (fs.FileInfo, error) {
	sl, ok := a.symlinker()
	if !ok {
		return a.fs.Stat(name)
	}
	info, _, err := sl.LstatIfPossible(name)
	return info, err
}

func (a *aferoFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := afero.ReadDir(a.fs, name)
	if err != nil {
		return nil, err
	}
	dirEntries := make([]fs.DirEntry, len(entries))
	for i, entry := range entries {
		dirEntries[i] = fs.FileInfoToDirEntry(entry)
	}
	return dirEntries, nil
}

func (a *aferoFS) Symlink(oldname, newname string) error {
	sl, ok := a.symlinker()
	if !ok {
		return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: afero.ErrNoSymlink}
	}
	return sl.SymlinkIfPossible(oldname, newname)
}

func (a *aferoFS) Readlink(name string) (string, error) {
	sl, ok := a.symlinker()
	if !ok {
		return "", &os.PathError{Op: "readlink", Path: name, Err: afero.ErrNoReadlink}
	}
	return sl.ReadlinkIfPossible(name)
}

// EvalSymlinks resolves every component of path, as the kernel does: a
// relative link is read against the already resolved directory holding it,
// so links reached through linked parent directories resolve correctly.
func (a *aferoFS) EvalSymlinks(path string) (string, error) {
	sep := string(filepath.Separator)
	dest := ""
	rest := filepath.Clean(path)
	if filepath.IsAbs(rest) {
		dest = sep
	}

	hops := 0
	for rest != "" {
		var name string
		if i := strings.Index(rest, sep); i >= 0 {
			name, rest = rest[:i], rest[i+1:]
		} else {
			name, rest = rest, ""
		}

		switch name {
		case "", ".":
			continue
		case "..":
			dest = parentOf(dest)
			continue
		}

		next := filepath.Join(dest, name)
		info, err := a.Lstat(next)
		if err != nil {
			return "", err
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			if rest != "" && !info.IsDir() {
				return "", &os.PathError{Op: "evalsymlinks", Path: path, Err: syscall.ENOTDIR}
			}
			dest = next
			continue
		}

		hops++
		if hops > maxLinkHops {
			return "", &os.PathError{Op: "evalsymlinks", Path: path, Err: errTooManyLinks}
		}
		link, err := a.Readlink(next)
		if err != nil {
			return "", err
		}
		if filepath.IsAbs(link) {
			dest = sep
		}
		if rest == "" {
			rest = link
		} else {
			rest = link + sep + rest
		}
	}

	if dest == "" {
		return ".", nil
	}
	return filepath.Clean(dest), nil
}

// parentOf steps dest up one level. Relative paths that are already
// above their start keep growing "..".
func parentOf(dest string) string {
	switch {
	case dest == "":
		return ".."
	case dest == ".." || strings.HasSuffix(dest, string(filepath.Separator)+".."):
		return filepath.Join(dest, "..")
	}
	parent := filepath.Dir(dest)
	if parent == "." {
		return ""
	}
	return parent
}

func (a *aferoFS) MkdirAll(path string, perm fs.FileMode) error {
	return a.fs.MkdirAll(path, perm)
}

func (a *aferoFS) Remove(name string) error {
	return a.fs.Remove(name)
}
