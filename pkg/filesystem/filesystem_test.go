package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/agentsync/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func implementations() map[string]types.FS {
	return map[string]types.FS{
		"os":    NewOS(),
		"afero": NewAferoFS(afero.NewOsFs()),
	}
}

func TestFS_SymlinkLifecycle(t *testing.T) {
	for name, fsys := range implementations() {
		t.Run(name, func(t *testing.T) {
			tmpDir := t.TempDir()
			source := filepath.Join(tmpDir, "source", "alpha")
			link := filepath.Join(tmpDir, "target", "nested", "alpha")

			require.NoError(t, fsys.MkdirAll(source, 0755))
			require.NoError(t, fsys.MkdirAll(filepath.Dir(link), 0755))
			require.NoError(t, fsys.Symlink(source, link))

			info, err := fsys.Lstat(link)
			require.NoError(t, err)
			assert.NotZero(t, info.Mode()&fs.ModeSymlink)

			info, err = fsys.Stat(link)
			require.NoError(t, err)
			assert.True(t, info.IsDir())

			dest, err := fsys.Readlink(link)
			require.NoError(t, err)
			assert.Equal(t, source, dest)

			entries, err := fsys.ReadDir(filepath.Dir(link))
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "alpha", entries[0].Name())

			require.NoError(t, fsys.Remove(link))
			_, err = fsys.Lstat(link)
			assert.True(t, os.IsNotExist(err))

			// The link target is untouched
			_, err = fsys.Stat(source)
			assert.NoError(t, err)
		})
	}
}

func TestFS_EvalSymlinks(t *testing.T) {
	for name, fsys := range implementations() {
		t.Run(name, func(t *testing.T) {
			tmpDir := t.TempDir()
			// Resolve the temp dir itself so comparisons survive /tmp being a link
			tmpDir, err := filepath.EvalSymlinks(tmpDir)
			require.NoError(t, err)

			final := filepath.Join(tmpDir, "final")
			require.NoError(t, os.Mkdir(final, 0755))

			hop1 := filepath.Join(tmpDir, "hop1")
			hop2 := filepath.Join(tmpDir, "hop2")
			require.NoError(t, os.Symlink("final", hop1))
			require.NoError(t, os.Symlink(hop1, hop2))

			resolved, err := fsys.EvalSymlinks(hop2)
			require.NoError(t, err)
			assert.Equal(t, final, resolved)

			dangling := filepath.Join(tmpDir, "dangling")
			require.NoError(t, os.Symlink(filepath.Join(tmpDir, "missing"), dangling))
			_, err = fsys.EvalSymlinks(dangling)
			assert.Error(t, err)
		})
	}
}

func TestFS_EvalSymlinks_LinkedParentDirectory(t *testing.T) {
	for name, fsys := range implementations() {
		t.Run(name, func(t *testing.T) {
			tmpDir, err := filepath.EvalSymlinks(t.TempDir())
			require.NoError(t, err)

			// src/alpha; a/b/targets/alpha -> ../../../src/alpha; links/T -> a/b/targets
			src := filepath.Join(tmpDir, "src", "alpha")
			targets := filepath.Join(tmpDir, "a", "b", "targets")
			require.NoError(t, os.MkdirAll(src, 0755))
			require.NoError(t, os.MkdirAll(targets, 0755))
			require.NoError(t, os.Symlink(filepath.Join("..", "..", "..", "src", "alpha"), filepath.Join(targets, "alpha")))
			require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "links"), 0755))
			require.NoError(t, os.Symlink(targets, filepath.Join(tmpDir, "links", "T")))

			resolved, err := fsys.EvalSymlinks(filepath.Join(tmpDir, "links", "T", "alpha"))
			require.NoError(t, err)
			assert.Equal(t, src, resolved)

			// Relative parent hop through a link
			require.NoError(t, os.Symlink(filepath.Join("..", "links", "T"), filepath.Join(tmpDir, "src", "up")))
			resolved, err = fsys.EvalSymlinks(filepath.Join(tmpDir, "src", "up", "alpha"))
			require.NoError(t, err)
			assert.Equal(t, src, resolved)
		})
	}
}

func TestAferoFS_EvalSymlinks_FileInPath(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := NewAferoFS(afero.NewOsFs()).EvalSymlinks(filepath.Join(file, "alpha"))
	assert.Error(t, err)
}

func TestAferoFS_LoopDetected(t *testing.T) {
	tmpDir := t.TempDir()
	a := filepath.Join(tmpDir, "a")
	b := filepath.Join(tmpDir, "b")
	require.NoError(t, os.Symlink(b, a))
	require.NoError(t, os.Symlink(a, b))

	_, err := NewAferoFS(afero.NewOsFs()).EvalSymlinks(a)
	assert.ErrorIs(t, err, errTooManyLinks)
}

func TestAferoFS_WithoutSymlinkSupport(t *testing.T) {
	fsys := NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, fsys.MkdirAll("/src/alpha", 0755))

	err := fsys.Symlink("/src/alpha", "/dst/alpha")
	require.Error(t, err)
	assert.True(t, errors.Is(err, afero.ErrNoSymlink))

	_, err = fsys.Readlink("/dst/alpha")
	assert.True(t, errors.Is(err, afero.ErrNoReadlink))

	// Lstat falls back to Stat
	info, err := fsys.Lstat("/src/alpha")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
