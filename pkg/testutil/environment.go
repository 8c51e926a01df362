package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/agentsync/pkg/filesystem"
	"github.com/arthur-debert/agentsync/pkg/types"
	"github.com/stretchr/testify/require"
)

// TestEnvironment provides an isolated source and target directory
type TestEnvironment struct {
	Root      string
	SourceDir string
	TargetDir string
	FS        types.FS

	t *testing.T
}

// NewTestEnvironment creates source/ and target/ under a fresh temp dir.
// The root is resolved so link targets compare equal on systems where the
// temp dir itself sits behind a symlink.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	env := &TestEnvironment{
		Root:      root,
		SourceDir: filepath.Join(root, "source"),
		TargetDir: filepath.Join(root, "target"),
		FS:        filesystem.NewOS(),
		t:         t,
	}
	require.NoError(t, os.MkdirAll(env.SourceDir, 0755))
	require.NoError(t, os.MkdirAll(env.TargetDir, 0755))
	return env
}

// Job returns the reconciliation job for this environment
func (env *TestEnvironment) Job(label string) types.Job {
	return types.Job{Label: label, SourceDir: env.SourceDir, TargetDir: env.TargetDir}
}

// Source returns the path of a source entry
func (env *TestEnvironment) Source(name string) string {
	return filepath.Join(env.SourceDir, name)
}

// Target returns the path of a target entry
func (env *TestEnvironment) Target(name string) string {
	return filepath.Join(env.TargetDir, name)
}

// SourceDirs creates directory children of the source directory
func (env *TestEnvironment) SourceDirs(names ...string) {
	env.t.Helper()
	for _, name := range names {
		require.NoError(env.t, os.MkdirAll(env.Source(name), 0755))
	}
}

// WriteFile creates a regular file, including parents
func (env *TestEnvironment) WriteFile(path, content string) {
	env.t.Helper()
	require.NoError(env.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(env.t, os.WriteFile(path, []byte(content), 0644))
}

// Link creates a symlink at link pointing to dest
func (env *TestEnvironment) Link(dest, link string) {
	env.t.Helper()
	require.NoError(env.t, os.MkdirAll(filepath.Dir(link), 0755))
	require.NoError(env.t, os.Symlink(dest, link))
}

// DanglingLink creates a link at link pointing to a path that does not exist
func (env *TestEnvironment) DanglingLink(link string) {
	env.t.Helper()
	env.Link(filepath.Join(env.Root, "gone", filepath.Base(link)), link)
}

// AssertLinkTo checks that path is a symlink whose value is dest
func (env *TestEnvironment) AssertLinkTo(path, dest string) {
	env.t.Helper()
	info, err := os.Lstat(path)
	require.NoError(env.t, err, "expected link at %s", path)
	require.NotZero(env.t, info.Mode()&fs.ModeSymlink, "%s is not a symlink", path)
	got, err := os.Readlink(path)
	require.NoError(env.t, err)
	require.Equal(env.t, dest, got)
}

// AssertAbsent checks that nothing exists at path
func (env *TestEnvironment) AssertAbsent(path string) {
	env.t.Helper()
	_, err := os.Lstat(path)
	require.True(env.t, os.IsNotExist(err), "expected %s to be absent", path)
}

// TargetNames lists the entries of the target directory
func (env *TestEnvironment) TargetNames() []string {
	env.t.Helper()
	entries, err := os.ReadDir(env.TargetDir)
	require.NoError(env.t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
