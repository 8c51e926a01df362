package reconcile_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/filesystem"
	"github.com/arthur-debert/agentsync/pkg/reconcile"
	"github.com/arthur-debert/agentsync/pkg/testutil"
	"github.com/arthur-debert/agentsync/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects events for assertions
type recorder struct {
	events []types.Event
}

func (r *recorder) observe(ev types.Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []types.EventKind {
	var kinds []types.EventKind
	for _, ev := range r.events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

func (r *recorder) ofKind(kind types.EventKind) []types.Event {
	var out []types.Event
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func newReconciler(fsys types.FS, dryRun bool) (*reconcile.Reconciler, *recorder) {
	rec := &recorder{}
	return reconcile.New(fsys, reconcile.Options{DryRun: dryRun, Observer: rec.observe}), rec
}

func TestReconcile_EmptyTarget(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SourceDirs("alpha", "beta")

	r, rec := newReconciler(env.FS, false)
	report := r.Reconcile(env.Job("claude/skills"))

	assert.Equal(t, types.Result{Created: 2}, report.Result)
	assert.False(t, report.SourceAbsent)
	env.AssertLinkTo(env.Target("alpha"), env.Source("alpha"))
	env.AssertLinkTo(env.Target("beta"), env.Source("beta"))
	assert.Equal(t, []types.EventKind{types.EventJobStart, types.EventCreated, types.EventCreated}, rec.kinds())
}

func TestReconcile_SkipCreateAndPrune(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SourceDirs("alpha", "beta")
	env.Link(env.Source("alpha"), env.Target("alpha"))
	env.DanglingLink(env.Target("gamma"))

	r, rec := newReconciler(env.FS, false)
	report := r.Reconcile(env.Job("claude/skills"))

	assert.Equal(t, types.Result{Created: 1, Skipped: 1, Deleted: 1}, report.Result)
	env.AssertLinkTo(env.Target("alpha"), env.Source("alpha"))
	env.AssertLinkTo(env.Target("beta"), env.Source("beta"))
	env.AssertAbsent(env.Target("gamma"))

	pruned := rec.ofKind(types.EventPruned)
	require.Len(t, pruned, 1)
	assert.Equal(t, env.Target("gamma"), pruned[0].Target)
}

func TestReconcile_ForeignDirectoryIsConflict(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SourceDirs("alpha")
	env.WriteFile(filepath.Join(env.Target("alpha"), "local.md"), "hand written")

	r, rec := newReconciler(env.FS, false)
	report := r.Reconcile(env.Job("claude/skills"))

	assert.Equal(t, types.Result{Skipped: 1}, report.Result)
	content, err := os.ReadFile(filepath.Join(env.Target("alpha"), "local.md"))
	require.NoError(t, err)
	assert.Equal(t, "hand written", string(content))

	conflicts := rec.ofKind(types.EventConflict)
	require.Len(t, conflicts, 1)
	assert.True(t, errors.IsErrorCode(conflicts[0].Err, errors.ErrConflict))
	assert.NotEmpty(t, conflicts[0].Reason)
}

func TestReconcile_SourceDirAbsent(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	job := types.Job{
		Label:     "claude/commands",
		SourceDir: filepath.Join(env.Root, "missing"),
		TargetDir: env.TargetDir,
	}
	env.DanglingLink(env.Target("gamma"))

	r, rec := newReconciler(env.FS, false)
	report := r.Reconcile(job)

	assert.True(t, report.Result.IsZero())
	assert.True(t, report.SourceAbsent)
	// No partial attempt: the sweep does not run either
	assert.Equal(t, []string{"gamma"}, env.TargetNames())

	absent := rec.ofKind(types.EventSourceDirAbsent)
	require.Len(t, absent, 1)
	assert.True(t, errors.IsErrorCode(absent[0].Err, errors.ErrSourceDirAbsent))
}

func TestReconcile_SourcePathIsAFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	file := filepath.Join(env.Root, "not-a-dir")
	env.WriteFile(file, "x")

	r, _ := newReconciler(env.FS, false)
	report := r.Reconcile(types.Job{SourceDir: file, TargetDir: env.TargetDir})

	assert.True(t, report.SourceAbsent)
	assert.True(t, report.Result.IsZero())
}

func TestReconcile_BrokenLinkForCurrentSourceIsRepaired(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SourceDirs("alpha")
	env.DanglingLink(env.Target("alpha"))

	r, rec := newReconciler(env.FS, false)
	report := r.Reconcile(env.Job("x"))

	// Repair is counted once, as a creation
	assert.Equal(t, types.Result{Created: 1}, report.Result)
	env.AssertLinkTo(env.Target("alpha"), env.Source("alpha"))
	assert.Equal(t, []types.EventKind{types.EventJobStart, types.EventStaleRemoved, types.EventCreated}, rec.kinds())
}

func TestReconcile_IgnoresNonDirectorySourceChildren(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SourceDirs("alpha")
	env.WriteFile(env.Source("README.md"), "docs")
	env.DanglingLink(env.Source("dangling"))

	r, _ := newReconciler(env.FS, false)
	report := r.Reconcile(env.Job("x"))

	assert.Equal(t, types.Result{Created: 1}, report.Result)
	assert.Equal(t, []string{"alpha"}, env.TargetNames())
}

func TestReconcile_SourceChildLinkedToDirectoryCounts(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	elsewhere := filepath.Join(env.Root, "elsewhere", "delta")
	require.NoError(t, os.MkdirAll(elsewhere, 0755))
	env.Link(elsewhere, env.Source("delta"))

	r, _ := newReconciler(env.FS, false)
	report := r.Reconcile(env.Job("x"))

	assert.Equal(t, types.Result{Created: 1}, report.Result)
	env.AssertLinkTo(env.Target("delta"), env.Source("delta"))
}

func TestReconcile_TargetDirCreatedOnDemand(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SourceDirs("alpha")
	job := types.Job{SourceDir: env.SourceDir, TargetDir: filepath.Join(env.Root, "fresh", "skills")}

	r, _ := newReconciler(env.FS, false)
	report := r.Reconcile(job)

	assert.Equal(t, types.Result{Created: 1}, report.Result)
	env.AssertLinkTo(filepath.Join(job.TargetDir, "alpha"), env.Source("alpha"))
}

func TestReconcile_LeavesUnrelatedContent(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SourceDirs("alpha")
	other := filepath.Join(env.Root, "other")
	require.NoError(t, os.MkdirAll(other, 0755))
	env.Link(other, env.Target("other-link"))
	env.WriteFile(env.Target("notes.txt"), "keep")
	require.NoError(t, os.Mkdir(env.Target("local-dir"), 0755))

	r, _ := newReconciler(env.FS, false)
	report := r.Reconcile(env.Job("x"))

	assert.Equal(t, types.Result{Created: 1}, report.Result)
	assert.ElementsMatch(t, []string{"alpha", "local-dir", "notes.txt", "other-link"}, env.TargetNames())
}

func TestReconcile_Idempotent(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SourceDirs("alpha", "beta", "gamma")
	env.DanglingLink(env.Target("stale"))
	env.DanglingLink(env.Target("beta"))
	require.NoError(t, os.Mkdir(env.Target("gamma"), 0755))

	r, _ := newReconciler(env.FS, false)
	first := r.Reconcile(env.Job("x"))
	assert.Equal(t, types.Result{Created: 2, Skipped: 1, Deleted: 1}, first.Result)
	namesAfterFirst := env.TargetNames()

	second := r.Reconcile(env.Job("x"))
	assert.Equal(t, 0, second.Result.Created)
	assert.Equal(t, 0, second.Result.Deleted)
	assert.Equal(t, 0, second.Result.Failed)
	assert.Equal(t, 3, second.Result.Skipped)
	assert.Equal(t, namesAfterFirst, env.TargetNames())
}

func TestReconcile_PruneCompleteness(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SourceDirs("alpha")
	for _, name := range []string{"one", "two", "three"} {
		env.DanglingLink(env.Target(name))
	}
	// A chain whose final hop is missing
	env.Link(env.Target("one"), env.Target("chain"))

	r, _ := newReconciler(env.FS, false)
	report := r.Reconcile(env.Job("x"))

	assert.Equal(t, 4, report.Result.Deleted)
	linker := reconcile.New(env.FS, reconcile.Options{})
	for _, name := range env.TargetNames() {
		assert.NotEqual(t, types.LinkBroken, linker.Classify(env.Target(name)).State, name)
	}
}

func TestReconcile_NoOrphanCreation(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SourceDirs("alpha", "beta")
	env.WriteFile(env.Source("file.txt"), "x")

	r, rec := newReconciler(env.FS, false)
	r.Reconcile(env.Job("x"))

	sourceNames := map[string]bool{"alpha": true, "beta": true}
	for _, ev := range rec.ofKind(types.EventCreated) {
		assert.True(t, sourceNames[filepath.Base(ev.Target)], ev.Target)
	}
	for _, name := range env.TargetNames() {
		assert.True(t, sourceNames[name], name)
	}
}

func TestReconcile_CreateFailureIsCounted(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SourceDirs("alpha", "beta")
	fsys := testutil.NewFaultFS(env.FS).WithError(testutil.OpSymlink, env.Target("alpha"),
		&os.LinkError{Op: "symlink", Old: env.Source("alpha"), New: env.Target("alpha"), Err: syscall.EACCES})

	r, rec := newReconciler(fsys, false)
	report := r.Reconcile(env.Job("x"))

	assert.Equal(t, types.Result{Created: 1, Failed: 1}, report.Result)
	failed := rec.ofKind(types.EventFailed)
	require.Len(t, failed, 1)
	assert.True(t, errors.IsErrorCode(failed[0].Err, errors.ErrCreateFailed))
	assert.Equal(t, syscall.EACCES.Error(), failed[0].Reason)
	// The pass continued with the next entry
	env.AssertLinkTo(env.Target("beta"), env.Source("beta"))
}

func TestReconcile_RemoveFailureIsCounted(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SourceDirs("alpha")
	env.DanglingLink(env.Target("alpha"))
	env.DanglingLink(env.Target("gamma"))
	fsys := testutil.NewFaultFS(env.FS).
		WithError(testutil.OpRemove, env.Target("alpha"), fs.ErrPermission).
		WithError(testutil.OpRemove, env.Target("gamma"), fs.ErrPermission)

	r, _ := newReconciler(fsys, false)
	report := r.Reconcile(env.Job("x"))

	// alpha fails in the forward pass, then again in the sweep
	assert.Equal(t, types.Result{Failed: 3}, report.Result)
}

func TestReconcile_UnreadableSourceIsAFailure(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	fsys := testutil.NewFaultFS(env.FS).WithError(testutil.OpReadDir, env.SourceDir, fs.ErrPermission)

	r, rec := newReconciler(fsys, false)
	report := r.Reconcile(env.Job("x"))

	assert.Equal(t, types.Result{Failed: 1}, report.Result)
	assert.False(t, report.SourceAbsent)
	failed := rec.ofKind(types.EventFailed)
	require.Len(t, failed, 1)
	assert.True(t, errors.IsErrorCode(failed[0].Err, errors.ErrReadDir))
}

func TestReconcile_DryRun(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SourceDirs("alpha", "beta", "delta")
	env.Link(env.Source("alpha"), env.Target("alpha"))
	env.DanglingLink(env.Target("beta"))
	env.DanglingLink(env.Target("gamma"))
	fsys := testutil.NewFaultFS(env.FS)

	r, rec := newReconciler(fsys, true)
	report := r.Reconcile(env.Job("x"))

	// Same counters a real pass would produce; beta is not double counted
	assert.Equal(t, types.Result{Created: 2, Skipped: 1, Deleted: 1}, report.Result)
	assert.Zero(t, fsys.Calls(testutil.OpSymlink))
	assert.Zero(t, fsys.Calls(testutil.OpRemove))
	assert.Zero(t, fsys.Calls(testutil.OpMkdirAll))
	assert.ElementsMatch(t, []string{"alpha", "beta", "gamma"}, env.TargetNames())
	for _, ev := range rec.events {
		if ev.Kind != types.EventJobStart {
			assert.True(t, ev.DryRun, ev.Kind)
		}
	}
}

// readOnlyFS is the backend dry runs use from the command line
func readOnlyFS() types.FS {
	return filesystem.NewAferoFS(afero.NewReadOnlyFs(afero.NewOsFs()))
}

func TestReconcile_DryRunPredictsRealRun(t *testing.T) {
	tests := []struct {
		name  string
		setup func(env *testutil.TestEnvironment) types.Job
		want  types.Result
	}{
		{
			name: "relative link reached through a linked target directory",
			setup: func(env *testutil.TestEnvironment) types.Job {
				env.SourceDirs("alpha")
				targets := filepath.Join(env.Root, "a", "b", "targets")
				require.NoError(t, os.MkdirAll(targets, 0755))
				env.Link(filepath.Join("..", "..", "..", "source", "alpha"), filepath.Join(targets, "alpha"))
				env.Link(targets, filepath.Join(env.Root, "linked"))
				return types.Job{Label: "x", SourceDir: env.SourceDir, TargetDir: filepath.Join(env.Root, "linked")}
			},
			want: types.Result{Skipped: 1},
		},
		{
			name: "target parent is a file",
			setup: func(env *testutil.TestEnvironment) types.Job {
				env.SourceDirs("alpha")
				env.WriteFile(filepath.Join(env.Root, "blocker"), "file")
				return types.Job{Label: "x", SourceDir: env.SourceDir, TargetDir: filepath.Join(env.Root, "blocker", "targets")}
			},
			want: types.Result{Failed: 1},
		},
		{
			name: "broken and missing links",
			setup: func(env *testutil.TestEnvironment) types.Job {
				env.SourceDirs("alpha", "beta")
				env.DanglingLink(env.Target("alpha"))
				env.DanglingLink(env.Target("gamma"))
				return env.Job("x")
			},
			want: types.Result{Created: 2, Deleted: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.NewTestEnvironment(t)
			job := tt.setup(env)

			dry, _ := newReconciler(readOnlyFS(), true)
			dryReport := dry.Reconcile(job)

			live, _ := newReconciler(env.FS, false)
			realReport := live.Reconcile(job)

			assert.Equal(t, tt.want, realReport.Result)
			assert.Equal(t, realReport.Result, dryReport.Result)
		})
	}
}

func TestReconcile_DryRunReportsBlockedParent(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SourceDirs("alpha")
	env.WriteFile(filepath.Join(env.Root, "blocker"), "file")
	job := types.Job{Label: "x", SourceDir: env.SourceDir, TargetDir: filepath.Join(env.Root, "blocker", "deep", "targets")}

	r, rec := newReconciler(readOnlyFS(), true)
	report := r.Reconcile(job)

	assert.Equal(t, types.Result{Failed: 1}, report.Result)
	failed := rec.ofKind(types.EventFailed)
	require.Len(t, failed, 1)
	assert.True(t, errors.IsErrorCode(failed[0].Err, errors.ErrCreateFailed))
	assert.Equal(t, syscall.ENOTDIR.Error(), failed[0].Reason)
	assert.Equal(t, filepath.Join(env.Root, "blocker"), errors.GetErrorDetails(failed[0].Err)["blocker"])
}
