package reconcile

import (
	"io/fs"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/links"
	"github.com/arthur-debert/agentsync/pkg/logging"
	"github.com/arthur-debert/agentsync/pkg/types"
	"github.com/rs/zerolog"
)

// Options configures a Reconciler
type Options struct {
	// DryRun classifies and reports without touching the filesystem
	DryRun bool
	// Observer receives every event; calls are serialized
	Observer types.Observer
}

// Reconciler brings one target directory in line with one source directory
type Reconciler struct {
	fs     types.FS
	linker *links.Linker
	dryRun bool
	logger zerolog.Logger

	mu       sync.Mutex
	observer types.Observer
}

// New creates a new Reconciler
func New(fsys types.FS, opts Options) *Reconciler {
	return &Reconciler{
		fs:       fsys,
		linker:   links.NewLinker(fsys),
		dryRun:   opts.DryRun,
		observer: opts.Observer,
		logger:   logging.GetLogger("reconcile"),
	}
}

// Classify exposes the link prober for pre-flight inspection
func (r *Reconciler) Classify(path string) types.Probe {
	return r.linker.Classify(path)
}

// Reconcile runs one job: a forward sync over the source directory's
// directory children, then a sweep of broken links in the target
// directory. The sweep always runs after every forward repair.
func (r *Reconciler) Reconcile(job types.Job) types.JobReport {
	report := types.JobReport{Job: job}
	logger := r.logger.With().
		Str("job", job.String()).
		Bool("dryRun", r.dryRun).
		Logger()
	done := logging.LogOperationStart(logger, "reconcile")
	defer done()

	r.emit(types.Event{Kind: types.EventJobStart, Job: job.String(), Source: job.SourceDir, Target: job.TargetDir})

	if r.sourceAbsent(job.SourceDir) {
		logger.Warn().Str("source", job.SourceDir).Msg("source directory does not exist, skipping job")
		r.emitErr(types.Event{Kind: types.EventSourceDirAbsent, Job: job.String(), Source: job.SourceDir},
			errors.Newf(errors.ErrSourceDirAbsent, "source directory %s does not exist", job.SourceDir))
		report.SourceAbsent = true
		return report
	}

	names, err := r.linkableChildren(job.SourceDir)
	if err != nil {
		logger.Error().Err(err).Msg("cannot list source directory")
		report.Result.Failed++
		r.emitErr(types.Event{Kind: types.EventFailed, Job: job.String(), Source: job.SourceDir}, err)
		return report
	}

	// Targets repaired by a dry-run forward pass are still broken on disk
	// and must not be counted again by the sweep
	planned := make(map[string]bool)

	for _, name := range names {
		r.syncEntry(job, name, &report.Result, planned)
	}
	r.sweep(job, &report.Result, planned)

	logger.Info().
		Int("created", report.Result.Created).
		Int("skipped", report.Result.Skipped).
		Int("deleted", report.Result.Deleted).
		Int("failed", report.Result.Failed).
		Msg("job reconciled")
	return report
}

// linkableChildren snapshots the names of the directory children of dir.
// Children are tested with Stat, so a link to a directory counts as a
// directory. Other children are ignored without being counted.
func (r *Reconciler) linkableChildren(dir string) ([]string, error) {
	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrReadDir, "failed to read %s", dir)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		info, err := r.fs.Stat(filepath.Join(dir, entry.Name()))
		if err != nil || !info.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

func (r *Reconciler) syncEntry(job types.Job, name string, result *types.Result, planned map[string]bool) {
	source := filepath.Join(job.SourceDir, name)
	target := filepath.Join(job.TargetDir, name)
	ev := types.Event{Job: job.String(), Source: source, Target: target, DryRun: r.dryRun}

	probe := r.linker.Classify(target)
	r.logger.Trace().
		Str("target", target).
		Stringer("state", probe.State).
		Msg("classified target")

	switch probe.State {
	case types.LinkAbsent:
		r.create(ev, result)

	case types.LinkValid:
		result.Skipped++
		ev.Kind = types.EventSkipped
		r.emit(ev)

	case types.LinkBroken:
		if r.dryRun {
			planned[target] = true
		} else if err := r.linker.RemoveLink(target); err != nil {
			result.Failed++
			ev.Kind = types.EventFailed
			r.emitErr(ev, err)
			return
		}
		removed := ev
		removed.Kind = types.EventStaleRemoved
		r.emit(removed)
		r.create(ev, result)

	case types.LinkForeign:
		result.Skipped++
		ev.Kind = types.EventConflict
		r.emitErr(ev, errors.Newf(errors.ErrConflict, "%s exists and is not a symlink", target).
			WithDetail("kind", string(probe.Kind)))
	}
}

func (r *Reconciler) create(ev types.Event, result *types.Result) {
	if r.dryRun {
		if blocker, blocked := r.blockedParent(ev.Target); blocked {
			result.Failed++
			ev.Kind = types.EventFailed
			r.emitErr(ev, errors.Wrapf(syscall.ENOTDIR, errors.ErrCreateFailed, "failed to create parent of %s", ev.Target).
				WithDetail("blocker", blocker))
			return
		}
		result.Created++
		ev.Kind = types.EventCreated
		r.emit(ev)
		return
	}

	outcome, err := r.linker.CreateLink(ev.Source, ev.Target)
	switch {
	case err != nil:
		result.Failed++
		ev.Kind = types.EventFailed
		r.emitErr(ev, err)
	case outcome == links.OutcomeSatisfied:
		// Someone else linked it between classification and creation
		result.Skipped++
		ev.Kind = types.EventSkipped
		r.emit(ev)
	default:
		result.Created++
		ev.Kind = types.EventCreated
		r.emit(ev)
	}
}

// blockedParent reports the nearest existing ancestor of target when it
// is not a directory, in which case creating the link's parents would fail
func (r *Reconciler) blockedParent(target string) (string, bool) {
	dir := filepath.Dir(target)
	for {
		info, err := r.fs.Stat(dir)
		if err == nil {
			return dir, !info.IsDir()
		}
		if !isNotExist(err) {
			return "", false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// sweep removes every broken link directly inside the target directory,
// including links whose names no longer match any source child
func (r *Reconciler) sweep(job types.Job, result *types.Result, planned map[string]bool) {
	entries, err := r.fs.ReadDir(job.TargetDir)
	if err != nil {
		if isNotExist(err) {
			return
		}
		result.Failed++
		r.emitErr(types.Event{Kind: types.EventFailed, Job: job.String(), Target: job.TargetDir},
			errors.Wrapf(err, errors.ErrReadDir, "failed to read %s", job.TargetDir))
		return
	}

	for _, entry := range entries {
		if entry.Type()&fs.ModeSymlink == 0 {
			continue
		}
		target := filepath.Join(job.TargetDir, entry.Name())
		if planned[target] {
			continue
		}
		if r.linker.Classify(target).State != types.LinkBroken {
			continue
		}

		ev := types.Event{Job: job.String(), Target: target, DryRun: r.dryRun}
		if !r.dryRun {
			if err := r.linker.RemoveLink(target); err != nil {
				result.Failed++
				ev.Kind = types.EventFailed
				r.emitErr(ev, err)
				continue
			}
		}
		result.Deleted++
		ev.Kind = types.EventPruned
		r.emit(ev)
	}
}

// sourceAbsent reports a missing source directory, or a non-directory in
// its place. Other stat errors fall through to the listing, which reports
// them as failures.
func (r *Reconciler) sourceAbsent(path string) bool {
	info, err := r.fs.Stat(path)
	if err != nil {
		return isNotExist(err)
	}
	return !info.IsDir()
}

func (r *Reconciler) emitErr(ev types.Event, err error) {
	ev.Err = err
	var e *errors.Error
	if errors.As(err, &e) {
		ev.Reason = e.Reason()
	} else if err != nil {
		ev.Reason = err.Error()
	}
	r.emit(ev)
}

func (r *Reconciler) emit(ev types.Event) {
	if r.observer == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observer(ev)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
