package links

import (
	"io/fs"
	"path/filepath"
	"syscall"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/logging"
	"github.com/arthur-debert/agentsync/pkg/types"
	"github.com/rs/zerolog"
)

// dirPerm is used for target ancestors created on demand
const dirPerm = 0755

// Outcome describes what CreateLink did when it succeeded
type Outcome int

const (
	// OutcomeCreated means a new link was written
	OutcomeCreated Outcome = iota
	// OutcomeSatisfied means a valid link was already in place
	OutcomeSatisfied
)

// Linker inspects and creates symlinks through a types.FS
type Linker struct {
	fs     types.FS
	logger zerolog.Logger
}

// NewLinker creates a new Linker
func NewLinker(fsys types.FS) *Linker {
	return &Linker{
		fs:     fsys,
		logger: logging.GetLogger("links"),
	}
}

// Classify reports what occupies path without changing anything. A
// dangling link is an ordinary LinkBroken result, never an error.
func (l *Linker) Classify(path string) types.Probe {
	probe := types.Probe{Path: path}

	info, err := l.fs.Lstat(path)
	if err != nil {
		if isNotExist(err) {
			probe.State = types.LinkAbsent
			return probe
		}
		// Something is there that we cannot inspect; never treat it as ours
		l.logger.Debug().Err(err).Str("path", path).Msg("lstat failed, treating as foreign")
		probe.State = types.LinkForeign
		probe.Kind = types.KindOther
		return probe
	}

	if info.Mode()&fs.ModeSymlink == 0 {
		probe.State = types.LinkForeign
		probe.Kind = kindOf(info)
		return probe
	}

	probe.Kind = types.KindSymlink
	if text, err := l.fs.Readlink(path); err == nil {
		probe.LinkText = text
	}

	resolved, err := l.fs.EvalSymlinks(path)
	if err != nil {
		l.logger.Trace().Err(err).Str("path", path).Msg("link does not resolve")
		probe.State = types.LinkBroken
		return probe
	}
	if _, err := l.fs.Stat(resolved); err != nil {
		probe.State = types.LinkBroken
		return probe
	}

	probe.State = types.LinkValid
	probe.ResolvedTarget = resolved
	return probe
}

// CreateLink makes target a symlink to source.
//
// An existing valid link is left alone (OutcomeSatisfied). A broken link is
// replaced. A foreign entry is never touched and yields ErrConflict. A
// missing source yields ErrMissingSource. Failures of the link primitive
// itself, or of creating target's parent directories, yield ErrCreateFailed.
func (l *Linker) CreateLink(source, target string) (Outcome, error) {
	probe := l.Classify(target)
	switch probe.State {
	case types.LinkValid:
		l.logger.Debug().
			Str("target", target).
			Str("resolved", probe.ResolvedTarget).
			Msg("valid link already in place")
		return OutcomeSatisfied, nil
	case types.LinkBroken:
		if err := l.RemoveLink(target); err != nil {
			return OutcomeCreated, err
		}
	case types.LinkForeign:
		return OutcomeCreated, errors.Newf(errors.ErrConflict, "%s exists and is not a symlink", target).
			WithDetail("target", target).
			WithDetail("kind", string(probe.Kind))
	}

	if _, err := l.fs.Stat(source); err != nil {
		return OutcomeCreated, errors.Wrapf(err, errors.ErrMissingSource, "source %s does not exist", source).
			WithDetail("source", source)
	}

	if err := l.fs.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return OutcomeCreated, errors.Wrapf(err, errors.ErrCreateFailed, "failed to create parent of %s", target).
			WithDetail("target", target)
	}

	if err := l.fs.Symlink(source, target); err != nil {
		return OutcomeCreated, errors.Wrapf(err, errors.ErrCreateFailed, "failed to link %s -> %s", target, source).
			WithDetail("source", source).
			WithDetail("target", target)
	}

	l.logger.Info().
		Str("target", target).
		Str("source", source).
		Msg("created symlink")
	return OutcomeCreated, nil
}

// RemoveLink deletes the symlink at path. It refuses to delete anything
// that is not a symlink at the moment of the call; the window between that
// check and the removal is not guarded.
func (l *Linker) RemoveLink(path string) error {
	info, err := l.fs.Lstat(path)
	if err != nil {
		if isNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrRemoveFailed, "cannot inspect %s", path)
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return errors.Newf(errors.ErrConflict, "refusing to remove %s: not a symlink", path).
			WithDetail("target", path)
	}

	if err := l.fs.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, errors.ErrRemoveFailed, "failed to remove stale link %s", path).
			WithDetail("target", path)
	}

	l.logger.Info().Str("path", path).Msg("removed stale symlink")
	return nil
}

// isNotExist also accepts ENOTDIR: a file occupying an ancestor means
// nothing can exist at the path itself
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

func kindOf(info fs.FileInfo) types.EntryKind {
	switch {
	case info.IsDir():
		return types.KindDir
	case info.Mode().IsRegular():
		return types.KindFile
	default:
		return types.KindOther
	}
}
