// Package format holds the wording shared by the text and terminal
// renderers, so both describe events and actions the same way.
package format

import (
	"fmt"

	"github.com/arthur-debert/agentsync/pkg/reconcile"
	"github.com/arthur-debert/agentsync/pkg/types"
)

// Status markers
const (
	SymbolOK    = "✓"
	SymbolError = "✗"
	SymbolWarn  = "⚠"
)

// Tone groups lines for styling
type Tone int

const (
	ToneOK Tone = iota
	ToneWarn
	ToneError
	ToneMuted
)

// Line is one progress line: a marker, a verb, the path concerned and an
// optional trailing detail
type Line struct {
	Symbol string
	Verb   string
	Path   string
	Detail string
	Tone   Tone
}

// String renders the line without styling
func (l Line) String() string {
	s := fmt.Sprintf("%s %s: %s", l.Symbol, l.Verb, l.Path)
	if l.Detail != "" {
		s += " " + l.Detail
	}
	return s
}

// EventLine describes ev. Job starts have no line and return false.
func EventLine(ev types.Event) (Line, bool) {
	switch ev.Kind {
	case types.EventCreated:
		return Line{SymbolOK, verb(ev.DryRun, "created", "would create"), ev.Target, "-> " + ev.Source, ToneOK}, true
	case types.EventSkipped:
		return Line{SymbolOK, "skipped", ev.Target, "(valid link)", ToneMuted}, true
	case types.EventConflict:
		return Line{SymbolWarn, "skipped", ev.Target, "(exists and is not a symlink)", ToneWarn}, true
	case types.EventStaleRemoved:
		return Line{SymbolError, verb(ev.DryRun, "removed broken link", "would remove broken link"), ev.Target, "", ToneWarn}, true
	case types.EventPruned:
		return Line{SymbolError, verb(ev.DryRun, "pruned broken link", "would prune broken link"), ev.Target, "", ToneWarn}, true
	case types.EventSourceDirAbsent:
		return Line{SymbolError, "source directory missing", ev.Source, "", ToneError}, true
	case types.EventFailed:
		path := ev.Target
		if path == "" {
			path = ev.Source
		}
		detail := ""
		if ev.Reason != "" {
			detail = "(" + ev.Reason + ")"
		}
		return Line{SymbolError, "failed", path, detail, ToneError}, true
	default:
		return Line{}, false
	}
}

// JobHeader is the title printed before a job's lines
func JobHeader(job types.Job, dryRun bool) string {
	header := fmt.Sprintf("[%s] %s -> %s", job.String(), job.SourceDir, job.TargetDir)
	if dryRun {
		header += " (dry run)"
	}
	return header
}

// ActionTone picks the tone of a status row
func ActionTone(a reconcile.Action) Tone {
	switch a {
	case reconcile.ActionKeep:
		return ToneOK
	case reconcile.ActionCreate, reconcile.ActionRepair, reconcile.ActionPrune:
		return ToneWarn
	case reconcile.ActionConflict:
		return ToneError
	default:
		return ToneMuted
	}
}

// EntryDetail is the trailing note of a status row
func EntryDetail(e reconcile.EntryStatus) string {
	switch {
	case e.Action == reconcile.ActionConflict:
		return fmt.Sprintf("(%s in the way)", kindName(e.Probe.Kind))
	case e.Elsewhere:
		return fmt.Sprintf("(-> %s, outside source)", e.Probe.ResolvedTarget)
	case e.Action == reconcile.ActionNone:
		return fmt.Sprintf("(unmanaged %s)", kindName(e.Probe.Kind))
	case e.Probe.State == types.LinkBroken && e.Probe.LinkText != "":
		return fmt.Sprintf("(-> %s, missing)", e.Probe.LinkText)
	default:
		return ""
	}
}

// TotalRows returns the labelled counters of the final summary
func TotalRows(r types.Result) [][2]string {
	return [][2]string{
		{"created", fmt.Sprint(r.Created)},
		{"skipped", fmt.Sprint(r.Skipped)},
		{"deleted", fmt.Sprintf("%d (broken links)", r.Deleted)},
		{"failed", fmt.Sprint(r.Failed)},
	}
}

func kindName(k types.EntryKind) string {
	switch k {
	case types.KindDir:
		return "directory"
	case types.KindFile:
		return "file"
	case types.KindSymlink:
		return "link"
	default:
		return "entry"
	}
}

func verb(dryRun bool, done, planned string) string {
	if dryRun {
		return planned
	}
	return done
}
