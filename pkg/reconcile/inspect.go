package reconcile

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/agentsync/pkg/types"
)

// Action is what a reconciliation pass would do with one target entry
type Action string

const (
	ActionCreate   Action = "create"
	ActionKeep     Action = "keep"
	ActionRepair   Action = "repair"
	ActionConflict Action = "conflict"
	ActionPrune    Action = "prune"
	ActionNone     Action = "none"
)

// EntryStatus describes one name in a job's target directory
type EntryStatus struct {
	Name  string      `json:"name"`
	Probe types.Probe `json:"probe"`
	// InSource is set when the name is a directory child of the source
	InSource bool   `json:"in_source"`
	Action   Action `json:"action"`
	// Elsewhere flags a valid link that resolves outside the source directory
	Elsewhere bool `json:"elsewhere,omitempty"`
}

// Inspection is the read-only view of one job
type Inspection struct {
	Job          types.Job     `json:"job"`
	SourceAbsent bool          `json:"source_absent,omitempty"`
	Entries      []EntryStatus `json:"entries"`
}

// Inspect classifies every name a reconciliation of job would look at,
// without changing anything
func (r *Reconciler) Inspect(job types.Job) (Inspection, error) {
	inspection := Inspection{Job: job}
	if r.sourceAbsent(job.SourceDir) {
		inspection.SourceAbsent = true
		return inspection, nil
	}

	names, err := r.linkableChildren(job.SourceDir)
	if err != nil {
		return inspection, err
	}

	sourceRoot := job.SourceDir
	if resolved, err := r.fs.EvalSymlinks(job.SourceDir); err == nil {
		sourceRoot = resolved
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[name] = true
		probe := r.linker.Classify(filepath.Join(job.TargetDir, name))
		status := EntryStatus{
			Name:     name,
			Probe:    probe,
			InSource: true,
			Action:   forwardAction(probe.State),
		}
		if probe.State == types.LinkValid && !within(probe.ResolvedTarget, sourceRoot) {
			status.Elsewhere = true
		}
		inspection.Entries = append(inspection.Entries, status)
	}

	if entries, err := r.fs.ReadDir(job.TargetDir); err == nil {
		for _, entry := range entries {
			if seen[entry.Name()] {
				continue
			}
			probe := r.linker.Classify(filepath.Join(job.TargetDir, entry.Name()))
			action := ActionNone
			if probe.State == types.LinkBroken {
				action = ActionPrune
			}
			inspection.Entries = append(inspection.Entries, EntryStatus{
				Name:   entry.Name(),
				Probe:  probe,
				Action: action,
			})
		}
	} else if !isNotExist(err) {
		return inspection, err
	}

	sort.Slice(inspection.Entries, func(i, j int) bool {
		return inspection.Entries[i].Name < inspection.Entries[j].Name
	})
	return inspection, nil
}

func forwardAction(state types.LinkState) Action {
	switch state {
	case types.LinkAbsent:
		return ActionCreate
	case types.LinkValid:
		return ActionKeep
	case types.LinkBroken:
		return ActionRepair
	default:
		return ActionConflict
	}
}

func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
