package tools

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/agentsync/pkg/config"
	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/logging"
	"github.com/arthur-debert/agentsync/pkg/types"
)

// Table maps tool names to their per-kind target directories. Directory
// values may still contain a leading ~.
type Table struct {
	tools map[string]map[string]string
}

// NewTable copies a tool map into a Table
func NewTable(tools map[string]map[string]string) *Table {
	t := &Table{tools: make(map[string]map[string]string, len(tools))}
	for name, kinds := range tools {
		dirs := make(map[string]string, len(kinds))
		for kind, dir := range kinds {
			dirs[kind] = dir
		}
		t.tools[name] = dirs
	}
	return t
}

// FromConfig builds the table from the configured tools
func FromConfig(cfg *config.Config) *Table {
	return NewTable(cfg.Tools)
}

// Names returns the tool names, sorted
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.tools))
	for name := range t.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dir returns the target directory of kind for tool
func (t *Table) Dir(tool, kind string) (string, bool) {
	dir, ok := t.tools[tool][kind]
	return dir, ok
}

// Kinds returns the kinds tool has a directory for, in build order
func (t *Table) Kinds(tool string) []string {
	var kinds []string
	for _, kind := range config.Kinds {
		if _, ok := t.tools[tool][kind]; ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// Validate checks that every name is a known tool. It reports the first
// unknown name together with the supported list.
func (t *Table) Validate(names []string) error {
	if len(names) == 0 {
		return errors.New(errors.ErrUnknownTool, "no target tool given").
			WithDetail("supported", t.Names())
	}
	for _, name := range names {
		if _, ok := t.tools[name]; !ok {
			return errors.Newf(errors.ErrUnknownTool, "unknown target tool %q (supported: %s)",
				name, strings.Join(t.Names(), ", ")).
				WithDetail("tool", name).
				WithDetail("supported", t.Names())
		}
	}
	return nil
}

// Expander resolves a configured path to an absolute one
type Expander func(path string) (string, error)

// BuildJobs validates every target name and then returns one job per
// (tool, kind) pair: tools in the given order, and within a tool the
// kinds of sel in order. A tool without a directory for a selected kind
// contributes no job for that kind. No two jobs may share a target
// directory; such a table is rejected with ErrConfigValid.
func BuildJobs(table *Table, sourceRoot string, names []string, sel Selection, expand Expander) ([]types.Job, error) {
	logger := logging.GetLogger("tools")

	if err := table.Validate(names); err != nil {
		return nil, err
	}
	kinds := sel.Kinds()
	if len(kinds) == 0 {
		return nil, errors.Newf(errors.ErrInvalidSelection, "invalid type %q", string(sel))
	}

	root, err := expand(sourceRoot)
	if err != nil {
		return nil, err
	}

	var jobs []types.Job
	owners := make(map[string]string)
	for _, name := range names {
		for _, kind := range kinds {
			dir, ok := table.Dir(name, kind)
			if !ok {
				logger.Debug().Str("tool", name).Str("kind", kind).Msg("tool has no directory for kind")
				continue
			}
			target, err := expand(dir)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigValid, "tool %q: bad %s directory", name, kind)
			}
			label := name + "/" + kind
			key := filepath.Clean(target)
			if owner, taken := owners[key]; taken {
				return nil, errors.Newf(errors.ErrConfigValid, "%s and %s share the target directory %s", owner, label, target).
					WithDetail("target", target)
			}
			owners[key] = label
			jobs = append(jobs, types.Job{
				Label:     label,
				SourceDir: filepath.Join(root, kind),
				TargetDir: target,
			})
		}
	}

	logger.Debug().Int("jobs", len(jobs)).Strs("tools", names).Str("type", string(sel)).Msg("built jobs")
	return jobs, nil
}
