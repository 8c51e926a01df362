package tools

import (
	"strings"

	"github.com/arthur-debert/agentsync/pkg/config"
	"github.com/arthur-debert/agentsync/pkg/errors"
)

// Selection is the --type value: which kinds to reconcile
type Selection string

const (
	SelectCommands Selection = "commands"
	SelectSkills   Selection = "skills"
	SelectBoth     Selection = "both"
)

// Selections lists the accepted values, for help and completion
var Selections = []Selection{SelectCommands, SelectSkills, SelectBoth}

// ParseSelection validates a --type value
func ParseSelection(s string) (Selection, error) {
	sel := Selection(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range Selections {
		if sel == v {
			return sel, nil
		}
	}
	return "", errors.Newf(errors.ErrInvalidSelection, "invalid type %q: want commands, skills or both", s).
		WithDetail("type", s)
}

// Kinds returns the kinds covered by the selection, commands first
func (s Selection) Kinds() []string {
	switch s {
	case SelectCommands:
		return []string{config.KindCommands}
	case SelectSkills:
		return []string{config.KindSkills}
	case SelectBoth:
		return []string{config.KindCommands, config.KindSkills}
	default:
		return nil
	}
}

// ParseTargets splits a comma-separated --target value. Names are trimmed
// and repeated names are kept once, in first-seen order. Empty names are
// kept so validation reports them.
func ParseTargets(value string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(value, ",") {
		name := strings.TrimSpace(part)
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
