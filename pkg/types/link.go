package types

import "fmt"

// LinkState is the classification of a single filesystem path
type LinkState int

const (
	// LinkAbsent means nothing exists at the path
	LinkAbsent LinkState = iota
	// LinkValid is a symlink whose fully resolved target exists
	LinkValid
	// LinkBroken is a symlink whose target is missing or cannot be resolved
	LinkBroken
	// LinkForeign is a real file, directory or other non-link object
	LinkForeign
)

// String returns the lowercase name of the state
func (s LinkState) String() string {
	switch s {
	case LinkAbsent:
		return "absent"
	case LinkValid:
		return "valid"
	case LinkBroken:
		return "broken"
	case LinkForeign:
		return "foreign"
	default:
		return fmt.Sprintf("LinkState(%d)", int(s))
	}
}

// MarshalText lets LinkState appear by name in JSON output
func (s LinkState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// EntryKind describes what occupies a path, independent of link health
type EntryKind string

const (
	KindNone    EntryKind = ""
	KindDir     EntryKind = "dir"
	KindFile    EntryKind = "file"
	KindSymlink EntryKind = "symlink"
	KindOther   EntryKind = "other"
)

// Probe is the result of classifying a path
type Probe struct {
	Path  string    `json:"path"`
	State LinkState `json:"state"`
	Kind  EntryKind `json:"kind,omitempty"`

	// ResolvedTarget is the final path a valid link resolves to
	ResolvedTarget string `json:"resolved_target,omitempty"`
	// LinkText is the raw value stored in a symlink, when readable
	LinkText string `json:"link_text,omitempty"`
}

// Exists reports whether anything occupies the probed path
func (p Probe) Exists() bool {
	return p.State != LinkAbsent
}

// IsLink reports whether the probed path is a symlink, healthy or not
func (p Probe) IsLink() bool {
	return p.State == LinkValid || p.State == LinkBroken
}
