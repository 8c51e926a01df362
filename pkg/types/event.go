package types

// EventKind identifies what happened to an entry during reconciliation
type EventKind string

const (
	// EventJobStart is emitted before a job's first entry is examined
	EventJobStart EventKind = "job_start"
	// EventSourceDirAbsent is emitted when a job's source directory is missing
	EventSourceDirAbsent EventKind = "source_dir_absent"
	// EventCreated is emitted after a link was created
	EventCreated EventKind = "created"
	// EventSkipped is emitted for a target that is already a valid link
	EventSkipped EventKind = "skipped"
	// EventConflict is emitted for a foreign entry occupying a link name
	EventConflict EventKind = "conflict"
	// EventStaleRemoved is emitted when a broken link is removed before
	// being recreated
	EventStaleRemoved EventKind = "stale_removed"
	// EventPruned is emitted when the sweep removes a broken link
	EventPruned EventKind = "pruned"
	// EventFailed is emitted when a filesystem operation failed
	EventFailed EventKind = "failed"
)

// Event is a structured record of a single reconciliation step. Renderers
// turn events into progress lines; the engine never prints.
type Event struct {
	Kind   EventKind `json:"kind"`
	Job    string    `json:"job"`
	Source string    `json:"source,omitempty"`
	Target string    `json:"target,omitempty"`
	DryRun bool      `json:"dry_run,omitempty"`
	// Err carries the failure for EventFailed and EventConflict
	Err error `json:"-"`
	// Reason is Err rendered for serialization
	Reason string `json:"reason,omitempty"`
}

// Observer receives events as they happen
type Observer func(Event)
