package types

import "fmt"

// Job is one (source directory, target directory) pair to reconcile.
// Paths are absolute and already expanded.
type Job struct {
	Label     string `json:"label"`
	SourceDir string `json:"source_dir"`
	TargetDir string `json:"target_dir"`
}

// String returns the job label, falling back to the target directory
func (j Job) String() string {
	if j.Label != "" {
		return j.Label
	}
	return j.TargetDir
}

// Result holds the counters of a reconciliation pass. Results are additive.
type Result struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

// Add accumulates other into r
func (r *Result) Add(other Result) {
	r.Created += other.Created
	r.Skipped += other.Skipped
	r.Deleted += other.Deleted
	r.Failed += other.Failed
}

// IsZero reports whether no counter was incremented
func (r Result) IsZero() bool {
	return r == Result{}
}

// String formats the counters on one line
func (r Result) String() string {
	return fmt.Sprintf("created=%d skipped=%d deleted=%d failed=%d",
		r.Created, r.Skipped, r.Deleted, r.Failed)
}

// JobReport is the outcome of one job
type JobReport struct {
	Job    Job    `json:"job"`
	Result Result `json:"result"`
	// SourceAbsent is set when the job short-circuited because its source
	// directory does not exist
	SourceAbsent bool `json:"source_absent,omitempty"`
}

// Summary is the combined outcome of a run
type Summary struct {
	RunID  string      `json:"run_id,omitempty"`
	DryRun bool        `json:"dry_run,omitempty"`
	Jobs   []JobReport `json:"jobs"`
	Total  Result      `json:"total"`
}

// HasFailures reports whether any job recorded a failure
func (s Summary) HasFailures() bool {
	return s.Total.Failed > 0
}
