// Package types defines the core types and interfaces shared by the
// agentsync packages: the filesystem abstraction, link classifications,
// reconciliation jobs, their counters and the events emitted while a job
// runs.
package types
