// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"sync"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/reconcile"
	"github.com/arthur-debert/agentsync/pkg/tools"
	"github.com/arthur-debert/agentsync/pkg/types"
	"github.com/arthur-debert/agentsync/pkg/ui/format"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer

	mu   sync.Mutex
	jobs int
	err  error
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// Event prints one line per event, with a header before each job
func (r *Renderer) Event(ev types.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ev.Kind == types.EventJobStart {
		if r.jobs > 0 {
			r.printf("\n")
		}
		r.jobs++
		r.printf("%s\n", format.JobHeader(types.Job{Label: ev.Job, SourceDir: ev.Source, TargetDir: ev.Target}, false))
		return
	}
	if line, ok := format.EventLine(ev); ok {
		r.printf("  %s\n", line)
	}
}

// RenderSummary prints the totals
func (r *Renderer) RenderSummary(summary types.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	title := "Total:"
	if summary.DryRun {
		title = "Total (dry run):"
	}
	r.printf("\n%s\n", title)
	for _, row := range format.TotalRows(summary.Total) {
		r.printf("  %-8s %s\n", row[0]+":", row[1])
	}
	return r.err
}

// RenderStatus prints one block per job and one row per entry
func (r *Renderer) RenderStatus(inspections []reconcile.Inspection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, in := range inspections {
		if i > 0 {
			r.printf("\n")
		}
		r.printf("%s\n", format.JobHeader(in.Job, false))
		if in.SourceAbsent {
			r.printf("  %s source directory missing\n", format.SymbolError)
			continue
		}
		if len(in.Entries) == 0 {
			r.printf("  (empty)\n")
			continue
		}
		for _, e := range in.Entries {
			row := fmt.Sprintf("  %-9s %s", e.Action, e.Name)
			if detail := format.EntryDetail(e); detail != "" {
				row += " " + detail
			}
			r.printf("%s\n", row)
		}
	}
	return r.err
}

// RenderTools prints the tool path table
func (r *Renderer) RenderTools(table *tools.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range table.Names() {
		r.printf("%s\n", name)
		for _, kind := range table.Kinds(name) {
			dir, _ := table.Dir(name, kind)
			r.printf("  %-9s %s\n", kind, dir)
		}
	}
	return r.err
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("%s Error: %s\n", format.SymbolError, errors.UserMessage(err))
	return r.err
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("%s\n", msg)
	return r.err
}

// printf keeps the first write error and stops writing after it
func (r *Renderer) printf(f string, args ...interface{}) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.output, f, args...)
}
