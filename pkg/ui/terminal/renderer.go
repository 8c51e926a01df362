// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"sync"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/reconcile"
	"github.com/arthur-debert/agentsync/pkg/tools"
	"github.com/arthur-debert/agentsync/pkg/types"
	"github.com/arthur-debert/agentsync/pkg/ui/format"
	"github.com/charmbracelet/lipgloss"
)

// Renderer provides styled terminal output. Colors adapt to the light or
// dark background of the terminal behind output.
type Renderer struct {
	output io.Writer
	styles *Styles

	mu   sync.Mutex
	jobs int
	err  error
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	return &Renderer{
		output: w,
		styles: DefaultStyles(lipgloss.NewRenderer(w)),
	}, nil
}

// NewWithStyles creates a terminal renderer with explicit styles
func NewWithStyles(w io.Writer, styles *Styles) *Renderer {
	return &Renderer{output: w, styles: styles}
}

// Event prints one styled line per event, with a header before each job
func (r *Renderer) Event(ev types.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ev.Kind == types.EventJobStart {
		if r.jobs > 0 {
			r.println("")
		}
		r.jobs++
		job := types.Job{Label: ev.Job, SourceDir: ev.Source, TargetDir: ev.Target}
		r.println(r.styles.Get("Header").Render(format.JobHeader(job, false)))
		return
	}

	line, ok := format.EventLine(ev)
	if !ok {
		return
	}
	tone := r.tone(line.Tone)
	text := fmt.Sprintf("  %s %s %s", tone.Render(line.Symbol), tone.Render(line.Verb+":"), line.Path)
	if line.Detail != "" {
		text += " " + r.styles.Get("Muted").Render(line.Detail)
	}
	r.println(text)
}

// RenderSummary prints the totals, highlighting failures
func (r *Renderer) RenderSummary(summary types.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	title := "Total"
	if summary.DryRun {
		title = "Total (dry run)"
	}
	r.println("")
	r.println(r.styles.Get("Header").Render(title))

	for _, row := range format.TotalRows(summary.Total) {
		value := row[1]
		if row[0] == "failed" && summary.Total.Failed > 0 {
			value = r.styles.Get("Error").Render(value)
		}
		r.println("  " + r.styles.Get("Label").Render(row[0]) + value)
	}
	return r.err
}

// RenderStatus prints one block per job and one row per entry
func (r *Renderer) RenderStatus(inspections []reconcile.Inspection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, in := range inspections {
		if i > 0 {
			r.println("")
		}
		r.println(r.styles.Get("Header").Render(format.JobHeader(in.Job, false)))
		if in.SourceAbsent {
			r.println("  " + r.styles.Get("Error").Render(format.SymbolError+" source directory missing"))
			continue
		}
		if len(in.Entries) == 0 {
			r.println("  " + r.styles.Get("Muted").Render("(empty)"))
			continue
		}
		for _, e := range in.Entries {
			label := r.tone(format.ActionTone(e.Action)).Inherit(r.styles.Get("Label")).Render(string(e.Action))
			row := "  " + label + e.Name
			if detail := format.EntryDetail(e); detail != "" {
				row += " " + r.styles.Get("Muted").Render(detail)
			}
			r.println(row)
		}
	}
	return r.err
}

// RenderTools prints the tool path table
func (r *Renderer) RenderTools(table *tools.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range table.Names() {
		r.println(r.styles.Get("Header").Render(name))
		for _, kind := range table.Kinds(name) {
			dir, _ := table.Dir(name, kind)
			r.println("  " + r.styles.Get("Label").Render(kind) + dir)
		}
	}
	return r.err
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.println(r.styles.Get("Error").Render(format.SymbolError+" Error: ") + errors.UserMessage(err))
	return r.err
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.println(msg)
	return r.err
}

func (r *Renderer) tone(t format.Tone) lipgloss.Style {
	switch t {
	case format.ToneOK:
		return r.styles.Get("Success")
	case format.ToneWarn:
		return r.styles.Get("Warning")
	case format.ToneError:
		return r.styles.Get("Error")
	default:
		return r.styles.Get("Muted")
	}
}

func (r *Renderer) println(s string) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintln(r.output, s)
}
