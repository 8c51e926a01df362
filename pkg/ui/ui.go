// Package ui provides a unified interface for rendering output in different formats.
// It supports terminal (rich), text (plain), and JSON output formats.
package ui

import (
	"io"
	"os"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/reconcile"
	"github.com/arthur-debert/agentsync/pkg/tools"
	"github.com/arthur-debert/agentsync/pkg/types"
	"github.com/arthur-debert/agentsync/pkg/ui/json"
	"github.com/arthur-debert/agentsync/pkg/ui/terminal"
	"github.com/arthur-debert/agentsync/pkg/ui/text"
)

// Renderer is the common interface for all output renderers.
type Renderer interface {
	// Event receives reconciliation events as they happen. It has the
	// types.Observer signature; write errors surface in RenderSummary.
	Event(ev types.Event)

	// RenderSummary renders the combined outcome of a sync run
	RenderSummary(summary types.Summary) error

	// RenderStatus renders read-only inspections of jobs
	RenderStatus(inspections []reconcile.Inspection) error

	// RenderTools renders the tool path table
	RenderTools(table *tools.Table) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

var (
	_ Renderer = (*terminal.Renderer)(nil)
	_ Renderer = (*text.Renderer)(nil)
	_ Renderer = (*json.Renderer)(nil)
)

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		// Buffers and pipes get plain text
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return terminal.New(output)
	case FormatText:
		return text.New(output)
	case FormatJSON:
		return json.New(output)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}
