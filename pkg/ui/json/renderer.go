// Package json provides machine-readable JSON output
package json

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/reconcile"
	"github.com/arthur-debert/agentsync/pkg/tools"
	"github.com/arthur-debert/agentsync/pkg/types"
)

// Renderer provides JSON output for machine consumption. Events are
// buffered and written as part of the summary, so a sync run produces a
// single document.
type Renderer struct {
	output  io.Writer
	encoder *json.Encoder

	mu     sync.Mutex
	events []types.Event
}

// SyncDocument is the JSON shape of a sync run
type SyncDocument struct {
	types.Summary
	Events []types.Event `json:"events"`
}

// StatusDocument is the JSON shape of a status run
type StatusDocument struct {
	Jobs []reconcile.Inspection `json:"jobs"`
}

// ToolDocument describes one entry of the tool path table
type ToolDocument struct {
	Name string            `json:"name"`
	Dirs map[string]string `json:"dirs"`
}

// ErrorDocument is the JSON shape of a fatal error
type ErrorDocument struct {
	Error   string                 `json:"error"`
	Code    errors.ErrorCode       `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// New creates a new JSON renderer
func New(output io.Writer) (*Renderer, error) {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &Renderer{
		output:  output,
		encoder: encoder,
	}, nil
}

// Event buffers ev for the summary document
func (r *Renderer) Event(ev types.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// RenderSummary writes the summary and every buffered event
func (r *Renderer) RenderSummary(summary types.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := SyncDocument{Summary: summary, Events: r.events}
	if doc.Jobs == nil {
		doc.Jobs = []types.JobReport{}
	}
	if doc.Events == nil {
		doc.Events = []types.Event{}
	}
	r.events = nil
	return r.encoder.Encode(doc)
}

// RenderStatus writes every inspection
func (r *Renderer) RenderStatus(inspections []reconcile.Inspection) error {
	if inspections == nil {
		inspections = []reconcile.Inspection{}
	}
	return r.encoder.Encode(StatusDocument{Jobs: inspections})
}

// RenderTools writes the tool path table, sorted by name
func (r *Renderer) RenderTools(table *tools.Table) error {
	docs := []ToolDocument{}
	for _, name := range table.Names() {
		dirs := make(map[string]string)
		for _, kind := range table.Kinds(name) {
			dirs[kind], _ = table.Dir(name, kind)
		}
		docs = append(docs, ToolDocument{Name: name, Dirs: dirs})
	}
	return r.encoder.Encode(map[string]interface{}{"tools": docs})
}

// RenderError renders an error as JSON
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(ErrorDocument{
		Error:   errors.UserMessage(err),
		Code:    errors.GetErrorCode(err),
		Details: errors.GetErrorDetails(err),
	})
}

// RenderMessage renders a simple message as JSON
func (r *Renderer) RenderMessage(msg string) error {
	messageObj := map[string]string{
		"message": msg,
	}
	return r.encoder.Encode(messageObj)
}
