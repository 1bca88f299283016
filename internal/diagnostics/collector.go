package diagnostics

import (
	"github.com/glyphlang/glyph/internal/core"
)

// Collector is the shared, accumulating error sink threaded through the
// computation. It never unwinds the whole inference for one local
// mismatch; it records and lets the caller continue on a best-effort
// basis so multiple errors can be reported in one pass.
type Collector struct {
	diags []*Diagnostic
	stack []Note
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// PushNote pushes one context note (e.g. "In function f") onto the
// scoped stack; the returned func pops it. Call sites use
// `defer c.PushNote(...)()` so the note is released on every exit path,
// including an early-error return — this is the "guaranteed release on
// all exit paths" resource discipline from the concurrency model.
func (c *Collector) PushNote(text string, span core.Pos) func() {
	c.stack = append(c.stack, Note{Text: text, Span: span})
	depth := len(c.stack)
	return func() {
		if len(c.stack) >= depth {
			c.stack = c.stack[:depth-1]
		}
	}
}

// Report records a diagnostic, stamping it with the current context
// stack bottom-up so rendering reproduces the enclosing contexts in the
// conventional compiler order.
func (c *Collector) Report(d *Diagnostic) {
	d.Notes = append(append([]Note{}, c.stack...), d.Notes...)
	c.diags = append(c.diags, d)
}

// Diagnostics returns every diagnostic recorded so far.
func (c *Collector) Diagnostics() []*Diagnostic {
	return c.diags
}

// HasErrors reports whether anything was recorded; a module with any
// diagnostic poisons its output for the downstream code generator.
func (c *Collector) HasErrors() bool {
	return len(c.diags) > 0
}
