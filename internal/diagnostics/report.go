package diagnostics

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/glyphlang/glyph/internal/core"
)

// Note is one entry of the enclosing-context stack ("In expression …",
// "In function f", "In instance C τ") recorded via push_note at the
// time a diagnostic was raised.
type Note struct {
	Text string    `json:"text"`
	Span core.Pos  `json:"span"`
}

// Diagnostic is the canonical structured error/warning value this
// checker produces. Every local mismatch is recorded as one of these and
// appended to a Collector; the engine never unwinds for it.
type Diagnostic struct {
	Schema  string         `json:"schema"`
	ID      string         `json:"id"`
	Kind    Kind           `json:"kind"`
	Message string         `json:"message"`
	Span    core.Pos       `json:"span"`
	Notes   []Note         `json:"notes,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

const schema = "glyph.typecheck.diagnostic/v1"

// New constructs a Diagnostic with a fresh correlation id.
func New(kind Kind, span core.Pos, message string, args ...any) *Diagnostic {
	return &Diagnostic{
		Schema:  schema,
		ID:      uuid.NewString(),
		Kind:    kind,
		Message: fmt.Sprintf(message, args...),
		Span:    span,
		Data:    map[string]any{},
	}
}

// WithNote appends one context note and returns the same Diagnostic for
// chaining at the construction site.
func (d *Diagnostic) WithNote(text string, span core.Pos) *Diagnostic {
	d.Notes = append(d.Notes, Note{Text: text, Span: span})
	return d
}

// WithData attaches one structured data field (e.g. the offending class
// name, the competing instance dfuns).
func (d *Diagnostic) WithData(key string, value any) *Diagnostic {
	d.Data[key] = value
	return d
}

func (d *Diagnostic) Error() string {
	return string(d.Kind) + ": " + d.Message
}

// ToJSON renders the diagnostic deterministically.
func (d *Diagnostic) ToJSON(indent bool) (string, error) {
	var data []byte
	var err error
	if indent {
		data, err = json.MarshalIndent(d, "", "  ")
	} else {
		data, err = json.Marshal(d)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
