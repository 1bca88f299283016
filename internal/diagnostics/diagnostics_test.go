package diagnostics

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/glyphlang/glyph/internal/core"
)

func TestCollectorAccumulatesWithoutUnwinding(t *testing.T) {
	c := NewCollector()
	c.Report(New(TypeMismatch, core.Pos{Line: 1}, "expected %s, got %s", "Int", "Bool"))
	c.Report(New(AmbiguousType, core.Pos{Line: 2}, "ambiguous type"))

	if !c.HasErrors() {
		t.Fatalf("expected HasErrors to be true after reporting")
	}
	if len(c.Diagnostics()) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(c.Diagnostics()))
	}
}

func TestPushNoteReleasedOnDefer(t *testing.T) {
	c := NewCollector()
	func() {
		pop := c.PushNote("In function f", core.Pos{Line: 1})
		defer pop()
		c.Report(New(OccursCheck, core.Pos{Line: 1}, "occurs check failed"))
	}()

	d := c.Diagnostics()[0]
	if len(d.Notes) != 1 || d.Notes[0].Text != "In function f" {
		t.Fatalf("expected the diagnostic to carry the enclosing note, got %+v", d.Notes)
	}

	// after the deferred pop, a fresh report must not carry the stale note.
	c.Report(New(OccursCheck, core.Pos{Line: 2}, "second error"))
	second := c.Diagnostics()[1]
	if len(second.Notes) != 0 {
		t.Fatalf("expected the popped note to not leak into a later diagnostic, got %+v", second.Notes)
	}
}

func TestDiagnosticJSONRoundTrips(t *testing.T) {
	d := New(NoInstance, core.Pos{Line: 4, Col: 2}, "no instance for %s", "Show a")
	js, err := d.ToJSON(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(js, string(NoInstance)) {
		t.Fatalf("expected the rendered JSON to contain the kind, got %s", js)
	}
	var back Diagnostic
	if err := json.Unmarshal([]byte(js), &back); err != nil {
		t.Fatalf("unexpected error decoding %s: %v", js, err)
	}
	if back.Kind != d.Kind || back.Message != d.Message || back.ID != d.ID || back.Span != d.Span {
		t.Fatalf("expected the decoded diagnostic to match the original, got %+v", back)
	}
}

func TestRenderIncludesKindAndSpan(t *testing.T) {
	d := New(EscapingSkolem, core.Pos{Line: 7}, "skolem escaped")
	out := Render(d)
	if !strings.Contains(out, "skolem escaped") {
		t.Fatalf("expected rendered output to contain the message, got %s", out)
	}
	if !strings.Contains(out, string(EscapingSkolem)) {
		t.Fatalf("expected rendered output to contain the kind, got %s", out)
	}
	if !strings.Contains(out, d.Span.String()) {
		t.Fatalf("expected rendered output to contain the span, got %s", out)
	}
}
