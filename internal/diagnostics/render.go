package diagnostics

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	kindColor = color.New(color.FgRed, color.Bold)
	spanColor = color.New(color.FgCyan)
	noteColor = color.New(color.FgYellow)
)

// Render formats a diagnostic for terminal output the way the REPL this
// checker's CLI descends from colorizes its own errors: a bold red kind
// and message, a cyan span, and the context-note stack reproduced
// bottom-up in yellow.
func Render(d *Diagnostic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", kindColor.Sprint(string(d.Kind)), d.Message)
	fmt.Fprintf(&b, "  %s %s\n", spanColor.Sprint("at"), d.Span)
	for i := len(d.Notes) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "  %s %s (%s)\n", noteColor.Sprint("note:"), d.Notes[i].Text, d.Notes[i].Span)
	}
	return b.String()
}

// RenderAll formats every diagnostic in a collector, in report order.
func RenderAll(c *Collector) string {
	var b strings.Builder
	for _, d := range c.Diagnostics() {
		b.WriteString(Render(d))
	}
	return b.String()
}
