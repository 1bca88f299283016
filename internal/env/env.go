// Package env implements the three persistent, scoped environments the
// checker threads through inference: the global value environment (name
// to polytype), the class environment, and the instance environment.
// Each is extended functionally — a child scope layers new bindings over
// a parent and never mutates it, matching the teacher's own
// internal/types/env.go TypeEnv parent-chain design.
package env

import (
	"golang.org/x/text/unicode/norm"

	"github.com/glyphlang/glyph/internal/types"
)

// normalizeName applies canonical (NFC) Unicode normalization to an
// identifier before it is used as a map key, so that two source
// spellings of the same combining-character sequence compare equal the
// same way the front end's lexer already guarantees for raw identifiers.
func normalizeName(name string) string {
	return norm.NFC.String(name)
}

// GVE is the global value environment: name -> polytype.
type GVE struct {
	bindings map[string]types.Type
	parent   *GVE
}

// NewGVE returns an empty, root environment.
func NewGVE() *GVE {
	return &GVE{bindings: map[string]types.Type{}}
}

// Lookup searches this scope and then its ancestors.
func (g *GVE) Lookup(name string) (types.Type, bool) {
	name = normalizeName(name)
	for e := g; e != nil; e = e.parent {
		if t, ok := e.bindings[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// Extend returns a new child scope with name bound to t, leaving the
// receiver untouched.
func (g *GVE) Extend(name string, t types.Type) *GVE {
	return &GVE{bindings: map[string]types.Type{normalizeName(name): t}, parent: g}
}

// ExtendMany layers several bindings at once in a single child scope —
// used by the generalizer when publishing an entire binding group.
func (g *GVE) ExtendMany(binds map[string]types.Type) *GVE {
	child := &GVE{bindings: make(map[string]types.Type, len(binds)), parent: g}
	for k, v := range binds {
		child.bindings[normalizeName(k)] = v
	}
	return child
}

// Names returns every name visible in this scope and its ancestors,
// de-duplicated with the innermost binding winning.
func (g *GVE) Names() []string {
	seen := map[string]bool{}
	var out []string
	for e := g; e != nil; e = e.parent {
		for k := range e.bindings {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}
