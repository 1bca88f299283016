package env

import "github.com/glyphlang/glyph/internal/types"

// SuperclassExtractor names the projection used to pull a superclass's
// dictionary out of a subclass's dictionary (e.g. "eqOfOrd" on Ord -> Eq).
type SuperclassExtractor struct {
	Superclass string
	Extractor  string
}

// ClassInfo is everything the checker needs to know about a declared
// class: its type parameter, superclasses, member signatures, and any
// default method bodies.
type ClassInfo struct {
	Name         string
	TypeVar      string
	Superclasses []SuperclassExtractor
	Context      []types.QualPred
	// Members maps method name to its polytype, with TypeVar free so it
	// can be instantiated at the member's use site.
	Members map[string]types.Type
	// Defaultable marks classes (Num, Show, ...) whose residual,
	// otherwise-ambiguous predicates the defaulting pass may resolve.
	Defaultable bool
}

// ClassEnv is the persistent, scoped class-name -> ClassInfo mapping.
type ClassEnv struct {
	classes map[string]*ClassInfo
	parent  *ClassEnv
}

// NewClassEnv returns an empty root class environment.
func NewClassEnv() *ClassEnv {
	return &ClassEnv{classes: map[string]*ClassInfo{}}
}

// Lookup searches this scope and its ancestors.
func (c *ClassEnv) Lookup(name string) (*ClassInfo, bool) {
	for e := c; e != nil; e = e.parent {
		if info, ok := e.classes[name]; ok {
			return info, true
		}
	}
	return nil, false
}

// Extend returns a new child scope with info registered under its name.
func (c *ClassEnv) Extend(info *ClassInfo) *ClassEnv {
	return &ClassEnv{classes: map[string]*ClassInfo{info.Name: info}, parent: c}
}

// All returns every class visible in this scope and its ancestors.
func (c *ClassEnv) All() []*ClassInfo {
	seen := map[string]bool{}
	var out []*ClassInfo
	for e := c; e != nil; e = e.parent {
		for name, info := range e.classes {
			if !seen[name] {
				seen[name] = true
				out = append(out, info)
			}
		}
	}
	return out
}
