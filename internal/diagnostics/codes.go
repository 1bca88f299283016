// Package diagnostics implements the failure model: structured, JSON
// serializable error values accumulated in a non-unwinding collector,
// each carrying a kind, a primary source span, and a stack of enclosing
// context notes pushed/popped during the computation that raised it.
package diagnostics

// Kind enumerates the nine failure kinds the checker can report.
type Kind string

const (
	// NoInstance: top_react found zero candidates and no given matches.
	NoInstance Kind = "TC-NOINST"
	// OverlappingInstances: multiple surviving candidates after
	// specificity pruning.
	OverlappingInstances Kind = "TC-OVERLAP"
	// OccursCheck: failed during equality canonicalization.
	OccursCheck Kind = "TC-OCCURS"
	// TypeMismatch: FAILDEC during equality canonicalization.
	TypeMismatch Kind = "TC-MISMATCH"
	// AmbiguousType: a retained predicate at generalization mentions no
	// quantified var and has no applicable default.
	AmbiguousType Kind = "TC-AMBIG"
	// MissingMethod: an instance omits a required class method.
	MissingMethod Kind = "TC-MISSING-METHOD"
	// MethodNotInClass: an instance defines a method the class does not
	// declare.
	MethodNotInClass Kind = "TC-UNKNOWN-METHOD"
	// EscapingSkolem: a skolem of inner level appears in a wanted
	// residual at outer level.
	EscapingSkolem Kind = "TC-ESCAPE"
	// SolverDivergence: the worklist exceeded its configured iteration
	// ceiling without reaching a fixed point.
	SolverDivergence Kind = "TC-DIVERGE"
)
