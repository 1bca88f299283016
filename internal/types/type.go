package types

import (
	"fmt"
	"strings"
)

// Type is the tagged variant over every case in the data model: TypeVar,
// MetaVar, TypeCon, TypeApp, TupleType, ListType, ForallType,
// ConstrainedType, StrictLazyType. New variants must add a marker method
// here so every exhaustive switch over Type fails to compile until it
// handles the new case.
type Type interface {
	isType()
	String() string
}

// TypeVar is either a rigid type variable (a skolem, HasLevel true) or a
// signature-introduced variable with no level.
type TypeVar struct {
	Name     string
	HasLevel bool
	Level    Level
	Kind     Kind
}

func (*TypeVar) isType() {}
func (v *TypeVar) String() string {
	return v.Name
}

// metaCell is the shared mutable slot a MetaVar points at. It holds
// either "empty" (Filled == false) or a Type. It is written exactly once
// by Fill; compress performs the non-semantic path-compression rewrite
// described in DESIGN.md.
type metaCell struct {
	filled  bool
	content Type
}

// MetaVar is a unification variable: a placeholder the solver may fill
// with a Type. When filled, the variable *is* that type; Follow walks
// through filled meta-vars transparently.
type MetaVar struct {
	ID    uint64
	Name  string
	Level Level
	Kind  Kind
	cell  *metaCell
}

func (*MetaVar) isType() {}

func (m *MetaVar) String() string {
	if content, ok := m.Content(); ok {
		return content.String()
	}
	return "?" + m.Name
}

// Content returns the meta-var's direct content (not Followed) and
// whether it is filled.
func (m *MetaVar) Content() (Type, bool) {
	return m.cell.content, m.cell.filled
}

// IsFilled reports whether the cell has been written.
func (m *MetaVar) IsFilled() bool { return m.cell.filled }

// Fill writes the cell exactly once. It panics if the cell is already
// filled — the monotonic union-find premise described in the spec's
// concurrency model.
func (m *MetaVar) Fill(t Type) {
	if m.cell.filled {
		panic(fmt.Sprintf("types: meta-var %s filled twice", m.Name))
	}
	m.cell.filled = true
	m.cell.content = t
}

// compress rewrites an already-filled cell's content to a shortcut
// target with the same denotation. Used only by Follow's path
// compression; it does not re-arm the monotonic single-assignment
// invariant Fill protects.
func (m *MetaVar) compress(t Type) {
	m.cell.content = t
}

// SameCell reports whether two meta-vars share the same underlying cell
// (always true for m itself, used by occurs-check/union-find code that
// compares identity rather than value).
func (m *MetaVar) SameCell(other *MetaVar) bool {
	return m.cell == other.cell
}

// clearForTesting resets the cell to empty. Exists only so _test.go files
// can rebuild fixtures; never called from production code.
func (m *MetaVar) clearForTesting() {
	m.cell.filled = false
	m.cell.content = nil
}

// ClearForTesting is the exported alias used from _test.go files in other
// packages (tests live outside package types for several consumers).
func ClearForTesting(m *MetaVar) { m.clearForTesting() }

// TypeCon is a type constructor referenced by its qualified name.
type TypeCon struct {
	Name   string
	Kind   Kind
	Family bool // true for an open type-family head (section 3's "type-family application")
}

func (*TypeCon) isType() {}
func (c *TypeCon) String() string { return c.Name }

// TypeApp applies one type to another.
type TypeApp struct {
	Head Type
	Arg  Type
}

func (*TypeApp) isType() {}
func (a *TypeApp) String() string {
	return fmt.Sprintf("(%s %s)", a.Head, a.Arg)
}

// TupleType is an n-ary product, a normal form that canonicalizes to
// TypeApp of the tuple constructor on demand.
type TupleType struct {
	Elems []Type
}

func (*TupleType) isType() {}
func (t *TupleType) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ListType is the builtin list former, a normal form for TypeApp List a.
type ListType struct {
	Elem Type
}

func (*ListType) isType() {}
func (l *ListType) String() string { return "[" + l.Elem.String() + "]" }

// Binder is a quantified type variable together with its kind.
type Binder struct {
	Name string
	Kind Kind
}

// ForallType universally quantifies a body over a list of binders.
type ForallType struct {
	Binders []Binder
	Body    Type
}

func (*ForallType) isType() {}
func (f *ForallType) String() string {
	names := make([]string, len(f.Binders))
	for i, b := range f.Binders {
		names[i] = b.Name
	}
	return "forall " + strings.Join(names, " ") + ". " + f.Body.String()
}

// QualPred is a bare predicate appearing in a ConstrainedType's context:
// either a class predicate (Class non-empty) or an equality predicate
// (Class empty, exactly two Args: lhs, rhs).
type QualPred struct {
	Class string
	Args  []Type
}

// ClassPred constructs a class-membership predicate.
func ClassPred(class string, args ...Type) QualPred {
	return QualPred{Class: class, Args: args}
}

// EqPred constructs an equality predicate lhs ~ rhs.
func EqPred(lhs, rhs Type) QualPred {
	return QualPred{Args: []Type{lhs, rhs}}
}

// IsEquality reports whether this predicate is an equality rather than a
// class-membership predicate.
func (p QualPred) IsEquality() bool { return p.Class == "" }

func (p QualPred) String() string {
	if p.IsEquality() {
		return fmt.Sprintf("%s ~ %s", p.Args[0], p.Args[1])
	}
	parts := make([]string, len(p.Args))
	for i, a := range p.Args {
		parts[i] = a.String()
	}
	return p.Class + " " + strings.Join(parts, " ")
}

// ConstrainedType attaches a class/equality context to a body type.
type ConstrainedType struct {
	Context []QualPred
	Body    Type
}

func (*ConstrainedType) isType() {}
func (c *ConstrainedType) String() string {
	parts := make([]string, len(c.Context))
	for i, p := range c.Context {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ") => " + c.Body.String()
}

// StrictLazyType is a surface-syntax strictness annotation on a type.
type StrictLazyType struct {
	Strict bool
	Inner  Type
}

func (*StrictLazyType) isType() {}
func (s *StrictLazyType) String() string {
	if s.Strict {
		return "!" + s.Inner.String()
	}
	return s.Inner.String()
}

// Follow walks through filled meta-vars until reaching either an empty
// meta-var or a non-meta head, compressing the path as it goes.
func Follow(t Type) Type {
	mv, ok := t.(*MetaVar)
	if !ok {
		return t
	}
	content, filled := mv.Content()
	if !filled {
		return mv
	}
	result := Follow(content)
	if result != content {
		mv.compress(result)
	}
	return result
}
