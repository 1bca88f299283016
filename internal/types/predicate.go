package types

import "fmt"

// EvVarKind distinguishes dictionary evidence from coercion evidence.
type EvVarKind int

const (
	DictEv EvVarKind = iota
	CoercionEv
)

// EvVar is a freshly named evidence identifier: a dictionary var (proof
// of a class predicate) or a coercion var (proof of an equality).
type EvVar struct {
	ID   uint64
	Kind EvVarKind
	Name string
}

func (e *EvVar) String() string { return e.Name }

// Flavor marks a predicate as assumed (Given) or required (Wanted).
type Flavor int

const (
	Given Flavor = iota
	Wanted
)

func (f Flavor) String() string {
	if f == Given {
		return "given"
	}
	return "wanted"
}

// Pred is the sum type over predicate canonicalization states:
// NonCanonicalPred, CanonicalDictPred, CanonicalEqualityPred. Naming
// mirrors original_source/src/computation/typecheck/solver.cc.
type Pred interface {
	isPred()
	String() string
}

// NonCanonicalPred is a freshly generated predicate not yet reduced to a
// canonical dict or equality form.
type NonCanonicalPred struct {
	EvVar    *EvVar
	PredType QualPred
}

func (*NonCanonicalPred) isPred() {}
func (p *NonCanonicalPred) String() string {
	return fmt.Sprintf("%s :: %s", p.EvVar, p.PredType)
}

// CanonicalDictPred is C τ1 … τn with every τ in head-normal form.
type CanonicalDictPred struct {
	EvVar *EvVar
	Class string
	Args  []Type
}

func (*CanonicalDictPred) isPred() {}
func (p *CanonicalDictPred) String() string {
	s := p.Class
	for _, a := range p.Args {
		s += " " + a.String()
	}
	return fmt.Sprintf("%s :: %s", p.EvVar, s)
}

// CanonicalEqualityPred is τ1 ~ τ2 where at least the lhs is a meta-var or
// type-family application, sides ordered so rhs ≤ lhs never holds.
type CanonicalEqualityPred struct {
	CoVar *EvVar
	LHS   Type
	RHS   Type
}

func (*CanonicalEqualityPred) isPred() {}
func (p *CanonicalEqualityPred) String() string {
	return fmt.Sprintf("%s :: %s ~ %s", p.CoVar, p.LHS, p.RHS)
}

// EvVarOf returns the evidence variable carried by any Pred variant.
func EvVarOf(p Pred) *EvVar {
	switch x := p.(type) {
	case *NonCanonicalPred:
		return x.EvVar
	case *CanonicalDictPred:
		return x.EvVar
	case *CanonicalEqualityPred:
		return x.CoVar
	default:
		return nil
	}
}

// Constraint wraps a Pred with the flavor and level it was introduced at.
type Constraint struct {
	Flavor Flavor
	Level  Level
	P      Pred
}

func (c Constraint) String() string {
	return fmt.Sprintf("[%s@%d] %s", c.Flavor, c.Level, c.P)
}

// WantedConstraints is the pair (simple wanteds, nested implications)
// threaded through the generator and generalizer.
type WantedConstraints struct {
	Simple       []Constraint
	Implications []*Implication
}

// EmptyWC returns an empty WantedConstraints value.
func EmptyWC() WantedConstraints {
	return WantedConstraints{}
}

// IsEmpty reports whether there is nothing left to solve.
func (wc WantedConstraints) IsEmpty() bool {
	return len(wc.Simple) == 0 && len(wc.Implications) == 0
}

// UnionWC merges two WantedConstraints.
func UnionWC(a, b WantedConstraints) WantedConstraints {
	return WantedConstraints{
		Simple:       append(append([]Constraint{}, a.Simple...), b.Simple...),
		Implications: append(append([]*Implication{}, a.Implications...), b.Implications...),
	}
}

// Implication records the result of skolemizing a forall: "under these
// givens, the inner wanted must hold."
type Implication struct {
	Level    Level
	Skolems  []*TypeVar
	Givens   []Constraint
	Wanted   WantedConstraints
	EvBinds  []EvBind
	Context  string // source-span / "in function f" style note
}

// EvTerm is the sum type of evidence-construction terms that appear on
// the right-hand side of an EvBind.
type EvTerm interface {
	isEvTerm()
}

// EvVarTerm references another evidence variable already in scope.
type EvVarTerm struct {
	Var *EvVar
}

func (*EvVarTerm) isEvTerm() {}

// EvDFun applies an instance's dictionary function to nested evidence.
type EvDFun struct {
	DFun string
	Args []*EvVar
}

func (*EvDFun) isEvTerm() {}

// EvSuper projects a superclass dictionary out of a subclass dictionary
// by walking a chain of superclass extractor names.
type EvSuper struct {
	From  *EvVar
	Chain []string
}

func (*EvSuper) isEvTerm() {}

// EvRefl is the trivial reflexivity coercion for an equality τ ~ τ.
type EvRefl struct {
	Type Type
}

func (*EvRefl) isEvTerm() {}

// EvAlias is DDICT's "dvar2 = dvar1" — an alias to an already-solved
// evidence variable.
type EvAlias struct {
	Other *EvVar
}

func (*EvAlias) isEvTerm() {}

// EvBind is a generated "let ev = term" witnessing how a wanted was
// discharged.
type EvBind struct {
	Var  *EvVar
	Term EvTerm
}
