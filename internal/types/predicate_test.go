package types

import "testing"

func TestConstraintString(t *testing.T) {
	fresh := NewFreshSource()
	ev := fresh.FreshDictVar("num")
	c := Constraint{
		Flavor: Wanted,
		Level:  TopLevel,
		P: &NonCanonicalPred{
			EvVar:    ev,
			PredType: ClassPred("Num", &TypeVar{Name: "a"}),
		},
	}
	if c.String() == "" {
		t.Fatalf("expected a non-empty rendering")
	}
}

func TestWantedConstraintsUnion(t *testing.T) {
	fresh := NewFreshSource()
	mkSimple := func() Constraint {
		return Constraint{Flavor: Wanted, P: &NonCanonicalPred{EvVar: fresh.FreshDictVar(""), PredType: ClassPred("Show", &TypeCon{Name: "Int"})}}
	}
	a := WantedConstraints{Simple: []Constraint{mkSimple()}}
	b := WantedConstraints{Simple: []Constraint{mkSimple()}, Implications: []*Implication{{}}}

	merged := UnionWC(a, b)
	if len(merged.Simple) != 2 {
		t.Fatalf("expected 2 simple wanteds, got %d", len(merged.Simple))
	}
	if len(merged.Implications) != 1 {
		t.Fatalf("expected 1 implication, got %d", len(merged.Implications))
	}
	if merged.IsEmpty() {
		t.Fatalf("merged constraints must not be empty")
	}
	if (WantedConstraints{}).IsEmpty() != true {
		t.Fatalf("zero value must be empty")
	}
}

func TestEvVarOf(t *testing.T) {
	fresh := NewFreshSource()
	dv := fresh.FreshDictVar("")
	p := &CanonicalDictPred{EvVar: dv, Class: "Eq", Args: []Type{&TypeCon{Name: "Int"}}}
	if EvVarOf(p) != dv {
		t.Fatalf("EvVarOf did not return the dict's own evidence var")
	}
	cv := fresh.FreshCoercionVar()
	eq := &CanonicalEqualityPred{CoVar: cv, LHS: &TypeCon{Name: "Int"}, RHS: &TypeCon{Name: "Int"}}
	if EvVarOf(eq) != cv {
		t.Fatalf("EvVarOf did not return the equality's own coercion var")
	}
}
