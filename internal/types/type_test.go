package types

import "testing"

func TestFollowThroughChain(t *testing.T) {
	fresh := NewFreshSource()
	a := fresh.FreshMetaVar(TopLevel, KStar{})
	b := fresh.FreshMetaVar(TopLevel, KStar{})
	intTy := &TypeCon{Name: "Int", Kind: KStar{}}

	a.Fill(b)
	b.Fill(intTy)

	if got := Follow(a); got != intTy {
		t.Fatalf("Follow(a) = %v, want %v", got, intTy)
	}
	// path compression: a's cell should now point directly at intTy
	content, filled := a.Content()
	if !filled || content != intTy {
		t.Fatalf("expected path compression to rewrite a's cell, got %v (filled=%v)", content, filled)
	}
}

func TestFollowIdempotent(t *testing.T) {
	fresh := NewFreshSource()
	mv := fresh.FreshMetaVar(TopLevel, KStar{})
	if Follow(mv) != mv {
		t.Fatalf("Follow of an empty meta-var must return itself")
	}
	once := Follow(mv)
	twice := Follow(once)
	if once != twice {
		t.Fatalf("follow . follow != follow")
	}
}

func TestFillTwicePanics(t *testing.T) {
	fresh := NewFreshSource()
	mv := fresh.FreshMetaVar(TopLevel, KStar{})
	mv.Fill(&TypeCon{Name: "Int"})
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected Fill to panic when the cell is already filled")
		}
	}()
	mv.Fill(&TypeCon{Name: "Bool"})
}

func TestGeneralizeSplitSigmaRoundTrip(t *testing.T) {
	a := Binder{Name: "a", Kind: KStar{}}
	ctx := []QualPred{ClassPred("Num", &TypeVar{Name: "a"})}
	body := &TypeApp{
		Head: &TypeApp{Head: &TypeCon{Name: "->"}, Arg: &TypeVar{Name: "a"}},
		Arg:  &TypeVar{Name: "a"},
	}
	poly := Generalize([]Binder{a}, ctx, body)

	binders, gotCtx, rho := SplitSigma(poly)
	if len(binders) != 1 || binders[0].Name != "a" {
		t.Fatalf("unexpected binders: %v", binders)
	}
	if len(gotCtx) != 1 || gotCtx[0].Class != "Num" {
		t.Fatalf("unexpected context: %v", gotCtx)
	}
	if rho != body {
		t.Fatalf("unexpected rho: %v", rho)
	}
}

func TestFreeMetaVarsDedup(t *testing.T) {
	fresh := NewFreshSource()
	mv := fresh.FreshMetaVar(TopLevel, KStar{})
	tup := &TupleType{Elems: []Type{mv, mv, &TypeCon{Name: "Int"}}}
	free := FreeMetaVars(tup)
	if len(free) != 1 {
		t.Fatalf("expected exactly one distinct meta-var, got %d", len(free))
	}
}

func TestSubstituteUnderForallDoesNotCaptureBoundBinder(t *testing.T) {
	inner := &ForallType{
		Binders: []Binder{{Name: "a", Kind: KStar{}}},
		Body:    &TypeVar{Name: "a"},
	}
	repl := map[string]Type{"a": &TypeCon{Name: "Int"}}
	got := Substitute(inner, repl)
	f, ok := got.(*ForallType)
	if !ok {
		t.Fatalf("expected a ForallType, got %T", got)
	}
	if v, ok := f.Body.(*TypeVar); !ok || v.Name != "a" {
		t.Fatalf("substitution must not capture the forall's own binder, got %v", f.Body)
	}
}
