package unify

import (
	"testing"

	"github.com/glyphlang/glyph/internal/types"
)

func TestUnifyMetaVarWithConcreteType(t *testing.T) {
	fresh := types.NewFreshSource()
	mv := fresh.FreshMetaVar(types.TopLevel, types.KStar{})
	intTy := &types.TypeCon{Name: "Int"}

	if err := Unify(mv, intTy); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := types.Follow(mv); got != intTy {
		t.Fatalf("Follow(mv) = %v, want %v", got, intTy)
	}
}

func TestUnifyOccursCheckFails(t *testing.T) {
	fresh := types.NewFreshSource()
	mv := fresh.FreshMetaVar(types.TopLevel, types.KStar{})
	listOfSelf := &types.ListType{Elem: mv}

	err := Unify(mv, listOfSelf)
	if err == nil {
		t.Fatalf("expected an occurs-check error")
	}
}

func TestUnifyPromotesDeeperMetaVars(t *testing.T) {
	fresh := types.NewFreshSource()
	outer := fresh.FreshMetaVar(types.TopLevel, types.KStar{})
	inner := fresh.FreshMetaVar(types.TopLevel.Inner(), types.KStar{})

	if err := Unify(outer, inner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// after unify, inner (or whichever survives) must be at the outer level
	follow := types.Follow(outer)
	if mv, ok := follow.(*types.MetaVar); ok {
		if mv.Level != types.TopLevel {
			t.Fatalf("expected promoted level %d, got %d", types.TopLevel, mv.Level)
		}
	}
}

func TestUnifyRigidTypeVarsNeverBind(t *testing.T) {
	a := &types.TypeVar{Name: "a", HasLevel: true, Level: types.TopLevel}
	b := &types.TypeVar{Name: "b", HasLevel: true, Level: types.TopLevel}
	if err := Unify(a, b); err == nil {
		t.Fatalf("expected distinct rigid type variables to fail to unify")
	}
	if err := Unify(a, a); err != nil {
		t.Fatalf("a rigid type variable must unify with itself: %v", err)
	}
}

func TestSameTypeAlphaEquivalentForalls(t *testing.T) {
	f1 := &types.ForallType{Binders: []types.Binder{{Name: "a", Kind: types.KStar{}}}, Body: &types.TypeVar{Name: "a"}}
	f2 := &types.ForallType{Binders: []types.Binder{{Name: "b", Kind: types.KStar{}}}, Body: &types.TypeVar{Name: "b"}}
	if !SameType(f1, f2) {
		t.Fatalf("expected alpha-equivalent foralls to compare equal")
	}
}

func TestMaybeMatchOneWay(t *testing.T) {
	fresh := types.NewFreshSource()
	patternVar := fresh.FreshMetaVar(types.TopLevel, types.KStar{})
	pattern := &types.ListType{Elem: patternVar}
	target := &types.ListType{Elem: &types.TypeCon{Name: "Int"}}

	subst := map[uint64]types.Type{}
	if !MaybeMatch(pattern, target, subst) {
		t.Fatalf("expected the pattern's meta-var to match the target's element type")
	}
	if subst[patternVar.ID] != target.Elem {
		t.Fatalf("expected a binding for the pattern's meta-var")
	}
	// MaybeMatch records bindings in subst and never fills a meta-var's cell
	if patternVar.IsFilled() {
		t.Fatalf("MaybeMatch must not mutate the pattern's meta-var cell")
	}
}
