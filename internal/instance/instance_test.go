package instance

import (
	"testing"

	"github.com/glyphlang/glyph/internal/env"
	"github.com/glyphlang/glyph/internal/types"
)

func TestLookupInstanceRejectsAllVariableArgs(t *testing.T) {
	fresh := types.NewFreshSource()
	ie := env.NewInstanceEnv()
	mv := fresh.FreshMetaVar(types.TopLevel, types.KStar{})
	pred := &types.CanonicalDictPred{Class: "Eq", Args: []types.Type{mv}}

	got := LookupInstance(pred, ie, fresh, types.TopLevel)
	if got.Outcome != NoCandidates {
		t.Fatalf("expected NoCandidates for an all-variable predicate, got %v", got.Outcome)
	}
}

func TestLookupInstanceResolvesDirectMatch(t *testing.T) {
	fresh := types.NewFreshSource()
	ie := env.NewInstanceEnv()
	intCon := &types.TypeCon{Name: "Int"}
	ie = ie.Add(&env.InstanceInfo{
		DFun:  "$dEqInt",
		Class: "Eq",
		Args:  []types.Type{intCon},
	})

	pred := &types.CanonicalDictPred{Class: "Eq", Args: []types.Type{intCon}}
	got := LookupInstance(pred, ie, fresh, types.TopLevel)
	if got.Outcome != Resolved {
		t.Fatalf("expected Resolved, got %v", got.Outcome)
	}
	if got.Info.DFun != "$dEqInt" {
		t.Fatalf("expected $dEqInt, got %s", got.Info.DFun)
	}
	if len(got.DFunArgs) != 0 || len(got.SuperWanteds) != 0 {
		t.Fatalf("an instance with no context should need no super-wanteds")
	}
}

func TestLookupInstanceEmitsSuperWanteds(t *testing.T) {
	fresh := types.NewFreshSource()
	ie := env.NewInstanceEnv()
	a := types.Binder{Name: "a", Kind: types.KStar{}}
	listOfA := &types.ListType{Elem: &types.TypeVar{Name: "a"}}
	ie = ie.Add(&env.InstanceInfo{
		DFun:        "$dEqList",
		Class:       "Eq",
		TVs:         []types.Binder{a},
		Args:        []types.Type{listOfA},
		Constraints: []types.QualPred{types.ClassPred("Eq", &types.TypeVar{Name: "a"})},
	})

	intCon := &types.TypeCon{Name: "Int"}
	pred := &types.CanonicalDictPred{Class: "Eq", Args: []types.Type{&types.ListType{Elem: intCon}}}
	got := LookupInstance(pred, ie, fresh, types.TopLevel)
	if got.Outcome != Resolved {
		t.Fatalf("expected Resolved, got %v", got.Outcome)
	}
	if len(got.SuperWanteds) != 1 {
		t.Fatalf("expected exactly one super-wanted (Eq Int), got %d", len(got.SuperWanteds))
	}
	cp, ok := got.SuperWanteds[0].P.(*types.NonCanonicalPred)
	if !ok {
		t.Fatalf("expected a NonCanonicalPred super-wanted")
	}
	if cp.PredType.Class != "Eq" {
		t.Fatalf("expected the super-wanted's class to be Eq, got %s", cp.PredType.Class)
	}
	if types.Follow(cp.PredType.Args[0]) != types.Type(intCon) {
		t.Fatalf("expected the super-wanted's argument to be specialized to Int")
	}
}

func TestLookupInstanceOverlap(t *testing.T) {
	fresh := types.NewFreshSource()
	ie := env.NewInstanceEnv()
	a := types.Binder{Name: "a", Kind: types.KStar{}}
	intCon := &types.TypeCon{Name: "Int"}

	// Two instances whose heads are both bare type variables (equally
	// specific: each is a substitution instance of the other, so
	// specificity pruning cannot pick a winner) overlap.
	ie = ie.Add(&env.InstanceInfo{DFun: "$dShowA", Class: "Show", TVs: []types.Binder{a}, Args: []types.Type{&types.TypeVar{Name: "a"}}})
	ie = ie.Add(&env.InstanceInfo{DFun: "$dShowB", Class: "Show", TVs: []types.Binder{a}, Args: []types.Type{&types.TypeVar{Name: "a"}}})

	pred := &types.CanonicalDictPred{Class: "Show", Args: []types.Type{intCon}}
	got := LookupInstance(pred, ie, fresh, types.TopLevel)
	if got.Outcome != Overlap {
		t.Fatalf("expected Overlap, got %v", got.Outcome)
	}
	if len(got.Competing) != 2 {
		t.Fatalf("expected both candidates reported, got %d", len(got.Competing))
	}
}

func TestLookupInstanceSpecificityPrunesGenericOverSpecific(t *testing.T) {
	fresh := types.NewFreshSource()
	ie := env.NewInstanceEnv()
	a := types.Binder{Name: "a", Kind: types.KStar{}}
	intCon := &types.TypeCon{Name: "Int"}

	ie = ie.Add(&env.InstanceInfo{DFun: "$dShowAny", Class: "Show", TVs: []types.Binder{a}, Args: []types.Type{&types.TypeVar{Name: "a"}}})
	ie = ie.Add(&env.InstanceInfo{DFun: "$dShowInt", Class: "Show", Args: []types.Type{intCon}})

	pred := &types.CanonicalDictPred{Class: "Show", Args: []types.Type{intCon}}
	got := LookupInstance(pred, ie, fresh, types.TopLevel)
	if got.Outcome != Resolved {
		t.Fatalf("expected Resolved (the Int instance is strictly more specific), got %v", got.Outcome)
	}
	if got.Info.DFun != "$dShowInt" {
		t.Fatalf("expected the more specific $dShowInt to win, got %s", got.Info.DFun)
	}
}

func TestIsSuperclassOfFindsChain(t *testing.T) {
	ce := env.NewClassEnv()
	ce = ce.Extend(&env.ClassInfo{Name: "Eq"})
	ce = ce.Extend(&env.ClassInfo{Name: "Ord", Superclasses: []env.SuperclassExtractor{{Superclass: "Eq", Extractor: "eqOfOrd"}}})

	chain, ok := IsSuperclassOf("Eq", "Ord", ce)
	if !ok {
		t.Fatalf("expected Eq to be found as a superclass of Ord")
	}
	if len(chain) != 1 || chain[0] != "eqOfOrd" {
		t.Fatalf("expected chain [eqOfOrd], got %v", chain)
	}

	if _, ok := IsSuperclassOf("Ord", "Eq", ce); ok {
		t.Fatalf("Ord must not be found as a superclass of Eq")
	}
}
