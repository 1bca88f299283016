package instantiate

import (
	"testing"

	"github.com/glyphlang/glyph/internal/types"
)

func idSignature() types.Type {
	a := types.Binder{Name: "a", Kind: types.KStar{}}
	return types.Generalize([]types.Binder{a}, nil, types.Arrow(&types.TypeVar{Name: "a"}, &types.TypeVar{Name: "a"}))
}

func numSignature() types.Type {
	a := types.Binder{Name: "a", Kind: types.KStar{}}
	ctx := []types.QualPred{types.ClassPred("Num", &types.TypeVar{Name: "a"})}
	return types.Generalize([]types.Binder{a}, ctx, types.Arrow(&types.TypeVar{Name: "a"}, &types.TypeVar{Name: "a"}))
}

func TestInstantiateProducesFreshMetaVar(t *testing.T) {
	fresh := types.NewFreshSource()
	_, wanteds, body := Instantiate(idSignature(), fresh, types.TopLevel)
	if len(wanteds) != 0 {
		t.Fatalf("id has no context, expected zero wanteds, got %d", len(wanteds))
	}
	app, ok := body.(*types.TypeApp)
	if !ok {
		t.Fatalf("expected a function type, got %T", body)
	}
	arrow := app.Head.(*types.TypeApp)
	if _, ok := arrow.Arg.(*types.MetaVar); !ok {
		t.Fatalf("expected the binder to be replaced by a fresh meta-var, got %T", arrow.Arg)
	}
}

func TestInstantiateWithContextEmitsWanted(t *testing.T) {
	fresh := types.NewFreshSource()
	_, wanteds, _ := Instantiate(numSignature(), fresh, types.TopLevel)
	if len(wanteds) != 1 {
		t.Fatalf("expected exactly one wanted from the Num context, got %d", len(wanteds))
	}
	nc, ok := wanteds[0].P.(*types.NonCanonicalPred)
	if !ok || nc.PredType.Class != "Num" {
		t.Fatalf("expected a Num predicate, got %+v", wanteds[0].P)
	}
}

func TestSkolemizeProducesRigidGivens(t *testing.T) {
	fresh := types.NewFreshSource()
	_, skolems, givens, _ := Skolemize(numSignature(), false, fresh, types.TopLevel)
	if len(skolems) != 1 {
		t.Fatalf("expected exactly one skolem, got %d", len(skolems))
	}
	if !skolems[0].HasLevel || skolems[0].Level != types.TopLevel.Inner() {
		t.Fatalf("expected the skolem to carry the inner level, got %+v", skolems[0])
	}
	if len(givens) != 1 || givens[0].Flavor != types.Given {
		t.Fatalf("expected exactly one given predicate, got %+v", givens)
	}
}
