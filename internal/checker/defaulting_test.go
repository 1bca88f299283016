package checker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glyphlang/glyph/internal/config"
	"github.com/glyphlang/glyph/internal/diagnostics"
	"github.com/glyphlang/glyph/internal/env"
	"github.com/glyphlang/glyph/internal/types"
)

func defaultableClassEnv() *env.ClassEnv {
	return env.NewClassEnv().Extend(&env.ClassInfo{Name: "Show", TypeVar: "a", Defaultable: true})
}

// TestDefaultAmbiguousCommitsFirstResolvingCandidate covers scenario 4:
// a wanted Show predicate over an otherwise-ambiguous meta-variable
// defaults to Integer, the first of config.Default's DefaultingTypes an
// Integer instance actually resolves.
func TestDefaultAmbiguousCommitsFirstResolvingCandidate(t *testing.T) {
	classEnv := defaultableClassEnv()
	instEnv := env.NewInstanceEnv().Add(&env.InstanceInfo{
		DFun: "$dShowInteger", Class: "Show", Args: []types.Type{&types.TypeCon{Name: "Integer"}},
	})
	fresh := types.NewFreshSource()
	diags := diagnostics.NewCollector()
	cfg := config.Default()

	mv := fresh.FreshMetaVar(types.TopLevel, types.KStar{})
	ev := fresh.FreshDictVar("Show")
	wanted := []types.Constraint{
		{Flavor: types.Wanted, Level: types.TopLevel, P: &types.NonCanonicalPred{EvVar: ev, PredType: types.ClassPred("Show", mv)}},
	}

	evBinds, residual := defaultAmbiguous(wanted, classEnv, instEnv, env.NewKindEnv(), fresh, diags, cfg)
	require.Empty(t, residual, "Show should default cleanly to Integer")
	require.Len(t, evBinds, 1)
	dfun, ok := evBinds[0].Term.(*types.EvDFun)
	require.True(t, ok, "expected a dfun application, got %T", evBinds[0].Term)
	require.Equal(t, "$dShowInteger", dfun.DFun)
	require.Equal(t, "Integer", types.Follow(mv).(*types.TypeCon).Name)
}

// TestDefaultAmbiguousLeavesUnresolvableGroupAsResidual covers the
// failure half: no configured candidate resolves, so the group comes
// back untouched for the caller to report as ambiguous.
func TestDefaultAmbiguousLeavesUnresolvableGroupAsResidual(t *testing.T) {
	classEnv := defaultableClassEnv()
	instEnv := env.NewInstanceEnv() // no Show instance registered at all
	fresh := types.NewFreshSource()
	diags := diagnostics.NewCollector()
	cfg := config.Default()

	mv := fresh.FreshMetaVar(types.TopLevel, types.KStar{})
	ev := fresh.FreshDictVar("Show")
	wanted := []types.Constraint{
		{Flavor: types.Wanted, Level: types.TopLevel, P: &types.NonCanonicalPred{EvVar: ev, PredType: types.ClassPred("Show", mv)}},
	}

	evBinds, residual := defaultAmbiguous(wanted, classEnv, instEnv, env.NewKindEnv(), fresh, diags, cfg)
	require.Empty(t, evBinds)
	require.Len(t, residual, 1, "an unresolvable group should be returned untouched, not silently dropped")
	require.False(t, mv.IsFilled(), "defaulting should never commit a meta-var unless every predicate in its group resolves")
}

// TestDefaultAmbiguousIgnoresNonMetaArguments confirms
// defaultableDict only ever touches predicates whose argument is an
// unfilled meta-var; a predicate already pinned to a concrete type
// (Show Bool) passes straight through as residual.
func TestDefaultAmbiguousIgnoresNonMetaArguments(t *testing.T) {
	classEnv := defaultableClassEnv()
	instEnv := env.NewInstanceEnv()
	fresh := types.NewFreshSource()
	diags := diagnostics.NewCollector()
	cfg := config.Default()

	ev := fresh.FreshDictVar("Show")
	wanted := []types.Constraint{
		{Flavor: types.Wanted, Level: types.TopLevel, P: &types.NonCanonicalPred{EvVar: ev, PredType: types.ClassPred("Show", &types.TypeCon{Name: "Bool"})}},
	}

	evBinds, residual := defaultAmbiguous(wanted, classEnv, instEnv, env.NewKindEnv(), fresh, diags, cfg)
	require.Empty(t, evBinds)
	require.Len(t, residual, 1, "a predicate already pinned to a concrete type is not this pass's concern")
}
