package checker

import (
	"github.com/glyphlang/glyph/internal/config"
	"github.com/glyphlang/glyph/internal/diagnostics"
	"github.com/glyphlang/glyph/internal/env"
	"github.com/glyphlang/glyph/internal/instance"
	"github.com/glyphlang/glyph/internal/solve"
	"github.com/glyphlang/glyph/internal/types"
)

// defaultGroup collects every still-wanted single-parameter class
// predicate that shares one ambiguous meta-variable, the unit defaulting
// (section 8's "show 3" scenario) tries to resolve together.
type defaultGroup struct {
	mv    *types.MetaVar
	preds []types.Constraint
}

// defaultAmbiguous tries config.DefaultingTypes, in order, against every
// group of residual wanted predicates that share one otherwise-ambiguous
// meta-variable, committing the first candidate under which every
// predicate in the group resolves to a concrete instance. Predicates that
// do not fit the single-meta-var, single-argument shape defaulting
// applies to (or whose group no candidate resolves) are handed back as
// residual for the caller to report.
//
// Grounded in original_source/src/computation/typecheck/binds.cc's
// defaultTyVarsAndSimplify/defaultTyVars discussion (the "try each
// candidate type against the whole ambiguous set, commit on the first
// that clears all of them" shape), which spec.md's own scenario 4 names
// without prescribing an algorithm.
func defaultAmbiguous(
	wanted []types.Constraint,
	classEnv *env.ClassEnv,
	instEnv *env.InstanceEnv,
	kenv *env.KindEnv,
	fresh *types.FreshSource,
	diags *diagnostics.Collector,
	cfg *config.Config,
) (evBinds []types.EvBind, residual []types.Constraint) {
	groups := map[uint64]*defaultGroup{}
	var order []uint64
	var ungrouped []types.Constraint

	for _, c := range wanted {
		mv, ok := defaultableDict(c, classEnv)
		if !ok {
			ungrouped = append(ungrouped, c)
			continue
		}
		g, exists := groups[mv.ID]
		if !exists {
			g = &defaultGroup{mv: mv}
			groups[mv.ID] = g
			order = append(order, mv.ID)
		}
		g.preds = append(g.preds, c)
	}

	for _, id := range order {
		g := groups[id]
		candidate := pickDefault(g, cfg, kenv, instEnv, fresh)
		if candidate == nil {
			residual = append(residual, g.preds...)
			continue
		}
		g.mv.Fill(candidate)

		solver := solve.New(classEnv, instEnv, fresh, diags, types.TopLevel)
		solver.MaxIterations = cfg.MaxSolverIterations
		evs, stillResidual := solver.Solve(nil, types.WantedConstraints{Simple: g.preds})
		evBinds = append(evBinds, evs...)
		residual = append(residual, stillResidual.Simple...)
	}

	return evBinds, append(residual, ungrouped...)
}

// defaultableDict recognizes a wanted, single-argument class predicate
// whose one argument is still an unresolved meta-variable and whose class
// is marked defaultable — the only shape this pass ever touches.
// Equality predicates, multi-parameter classes, and predicates already
// pinned to a concrete type are left for the caller to report as is.
func defaultableDict(c types.Constraint, classEnv *env.ClassEnv) (*types.MetaVar, bool) {
	if c.Flavor != types.Wanted {
		return nil, false
	}
	var class string
	var args []types.Type
	switch p := c.P.(type) {
	case *types.CanonicalDictPred:
		class, args = p.Class, p.Args
	case *types.NonCanonicalPred:
		if p.PredType.IsEquality() {
			return nil, false
		}
		class, args = p.PredType.Class, p.PredType.Args
	default:
		return nil, false
	}
	if len(args) != 1 {
		return nil, false
	}
	info, ok := classEnv.Lookup(class)
	if !ok || !info.Defaultable {
		return nil, false
	}
	mv, isMeta := types.Follow(args[0]).(*types.MetaVar)
	if !isMeta {
		return nil, false
	}
	return mv, true
}

// pickDefault returns the first configured candidate type under which
// every predicate in g resolves to a real instance, or nil if none do.
func pickDefault(g *defaultGroup, cfg *config.Config, kenv *env.KindEnv, instEnv *env.InstanceEnv, fresh *types.FreshSource) types.Type {
	for _, name := range cfg.DefaultingTypes {
		kind, ok := kenv.Lookup(name)
		if !ok {
			continue
		}
		candidate := &types.TypeCon{Name: name, Kind: kind}
		if allResolve(g.preds, candidate, instEnv, fresh) {
			return candidate
		}
	}
	return nil
}

// allResolve probes, without committing any evidence, whether every
// predicate in preds has a matching instance once candidate replaces
// their shared meta-variable.
func allResolve(preds []types.Constraint, candidate types.Type, instEnv *env.InstanceEnv, fresh *types.FreshSource) bool {
	for _, c := range preds {
		class := classNameOf(c)
		if class == "" {
			return false
		}
		pred := &types.CanonicalDictPred{Class: class, Args: []types.Type{candidate}}
		lookup := instance.LookupInstance(pred, instEnv, fresh, types.TopLevel)
		if lookup.Outcome != instance.Resolved {
			return false
		}
	}
	return true
}

func classNameOf(c types.Constraint) string {
	switch p := c.P.(type) {
	case *types.CanonicalDictPred:
		return p.Class
	case *types.NonCanonicalPred:
		return p.PredType.Class
	default:
		return ""
	}
}
