package solve

import (
	"github.com/glyphlang/glyph/internal/core"
	"github.com/glyphlang/glyph/internal/diagnostics"
	"github.com/glyphlang/glyph/internal/types"
	"github.com/glyphlang/glyph/internal/unify"
)

// canonicalize turns a NonCanonical predicate into one or more canonical
// (or further non-canonical, for recursive decomposition) constraints,
// discharging it outright via REFL when both sides already agree and
// recording a diagnostic (with a best-effort placeholder evidence bind so
// elaboration can continue) on FAILDEC or an occurs-check violation. A
// constraint that arrives already canonical passes through unchanged.
func (s *Solver) canonicalize(c types.Constraint) ([]types.Constraint, *types.EvBind) {
	nc, ok := c.P.(*types.NonCanonicalPred)
	if !ok {
		return []types.Constraint{c}, nil
	}
	if nc.PredType.IsEquality() {
		return s.canonicalizeEquality(c, nc)
	}
	return s.canonicalizeDict(c, nc)
}

func (s *Solver) canonicalizeDict(c types.Constraint, nc *types.NonCanonicalPred) ([]types.Constraint, *types.EvBind) {
	args := make([]types.Type, len(nc.PredType.Args))
	for i, a := range nc.PredType.Args {
		args[i] = types.Follow(a)
	}
	canon := &types.CanonicalDictPred{EvVar: nc.EvVar, Class: nc.PredType.Class, Args: args}
	return []types.Constraint{{Flavor: c.Flavor, Level: c.Level, P: canon}}, nil
}

func (s *Solver) canonicalizeEquality(c types.Constraint, nc *types.NonCanonicalPred) ([]types.Constraint, *types.EvBind) {
	lhs := types.Follow(nc.PredType.Args[0])
	rhs := types.Follow(nc.PredType.Args[1])

	if unify.SameType(lhs, rhs) {
		return nil, &types.EvBind{Var: nc.EvVar, Term: &types.EvRefl{Type: lhs}}
	}

	// Type-family reduction: rewrite whichever side is headed by a
	// registered family application to its one-step reduct and resubmit,
	// rather than trying to unify the family application's arguments
	// directly against the other side.
	if fam, args, ok := splitFamilyApp(lhs, s.Families); ok {
		if reduced, matched := s.Families.reduce(fam, args, s.Fresh, s.Level); matched {
			derived := types.Constraint{Flavor: c.Flavor, Level: c.Level,
				P: &types.NonCanonicalPred{EvVar: nc.EvVar, PredType: types.EqPred(reduced, rhs)}}
			return []types.Constraint{derived}, nil
		}
	}
	if fam, args, ok := splitFamilyApp(rhs, s.Families); ok {
		if reduced, matched := s.Families.reduce(fam, args, s.Fresh, s.Level); matched {
			derived := types.Constraint{Flavor: c.Flavor, Level: c.Level,
				P: &types.NonCanonicalPred{EvVar: nc.EvVar, PredType: types.EqPred(lhs, reduced)}}
			return []types.Constraint{derived}, nil
		}
	}

	// TDEC: decompose a shared type-application shape into two
	// sub-equalities on head and argument.
	if lApp, lok := lhs.(*types.TypeApp); lok {
		if rApp, rok := rhs.(*types.TypeApp); rok {
			ev1 := s.Fresh.FreshCoercionVar()
			ev2 := s.Fresh.FreshCoercionVar()
			sub1 := types.Constraint{Flavor: c.Flavor, Level: c.Level, P: &types.NonCanonicalPred{EvVar: ev1, PredType: types.EqPred(lApp.Head, rApp.Head)}}
			sub2 := types.Constraint{Flavor: c.Flavor, Level: c.Level, P: &types.NonCanonicalPred{EvVar: ev2, PredType: types.EqPred(lApp.Arg, rApp.Arg)}}
			return []types.Constraint{sub1, sub2}, &types.EvBind{Var: nc.EvVar, Term: &types.EvAlias{Other: ev1}}
		}
	}

	lMeta, lIsMeta := lhs.(*types.MetaVar)
	rMeta, rIsMeta := rhs.(*types.MetaVar)

	switch {
	case lIsMeta && rIsMeta:
		if lMeta.ID > rMeta.ID {
			lhs, rhs = rhs, lhs
		}
	case rIsMeta && !lIsMeta:
		lhs, rhs = rhs, lhs
	case !lIsMeta && !rIsMeta:
		// FAILDEC: neither side can be substituted and they are not the
		// same type (already checked above) nor a decomposable TypeApp
		// pair (already checked above) — a genuine mismatch.
		s.Diags.Report(diagnostics.New(diagnostics.TypeMismatch, core.Pos{}, "cannot unify %s with %s", lhs, rhs))
		return nil, &types.EvBind{Var: nc.EvVar, Term: &types.EvRefl{Type: lhs}}
	}

	if mv, ok := lhs.(*types.MetaVar); ok {
		if unify.OccursCheck(mv, rhs) {
			s.Diags.Report(diagnostics.New(diagnostics.OccursCheck, core.Pos{}, "%s occurs in %s", mv, rhs))
			return nil, &types.EvBind{Var: nc.EvVar, Term: &types.EvRefl{Type: lhs}}
		}
	}

	canon := &types.CanonicalEqualityPred{CoVar: nc.EvVar, LHS: lhs, RHS: rhs}
	return []types.Constraint{{Flavor: c.Flavor, Level: c.Level, P: canon}}, nil
}
