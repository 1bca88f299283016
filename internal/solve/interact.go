package solve

import (
	"github.com/glyphlang/glyph/internal/core"
	"github.com/glyphlang/glyph/internal/diagnostics"
	"github.com/glyphlang/glyph/internal/instance"
	"github.com/glyphlang/glyph/internal/types"
	"github.com/glyphlang/glyph/internal/unify"
)

// reactAgainstInert looks for an already-inert constraint (q) that
// reacts with the incoming, about-to-be-inserted p, implementing both
// interact_same (p and q share a flavor) and interact_g_w (q is given,
// p is wanted — the given always survives unchanged, simplifying only
// the wanted). q itself is never rewritten or dropped here; only p is
// either discharged outright (consumed) or rewritten into derived work
// pushed back onto the worklist in its place.
func (s *Solver) reactAgainstInert(p types.Constraint, inert []types.Constraint) (work []types.Constraint, bind *types.EvBind, consumed bool, ok bool) {
	for _, q := range inert {
		sameFlavor := p.Flavor == q.Flavor
		givenWanted := q.Flavor == types.Given && p.Flavor == types.Wanted
		if !sameFlavor && !givenWanted {
			continue
		}
		if w, b, c, reacted := s.react(q, p); reacted {
			return w, b, c, true
		}
	}
	return nil, nil, false, false
}

// react attempts to use the already-inert q to simplify the incoming p,
// implementing EQSAME/EQDIFF/EQDICT/DDICT/SUPER. Returns consumed=true
// when p is fully discharged by the reaction (its own evidence var is
// bound directly, nothing requeued); consumed=false when p is replaced
// by derived work pushed back onto the worklist instead of p itself.
func (s *Solver) react(q, p types.Constraint) (work []types.Constraint, bind *types.EvBind, consumed bool, ok bool) {
	qEq, qIsEq := q.P.(*types.CanonicalEqualityPred)
	pEq, pIsEq := p.P.(*types.CanonicalEqualityPred)
	qDict, qIsDict := q.P.(*types.CanonicalDictPred)
	pDict, pIsDict := p.P.(*types.CanonicalDictPred)

	switch {
	case qIsEq && pIsEq:
		return s.reactEqEq(qEq, pEq, p)
	case qIsEq && pIsDict:
		return s.reactEqDict(qEq, pDict, p)
	case qIsDict && pIsDict:
		return s.reactDictDict(qDict, pDict, p)
	}
	return nil, nil, false, false
}

// reactEqEq implements EQSAME ((α~X)+(α~Y) ↝ (α~X)∧(X~Y)) and EQDIFF
// ((α~X)+(β~Y[α]) ↝ (α~X)∧(β~Y[α:=X])), with q playing α~X and p
// playing the other equality in both rules.
func (s *Solver) reactEqEq(q, p *types.CanonicalEqualityPred, pc types.Constraint) ([]types.Constraint, *types.EvBind, bool, bool) {
	qMeta, ok := q.LHS.(*types.MetaVar)
	if !ok {
		return nil, nil, false, false
	}
	if pMeta, ok := p.LHS.(*types.MetaVar); ok && pMeta.SameCell(qMeta) {
		ev := s.Fresh.FreshCoercionVar()
		derived := types.Constraint{Flavor: pc.Flavor, Level: pc.Level,
			P: &types.NonCanonicalPred{EvVar: ev, PredType: types.EqPred(q.RHS, p.RHS)}}
		return []types.Constraint{derived}, &types.EvBind{Var: p.CoVar, Term: &types.EvVarTerm{Var: q.CoVar}}, false, true
	}
	if unify.OccursCheck(qMeta, p.RHS) {
		newRHS := substituteMeta(p.RHS, qMeta, q.RHS)
		ev := s.Fresh.FreshCoercionVar()
		derived := types.Constraint{Flavor: pc.Flavor, Level: pc.Level,
			P: &types.NonCanonicalPred{EvVar: ev, PredType: types.EqPred(p.LHS, newRHS)}}
		return []types.Constraint{derived}, &types.EvBind{Var: p.CoVar, Term: &types.EvVarTerm{Var: ev}}, false, true
	}
	return nil, nil, false, false
}

// reactEqDict implements EQDICT: (α~X)+D(…α…) ↝ (α~X)∧D(…X…).
func (s *Solver) reactEqDict(q *types.CanonicalEqualityPred, p *types.CanonicalDictPred, pc types.Constraint) ([]types.Constraint, *types.EvBind, bool, bool) {
	qMeta, ok := q.LHS.(*types.MetaVar)
	if !ok {
		return nil, nil, false, false
	}
	found := false
	newArgs := make([]types.Type, len(p.Args))
	for i, a := range p.Args {
		if unify.OccursCheck(qMeta, a) {
			found = true
			newArgs[i] = substituteMeta(a, qMeta, q.RHS)
		} else {
			newArgs[i] = a
		}
	}
	if !found {
		return nil, nil, false, false
	}
	rewritten := types.Constraint{Flavor: pc.Flavor, Level: pc.Level,
		P: &types.CanonicalDictPred{EvVar: p.EvVar, Class: p.Class, Args: newArgs}}
	return []types.Constraint{rewritten}, nil, false, true
}

// reactDictDict implements DDICT (identical dicts alias their evidence)
// and SUPER (the incoming dict's class is an ancestor of the already-
// inert, more specific dict's class — its dictionary is built by
// projecting the superclass chain out of the one already in hand).
func (s *Solver) reactDictDict(q, p *types.CanonicalDictPred, pc types.Constraint) ([]types.Constraint, *types.EvBind, bool, bool) {
	if !dictArgsSameType(q.Args, p.Args) {
		return nil, nil, false, false
	}
	if q.Class == p.Class {
		return nil, &types.EvBind{Var: p.EvVar, Term: &types.EvAlias{Other: q.EvVar}}, true, true
	}
	if chain, ok := instance.IsSuperclassOf(p.Class, q.Class, s.ClassEnv); ok {
		return nil, &types.EvBind{Var: p.EvVar, Term: &types.EvSuper{From: q.EvVar, Chain: chain}}, true, true
	}
	return nil, nil, false, false
}

// topReact discharges a canonical dict wanted by consulting the instance
// resolver. handled==false means the predicate is left inert (either
// genuinely unresolvable right now pending further information, or — for
// a fully variable predicate — left for the generalizer to quantify or
// float outward, and for the checker's defaulting pass after the
// top-level solve).
func (s *Solver) topReact(dp *types.CanonicalDictPred) (handled bool, newWork []types.Constraint, bind *types.EvBind) {
	lookup := instance.LookupInstance(dp, s.InstEnv, s.Fresh, s.Level)
	switch lookup.Outcome {
	case instance.Resolved:
		return true, lookup.SuperWanteds, &types.EvBind{Var: dp.EvVar, Term: &types.EvDFun{DFun: lookup.Info.DFun, Args: lookup.DFunArgs}}
	case instance.Overlap:
		names := make([]string, len(lookup.Competing))
		for i, c := range lookup.Competing {
			names[i] = c.DFun
		}
		s.Diags.Report(diagnostics.New(diagnostics.OverlappingInstances, core.Pos{}, "overlapping instances for %s: %v", dp.Class, names).
			WithData("class", dp.Class).WithData("competing", names))
		return true, nil, &types.EvBind{Var: dp.EvVar, Term: &types.EvDFun{DFun: lookup.Competing[0].DFun}}
	default:
		if lookup.Attempted {
			s.Diags.Report(diagnostics.New(diagnostics.NoInstance, core.Pos{}, "no instance for %s", dp.Class).WithData("class", dp.Class))
			return true, nil, &types.EvBind{Var: dp.EvVar, Term: &types.EvDFun{DFun: "$missing:" + dp.Class}}
		}
		return false, nil, nil
	}
}

func dictArgsSameType(a, b []types.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !unify.SameType(a[i], b[i]) {
			return false
		}
	}
	return true
}

// substituteMeta replaces every occurrence of mv (compared by cell
// identity) with repl inside t. Unlike types.Substitute, which keys on
// rigid TypeVar names, this walks meta-vars by identity — used by the
// interaction rules to build a derived constraint without filling mv's
// cell (only the final partition-and-substitute phase does that).
func substituteMeta(t types.Type, mv *types.MetaVar, repl types.Type) types.Type {
	t = types.Follow(t)
	switch x := t.(type) {
	case *types.MetaVar:
		if x.SameCell(mv) {
			return repl
		}
		return x
	case *types.TypeApp:
		return &types.TypeApp{Head: substituteMeta(x.Head, mv, repl), Arg: substituteMeta(x.Arg, mv, repl)}
	case *types.TupleType:
		elems := make([]types.Type, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = substituteMeta(e, mv, repl)
		}
		return &types.TupleType{Elems: elems}
	case *types.ListType:
		return &types.ListType{Elem: substituteMeta(x.Elem, mv, repl)}
	case *types.StrictLazyType:
		return &types.StrictLazyType{Strict: x.Strict, Inner: substituteMeta(x.Inner, mv, repl)}
	case *types.ForallType:
		return &types.ForallType{Binders: x.Binders, Body: substituteMeta(x.Body, mv, repl)}
	case *types.ConstrainedType:
		ctx := make([]types.QualPred, len(x.Context))
		for i, p := range x.Context {
			args := make([]types.Type, len(p.Args))
			for j, a := range p.Args {
				args[j] = substituteMeta(a, mv, repl)
			}
			ctx[i] = types.QualPred{Class: p.Class, Args: args}
		}
		return &types.ConstrainedType{Context: ctx, Body: substituteMeta(x.Body, mv, repl)}
	default:
		return x
	}
}
