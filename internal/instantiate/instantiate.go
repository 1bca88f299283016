// Package instantiate opens a polytype into either fresh rigid skolems
// (with givens, for checking against a signature) or fresh unification
// variables (with wanted evidence, for using a polymorphic value).
package instantiate

import (
	"github.com/glyphlang/glyph/internal/types"
)

// StepKind tags one instruction of a Wrapper.
type StepKind int

const (
	WrapTyLam StepKind = iota
	WrapTyApp
	WrapEvLam
	WrapEvApp
	WrapLet
)

// Step is one reified elaboration instruction.
type Step struct {
	Kind      StepKind
	TyBinders []types.Binder // WrapTyLam
	TyArgs    []types.Type   // WrapTyApp
	EvParams  []*types.EvVar // WrapEvLam
	EvArgs    []*types.EvVar // WrapEvApp
	Binds     []types.EvBind // WrapLet
}

// Wrapper is a reified sequence of elaboration instructions (type
// abstraction/application, evidence abstraction/application, evidence
// let-injection) used to build the elaborated core term around a typed
// expression. Steps are applied in order, each wrapping the result of the
// ones before it, so the first step ends up innermost.
type Wrapper []Step

// Skolemize opens a polytype under a fresh inner level, replacing each
// forall binder with a rigid TypeVar at that level, and splitting the
// resulting ρ-type into its givens and body. When deep is true,
// skolemization continues into nested foralls appearing on the positive
// (result) side of arrows in the body.
func Skolemize(poly types.Type, deep bool, fresh *types.FreshSource, level types.Level) (Wrapper, []*types.TypeVar, []types.Constraint, types.Type) {
	inner := level.Inner()
	binders, ctx, rho := types.SplitSigma(poly)

	var w Wrapper
	var skolems []*types.TypeVar
	repl := map[string]types.Type{}
	for _, b := range binders {
		sk := fresh.FreshSkolem(inner, b.Kind)
		skolems = append(skolems, sk)
		repl[b.Name] = sk
	}
	if len(binders) > 0 {
		w = append(w, Step{Kind: WrapTyLam, TyBinders: binders})
	}

	body := types.Substitute(rho, repl)
	var givens []types.Constraint
	var givenCtx []types.QualPred
	for _, p := range ctx {
		givenCtx = append(givenCtx, types.SubstitutePred(p, repl))
	}
	if len(givenCtx) > 0 {
		var params []*types.EvVar
		for _, p := range givenCtx {
			ev := fresh.FreshDictVar(p.Class)
			params = append(params, ev)
			givens = append(givens, types.Constraint{
				Flavor: types.Given,
				Level:  inner,
				P:      &types.NonCanonicalPred{EvVar: ev, PredType: p},
			})
		}
		w = append(w, Step{Kind: WrapEvLam, EvParams: params})
	}

	if deep {
		body = deepSkolemizeArrows(body, fresh, inner)
	}

	return w, skolems, givens, body
}

// deepSkolemizeArrows continues skolemization into nested foralls on the
// positive (result) side of function arrows, so that e.g.
// Int -> forall a. a -> a is fully rigidified when checking a
// higher-rank signature.
func deepSkolemizeArrows(t types.Type, fresh *types.FreshSource, level types.Level) types.Type {
	arg, res, ok := types.SplitArrow(t)
	if !ok {
		return t
	}
	if _, isForall := res.(*types.ForallType); isForall {
		_, _, _, body := Skolemize(res, true, fresh, level)
		return types.Arrow(arg, body)
	}
	return types.Arrow(arg, deepSkolemizeArrows(res, fresh, level))
}

// Instantiate opens a polytype at the current level, replacing each
// forall binder with a fresh meta-var and lifting context predicates
// into fresh wanted evidence vars.
func Instantiate(poly types.Type, fresh *types.FreshSource, level types.Level) (Wrapper, []types.Constraint, types.Type) {
	binders, ctx, rho := types.SplitSigma(poly)

	var w Wrapper
	repl := map[string]types.Type{}
	var tyArgs []types.Type
	for _, b := range binders {
		mv := fresh.FreshMetaVar(level, b.Kind)
		repl[b.Name] = mv
		tyArgs = append(tyArgs, mv)
	}
	if len(binders) > 0 {
		w = append(w, Step{Kind: WrapTyApp, TyArgs: tyArgs})
	}

	body := types.Substitute(rho, repl)
	var wanteds []types.Constraint
	var evArgs []*types.EvVar
	for _, p := range ctx {
		pred := types.SubstitutePred(p, repl)
		ev := fresh.FreshDictVar(pred.Class)
		evArgs = append(evArgs, ev)
		wanteds = append(wanteds, types.Constraint{
			Flavor: types.Wanted,
			Level:  level,
			P:      &types.NonCanonicalPred{EvVar: ev, PredType: pred},
		})
	}
	if len(evArgs) > 0 {
		w = append(w, Step{Kind: WrapEvApp, EvArgs: evArgs})
	}

	return w, wanteds, body
}
