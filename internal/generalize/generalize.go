package generalize

import (
	"fmt"

	"github.com/glyphlang/glyph/internal/core"
	"github.com/glyphlang/glyph/internal/diagnostics"
	"github.com/glyphlang/glyph/internal/env"
	"github.com/glyphlang/glyph/internal/instantiate"
	"github.com/glyphlang/glyph/internal/solve"
	"github.com/glyphlang/glyph/internal/typedast"
	"github.com/glyphlang/glyph/internal/types"
	"github.com/glyphlang/glyph/internal/unify"
)

// CheckFunc checks expr against expected inside genv at the given level,
// returning the elaborated node and whatever simple wanteds/implications
// that check accumulated. Supplied by internal/generate (which in turn
// calls back into Generalize for Let/where) — a function value rather
// than a direct import, since generate depends on generalize for
// let-binding groups and generalize would otherwise need to import
// generate right back to type the group's right-hand sides.
type CheckFunc func(genv *env.GVE, expr core.Expr, expected types.Type, level types.Level) (node typedast.TypedNode, wanted []types.Constraint, implications []*types.Implication)

// Generalizer runs the seven-step Binding-group Generalizer algorithm
// over one declaration group (a core.Let.Groups entry or a
// core.Program.Groups entry).
//
// Grounded in the teacher's internal/types/typechecker_functions.go and
// typechecker_core.go (the signature/SCC-partition, solve-then-float
// shape) and original_source/src/computation/typecheck/binds.cc's
// `infer_type_for_binds` for the exact seven-step ordering this package
// follows, with two simplifications: `fixed` is not extended by an
// injective closure (candidates are simply the meta-vars introduced
// deeper than the component's outer level), and per-binder qtv/predicate
// restriction within a mutually recursive component is collapsed to one
// shared set for the whole component.
type Generalizer struct {
	ClassEnv *env.ClassEnv
	InstEnv  *env.InstanceEnv
	Fresh    *types.FreshSource
	Diags    *diagnostics.Collector
	Level    types.Level
	Check    CheckFunc

	// MonomorphismRestrictionAtTopLevel, when true, applies the
	// monomorphism restriction even to top-level signature-less pattern
	// bindings — the spec's algorithm exempts top level by default; this
	// is the config-driven override some language dialects want instead.
	MonomorphismRestrictionAtTopLevel bool
}

// Result is everything one call to Generalize produces.
type Result struct {
	Env           *env.GVE
	Bindings      []*typedast.TypedBinding
	EvBinds       []types.EvBind
	FloatedWanted []types.Constraint
	Implications  []*types.Implication
}

// Generalize runs the seven steps over decls, extending genv with each
// binder's published polytype.
func (gz *Generalizer) Generalize(genv *env.GVE, decls []*core.Decl, isTopLevel bool) *Result {
	res := &Result{Env: genv}

	var signed, signatureLess []*core.Decl
	for _, d := range decls {
		if d.Sig != nil {
			signed = append(signed, d)
		} else {
			signatureLess = append(signatureLess, d)
		}
	}

	// Step 1: partition by signature. A signed binder is handled on its
	// own, deep-skolemized and checked at its own rho-type inside a fresh
	// implication; it never participates in SCC splitting, and its own
	// name is visible (fully polymorphically) to its own body before that
	// body is checked, so a signed binder may be directly recursive.
	for _, d := range signed {
		res.Env = res.Env.Extend(d.Name, d.Sig)
	}
	for _, d := range signed {
		bind, impl := gz.generalizeSigned(res.Env, d)
		res.Bindings = append(res.Bindings, bind)
		res.Implications = append(res.Implications, impl)
	}

	// Step 2: SCC split the signature-less remainder, typed in
	// topological (callee-before-caller) order.
	graph := buildCallGraph(signatureLess)
	byName := map[string]*core.Decl{}
	for _, d := range signatureLess {
		byName[d.Name] = d
	}
	for _, names := range graph.sccs() {
		comp := make([]*core.Decl, len(names))
		for i, n := range names {
			comp[i] = byName[n]
		}
		binds, evs, floated, env2 := gz.generalizeComponent(res.Env, comp, isTopLevel)
		res.Env = env2
		res.Bindings = append(res.Bindings, binds...)
		res.EvBinds = append(res.EvBinds, evs...)
		res.FloatedWanted = append(res.FloatedWanted, floated...)
	}

	return res
}

// generalizeSigned implements "infer_type_for_single_fundecl_with_sig":
// deep-skolemize the signature, check the body at the rho-type inside a
// fresh implication, publish no new polytype (the user supplied one).
func (gz *Generalizer) generalizeSigned(genv *env.GVE, d *core.Decl) (*typedast.TypedBinding, *types.Implication) {
	inner := gz.Level.Inner()
	w, skolems, givens, rho := instantiate.Skolemize(d.Sig, true, gz.Fresh, gz.Level)

	bodyNode, wanted, implications := gz.Check(genv, wrapParams(d), rho, inner)

	impl := &types.Implication{
		Level:   inner,
		Skolems: skolems,
		Givens:  givens,
		Wanted:  types.WantedConstraints{Simple: wanted, Implications: implications},
		Context: fmt.Sprintf("in the signature for %s", d.Name),
	}

	binders, _, _ := types.SplitSigma(d.Sig)
	var dictArgs []*types.EvVar
	for _, c := range givens {
		if ev := types.EvVarOf(c.P); ev != nil {
			dictArgs = append(dictArgs, ev)
		}
	}
	_ = w // the skolemize wrapper's binder/evidence params are already
	// exactly `binders`/`dictArgs` above; no separate nested Λ/λ wrapper
	// is built here since TypedBinding carries QTVs/DictArgs flat.

	return &typedast.TypedBinding{Name: d.Name, QTVs: binders, DictArgs: dictArgs, Type: d.Sig, Body: bodyNode}, impl
}

// generalizeComponent implements steps 3-7 for one signature-less SCC.
func (gz *Generalizer) generalizeComponent(genv *env.GVE, comp []*core.Decl, isTopLevel bool) (bindings []*typedast.TypedBinding, evBinds []types.EvBind, floatedWanted []types.Constraint, newGenv *env.GVE) {
	outerLevel := gz.Level
	inner := outerLevel.Inner()

	// Step 3: monomorphic typing of the component.
	binderTypes := map[string]types.Type{}
	extend := map[string]types.Type{}
	for _, d := range comp {
		mv := gz.Fresh.FreshMetaVar(inner, types.KStar{})
		binderTypes[d.Name] = mv
		extend[d.Name] = mv
	}
	compGenv := genv.ExtendMany(extend)

	var componentWanted []types.Constraint
	var componentImpls []*types.Implication
	bodies := map[string]typedast.TypedNode{}
	for _, d := range comp {
		node, w, impls := gz.Check(compGenv, wrapParams(d), binderTypes[d.Name], inner)
		bodies[d.Name] = node
		componentWanted = append(componentWanted, w...)
		componentImpls = append(componentImpls, impls...)
	}

	// Step 4: decide quantification. Solve W within a child typechecker
	// at the component's own (inner) level to obtain the residual.
	solver := solve.New(gz.ClassEnv, gz.InstEnv, gz.Fresh, gz.Diags, inner)
	evs, residual := solver.Solve(nil, types.WantedConstraints{Simple: componentWanted, Implications: componentImpls})
	evBinds = append(evBinds, evs...)

	// fixed = { mv : mv.Level <= outerLevel } (spec §4.4 step 4); only
	// meta-vars strictly deeper than outerLevel — i.e. ones this component
	// itself introduced — are candidates for quantification. A meta-var
	// from an enclosing scope that merely flows into a binder's type (e.g.
	// a `let`-bound closure over an outer parameter) belongs to that outer
	// scope and must never be skolem-filled here.
	candidateQMTVs := map[uint64]*types.MetaVar{}
	for _, d := range comp {
		for _, mv := range types.FreeMetaVars(binderTypes[d.Name]) {
			if mv.Level > outerLevel {
				candidateQMTVs[mv.ID] = mv
			}
		}
	}

	groupIsSimple := false
	for _, d := range comp {
		if len(d.Params) == 0 {
			groupIsSimple = true
		}
	}
	monomorphismRestricts := groupIsSimple && (!isTopLevel || gz.MonomorphismRestrictionAtTopLevel)

	var quantPreds []types.QualPred
	var quantEvVars []*types.EvVar
	var qmtvs []*types.MetaVar
	var floatPreds []types.Constraint

	if monomorphismRestricts {
		floatPreds = residual.Simple
	} else {
		for id, mv := range candidateQMTVs {
			_ = id
			qmtvs = append(qmtvs, mv)
		}
		for _, c := range residual.Simple {
			pred, ev, ok := predFromConstraint(c)
			if !ok {
				continue
			}
			if predMentionsAny(pred, candidateQMTVs) {
				quantPreds = append(quantPreds, pred)
				quantEvVars = append(quantEvVars, ev)
			} else {
				floatPreds = append(floatPreds, c)
			}
		}
	}

	// Promote every meta-var that only appears in a floated predicate to
	// the outer level, so it can legally appear in a wanted constraint at
	// that (shallower) level.
	for _, c := range floatPreds {
		for _, t := range typesInConstraint(c) {
			for _, mv := range types.FreeMetaVars(t) {
				unify.Promote(mv, outerLevel)
			}
		}
		floatedWanted = append(floatedWanted, types.Constraint{Flavor: types.Wanted, Level: outerLevel, P: c.P})
	}

	// Step 5: skolemize the chosen quantified meta-vars.
	qtvBinders := make([]types.Binder, len(qmtvs))
	for i, mv := range qmtvs {
		sk := gz.Fresh.FreshSkolem(inner, mv.Kind)
		mv.Fill(sk)
		qtvBinders[i] = types.Binder{Name: sk.Name, Kind: mv.Kind}
	}

	// Step 6: build the evidence abstraction (collapsed to one shared
	// qtv/predicate set per component — see the package doc comment).
	for _, d := range comp {
		monoTy := types.Follow(binderTypes[d.Name])
		publishedTy := types.Generalize(qtvBinders, quantPreds, monoTy)
		bindings = append(bindings, &typedast.TypedBinding{
			Name:     d.Name,
			QTVs:     qtvBinders,
			DictArgs: quantEvVars,
			Type:     publishedTy,
			Body:     bodies[d.Name],
		})
	}

	newExtend := map[string]types.Type{}
	for _, b := range bindings {
		newExtend[b.Name] = b.Type
	}
	newGenv = genv.ExtendMany(newExtend)

	// Step 7 (the residual implication for a signature-less component) is
	// realized as floatedWanted rather than a fresh types.Implication:
	// nothing here introduces new skolems/givens the way a signed
	// declaration's rho-check does, so there is no deeper scope to attach
	// one to — the floated predicates are simply re-wanted at outerLevel,
	// to be picked up by whatever solve call runs next at that level.
	return bindings, evBinds, floatedWanted, newGenv
}

// wrapParams turns a declaration's separately-stored parameter patterns
// back into nested core.Lam nodes around its body, so Check's existing
// Lam rule (which already arrow-splits the expected type one argument at
// a time) handles a function-style binding with no special-casing here.
func wrapParams(d *core.Decl) core.Expr {
	expr := d.Body
	for i := len(d.Params) - 1; i >= 0; i-- {
		expr = &core.Lam{Pos: d.Pos, Param: d.Params[i], Body: expr}
	}
	return expr
}

func predFromConstraint(c types.Constraint) (types.QualPred, *types.EvVar, bool) {
	switch p := c.P.(type) {
	case *types.CanonicalDictPred:
		return types.ClassPred(p.Class, p.Args...), p.EvVar, true
	case *types.CanonicalEqualityPred:
		return types.EqPred(p.LHS, p.RHS), p.CoVar, true
	default:
		return types.QualPred{}, nil, false
	}
}

func typesInConstraint(c types.Constraint) []types.Type {
	switch p := c.P.(type) {
	case *types.CanonicalDictPred:
		return p.Args
	case *types.CanonicalEqualityPred:
		return []types.Type{p.LHS, p.RHS}
	default:
		return nil
	}
}

func predMentionsAny(p types.QualPred, mvs map[uint64]*types.MetaVar) bool {
	for _, a := range p.Args {
		for _, mv := range types.FreeMetaVars(a) {
			if _, ok := mvs[mv.ID]; ok {
				return true
			}
		}
	}
	return false
}
