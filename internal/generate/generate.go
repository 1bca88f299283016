// Package generate implements the bidirectional constraint generator:
// Infer/Check over internal/core expressions and patterns, producing an
// elaborated internal/typedast term plus the simple wanted constraints
// and nested implications accumulated along the way.
//
// Grounded in the teacher's internal/types/typechecker_core.go Infer/Check
// pair (the same infer/check split, the same "child typechecker enters a
// deeper level" shape for a signature) and, for the exact per-form rules,
// original_source/src/computation/typecheck/binds.cc's infer_rhs_type/
// infer_lhs_type dispatch (read in full while drafting this package).
package generate

import (
	"fmt"

	"github.com/glyphlang/glyph/internal/core"
	"github.com/glyphlang/glyph/internal/diagnostics"
	"github.com/glyphlang/glyph/internal/env"
	"github.com/glyphlang/glyph/internal/instantiate"
	"github.com/glyphlang/glyph/internal/typedast"
	"github.com/glyphlang/glyph/internal/types"
	"github.com/glyphlang/glyph/internal/unify"
)

// Generator is a small value-ish struct holding pointers to the shared,
// read-mostly environments and the fresh-name source, plus this
// generator's own accumulating wanted-constraint buffer — the "recursive
// typechecker via copying" shape: a signature's nested check gets its own
// child Generator rather than mutating a shared one.
type Generator struct {
	ClassEnv *env.ClassEnv
	InstEnv  *env.InstanceEnv
	KindEnv  *env.KindEnv
	Fresh    *types.FreshSource
	Diags    *diagnostics.Collector
	Level    types.Level

	// SuppressMonomorphismAtTopLevel, when true, applies the
	// monomorphism restriction even to top-level signature-less pattern
	// bindings, overriding the algorithm's default top-level exemption.
	SuppressMonomorphismAtTopLevel bool
	// TopLevel marks whether Let-groups generated from this Generator sit
	// at the program's outermost scope, for the monomorphism-restriction
	// exemption; a nested Let inherits false from its enclosing Check.
	TopLevel bool

	Wanted       []types.Constraint
	Implications []*types.Implication
}

// New constructs a top-level Generator.
func New(ce *env.ClassEnv, ie *env.InstanceEnv, kenv *env.KindEnv, fresh *types.FreshSource, diags *diagnostics.Collector, level types.Level) *Generator {
	return &Generator{ClassEnv: ce, InstEnv: ie, KindEnv: kenv, Fresh: fresh, Diags: diags, Level: level, TopLevel: true}
}

// Child returns a new Generator at a deeper level, sharing every
// environment but starting with an empty wanted buffer — used when
// entering a signature's implication.
func (g *Generator) Child(level types.Level) *Generator {
	return &Generator{ClassEnv: g.ClassEnv, InstEnv: g.InstEnv, KindEnv: g.KindEnv, Fresh: g.Fresh, Diags: g.Diags, Level: level}
}

func (g *Generator) emitWanted(pos core.Pos, p types.QualPred) *types.EvVar {
	ev := g.Fresh.FreshDictVar(p.Class)
	g.Wanted = append(g.Wanted, types.Constraint{
		Flavor: types.Wanted, Level: g.Level,
		P: &types.NonCanonicalPred{EvVar: ev, PredType: p},
	})
	return ev
}

// unifyNow performs immediate, local structural unification for the
// decidable shape-matching the generator handles itself (arrow/tuple/list
// splitting, pattern-against-scrutinee checks) rather than deferring to
// the solver — mirroring the core spec's "via matchFunTy which unifies
// with a fresh arrow" wording for Application. A failure is recorded and
// the computation continues with whatever shape was expected, matching
// the error model's "record and continue with a best-effort stand-in."
func (g *Generator) unifyNow(pos core.Pos, a, b types.Type) {
	if err := unify.Unify(a, b); err != nil {
		g.Diags.Report(diagnostics.New(diagnostics.TypeMismatch, pos, "cannot unify %s with %s", a, b))
	}
}

// matchFunTy splits t into (arg, res), unifying t with a fresh arrow type
// first when t is not already headed by "->".
func (g *Generator) matchFunTy(pos core.Pos, t types.Type) (arg, res types.Type) {
	if a, r, ok := types.SplitArrow(t); ok {
		return a, r
	}
	arg = g.Fresh.FreshMetaVar(g.Level, types.KStar{})
	res = g.Fresh.FreshMetaVar(g.Level, types.KStar{})
	g.unifyNow(pos, t, types.Arrow(arg, res))
	return arg, res
}

func litClass(kind core.LitKind) (string, bool) {
	switch kind {
	case core.IntLit:
		return "Num", true
	case core.FracLit:
		return "Fractional", true
	case core.StringLit:
		return "IsString", true
	default:
		return "", false
	}
}

func litConcreteType(kind core.LitKind) types.Type {
	switch kind {
	case core.CharLit:
		return &types.TypeCon{Name: "Char", Kind: types.KStar{}}
	case core.BoolLit:
		return &types.TypeCon{Name: "Bool", Kind: types.KStar{}}
	case core.UnitLit:
		return &types.TypeCon{Name: "Unit", Kind: types.KStar{}}
	default:
		return nil
	}
}

// inferLit implements the Literal rule: a defaultable literal gets a
// fresh meta-var constrained by its class; a monomorphic literal gets its
// concrete builtin type directly.
func (g *Generator) inferLit(l *core.Lit) (types.Type, typedast.TypedNode) {
	if class, ok := litClass(l.Kind); ok {
		mv := g.Fresh.FreshMetaVar(g.Level, types.KStar{})
		g.emitWanted(l.Pos, types.ClassPred(class, mv))
		return mv, typedast.NewTypedLit(l.Pos, mv, l.Kind, l.Text)
	}
	ty := litConcreteType(l.Kind)
	return ty, typedast.NewTypedLit(l.Pos, ty, l.Kind, l.Text)
}

// Infer synthesizes a type for expr, per the core spec's form table.
func (g *Generator) Infer(genv *env.GVE, expr core.Expr) (types.Type, typedast.TypedNode) {
	switch e := expr.(type) {
	case *core.Var:
		poly, ok := genv.Lookup(e.Name)
		if !ok {
			g.Diags.Report(diagnostics.New(diagnostics.AmbiguousType, e.Pos, "unbound identifier %s", e.Name))
			mv := g.Fresh.FreshMetaVar(g.Level, types.KStar{})
			return mv, typedast.NewTypedVar(e.Pos, mv, e.Name)
		}
		w, wanteds, body := instantiate.Instantiate(poly, g.Fresh, g.Level)
		g.Wanted = append(g.Wanted, wanteds...)
		var node typedast.TypedNode = typedast.NewTypedVar(e.Pos, poly, e.Name)
		node = applyInstantiateWrapper(node, w, body, e.Pos)
		return body, node

	case *core.Lit:
		return g.inferLit(e)

	case *core.App:
		fnTy, fnNode := g.Infer(genv, e.Fn)
		arg, res := g.matchFunTy(e.Pos, fnTy)
		argNode := g.Check(genv, e.Arg, arg)
		return res, typedast.NewTypedApp(e.Pos, res, fnNode, argNode)

	case *core.Lam:
		argMV := g.Fresh.FreshMetaVar(g.Level, types.KStar{})
		genv2, paramNode := g.CheckPattern(genv, e.Param, argMV)
		wasTop := g.TopLevel
		g.TopLevel = false
		bodyTy, bodyNode := g.Infer(genv2, e.Body)
		g.TopLevel = wasTop
		fnTy := types.Arrow(argMV, bodyTy)
		return fnTy, typedast.NewTypedLam(e.Pos, fnTy, paramNode, bodyNode)

	case *core.Let:
		genv2, groups, evBinds := g.generalizeLet(genv, e.Groups)
		bodyTy, bodyNode := g.Infer(genv2, e.Body)
		return bodyTy, typedast.NewTypedLet(e.Pos, bodyTy, evBinds, groups, bodyNode)

	case *core.Case:
		return g.inferCase(genv, e)

	case *core.Tuple:
		elemTys := make([]types.Type, len(e.Elems))
		elemNodes := make([]typedast.TypedNode, len(e.Elems))
		for i, el := range e.Elems {
			elemTys[i], elemNodes[i] = g.Infer(genv, el)
		}
		ty := &types.TupleType{Elems: elemTys}
		return ty, typedast.NewTypedTuple(e.Pos, ty, elemNodes)

	case *core.List:
		elemTy := g.Fresh.FreshMetaVar(g.Level, types.KStar{})
		nodes := make([]typedast.TypedNode, len(e.Elems))
		for i, el := range e.Elems {
			nodes[i] = g.Check(genv, el, elemTy)
		}
		ty := &types.ListType{Elem: elemTy}
		return ty, typedast.NewTypedList(e.Pos, ty, nodes)

	case *core.Ann:
		return g.inferAnn(genv, e)

	default:
		panic(fmt.Sprintf("generate: unhandled core.Expr variant %T", expr))
	}
}

// Check pushes expected inward, per the core spec's Check-mode rules.
func (g *Generator) Check(genv *env.GVE, expr core.Expr, expected types.Type) typedast.TypedNode {
	switch e := expr.(type) {
	case *core.Lam:
		arg, res := g.matchFunTy(e.Pos, expected)
		genv2, paramNode := g.CheckPattern(genv, e.Param, arg)
		wasTop := g.TopLevel
		g.TopLevel = false
		bodyNode := g.Check(genv2, e.Body, res)
		g.TopLevel = wasTop
		return typedast.NewTypedLam(e.Pos, expected, paramNode, bodyNode)

	case *core.Let:
		genv2, groups, evBinds := g.generalizeLet(genv, e.Groups)
		bodyNode := g.Check(genv2, e.Body, expected)
		return typedast.NewTypedLet(e.Pos, expected, evBinds, groups, bodyNode)

	case *core.Case:
		return g.checkCase(genv, e, expected)

	default:
		inferred, node := g.Infer(genv, expr)
		g.unifyNow(expr.Position(), inferred, expected)
		return node
	}
}

func (g *Generator) inferCase(genv *env.GVE, e *core.Case) (types.Type, typedast.TypedNode) {
	scrutTy, scrutNode := g.Infer(genv, e.Scrutinee)
	if len(e.Alts) == 0 {
		ty := g.Fresh.FreshMetaVar(g.Level, types.KStar{})
		return ty, typedast.NewTypedCase(e.Pos, ty, scrutNode, nil)
	}
	resultTy := g.Fresh.FreshMetaVar(g.Level, types.KStar{})
	alts := make([]typedast.TypedAlt, len(e.Alts))
	for i, alt := range e.Alts {
		genvAlt, patNode := g.CheckPattern(genv, alt.Pattern, scrutTy)
		bodyNode := g.Check(genvAlt, alt.Body, resultTy)
		alts[i] = typedast.TypedAlt{Pattern: patNode, Body: bodyNode}
	}
	return resultTy, typedast.NewTypedCase(e.Pos, resultTy, scrutNode, alts)
}

func (g *Generator) checkCase(genv *env.GVE, e *core.Case, expected types.Type) typedast.TypedNode {
	scrutTy, scrutNode := g.Infer(genv, e.Scrutinee)
	alts := make([]typedast.TypedAlt, len(e.Alts))
	for i, alt := range e.Alts {
		genvAlt, patNode := g.CheckPattern(genv, alt.Pattern, scrutTy)
		bodyNode := g.Check(genvAlt, alt.Body, expected)
		alts[i] = typedast.TypedAlt{Pattern: patNode, Body: bodyNode}
	}
	return typedast.NewTypedCase(e.Pos, expected, scrutNode, alts)
}

// inferAnn implements the Signature rule: deep-skolemize sigma, check e
// against the rho-body inside a fresh implication, capturing whatever the
// inner check wants solved under the skolemized givens.
func (g *Generator) inferAnn(genv *env.GVE, e *core.Ann) (types.Type, typedast.TypedNode) {
	inner := g.Level.Inner()
	w, skolems, givens, rho := instantiate.Skolemize(e.Type, true, g.Fresh, g.Level)

	child := g.Child(inner)
	bodyNode := child.Check(genv, e.Expr, rho)

	impl := &types.Implication{
		Level:   inner,
		Skolems: skolems,
		Givens:  givens,
		Wanted:  types.WantedConstraints{Simple: child.Wanted, Implications: child.Implications},
		Context: fmt.Sprintf("in the signature expression at %s", e.Pos),
	}
	g.Implications = append(g.Implications, impl)

	node := applySkolemizeWrapper(bodyNode, w, e.Type, e.Pos)
	return e.Type, node
}

// applyInstantiateWrapper rebuilds a variable reference's elaborated form
// around the type and evidence applications Instantiate recorded: the
// WrapTyApp step (if any) wraps first, becoming the inner node, and the
// WrapEvApp step (if any) wraps that result, becoming the outer node —
// "x @Int $dNumInt" reads as (x applied to Int) applied to $dNumInt.
func applyInstantiateWrapper(node typedast.TypedNode, w instantiate.Wrapper, finalType types.Type, pos core.Pos) typedast.TypedNode {
	for _, step := range w {
		switch step.Kind {
		case instantiate.WrapTyApp:
			node = typedast.NewTyApp(pos, finalType, node, step.TyArgs)
		case instantiate.WrapEvApp:
			node = typedast.NewDictApp(pos, finalType, node, step.EvArgs)
		}
	}
	return node
}

// applySkolemizeWrapper rebuilds a signature-checked body's elaborated
// form around the type and evidence abstractions Skolemize recorded,
// with the same inside-out convention as applyInstantiateWrapper: the
// WrapTyLam step wraps first (innermost), WrapEvLam wraps that result
// (outermost) — "λdicts. Λtvs. body", this package's consistent
// elaboration order for a locally polymorphic signature term.
func applySkolemizeWrapper(node typedast.TypedNode, w instantiate.Wrapper, finalType types.Type, pos core.Pos) typedast.TypedNode {
	for _, step := range w {
		switch step.Kind {
		case instantiate.WrapTyLam:
			node = typedast.NewTyAbs(pos, finalType, step.TyBinders, node)
		case instantiate.WrapEvLam:
			node = typedast.NewDictAbs(pos, finalType, step.EvParams, node)
		}
	}
	return node
}
