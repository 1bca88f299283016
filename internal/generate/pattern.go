package generate

import (
	"github.com/glyphlang/glyph/internal/core"
	"github.com/glyphlang/glyph/internal/diagnostics"
	"github.com/glyphlang/glyph/internal/env"
	"github.com/glyphlang/glyph/internal/instantiate"
	"github.com/glyphlang/glyph/internal/typedast"
	"github.com/glyphlang/glyph/internal/types"
)

// CheckPattern mirrors Check's shape for the pattern grammar: it matches
// pat against expected, extends genv with every name the pattern binds,
// and returns the elaborated pattern. A constructor pattern instantiates
// the constructor's polytype from genv exactly like a Var reference,
// generating wanteds for any class context an existential constructor
// carries, then unifies its result type against expected and checks each
// sub-pattern against the corresponding instantiated argument type.
func (g *Generator) CheckPattern(genv *env.GVE, pat core.Pattern, expected types.Type) (*env.GVE, typedast.TypedPattern) {
	switch p := pat.(type) {
	case *core.VarP:
		return genv.Extend(p.Name, expected), typedast.NewTypedVarP(p.Pos, expected, p.Name)

	case *core.WildP:
		return genv, typedast.NewTypedWildP(p.Pos, expected)

	case *core.LitP:
		if class, ok := litClass(p.Kind); ok {
			g.emitWanted(p.Pos, types.ClassPred(class, expected))
		} else if ty := litConcreteType(p.Kind); ty != nil {
			g.unifyNow(p.Pos, ty, expected)
		}
		return genv, typedast.NewTypedLitP(p.Pos, expected, p.Kind, p.Text)

	case *core.AsP:
		genv2, inner := g.CheckPattern(genv, p.Inner, expected)
		return genv2.Extend(p.Name, expected), typedast.NewTypedAsP(p.Pos, expected, p.Name, inner)

	case *core.LazyP:
		genv2, inner := g.CheckPattern(genv, p.Inner, expected)
		return genv2, typedast.NewTypedLazyP(p.Pos, expected, inner)

	case *core.TupP:
		elemTys := make([]types.Type, len(p.Elems))
		for i := range p.Elems {
			elemTys[i] = g.Fresh.FreshMetaVar(g.Level, types.KStar{})
		}
		g.unifyNow(p.Pos, &types.TupleType{Elems: elemTys}, expected)
		elems := make([]typedast.TypedPattern, len(p.Elems))
		cur := genv
		for i, sub := range p.Elems {
			cur, elems[i] = g.CheckPattern(cur, sub, elemTys[i])
		}
		return cur, typedast.NewTypedTupP(p.Pos, expected, elems)

	case *core.ListP:
		elemTy := g.Fresh.FreshMetaVar(g.Level, types.KStar{})
		g.unifyNow(p.Pos, &types.ListType{Elem: elemTy}, expected)
		elems := make([]typedast.TypedPattern, len(p.Elems))
		cur := genv
		for i, sub := range p.Elems {
			cur, elems[i] = g.CheckPattern(cur, sub, elemTy)
		}
		return cur, typedast.NewTypedListP(p.Pos, expected, elems)

	case *core.ConP:
		return g.checkConPattern(genv, p, expected)

	default:
		g.Diags.Report(diagnostics.New(diagnostics.TypeMismatch, pat.Position(), "unhandled pattern form"))
		return genv, typedast.NewTypedWildP(pat.Position(), expected)
	}
}

func (g *Generator) checkConPattern(genv *env.GVE, p *core.ConP, expected types.Type) (*env.GVE, typedast.TypedPattern) {
	poly, ok := genv.Lookup(p.Con)
	if !ok {
		g.Diags.Report(diagnostics.New(diagnostics.AmbiguousType, p.Pos, "unknown constructor %s", p.Con).WithData("constructor", p.Con))
		args := make([]typedast.TypedPattern, len(p.Args))
		cur := genv
		for i, sub := range p.Args {
			mv := g.Fresh.FreshMetaVar(g.Level, types.KStar{})
			cur, args[i] = g.CheckPattern(cur, sub, mv)
		}
		return cur, typedast.NewTypedConP(p.Pos, expected, p.Con, args)
	}

	_, wanteds, conTy := instantiate.Instantiate(poly, g.Fresh, g.Level)
	g.Wanted = append(g.Wanted, wanteds...)

	argTys := make([]types.Type, len(p.Args))
	resTy := conTy
	for i := range p.Args {
		a, r := g.matchFunTy(p.Pos, resTy)
		argTys[i] = a
		resTy = r
	}
	g.unifyNow(p.Pos, resTy, expected)

	args := make([]typedast.TypedPattern, len(p.Args))
	cur := genv
	for i, sub := range p.Args {
		cur, args[i] = g.CheckPattern(cur, sub, argTys[i])
	}
	return cur, typedast.NewTypedConP(p.Pos, expected, p.Con, args)
}
