package generate

import (
	"github.com/glyphlang/glyph/internal/core"
	"github.com/glyphlang/glyph/internal/env"
	"github.com/glyphlang/glyph/internal/generalize"
	"github.com/glyphlang/glyph/internal/typedast"
	"github.com/glyphlang/glyph/internal/types"
)

// generalizeLet runs every binding group of a Let (or the program's
// top-level groups, via CheckProgram) through the Binding-group
// Generalizer in order, extending genv as each group's published types
// become visible to the next.
func (g *Generator) generalizeLet(genv *env.GVE, groups [][]*core.Decl) (*env.GVE, [][]*typedast.TypedBinding, []types.EvBind) {
	gz := &generalize.Generalizer{
		ClassEnv: g.ClassEnv,
		InstEnv:  g.InstEnv,
		Fresh:    g.Fresh,
		Diags:    g.Diags,
		Level:    g.Level,
		Check:    g.checkForGeneralizer,

		MonomorphismRestrictionAtTopLevel: g.SuppressMonomorphismAtTopLevel,
	}

	cur := genv
	var outGroups [][]*typedast.TypedBinding
	var evBinds []types.EvBind
	for _, decls := range groups {
		res := gz.Generalize(cur, decls, g.TopLevel)
		cur = res.Env
		outGroups = append(outGroups, res.Bindings)
		evBinds = append(evBinds, res.EvBinds...)
		g.Wanted = append(g.Wanted, res.FloatedWanted...)
		g.Implications = append(g.Implications, res.Implications...)
	}
	return cur, outGroups, evBinds
}

// CheckProgramGroups runs a program's top-level binding groups through
// the generalizer, the exported entry point internal/checker uses to
// avoid reaching into this package's unexported generalizeLet directly.
func (g *Generator) CheckProgramGroups(genv *env.GVE, groups [][]*core.Decl) (*env.GVE, [][]*typedast.TypedBinding, []types.EvBind) {
	return g.generalizeLet(genv, groups)
}

// checkForGeneralizer adapts Check to the generalize.CheckFunc shape: a
// fresh child Generator at the requested level runs the check in
// isolation, and its own accumulated wanted/implications are handed back
// rather than merged into g directly, since the generalizer decides what
// to do with them (solve now, float up, or attach to a signature's
// residual implication) before anything touches the enclosing Generator.
func (g *Generator) checkForGeneralizer(genv *env.GVE, expr core.Expr, expected types.Type, level types.Level) (typedast.TypedNode, []types.Constraint, []*types.Implication) {
	child := g.Child(level)
	node := child.Check(genv, expr, expected)
	return node, child.Wanted, child.Implications
}
