package main

import (
	"github.com/glyphlang/glyph/internal/core"
	"github.com/glyphlang/glyph/internal/env"
	"github.com/glyphlang/glyph/internal/types"
)

// scenario is one of the six end-to-end demonstrations this command
// walks through: a label, the core.Program to check, and the KindEnv it
// needs (nil picks up env.NewKindEnv's builtins).
type scenario struct {
	Name string
	Prog *core.Program
	Kind *env.KindEnv
}

func varP(name string) *core.VarP { return &core.VarP{Name: name} }
func v(name string) core.Expr     { return &core.Var{Name: name} }
func app(fn, arg core.Expr) core.Expr {
	return &core.App{Fn: fn, Arg: arg}
}
func app2(fn, a, b core.Expr) core.Expr { return app(app(fn, a), b) }

func numForeign() []*core.ForeignDecl {
	a := &types.TypeVar{Name: "a"}
	numA := types.Generalize(
		[]types.Binder{{Name: "a"}},
		[]types.QualPred{types.ClassPred("Num", a)},
		types.Arrow(a, types.Arrow(a, a)),
	)
	return []*core.ForeignDecl{{Name: "+", Type: numA}}
}

func showForeign() []*core.ForeignDecl {
	a := &types.TypeVar{Name: "a"}
	stringT := &types.TypeCon{Name: "String"}
	showA := types.Generalize(
		[]types.Binder{{Name: "a"}},
		[]types.QualPred{types.ClassPred("Show", a)},
		types.Arrow(a, stringT),
	)
	return []*core.ForeignDecl{{Name: "show", Type: showA}}
}

// scenarios returns the six programs spec.md's own Testable Properties
// section names, in the same order: identity, a Num-constrained
// `double x = x + x`, mutual recursion, `show 3` (with no Show or Num
// class declared, so there is nothing for defaulting to resolve
// against), Eq Int and Eq [a] instance declarations (no expression in
// the program uses them), and a monomorphism-restriction edge case at
// the top level.
func scenarios() []scenario {
	boolT := &types.TypeCon{Name: "Bool"}

	identity := &core.Program{
		Groups: [][]*core.Decl{{
			{Name: "id", Params: []core.Pattern{varP("x")}, Body: v("x")},
		}},
	}

	double := &core.Program{
		Groups: [][]*core.Decl{{
			{Name: "double", Params: []core.Pattern{varP("x")}, Body: app2(v("+"), v("x"), v("x"))},
		}},
		Foreign: numForeign(),
	}

	mutualRecursion := &core.Program{
		Groups: [][]*core.Decl{{
			{
				Name:   "isEven",
				Params: []core.Pattern{varP("n")},
				Body: &core.Case{
					Scrutinee: v("n"),
					Alts: []core.Alt{
						{Pattern: &core.LitP{Kind: core.IntLit, Text: "0"}, Body: v("True")},
						{Pattern: &core.WildP{}, Body: app(v("isOdd"), v("n"))},
					},
				},
			},
			{
				Name:   "isOdd",
				Params: []core.Pattern{varP("n")},
				Body: &core.Case{
					Scrutinee: v("n"),
					Alts: []core.Alt{
						{Pattern: &core.LitP{Kind: core.IntLit, Text: "0"}, Body: v("False")},
						{Pattern: &core.WildP{}, Body: app(v("isEven"), v("n"))},
					},
				},
			},
		}},
		Foreign: []*core.ForeignDecl{
			{Name: "True", Type: boolT},
			{Name: "False", Type: boolT},
		},
	}

	showThree := &core.Program{
		Groups: [][]*core.Decl{{
			{Name: "shown", Body: app(v("show"), &core.Lit{Kind: core.IntLit, Text: "3"})},
		}},
		Foreign: showForeign(),
	}

	a := &types.TypeVar{Name: "a"}
	eqInstances := &core.Program{
		Classes: []*core.ClassDecl{
			{
				Name:    "Eq",
				TypeVar: "a",
				Members: map[string]types.Type{
					"==": types.Arrow(a, types.Arrow(a, boolT)),
				},
			},
		},
		Instances: []*core.InstanceDecl{
			{
				Class:    "Eq",
				Args:     []types.Type{&types.TypeCon{Name: "Int"}},
				DFunName: "$dEqInt",
				Methods: map[string]core.Expr{
					"==": &core.Lam{Param: varP("x"), Body: &core.Lam{Param: varP("y"), Body: v("True")}},
				},
			},
			{
				Class: "Eq",
				Args:  []types.Type{&types.ListType{Elem: a}},
				Constraints: []types.QualPred{
					types.ClassPred("Eq", a),
				},
				DFunName: "$dEqList",
				Methods: map[string]core.Expr{
					"==": &core.Lam{Param: varP("xs"), Body: &core.Lam{Param: varP("ys"), Body: v("True")}},
				},
			},
		},
		Foreign: []*core.ForeignDecl{
			{Name: "True", Type: boolT},
		},
	}

	monomorphism := &core.Program{
		Groups: [][]*core.Decl{{
			{Name: "xs", Body: &core.List{Elems: nil}},
		}},
	}

	return []scenario{
		{Name: "identity", Prog: identity},
		{Name: "double-num-constraint", Prog: double},
		{Name: "mutual-recursion", Prog: mutualRecursion},
		{Name: "show-defaulting", Prog: showThree},
		{Name: "eq-instance-dispatch", Prog: eqInstances},
		{Name: "top-level-monomorphism", Prog: monomorphism},
	}
}
