package checker

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/glyphlang/glyph/internal/core"
	"github.com/glyphlang/glyph/internal/diagnostics"
	"github.com/glyphlang/glyph/internal/env"
	"github.com/glyphlang/glyph/internal/types"
)

func varP(name string) *core.VarP { return &core.VarP{Name: name} }

func v(name string) core.Expr { return &core.Var{Name: name} }

func lit(kind core.LitKind, text string) core.Expr { return &core.Lit{Kind: kind, Text: text} }

func app(fn, arg core.Expr) core.Expr { return &core.App{Fn: fn, Arg: arg} }

func app2(fn, a, b core.Expr) core.Expr { return app(app(fn, a), b) }

// builtinsKindEnv mirrors env.NewKindEnv's defaults but is named here to
// keep each test's intent readable without repeating the constructor.
func builtinsKindEnv() *env.KindEnv { return env.NewKindEnv() }

// foreignArith seeds a Program's Foreign list with the one primitive the
// scenarios below need: (+) :: Num a => a -> a -> a.
func foreignArith() []*core.ForeignDecl {
	a := &types.TypeVar{Name: "a"}
	numA := types.ConstrainedType{
		Context: []types.QualPred{types.ClassPred("Num", a)},
		Body:    types.Arrow(a, types.Arrow(a, a)),
	}
	return []*core.ForeignDecl{
		{Name: "+", Type: types.Generalize([]types.Binder{{Name: "a"}}, numA.Context, numA.Body)},
	}
}

// TestCheckProgramIdentity covers scenario 1: `id x = x` generalizes to
// forall a. a -> a with no residual diagnostics.
func TestCheckProgramIdentity(t *testing.T) {
	prog := &core.Program{
		Groups: [][]*core.Decl{{
			{Name: "id", Params: []core.Pattern{varP("x")}, Body: v("x")},
		}},
	}

	result := CheckProgram(prog, nil, nil)
	require.Empty(t, result.Diagnostics, "id should check clean")
	require.Len(t, result.Program.Groups, 1)
	require.Len(t, result.Program.Groups[0], 1)

	binding := result.Program.Groups[0][0]
	require.Equal(t, "id", binding.Name)
	require.Len(t, binding.QTVs, 1, "id should generalize over exactly one type variable")

	arg, res, ok := types.SplitArrow(types.Follow(stripForall(binding.Type)))
	require.True(t, ok, "id's published type should be a function type")
	require.True(t, cmp.Equal(types.Follow(arg).String(), types.Follow(res).String()), "id's argument and result should be the same bound variable")
}

// TestCheckProgramDoubleGeneralizesWithNumConstraint covers scenario 2:
// `double x = x + x` generalizes over its argument's type variable and
// carries the Num constraint from (+) as a dictionary parameter, so the
// constraint is neither reported nor defaulted even though no Num
// instance is registered.
func TestCheckProgramDoubleGeneralizesWithNumConstraint(t *testing.T) {
	prog := &core.Program{
		Groups: [][]*core.Decl{{
			{Name: "double", Params: []core.Pattern{varP("x")}, Body: app2(v("+"), v("x"), v("x"))},
		}},
		Foreign: foreignArith(),
	}

	result := CheckProgram(prog, builtinsKindEnv(), nil)
	require.Empty(t, result.Diagnostics, "double should check clean, carrying a Num constraint rather than defaulting it")

	binding := result.Program.Groups[0][0]
	require.Equal(t, "double", binding.Name)
	require.Len(t, binding.QTVs, 1, "double should still generalize over one type variable")
	require.NotEmpty(t, binding.DictArgs, "double should take a Num dictionary parameter")
}

// TestCheckProgramMutualRecursion covers scenario 3: isEven/isOdd form
// one SCC and both generalize.
func TestCheckProgramMutualRecursion(t *testing.T) {
	boolT := &types.TypeCon{Name: "Bool"}
	prog := &core.Program{
		Groups: [][]*core.Decl{{
			{
				Name:   "isEven",
				Params: []core.Pattern{varP("n")},
				Body: &core.Case{
					Scrutinee: v("n"),
					Alts: []core.Alt{
						{Pattern: &core.LitP{Kind: core.IntLit, Text: "0"}, Body: &core.Var{Name: "True"}},
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
						{Pattern: &core.LitP{Kind: core.IntLit, Text: "0"}, Body: &core.Var{Name: "False"}},
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

	result := CheckProgram(prog, builtinsKindEnv(), nil)
	require.Empty(t, result.Diagnostics)
	require.Len(t, result.Program.Groups[0], 2, "isEven and isOdd should be checked as one binding group")
}

// TestCheckProgramLiteralGeneralizesOverItsOwnNumConstraint covers the
// simple case adjacent to scenario 4: a top-level binding whose entire
// body is a bare numeric literal publishes that literal's own
// meta-variable as its binder type, so the literal's Num constraint
// quantifies into the binding's own dictionary parameter instead of
// floating up to the program's top-level residual — defaulting (covered
// directly in defaulting_test.go) only ever sees a constraint once it
// floats clear of its own binder this way.
func TestCheckProgramLiteralGeneralizesOverItsOwnNumConstraint(t *testing.T) {
	prog := &core.Program{
		Groups: [][]*core.Decl{{
			{Name: "three", Body: lit(core.IntLit, "3")},
		}},
	}

	result := CheckProgram(prog, builtinsKindEnv(), nil)
	require.Empty(t, result.Diagnostics)

	binding := result.Program.Groups[0][0]
	require.NotEmpty(t, binding.DictArgs, "three should generalize to forall a. Num a => a, taking a Num dictionary")
}

// TestCheckProgramInstanceMissingMethodReportsDiagnostic checks the
// instance side of class handling: an Eq Widget instance that omits the
// class's declared (==) method, with no class default, reports
// MissingMethod rather than silently leaving it unelaborated.
func TestCheckProgramInstanceMissingMethodReportsDiagnostic(t *testing.T) {
	a := &types.TypeVar{Name: "a"}
	boolT := &types.TypeCon{Name: "Bool"}
	widgetT := &types.TypeCon{Name: "Widget"}

	prog := &core.Program{
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
				Args:     []types.Type{widgetT},
				Methods:  map[string]core.Expr{},
				DFunName: "$dEqWidget",
			},
		},
	}

	result := CheckProgram(prog, builtinsKindEnv(), nil)
	require.NotEmpty(t, result.Diagnostics, "a class member with no instance method and no default should be reported")

	var sawMissing bool
	for _, d := range result.Diagnostics {
		if d.Kind == diagnostics.MissingMethod {
			sawMissing = true
		}
	}
	require.True(t, sawMissing, "expected a MissingMethod diagnostic, got %+v", result.Diagnostics)
}

// TestCheckProgramTopLevelPatternBindingGeneralizesByDefault covers
// scenario 6: a signature-less, parameter-less top-level binding (`let
// x = []`-shaped) would be ambiguous under the monomorphism restriction,
// but the restriction exempts the program's own top level, and
// config.Default leaves SuppressMonomorphismAtTopLevel false so that
// exemption stays in place; the binding generalizes instead of
// reporting ambiguity.
func TestCheckProgramTopLevelPatternBindingGeneralizesByDefault(t *testing.T) {
	prog := &core.Program{
		Groups: [][]*core.Decl{{
			{Name: "xs", Body: &core.List{Elems: nil}},
		}},
	}

	result := CheckProgram(prog, builtinsKindEnv(), nil)
	require.Empty(t, result.Diagnostics)

	binding := result.Program.Groups[0][0]
	require.Equal(t, "xs", binding.Name)
	require.NotEmpty(t, binding.QTVs, "an empty list literal at the top level should generalize over its element type by default")
}

// TestCheckProgramNestedLetDoesNotQuantifyOuterMetaVar is a regression
// test for the generalizer's `fixed`-set filter: `f x = let g z = x in
// g x` gives g the monotype `z -> x`, where `z`'s meta-var belongs to the
// inner let but `x`'s meta-var belongs to the enclosing lambda. Without
// restricting candidate quantified variables to those introduced at a
// level deeper than the component's own outer level, generalizing g
// would quantify and skolem-fill x's meta-var too, corrupting f's own
// parameter type out from under it. With the filter, g generalizes over
// z alone and f still comes out as the identity function.
func TestCheckProgramNestedLetDoesNotQuantifyOuterMetaVar(t *testing.T) {
	prog := &core.Program{
		Groups: [][]*core.Decl{{
			{
				Name:   "f",
				Params: []core.Pattern{varP("x")},
				Body: &core.Let{
					Groups: [][]*core.Decl{{
						{Name: "g", Params: []core.Pattern{varP("z")}, Body: v("x")},
					}},
					Body: app(v("g"), v("x")),
				},
			},
		}},
	}

	result := CheckProgram(prog, nil, nil)
	require.Empty(t, result.Diagnostics, "f should check clean")

	binding := result.Program.Groups[0][0]
	require.Equal(t, "f", binding.Name)
	require.Len(t, binding.QTVs, 1, "f should still generalize over exactly its own parameter's type variable")

	arg, res, ok := types.SplitArrow(types.Follow(stripForall(binding.Type)))
	require.True(t, ok, "f's published type should be a function type")
	require.True(t, cmp.Equal(types.Follow(arg).String(), types.Follow(res).String()), "f's argument and result should be the same bound variable, unperturbed by generalizing the inner let")
}

// stripForall unwraps a ForallType's body, or returns t unchanged if t
// is already a rho-type — generalized bindings publish a ForallType,
// monomorphic ones do not.
func stripForall(t types.Type) types.Type {
	if fa, ok := t.(*types.ForallType); ok {
		return fa.Body
	}
	return t
}
