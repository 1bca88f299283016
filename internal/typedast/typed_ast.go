// Package typedast is the checker's output: core.Expr re-expressed with
// every node annotated by its type and every overloaded identifier
// applied to explicit dictionary evidence. A TypedBinding's elaborated
// form is literally "poly_id = Λtvs. λdicts. body'" as the spec's
// external interfaces describe it.
package typedast

import (
	"github.com/glyphlang/glyph/internal/core"
	"github.com/glyphlang/glyph/internal/types"
)

// TypedNode is the sum type over elaborated expression forms.
type TypedNode interface {
	isTypedNode()
	Type() types.Type
	Position() core.Pos
}

type base struct {
	Pos Pos
	Ty  types.Type
}

// Pos aliases core.Pos so this package does not have to re-declare it.
type Pos = core.Pos

func (b base) Type() types.Type  { return b.Ty }
func (b base) Position() Pos     { return b.Pos }

// mk builds a base from a position and a type — the one place outside
// packages go to populate the otherwise-unexported base field, via the
// constructors below.
func mk(pos Pos, ty types.Type) base { return base{Pos: pos, Ty: ty} }

// NewTypedVar constructs an elaborated variable reference.
func NewTypedVar(pos Pos, ty types.Type, name string) *TypedVar {
	return &TypedVar{base: mk(pos, ty), Name: name}
}

// NewTypedLit constructs an elaborated literal.
func NewTypedLit(pos Pos, ty types.Type, kind core.LitKind, text string) *TypedLit {
	return &TypedLit{base: mk(pos, ty), Kind: kind, Text: text}
}

// NewTypedApp constructs elaborated application.
func NewTypedApp(pos Pos, ty types.Type, fn, arg TypedNode) *TypedApp {
	return &TypedApp{base: mk(pos, ty), Fn: fn, Arg: arg}
}

// NewTypedLam constructs an elaborated lambda.
func NewTypedLam(pos Pos, ty types.Type, param TypedPattern, body TypedNode) *TypedLam {
	return &TypedLam{base: mk(pos, ty), Param: param, Body: body}
}

// NewTypedCase constructs an elaborated case expression.
func NewTypedCase(pos Pos, ty types.Type, scrutinee TypedNode, alts []TypedAlt) *TypedCase {
	return &TypedCase{base: mk(pos, ty), Scrutinee: scrutinee, Alts: alts}
}

// NewTypedLet constructs an elaborated let/where group.
func NewTypedLet(pos Pos, ty types.Type, evBinds []types.EvBind, groups [][]*TypedBinding, body TypedNode) *TypedLet {
	return &TypedLet{base: mk(pos, ty), EvBinds: evBinds, Groups: groups, Body: body}
}

// NewTypedTuple constructs an elaborated tuple literal.
func NewTypedTuple(pos Pos, ty types.Type, elems []TypedNode) *TypedTuple {
	return &TypedTuple{base: mk(pos, ty), Elems: elems}
}

// NewTypedList constructs an elaborated list literal.
func NewTypedList(pos Pos, ty types.Type, elems []TypedNode) *TypedList {
	return &TypedList{base: mk(pos, ty), Elems: elems}
}

// NewDictAbs constructs a dictionary-parameter abstraction.
func NewDictAbs(pos Pos, ty types.Type, params []*types.EvVar, body TypedNode) *DictAbs {
	return &DictAbs{base: mk(pos, ty), Params: params, Body: body}
}

// NewDictApp constructs a dictionary application.
func NewDictApp(pos Pos, ty types.Type, fn TypedNode, args []*types.EvVar) *DictApp {
	return &DictApp{base: mk(pos, ty), Fn: fn, Args: args}
}

// NewDictRef constructs a direct evidence-variable reference.
func NewDictRef(pos Pos, ty types.Type, v *types.EvVar) *DictRef {
	return &DictRef{base: mk(pos, ty), Var: v}
}

// NewTyAbs constructs a universal type abstraction.
func NewTyAbs(pos Pos, ty types.Type, binders []types.Binder, body TypedNode) *TyAbs {
	return &TyAbs{base: mk(pos, ty), Binders: binders, Body: body}
}

// NewTyApp constructs a type application.
func NewTyApp(pos Pos, ty types.Type, fn TypedNode, args []types.Type) *TyApp {
	return &TyApp{base: mk(pos, ty), Fn: fn, Args: args}
}

// NewTypedVarP constructs an elaborated variable-binding pattern.
func NewTypedVarP(pos Pos, ty types.Type, name string) *TypedVarP {
	return &TypedVarP{patBase: patBase{Pos: pos, Ty: ty}, Name: name}
}

// NewTypedConP constructs an elaborated constructor pattern.
func NewTypedConP(pos Pos, ty types.Type, con string, args []TypedPattern) *TypedConP {
	return &TypedConP{patBase: patBase{Pos: pos, Ty: ty}, Con: con, Args: args}
}

// NewTypedTupP constructs an elaborated tuple pattern.
func NewTypedTupP(pos Pos, ty types.Type, elems []TypedPattern) *TypedTupP {
	return &TypedTupP{patBase: patBase{Pos: pos, Ty: ty}, Elems: elems}
}

// NewTypedListP constructs an elaborated list pattern.
func NewTypedListP(pos Pos, ty types.Type, elems []TypedPattern) *TypedListP {
	return &TypedListP{patBase: patBase{Pos: pos, Ty: ty}, Elems: elems}
}

// NewTypedWildP constructs an elaborated wildcard pattern.
func NewTypedWildP(pos Pos, ty types.Type) *TypedWildP {
	return &TypedWildP{patBase: patBase{Pos: pos, Ty: ty}}
}

// NewTypedAsP constructs an elaborated as-pattern.
func NewTypedAsP(pos Pos, ty types.Type, name string, inner TypedPattern) *TypedAsP {
	return &TypedAsP{patBase: patBase{Pos: pos, Ty: ty}, Name: name, Inner: inner}
}

// NewTypedLazyP constructs an elaborated lazy pattern.
func NewTypedLazyP(pos Pos, ty types.Type, inner TypedPattern) *TypedLazyP {
	return &TypedLazyP{patBase: patBase{Pos: pos, Ty: ty}, Inner: inner}
}

// NewTypedLitP constructs an elaborated literal pattern.
func NewTypedLitP(pos Pos, ty types.Type, kind core.LitKind, text string) *TypedLitP {
	return &TypedLitP{patBase: patBase{Pos: pos, Ty: ty}, Kind: kind, Text: text}
}

// TypedVar is an elaborated variable reference.
type TypedVar struct {
	base
	Name string
}

func (*TypedVar) isTypedNode() {}

// TypedLit is an elaborated literal.
type TypedLit struct {
	base
	Kind core.LitKind
	Text string
}

func (*TypedLit) isTypedNode() {}

// TypedApp is elaborated application.
type TypedApp struct {
	base
	Fn  TypedNode
	Arg TypedNode
}

func (*TypedApp) isTypedNode() {}

// TypedLam is an elaborated lambda.
type TypedLam struct {
	base
	Param TypedPattern
	Body  TypedNode
}

func (*TypedLam) isTypedNode() {}

// TypedAlt is one elaborated case alternative.
type TypedAlt struct {
	Pattern TypedPattern
	Body    TypedNode
}

// TypedCase is an elaborated case expression.
type TypedCase struct {
	base
	Scrutinee TypedNode
	Alts      []TypedAlt
}

func (*TypedCase) isTypedNode() {}

// TypedBinding is one elaborated member of a Let/top-level group:
// Λqtvs. λdicts. Body, the product of the Binding-group Generalizer.
type TypedBinding struct {
	Name    string
	QTVs    []types.Binder
	DictArgs []*types.EvVar
	Type    types.Type // the binder's final, published polytype
	Body    TypedNode
}

// TypedLet introduces an elaborated, possibly mutually recursive group.
type TypedLet struct {
	base
	EvBinds []types.EvBind
	Groups  [][]*TypedBinding
	Body    TypedNode
}

func (*TypedLet) isTypedNode() {}

// TypedTuple is an elaborated tuple literal.
type TypedTuple struct {
	base
	Elems []TypedNode
}

func (*TypedTuple) isTypedNode() {}

// TypedList is an elaborated list literal.
type TypedList struct {
	base
	Elems []TypedNode
}

func (*TypedList) isTypedNode() {}

// DictAbs abstracts Body over a list of dictionary/evidence parameters —
// the λdicts. part of a binding's elaboration.
type DictAbs struct {
	base
	Params []*types.EvVar
	Body   TypedNode
}

func (*DictAbs) isTypedNode() {}

// DictApp applies Fn to a list of evidence arguments resolved by the
// solver (dictionaries or coercions).
type DictApp struct {
	base
	Fn   TypedNode
	Args []*types.EvVar
}

func (*DictApp) isTypedNode() {}

// DictRef is a direct reference to an evidence variable bound either by
// a DictAbs parameter or by an EvBind — the leaf the dictionary-passing
// elaboration bottoms out at.
type DictRef struct {
	base
	Var *types.EvVar
}

func (*DictRef) isTypedNode() {}

// TyAbs universally abstracts Body over type binders — the Λtvs. part.
type TyAbs struct {
	base
	Binders []types.Binder
	Body    TypedNode
}

func (*TyAbs) isTypedNode() {}

// TyApp instantiates a polymorphic Fn at concrete type arguments.
type TyApp struct {
	base
	Fn   TypedNode
	Args []types.Type
}

func (*TyApp) isTypedNode() {}

// TypedPattern mirrors core.Pattern with type annotations.
type TypedPattern interface {
	isTypedPattern()
	Type() types.Type
	Position() Pos
}

type patBase struct {
	Pos Pos
	Ty  types.Type
}

func (p patBase) Type() types.Type { return p.Ty }
func (p patBase) Position() Pos    { return p.Pos }

// TypedVarP binds a name at a type.
type TypedVarP struct {
	patBase
	Name string
}

func (*TypedVarP) isTypedPattern() {}

// TypedConP matches a constructor applied to typed sub-patterns.
type TypedConP struct {
	patBase
	Con  string
	Args []TypedPattern
}

func (*TypedConP) isTypedPattern() {}

// TypedTupP matches a typed tuple pattern.
type TypedTupP struct {
	patBase
	Elems []TypedPattern
}

func (*TypedTupP) isTypedPattern() {}

// TypedListP matches a typed list pattern.
type TypedListP struct {
	patBase
	Elems []TypedPattern
}

func (*TypedListP) isTypedPattern() {}

// TypedWildP matches anything.
type TypedWildP struct {
	patBase
}

func (*TypedWildP) isTypedPattern() {}

// TypedAsP binds Name to the whole value matched by Inner.
type TypedAsP struct {
	patBase
	Name  string
	Inner TypedPattern
}

func (*TypedAsP) isTypedPattern() {}

// TypedLazyP defers matching Inner.
type TypedLazyP struct {
	patBase
	Inner TypedPattern
}

func (*TypedLazyP) isTypedPattern() {}

// TypedLitP matches a typed literal constant.
type TypedLitP struct {
	patBase
	Kind core.LitKind
	Text string
}

func (*TypedLitP) isTypedPattern() {}

// TypedProgram is the fully elaborated output: every group's bindings,
// plus the instance dictionary functions elaborated alongside them.
type TypedProgram struct {
	Groups    [][]*TypedBinding
	Instances []*TypedInstance
	// EvBinds witnesses the top-level dictionaries the solver resolved
	// directly (not through any one binder's own DictArgs) — chiefly
	// evidence produced by defaulting an otherwise-ambiguous predicate at
	// the program's outermost scope, the same role TypedLet.EvBinds plays
	// one scope down.
	EvBinds []types.EvBind
}

// TypedInstance is an elaborated instance: its dfun name and the
// elaborated method bodies that build its dictionary.
type TypedInstance struct {
	Class    string
	DFunName string
	TVs      []types.Binder
	DictArgs []*types.EvVar // superclass/context dictionaries the dfun itself takes
	Methods  map[string]TypedNode
}
