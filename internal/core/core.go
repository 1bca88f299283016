// Package core defines the small renamed, desugared core grammar the
// checker consumes: Var | Lit | App | Lam | Case | Let | Tuple | List |
// Ann for expressions, and VarP | ConP | TupP | ListP | WildP | AsP |
// LazyP | LitP for patterns. Producing this grammar — lexing, parsing,
// renaming, desugaring — is the front end's job; this package only
// defines the shape the checker walks.
package core

import (
	"fmt"

	"github.com/glyphlang/glyph/internal/types"
)

// Pos is a lightweight source position carried on every node so
// diagnostics can point at it. It is deliberately minimal: the front
// end's own, richer position machinery (internal/sid in the teacher's
// line of descent) is out of scope here.
type Pos struct {
	File string
	Line int
	Col  int
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// Expr is the sum type over core expression forms. Every variant has an
// unexported marker method so an exhaustive switch fails to compile the
// moment a new variant is added without being handled — the resolution
// to the "dynamic dispatch over the type variant" design note.
type Expr interface {
	isCoreExpr()
	Position() Pos
}

// LitKind is one of the literal kinds the generator emits a class wanted
// for (Num/Fractional/IsString/...).
type LitKind int

const (
	IntLit LitKind = iota
	FracLit
	CharLit
	StringLit
	BoolLit
	UnitLit
)

// Var references a renamed identifier: either a local id or a
// module-qualified name.
type Var struct {
	Pos  Pos
	Name string
}

func (*Var) isCoreExpr()      {}
func (v *Var) Position() Pos  { return v.Pos }

// Lit is a literal constant.
type Lit struct {
	Pos  Pos
	Kind LitKind
	Text string // the literal's source spelling, for diagnostics
}

func (*Lit) isCoreExpr()     {}
func (l *Lit) Position() Pos { return l.Pos }

// App is function application.
type App struct {
	Pos  Pos
	Fn   Expr
	Arg  Expr
}

func (*App) isCoreExpr()     {}
func (a *App) Position() Pos { return a.Pos }

// Lam is a single-argument lambda; multi-argument surface lambdas are
// desugared (out of scope) into nested Lams before reaching this core.
type Lam struct {
	Pos   Pos
	Param Pattern
	Body  Expr
}

func (*Lam) isCoreExpr()     {}
func (l *Lam) Position() Pos { return l.Pos }

// Alt is one case alternative.
type Alt struct {
	Pos     Pos
	Pattern Pattern
	Body    Expr
}

// Case scrutinizes an expression against a list of alternatives.
type Case struct {
	Pos  Pos
	Scrutinee Expr
	Alts      []Alt
}

func (*Case) isCoreExpr()     {}
func (c *Case) Position() Pos { return c.Pos }

// Let introduces a (possibly mutually recursive) binding group in scope
// for Body. Groups is the same shape as Program.Groups: the renamer has
// already partitioned bindings into dependency groups.
type Let struct {
	Pos    Pos
	Groups [][]*Decl
	Body   Expr
}

func (*Let) isCoreExpr()     {}
func (l *Let) Position() Pos { return l.Pos }

// Tuple is an n-ary product literal.
type Tuple struct {
	Pos   Pos
	Elems []Expr
}

func (*Tuple) isCoreExpr()     {}
func (t *Tuple) Position() Pos { return t.Pos }

// List is a list literal.
type List struct {
	Pos   Pos
	Elems []Expr
}

func (*List) isCoreExpr()     {}
func (l *List) Position() Pos { return l.Pos }

// Ann is an explicit signature annotation e :: sigma.
type Ann struct {
	Pos  Pos
	Expr Expr
	Type types.Type
}

func (*Ann) isCoreExpr()     {}
func (a *Ann) Position() Pos { return a.Pos }

// Pattern is the sum type over core pattern forms.
type Pattern interface {
	isCorePattern()
	Position() Pos
}

// VarP binds the scrutinized value to a fresh name.
type VarP struct {
	Pos  Pos
	Name string
}

func (*VarP) isCorePattern()  {}
func (p *VarP) Position() Pos { return p.Pos }

// ConP matches a data constructor applied to sub-patterns.
type ConP struct {
	Pos  Pos
	Con  string
	Args []Pattern
}

func (*ConP) isCorePattern()  {}
func (p *ConP) Position() Pos { return p.Pos }

// TupP matches a tuple.
type TupP struct {
	Pos   Pos
	Elems []Pattern
}

func (*TupP) isCorePattern()  {}
func (p *TupP) Position() Pos { return p.Pos }

// ListP matches a list.
type ListP struct {
	Pos   Pos
	Elems []Pattern
}

func (*ListP) isCorePattern()  {}
func (p *ListP) Position() Pos { return p.Pos }

// WildP matches anything, binding nothing.
type WildP struct {
	Pos Pos
}

func (*WildP) isCorePattern()  {}
func (p *WildP) Position() Pos { return p.Pos }

// AsP binds Name to the whole value matched by Inner.
type AsP struct {
	Pos   Pos
	Name  string
	Inner Pattern
}

func (*AsP) isCorePattern()  {}
func (p *AsP) Position() Pos { return p.Pos }

// LazyP defers matching Inner until the bound names are forced.
type LazyP struct {
	Pos   Pos
	Inner Pattern
}

func (*LazyP) isCorePattern()  {}
func (p *LazyP) Position() Pos { return p.Pos }

// LitP matches a literal constant.
type LitP struct {
	Pos  Pos
	Kind LitKind
	Text string
}

func (*LitP) isCorePattern()  {}
func (p *LitP) Position() Pos { return p.Pos }

// Decl is one binding in a declaration group: name, optional user
// signature, and a right-hand side expression.
type Decl struct {
	Pos  Pos
	Name string
	// Params holds the argument patterns for a function-style binding
	// (f p1 p2 = body); it is empty for a plain pattern binding
	// (x = body), which the monomorphism restriction treats specially.
	Params []Pattern
	Sig    types.Type // nil if the user supplied no signature
	Body   Expr
}

// ClassDecl declares a type class.
type ClassDecl struct {
	Pos          Pos
	Name         string
	TypeVar      string
	Superclasses []types.QualPred
	Members      map[string]types.Type
	Defaults     map[string]Expr
}

// InstanceDecl declares an instance of a class.
type InstanceDecl struct {
	Pos         Pos
	Class       string
	TVs         []types.Binder
	Args        []types.Type
	Constraints []types.QualPred
	Methods     map[string]Expr
	DFunName    string
}

// TFInstance is one equation of an open type family.
type TFInstance struct {
	Pos     Pos
	Family  string
	LHSArgs []types.Type
	RHS     types.Type
}

// ForeignDecl declares a foreign (FFI) binding's type without a core
// body; the runtime that supplies its implementation is out of scope.
type ForeignDecl struct {
	Pos  Pos
	Name string
	Type types.Type
}

// Program is the renamed, desugared input the checker consumes.
type Program struct {
	// Groups partitions top-level declarations into mutually recursive
	// binding groups, already ordered by the renamer/desugarer so that a
	// group never depends on a later one except through explicit
	// signatures.
	Groups      [][]*Decl
	Classes     []*ClassDecl
	Instances   []*InstanceDecl
	TFInstances []*TFInstance
	Foreign     []*ForeignDecl
}
