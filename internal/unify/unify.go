// Package unify implements equality of types modulo filled unification
// variables: occurs-check, same-type, first-order unification, and
// one-way matching for instance lookup.
package unify

import (
	"fmt"

	"github.com/glyphlang/glyph/internal/types"
)

// Error records a unification failure. It is a plain value, not used for
// control-flow exceptions — callers turn it into a diagnostic themselves.
type Error struct {
	Left, Right types.Type
	Reason      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot unify %s with %s: %s", e.Left, e.Right, e.Reason)
}

// SameType reports structural equality modulo Follow and alpha-equivalence
// on ForallType. This is the only equality relation Type values support;
// see DESIGN.md's resolution of the ForallType-equality open question.
func SameType(a, b types.Type) bool {
	return sameType(a, b, map[string]string{})
}

func sameType(a, b types.Type, boundPairing map[string]string) bool {
	a = types.Follow(a)
	b = types.Follow(b)

	switch x := a.(type) {
	case *types.MetaVar:
		y, ok := b.(*types.MetaVar)
		return ok && x.SameCell(y)
	case *types.TypeVar:
		y, ok := b.(*types.TypeVar)
		if !ok {
			return false
		}
		if paired, ok := boundPairing[x.Name]; ok {
			return paired == y.Name
		}
		return x.Name == y.Name && x.HasLevel == y.HasLevel
	case *types.TypeCon:
		y, ok := b.(*types.TypeCon)
		return ok && x.Name == y.Name
	case *types.TypeApp:
		y, ok := b.(*types.TypeApp)
		return ok && sameType(x.Head, y.Head, boundPairing) && sameType(x.Arg, y.Arg, boundPairing)
	case *types.TupleType:
		y, ok := b.(*types.TupleType)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !sameType(x.Elems[i], y.Elems[i], boundPairing) {
				return false
			}
		}
		return true
	case *types.ListType:
		y, ok := b.(*types.ListType)
		return ok && sameType(x.Elem, y.Elem, boundPairing)
	case *types.ForallType:
		y, ok := b.(*types.ForallType)
		if !ok || len(x.Binders) != len(y.Binders) {
			return false
		}
		inner := map[string]string{}
		for k, v := range boundPairing {
			inner[k] = v
		}
		for i, bx := range x.Binders {
			inner[bx.Name] = y.Binders[i].Name
		}
		return sameType(x.Body, y.Body, inner)
	case *types.ConstrainedType:
		y, ok := b.(*types.ConstrainedType)
		if !ok || len(x.Context) != len(y.Context) {
			return false
		}
		for i := range x.Context {
			if x.Context[i].Class != y.Context[i].Class || len(x.Context[i].Args) != len(y.Context[i].Args) {
				return false
			}
			for j := range x.Context[i].Args {
				if !sameType(x.Context[i].Args[j], y.Context[i].Args[j], boundPairing) {
					return false
				}
			}
		}
		return sameType(x.Body, y.Body, boundPairing)
	case *types.StrictLazyType:
		y, ok := b.(*types.StrictLazyType)
		return ok && x.Strict == y.Strict && sameType(x.Inner, y.Inner, boundPairing)
	default:
		return false
	}
}

// OccursCheck returns true iff mv appears (through Follow) in t.
func OccursCheck(mv *types.MetaVar, t types.Type) bool {
	t = types.Follow(t)
	switch x := t.(type) {
	case *types.MetaVar:
		return x.SameCell(mv)
	case *types.TypeApp:
		return OccursCheck(mv, x.Head) || OccursCheck(mv, x.Arg)
	case *types.TupleType:
		for _, e := range x.Elems {
			if OccursCheck(mv, e) {
				return true
			}
		}
		return false
	case *types.ListType:
		return OccursCheck(mv, x.Elem)
	case *types.ForallType:
		return OccursCheck(mv, x.Body)
	case *types.ConstrainedType:
		for _, p := range x.Context {
			for _, a := range p.Args {
				if OccursCheck(mv, a) {
					return true
				}
			}
		}
		return OccursCheck(mv, x.Body)
	case *types.StrictLazyType:
		return OccursCheck(mv, x.Inner)
	default:
		return false
	}
}

// Promote lowers mv's level to level if mv currently sits deeper; if mv
// is already filled, it recursively promotes every meta-var reachable
// from its content instead (mv itself cannot move once filled — its
// level was fixed at creation and Follow makes the filled content the
// relevant type).
func Promote(mv *types.MetaVar, level types.Level) {
	if content, filled := mv.Content(); filled {
		for _, inner := range types.FreeMetaVars(content) {
			Promote(inner, level)
		}
		return
	}
	if mv.Level > level {
		mv.Level = level
	}
}

func promoteAllIn(t types.Type, level types.Level) {
	for _, mv := range types.FreeMetaVars(t) {
		Promote(mv, level)
	}
}

// Unify performs first-order unification, mutating meta-var cells as a
// side effect. It never touches a rigid TypeVar and fails if it would
// have to. Unifying two meta-vars picks the smaller id as the union-find
// representative; unifying a meta-var at level L against a term holding
// meta-vars at a deeper level first promotes them to L.
func Unify(t1, t2 types.Type) error {
	t1 = types.Follow(t1)
	t2 = types.Follow(t2)

	mv1, isMeta1 := t1.(*types.MetaVar)
	mv2, isMeta2 := t2.(*types.MetaVar)

	switch {
	case isMeta1 && isMeta2:
		if mv1.SameCell(mv2) {
			return nil
		}
		if mv1.ID < mv2.ID {
			if mv2.Level < mv1.Level {
				mv1.Level = mv2.Level
			}
			mv2.Fill(mv1)
		} else {
			if mv1.Level < mv2.Level {
				mv2.Level = mv1.Level
			}
			mv1.Fill(mv2)
		}
		return nil
	case isMeta1:
		return bindMeta(mv1, t2)
	case isMeta2:
		return bindMeta(mv2, t1)
	}

	switch x := t1.(type) {
	case *types.TypeVar:
		y, ok := t2.(*types.TypeVar)
		if !ok || x.Name != y.Name {
			return &Error{Left: t1, Right: t2, Reason: "rigid type variables are never unified with a different type"}
		}
		return nil
	case *types.TypeCon:
		y, ok := t2.(*types.TypeCon)
		if !ok || x.Name != y.Name {
			return &Error{Left: t1, Right: t2, Reason: "type constructor mismatch"}
		}
		return nil
	case *types.TypeApp:
		y, ok := t2.(*types.TypeApp)
		if !ok {
			return &Error{Left: t1, Right: t2, Reason: "expected a type application"}
		}
		if err := Unify(x.Head, y.Head); err != nil {
			return err
		}
		return Unify(x.Arg, y.Arg)
	case *types.TupleType:
		y, ok := t2.(*types.TupleType)
		if !ok || len(x.Elems) != len(y.Elems) {
			return &Error{Left: t1, Right: t2, Reason: "tuple arity mismatch"}
		}
		for i := range x.Elems {
			if err := Unify(x.Elems[i], y.Elems[i]); err != nil {
				return err
			}
		}
		return nil
	case *types.ListType:
		y, ok := t2.(*types.ListType)
		if !ok {
			return &Error{Left: t1, Right: t2, Reason: "expected a list type"}
		}
		return Unify(x.Elem, y.Elem)
	case *types.StrictLazyType:
		y, ok := t2.(*types.StrictLazyType)
		if !ok || x.Strict != y.Strict {
			return &Error{Left: t1, Right: t2, Reason: "strictness annotation mismatch"}
		}
		return Unify(x.Inner, y.Inner)
	default:
		return &Error{Left: t1, Right: t2, Reason: "unify does not descend into polytypes; skolemize first"}
	}
}

func bindMeta(mv *types.MetaVar, t types.Type) error {
	if OccursCheck(mv, t) {
		return &Error{Left: mv, Right: t, Reason: "occurs check failed"}
	}
	promoteAllIn(t, mv.Level)
	mv.Fill(t)
	return nil
}

// MaybeMatch is a one-way match where only meta-vars on the pattern side
// may be bound; used by instance lookup to test whether an instance head
// (pattern) matches a wanted predicate's concrete arguments (target)
// without mutating anything in target. Bindings accumulate in subst,
// keyed by the pattern meta-var's id.
func MaybeMatch(pattern, target types.Type, subst map[uint64]types.Type) bool {
	pattern = types.Follow(pattern)
	target = types.Follow(target)

	if mv, ok := pattern.(*types.MetaVar); ok {
		if existing, bound := subst[mv.ID]; bound {
			return SameType(existing, target)
		}
		subst[mv.ID] = target
		return true
	}

	switch x := pattern.(type) {
	case *types.TypeVar:
		y, ok := target.(*types.TypeVar)
		return ok && x.Name == y.Name
	case *types.TypeCon:
		y, ok := target.(*types.TypeCon)
		return ok && x.Name == y.Name
	case *types.TypeApp:
		y, ok := target.(*types.TypeApp)
		return ok && MaybeMatch(x.Head, y.Head, subst) && MaybeMatch(x.Arg, y.Arg, subst)
	case *types.TupleType:
		y, ok := target.(*types.TupleType)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !MaybeMatch(x.Elems[i], y.Elems[i], subst) {
				return false
			}
		}
		return true
	case *types.ListType:
		y, ok := target.(*types.ListType)
		return ok && MaybeMatch(x.Elem, y.Elem, subst)
	default:
		return false
	}
}
