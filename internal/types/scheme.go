package types

// FunCon is the builtin function-arrow type constructor.
var FunCon = &TypeCon{Name: "->", Kind: &KArrow{Arg: KStar{}, Res: &KArrow{Arg: KStar{}, Res: KStar{}}}}

// Arrow builds the function type from -> to, left-associated the usual
// way: Arrow(a, b) = a -> b.
func Arrow(from, to Type) Type {
	return &TypeApp{Head: &TypeApp{Head: FunCon, Arg: from}, Arg: to}
}

// SplitArrow decomposes a function type into its argument and result,
// following meta-vars first. ok is false if t's head is not "->".
func SplitArrow(t Type) (arg, res Type, ok bool) {
	t = Follow(t)
	app, isApp := t.(*TypeApp)
	if !isApp {
		return nil, nil, false
	}
	outer, isApp := app.Head.(*TypeApp)
	if !isApp {
		return nil, nil, false
	}
	con, isCon := outer.Head.(*TypeCon)
	if !isCon || con.Name != "->" {
		return nil, nil, false
	}
	return outer.Arg, app.Arg, true
}

// Generalize builds a polytype from a set of binders, a context, and a
// body, omitting the ForallType/ConstrainedType wrapper when empty so
// that an unconstrained monomorphic binder's type is exactly its body.
func Generalize(binders []Binder, ctx []QualPred, body Type) Type {
	var t Type = body
	if len(ctx) > 0 {
		t = &ConstrainedType{Context: ctx, Body: t}
	}
	if len(binders) > 0 {
		t = &ForallType{Binders: binders, Body: t}
	}
	return t
}

// SplitSigma decomposes a polytype into its binders, context, and ρ-body.
func SplitSigma(t Type) (binders []Binder, ctx []QualPred, rho Type) {
	if f, ok := t.(*ForallType); ok {
		binders = f.Binders
		t = f.Body
	}
	if c, ok := t.(*ConstrainedType); ok {
		ctx = c.Context
		t = c.Body
	}
	return binders, ctx, t
}

// IsRho reports whether t has no outermost forall (a ρ-type per the
// glossary).
func IsRho(t Type) bool {
	_, ok := t.(*ForallType)
	return !ok
}

// FreeMetaVars collects every distinct, unfilled meta-var reachable from
// t (after Follow), in first-encountered order.
func FreeMetaVars(t Type) []*MetaVar {
	seen := map[uint64]bool{}
	var out []*MetaVar
	var walk func(Type)
	walk = func(t Type) {
		t = Follow(t)
		switch x := t.(type) {
		case *MetaVar:
			if !seen[x.ID] {
				seen[x.ID] = true
				out = append(out, x)
			}
		case *TypeApp:
			walk(x.Head)
			walk(x.Arg)
		case *TupleType:
			for _, e := range x.Elems {
				walk(e)
			}
		case *ListType:
			walk(x.Elem)
		case *ForallType:
			walk(x.Body)
		case *ConstrainedType:
			for _, p := range x.Context {
				for _, a := range p.Args {
					walk(a)
				}
			}
			walk(x.Body)
		case *StrictLazyType:
			walk(x.Inner)
		}
	}
	walk(t)
	return out
}

// FreeMetaVarsPred collects the meta-vars free in a bare QualPred.
func FreeMetaVarsPred(p QualPred) []*MetaVar {
	var out []*MetaVar
	for _, a := range p.Args {
		out = append(out, FreeMetaVars(a)...)
	}
	return out
}

// FreeTypeVars collects every distinct rigid/signature TypeVar reachable
// from t (after Follow), by name.
func FreeTypeVars(t Type) []*TypeVar {
	seen := map[string]bool{}
	var out []*TypeVar
	var walk func(Type)
	walk = func(t Type) {
		t = Follow(t)
		switch x := t.(type) {
		case *TypeVar:
			if !seen[x.Name] {
				seen[x.Name] = true
				out = append(out, x)
			}
		case *TypeApp:
			walk(x.Head)
			walk(x.Arg)
		case *TupleType:
			for _, e := range x.Elems {
				walk(e)
			}
		case *ListType:
			walk(x.Elem)
		case *ForallType:
			walk(x.Body)
		case *ConstrainedType:
			for _, p := range x.Context {
				for _, a := range p.Args {
					walk(a)
				}
			}
			walk(x.Body)
		case *StrictLazyType:
			walk(x.Inner)
		}
	}
	walk(t)
	return out
}

// Substitute replaces every occurrence of a rigid TypeVar named by key in
// repl with its mapped Type. Used when instantiating a skolemized body
// back into a meta-var, and when specializing instance heads.
func Substitute(t Type, repl map[string]Type) Type {
	switch x := t.(type) {
	case *TypeVar:
		if r, ok := repl[x.Name]; ok {
			return r
		}
		return x
	case *MetaVar:
		if content, filled := x.Content(); filled {
			return Substitute(content, repl)
		}
		return x
	case *TypeApp:
		return &TypeApp{Head: Substitute(x.Head, repl), Arg: Substitute(x.Arg, repl)}
	case *TupleType:
		elems := make([]Type, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = Substitute(e, repl)
		}
		return &TupleType{Elems: elems}
	case *ListType:
		return &ListType{Elem: Substitute(x.Elem, repl)}
	case *ForallType:
		inner := map[string]Type{}
		for k, v := range repl {
			inner[k] = v
		}
		for _, b := range x.Binders {
			delete(inner, b.Name)
		}
		return &ForallType{Binders: x.Binders, Body: Substitute(x.Body, inner)}
	case *ConstrainedType:
		ctx := make([]QualPred, len(x.Context))
		for i, p := range x.Context {
			args := make([]Type, len(p.Args))
			for j, a := range p.Args {
				args[j] = Substitute(a, repl)
			}
			ctx[i] = QualPred{Class: p.Class, Args: args}
		}
		return &ConstrainedType{Context: ctx, Body: Substitute(x.Body, repl)}
	case *StrictLazyType:
		return &StrictLazyType{Strict: x.Strict, Inner: Substitute(x.Inner, repl)}
	default:
		return t
	}
}

// SubstitutePred applies Substitute to every argument of a bare predicate.
func SubstitutePred(p QualPred, repl map[string]Type) QualPred {
	args := make([]Type, len(p.Args))
	for i, a := range p.Args {
		args[i] = Substitute(a, repl)
	}
	return QualPred{Class: p.Class, Args: args}
}
