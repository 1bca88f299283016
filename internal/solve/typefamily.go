package solve

import (
	"github.com/glyphlang/glyph/internal/types"
	"github.com/glyphlang/glyph/internal/unify"
)

// TFEquation is one equation of an open type family: F lhsArgs = rhs.
type TFEquation struct {
	LHSArgs []types.Type
	RHS     types.Type
}

// FamilyEnv is the registered set of type-family equations, keyed by
// family name. Reduction tries equations in declaration order and stops
// at the first one-step match — a closed-family reading of an open
// family's equation list; overlap between two equations that could both
// match the same concrete arguments is not detected.
type FamilyEnv struct {
	families map[string][]TFEquation
}

// NewFamilyEnv returns an empty registry.
func NewFamilyEnv() *FamilyEnv {
	return &FamilyEnv{families: map[string][]TFEquation{}}
}

// Add registers one equation for family.
func (fe *FamilyEnv) Add(family string, lhsArgs []types.Type, rhs types.Type) {
	fe.families[family] = append(fe.families[family], TFEquation{LHSArgs: lhsArgs, RHS: rhs})
}

// reduce attempts a one-step reduction of family applied to args, trying
// each registered equation's pattern (its own type variables made fresh
// meta-vars, then one-way matched the same way instance.go matches an
// instance head) until one fully matches.
func (fe *FamilyEnv) reduce(family string, args []types.Type, fresh *types.FreshSource, level types.Level) (types.Type, bool) {
	for _, eq := range fe.families[family] {
		if len(eq.LHSArgs) != len(args) {
			continue
		}
		repl := map[string]types.Type{}
		for _, tv := range equationVars(eq.LHSArgs) {
			repl[tv.Name] = fresh.FreshMetaVar(level, tv.Kind)
		}
		subst := map[uint64]types.Type{}
		matched := true
		for i, pat := range eq.LHSArgs {
			if !unify.MaybeMatch(types.Substitute(pat, repl), args[i], subst) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		final := map[string]types.Type{}
		for name, mv := range repl {
			if resolved, ok := subst[mv.(*types.MetaVar).ID]; ok {
				final[name] = resolved
			}
		}
		return types.Substitute(eq.RHS, final), true
	}
	return nil, false
}

func equationVars(args []types.Type) []*types.TypeVar {
	seen := map[string]bool{}
	var out []*types.TypeVar
	for _, a := range args {
		for _, tv := range types.FreeTypeVars(a) {
			if !seen[tv.Name] {
				seen[tv.Name] = true
				out = append(out, tv)
			}
		}
	}
	return out
}

// splitFamilyApp decomposes t into a registered family name and its
// argument list, if t's head is a type constructor marked Family and
// registered in fe.
func splitFamilyApp(t types.Type, fe *FamilyEnv) (string, []types.Type, bool) {
	if fe == nil {
		return "", nil, false
	}
	var args []types.Type
	cur := types.Follow(t)
	for {
		app, ok := cur.(*types.TypeApp)
		if !ok {
			break
		}
		args = append([]types.Type{types.Follow(app.Arg)}, args...)
		cur = types.Follow(app.Head)
	}
	con, ok := cur.(*types.TypeCon)
	if !ok || !con.Family {
		return "", nil, false
	}
	if _, registered := fe.families[con.Name]; !registered {
		return "", nil, false
	}
	return con.Name, args, true
}
