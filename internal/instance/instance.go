// Package instance implements the instance resolver: matching a wanted
// class predicate against the instance environment, pruning by
// specificity, and walking superclass chains to extract a dictionary for
// an ancestor class out of a subclass's dictionary.
//
// Grounded in the teacher's internal/types/instances.go (InstanceEnv,
// ClassInstance, superclass-derivation lookup) and, for the exact
// per-argument specificity rule, original_source/src/computation/
// typecheck/instance.cc's more_specific_than.
package instance

import (
	"github.com/glyphlang/glyph/internal/env"
	"github.com/glyphlang/glyph/internal/types"
	"github.com/glyphlang/glyph/internal/unify"
)

// Outcome enumerates what LookupInstance found for a wanted predicate.
type Outcome int

const (
	// NoCandidates: either the predicate's arguments are all variables (no
	// progress possible) or no instance head matched.
	NoCandidates Outcome = iota
	// Overlap: more than one candidate survived specificity pruning.
	Overlap
	// Resolved: exactly one candidate survived.
	Resolved
)

// Match is one candidate instance together with the substitution mapping
// its own type variables to the fresh meta-vars used to match it.
type Match struct {
	Info  *env.InstanceInfo
	Repl  map[string]types.Type
	Subst map[uint64]types.Type
}

// Lookup is the result of LookupInstance.
type Lookup struct {
	Outcome Outcome
	// Attempted distinguishes the two ways NoCandidates can arise: false
	// when the predicate's arguments were all variables and no instance
	// was even scanned for (genuinely "no progress possible yet," not an
	// error); true when candidates were scanned and none matched (a real
	// NoInstance failure).
	Attempted bool
	// Resolved:
	Info         *env.InstanceInfo
	DFunArgs     []*types.EvVar
	SuperWanteds []types.Constraint
	// Overlap:
	Competing []*env.InstanceInfo
}

// isNoProgressArg reports whether t cannot be made more concrete by any
// instance dispatch: a rigid type variable, or a meta-var still unfilled.
func isNoProgressArg(t types.Type) bool {
	t = types.Follow(t)
	switch t.(type) {
	case *types.TypeVar:
		return true
	case *types.MetaVar:
		return true
	default:
		return false
	}
}

// LookupInstance matches pred against every instance registered for its
// class, in ie (and its ancestor scopes). fresh/level are used to
// instantiate candidate instance heads and the fresh super-wanteds a
// Resolved outcome emits.
func LookupInstance(pred *types.CanonicalDictPred, ie *env.InstanceEnv, fresh *types.FreshSource, level types.Level) Lookup {
	allNoProgress := true
	for _, a := range pred.Args {
		if !isNoProgressArg(a) {
			allNoProgress = false
			break
		}
	}
	if allNoProgress {
		return Lookup{Outcome: NoCandidates}
	}

	var matches []*Match
	for _, cand := range ie.ForClass(pred.Class) {
		if m, ok := tryMatch(cand, pred.Args, fresh, level); ok {
			matches = append(matches, m)
		}
	}

	matches = pruneLessSpecific(matches, fresh)

	switch len(matches) {
	case 0:
		return Lookup{Outcome: NoCandidates, Attempted: true}
	case 1:
		return resolve(matches[0], fresh, level)
	default:
		infos := make([]*env.InstanceInfo, len(matches))
		for i, m := range matches {
			infos[i] = m.Info
		}
		return Lookup{Outcome: Overlap, Competing: infos}
	}
}

// tryMatch instantiates info's own type variables as fresh meta-vars and
// one-way matches its (now-concrete-headed) argument patterns against the
// wanted predicate's concrete arguments.
func tryMatch(info *env.InstanceInfo, wantedArgs []types.Type, fresh *types.FreshSource, level types.Level) (*Match, bool) {
	if len(info.Args) != len(wantedArgs) {
		return nil, false
	}
	repl := map[string]types.Type{}
	for _, b := range info.TVs {
		repl[b.Name] = fresh.FreshMetaVar(level, b.Kind)
	}
	subst := map[uint64]types.Type{}
	for i, a := range info.Args {
		pattern := types.Substitute(a, repl)
		if !unify.MaybeMatch(pattern, wantedArgs[i], subst) {
			return nil, false
		}
	}
	return &Match{Info: info, Repl: repl, Subst: subst}, true
}

// headMoreSpecific reports whether specific's head is a substitution
// instance of general's head: general's own type variables, made fresh
// meta-vars, one-way-match against specific's literal head.
func headMoreSpecific(general, specific *env.InstanceInfo, fresh *types.FreshSource) bool {
	if len(general.Args) != len(specific.Args) {
		return false
	}
	repl := map[string]types.Type{}
	for _, b := range general.TVs {
		repl[b.Name] = fresh.FreshMetaVar(types.TopLevel, b.Kind)
	}
	subst := map[uint64]types.Type{}
	for i, a := range general.Args {
		pattern := types.Substitute(a, repl)
		if !unify.MaybeMatch(pattern, specific.Args[i], subst) {
			return false
		}
	}
	return true
}

// lessSpecific reports whether a is strictly less specific than b: b's
// head is a substitution instance of a's, but a's head is not a
// substitution instance of b's.
func lessSpecific(a, b *env.InstanceInfo, fresh *types.FreshSource) bool {
	return headMoreSpecific(a, b, fresh) && !headMoreSpecific(b, a, fresh)
}

// pruneLessSpecific discards every match strictly dominated by another
// surviving match, leaving only the most-specific candidates.
func pruneLessSpecific(matches []*Match, fresh *types.FreshSource) []*Match {
	var out []*Match
	for i, m := range matches {
		dominated := false
		for j, o := range matches {
			if i == j {
				continue
			}
			if lessSpecific(m.Info, o.Info, fresh) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, m)
		}
	}
	return out
}

// resolve builds the fresh evidence arguments and super-wanted
// constraints an instance dfun needs, instantiated at m's own
// substitution for its type variables.
func resolve(m *Match, fresh *types.FreshSource, level types.Level) Lookup {
	var dfunArgs []*types.EvVar
	var superWanteds []types.Constraint
	for _, c := range m.Info.Constraints {
		pred := types.SubstitutePred(c, m.Repl)
		ev := fresh.FreshDictVar(pred.Class)
		dfunArgs = append(dfunArgs, ev)
		superWanteds = append(superWanteds, types.Constraint{
			Flavor: types.Wanted,
			Level:  level,
			P:      &types.NonCanonicalPred{EvVar: ev, PredType: pred},
		})
	}
	return Lookup{
		Outcome:      Resolved,
		Info:         m.Info,
		DFunArgs:     dfunArgs,
		SuperWanteds: superWanteds,
	}
}

// IsSuperclassOf searches the superclass DAG recorded on each ClassInfo
// for a chain of projection names getting from a dictionary for source
// to a dictionary for target. Returns (chain, true) with an empty chain
// when source == target (trivially its own superclass-of-itself,
// i.e. the identity projection).
func IsSuperclassOf(target, source string, ce *env.ClassEnv) ([]string, bool) {
	if target == source {
		return nil, true
	}
	type frame struct {
		class string
		chain []string
	}
	visited := map[string]bool{source: true}
	queue := []frame{{class: source, chain: nil}}
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		info, ok := ce.Lookup(f.class)
		if !ok {
			continue
		}
		for _, sc := range info.Superclasses {
			chain := append(append([]string{}, f.chain...), sc.Extractor)
			if sc.Superclass == target {
				return chain, true
			}
			if !visited[sc.Superclass] {
				visited[sc.Superclass] = true
				queue = append(queue, frame{class: sc.Superclass, chain: chain})
			}
		}
	}
	return nil, false
}
