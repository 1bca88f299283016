// Package solve implements the constraint solver: a deterministic
// worklist algorithm that canonicalizes, interacts, and top-reacts givens
// and wanteds until inert, recursing into nested implications.
//
// Grounded in the teacher's internal/types/unification.go and
// dictionaries.go resolution flow for the overall shape of "simplify
// wanteds against an environment of instances," and in
// original_source/src/computation/typecheck/solver.cc for the canonical
// predicate ordering and head-normal-form reduction this package's
// canonicalize mirrors at a coarser grain. Type-family reduction is
// one-step matching; there is no congruence-closure rewriting to normal
// form.
package solve

import (
	"github.com/glyphlang/glyph/internal/core"
	"github.com/glyphlang/glyph/internal/diagnostics"
	"github.com/glyphlang/glyph/internal/env"
	"github.com/glyphlang/glyph/internal/instance"
	"github.com/glyphlang/glyph/internal/types"
	"github.com/glyphlang/glyph/internal/unify"
)

// Solver holds the shared, immutable-from-here environments and the
// level at which it is currently solving. A child solver (Child) shares
// the class/instance environment pointers and the fresh-name source by
// reference but starts from its own empty inert set — the "recursive
// typechecker via copying" design note, resolved as a small value-ish
// struct rather than a thread or a mutated singleton.
type Solver struct {
	ClassEnv *env.ClassEnv
	InstEnv  *env.InstanceEnv
	Fresh    *types.FreshSource
	Diags    *diagnostics.Collector
	Level    types.Level

	// MaxIterations bounds the worklist loop below; zero means unbounded.
	// A child solver inherits it from Child so a runaway nested
	// implication trips the same safety valve as the top level.
	MaxIterations int

	// Families holds registered open-type-family equations for one-step
	// reduction during equality canonicalization; nil disables type
	// families entirely (no program using them is being checked).
	Families *FamilyEnv
}

// New constructs a top-level Solver.
func New(ce *env.ClassEnv, ie *env.InstanceEnv, fresh *types.FreshSource, diags *diagnostics.Collector, level types.Level) *Solver {
	return &Solver{ClassEnv: ce, InstEnv: ie, Fresh: fresh, Diags: diags, Level: level}
}

// Child returns a new Solver for solving at a deeper level (entering an
// implication), sharing every environment but starting inert-empty.
func (s *Solver) Child(level types.Level) *Solver {
	return &Solver{ClassEnv: s.ClassEnv, InstEnv: s.InstEnv, Fresh: s.Fresh, Diags: s.Diags, Level: level, MaxIterations: s.MaxIterations, Families: s.Families}
}

// Solve runs the worklist to a fixed point and returns the evidence
// bindings produced and whatever wanted simple predicates and
// implications remain unsolved.
func (s *Solver) Solve(givens []types.Constraint, wanted types.WantedConstraints) ([]types.EvBind, types.WantedConstraints) {
	// Givens are pushed last so they are popped (and become inert) first:
	// interact_g_w needs a given already inert to simplify a wanted that
	// arrives afterward.
	workList := append([]types.Constraint{}, wanted.Simple...)
	workList = append(workList, givens...)

	var inert []types.Constraint
	var evBinds []types.EvBind

	iterations := 0
	for len(workList) > 0 {
		iterations++
		if s.MaxIterations > 0 && iterations > s.MaxIterations {
			s.Diags.Report(diagnostics.New(diagnostics.SolverDivergence, core.Pos{},
				"solver exceeded %d iterations, giving up", s.MaxIterations))
			inert = append(inert, workList...)
			break
		}
		p := workList[len(workList)-1]
		workList = workList[:len(workList)-1]

		canon, bind := s.canonicalize(p)
		if bind != nil {
			evBinds = append(evBinds, *bind)
		}
		if len(canon) == 0 {
			continue
		}
		if len(canon) > 1 {
			workList = append(workList, canon...)
			continue
		}
		p = canon[0]

		if reactedWork, reactedBind, consumed, ok := s.reactAgainstInert(p, inert); ok {
			if reactedBind != nil {
				evBinds = append(evBinds, *reactedBind)
			}
			if !consumed {
				workList = append(workList, reactedWork...)
			}
			continue
		}

		if dp, isDict := p.P.(*types.CanonicalDictPred); isDict && p.Flavor == types.Wanted {
			if handled, newWork, bind := s.topReact(dp); handled {
				if bind != nil {
					evBinds = append(evBinds, *bind)
				}
				workList = append(workList, newWork...)
				continue
			}
		}

		inert = append(inert, p)
	}

	residualSimple := s.partitionInert(inert, &evBinds)

	var residualImplications []*types.Implication
	for _, impl := range wanted.Implications {
		child := s.Child(impl.Level)
		childGivens := append(append([]types.Constraint{}, givens...), impl.Givens...)
		for _, c := range inert {
			if c.Flavor == types.Given {
				childGivens = append(childGivens, c)
			}
		}
		evs, residual := child.Solve(childGivens, impl.Wanted)
		impl.EvBinds = append(impl.EvBinds, evs...)
		if !residual.IsEmpty() {
			impl.Wanted = residual
			residualImplications = append(residualImplications, impl)
		}
	}

	return evBinds, types.WantedConstraints{Simple: residualSimple, Implications: residualImplications}
}

// partitionInert extracts every CanonicalEquality with a touchable
// meta-var lhs passing the occurs-check and fills it in place (the
// substitution phase); everything else — remaining equalities and every
// dict — becomes the residual. Givens never appear in the residual: they
// are context, not obligations.
func (s *Solver) partitionInert(inert []types.Constraint, evBinds *[]types.EvBind) []types.Constraint {
	var residual []types.Constraint
	for _, c := range inert {
		if c.Flavor != types.Wanted {
			continue
		}
		if eq, ok := c.P.(*types.CanonicalEqualityPred); ok {
			if mv, ok := eq.LHS.(*types.MetaVar); ok && isTouchable(mv, s.Level) && !unify.OccursCheck(mv, eq.RHS) {
				mv.Fill(eq.RHS)
				*evBinds = append(*evBinds, types.EvBind{Var: eq.CoVar, Term: &types.EvRefl{Type: eq.RHS}})
				continue
			}
		}
		s.checkEscapingSkolems(c)
		residual = append(residual, c)
	}
	return residual
}

// isTouchable reports whether the solver at this level is allowed to
// substitute mv: a meta-var introduced at or below the current solving
// level (i.e. not still pinned to an outer, already-generalized scope).
func isTouchable(mv *types.MetaVar, level types.Level) bool {
	return mv.Level >= level
}

// checkEscapingSkolems reports an EscapingSkolem diagnostic if a residual
// wanted mentions a rigid type variable whose level is deeper than the
// level this solver is currently resolving at — such a skolem cannot be
// named once the implication that introduced it has closed.
func (s *Solver) checkEscapingSkolems(c types.Constraint) {
	for _, t := range typesIn(c.P) {
		for _, tv := range types.FreeTypeVars(t) {
			if tv.HasLevel && tv.Level > s.Level {
				s.Diags.Report(diagnostics.New(diagnostics.EscapingSkolem, core.Pos{},
					"skolem type variable %s escapes its enclosing scope", tv.Name))
			}
		}
	}
}

func typesIn(p types.Pred) []types.Type {
	switch x := p.(type) {
	case *types.CanonicalDictPred:
		return x.Args
	case *types.CanonicalEqualityPred:
		return []types.Type{x.LHS, x.RHS}
	case *types.NonCanonicalPred:
		return x.PredType.Args
	default:
		return nil
	}
}
