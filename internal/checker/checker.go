// Package checker is the top-level orchestration the rest of this module
// builds toward: given a renamed, desugared core.Program and a
// caller-supplied KindEnv, it wires the class/instance/kind environments,
// runs the constraint generator and binding-group generalizer over every
// top-level declaration group, elaborates every instance's methods
// against its class's member signatures, solves and defaults whatever
// wanted constraints remain, and returns an elaborated program alongside
// the published type environment, the instance table, and every
// diagnostic recorded along the way.
//
// Grounded in the teacher's cmd/typecheck/main.go construction order
// (build environment, run inference, solve, report) generalized from a
// demo driver into a reusable entry point, and in
// original_source/src/computation/typecheck/binds.cc's
// `infer_type_for_binds_top`/`infer_type_for_binds` for the overall
// "classes and instances first, then binding groups, then default what's
// left" sequencing.
package checker

import (
	"strings"

	"github.com/glyphlang/glyph/internal/config"
	"github.com/glyphlang/glyph/internal/core"
	"github.com/glyphlang/glyph/internal/diagnostics"
	"github.com/glyphlang/glyph/internal/env"
	"github.com/glyphlang/glyph/internal/generate"
	"github.com/glyphlang/glyph/internal/solve"
	"github.com/glyphlang/glyph/internal/typedast"
	"github.com/glyphlang/glyph/internal/types"
)

// Result is everything one call to CheckProgram produces: the elaborated
// program, the published type environment, the instance table, and every
// diagnostic recorded (an empty slice means the module is clean and safe
// to hand to a code generator).
type Result struct {
	Program     *typedast.TypedProgram
	Env         *env.GVE
	Instances   *env.InstanceEnv
	Diagnostics []*diagnostics.Diagnostic
}

// CheckProgram type-checks and elaborates prog end to end. kenv may be
// nil, in which case NewKindEnv's builtins are assumed; cfg may be nil,
// in which case config.Default() tunes the solver.
func CheckProgram(prog *core.Program, kenv *env.KindEnv, cfg *config.Config) *Result {
	if cfg == nil {
		cfg = config.Default()
	}
	if kenv == nil {
		kenv = env.NewKindEnv()
	}

	fresh := types.NewFreshSource()
	diags := diagnostics.NewCollector()

	classEnv := buildClassEnv(prog.Classes)
	instEnv, infoByDFun := buildInstanceEnv(prog.Instances)
	families := buildFamilyEnv(prog.TFInstances)

	classByName := map[string]*core.ClassDecl{}
	for _, cd := range prog.Classes {
		classByName[cd.Name] = cd
	}

	gve := env.NewGVE()
	for _, f := range prog.Foreign {
		gve = gve.Extend(f.Name, f.Type)
	}

	gen := generate.New(classEnv, instEnv, kenv, fresh, diags, types.TopLevel)
	gen.SuppressMonomorphismAtTopLevel = cfg.SuppressMonomorphismAtTopLevel

	finalEnv, groups, groupEvBinds := gen.CheckProgramGroups(gve, prog.Groups)

	// Instance method bodies are elaborated against the final top-level
	// environment, after the program's own binding groups are checked, so
	// a method body (or an inherited class default) may call an ordinary
	// top-level function the same way any other expression does.
	typedInstances := elaborateInstances(
		prog.Instances, classByName, infoByDFun,
		classEnv, instEnv, kenv, finalEnv, fresh, diags, cfg, families,
	)

	topSolver := solve.New(classEnv, instEnv, fresh, diags, types.TopLevel)
	topSolver.MaxIterations = cfg.MaxSolverIterations
	topSolver.Families = families

	solvedEvBinds, residual := topSolver.Solve(nil, types.WantedConstraints{
		Simple:       gen.Wanted,
		Implications: gen.Implications,
	})

	defaultEvBinds, stillResidual := defaultAmbiguous(residual.Simple, classEnv, instEnv, kenv, fresh, diags, cfg)

	for _, c := range stillResidual {
		reportUnresolved(diags, c)
	}
	for _, impl := range residual.Implications {
		reportUnsolvedImplication(diags, impl)
	}

	allEvBinds := make([]types.EvBind, 0, len(groupEvBinds)+len(solvedEvBinds)+len(defaultEvBinds))
	allEvBinds = append(allEvBinds, groupEvBinds...)
	allEvBinds = append(allEvBinds, solvedEvBinds...)
	allEvBinds = append(allEvBinds, defaultEvBinds...)

	return &Result{
		Program: &typedast.TypedProgram{
			Groups:    groups,
			Instances: typedInstances,
			EvBinds:   allEvBinds,
		},
		Env:         finalEnv,
		Instances:   instEnv,
		Diagnostics: diags.Diagnostics(),
	}
}

// buildClassEnv registers every declared class, synthesizing each
// superclass's extractor name ("eqOfOrd" for Ord's Eq superclass) the way
// internal/instance's tests assume it is spelled.
func buildClassEnv(classes []*core.ClassDecl) *env.ClassEnv {
	ce := env.NewClassEnv()
	for _, cd := range classes {
		var supers []env.SuperclassExtractor
		for _, sc := range cd.Superclasses {
			supers = append(supers, env.SuperclassExtractor{
				Superclass: sc.Class,
				Extractor:  extractorName(sc.Class, cd.Name),
			})
		}
		ce = ce.Extend(&env.ClassInfo{
			Name:         cd.Name,
			TypeVar:      cd.TypeVar,
			Superclasses: supers,
			Context:      cd.Superclasses,
			Members:      cd.Members,
			// Every class is a defaulting candidate; config.DefaultingTypes
			// is the real gate on which concrete types are ever tried.
			Defaultable: true,
		})
	}
	return ce
}

func extractorName(superclass, class string) string {
	if superclass == "" {
		return ""
	}
	return strings.ToLower(superclass[:1]) + superclass[1:] + "Of" + class
}

// buildInstanceEnv registers every declared instance and returns a
// parallel index by dfun name so elaborateInstances can fill in each
// InstanceInfo's Methods table once bodies are checked, without having to
// re-scan the (persistent, append-only) InstanceEnv to find them again.
func buildInstanceEnv(instances []*core.InstanceDecl) (*env.InstanceEnv, map[string]*env.InstanceInfo) {
	ie := env.NewInstanceEnv()
	byDFun := make(map[string]*env.InstanceInfo, len(instances))
	for _, id := range instances {
		info := &env.InstanceInfo{
			DFun:        id.DFunName,
			TVs:         id.TVs,
			Constraints: id.Constraints,
			Class:       id.Class,
			Args:        id.Args,
			Methods:     map[string]string{},
		}
		ie = ie.Add(info)
		byDFun[id.DFunName] = info
	}
	return ie, byDFun
}

func buildFamilyEnv(tfs []*core.TFInstance) *solve.FamilyEnv {
	fe := solve.NewFamilyEnv()
	for _, tf := range tfs {
		fe.Add(tf.Family, tf.LHSArgs, tf.RHS)
	}
	return fe
}

// reportUnresolved converts a wanted constraint the solver and defaulting
// pass both failed to discharge into an AmbiguousType diagnostic — by
// this point in CheckProgram a genuine NoInstance/OverlappingInstances
// would already have been reported inside the solver's top_react, so
// anything still here has no concrete head at all to blame.
func reportUnresolved(diags *diagnostics.Collector, c types.Constraint) {
	if c.Flavor != types.Wanted {
		return
	}
	switch p := c.P.(type) {
	case *types.CanonicalDictPred:
		diags.Report(diagnostics.New(diagnostics.AmbiguousType, core.Pos{},
			"ambiguous constraint: %s", types.ClassPred(p.Class, p.Args...).String()))
	case *types.CanonicalEqualityPred:
		diags.Report(diagnostics.New(diagnostics.AmbiguousType, core.Pos{},
			"ambiguous equality constraint: %s ~ %s", p.LHS, p.RHS))
	case *types.NonCanonicalPred:
		diags.Report(diagnostics.New(diagnostics.AmbiguousType, core.Pos{},
			"ambiguous constraint: %s", p.PredType.String()))
	}
}

func reportUnsolvedImplication(diags *diagnostics.Collector, impl *types.Implication) {
	diags.Report(diagnostics.New(diagnostics.AmbiguousType, core.Pos{},
		"unresolved constraints remain %s", impl.Context))
}
