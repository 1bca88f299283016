package checker

import (
	"fmt"

	"github.com/glyphlang/glyph/internal/config"
	"github.com/glyphlang/glyph/internal/core"
	"github.com/glyphlang/glyph/internal/diagnostics"
	"github.com/glyphlang/glyph/internal/env"
	"github.com/glyphlang/glyph/internal/generate"
	"github.com/glyphlang/glyph/internal/solve"
	"github.com/glyphlang/glyph/internal/typedast"
	"github.com/glyphlang/glyph/internal/types"
)

// elaborateInstances type-checks every instance's explicit method bodies,
// and every class default method an instance omits, against the class's
// member signature substituted at the instance's own head type, under
// the instance's own context predicates as given evidence. It also fills
// in each registered InstanceInfo's Methods table, per that type's own
// "populated by the checker once instance bodies are type checked"
// comment.
//
// Grounded in the teacher's internal/types/instances.go dictionary
// construction shape, generalized per spec section 4.4 step 6's "build
// evidence abstraction" for a binder applied here to a dfun's fields
// instead of a let-binder's body.
func elaborateInstances(
	instances []*core.InstanceDecl,
	classByName map[string]*core.ClassDecl,
	infoByDFun map[string]*env.InstanceInfo,
	classEnv *env.ClassEnv,
	instEnv *env.InstanceEnv,
	kenv *env.KindEnv,
	gve *env.GVE,
	fresh *types.FreshSource,
	diags *diagnostics.Collector,
	cfg *config.Config,
	families *solve.FamilyEnv,
) []*typedast.TypedInstance {
	var out []*typedast.TypedInstance

	for _, id := range instances {
		classInfo, ok := classEnv.Lookup(id.Class)
		if !ok || len(id.Args) == 0 {
			continue
		}
		classDecl := classByName[id.Class]
		repl := map[string]types.Type{classInfo.TypeVar: id.Args[0]}

		var dictArgs []*types.EvVar
		var givens []types.Constraint
		for _, c := range id.Constraints {
			ev := fresh.FreshDictVar(c.Class)
			dictArgs = append(dictArgs, ev)
			givens = append(givens, types.Constraint{
				Flavor: types.Given, Level: types.TopLevel,
				P: &types.NonCanonicalPred{EvVar: ev, PredType: c},
			})
		}

		methods := map[string]typedast.TypedNode{}
		seen := map[string]bool{}

		elaborateOne := func(name string, body core.Expr) {
			sig, ok := classInfo.Members[name]
			if !ok {
				diags.Report(diagnostics.New(diagnostics.MethodNotInClass, id.Pos,
					"instance %s %s defines method %s, which class %s does not declare",
					id.Class, id.Args[0], name, id.Class))
				return
			}
			expected := types.Substitute(sig, repl)

			gen := generate.New(classEnv, instEnv, kenv, fresh, diags, types.TopLevel)
			pop := diags.PushNote(fmt.Sprintf("in instance %s %s, method %s", id.Class, id.Args[0], name), id.Pos)
			node := gen.Check(gve, body, expected)
			pop()

			solver := solve.New(classEnv, instEnv, fresh, diags, types.TopLevel)
			solver.MaxIterations = cfg.MaxSolverIterations
			solver.Families = families
			evs, residual := solver.Solve(givens, types.WantedConstraints{
				Simple:       gen.Wanted,
				Implications: gen.Implications,
			})
			for _, c := range residual.Simple {
				reportUnresolved(diags, c)
			}
			for _, impl := range residual.Implications {
				reportUnsolvedImplication(diags, impl)
			}
			if len(evs) > 0 {
				node = typedast.NewTypedLet(id.Pos, expected, evs, nil, node)
			}
			methods[name] = node
			seen[name] = true
		}

		for name, body := range id.Methods {
			elaborateOne(name, body)
		}

		if classDecl != nil {
			for name := range classInfo.Members {
				if seen[name] {
					continue
				}
				defBody, ok := classDecl.Defaults[name]
				if !ok {
					diags.Report(diagnostics.New(diagnostics.MissingMethod, id.Pos,
						"instance %s %s is missing method %s, and class %s declares no default",
						id.Class, id.Args[0], name, id.Class))
					continue
				}
				elaborateOne(name, defBody)
			}
		}

		if info, ok := infoByDFun[id.DFunName]; ok {
			for name := range methods {
				info.Methods[name] = id.DFunName + "$" + name
			}
		}

		out = append(out, &typedast.TypedInstance{
			Class:    id.Class,
			DFunName: id.DFunName,
			TVs:      id.TVs,
			DictArgs: dictArgs,
			Methods:  methods,
		})
	}

	return out
}
