// Package generalize implements the Binding-group Generalizer: the
// seven-step algorithm that turns a let/top-level declaration group into
// published polytypes, elaborated bindings, and a residual implication.
package generalize

import "github.com/glyphlang/glyph/internal/core"

// callGraph is a dependency graph between declaration names, adapted from
// the teacher's internal/elaborate/scc.go CallGraph (renamed into this
// package and re-pointed at internal/core declarations instead of
// surface-AST function signatures).
type callGraph struct {
	nodes   []string
	edges   map[string][]string
	nodeSet map[string]bool
}

func newCallGraph() *callGraph {
	return &callGraph{edges: make(map[string][]string), nodeSet: make(map[string]bool)}
}

func (g *callGraph) addNode(name string) {
	if !g.nodeSet[name] {
		g.nodes = append(g.nodes, name)
		g.nodeSet[name] = true
		g.edges[name] = nil
	}
}

func (g *callGraph) addEdge(caller, callee string) {
	g.addNode(caller)
	g.addNode(callee)
	g.edges[caller] = append(g.edges[caller], callee)
}

// sccs computes strongly connected components via Tarjan's algorithm,
// returned in reverse-topological order of component-to-component edges
// (a component appears after the components it depends on) — the same
// output order the teacher's SCCs() produces.
func (g *callGraph) sccs() [][]string {
	index := 0
	var stack []string
	indices := map[string]int{}
	lowlinks := map[string]int{}
	onStack := map[string]bool{}
	var out [][]string

	var strongconnect func(string)
	strongconnect = func(v string) {
		indices[v] = index
		lowlinks[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.edges[v] {
			if !g.nodeSet[w] {
				continue
			}
			if _, seen := indices[w]; !seen {
				strongconnect(w)
				if lowlinks[w] < lowlinks[v] {
					lowlinks[v] = lowlinks[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlinks[v] {
					lowlinks[v] = indices[w]
				}
			}
		}

		if lowlinks[v] == indices[v] {
			var scc []string
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			out = append(out, scc)
		}
	}

	for _, node := range g.nodes {
		if _, seen := indices[node]; !seen {
			strongconnect(node)
		}
	}
	return out
}

// buildCallGraph adds an edge decl -> ref for every free variable
// reference ref found in decl's body that names another signature-less
// declaration in the same group (a signed binder is a reference barrier:
// its type is already published, so it never joins the dependency graph
// as a callee).
func buildCallGraph(decls []*core.Decl) *callGraph {
	names := map[string]bool{}
	for _, d := range decls {
		names[d.Name] = true
	}
	g := newCallGraph()
	for _, d := range decls {
		g.addNode(d.Name)
		for _, ref := range freeVarRefs(d.Body) {
			if names[ref] {
				g.addEdge(d.Name, ref)
			}
		}
	}
	return g
}

// freeVarRefs collects every core.Var name reachable from expr. This
// deliberately over-approximates (it does not track local shadowing from
// lambda params or case patterns): an over-approximate dependency edge
// only ever merges two components that could have been typed separately,
// never misses a real dependency, matching the teacher's own
// findReferences walk in internal/elaborate/scc.go.
func freeVarRefs(expr core.Expr) []string {
	var out []string
	var walk func(core.Expr)
	walk = func(e core.Expr) {
		switch x := e.(type) {
		case *core.Var:
			out = append(out, x.Name)
		case *core.App:
			walk(x.Fn)
			walk(x.Arg)
		case *core.Lam:
			walk(x.Body)
		case *core.Case:
			walk(x.Scrutinee)
			for _, alt := range x.Alts {
				walk(alt.Body)
			}
		case *core.Let:
			for _, grp := range x.Groups {
				for _, d := range grp {
					walk(d.Body)
				}
			}
			walk(x.Body)
		case *core.Tuple:
			for _, el := range x.Elems {
				walk(el)
			}
		case *core.List:
			for _, el := range x.Elems {
				walk(el)
			}
		case *core.Ann:
			walk(x.Expr)
		}
	}
	walk(expr)
	return out
}
