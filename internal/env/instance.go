package env

import "github.com/glyphlang/glyph/internal/types"

// InstanceInfo is a declared instance: its own quantified variables, its
// context (the "C a =>" part), which class it instantiates, the argument
// types matched against the class parameters, and the name of the
// dictionary function (dfun) that builds its evidence.
type InstanceInfo struct {
	DFun        string
	TVs         []types.Binder
	Constraints []types.QualPred
	Class       string
	Args        []types.Type
	// Methods maps method name to its elaborated core implementation
	// name; populated by the checker once instance bodies are type
	// checked, not at declaration time.
	Methods map[string]string
}

// InstanceEnv is the persistent, scoped class-name -> candidate-instances
// mapping. Overlap and specificity are resolved at lookup time by
// internal/instance, not at registration time, since two instances may
// overlap syntactically yet never both apply to a concrete use site.
type InstanceEnv struct {
	instances map[string][]*InstanceInfo
	parent    *InstanceEnv
}

// NewInstanceEnv returns an empty root instance environment.
func NewInstanceEnv() *InstanceEnv {
	return &InstanceEnv{instances: map[string][]*InstanceInfo{}}
}

// Add returns a new child scope with info appended to its class's
// candidate list.
func (ie *InstanceEnv) Add(info *InstanceInfo) *InstanceEnv {
	return &InstanceEnv{
		instances: map[string][]*InstanceInfo{info.Class: {info}},
		parent:    ie,
	}
}

// ForClass collects every candidate instance for class across this scope
// and its ancestors.
func (ie *InstanceEnv) ForClass(class string) []*InstanceInfo {
	var out []*InstanceInfo
	for e := ie; e != nil; e = e.parent {
		out = append(out, e.instances[class]...)
	}
	return out
}
