package types

import "fmt"

// FreshSource is the explicit, non-global counter for meta-variables,
// evidence variables, and skolem type variables. A single FreshSource is
// constructed once per top-level checker and threaded by pointer through
// every child typechecker; it is never a package-level singleton (the
// source language's FreshVarSource::current_index() was exactly that, and
// is the thing being replaced here).
type FreshSource struct {
	nextMeta   uint64
	nextEv     uint64
	nextSkolem uint64
}

// NewFreshSource returns a zeroed counter set.
func NewFreshSource() *FreshSource {
	return &FreshSource{}
}

// FreshMetaID allocates the next meta-variable id.
func (f *FreshSource) FreshMetaID() uint64 {
	f.nextMeta++
	return f.nextMeta
}

// FreshEvID allocates the next evidence-variable id.
func (f *FreshSource) FreshEvID() uint64 {
	f.nextEv++
	return f.nextEv
}

// FreshSkolemName allocates a fresh rigid type-variable name, e.g. "a1".
func (f *FreshSource) FreshSkolemName() string {
	f.nextSkolem++
	return fmt.Sprintf("a%d", f.nextSkolem)
}

// FreshMetaVar allocates a new, empty meta-variable at the given level.
func (f *FreshSource) FreshMetaVar(level Level, kind Kind) *MetaVar {
	id := f.FreshMetaID()
	return &MetaVar{
		ID:    id,
		Name:  fmt.Sprintf("t%d", id),
		Level: level,
		Kind:  kind,
		cell:  &metaCell{},
	}
}

// FreshDictVar allocates a fresh dictionary evidence variable.
func (f *FreshSource) FreshDictVar(hint string) *EvVar {
	id := f.FreshEvID()
	if hint == "" {
		hint = "dict"
	}
	return &EvVar{ID: id, Kind: DictEv, Name: fmt.Sprintf("$d%s%d", hint, id)}
}

// FreshCoercionVar allocates a fresh coercion evidence variable.
func (f *FreshSource) FreshCoercionVar() *EvVar {
	id := f.FreshEvID()
	return &EvVar{ID: id, Kind: CoercionEv, Name: fmt.Sprintf("$co%d", id)}
}

// FreshSkolem allocates a fresh rigid type variable at the given level.
func (f *FreshSource) FreshSkolem(level Level, kind Kind) *TypeVar {
	return &TypeVar{Name: f.FreshSkolemName(), HasLevel: true, Level: level, Kind: kind}
}
