package env

import "github.com/glyphlang/glyph/internal/types"

// KindEnv maps type constructors to their kinds. Kind inference is an
// out-of-scope, external collaborator; the checker only ever consults
// this table, built once by the caller from already kind-checked type
// declarations.
type KindEnv struct {
	kinds map[string]types.Kind
}

// NewKindEnv seeds a KindEnv with the builtin type constructors every
// program can assume are in scope.
func NewKindEnv() *KindEnv {
	k := &KindEnv{kinds: map[string]types.Kind{}}
	k.kinds["Int"] = types.KStar{}
	k.kinds["Integer"] = types.KStar{}
	k.kinds["Double"] = types.KStar{}
	k.kinds["Bool"] = types.KStar{}
	k.kinds["Char"] = types.KStar{}
	k.kinds["String"] = types.KStar{}
	k.kinds["Unit"] = types.KStar{}
	k.kinds["List"] = &types.KArrow{Arg: types.KStar{}, Res: types.KStar{}}
	k.kinds["->"] = &types.KArrow{Arg: types.KStar{}, Res: &types.KArrow{Arg: types.KStar{}, Res: types.KStar{}}}
	return k
}

// Lookup returns the kind registered for a type constructor name.
func (k *KindEnv) Lookup(name string) (types.Kind, bool) {
	kind, ok := k.kinds[name]
	return kind, ok
}

// Register adds or overwrites a type constructor's kind.
func (k *KindEnv) Register(name string, kind types.Kind) {
	k.kinds[name] = kind
}
