package env

import (
	"testing"

	"github.com/glyphlang/glyph/internal/types"
)

func TestGVEScopingNeverMutatesParent(t *testing.T) {
	root := NewGVE()
	child := root.Extend("x", &types.TypeCon{Name: "Int"})

	if _, ok := root.Lookup("x"); ok {
		t.Fatalf("parent scope must not see the child's binding")
	}
	got, ok := child.Lookup("x")
	if !ok || got.(*types.TypeCon).Name != "Int" {
		t.Fatalf("child scope should see its own binding, got %v ok=%v", got, ok)
	}
}

func TestGVEShadowing(t *testing.T) {
	root := NewGVE().Extend("x", &types.TypeCon{Name: "Int"})
	inner := root.Extend("x", &types.TypeCon{Name: "Bool"})

	got, _ := inner.Lookup("x")
	if got.(*types.TypeCon).Name != "Bool" {
		t.Fatalf("inner binding should shadow the outer one, got %v", got)
	}
}

func TestGVENormalizesUnicode(t *testing.T) {
	// "e" + combining acute vs precomposed "é" must resolve to the same key.
	decomposed := "élan"
	precomposed := "élan"

	root := NewGVE().Extend(decomposed, &types.TypeCon{Name: "Int"})
	if _, ok := root.Lookup(precomposed); !ok {
		t.Fatalf("expected NFC-normalized lookup to find the decomposed binding")
	}
}

func TestClassEnvSuperclasses(t *testing.T) {
	eq := &ClassInfo{Name: "Eq", TypeVar: "a"}
	ord := &ClassInfo{
		Name:         "Ord",
		TypeVar:      "a",
		Superclasses: []SuperclassExtractor{{Superclass: "Eq", Extractor: "eqOfOrd"}},
	}
	ce := NewClassEnv().Extend(eq).Extend(ord)

	got, ok := ce.Lookup("Ord")
	if !ok || len(got.Superclasses) != 1 || got.Superclasses[0].Superclass != "Eq" {
		t.Fatalf("unexpected Ord class info: %+v ok=%v", got, ok)
	}
	if len(ce.All()) != 2 {
		t.Fatalf("expected 2 classes visible, got %d", len(ce.All()))
	}
}

func TestInstanceEnvForClassAccumulatesThroughScopes(t *testing.T) {
	ie := NewInstanceEnv()
	ie = ie.Add(&InstanceInfo{DFun: "$fEqInt", Class: "Eq", Args: []types.Type{&types.TypeCon{Name: "Int"}}})
	ie = ie.Add(&InstanceInfo{DFun: "$fEqBool", Class: "Eq", Args: []types.Type{&types.TypeCon{Name: "Bool"}}})

	got := ie.ForClass("Eq")
	if len(got) != 2 {
		t.Fatalf("expected 2 Eq instances, got %d", len(got))
	}
}
