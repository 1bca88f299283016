package core

import "testing"

func TestExprVariantsImplementInterface(t *testing.T) {
	var exprs = []Expr{
		&Var{Name: "x"},
		&Lit{Kind: IntLit, Text: "3"},
		&App{Fn: &Var{Name: "f"}, Arg: &Var{Name: "x"}},
		&Lam{Param: &VarP{Name: "x"}, Body: &Var{Name: "x"}},
		&Case{Scrutinee: &Var{Name: "x"}, Alts: []Alt{{Pattern: &WildP{}, Body: &Var{Name: "x"}}}},
		&Let{Body: &Var{Name: "x"}},
		&Tuple{Elems: []Expr{&Var{Name: "x"}}},
		&List{Elems: []Expr{&Var{Name: "x"}}},
		&Ann{Expr: &Var{Name: "x"}},
	}
	for _, e := range exprs {
		if e == nil {
			t.Fatalf("nil expr in fixture")
		}
	}
}

func TestPatternVariantsImplementInterface(t *testing.T) {
	var pats = []Pattern{
		&VarP{Name: "x"},
		&ConP{Con: "Just", Args: []Pattern{&VarP{Name: "x"}}},
		&TupP{Elems: []Pattern{&VarP{Name: "x"}}},
		&ListP{Elems: []Pattern{&VarP{Name: "x"}}},
		&WildP{},
		&AsP{Name: "x", Inner: &WildP{}},
		&LazyP{Inner: &WildP{}},
		&LitP{Kind: IntLit, Text: "0"},
	}
	for _, p := range pats {
		if p == nil {
			t.Fatalf("nil pattern in fixture")
		}
	}
}

func TestPosString(t *testing.T) {
	p := Pos{Line: 3, Col: 5}
	if p.String() != "3:5" {
		t.Fatalf("unexpected Pos.String(): %s", p.String())
	}
	p.File = "a.gly"
	if p.String() != "a.gly:3:5" {
		t.Fatalf("unexpected Pos.String() with file: %s", p.String())
	}
}
