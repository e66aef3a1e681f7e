package extract

import (
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type stubResolver struct {
	sym ResolvedSymbol
	ok  bool
}

func (s stubResolver) ResolveType(*sitter.Node) (ResolvedSymbol, bool) {
	return s.sym, s.ok
}

func baseExpr(t *testing.T) (*sitter.Node, []byte) {
	t.Helper()
	file := parseTS(t, "class Derived extends Base {}")
	clause := findKind(file.Root(), "extends_clause")
	if clause == nil {
		t.Fatal("no extends clause parsed")
	}
	value := clause.ChildByFieldName("value")
	if value == nil {
		t.Fatal("extends clause has no value")
	}
	return value, file.Source
}

func TestResolveBaseTypeFailure(t *testing.T) {
	expr, source := baseExpr(t)

	e := New(source, stubResolver{ok: false})
	name := e.resolveBaseType(expr)

	if !name.IsUnknown() {
		t.Errorf("unresolved base produced %v, want unknown sentinel", name)
	}
	if len(e.diags) != 1 {
		t.Fatalf("expected exactly one warning, got %d", len(e.diags))
	}
	if e.diags[0].Line != 1 {
		t.Errorf("warning location = %d:%d", e.diags[0].Line, e.diags[0].Column)
	}
}

func TestResolveBaseTypeLocal(t *testing.T) {
	expr, source := baseExpr(t)

	e := New(source, stubResolver{sym: ResolvedSymbol{QualifiedName: "App.Core.Base"}, ok: true})
	name := e.resolveBaseType(expr)

	want := []string{"App", "Core", "Base"}
	if len(name) != len(want) {
		t.Fatalf("got %v, want %v", name, want)
	}
	for i := range want {
		if name[i] != want[i] {
			t.Fatalf("got %v, want %v", name, want)
		}
	}
	if len(e.diags) != 0 {
		t.Errorf("unexpected warnings: %v", e.diags)
	}
}

func TestResolveBaseTypeImported(t *testing.T) {
	expr, source := baseExpr(t)

	e := New(source, stubResolver{
		sym: ResolvedSymbol{QualifiedName: "Base", ImportModule: "./base"},
		ok:  true,
	})
	name := e.resolveBaseType(expr)

	if len(name) != 2 || name[0] != "./base" || name[1] != "Base" {
		t.Errorf("imported base resolved to %v, want [./base Base]", name)
	}
}

func TestResolveBaseTypeQuotedModuleSegment(t *testing.T) {
	expr, source := baseExpr(t)

	e := New(source, stubResolver{
		sym: ResolvedSymbol{QualifiedName: `"store".Base`},
		ok:  true,
	})
	name := e.resolveBaseType(expr)

	if len(name) != 2 || name[0] != "store" || name[1] != "Base" {
		t.Errorf("quoted segment resolved to %v, want [store Base]", name)
	}
}

func TestIsQuoted(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`"store"`, true},
		{`'store'`, true},
		{"`store`", true},
		{"store", false},
		{`"`, false},
		{`"open`, false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isQuoted(tt.in); got != tt.want {
			t.Errorf("isQuoted(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
