package extract

import (
	"strconv"
	"testing"
)

func typeNodeOf(t *testing.T, declaration string) (*Extractor, string) {
	t.Helper()

	file := parseTS(t, declaration)
	field := findKind(file.Root(), "public_field_definition")
	if field == nil {
		t.Fatalf("no field in %q", declaration)
	}
	e := New(file.Source, nil)
	return e, renderType(field.ChildByFieldName("type"), file.Source)
}

func TestRenderTypePrimitives(t *testing.T) {
	tests := []struct {
		declaration string
		want        string
	}{
		{"class C { p: any; }", "any"},
		{"class C { p: boolean; }", "boolean"},
		{"class C { p: number; }", "number"},
		{"class C { p: string; }", "string"},
	}
	for _, tt := range tests {
		if _, got := typeNodeOf(t, tt.declaration); got != tt.want {
			t.Errorf("%q rendered %q, want %q", tt.declaration, got, tt.want)
		}
	}
}

func TestRenderTypeFunction(t *testing.T) {
	if _, got := typeNodeOf(t, "class C { p: (x: number) => void; }"); got != "function" {
		t.Errorf("function type rendered %q", got)
	}
}

func TestRenderTypeArray(t *testing.T) {
	if _, got := typeNodeOf(t, "class C { p: string[]; }"); got != "Array&lt;string&gt;" {
		t.Errorf("array type rendered %q, want Array&lt;string&gt;", got)
	}
}

func TestRenderTypeNamedReferences(t *testing.T) {
	tests := []struct {
		declaration string
		want        string
	}{
		{"class C { p: Widget; }", "Widget"},
		{"class C { p: UI.Widget; }", "UI.Widget"},
		{"class C { p: Map<string, number>; }", "Map<string, number>"},
	}
	for _, tt := range tests {
		if _, got := typeNodeOf(t, tt.declaration); got != tt.want {
			t.Errorf("%q rendered %q, want %q", tt.declaration, got, tt.want)
		}
	}
}

func TestRenderTypeMissingAnnotation(t *testing.T) {
	if got := renderType(nil, nil); got != "undefined" {
		t.Errorf("absent annotation rendered %q, want undefined", got)
	}
}

func TestRenderTypeFallbackIsNumeric(t *testing.T) {
	// Union types are not a recognized kind; the renderer degrades to the
	// numeric grammar kind id.
	_, got := typeNodeOf(t, "class C { p: string | number; }")
	if _, err := strconv.Atoi(got); err != nil {
		t.Errorf("fallback rendering %q is not a numeric kind id", got)
	}
}
