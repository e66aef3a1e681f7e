package output

import (
	"strings"
	"testing"

	"github.com/deziev/tsviz/internal/model"
)

// sampleModel builds the model of a file importing ./base, declaring a
// namespace App with an abstract Widget extending the imported Base.
func sampleModel() []*model.Module {
	file := model.NewFileModule("sample", "/src")
	model.NewImportedModule(file, "./base")

	app := model.NewModule(file, "App", model.Private)
	widget := model.NewClass(app, "Widget", model.Public, true,
		model.QualifiedName{"./base", "Base"})
	model.NewProperty(widget, "defaults", model.Public, model.Static, "Config")
	model.NewProperty(widget, "name", model.Private, model.Instance, "string")
	getter := model.NewProperty(widget, "title", model.Public, model.Instance, "string")
	getter.HasGetter = true
	model.NewMethod(widget, "render", model.Public, model.Instance, false)
	model.NewMethod(widget, "measure", model.Protected, model.Instance, true)

	return []*model.Module{file}
}

func TestPlantUMLGenerator(t *testing.T) {
	uml, err := NewPlantUMLGenerator(sampleModel()).Generate()
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"@startuml",
		"package \"sample\" {",
		"package \"App\" {",
		"abstract class \"sample.App.Widget\" {",
		"{static} +defaults : Config",
		"-name : string",
		"+title : string <<get>>",
		"+render()",
		"{abstract} #measure()",
		"\"./base.Base\" <|-- \"sample.App.Widget\"",
		"\"sample\" ..> \"./base\" : imports",
		"@enduml",
	} {
		if !strings.Contains(uml, want) {
			t.Errorf("PlantUML output missing %q:\n%s", want, uml)
		}
	}
}

func TestMermaidGenerator(t *testing.T) {
	mmd, err := NewMermaidGenerator(sampleModel()).Generate()
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"classDiagram",
		"[\"sample.App.Widget\"]",
		"<<abstract>>",
		"+defaults : Config$",
		"-name : string",
		"+render()",
		"#measure()*",
		"<|--",
		"..>",
	} {
		if !strings.Contains(mmd, want) {
			t.Errorf("Mermaid output missing %q:\n%s", want, mmd)
		}
	}
}

func TestDOTGenerator(t *testing.T) {
	dot, err := NewDOTGenerator(sampleModel()).Generate()
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"digraph classes",
		"\"sample.App.Widget\"",
		"\\<\\<abstract\\>\\> Widget",
		"\"sample.App.Widget\" -> \"./base.Base\" [arrowhead=empty];",
		"\"sample\" -> \"./base\" [style=dashed",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}

func TestDOTEscapesRenderedTypes(t *testing.T) {
	file := model.NewFileModule("f", "")
	cls := model.NewClass(file, "C", model.Public, false, nil)
	model.NewProperty(cls, "names", model.Public, model.Instance, "Array&lt;string&gt;")

	dot, err := NewDOTGenerator([]*model.Module{file}).Generate()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dot, "Array\\<string\\>") {
		t.Errorf("DOT output does not escape record characters:\n%s", dot)
	}
}

func TestTSVGenerator(t *testing.T) {
	tsv, err := NewTSVGenerator(sampleModel()).Generate()
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(tsv), "\n")
	// Header, file module, import, namespace, class, 3 properties, 2 methods.
	if len(lines) != 10 {
		t.Fatalf("expected 10 TSV lines, got %d:\n%s", len(lines), tsv)
	}
	if lines[0] != "Kind\tPath\tVisibility\tLifetime\tAbstract\tType\tExtends" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(tsv, "class\tsample.App.Widget\tpublic\t\ttrue\t\t./base.Base") {
		t.Errorf("TSV missing class row:\n%s", tsv)
	}
	if !strings.Contains(tsv, "property\tsample.App.Widget.defaults\tpublic\tstatic\t\tConfig\t") {
		t.Errorf("TSV missing static property row:\n%s", tsv)
	}
}

func TestSanitizeIDs(t *testing.T) {
	ids := makeIDs([]string{"./base.Base", "a/b.Base", "plain"})
	seen := make(map[string]bool)
	for name, id := range ids {
		if id == "" {
			t.Errorf("empty id for %q", name)
		}
		if strings.ContainsAny(id, "./ ") {
			t.Errorf("id %q not sanitized", id)
		}
		if seen[id] {
			t.Errorf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
