package output

import (
	"fmt"
	"strings"

	"github.com/deziev/tsviz/internal/model"
)

type PlantUMLGenerator struct {
	files []*model.Module
}

func NewPlantUMLGenerator(files []*model.Module) *PlantUMLGenerator {
	return &PlantUMLGenerator{files: files}
}

func (g *PlantUMLGenerator) Generate() (string, error) {
	var b strings.Builder
	b.WriteString("@startuml\n")
	b.WriteString("skinparam classAttributeIconSize 0\n")
	b.WriteString("skinparam packageStyle rectangle\n")
	b.WriteString("hide empty members\n\n")

	for _, file := range g.files {
		g.writeModule(&b, file, 0)
		b.WriteString("\n")
	}

	for _, entry := range classesOf(g.files) {
		if entry.cls.Extends == nil {
			continue
		}
		fmt.Fprintf(&b, "\"%s\" <|-- \"%s\"\n", escapePlantUML(entry.cls.Extends.String()), escapePlantUML(entry.path))
	}
	for _, imp := range importsOf(g.files) {
		fmt.Fprintf(&b, "\"%s\" ..> \"%s\" : imports\n", escapePlantUML(imp.from), escapePlantUML(imp.to))
	}

	b.WriteString("\n@enduml\n")
	return b.String(), nil
}

func (g *PlantUMLGenerator) writeModule(b *strings.Builder, mod *model.Module, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%spackage \"%s\" {\n", indent, escapePlantUML(mod.Name()))

	for _, child := range mod.Children() {
		switch v := child.(type) {
		case *model.Module:
			g.writeModule(b, v, depth+1)
		case *model.Class:
			g.writeClass(b, v, depth+1)
		case *model.ImportedModule:
			// Rendered as edges after all declarations.
		case *model.Method:
			fmt.Fprintf(b, "%s  class \"%s\" <<function>>\n", indent, escapePlantUML(v.Name()))
		}
	}

	fmt.Fprintf(b, "%s}\n", indent)
}

func (g *PlantUMLGenerator) writeClass(b *strings.Builder, cls *model.Class, depth int) {
	indent := strings.Repeat("  ", depth)

	keyword := "class"
	if cls.Abstract {
		keyword = "abstract class"
	}
	fmt.Fprintf(b, "%s%s \"%s\" {\n", indent, keyword, escapePlantUML(model.PathOf(cls)))

	for _, member := range cls.Children() {
		switch v := member.(type) {
		case *model.Property:
			fmt.Fprintf(b, "%s  %s%s%s : %s%s\n", indent,
				staticMarker(v.Lifetime), visibilitySymbol(v.Visibility), v.Name(), v.Type, accessorSuffix(v))
		case *model.Method:
			marker := staticMarker(v.Lifetime)
			if v.Abstract {
				marker = "{abstract} " + marker
			}
			fmt.Fprintf(b, "%s  %s%s%s()\n", indent, marker, visibilitySymbol(v.Visibility), v.Name())
		}
	}

	fmt.Fprintf(b, "%s}\n", indent)
}

func staticMarker(l model.Lifetime) string {
	if l == model.Static {
		return "{static} "
	}
	return ""
}

func accessorSuffix(p *model.Property) string {
	switch {
	case p.HasGetter:
		return " <<get>>"
	case p.HasSetter:
		return " <<set>>"
	default:
		return ""
	}
}

func escapePlantUML(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
