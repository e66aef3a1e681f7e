package output

import (
	"fmt"
	"strings"

	"github.com/deziev/tsviz/internal/model"
)

type MermaidGenerator struct {
	files []*model.Module
}

func NewMermaidGenerator(files []*model.Module) *MermaidGenerator {
	return &MermaidGenerator{files: files}
}

func (m *MermaidGenerator) Generate() (string, error) {
	var b strings.Builder
	b.WriteString("classDiagram\n")

	classes := classesOf(m.files)
	imports := importsOf(m.files)

	names := make([]string, 0, len(classes))
	for _, entry := range classes {
		names = append(names, entry.path)
		if entry.cls.Extends != nil {
			names = append(names, entry.cls.Extends.String())
		}
	}
	for _, imp := range imports {
		names = append(names, imp.from, imp.to)
	}
	ids := makeIDs(names)

	for _, entry := range classes {
		fmt.Fprintf(&b, "  class %s[\"%s\"] {\n", ids[entry.path], entry.path)
		if entry.cls.Abstract {
			b.WriteString("    <<abstract>>\n")
		}
		for _, member := range entry.cls.Children() {
			switch v := member.(type) {
			case *model.Property:
				fmt.Fprintf(&b, "    %s%s : %s%s\n",
					visibilitySymbol(v.Visibility), v.Name(), mermaidType(v.Type), mermaidMarker(v.Lifetime, false))
			case *model.Method:
				fmt.Fprintf(&b, "    %s%s()%s\n",
					visibilitySymbol(v.Visibility), v.Name(), mermaidMarker(v.Lifetime, v.Abstract))
			}
		}
		b.WriteString("  }\n")
	}

	for _, entry := range classes {
		if entry.cls.Extends == nil {
			continue
		}
		base := entry.cls.Extends.String()
		fmt.Fprintf(&b, "  %s <|-- %s\n", ids[base], ids[entry.path])
	}
	for _, imp := range imports {
		fmt.Fprintf(&b, "  %s ..> %s : imports\n", ids[imp.from], ids[imp.to])
	}

	return b.String(), nil
}

// mermaidMarker renders Mermaid's classifier suffixes: $ static, * abstract.
func mermaidMarker(l model.Lifetime, abstract bool) string {
	var suffix string
	if l == model.Static {
		suffix += "$"
	}
	if abstract {
		suffix += "*"
	}
	return suffix
}

// mermaidType strips characters Mermaid cannot carry in a member line.
func mermaidType(t string) string {
	t = strings.ReplaceAll(t, "&lt;", "~")
	t = strings.ReplaceAll(t, "&gt;", "~")
	replacer := strings.NewReplacer("<", "~", ">", "~", "|", "/", ",", " ")
	return replacer.Replace(t)
}
