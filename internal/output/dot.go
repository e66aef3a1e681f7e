package output

import (
	"fmt"
	"strings"

	"github.com/deziev/tsviz/internal/model"
)

type DOTGenerator struct {
	files []*model.Module
}

func NewDOTGenerator(files []*model.Module) *DOTGenerator {
	return &DOTGenerator{files: files}
}

func (d *DOTGenerator) Generate() (string, error) {
	var b strings.Builder

	b.WriteString("digraph classes {\n")
	b.WriteString("  rankdir=BT;\n")
	b.WriteString("  node [shape=record, fontname=\"Helvetica\", fontsize=10];\n")
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=8];\n\n")

	classes := classesOf(d.files)
	declared := make(map[string]bool, len(classes))

	for _, entry := range classes {
		declared[entry.path] = true
		fmt.Fprintf(&b, "  \"%s\" [label=\"{%s}\"];\n", entry.path, d.classLabel(entry))
	}

	externals := make(map[string]bool)
	for _, entry := range classes {
		if entry.cls.Extends == nil {
			continue
		}
		base := entry.cls.Extends.String()
		if !declared[base] && !externals[base] {
			externals[base] = true
			fmt.Fprintf(&b, "  \"%s\" [style=dashed, color=gray50];\n", base)
		}
	}
	for _, imp := range importsOf(d.files) {
		if !externals[imp.to] && !declared[imp.to] {
			externals[imp.to] = true
			fmt.Fprintf(&b, "  \"%s\" [shape=folder, color=gray50];\n", imp.to)
		}
	}

	b.WriteString("\n")
	for _, entry := range classes {
		if entry.cls.Extends == nil {
			continue
		}
		fmt.Fprintf(&b, "  \"%s\" -> \"%s\" [arrowhead=empty];\n", entry.path, entry.cls.Extends.String())
	}
	for _, imp := range importsOf(d.files) {
		fmt.Fprintf(&b, "  \"%s\" -> \"%s\" [style=dashed, color=gray50];\n", imp.from, imp.to)
	}

	b.WriteString("}\n")
	return b.String(), nil
}

func (d *DOTGenerator) classLabel(entry classEntry) string {
	title := entry.cls.Name()
	if entry.cls.Abstract {
		title = "\\<\\<abstract\\>\\> " + title
	}

	var props, methods []string
	for _, member := range entry.cls.Children() {
		switch v := member.(type) {
		case *model.Property:
			props = append(props, fmt.Sprintf("%s %s : %s\\l",
				visibilitySymbol(v.Visibility), v.Name(), escapeRecord(v.Type)))
		case *model.Method:
			methods = append(methods, fmt.Sprintf("%s %s()\\l",
				visibilitySymbol(v.Visibility), v.Name()))
		}
	}

	parts := []string{title}
	parts = append(parts, strings.Join(props, ""))
	parts = append(parts, strings.Join(methods, ""))
	return strings.Join(parts, "|")
}

// escapeRecord protects the characters DOT record labels reserve.
func escapeRecord(s string) string {
	replacer := strings.NewReplacer(
		"&lt;", "\\<", "&gt;", "\\>",
		"{", "\\{", "}", "\\}",
		"<", "\\<", ">", "\\>",
		"|", "\\|", "\"", "\\\"",
	)
	return replacer.Replace(s)
}
