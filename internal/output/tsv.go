package output

import (
	"fmt"
	"strings"

	"github.com/deziev/tsviz/internal/model"
)

type TSVGenerator struct {
	files []*model.Module
}

func NewTSVGenerator(files []*model.Module) *TSVGenerator {
	return &TSVGenerator{files: files}
}

func (t *TSVGenerator) Generate() (string, error) {
	var b strings.Builder

	b.WriteString("Kind\tPath\tVisibility\tLifetime\tAbstract\tType\tExtends\n")

	for _, file := range t.files {
		model.Walk(file, func(e model.Element) {
			path := model.PathOf(e)
			switch v := e.(type) {
			case *model.Module:
				fmt.Fprintf(&b, "module\t%s\t%s\t\t\t\t\n", path, v.Visibility)
			case *model.ImportedModule:
				fmt.Fprintf(&b, "import\t%s\t\t\t\t\t\n", path)
			case *model.Class:
				extends := ""
				if v.Extends != nil {
					extends = v.Extends.String()
				}
				fmt.Fprintf(&b, "class\t%s\t%s\t\t%t\t\t%s\n", path, v.Visibility, v.Abstract, extends)
			case *model.Property:
				fmt.Fprintf(&b, "property\t%s\t%s\t%s\t\t%s\t\n", path, v.Visibility, v.Lifetime, v.Type)
			case *model.Method:
				fmt.Fprintf(&b, "method\t%s\t%s\t%s\t%t\t\t\n", path, v.Visibility, v.Lifetime, v.Abstract)
			}
		})
	}

	return b.String(), nil
}
