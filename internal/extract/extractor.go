// Package extract performs the structural extraction pass: one synchronous
// depth-first walk over a parsed TypeScript syntax tree that builds the
// model entity tree for a single file. The walk holds no state beyond the
// tree being built, so independent files may be extracted concurrently as
// long as each call gets its own Extractor and resolver.
package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/deziev/tsviz/internal/model"
)

type Extractor struct {
	source   []byte
	resolver SymbolResolver
	diags    []Diagnostic
}

func New(source []byte, resolver SymbolResolver) *Extractor {
	return &Extractor{source: source, resolver: resolver}
}

// Extract walks the tree rooted at root and populates file with the
// entities found beneath it. The returned diagnostics are non-fatal
// warnings (unresolved base types); the model is always produced.
func (e *Extractor) Extract(root *sitter.Node, file *model.Module) []Diagnostic {
	e.diags = nil
	e.walk(root, file)
	return e.diags
}

// walk dispatches on the node kind over the closed set of recognized
// declarations. Unrecognized kinds create no entity and recurse with the
// same parent, so wrappers like export statements or blocks inside a class
// body stay transparent. Property and Method are leaves: closures, default
// values and statement bodies beneath them carry no structural information
// and are not visited.
func (e *Extractor) walk(node *sitter.Node, parent model.Element) {
	switch node.Kind() {
	case "internal_module", "module":
		mod := model.NewModule(parent, e.moduleName(node), visibilityOf(node, e.source))
		e.walkChildren(node, mod)

	case "import_statement":
		imp := model.NewImportedModule(parent, e.importName(node))
		e.walkChildren(node, imp)

	case "class_declaration", "abstract_class_declaration":
		var extends model.QualifiedName
		if base := firstBaseType(node); base != nil {
			extends = e.resolveBaseType(base)
		}
		cls := model.NewClass(parent,
			e.text(node.ChildByFieldName("name")),
			visibilityOf(node, e.source),
			isAbstract(node),
			extends)
		e.walkChildren(node, cls)

	case "public_field_definition":
		model.NewProperty(parent,
			e.text(node.ChildByFieldName("name")),
			visibilityOf(node, e.source),
			lifetimeOf(node),
			renderType(node.ChildByFieldName("type"), e.source))

	case "method_definition", "abstract_method_signature":
		name := e.text(node.ChildByFieldName("name"))
		switch {
		case hasModifier(node, "get"):
			prop := model.NewProperty(parent, name,
				visibilityOf(node, e.source),
				lifetimeOf(node),
				renderType(node.ChildByFieldName("return_type"), e.source))
			prop.HasGetter = true
		case hasModifier(node, "set"):
			prop := model.NewProperty(parent, name,
				visibilityOf(node, e.source),
				lifetimeOf(node),
				renderType(node.ChildByFieldName("return_type"), e.source))
			prop.HasSetter = true
		default:
			model.NewMethod(parent, name,
				visibilityOf(node, e.source),
				lifetimeOf(node),
				isAbstract(node))
		}

	case "function_declaration", "function_signature":
		model.NewMethod(parent,
			e.text(node.ChildByFieldName("name")),
			visibilityOf(node, e.source),
			lifetimeOf(node),
			isAbstract(node))

	default:
		e.walkChildren(node, parent)
	}
}

func (e *Extractor) walkChildren(node *sitter.Node, parent model.Element) {
	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), parent)
	}
}

func (e *Extractor) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(e.source[node.StartByte():node.EndByte()])
}

// moduleName handles both namespace identifiers (possibly nested) and
// quoted ambient module specifiers.
func (e *Extractor) moduleName(node *sitter.Node) string {
	name := node.ChildByFieldName("name")
	if name != nil && name.Kind() == "string" {
		return trimQuoted(e.text(name))
	}
	return e.text(name)
}

// importName is the alias for an import-equals declaration and the module
// specifier for a plain import declaration.
func (e *Extractor) importName(node *sitter.Node) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "import_require_clause" {
			continue
		}
		for j := uint(0); j < child.ChildCount(); j++ {
			if child.Child(j).Kind() == "identifier" {
				return e.text(child.Child(j))
			}
		}
	}
	return trimQuoted(e.text(node.ChildByFieldName("source")))
}

// firstBaseType returns the first extends entry of a class heritage clause.
// Additional bases and implements clauses are deliberately ignored.
func firstBaseType(node *sitter.Node) *sitter.Node {
	for i := uint(0); i < node.ChildCount(); i++ {
		heritage := node.Child(i)
		if heritage.Kind() != "class_heritage" {
			continue
		}
		for j := uint(0); j < heritage.ChildCount(); j++ {
			clause := heritage.Child(j)
			if clause.Kind() != "extends_clause" {
				continue
			}
			if value := clause.ChildByFieldName("value"); value != nil {
				return value
			}
			return clause.NamedChild(0)
		}
		return nil
	}
	return nil
}

func trimQuoted(value string) string {
	value = strings.TrimSpace(value)
	return strings.Trim(value, "\"'`")
}
