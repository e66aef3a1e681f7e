package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/deziev/tsviz/internal/model"
)

type declarationContext int

const (
	contextOther declarationContext = iota
	contextClass
	contextModule
)

// visibilityOf derives a declaration's visibility. An explicit modifier wins
// with priority protected > private > public > export (export counts as
// public). Without one, class members default to public and namespace
// members, like everything else, to private.
func visibilityOf(node *sitter.Node, source []byte) model.Visibility {
	var hasPublic, hasPrivate, hasProtected bool
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "accessibility_modifier" {
			continue
		}
		switch string(source[child.StartByte():child.EndByte()]) {
		case "protected":
			hasProtected = true
		case "private":
			hasPrivate = true
		case "public":
			hasPublic = true
		}
	}

	switch {
	case hasProtected:
		return model.Protected
	case hasPrivate:
		return model.Private
	case hasPublic:
		return model.Public
	case isExported(node):
		return model.Public
	}

	if contextOf(node) == contextClass {
		return model.Public
	}
	return model.Private
}

func lifetimeOf(node *sitter.Node) model.Lifetime {
	if hasModifier(node, "static") {
		return model.Static
	}
	return model.Instance
}

func isAbstract(node *sitter.Node) bool {
	return hasModifier(node, "abstract")
}

func hasModifier(node *sitter.Node, kind string) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		if node.Child(i).Kind() == kind {
			return true
		}
	}
	return false
}

func isExported(node *sitter.Node) bool {
	for p := node.Parent(); p != nil; p = p.Parent() {
		switch p.Kind() {
		case "export_statement":
			return true
		case "ambient_declaration":
			continue
		default:
			return false
		}
	}
	return false
}

// contextOf climbs to the nearest enclosing declaration that decides the
// positional visibility default. Export wrappers and module bodies are
// transparent, mirroring the walker's pass-through recursion.
func contextOf(node *sitter.Node) declarationContext {
	for p := node.Parent(); p != nil; p = p.Parent() {
		switch p.Kind() {
		case "export_statement", "ambient_declaration", "statement_block":
			continue
		case "class_body", "class_declaration", "abstract_class_declaration":
			return contextClass
		case "internal_module", "module":
			return contextModule
		default:
			return contextOther
		}
	}
	return contextOther
}
