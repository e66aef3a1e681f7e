// Package resolver implements the symbol oracle consumed by the extraction
// pass. A FileResolver prebuilds one file's symbol table (import bindings
// and nested type declarations) in a single pre-pass and then answers
// lookups without further side effects.
package resolver

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/deziev/tsviz/internal/extract"
)

type binding struct {
	imported  string
	module    string
	namespace bool
}

type FileResolver struct {
	source []byte
	// imports maps a local binding name to its import origin.
	imports map[string]binding
	// declared holds the dotted paths of type declarations in this file,
	// namespace path included. A quoted ambient module name stays quoted;
	// the extraction pass strips the quotes.
	declared map[string]bool
}

func New(root *sitter.Node, source []byte) *FileResolver {
	r := &FileResolver{
		source:   source,
		imports:  make(map[string]binding),
		declared: make(map[string]bool),
	}
	r.collect(root, nil)
	return r
}

// ResolveType implements extract.SymbolResolver. Bindings introduced by
// imports win over local declarations, matching how the file's own scope
// shadows nothing that an import already names.
func (r *FileResolver) ResolveType(expr *sitter.Node) (extract.ResolvedSymbol, bool) {
	name := strings.TrimSpace(r.text(expr))
	if name == "" {
		return extract.ResolvedSymbol{}, false
	}

	if i := strings.IndexByte(name, '.'); i > 0 {
		if b, ok := r.imports[name[:i]]; ok && b.namespace {
			return extract.ResolvedSymbol{
				QualifiedName: name[i+1:],
				ImportModule:  b.module,
			}, true
		}
	}

	if b, ok := r.imports[name]; ok && !b.namespace {
		return extract.ResolvedSymbol{
			QualifiedName: b.imported,
			ImportModule:  b.module,
		}, true
	}

	// Local declarations, innermost enclosing namespace outward.
	path := r.enclosingNamespaces(expr)
	for n := len(path); n >= 0; n-- {
		segments := append(append([]string{}, path[:n]...), name)
		candidate := strings.Join(segments, ".")
		if r.declared[candidate] {
			return extract.ResolvedSymbol{QualifiedName: candidate}, true
		}
	}

	return extract.ResolvedSymbol{}, false
}

func (r *FileResolver) collect(node *sitter.Node, nsPath []string) {
	switch node.Kind() {
	case "import_statement":
		r.collectImport(node)
		return

	case "internal_module", "module":
		name := r.text(node.ChildByFieldName("name"))
		if name == "" {
			break
		}
		path := append(append([]string{}, nsPath...), name)
		r.declared[strings.Join(path, ".")] = true
		for i := uint(0); i < node.ChildCount(); i++ {
			r.collect(node.Child(i), path)
		}
		return

	case "class_declaration", "abstract_class_declaration",
		"interface_declaration", "enum_declaration", "type_alias_declaration":
		name := r.text(node.ChildByFieldName("name"))
		if name != "" {
			path := append(append([]string{}, nsPath...), name)
			r.declared[strings.Join(path, ".")] = true
		}
		// Member declarations are not referenceable as base types.
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		r.collect(node.Child(i), nsPath)
	}
}

func (r *FileResolver) collectImport(node *sitter.Node) {
	module := trimQuoted(r.text(node.ChildByFieldName("source")))

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Kind() {
		case "import_require_clause":
			// import x = require("m") carries its specifier inside the clause.
			var name string
			for i := uint(0); i < n.ChildCount(); i++ {
				child := n.Child(i)
				switch child.Kind() {
				case "identifier":
					name = r.text(child)
				case "string":
					module = trimQuoted(r.text(child))
				}
			}
			if name != "" {
				r.imports[name] = binding{imported: name, module: module}
			}
			return
		case "namespace_import":
			for i := uint(0); i < n.ChildCount(); i++ {
				if n.Child(i).Kind() == "identifier" {
					r.imports[r.text(n.Child(i))] = binding{module: module, namespace: true}
				}
			}
			return
		case "import_specifier":
			name := r.text(n.ChildByFieldName("name"))
			local := name
			if alias := n.ChildByFieldName("alias"); alias != nil {
				local = r.text(alias)
			}
			if local != "" {
				r.imports[local] = binding{imported: name, module: module}
			}
			return
		case "identifier":
			// Default import binding.
			if p := n.Parent(); p != nil && p.Kind() == "import_clause" {
				name := r.text(n)
				r.imports[name] = binding{imported: name, module: module}
			}
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(node)
}

func (r *FileResolver) enclosingNamespaces(node *sitter.Node) []string {
	var path []string
	for p := node.Parent(); p != nil; p = p.Parent() {
		switch p.Kind() {
		case "internal_module", "module":
			if name := r.text(p.ChildByFieldName("name")); name != "" {
				path = append([]string{name}, path...)
			}
		}
	}
	return path
}

func (r *FileResolver) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(r.source[node.StartByte():node.EndByte()])
}

func trimQuoted(value string) string {
	value = strings.TrimSpace(value)
	return strings.Trim(value, "\"'`")
}
