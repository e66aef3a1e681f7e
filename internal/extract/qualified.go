package extract

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/deziev/tsviz/internal/model"
)

// ResolvedSymbol is the answer of a SymbolResolver lookup. QualifiedName is
// the symbol's fully qualified dotted path. ImportModule is the module
// specifier of the enclosing import declaration when the symbol's origin is
// an import specifier, empty otherwise.
type ResolvedSymbol struct {
	QualifiedName string
	ImportModule  string
}

// SymbolResolver binds an inheritance reference expression to its declared
// symbol. It is treated as a read-only, side-effect-free oracle; a single
// best-effort lookup is made per reference.
type SymbolResolver interface {
	ResolveType(expr *sitter.Node) (ResolvedSymbol, bool)
}

// Diagnostic is one extraction warning. Warnings are collected, not
// printed, so concurrent extractions do not interleave output.
type Diagnostic struct {
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}

// resolveBaseType turns an extends expression into a qualified name. An
// unresolvable reference yields the unknown sentinel and one warning;
// traversal continues unaffected.
func (e *Extractor) resolveBaseType(expr *sitter.Node) model.QualifiedName {
	sym, ok := e.resolver.ResolveType(expr)
	if !ok {
		e.warnf(expr, "could not resolve base type %q", e.text(expr))
		return model.UnknownQualifiedName()
	}

	segments := strings.Split(sym.QualifiedName, ".")
	if sym.ImportModule != "" {
		// The base class is imported from module X, named Y inside X.
		segments = append([]string{sym.ImportModule}, segments...)
	} else if len(segments) > 0 && isQuoted(segments[0]) {
		segments[0] = segments[0][1 : len(segments[0])-1]
	}
	return model.QualifiedName(segments)
}

func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	switch s[0] {
	case '"', '\'', '`':
		return s[len(s)-1] == s[0]
	}
	return false
}

func (e *Extractor) warnf(node *sitter.Node, format string, args ...any) {
	pos := node.StartPosition()
	e.diags = append(e.diags, Diagnostic{
		Line:    int(pos.Row) + 1,
		Column:  int(pos.Column) + 1,
		Message: fmt.Sprintf(format, args...),
	})
}
