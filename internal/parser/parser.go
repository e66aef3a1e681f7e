// Package parser is the tree-sitter front-end: it turns TypeScript source
// into a syntax tree for the extraction pass. It does no structural
// interpretation of its own.
package parser

import (
	"path/filepath"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/deziev/tsviz/internal/core/errors"
)

// SourceFile owns one parsed tree. Close releases the tree; the root node
// must not be used afterwards.
type SourceFile struct {
	Path     string
	Language string
	Source   []byte
	tree     *sitter.Tree
}

func (f *SourceFile) Root() *sitter.Node {
	return f.tree.RootNode()
}

func (f *SourceFile) Close() {
	f.tree.Close()
}

type Parser struct {
	loader *GrammarLoader
}

func NewParser(loader *GrammarLoader) *Parser {
	return &Parser{loader: loader}
}

func (p *Parser) ParseFile(path string, content []byte) (*SourceFile, error) {
	lang := DetectLanguage(path)
	if lang == "" {
		return nil, errors.New(errors.CodeNotSupported, "unsupported file type").
			WithContext(errors.CtxPath, path)
	}

	grammar, ok := p.loader.Language(lang)
	if !ok {
		return nil, errors.New(errors.CodeNotFound, "grammar not loaded").
			WithContext(errors.CtxLanguage, lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeParseError, "parse failed").
			WithContext(errors.CtxPath, path)
	}

	return &SourceFile{
		Path:     path,
		Language: lang,
		Source:   content,
		tree:     tree,
	}, nil
}

func DetectLanguage(path string) string {
	switch filepath.Ext(path) {
	case ".ts", ".mts", ".cts":
		return "typescript"
	case ".tsx":
		return "tsx"
	default:
		return ""
	}
}
