package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

type GrammarLoader struct {
	languages map[string]*sitter.Language
}

func NewGrammarLoader() *GrammarLoader {
	gl := &GrammarLoader{
		languages: make(map[string]*sitter.Language),
	}

	gl.languages["typescript"] = sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	gl.languages["tsx"] = sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())

	return gl
}

func (gl *GrammarLoader) Language(name string) (*sitter.Language, bool) {
	lang, ok := gl.languages[name]
	return lang, ok
}
