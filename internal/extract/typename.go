package extract

import (
	"html"
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// renderType maps a type annotation to a display string. Primitive kinds
// keep their canonical lowercase spelling, function types collapse to the
// token "function", array types embed the HTML-escaped element source text.
// Anything unrecognized degrades to the numeric grammar kind id; callers
// must not treat that fallback as a stable type name.
func renderType(node *sitter.Node, source []byte) string {
	if node == nil {
		return "undefined"
	}
	if node.Kind() == "type_annotation" {
		node = node.NamedChild(0)
		if node == nil {
			return "undefined"
		}
	}

	text := func(n *sitter.Node) string {
		return string(source[n.StartByte():n.EndByte()])
	}

	switch node.Kind() {
	case "predefined_type":
		return text(node)
	case "function_type":
		return "function"
	case "array_type":
		elem := node.NamedChild(0)
		if elem == nil {
			return "Array&lt;&gt;"
		}
		return "Array&lt;" + html.EscapeString(strings.TrimSpace(text(elem))) + "&gt;"
	case "type_identifier", "nested_type_identifier", "generic_type":
		return strings.TrimSpace(text(node))
	default:
		return strconv.Itoa(int(node.KindId()))
	}
}
