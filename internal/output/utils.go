// Package output renders extracted file models as class diagrams and flat
// tables for downstream documentation tooling.
package output

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/deziev/tsviz/internal/model"
)

func visibilitySymbol(v model.Visibility) string {
	switch v {
	case model.Public:
		return "+"
	case model.Protected:
		return "#"
	default:
		return "-"
	}
}

// sanitizeID turns an arbitrary entity path into an identifier usable as a
// Mermaid or PlantUML alias.
func sanitizeID(name string) string {
	if name == "" {
		return "m"
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if unicode.IsDigit(rune(out[0])) {
		return "m_" + out
	}
	return out
}

// makeIDs assigns a unique sanitized alias to every name, disambiguating
// collisions with a numeric suffix.
func makeIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]int, len(names))
	for _, name := range names {
		if _, ok := ids[name]; ok {
			continue
		}
		base := sanitizeID(name)
		idx := used[base]
		used[base] = idx + 1
		if idx == 0 {
			ids[name] = base
			continue
		}
		ids[name] = fmt.Sprintf("%s_%d", base, idx+1)
	}
	return ids
}

// classesOf collects every class beneath the file roots together with its
// dotted path, in declaration order.
type classEntry struct {
	path string
	cls  *model.Class
}

func classesOf(files []*model.Module) []classEntry {
	var entries []classEntry
	for _, file := range files {
		model.Walk(file, func(e model.Element) {
			if cls, ok := e.(*model.Class); ok {
				entries = append(entries, classEntry{path: model.PathOf(cls), cls: cls})
			}
		})
	}
	return entries
}

// importsOf collects (file path, specifier) pairs for every import edge.
type importEntry struct {
	from string
	to   string
}

func importsOf(files []*model.Module) []importEntry {
	var entries []importEntry
	for _, file := range files {
		model.Walk(file, func(e model.Element) {
			if imp, ok := e.(*model.ImportedModule); ok {
				entries = append(entries, importEntry{from: file.Name(), to: imp.Name()})
			}
		})
	}
	return entries
}
