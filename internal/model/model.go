// Package model holds the language-agnostic structural model extracted from
// a source file: a tree of modules, classes, properties, methods and import
// edges. Entities are created once, attached to their parent at construction
// and never reparented.
package model

import "strings"

type Visibility int

const (
	Private Visibility = iota
	Protected
	Public
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	default:
		return "private"
	}
}

type Lifetime int

const (
	Instance Lifetime = iota
	Static
)

func (l Lifetime) String() string {
	if l == Static {
		return "static"
	}
	return "instance"
}

// UnknownName is the sentinel segment used when base-type resolution fails.
const UnknownName = "unknown?"

// QualifiedName is an ordered list of name segments identifying a type
// across module/namespace boundaries. Segment 0 may be a module specifier
// rather than a namespace segment.
type QualifiedName []string

func (q QualifiedName) String() string {
	return strings.Join(q, ".")
}

func (q QualifiedName) IsUnknown() bool {
	return len(q) == 1 && q[0] == UnknownName
}

// UnknownQualifiedName returns a fresh sentinel name for an unresolved base.
func UnknownQualifiedName() QualifiedName {
	return QualifiedName{UnknownName}
}

// Element is any node of the structural tree.
type Element interface {
	Name() string
	Parent() Element
	Children() []Element

	attach(child Element)
}

// base carries the fields shared by every entity kind. The parent edge is
// set at construction and the children list preserves declaration order.
type base struct {
	name     string
	parent   Element
	children []Element
}

func (b *base) Name() string        { return b.name }
func (b *base) Parent() Element     { return b.parent }
func (b *base) Children() []Element { return b.children }

func (b *base) attach(child Element) {
	b.children = append(b.children, child)
}

// Module is a file root or a nested namespace.
type Module struct {
	base
	Path       string
	Visibility Visibility
}

// ImportedModule is a dependency edge with no further structure. Its name
// is an import alias or a literal module specifier.
type ImportedModule struct {
	base
}

type Class struct {
	base
	Visibility Visibility
	Abstract   bool
	// Extends is nil when the class declares no base. Only the first listed
	// base of a heritage clause is recorded.
	Extends QualifiedName
}

type Property struct {
	base
	Visibility Visibility
	Lifetime   Lifetime
	Type       string
	HasGetter  bool
	HasSetter  bool
}

type Method struct {
	base
	Visibility Visibility
	Lifetime   Lifetime
	Abstract   bool
}

func newBase(parent Element, name string) base {
	return base{name: name, parent: parent}
}

func NewModule(parent Element, name string, visibility Visibility) *Module {
	m := &Module{base: newBase(parent, name), Visibility: visibility}
	if parent != nil {
		parent.attach(m)
	}
	return m
}

// NewFileModule creates the root module for one source file.
func NewFileModule(name, path string) *Module {
	m := NewModule(nil, name, Public)
	m.Path = path
	return m
}

func NewImportedModule(parent Element, name string) *ImportedModule {
	i := &ImportedModule{base: newBase(parent, name)}
	if parent != nil {
		parent.attach(i)
	}
	return i
}

func NewClass(parent Element, name string, visibility Visibility, abstract bool, extends QualifiedName) *Class {
	c := &Class{
		base:       newBase(parent, name),
		Visibility: visibility,
		Abstract:   abstract,
		Extends:    extends,
	}
	if parent != nil {
		parent.attach(c)
	}
	return c
}

func NewProperty(parent Element, name string, visibility Visibility, lifetime Lifetime, typeName string) *Property {
	p := &Property{
		base:       newBase(parent, name),
		Visibility: visibility,
		Lifetime:   lifetime,
		Type:       typeName,
	}
	if parent != nil {
		parent.attach(p)
	}
	return p
}

func NewMethod(parent Element, name string, visibility Visibility, lifetime Lifetime, abstract bool) *Method {
	m := &Method{
		base:       newBase(parent, name),
		Visibility: visibility,
		Lifetime:   lifetime,
		Abstract:   abstract,
	}
	if parent != nil {
		parent.attach(m)
	}
	return m
}

// PathOf returns the dotted path of an element from its file root, the file
// root's own name included.
func PathOf(e Element) string {
	var segments []string
	for cur := e; cur != nil; cur = cur.Parent() {
		segments = append([]string{cur.Name()}, segments...)
	}
	return strings.Join(segments, ".")
}

// Walk visits e and its descendants depth-first in declaration order.
func Walk(e Element, visit func(Element)) {
	visit(e)
	for _, child := range e.Children() {
		Walk(child, visit)
	}
}
