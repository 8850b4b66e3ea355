package syntax

import "slices"

// Param is a declared parameter. Type is kept as written in source.
type Param struct {
	Name string
	Type string
}

// Decl is a declaration found in source file. It is a value: modifications
// produce new declarations which are applied to the file with File.Rewrite.
type Decl struct {
	Kind Kind
	// Name as declared. Operators carry their symbol ("+", "=="), indexers
	// are named "this", constructors are named after their type.
	Name       string
	Modifiers  []string
	TypeParams []string
	Params     []Param
	// ReturnType of methods, operators and delegates, type of properties,
	// indexers, fields and events, target type of conversions.
	ReturnType string
	Namespace  string
	// Containers are enclosing types, outermost first, generic ones with
	// arity suffix ("Outer`1").
	Containers []string
	// Indent is the whitespace preceding declaration on its first line.
	Indent string
	// Doc is documentation comment attached to the declaration or nil.
	Doc *DocComment

	line     int // first line of declaration (attributes included)
	docStart int // first line of documentation comment, equals line when there is none
	implicit bool
}

// Line returns zero based line number where declaration starts.
func (d Decl) Line() int { return d.line }

// HasModifier reports whether declaration has modifier.
func (d Decl) HasModifier(m string) bool {
	return slices.Contains(d.Modifiers, m)
}

var accessModifiers = []string{"public", "private", "protected", "internal", "file"}

// IsPublic reports whether declaration is marked public. Members of
// interfaces and enums without access modifiers are public when their
// container is.
func (d Decl) IsPublic() bool {
	if d.HasModifier("public") {
		return true
	}
	if !d.implicit {
		return false
	}
	return !slices.ContainsFunc(d.Modifiers, func(m string) bool { return slices.Contains(accessModifiers, m) })
}

// WithDoc returns copy of the declaration with new documentation comment.
func (d Decl) WithDoc(doc *DocComment) Decl {
	d.Doc = doc
	return d
}
