// Package syntax is a light structural view of C# source files. It finds
// declarations together with their documentation comments and rewrites
// comment blocks leaving the rest of the file byte for byte intact.
package syntax

// Kind of declaration.
// ENUM(class, struct, interface, record, enum, delegate, method, constructor, operator, conversion, indexer, property, event, field, enummember)
type Kind int

// IsType reports whether declaration introduces a type.
func (k Kind) IsType() bool {
	return k >= KindClass && k <= KindDelegate
}
