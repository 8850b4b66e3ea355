// Package common holds enumerations shared between configuration, porting
// engines and reporting.
package common

// Direction in which documentation is ported.
// ENUM(todocs, totripleslash)
type PortDirection int

// Documentation field managed by porting engines, in the order fields are
// emitted into triple slash comments.
// ENUM(summary, value, typeparam, param, returns, exception, remarks)
type FieldKind int

// Tag returns XML element name for the field.
func (f FieldKind) Tag() string {
	return f.String()
}

// Named reports whether field is identified by name or cref attribute in
// addition to its tag.
func (f FieldKind) Named() bool {
	return f == FieldKindTypeparam || f == FieldKindParam || f == FieldKindException
}
