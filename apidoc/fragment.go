// Package apidoc holds reconciled documentation of single API (type or
// member) and the per-run repository of such records keyed by documentation
// id.
package apidoc

import (
	"strings"

	"docsync/markup"
)

// Named is description of a parameter or a type parameter.
type Named struct {
	Name string
	Text string
}

// Exception is description of an exception keyed by its cref.
type Exception struct {
	Cref string
	Text string
}

// Fragment is documentation of a single API. Fields are populated by loaders
// and mutated by merge engines, every effective mutation sets Changed.
type Fragment struct {
	id         string
	source     string
	returnType string

	summary    string
	remarks    string
	returns    string
	value      string
	typeParams []Named
	params     []Named
	exceptions []Exception

	changed bool
}

// NewFragment creates empty fragment for documentation id (T:, M:, P:, F:,
// E: prefixed). Source is the file fragment is read from.
func NewFragment(id, source string) *Fragment {
	return &Fragment{id: strings.TrimSpace(id), source: source}
}

func (f *Fragment) ID() string     { return f.id }
func (f *Fragment) Source() string { return f.source }

// Kind returns id prefix letter ('T', 'M', 'P', 'F', 'E', 'N') or 0.
func (f *Fragment) Kind() byte {
	if len(f.id) > 1 && f.id[1] == ':' {
		return f.id[0]
	}
	return 0
}

func (f *Fragment) Summary() string         { return f.summary }
func (f *Fragment) Remarks() string         { return f.remarks }
func (f *Fragment) Returns() string         { return f.returns }
func (f *Fragment) Value() string           { return f.value }
func (f *Fragment) Changed() bool           { return f.changed }
func (f *Fragment) ResetChanged()           { f.changed = false }
func (f *Fragment) TypeParams() []Named     { return f.typeParams }
func (f *Fragment) Params() []Named         { return f.params }
func (f *Fragment) Exceptions() []Exception { return f.exceptions }

func (f *Fragment) set(dst *string, text string) bool {
	if *dst == text {
		return false
	}
	*dst = text
	f.changed = true
	return true
}

func (f *Fragment) SetSummary(text string) bool { return f.set(&f.summary, text) }
func (f *Fragment) SetRemarks(text string) bool { return f.set(&f.remarks, text) }
func (f *Fragment) SetReturns(text string) bool { return f.set(&f.returns, text) }
func (f *Fragment) SetValue(text string) bool   { return f.set(&f.value, text) }

// SetReturnType records declared return type ("System.Void" or empty for
// members returning nothing). It is metadata and does not mark fragment
// changed.
func (f *Fragment) SetReturnType(t string) {
	f.returnType = strings.TrimSpace(t)
}

// ReturnsApplicable reports if member returns a value and so may carry
// "returns" documentation.
func (f *Fragment) ReturnsApplicable() bool {
	return IsReturning(f.returnType)
}

// IsReturning reports if declared return type produces a value.
func IsReturning(t string) bool {
	switch strings.TrimSpace(t) {
	case "", "void", "System.Void":
		return false
	}
	return true
}

func setNamed(list []Named, name, text string) ([]Named, bool) {
	for i := range list {
		if list[i].Name == name {
			if list[i].Text == text {
				return list, false
			}
			list[i].Text = text
			return list, true
		}
	}
	return append(list, Named{Name: name, Text: text}), true
}

func findNamed(list []Named, name string) (string, bool) {
	for _, n := range list {
		if n.Name == name {
			return n.Text, true
		}
	}
	return "", false
}

// SetParam sets parameter description, a name keeps its first position.
func (f *Fragment) SetParam(name, text string) bool {
	var ok bool
	if f.params, ok = setNamed(f.params, name, text); ok {
		f.changed = true
	}
	return ok
}

// SetTypeParam sets type parameter description, a name keeps its first
// position.
func (f *Fragment) SetTypeParam(name, text string) bool {
	var ok bool
	if f.typeParams, ok = setNamed(f.typeParams, name, text); ok {
		f.changed = true
	}
	return ok
}

func (f *Fragment) Param(name string) (string, bool)     { return findNamed(f.params, name) }
func (f *Fragment) TypeParam(name string) (string, bool) { return findNamed(f.typeParams, name) }

// SameCref compares exception references in documentation id form, so
// "List<T>", "List&lt;T&gt;" and "List{T}" are the same reference.
func SameCref(a, b string) bool {
	return markup.DocIDEscaped(strings.TrimSpace(a)) == markup.DocIDEscaped(strings.TrimSpace(b))
}

// Exception returns description of the exception with cref.
func (f *Fragment) Exception(cref string) (string, bool) {
	for _, e := range f.exceptions {
		if SameCref(e.Cref, cref) {
			return e.Text, true
		}
	}
	return "", false
}

// AddException appends exception. The first description of a cref wins,
// false is returned for duplicates.
func (f *Fragment) AddException(cref, text string) bool {
	if _, ok := f.Exception(cref); ok {
		return false
	}
	f.exceptions = append(f.exceptions, Exception{Cref: strings.TrimSpace(cref), Text: text})
	f.changed = true
	return true
}

// Empty reports if fragment carries no documentation at all. Docs
// placeholders count as empty.
func (f *Fragment) Empty() bool {
	for _, s := range []string{f.summary, f.remarks, f.returns, f.value} {
		if !markup.IsDocsEmpty(s) {
			return false
		}
	}
	for _, n := range append(append([]Named(nil), f.params...), f.typeParams...) {
		if !markup.IsDocsEmpty(n.Text) {
			return false
		}
	}
	for _, e := range f.exceptions {
		if !markup.IsDocsEmpty(e.Text) {
			return false
		}
	}
	return true
}
