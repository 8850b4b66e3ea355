package tripleslash

import (
	"fmt"
	"slices"
	"strings"

	"docsync/markup"
	"docsync/syntax"
)

// Resolver maps source declaration to its documentation id.
type Resolver interface {
	Resolve(d syntax.Decl) (string, bool)
}

// NameResolver resolves declarations by names alone against set of known
// documentation ids. It has no semantic knowledge: overloads are told apart
// by number of parameters and simple names of their types.
type NameResolver struct {
	known map[string][]string // id without parameter list -> ids
}

// NewNameResolver indexes known ids.
func NewNameResolver(ids []string) *NameResolver {
	r := &NameResolver{known: make(map[string][]string, len(ids))}
	for _, id := range ids {
		key := id
		if i := strings.IndexByte(id, '('); i >= 0 {
			key = id[:i]
		} else if i := strings.IndexByte(id, '~'); i >= 0 {
			key = id[:i]
		}
		r.known[key] = append(r.known[key], id)
	}
	return r
}

var unaryOperators = map[string]string{
	"+":     "op_UnaryPlus",
	"-":     "op_UnaryNegation",
	"!":     "op_LogicalNot",
	"~":     "op_OnesComplement",
	"++":    "op_Increment",
	"--":    "op_Decrement",
	"true":  "op_True",
	"false": "op_False",
}

var binaryOperators = map[string]string{
	"+":   "op_Addition",
	"-":   "op_Subtraction",
	"*":   "op_Multiply",
	"/":   "op_Division",
	"%":   "op_Modulus",
	"&":   "op_BitwiseAnd",
	"|":   "op_BitwiseOr",
	"^":   "op_ExclusiveOr",
	"<<":  "op_LeftShift",
	">>":  "op_RightShift",
	">>>": "op_UnsignedRightShift",
	"==":  "op_Equality",
	"!=":  "op_Inequality",
	"<":   "op_LessThan",
	">":   "op_GreaterThan",
	"<=":  "op_LessThanOrEqual",
	">=":  "op_GreaterThanOrEqual",
}

func operatorName(sym string, params int) (string, bool) {
	sym, checked := strings.CutPrefix(sym, "checked")
	table := binaryOperators
	if params == 1 {
		table = unaryOperators
	}
	name, ok := table[sym]
	if !ok {
		return "", false
	}
	if checked {
		name = "op_Checked" + strings.TrimPrefix(name, "op_")
	}
	return name, true
}

func kindPrefix(k syntax.Kind) string {
	switch {
	case k.IsType():
		return "T"
	case k == syntax.KindProperty || k == syntax.KindIndexer:
		return "P"
	case k == syntax.KindField || k == syntax.KindEnummember:
		return "F"
	case k == syntax.KindEvent:
		return "E"
	}
	return "M"
}

// metadataName returns name of declaration the way documentation ids spell
// it.
func metadataName(d syntax.Decl) (string, bool) {
	name := strings.ReplaceAll(d.Name, "@", "")
	switch d.Kind {
	case syntax.KindConstructor:
		if d.HasModifier("static") {
			return "#cctor", true
		}
		return "#ctor", true
	case syntax.KindOperator:
		return operatorName(d.Name, len(d.Params))
	case syntax.KindConversion:
		if d.Name == "implicit" {
			return "op_Implicit", true
		}
		return "op_Explicit", true
	case syntax.KindIndexer:
		return "Item", true
	}
	if len(d.TypeParams) > 0 {
		if d.Kind.IsType() {
			name = fmt.Sprintf("%s`%d", name, len(d.TypeParams))
		} else {
			name = fmt.Sprintf("%s``%d", name, len(d.TypeParams))
		}
	}
	return name, true
}

func owner(d syntax.Decl) string {
	parts := make([]string, 0, len(d.Containers)+1)
	if len(d.Namespace) > 0 {
		parts = append(parts, d.Namespace)
	}
	parts = append(parts, d.Containers...)
	return strings.Join(parts, ".")
}

// Resolve implements Resolver.
func (r *NameResolver) Resolve(d syntax.Decl) (string, bool) {
	name, ok := metadataName(d)
	if !ok {
		return "", false
	}
	base := kindPrefix(d.Kind) + ":"
	if o := owner(d); len(o) > 0 {
		base += o + "."
	}

	var candidates []string
	if explicit := strings.Contains(name, "."); explicit {
		candidates = r.explicit(base, name)
	} else {
		candidates = r.known[base+name]
	}
	if d.Kind.IsType() || d.Kind == syntax.KindField || d.Kind == syntax.KindEnummember || d.Kind == syntax.KindEvent {
		if len(candidates) > 0 {
			return candidates[0], true
		}
		return "", false
	}
	return pick(candidates, d)
}

// explicit finds explicit interface implementations. Source usually names
// interface without namespace, so names are matched by suffix.
func (r *NameResolver) explicit(base, name string) []string {
	name = strings.NewReplacer(".", "#", "<", "{", ">", "}", ", ", "@", ",", "@", " ", "").Replace(name)
	var res []string
	for key, ids := range r.known {
		rest, ok := strings.CutPrefix(key, base)
		if !ok || strings.Contains(rest, ".") {
			continue
		}
		if rest == name || strings.HasSuffix(rest, "#"+name) {
			res = append(res, ids...)
		}
	}
	return res
}

// pick chooses overload matching declaration parameters by count and
// simple type names. Mismatched or ambiguous overloads stay unresolved.
func pick(candidates []string, d syntax.Decl) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	var found []string
	for _, id := range candidates {
		if len(idParams(id)) == len(d.Params) && sameSignature(id, d) {
			found = append(found, id)
		}
	}
	if len(found) == 1 {
		return found[0], true
	}
	return "", false
}

func sameSignature(id string, d syntax.Decl) bool {
	for i, t := range idParams(id) {
		if !sameType(t, d.Params[i].Type) {
			return false
		}
	}
	if d.Kind == syntax.KindConversion {
		if _, ret, ok := strings.Cut(id, "~"); ok && !sameType(ret, d.ReturnType) {
			return false
		}
	}
	return true
}

// idParams returns parameter types listed by documentation id.
func idParams(id string) []string {
	open := strings.IndexByte(id, '(')
	if open < 0 {
		return nil
	}
	end := strings.LastIndexByte(id, ')')
	if end < open {
		return nil
	}
	list := id[open+1 : end]
	if len(list) == 0 {
		return nil
	}
	var (
		res   []string
		depth int
		start int
	)
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		case ',':
			if depth == 0 {
				res = append(res, list[start:i])
				start = i + 1
			}
		}
	}
	return append(res, list[start:])
}

// simpleType is what both sides of comparison are reduced to.
type simpleType struct {
	name   string
	arrays int
	any    bool // generic parameter
}

func fromID(t string) simpleType {
	t = strings.TrimRight(t, "@*")
	var st simpleType
	for strings.HasSuffix(t, "]") {
		i := strings.LastIndexByte(t, '[')
		if i < 0 {
			break
		}
		t = t[:i]
		st.arrays++
	}
	if strings.HasPrefix(t, "`") {
		st.any = true
		return st
	}
	if i := strings.IndexByte(t, '{'); i >= 0 {
		t = t[:i]
	}
	st.name = lastSegment(t)
	return st
}

var referenceKeywords = []string{"object", "string", "dynamic"}

func fromSource(t string) simpleType {
	var st simpleType
	t = strings.TrimSpace(t)
	for strings.HasSuffix(t, "]") {
		i := strings.LastIndexByte(t, '[')
		if i < 0 {
			break
		}
		t = strings.TrimSpace(t[:i])
		st.arrays++
	}
	t = strings.TrimRight(t, "*")
	nullable := strings.HasSuffix(t, "?")
	t = strings.TrimSuffix(t, "?")
	if strings.HasPrefix(t, "(") {
		st.name = "ValueTuple"
		return st
	}
	if i := strings.IndexByte(t, '<'); i >= 0 {
		t = t[:i]
	}
	if full, ok := markup.Primitive(t); ok {
		if nullable && !slices.Contains(referenceKeywords, t) {
			st.name = "Nullable"
			return st
		}
		t = full
	}
	if t == "dynamic" {
		t = "Object"
	}
	st.name = lastSegment(t)
	return st
}

func lastSegment(t string) string {
	if i := strings.LastIndex(t, "::"); i >= 0 {
		t = t[i+2:]
	}
	if i := strings.LastIndexByte(t, '.'); i >= 0 {
		t = t[i+1:]
	}
	return t
}

func sameType(id, src string) bool {
	a, b := fromID(id), fromSource(src)
	if a.arrays != b.arrays {
		return false
	}
	return a.any || a.name == b.name
}
