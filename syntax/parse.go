package syntax

import (
	"slices"
	"strings"
)

var twoCharTokens = []string{"=>", "==", "!=", "<=", ">=", "::", "++", "--", "&&", "||"}

func isIdentChar(c byte) bool {
	return c == '_' || c == '@' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

func isIdent(tok string) bool {
	return len(tok) > 0 && isIdentChar(tok[0]) && !(tok[0] >= '0' && tok[0] <= '9')
}

// tokenize splits declaration head. Literals were already replaced with
// empty placeholders by scanner.
func tokenize(s string) []string {
	var toks []string
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ':
			i++
		case isIdentChar(c):
			j := i + 1
			for j < len(s) && isIdentChar(s[j]) {
				j++
			}
			toks = append(toks, s[i:j])
			i = j
		case c == '"' || c == '\'':
			toks = append(toks, s[i:i+2])
			i += 2
		default:
			n := 1
			if i+1 < len(s) && slices.Contains(twoCharTokens, s[i:i+2]) {
				n = 2
			}
			toks = append(toks, s[i:i+n])
			i += n
		}
	}
	return toks
}

var closing = map[string]string{"(": ")", "[": "]", "<": ">", "{": "}"}

// group returns index after the group opened at toks[i].
func group(toks []string, i int) int {
	open, close := toks[i], closing[toks[i]]
	depth := 0
	for ; i < len(toks); i++ {
		switch toks[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(toks)
}

// split breaks tokens on top level commas.
func split(toks []string) [][]string {
	var (
		res   [][]string
		depth int
		start int
	)
	for i, t := range toks {
		switch t {
		case "(", "[", "<", "{":
			depth++
		case ")", "]", ">", "}":
			if depth > 0 {
				depth--
			}
		case ",":
			if depth == 0 {
				res = append(res, toks[start:i])
				start = i + 1
			}
		}
	}
	if start < len(toks) {
		res = append(res, toks[start:])
	}
	return res
}

func skipAttributes(toks []string) []string {
	for len(toks) > 0 && toks[0] == "[" {
		toks = toks[group(toks, 0):]
	}
	return toks
}

// join puts tokens back together in canonical form: no spaces except after
// commas and between words.
func join(toks []string) string {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 && (toks[i-1] == "," || isIdent(toks[i-1]) && isIdent(t)) {
			b.WriteByte(' ')
		}
		b.WriteString(t)
	}
	return b.String()
}

var modifiers = []string{
	"public", "private", "protected", "internal", "file", "static", "abstract",
	"sealed", "virtual", "override", "readonly", "const", "extern", "unsafe",
	"volatile", "new", "partial", "async", "required", "fixed",
}

var typeKinds = map[string]Kind{
	"class":     KindClass,
	"struct":    KindStruct,
	"interface": KindInterface,
	"enum":      KindEnum,
	"record":    KindRecord,
}

func isTypeKeyword(t string) bool {
	_, ok := typeKinds[t]
	return ok
}

type head struct {
	namespace string
	decl      Decl
}

type parser struct {
	toks []string
	i    int
}

func (p *parser) peek() string { return p.at(0) }

func (p *parser) at(n int) string {
	if p.i+n < len(p.toks) {
		return p.toks[p.i+n]
	}
	return ""
}

func (p *parser) next() string {
	t := p.peek()
	if p.i < len(p.toks) {
		p.i++
	}
	return t
}

// group consumes the group starting at current token and returns its inner
// tokens.
func (p *parser) group() []string {
	if _, ok := closing[p.peek()]; !ok {
		return nil
	}
	start := p.i
	p.i = group(p.toks, p.i)
	end := p.i - 1
	if end < start+1 {
		return nil
	}
	return p.toks[start+1 : end]
}

func (p *parser) qualifiedName() string {
	var parts []string
	for isIdent(p.peek()) {
		parts = append(parts, p.next())
		if p.peek() != "." {
			break
		}
		p.next()
	}
	return strings.Join(parts, ".")
}

// typeRef consumes type reference and returns it, empty when there is none.
func (p *parser) typeRef() string {
	start := p.i
	if p.peek() == "ref" {
		p.next()
		if p.peek() == "readonly" {
			p.next()
		}
	}
	switch {
	case p.peek() == "(":
		p.group()
	case isIdent(p.peek()):
		for {
			p.next()
			if p.peek() == "<" {
				p.group()
			}
			if (p.peek() == "." || p.peek() == "::") && isIdent(p.at(1)) {
				p.next()
				continue
			}
			break
		}
	default:
		p.i = start
		return ""
	}
	for {
		switch p.peek() {
		case "?", "*":
			p.next()
			continue
		case "[":
			p.group()
			continue
		}
		break
	}
	return join(p.toks[start:p.i])
}

// memberName consumes possibly qualified (explicit interface
// implementation) name and type parameters.
func (p *parser) memberName() (string, []string) {
	var b strings.Builder
	for isIdent(p.peek()) || p.peek() == "this" {
		b.WriteString(p.next())
		var args []string
		if p.peek() == "<" {
			start := p.i
			args = p.group()
			if p.peek() == "." {
				b.WriteString(join(p.toks[start:p.i]))
				args = nil
			}
		}
		if p.peek() != "." {
			return b.String(), typeParams(args)
		}
		b.WriteString(p.next())
	}
	return b.String(), nil
}

func typeParams(toks []string) []string {
	var names []string
	for _, seg := range split(toks) {
		seg = skipAttributes(seg)
		if len(seg) > 0 {
			names = append(names, seg[len(seg)-1])
		}
	}
	return names
}

var paramModifiers = []string{"this", "ref", "out", "in", "params", "scoped", "readonly"}

func params(toks []string) []Param {
	var res []Param
	for _, seg := range split(toks) {
		seg = skipAttributes(seg)
		for len(seg) > 0 && slices.Contains(paramModifiers, seg[0]) {
			seg = seg[1:]
		}
		if i := slices.Index(seg, "="); i >= 0 {
			seg = seg[:i]
		}
		if len(seg) < 2 || !isIdent(seg[len(seg)-1]) {
			continue
		}
		res = append(res, Param{Name: seg[len(seg)-1], Type: join(seg[:len(seg)-1])})
	}
	return res
}

// single reports whether the rest of field declaration has no other
// declarators.
func (p *parser) single() bool {
	return len(split(p.toks[p.i:])) <= 1
}

// parseHead recognizes declaration. Block tells whether declaration is
// followed by a body in braces, typeName is the name of enclosing type.
func parseHead(toks []string, block bool, typeName string) (head, bool) {
	toks = skipAttributes(toks)
	if len(toks) == 0 || toks[0] == "using" || toks[0] == "global" || toks[0] == "extern" && len(toks) > 1 && toks[1] == "alias" {
		return head{}, false
	}
	p := &parser{toks: toks}

	var d Decl
	for {
		t := p.peek()
		if slices.Contains(modifiers, t) || t == "ref" && (p.at(1) == "struct" || p.at(1) == "partial") {
			d.Modifiers = append(d.Modifiers, p.next())
			continue
		}
		break
	}

	switch t := p.peek(); {
	case t == "namespace":
		p.next()
		ns := p.qualifiedName()
		return head{namespace: ns}, len(ns) > 0

	case isTypeKeyword(t):
		d.Kind = typeKinds[p.next()]
		if d.Kind == KindRecord && (p.peek() == "class" || p.peek() == "struct") {
			p.next()
		}
		if !isIdent(p.peek()) {
			return head{}, false
		}
		d.Name = p.next()
		if p.peek() == "<" {
			d.TypeParams = typeParams(p.group())
		}
		if p.peek() == "(" {
			d.Params = params(p.group())
		}

	case t == "delegate":
		p.next()
		d.Kind = KindDelegate
		d.ReturnType = p.typeRef()
		d.Name, d.TypeParams = p.memberName()
		if p.peek() != "(" || len(d.Name) == 0 {
			return head{}, false
		}
		d.Params = params(p.group())

	case t == "event":
		p.next()
		d.Kind = KindEvent
		d.ReturnType = p.typeRef()
		d.Name, _ = p.memberName()
		if len(d.Name) == 0 || !p.single() {
			return head{}, false
		}

	case t == "implicit" || t == "explicit":
		p.next()
		if p.next() != "operator" {
			return head{}, false
		}
		p.accept("checked")
		d.Kind = KindConversion
		d.Name = t
		d.ReturnType = p.typeRef()
		if p.peek() != "(" {
			return head{}, false
		}
		d.Params = params(p.group())

	case t == "~":
		// finalizers are never documented
		return head{}, false

	case isIdent(t) && p.at(1) == "(":
		d.Kind = KindConstructor
		d.Name = p.next()
		if d.Name != typeName {
			return head{}, false
		}
		d.Params = params(p.group())

	default:
		d.ReturnType = p.typeRef()
		if len(d.ReturnType) == 0 {
			return head{}, false
		}
		switch {
		case p.peek() == "operator":
			p.next()
			var sym []string
			for p.peek() != "(" && p.peek() != "" {
				sym = append(sym, p.next())
			}
			if len(sym) == 0 || p.peek() != "(" {
				return head{}, false
			}
			d.Kind = KindOperator
			d.Name = strings.Join(sym, "")
			d.Params = params(p.group())

		case p.peek() == "this" && p.at(1) == "[":
			p.next()
			d.Kind = KindIndexer
			d.Name = "this"
			d.Params = params(p.group())

		default:
			d.Name, d.TypeParams = p.memberName()
			if len(d.Name) == 0 || strings.HasSuffix(d.Name, ".this") {
				return head{}, false
			}
			switch p.peek() {
			case "(":
				d.Kind = KindMethod
				d.Params = params(p.group())
			case "=>":
				d.Kind = KindProperty
			case "":
				d.Kind = KindField
				if block {
					d.Kind = KindProperty
				}
			case "=", ",":
				if !p.single() {
					return head{}, false
				}
				d.Kind = KindField
			default:
				return head{}, false
			}
		}
	}
	return head{decl: d}, true
}

func (p *parser) accept(t string) bool {
	if p.peek() == t {
		p.next()
		return true
	}
	return false
}
