package syntax

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type scopeKind int

const (
	scopeNamespace scopeKind = iota
	scopeType
	scopeEnum
	scopeBody
)

type scope struct {
	kind       scopeKind
	namespace  string
	containers []string
	// members without access modifiers are public (public interfaces and enums)
	implicit bool
	// name of the type, used to recognize constructors
	typeName string
}

var (
	errUnbalanced   = errors.New("unbalanced braces")
	errUnterminated = errors.New("unterminated literal or comment")
)

// scanner walks source text keeping track of scopes. Inside of namespaces
// and types text of every declaration (head) is collected till the token
// which terminates it, bodies of members are skipped.
type scanner struct {
	src    string
	starts []int
	pos    int

	scopes []scope
	decls  []Decl

	head      strings.Builder
	headStart int
	depth     int  // parentheses and brackets
	nested    int  // braces of initializers
	expr      bool // initializer or expression body reached
	lineStart bool
	prev      byte
}

func newScanner(src string, lines []string) *scanner {
	s := &scanner{src: src, starts: make([]int, len(lines)), lineStart: true}
	off := 0
	for i, l := range lines {
		s.starts[i] = off
		off += len(l) + 1
	}
	s.scopes = []scope{{kind: scopeNamespace}}
	s.reset()
	return s
}

func (s *scanner) lineOf(off int) int {
	return sort.SearchInts(s.starts, off+1) - 1
}

func (s *scanner) errorf(err error) error {
	return fmt.Errorf("line %d: %w", s.lineOf(s.pos)+1, err)
}

func (s *scanner) top() *scope { return &s.scopes[len(s.scopes)-1] }

func (s *scanner) collecting() bool { return s.top().kind != scopeBody }

func (s *scanner) reset() {
	s.head.Reset()
	s.headStart = -1
	s.depth, s.nested, s.expr = 0, 0, false
	s.prev = 0
}

func (s *scanner) peek(n int) byte {
	if s.pos+n < len(s.src) {
		return s.src[s.pos+n]
	}
	return 0
}

func (s *scanner) scan() ([]Decl, error) {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\n':
			s.lineStart = true
			s.space()
			s.pos++
			continue
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			s.space()
			s.pos++
			continue
		case c == '#' && s.lineStart:
			s.skipLine()
			continue
		}
		s.lineStart = false

		switch {
		case c == '/' && s.peek(1) == '/':
			s.skipLine()
		case c == '/' && s.peek(1) == '*':
			end := strings.Index(s.src[s.pos+2:], "*/")
			if end < 0 {
				return nil, s.errorf(errUnterminated)
			}
			s.pos += end + 4
			s.space()
		case c == '\'':
			end, err := skipChar(s.src, s.pos)
			if err != nil {
				return nil, s.errorf(err)
			}
			s.text(`''`)
			s.pos = end
		case c == '"' || c == '$' || c == '@':
			end, ok, err := skipString(s.src, s.pos)
			if err != nil {
				return nil, s.errorf(err)
			}
			if !ok {
				s.char(c)
				s.pos++
				continue
			}
			s.text(`""`)
			s.pos = end
		case c == '{':
			s.open()
			s.pos++
		case c == '}':
			if err := s.close(); err != nil {
				return nil, s.errorf(err)
			}
			s.pos++
		case c == ';':
			s.semicolon()
			s.pos++
		case c == ',':
			s.comma()
			s.pos++
		default:
			s.char(c)
			s.pos++
		}
	}
	if len(s.scopes) != 1 {
		return nil, fmt.Errorf("end of file: %w", errUnbalanced)
	}
	return s.decls, nil
}

func (s *scanner) skipLine() {
	if end := strings.IndexByte(s.src[s.pos:], '\n'); end >= 0 {
		s.pos += end
		return
	}
	s.pos = len(s.src)
}

func (s *scanner) space() {
	if s.collecting() && s.headStart >= 0 && s.prev != ' ' {
		s.head.WriteByte(' ')
		s.prev = ' '
	}
}

func (s *scanner) text(t string) {
	if !s.collecting() {
		return
	}
	if s.headStart < 0 {
		s.headStart = s.pos
	}
	s.head.WriteString(t)
	s.prev = t[len(t)-1]
}

func (s *scanner) char(c byte) {
	if !s.collecting() {
		return
	}
	switch c {
	case '(', '[':
		s.depth++
	case ')', ']':
		if s.depth > 0 {
			s.depth--
		}
	case '=':
		// assignment or lambda arrow, not a part of comparison operator
		if s.depth == 0 && s.peek(1) != '=' && !strings.ContainsRune("=!<>", rune(s.prev)) {
			s.expr = true
		}
	}
	if s.headStart < 0 {
		s.headStart = s.pos
	}
	s.head.WriteByte(c)
	s.prev = c
}

func (s *scanner) push(sc scope) {
	s.scopes = append(s.scopes, sc)
}

func (s *scanner) open() {
	if !s.collecting() {
		s.push(scope{kind: scopeBody})
		return
	}
	if s.expr || s.depth > 0 || s.nested > 0 {
		s.nested++
		s.char('{')
		return
	}
	s.push(s.statement(true))
	s.reset()
}

func (s *scanner) close() error {
	if s.collecting() && s.nested > 0 {
		s.nested--
		s.char('}')
		return nil
	}
	if s.top().kind == scopeEnum {
		s.enumMember()
	}
	if len(s.scopes) == 1 {
		return errUnbalanced
	}
	s.scopes = s.scopes[:len(s.scopes)-1]
	s.reset()
	return nil
}

func (s *scanner) semicolon() {
	if !s.collecting() {
		return
	}
	if s.nested > 0 || s.depth > 0 {
		s.char(';')
		return
	}
	s.statement(false)
	s.reset()
}

func (s *scanner) comma() {
	if !s.collecting() {
		return
	}
	if s.top().kind == scopeEnum && s.depth == 0 && s.nested == 0 {
		s.enumMember()
		s.reset()
		return
	}
	s.char(',')
}

// statement classifies collected head. For heads terminated by opening
// brace scope to enter is returned.
func (s *scanner) statement(block bool) scope {
	body := scope{kind: scopeBody}
	if s.headStart < 0 {
		return body
	}
	top := s.top()
	h, ok := parseHead(tokenize(s.head.String()), block, top.typeName)
	if !ok {
		return body
	}

	if h.namespace != "" {
		if top.kind != scopeNamespace {
			return body
		}
		ns := h.namespace
		if len(top.namespace) > 0 {
			ns = top.namespace + "." + ns
		}
		if !block {
			// file scoped
			top.namespace = ns
			return body
		}
		return scope{kind: scopeNamespace, namespace: ns}
	}

	d := h.decl
	if top.kind == scopeNamespace && !d.Kind.IsType() {
		return body
	}
	d.implicit = top.implicit
	s.record(d)

	if !block || !d.Kind.IsType() {
		return body
	}
	name := d.Name
	if len(d.TypeParams) > 0 {
		name = fmt.Sprintf("%s`%d", name, len(d.TypeParams))
	}
	sc := scope{
		kind:       scopeType,
		namespace:  top.namespace,
		containers: append(append([]string(nil), top.containers...), name),
		implicit:   d.Kind == KindInterface && d.IsPublic(),
		typeName:   d.Name,
	}
	if d.Kind == KindEnum {
		sc.kind, sc.implicit = scopeEnum, d.IsPublic()
	}
	return sc
}

func (s *scanner) enumMember() {
	if s.headStart < 0 {
		return
	}
	toks := skipAttributes(tokenize(s.head.String()))
	if len(toks) == 0 || !isIdent(toks[0]) {
		return
	}
	s.record(Decl{Kind: KindEnummember, Name: toks[0], ReturnType: s.top().typeName, implicit: s.top().implicit})
}

// record registers declaration when it starts its line, anything else can
// not have documentation comment of its own.
func (s *scanner) record(d Decl) {
	line := s.lineOf(s.headStart)
	lead := s.src[s.starts[line]:s.headStart]
	if len(strings.TrimLeft(lead, " \t")) > 0 {
		return
	}
	top := s.top()
	d.Namespace = top.namespace
	d.Containers = top.containers
	d.Indent = lead
	d.line, d.docStart = line, line
	s.decls = append(s.decls, d)
}

// skipChar returns position after character literal starting at i.
func skipChar(src string, i int) (int, error) {
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case '\'':
			return j + 1, nil
		case '\n':
			return 0, errUnterminated
		}
	}
	return 0, errUnterminated
}

// skipString recognizes string literal of any kind (regular, verbatim, raw,
// interpolated) starting at i and returns position after it.
func skipString(src string, i int) (int, bool, error) {
	j, dollars, verbatim := i, 0, false
	for ; j < len(src); j++ {
		if src[j] == '$' {
			dollars++
		} else if src[j] == '@' && !verbatim {
			verbatim = true
		} else {
			break
		}
	}
	if j >= len(src) || src[j] != '"' {
		return 0, false, nil
	}

	quotes := 0
	for k := j; k < len(src) && src[k] == '"'; k++ {
		quotes++
	}
	if !verbatim && quotes >= 3 {
		delim := strings.Repeat(`"`, quotes)
		end := strings.Index(src[j+quotes:], delim)
		if end < 0 {
			return 0, true, errUnterminated
		}
		return j + quotes + end + quotes, true, nil
	}

	for k := j + 1; k < len(src); k++ {
		switch c := src[k]; {
		case c == '\\' && !verbatim:
			k++
		case c == '\n' && !verbatim:
			return 0, true, errUnterminated
		case c == '"':
			if verbatim && k+1 < len(src) && src[k+1] == '"' {
				k++
				continue
			}
			return k + 1, true, nil
		case c == '{' && dollars > 0:
			if k+1 < len(src) && src[k+1] == '{' {
				k++
				continue
			}
			end, err := skipHole(src, k)
			if err != nil {
				return 0, true, err
			}
			k = end - 1
		}
	}
	return 0, true, errUnterminated
}

// skipHole returns position after interpolation hole starting at i.
func skipHole(src string, i int) (int, error) {
	depth := 0
	for k := i; k < len(src); {
		switch c := src[k]; {
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return k + 1, nil
			}
		case c == '\'':
			end, err := skipChar(src, k)
			if err != nil {
				return 0, err
			}
			k = end
			continue
		case c == '"' || c == '$' || c == '@':
			end, ok, err := skipString(src, k)
			if err != nil {
				return 0, err
			}
			if ok {
				k = end
				continue
			}
		}
		k++
	}
	return 0, errUnterminated
}
