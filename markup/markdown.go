package markup

import (
	"regexp"
	"slices"
	"strings"
)

// ToMarkdown converts structural text to the prose dialect of Docs remarks.
func ToMarkdown(text string) string {
	text = reCode.ReplaceAllStringFunc(text, func(s string) string {
		m := reCode.FindStringSubmatch(s)
		return "\x00```" + unquote(m, 1) + "\n" + Unescape(Dedent(m[3])) + "\n```\x00"
	})
	text = reRef.ReplaceAllStringFunc(text, func(s string) string {
		m := reRef.FindStringSubmatch(s)
		cref, inner := strings.TrimSpace(unquote(m, 2)), strings.TrimSpace(m[4])
		if _, ok := primitives[cref]; ok || cref == dynamicKeyword {
			return "`" + cref + "`"
		}
		if len(inner) > 0 {
			return "[" + inner + "](xref:" + XrefUID(cref) + ")"
		}
		return "<xref:" + XrefUID(cref) + ">"
	})
	text = reHref.ReplaceAllStringFunc(text, func(s string) string {
		m := reHref.FindStringSubmatch(s)
		href, inner := unquote(m, 1), strings.TrimSpace(m[3])
		if len(inner) == 0 {
			inner = href
		}
		return "[" + inner + "](" + href + ")"
	})
	text = reLangword.ReplaceAllStringFunc(text, func(s string) string {
		return "`" + unquote(reLangword.FindStringSubmatch(s), 1) + "`"
	})
	text = reNameRef.ReplaceAllStringFunc(text, func(s string) string {
		return "`" + unquote(reNameRef.FindStringSubmatch(s), 2) + "`"
	})
	text = reInline.ReplaceAllStringFunc(text, func(s string) string {
		return "`" + Unescape(reInline.FindStringSubmatch(s)[1]) + "`"
	})
	text = reParaOpen.ReplaceAllString(text, "\x00")
	text = reParaClose.ReplaceAllString(text, "\x00")
	return strings.TrimSpace(reBoundary.ReplaceAllString(text, "\n\n"))
}

// XrefUID turns documentation id into markdown cross reference uid.
func XrefUID(id string) string {
	id = DocIDEscaped(strings.TrimSpace(id))
	if len(id) > 2 && id[1] == ':' {
		id = id[2:]
	}
	return strings.ReplaceAll(id, "`", "%60")
}

// Names describes the context FromMarkdown needs to pick proper structural
// tags for code spans and cross references.
type Names struct {
	Params     []string
	TypeParams []string
	// Resolve maps markdown uid back to documentation id, may be nil.
	Resolve func(uid string) (string, bool)
}

// Langwords are C# reserved words rendered with "see langword".
var Langwords = []string{
	"null", "true", "false", "void", "static", "abstract", "sealed", "virtual",
	"override", "async", "await", "readonly", "const", "ref", "out", "in",
	"params", "this", "base", "new", "default", "typeof", "sizeof", "nameof",
	"is", "as", "checked", "unchecked", "yield", "return", "throw", "try",
	"catch", "finally", "lock", "using", "volatile", "unsafe", "fixed",
	"stackalloc", "extern", "partial", "delegate", "event", "class", "struct",
	"interface", "record", "enum", "operator", "implicit", "explicit", "get",
	"set", "init", "where", "var", "scoped", "required", "unmanaged", "notnull",
}

var (
	reFence  = regexp.MustCompile("(?ms)^[ \\t]*```([\\w+#.-]*)[ \\t]*\\n(.*?)\\n[ \\t]*```[ \\t]*$")
	reBlank  = regexp.MustCompile(`\n[ \t]*\n`)
	reEntity = regexp.MustCompile(`&(?:[A-Za-z][A-Za-z0-9]*|#[0-9]+|#[xX][0-9A-Fa-f]+);`)
	reTokens = regexp.MustCompile("<xref:([^>\\s]+)>|`([^`\\n]+)`|\\[([^\\]\\n]+)\\]\\(([^)\\s]+)\\)|" +
		`</?(?:see|seealso|paramref|typeparamref|c|code|para|list|item|term|description|listheader|br|a|b|i)\b[^<>]*>`)
)

// FromMarkdown converts Docs markdown remarks back to structural dialect.
func FromMarkdown(md string, names Names) string {
	md = strings.ReplaceAll(md, "\r\n", "\n")

	type block struct {
		text string
		code bool
	}
	var blocks []block
	addText := func(s string) {
		for _, b := range reBlank.Split(s, -1) {
			if b = strings.TrimSpace(b); len(b) > 0 {
				blocks = append(blocks, block{text: names.inline(b)})
			}
		}
	}

	last := 0
	for _, m := range reFence.FindAllStringSubmatchIndex(md, -1) {
		addText(md[last:m[0]])
		open := "<code>"
		if lang := md[m[2]:m[3]]; len(lang) > 0 {
			open = `<code language="` + EscapeAttr(lang) + `">`
		}
		blocks = append(blocks, block{text: open + EscapeText(md[m[4]:m[5]]) + "</code>", code: true})
		last = m[1]
	}
	addText(md[last:])

	if len(blocks) == 0 {
		return ""
	}
	if len(blocks) == 1 {
		return blocks[0].text
	}
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.code {
			out = append(out, b.text)
			continue
		}
		out = append(out, "<para>"+b.text+"</para>")
	}
	return strings.Join(out, "\n")
}

func (n Names) inline(s string) string {
	var b strings.Builder
	last := 0
	for _, m := range reTokens.FindAllStringSubmatchIndex(s, -1) {
		b.WriteString(escapeProse(s[last:m[0]]))
		last = m[1]
		switch {
		case m[2] >= 0:
			b.WriteString(`<see cref="` + EscapeAttr(n.cref(s[m[2]:m[3]])) + `" />`)
		case m[4] >= 0:
			b.WriteString(n.codeSpan(s[m[4]:m[5]]))
		case m[6] >= 0:
			text, target := escapeProse(s[m[6]:m[7]]), s[m[8]:m[9]]
			if uid, ok := strings.CutPrefix(target, "xref:"); ok {
				b.WriteString(`<see cref="` + EscapeAttr(n.cref(uid)) + `">` + text + "</see>")
			} else {
				b.WriteString(`<a href="` + EscapeAttr(target) + `">` + text + "</a>")
			}
		default:
			b.WriteString(s[m[0]:m[1]])
		}
	}
	b.WriteString(escapeProse(s[last:]))
	return b.String()
}

// escapeProse escapes markdown text, entities already there are kept as is.
func escapeProse(s string) string {
	var b strings.Builder
	last := 0
	for _, m := range reEntity.FindAllStringIndex(s, -1) {
		b.WriteString(EscapeText(s[last:m[0]]))
		b.WriteString(s[m[0]:m[1]])
		last = m[1]
	}
	b.WriteString(EscapeText(s[last:]))
	return b.String()
}

func (n Names) cref(uid string) string {
	if i := strings.IndexByte(uid, '?'); i >= 0 {
		uid = uid[:i]
	}
	uid = strings.TrimSuffix(strings.TrimSuffix(uid, "%2A"), "*")
	uid = strings.ReplaceAll(uid, "%60", "`")
	if n.Resolve != nil {
		if id, ok := n.Resolve(uid); ok {
			return id
		}
	}
	return uid
}

func (n Names) codeSpan(word string) string {
	switch {
	case slices.Contains(n.Params, word):
		return `<paramref name="` + EscapeAttr(word) + `" />`
	case slices.Contains(n.TypeParams, word):
		return `<typeparamref name="` + EscapeAttr(word) + `" />`
	case word == dynamicKeyword || slices.Contains(Langwords, word):
		return `<see langword="` + word + `" />`
	}
	if _, ok := primitives[word]; ok {
		return `<see cref="` + word + `" />`
	}
	return "<c>" + EscapeText(word) + "</c>"
}

const remarksHeading = "## Remarks"

// RemarksMarkdown builds content of the CDATA section holding Docs markdown
// remarks. Closing line is indented with "indent" to line up with the
// enclosing format element.
func RemarksMarkdown(md, indent string) string {
	return "\n\n" + remarksHeading + "\n\n" + strings.TrimSpace(md) + "\n\n" + indent
}

var reFormat = regexp.MustCompile(`(?s)^\s*<format\s+type\s*=\s*"text/markdown"\s*>\s*<!\[CDATA\[(.*?)\]\]>\s*</format>\s*$`)

// ExtractMarkdown returns markdown held by Docs remarks (inner XML of the
// remarks element) with the heading removed. False is returned when remarks
// are not in markdown form.
func ExtractMarkdown(remarks string) (string, bool) {
	m := reFormat.FindStringSubmatch(remarks)
	if m == nil {
		return "", false
	}
	md := strings.TrimSpace(strings.ReplaceAll(m[1], "\r\n", "\n"))
	md = strings.TrimSpace(strings.TrimPrefix(md, remarksHeading))
	return Dedent(md), true
}
