// Package markup converts inline documentation markup between the structural
// (Docs XML, triple slash) dialect and the prose (markdown) dialect used by
// Docs remarks. Conversion is pattern based, no markup tree is ever built.
package markup

import (
	"regexp"
	"strings"
)

// ToBeAdded is the Docs placeholder for undocumented API.
const ToBeAdded = "To be added."

// IsDocsEmpty reports if text is considered empty by Docs repository rules.
func IsDocsEmpty(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) == 0 || s == ToBeAdded
}

// IsIntelliSenseEmpty reports if text is considered empty in compiled
// IntelliSense files and triple slash comments.
func IsIntelliSenseEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}

// primitives maps C# keywords to framework types. "dynamic" is
// absent: it is System.Object at runtime but means something else.
var primitives = map[string]string{
	"bool":    "Boolean",
	"byte":    "Byte",
	"sbyte":   "SByte",
	"char":    "Char",
	"decimal": "Decimal",
	"double":  "Double",
	"float":   "Single",
	"int":     "Int32",
	"uint":    "UInt32",
	"nint":    "IntPtr",
	"nuint":   "UIntPtr",
	"long":    "Int64",
	"ulong":   "UInt64",
	"short":   "Int16",
	"ushort":  "UInt16",
	"object":  "Object",
	"string":  "String",
	"void":    "Void",
}

const dynamicKeyword = "dynamic"

// Primitive returns framework type name for C# keyword.
func Primitive(keyword string) (string, bool) {
	t, ok := primitives[keyword]
	if !ok {
		return "", false
	}
	return "System." + t, true
}

var docIDReplacer = strings.NewReplacer("&lt;", "{", "&gt;", "}", "<", "{", ">", "}")

// DocIDEscaped brings generic brackets of the identifier to documentation id
// form ("List<T>" and "List&lt;T&gt;" become "List{T}"), so identifiers are
// safe to embed into templated and XML output and compare equal regardless of
// the way they were written.
func DocIDEscaped(id string) string {
	return docIDReplacer.Replace(id)
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	unescaper   = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'", "&amp;", "&")
)

// EscapeText escapes XML character data.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeAttr escapes XML attribute value (double quoted).
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// Unescape reverts predefined XML entities.
func Unescape(s string) string {
	return unescaper.Replace(s)
}

const quoted = `(?:"([^"]*)"|'([^']*)')`

var (
	reRef       = regexp.MustCompile(`<(see|seealso)\s+cref\s*=\s*` + quoted + `\s*(?:/>|>((?s:.*?))</(?:see|seealso)\s*>)`)
	reHref      = regexp.MustCompile(`<(?:see|a)\s+href\s*=\s*` + quoted + `\s*(?:/>|>((?s:.*?))</(?:see|a)\s*>)`)
	reLangword  = regexp.MustCompile(`<see\s+langword\s*=\s*` + quoted + `\s*(?:/>|>\s*</see\s*>)`)
	reNameRef   = regexp.MustCompile(`<(paramref|typeparamref)\s+name\s*=\s*` + quoted + `\s*(?:/>|>\s*</(?:paramref|typeparamref)\s*>)`)
	reParaOpen  = regexp.MustCompile(`<(?:p|para)\s*>`)
	reParaClose = regexp.MustCompile(`</(?:p|para)\s*>`)
	reOr        = regexp.MustCompile(`[\r\n\t ]+-[ ]?or[ ]?-[\r\n\t ]+`)
	reCode      = regexp.MustCompile(`(?s)<code(?:\s+(?:language|lang)\s*=\s*` + quoted + `)?\s*>(.*?)</code\s*>`)
	reInline    = regexp.MustCompile(`(?s)<c\s*>(.*?)</c\s*>`)
	reBoundary  = regexp.MustCompile(`[ \t\r\n]*\x00[ \t\r\n\x00]*`)
)

// unquote picks value of the quoted alternative matched at groups i and i+1.
func unquote(m []string, i int) string {
	if len(m[i]) > 0 {
		return m[i]
	}
	return m[i+1]
}

// ToDocsXML brings text to the structural dialect used by Docs XML: "p"
// paragraphs become "para", cross references, reserved words and parameter
// references are written self-closed, primitive type references are resolved
// to framework type ids and "-or-" separators are put on their own lines.
func ToDocsXML(text string) string {
	text = reParaOpen.ReplaceAllString(text, "<para>")
	text = reParaClose.ReplaceAllString(text, "</para>")
	text = reRef.ReplaceAllStringFunc(text, func(s string) string {
		m := reRef.FindStringSubmatch(s)
		tag, cref, inner := m[1], strings.TrimSpace(unquote(m, 2)), m[4]
		if cref == dynamicKeyword {
			return `<see langword="dynamic" />`
		}
		if t, ok := Primitive(cref); ok {
			cref = "T:" + t
		} else {
			cref = DocIDEscaped(cref)
		}
		if len(strings.TrimSpace(inner)) == 0 {
			return "<" + tag + ` cref="` + cref + `" />`
		}
		return "<" + tag + ` cref="` + cref + `">` + inner + "</" + tag + ">"
	})
	text = reLangword.ReplaceAllStringFunc(text, func(s string) string {
		m := reLangword.FindStringSubmatch(s)
		return `<see langword="` + unquote(m, 1) + `" />`
	})
	text = reNameRef.ReplaceAllStringFunc(text, func(s string) string {
		m := reNameRef.FindStringSubmatch(s)
		return "<" + m[1] + ` name="` + unquote(m, 2) + `" />`
	})
	return reOr.ReplaceAllString(text, "\n\n-or-\n\n")
}

// ToDocsException prepares exception text for Docs XML. Exceptions keep
// paragraphs as plain lines, alternatives are separated by "-or-".
func ToDocsException(text string) string {
	text = ToDocsXML(text)
	text = strings.ReplaceAll(text, "<para>", "\n")
	text = strings.ReplaceAll(text, "</para>", "")
	return strings.TrimSpace(reOr.ReplaceAllString(text, "\n\n-or-\n\n"))
}

// Dedent trims text and removes indentation common to all continuation lines.
// Compiled IntelliSense files carry indentation of the enclosing XML element.
func Dedent(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return strings.TrimSpace(text)
	}

	common := -1
	for _, l := range lines[1:] {
		if len(strings.TrimSpace(l)) == 0 {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if common < 0 || n < common {
			common = n
		}
	}
	if common <= 0 {
		return strings.Join(lines, "\n")
	}
	for i := 1; i < len(lines); i++ {
		if len(lines[i]) >= common {
			lines[i] = lines[i][common:]
		} else {
			lines[i] = strings.TrimLeft(lines[i], " \t")
		}
	}
	return strings.Join(lines, "\n")
}
