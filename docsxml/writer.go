package docsxml

import (
	"strings"

	"github.com/beevik/etree"
)

// Serialization follows conventions of .NET XDocument so files touched by
// porting produce minimal diffs: empty elements are written as "<tag />",
// whitespace is never reformatted and CDATA sections are kept.

var (
	textReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\n", "&#xA;", "\r", "&#xD;", "\t", "&#x9;")
)

func writeTokens(b *strings.Builder, tokens []etree.Token) {
	for _, t := range tokens {
		writeToken(b, t)
	}
}

func writeToken(b *strings.Builder, t etree.Token) {
	switch t := t.(type) {
	case *etree.Element:
		b.WriteByte('<')
		b.WriteString(t.FullTag())
		for _, a := range t.Attr {
			b.WriteByte(' ')
			b.WriteString(a.FullKey())
			b.WriteString(`="`)
			b.WriteString(attrReplacer.Replace(a.Value))
			b.WriteByte('"')
		}
		if len(t.Child) == 0 {
			b.WriteString(" />")
			return
		}
		b.WriteByte('>')
		writeTokens(b, t.Child)
		b.WriteString("</")
		b.WriteString(t.FullTag())
		b.WriteByte('>')
	case *etree.CharData:
		if t.IsCData() {
			b.WriteString("<![CDATA[")
			// terminator cannot appear inside of a section, split it
			b.WriteString(strings.ReplaceAll(t.Data, "]]>", "]]]]><![CDATA[>"))
			b.WriteString("]]>")
			return
		}
		b.WriteString(textReplacer.Replace(t.Data))
	case *etree.Comment:
		b.WriteString("<!--")
		b.WriteString(t.Data)
		b.WriteString("-->")
	case *etree.Directive:
		b.WriteString("<!")
		b.WriteString(t.Data)
		b.WriteByte('>')
	case *etree.ProcInst:
		b.WriteString("<?")
		b.WriteString(t.Target)
		if len(t.Inst) > 0 {
			b.WriteByte(' ')
			b.WriteString(t.Inst)
		}
		b.WriteString("?>")
	}
}

// InnerXML returns serialized content of the element the way it would be
// written to file.
func InnerXML(el *etree.Element) string {
	var b strings.Builder
	writeTokens(&b, el.Child)
	return b.String()
}
