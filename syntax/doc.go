package syntax

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"docsync/markup"
)

// Attr is an attribute of documentation element.
type Attr struct {
	Name  string
	Value string
}

// DocElement is a top level element of documentation comment.
type DocElement struct {
	Tag   string
	Attrs []Attr
	// Inner is the verbatim source between start and end tags with comment
	// markers removed.
	Inner string

	// verbatim tags of parsed elements, empty for created ones
	open, close string
}

// NewElement creates documentation element.
func NewElement(tag, inner string, attrs ...Attr) DocElement {
	return DocElement{Tag: tag, Attrs: attrs, Inner: inner}
}

// Attr returns value of the attribute.
func (e DocElement) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e DocElement) startTag() string {
	var b strings.Builder
	b.WriteString("<" + e.Tag)
	for _, a := range e.Attrs {
		b.WriteString(" " + a.Name + `="` + markup.EscapeAttr(a.Value) + `"`)
	}
	b.WriteString(">")
	return b.String()
}

// rows lays element out. Single line content stays on the line with its
// tags, anything longer gets tags on their own lines.
func (e DocElement) rows() []string {
	open, close := e.open, e.close
	if len(open) == 0 {
		open, close = e.startTag(), "</"+e.Tag+">"
	}
	if !strings.Contains(e.Inner, "\n") {
		return []string{open + e.Inner + close}
	}
	lines := strings.Split(e.Inner, "\n")
	if len(strings.TrimSpace(lines[0])) == 0 {
		lines = lines[1:]
	}
	if n := len(lines); n > 0 && len(strings.TrimSpace(lines[n-1])) == 0 {
		lines = lines[:n-1]
	}
	rows := make([]string, 0, len(lines)+2)
	rows = append(rows, open)
	rows = append(rows, lines...)
	return append(rows, close)
}

// DocComment is a documentation comment ("///" block).
type DocComment struct {
	Elements []DocElement
	// Err is set when comment is not well formed, Elements are empty then.
	Err error

	source []string
}

// NewDocComment creates comment out of elements.
func NewDocComment(elements []DocElement) *DocComment {
	return &DocComment{Elements: elements}
}

// Source returns lines comment was parsed from, nil for created comments.
func (c *DocComment) Source() []string { return c.source }

// Find returns first element with the tag. When attr is not empty its value
// must match as well.
func (c *DocComment) Find(tag, attr, value string) (DocElement, bool) {
	for _, e := range c.Elements {
		if e.Tag != tag {
			continue
		}
		if len(attr) == 0 {
			return e, true
		}
		if v, ok := e.Attr(attr); ok && v == value {
			return e, true
		}
	}
	return DocElement{}, false
}

// Render produces comment lines (no line terminators) prefixed with indent.
func (c *DocComment) Render(indent string) []string {
	var out []string
	for _, e := range c.Elements {
		for _, row := range e.rows() {
			for _, line := range strings.Split(row, "\n") {
				if len(line) == 0 {
					out = append(out, indent+"///")
					continue
				}
				out = append(out, indent+"/// "+line)
			}
		}
	}
	return out
}

// Same reports whether comment renders exactly like the source of old
// comment. Nil old comment is the same as a comment without elements.
func (c *DocComment) Same(old *DocComment, indent string) bool {
	if old == nil {
		return len(c.Elements) == 0
	}
	return sameLines(c.Render(indent), old.source)
}

// sameLines compares rendered comment with source lines ignoring carriage
// returns.
func sameLines(rendered, source []string) bool {
	if len(rendered) != len(source) {
		return false
	}
	for i := range rendered {
		if rendered[i] != strings.TrimSuffix(source[i], "\r") {
			return false
		}
	}
	return true
}

func isDocLine(line string) bool {
	line = strings.TrimLeft(line, " \t")
	return strings.HasPrefix(line, "///") && !strings.HasPrefix(line, "////")
}

// parseDoc builds comment out of "///" lines.
func parseDoc(lines []string) *DocComment {
	var b strings.Builder
	for i, l := range lines {
		l = strings.TrimLeft(strings.TrimSuffix(l, "\r"), " \t")
		l = strings.TrimPrefix(strings.TrimPrefix(l, "///"), " ")
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l)
	}
	c := &DocComment{source: lines}
	c.Elements, c.Err = parseElements(b.String())
	return c
}

var errNotClosed = errors.New("documentation element is not closed")

func parseElements(text string) ([]DocElement, error) {
	src := "<doc>" + text + "</doc>"
	d := xml.NewDecoder(strings.NewReader(src))
	d.Entity = xml.HTMLEntity

	var (
		elements        []DocElement
		cur             DocElement
		depth           int
		openAt, innerAt int
	)
	for {
		off := int(d.InputOffset())
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth != 2 {
				continue
			}
			openAt, innerAt = off, int(d.InputOffset())
			cur = DocElement{Tag: t.Name.Local}
			for _, a := range t.Attr {
				cur.Attrs = append(cur.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
		case xml.EndElement:
			depth--
			if depth != 1 {
				continue
			}
			cur.open = src[openAt:innerAt]
			if !strings.HasSuffix(cur.open, "/>") {
				cur.Inner = src[innerAt:off]
				cur.close = src[off:int(d.InputOffset())]
			}
			elements = append(elements, cur)
		}
	}
	if depth != 0 {
		return nil, errNotClosed
	}
	return elements, nil
}
