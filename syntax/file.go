package syntax

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

var errEncoding = errors.New("UTF-16 source files are not supported")

// File is parsed C# source file. It is never modified, Rewrite produces new
// file value.
type File struct {
	path  string
	bom   bool
	crlf  bool
	lines []string // split on "\n", carriage returns are kept
	decls []Decl
}

// Parse scans source and finds declarations with their documentation
// comments.
func Parse(path string, data []byte) (*File, error) {
	f := &File{path: path}
	switch {
	case bytes.HasPrefix(data, utf8BOM):
		f.bom, data = true, data[len(utf8BOM):]
	case bytes.HasPrefix(data, utf16LEBOM), bytes.HasPrefix(data, utf16BEBOM):
		return nil, fmt.Errorf("%s: %w", path, errEncoding)
	}

	src := string(data)
	if i := strings.IndexByte(src, '\n'); i > 0 && src[i-1] == '\r' {
		f.crlf = true
	}
	f.lines = strings.Split(src, "\n")

	decls, err := newScanner(src, f.lines).scan()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i := range decls {
		f.attachDoc(&decls[i])
	}
	f.decls = decls
	return f, nil
}

// attachDoc finds documentation comment right above declaration.
func (f *File) attachDoc(d *Decl) {
	start := d.line
	for start > 0 && isDocLine(f.lines[start-1]) {
		start--
	}
	d.docStart = start
	if start < d.line {
		d.Doc = parseDoc(slices.Clone(f.lines[start:d.line]))
	}
}

func (f *File) Path() string { return f.path }

// EOL returns line terminator used by the file.
func (f *File) EOL() string {
	if f.crlf {
		return "\r\n"
	}
	return "\n"
}

// Decls returns declarations in source order.
func (f *File) Decls() []Decl {
	return slices.Clone(f.decls)
}

// Bytes returns file content, byte order mark included.
func (f *File) Bytes() []byte {
	var b bytes.Buffer
	if f.bom {
		b.Write(utf8BOM)
	}
	b.WriteString(strings.Join(f.lines, "\n"))
	return b.Bytes()
}

// Rewrite returns file with documentation comments of declarations replaced
// by comments of decls (declarations of this file, possibly modified). Only
// comments which render differently are touched. When nothing changes the
// same file is returned.
func (f *File) Rewrite(decls []Decl) (*File, bool) {
	byLine := make(map[int]*DocComment, len(decls))
	for _, d := range decls {
		if d.Doc != nil && d.Doc.Err == nil {
			byLine[d.line] = d.Doc
		}
	}

	nf := &File{path: f.path, bom: f.bom, crlf: f.crlf}
	cr := ""
	if f.crlf {
		cr = "\r"
	}
	last, changed := 0, false
	for _, d := range f.decls {
		doc, ok := byLine[d.line]
		if !ok || doc == d.Doc {
			nf.decls = append(nf.decls, f.shift(d, len(nf.lines)-last))
			continue
		}
		var old []string
		if d.Doc != nil {
			old = d.Doc.source
		}
		rows := doc.Render(d.Indent)
		if sameLines(rows, old) {
			nf.decls = append(nf.decls, f.shift(d, len(nf.lines)-last))
			continue
		}

		changed = true
		nf.lines = append(nf.lines, f.lines[last:d.docStart]...)
		start := len(nf.lines)
		for _, r := range rows {
			nf.lines = append(nf.lines, r+cr)
		}
		last = d.line

		d.docStart, d.line = start, len(nf.lines)
		d.Doc = &DocComment{Elements: doc.Elements, source: slices.Clone(nf.lines[start:d.line])}
		nf.decls = append(nf.decls, d)
	}
	if !changed {
		return f, false
	}
	nf.lines = append(nf.lines, f.lines[last:]...)
	return nf, true
}

// shift moves declaration by delta lines.
func (f *File) shift(d Decl, delta int) Decl {
	d.line += delta
	d.docStart += delta
	return d
}
