// Package docsxml reads, navigates, edits and writes Docs XML files
// (dotnet-api-docs layout: one file per type, members inside) and provides
// loading of any XML document with encoding detection.
package docsxml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
)

// Document is parsed XML file together with what is necessary to write it
// back the same way: encoding, byte order mark and line terminators.
type Document struct {
	path string
	doc  *etree.Document
	enc  srcEncoding
	crlf bool
}

// ReadFile loads XML document from file.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}

// Parse loads XML document from memory, path is used for reporting and saving.
func Parse(data []byte, path string) (*Document, error) {
	enc := detectUTF(data)

	decoded, err := io.ReadAll(selectReader(bytes.NewReader(data), enc))
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s content: %w", enc, err)
	}

	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charsetReader(enc),
		PreserveCData: true,
		Permissive:    true,
	}
	if err := doc.ReadFromBytes(decoded); err != nil {
		return nil, fmt.Errorf("unable to parse XML: %w", err)
	}
	return &Document{
		path: path,
		doc:  doc,
		enc:  enc,
		crlf: bytes.Contains(decoded, []byte("\r\n")),
	}, nil
}

func (d *Document) Path() string         { return d.path }
func (d *Document) Root() *etree.Element { return d.doc.Root() }

// Bytes serializes document in its original encoding. File always ends with
// line terminator.
func (d *Document) Bytes() ([]byte, error) {
	var b strings.Builder
	writeTokens(&b, d.doc.Child)

	out := b.String()
	if d.crlf {
		out = strings.ReplaceAll(out, "\n", "\r\n")
	}
	eol := "\n"
	if d.crlf {
		eol = "\r\n"
	}
	if !strings.HasSuffix(out, eol) {
		out += eol
	}
	return encode([]byte(out), d.enc)
}

// Save writes document back to its file keeping file permissions.
func (d *Document) Save() error {
	if len(d.path) == 0 {
		return errors.New("document has no file path")
	}
	data, err := d.Bytes()
	if err != nil {
		return fmt.Errorf("unable to serialize %s: %w", d.path, err)
	}
	mode := os.FileMode(0644)
	if fi, err := os.Stat(d.path); err == nil {
		mode = fi.Mode().Perm()
	}
	return os.WriteFile(d.path, data, mode)
}
