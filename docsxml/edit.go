package docsxml

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Editing keeps original layout of the file. New elements get whitespace
// mimicking their siblings, text of an element is replaced token by token.

const indentStep = "  "

// indentOf returns indentation of element taken from whitespace preceding it.
func indentOf(el *etree.Element) string {
	parent := el.Parent()
	if parent == nil {
		return ""
	}
	i := el.Index()
	if i <= 0 {
		return ""
	}
	cd, ok := parent.Child[i-1].(*etree.CharData)
	if !ok || cd.IsCData() {
		return ""
	}
	if n := strings.LastIndexByte(cd.Data, '\n'); n >= 0 && len(strings.TrimSpace(cd.Data[n:])) == 0 {
		return cd.Data[n+1:]
	}
	return ""
}

// childIndent returns indentation of element children, either existing or
// derived from element own indentation.
func childIndent(el *etree.Element) string {
	if kids := el.ChildElements(); len(kids) > 0 {
		if ind := indentOf(kids[0]); len(ind) > 0 {
			return ind
		}
	}
	return indentOf(el) + indentStep
}

// parseFragment parses XML content into tokens without a parent.
func parseFragment(text string) ([]etree.Token, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{PreserveCData: true}
	if err := doc.ReadFromString("<fragment>" + text + "</fragment>"); err != nil {
		return nil, fmt.Errorf("malformed markup: %w", err)
	}
	root := doc.Root()
	tokens := make([]etree.Token, len(root.Child))
	copy(tokens, root.Child)
	for _, t := range tokens {
		root.RemoveChild(t)
	}
	return tokens, nil
}

// onlyParas reports if tokens are "para" elements separated by whitespace.
func onlyParas(tokens []etree.Token) bool {
	count := 0
	for _, t := range tokens {
		switch t := t.(type) {
		case *etree.Element:
			if t.Tag != "para" {
				return false
			}
			count++
		case *etree.CharData:
			if t.IsCData() || !t.IsWhitespace() {
				return false
			}
		default:
			return false
		}
	}
	return count > 0
}

func clearChildren(el *etree.Element) {
	for len(el.Child) > 0 {
		el.RemoveChildAt(len(el.Child) - 1)
	}
}

// setContent replaces element content with parsed markup. Content made of
// paragraphs only is laid out one paragraph per line. When markup cannot be
// parsed it is stored as text and error is returned for reporting.
func setContent(el *etree.Element, text string) error {
	tokens, err := parseFragment(text)
	clearChildren(el)
	if err != nil {
		el.AddChild(etree.NewText(text))
		return err
	}
	if onlyParas(tokens) {
		ind := indentOf(el)
		for _, t := range tokens {
			if _, ok := t.(*etree.Element); ok {
				el.AddChild(etree.NewText("\n" + ind + indentStep))
				el.AddChild(t)
			}
		}
		el.AddChild(etree.NewText("\n" + ind))
		return nil
	}
	for _, t := range tokens {
		el.AddChild(t)
	}
	return nil
}

// contentText returns content of the element as markup, trimmed.
func contentText(el *etree.Element) string {
	return strings.TrimSpace(InnerXML(el))
}

// insertAfter inserts new child element after anchor (or as the first
// element child when anchor is nil) reproducing sibling indentation.
func insertAfter(parent, anchor, el *etree.Element) {
	kids := parent.ChildElements()
	if len(kids) == 0 {
		ind := indentOf(parent)
		clearChildren(parent)
		parent.AddChild(etree.NewText("\n" + ind + indentStep))
		parent.AddChild(el)
		parent.AddChild(etree.NewText("\n" + ind))
		return
	}
	ind := childIndent(parent)
	if anchor == nil {
		i := kids[0].Index()
		parent.InsertChildAt(i, el)
		parent.InsertChildAt(i+1, etree.NewText("\n"+ind))
		return
	}
	i := anchor.Index() + 1
	parent.InsertChildAt(i, etree.NewText("\n"+ind))
	parent.InsertChildAt(i+1, el)
}
