package docsxml

import (
	"github.com/beevik/etree"

	"docsync/apidoc"
	"docsync/markup"
)

// rank gives canonical position of documentation elements inside of Docs
// element, new elements are inserted accordingly.
var rank = map[string]int{
	"typeparam": 0,
	"param":     1,
	"summary":   2,
	"returns":   3,
	"value":     4,
	"remarks":   5,
	"exception": 6,
}

const rankOther = 7

func rankOf(tag string) int {
	if r, ok := rank[tag]; ok {
		return r
	}
	return rankOther
}

// Docs gives access to documentation elements of a type or a member. Every
// effective modification marks owning type changed.
type Docs struct {
	el    *etree.Element
	owner *Type
}

func (d *Docs) markChanged() {
	if d.owner != nil {
		d.owner.changed = true
	}
}

func (d *Docs) find(tag, attr, value string) *etree.Element {
	for _, el := range d.el.SelectElements(tag) {
		if len(attr) == 0 {
			return el
		}
		if v := el.SelectAttrValue(attr, ""); v == value || (tag == "exception" && apidoc.SameCref(v, value)) {
			return el
		}
	}
	return nil
}

func (d *Docs) text(tag, attr, value string) (string, bool) {
	el := d.find(tag, attr, value)
	if el == nil {
		return "", false
	}
	return contentText(el), true
}

// create inserts new documentation element after the last element which
// canonically precedes it.
func (d *Docs) create(tag, attr, value string) *etree.Element {
	el := etree.NewElement(tag)
	if len(attr) > 0 {
		el.CreateAttr(attr, value)
	}
	r := rankOf(tag)
	var anchor *etree.Element
	for _, kid := range d.el.ChildElements() {
		if rankOf(kid.Tag) <= r {
			anchor = kid
		}
	}
	insertAfter(d.el, anchor, el)
	return el
}

// set replaces content of the element (creating it when necessary and
// allowed). Returns true when content actually changed.
func (d *Docs) set(tag, attr, value, text string, create bool) (bool, error) {
	el := d.find(tag, attr, value)
	if el == nil {
		if !create {
			return false, nil
		}
		el = d.create(tag, attr, value)
	} else if contentText(el) == text {
		return false, nil
	}
	d.markChanged()
	return true, setContent(el, text)
}

func (d *Docs) content(tag string) string {
	s, _ := d.text(tag, "", "")
	return s
}

func (d *Docs) Summary() string { return d.content("summary") }
func (d *Docs) Remarks() string { return d.content("remarks") }
func (d *Docs) Returns() string { return d.content("returns") }
func (d *Docs) Value() string   { return d.content("value") }

func (d *Docs) Param(name string) (string, bool)     { return d.text("param", "name", name) }
func (d *Docs) TypeParam(name string) (string, bool) { return d.text("typeparam", "name", name) }

// SetSummary and friends replace content with structural markup.
func (d *Docs) SetSummary(text string) (bool, error) { return d.set("summary", "", "", text, true) }
func (d *Docs) SetReturns(text string) (bool, error) { return d.set("returns", "", "", text, true) }
func (d *Docs) SetValue(text string) (bool, error)   { return d.set("value", "", "", text, true) }

// SetParam sets description of a parameter, element is created when
// "create" is set (parameter is declared but not documented yet).
func (d *Docs) SetParam(name, text string, create bool) (bool, error) {
	return d.set("param", "name", name, text, create)
}

// SetTypeParam sets description of a type parameter.
func (d *Docs) SetTypeParam(name, text string, create bool) (bool, error) {
	return d.set("typeparam", "name", name, text, create)
}

// RemarksMarkdown returns markdown of the remarks if they are in markdown form.
func (d *Docs) RemarksMarkdown() (string, bool) {
	return markup.ExtractMarkdown(d.Remarks())
}

// SetRemarks replaces remarks with markdown wrapped the way Docs repository
// expects it.
func (d *Docs) SetRemarks(md string) bool {
	if cur, ok := d.RemarksMarkdown(); ok && cur == md {
		return false
	}
	el := d.find("remarks", "", "")
	if el == nil {
		el = d.create("remarks", "", "")
	}
	d.markChanged()

	ind := indentOf(el)
	format := etree.NewElement("format")
	format.CreateAttr("type", "text/markdown")
	format.AddChild(etree.NewCData(markup.RemarksMarkdown(md, ind+indentStep)))

	clearChildren(el)
	el.AddChild(etree.NewText("\n" + ind + indentStep))
	el.AddChild(format)
	el.AddChild(etree.NewText("\n" + ind))
	return true
}

// Exceptions returns exceptions in document order.
func (d *Docs) Exceptions() []apidoc.Exception {
	var list []apidoc.Exception
	for _, el := range d.el.SelectElements("exception") {
		list = append(list, apidoc.Exception{Cref: el.SelectAttrValue("cref", ""), Text: contentText(el)})
	}
	return list
}

// Exception returns text of exception with the same cref.
func (d *Docs) Exception(cref string) (string, bool) { return d.text("exception", "cref", cref) }

// SetException overwrites text of existing exception.
func (d *Docs) SetException(cref, text string) (bool, error) {
	return d.set("exception", "cref", cref, text, false)
}

// AddException appends new exception right after the last existing one so
// exceptions stay together. Nothing is done when cref is already documented.
func (d *Docs) AddException(cref, text string) (bool, error) {
	if d.find("exception", "cref", cref) != nil {
		return false, nil
	}
	return d.set("exception", "cref", cref, text, true)
}
