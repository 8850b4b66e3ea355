// Package tripleslash ports documentation from Docs XML files into triple
// slash comments of C# sources.
package tripleslash

import (
	"strings"

	"docsync/apidoc"
	"docsync/common"
	"docsync/config"
	"docsync/markup"
	"docsync/syntax"
)

// Options select fields fragment text is used for. Existing documentation
// is never dropped regardless of options.
type Options struct {
	Fields      config.FieldsConfig
	SkipRemarks bool
}

// applicable holds fields of a declaration which may receive fragment text.
type applicable struct {
	summary, value, typeParams, params, returns, exceptions, remarks bool
}

func applicableFields(d syntax.Decl, opts Options) applicable {
	f := opts.Fields
	var a applicable
	if d.Kind.IsType() {
		a.summary, a.remarks = f.TypeSummaries, f.TypeRemarks
		a.params, a.typeParams = f.TypeParams, f.TypeTypeParams
	} else {
		a.summary, a.remarks = f.MemberSummaries, f.MemberRemarks
		a.params, a.typeParams = f.MemberParams, f.MemberTypeParams
		a.exceptions = f.ExceptionsNew
	}
	a.params = a.params && len(d.Params) > 0
	a.typeParams = a.typeParams && len(d.TypeParams) > 0

	switch d.Kind {
	case syntax.KindProperty, syntax.KindIndexer:
		a.value = f.MemberProperties
	case syntax.KindMethod, syntax.KindOperator, syntax.KindConversion, syntax.KindDelegate:
		a.returns = f.MemberReturns && apidoc.IsReturning(d.ReturnType)
	case syntax.KindEnummember:
		a.remarks = false
	}
	if opts.SkipRemarks {
		a.remarks = false
	}
	return a
}

// builder assembles new comment out of existing elements and fragment text.
type builder struct {
	existing []syntax.DocElement
	used     []bool
	out      []syntax.DocElement
	modified []common.FieldKind
}

func sameAttr(kind common.FieldKind, a, b string) bool {
	if kind == common.FieldKindException {
		return apidoc.SameCref(a, b)
	}
	return a == b
}

func attrName(kind common.FieldKind) string {
	switch kind {
	case common.FieldKindParam, common.FieldKindTypeparam:
		return "name"
	case common.FieldKindException:
		return "cref"
	}
	return ""
}

// take returns first unused existing element for the field.
func (b *builder) take(kind common.FieldKind, value string) (syntax.DocElement, bool) {
	attr := attrName(kind)
	for i, e := range b.existing {
		if b.used[i] || e.Tag != kind.Tag() {
			continue
		}
		if len(attr) > 0 {
			if v, ok := e.Attr(attr); !ok || !sameAttr(kind, v, value) {
				continue
			}
		}
		b.used[i] = true
		return e, true
	}
	return syntax.DocElement{}, false
}

// field emits fragment text when it is allowed and not empty, existing
// element otherwise. Fields with neither are omitted.
func (b *builder) field(kind common.FieldKind, value, text string, allowed bool) {
	old, found := b.take(kind, value)
	if !allowed || markup.IsDocsEmpty(text) {
		if found {
			b.out = append(b.out, old)
		}
		return
	}
	if found && strings.TrimSpace(old.Inner) == text {
		b.out = append(b.out, old)
		return
	}
	var attrs []syntax.Attr
	if attr := attrName(kind); len(attr) > 0 {
		attrs = append(attrs, syntax.Attr{Name: attr, Value: value})
	}
	b.out = append(b.out, syntax.NewElement(kind.Tag(), text, attrs...))
	b.changed(kind)
}

func (b *builder) changed(kind common.FieldKind) {
	if n := len(b.modified); n == 0 || b.modified[n-1] != kind {
		b.modified = append(b.modified, kind)
	}
}

// rest emits remaining existing elements of the field in original order.
func (b *builder) rest(kind common.FieldKind) {
	for i, e := range b.existing {
		if !b.used[i] && e.Tag == kind.Tag() {
			b.used[i] = true
			b.out = append(b.out, e)
		}
	}
}

// Apply merges fragment into documentation comment of the declaration and
// returns updated declaration and whether comment changed. Fields are
// emitted in fixed order: summary, value, typeparam, param, returns,
// exception, remarks. Elements comment had which are not managed here
// (example, seealso, inheritdoc...) follow them.
func Apply(d syntax.Decl, f *apidoc.Fragment, opts Options) (syntax.Decl, bool) {
	nd, modified := merge(d, f, opts)
	return nd, len(modified) > 0
}

// merge does the work of Apply reporting fields changed.
func merge(d syntax.Decl, f *apidoc.Fragment, opts Options) (syntax.Decl, []common.FieldKind) {
	if !d.IsPublic() || f == nil || d.Doc != nil && d.Doc.Err != nil {
		return d, nil
	}
	b := &builder{}
	if d.Doc != nil {
		b.existing = d.Doc.Elements
		b.used = make([]bool, len(b.existing))
	}
	a := applicableFields(d, opts)

	b.field(common.FieldKindSummary, "", f.Summary(), a.summary)
	b.field(common.FieldKindValue, "", f.Value(), a.value)
	for _, name := range d.TypeParams {
		text, _ := f.TypeParam(name)
		b.field(common.FieldKindTypeparam, name, text, a.typeParams)
	}
	b.rest(common.FieldKindTypeparam)
	for _, p := range d.Params {
		text, _ := f.Param(p.Name)
		b.field(common.FieldKindParam, p.Name, text, a.params)
	}
	b.rest(common.FieldKindParam)
	b.field(common.FieldKindReturns, "", f.Returns(), a.returns)

	// existing exceptions stay as they are
	b.rest(common.FieldKindException)
	if a.exceptions {
		for _, ex := range f.Exceptions() {
			if markup.IsDocsEmpty(ex.Text) || b.documented(ex.Cref) {
				continue
			}
			b.out = append(b.out, syntax.NewElement("exception", ex.Text, syntax.Attr{Name: "cref", Value: ex.Cref}))
			b.changed(common.FieldKindException)
		}
	}
	b.field(common.FieldKindRemarks, "", f.Remarks(), a.remarks)

	for i, e := range b.existing {
		if !b.used[i] {
			b.out = append(b.out, e)
		}
	}

	if len(b.modified) == 0 {
		return d, nil
	}
	doc := syntax.NewDocComment(b.out)
	if doc.Same(d.Doc, d.Indent) {
		return d, nil
	}
	return d.WithDoc(doc), b.modified
}

func (b *builder) documented(cref string) bool {
	for _, e := range b.out {
		if v, ok := e.Attr("cref"); ok && e.Tag == "exception" && apidoc.SameCref(v, cref) {
			return true
		}
	}
	return false
}

// missing lists fields of declaration still lacking documentation.
func missing(d syntax.Decl) []common.FieldKind {
	var res []common.FieldKind
	has := func(kind common.FieldKind, value string) bool {
		if d.Doc == nil {
			return false
		}
		e, ok := d.Doc.Find(kind.Tag(), attrName(kind), value)
		return ok && !markup.IsDocsEmpty(e.Inner)
	}
	if !has(common.FieldKindSummary, "") {
		res = append(res, common.FieldKindSummary)
	}
	if (d.Kind == syntax.KindProperty || d.Kind == syntax.KindIndexer) && !has(common.FieldKindValue, "") {
		res = append(res, common.FieldKindValue)
	}
	for _, name := range d.TypeParams {
		if !has(common.FieldKindTypeparam, name) {
			res = append(res, common.FieldKindTypeparam)
			break
		}
	}
	for _, p := range d.Params {
		if !has(common.FieldKindParam, p.Name) {
			res = append(res, common.FieldKindParam)
			break
		}
	}
	switch d.Kind {
	case syntax.KindMethod, syntax.KindOperator, syntax.KindConversion, syntax.KindDelegate:
		if apidoc.IsReturning(d.ReturnType) && !has(common.FieldKindReturns, "") {
			res = append(res, common.FieldKindReturns)
		}
	}
	return res
}
