package todocs

import (
	"docsync/apidoc"
	"docsync/docsxml"
	"docsync/markup"
)

// Fragments used for porting are kept in Docs dialect: text is structural
// markup, remarks are markdown.

// fromIntelliSense converts IntelliSense fragment. Placeholders are dropped
// as well as empty text, so they never overwrite real documentation.
func fromIntelliSense(f *apidoc.Fragment) *apidoc.Fragment {
	res := apidoc.NewFragment(f.ID(), f.Source())
	convert := func(set func(string) bool, text string, conv func(string) string) {
		if !markup.IsDocsEmpty(text) {
			set(conv(text))
		}
	}
	convert(res.SetSummary, f.Summary(), markup.ToDocsXML)
	convert(res.SetRemarks, f.Remarks(), markup.ToMarkdown)
	convert(res.SetReturns, f.Returns(), markup.ToDocsXML)
	convert(res.SetValue, f.Value(), markup.ToDocsXML)
	for _, tp := range f.TypeParams() {
		if !markup.IsDocsEmpty(tp.Text) {
			res.SetTypeParam(tp.Name, markup.ToDocsXML(tp.Text))
		}
	}
	for _, p := range f.Params() {
		if !markup.IsDocsEmpty(p.Text) {
			res.SetParam(p.Name, markup.ToDocsXML(p.Text))
		}
	}
	for _, ex := range f.Exceptions() {
		if !markup.IsDocsEmpty(ex.Text) {
			res.AddException(ex.Cref, markup.ToDocsException(ex.Text))
		}
	}
	res.ResetChanged()
	return res
}

// fromDocs takes documentation of Docs member, used for interface members
// IntelliSense files do not describe.
func fromDocs(m *docsxml.Member) *apidoc.Fragment {
	res := apidoc.NewFragment(m.DocID(), m.Type().FilePath())
	keep := func(set func(string) bool, text string) {
		if !markup.IsDocsEmpty(text) {
			set(text)
		}
	}
	keep(res.SetSummary, m.Summary())
	if md, ok := m.RemarksMarkdown(); ok {
		keep(res.SetRemarks, md)
	} else if !markup.IsDocsEmpty(m.Remarks()) {
		res.SetRemarks(markup.ToMarkdown(m.Remarks()))
	}
	keep(res.SetReturns, m.Returns())
	keep(res.SetValue, m.Value())
	for _, name := range m.TypeParamNames() {
		if text, ok := m.TypeParam(name); ok && !markup.IsDocsEmpty(text) {
			res.SetTypeParam(name, text)
		}
	}
	for _, name := range m.ParamNames() {
		if text, ok := m.Param(name); ok && !markup.IsDocsEmpty(text) {
			res.SetParam(name, text)
		}
	}
	for _, ex := range m.Exceptions() {
		if !markup.IsDocsEmpty(ex.Text) {
			res.AddException(ex.Cref, ex.Text)
		}
	}
	res.ResetChanged()
	return res
}

// fill copies into dst fields it does not have yet.
func fill(dst, src *apidoc.Fragment, remarks bool) {
	missing := func(set func(string) bool, have, text string) {
		if len(have) == 0 && len(text) > 0 {
			set(text)
		}
	}
	missing(dst.SetSummary, dst.Summary(), src.Summary())
	if remarks {
		missing(dst.SetRemarks, dst.Remarks(), src.Remarks())
	}
	missing(dst.SetReturns, dst.Returns(), src.Returns())
	missing(dst.SetValue, dst.Value(), src.Value())
	for _, tp := range src.TypeParams() {
		if _, ok := dst.TypeParam(tp.Name); !ok {
			dst.SetTypeParam(tp.Name, tp.Text)
		}
	}
	for _, p := range src.Params() {
		if _, ok := dst.Param(p.Name); !ok {
			dst.SetParam(p.Name, p.Text)
		}
	}
	for _, ex := range src.Exceptions() {
		dst.AddException(ex.Cref, ex.Text)
	}
}
