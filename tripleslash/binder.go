package tripleslash

import (
	"strings"

	"go.uber.org/zap"

	"docsync/apidoc"
	"docsync/docsxml"
	"docsync/markup"
	"docsync/syntax"
)

// Binder finds fragment documenting source declaration.
type Binder struct {
	store    *apidoc.Store
	resolver Resolver
}

func NewBinder(store *apidoc.Store, resolver Resolver) *Binder {
	return &Binder{store: store, resolver: resolver}
}

// Bind returns documentation id and fragment of the declaration. Non public
// declarations are never resolved.
func (b *Binder) Bind(d syntax.Decl) (string, *apidoc.Fragment, bool) {
	if !d.IsPublic() {
		return "", nil, false
	}
	id, ok := b.resolver.Resolve(d)
	if !ok {
		return "", nil, false
	}
	f, ok := b.store.Get(id)
	if !ok {
		return id, nil, false
	}
	return id, f, true
}

// LoadStore fills store with fragments made of Docs types and members,
// converted to triple slash dialect. Returns number of fragments added.
func LoadStore(docs *docsxml.Container, store *apidoc.Store, log *zap.Logger) int {
	var known map[string]bool
	resolve := func(uid string) (string, bool) {
		if known == nil {
			known = make(map[string]bool)
			for _, t := range docs.Types() {
				known[t.DocID()] = true
				for _, m := range t.Members() {
					known[m.DocID()] = true
				}
			}
		}
		for _, prefix := range []string{"T:", "M:", "P:", "F:", "E:"} {
			if known[prefix+uid] {
				return prefix + uid, true
			}
		}
		return "", false
	}

	added := 0
	add := func(f *apidoc.Fragment) {
		if _, ok := store.Add(f); !ok {
			log.Warn("Duplicate documentation id, first one is used", zap.String("id", f.ID()), zap.String("file", f.Source()))
			return
		}
		added++
	}
	for _, t := range docs.Types() {
		add(fragment(t.DocID(), t.FilePath(), &t.Docs, t.ReturnType(), t.ParamNames(), t.TypeParamNames(), resolve))
		for _, m := range t.Members() {
			add(fragment(m.DocID(), t.FilePath(), &m.Docs, m.ReturnType(), m.ParamNames(), m.TypeParamNames(), resolve))
		}
	}
	return added
}

func fragment(id, source string, d *docsxml.Docs, returnType string, params, typeParams []string, resolve func(string) (string, bool)) *apidoc.Fragment {
	f := apidoc.NewFragment(id, source)
	keep := func(set func(string) bool, text string) {
		if text = markup.Dedent(text); !markup.IsDocsEmpty(text) {
			set(text)
		}
	}
	f.SetReturnType(returnType)
	keep(f.SetSummary, d.Summary())
	if f.ReturnsApplicable() {
		keep(f.SetReturns, d.Returns())
	}
	keep(f.SetValue, d.Value())
	if md, ok := d.RemarksMarkdown(); ok {
		keep(f.SetRemarks, markup.FromMarkdown(md, markup.Names{Params: params, TypeParams: typeParams, Resolve: resolve}))
	} else {
		keep(f.SetRemarks, d.Remarks())
	}
	for _, name := range typeParams {
		if text, ok := d.TypeParam(name); ok {
			keep(func(s string) bool { return f.SetTypeParam(name, s) }, text)
		}
	}
	for _, name := range params {
		if text, ok := d.Param(name); ok {
			keep(func(s string) bool { return f.SetParam(name, s) }, text)
		}
	}
	for _, ex := range d.Exceptions() {
		if text := markup.Dedent(ex.Text); !markup.IsDocsEmpty(text) {
			f.AddException(strings.TrimSpace(ex.Cref), text)
		}
	}
	f.ResetChanged()
	return f
}
