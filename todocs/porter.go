// Package todocs ports documentation from compiled IntelliSense XML files
// into Docs XML files.
package todocs

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"docsync/apidoc"
	"docsync/common"
	"docsync/config"
	"docsync/docsxml"
	"docsync/intellisense"
	"docsync/markup"
	"docsync/summary"
)

// Porter merges IntelliSense fragments into Docs types.
type Porter struct {
	cfg          *config.Config
	docsDirs     []string
	intelliSense []string
	rpt          *config.Report
	sum          *summary.Summary
	log          *zap.Logger

	store *apidoc.Store
	docs  *docsxml.Container
}

// New creates porter. Report could be nil.
func New(cfg *config.Config, docsDirs, intelliSense []string, rpt *config.Report, sum *summary.Summary, log *zap.Logger) *Porter {
	return &Porter{
		cfg:          cfg,
		docsDirs:     docsDirs,
		intelliSense: intelliSense,
		rpt:          rpt,
		sum:          sum,
		log:          log,
		store:        apidoc.NewStore(),
		docs:         docsxml.NewContainer(&cfg.Filters, cfg.Porting.SkipInterfaceImplementations, log.Named("docs")),
	}
}

// Start loads everything, ports and saves changed Docs files.
func (p *Porter) Start(ctx context.Context) error {
	if err := p.Load(ctx); err != nil {
		return err
	}
	p.Port()

	saved, err := p.docs.Save(p.cfg.Porting.Save, p.rpt)
	p.sum.Saved(saved)
	if err != nil {
		return fmt.Errorf("unable to save some of Docs files: %w", err)
	}
	return nil
}

// Load reads IntelliSense files and then Docs files.
func (p *Porter) Load(ctx context.Context) error {
	l := intellisense.NewLoader(p.store, p.cfg.IntelliSense.ForbiddenSubdirectories, p.log.Named("intellisense"))
	if err := l.Load(ctx, p.intelliSense); err != nil {
		return fmt.Errorf("unable to load IntelliSense files: %w", err)
	}
	if p.store.Len() == 0 {
		p.log.Warn("No IntelliSense documentation found", zap.Strings("locations", p.intelliSense))
	} else {
		p.log.Info("IntelliSense loaded", zap.Int("files", l.Files()), zap.Int("apis", p.store.Len()))
	}
	if err := p.docs.Collect(ctx, p.docsDirs); err != nil {
		return fmt.Errorf("unable to load Docs files: %w", err)
	}
	return nil
}

// Port merges documentation into every loaded type and its members.
func (p *Porter) Port() {
	for _, t := range p.docs.Types() {
		p.PortType(t)
		for _, m := range t.Members() {
			p.PortMember(m)
		}
	}
	changed := p.docs.Changed()
	p.log.Info("Porting done", zap.Int("changed", len(changed)), zap.Int("modified apis", p.sum.ModifiedCount()))
}

// scope describes fields of a destination porting may touch.
type scope struct {
	summary, remarks, returns, value, exceptions bool

	params, typeParams         bool
	paramNames, typeParamNames []string
	returnType                 string
}

// PortType ports type level documentation.
func (p *Porter) PortType(t *docsxml.Type) {
	fields := p.cfg.Porting.Fields
	sc := scope{
		summary:        fields.TypeSummaries,
		remarks:        fields.TypeRemarks,
		returns:        fields.MemberReturns,
		params:         fields.TypeParams,
		typeParams:     fields.TypeTypeParams,
		paramNames:     t.ParamNames(),
		typeParamNames: t.TypeParamNames(),
		returnType:     t.ReturnType(),
	}

	id := t.DocID()
	if f, ok := p.store.Get(id); ok {
		p.port(&t.Docs, id, fromIntelliSense(f), sc)
	}
	p.undocumented(&t.Docs, id, sc)
}

// PortMember ports member documentation. When IntelliSense has nothing (or
// not everything) for explicit interface implementation, documentation of
// the implemented interface member is used.
func (p *Porter) PortMember(m *docsxml.Member) {
	fields := p.cfg.Porting.Fields
	sc := scope{
		summary:        fields.MemberSummaries,
		remarks:        fields.MemberRemarks && !(p.cfg.Porting.SkipInterfaceRemarks && m.Type().IsInterface()),
		value:          fields.MemberProperties && m.IsProperty(),
		returns:        fields.MemberReturns && !m.IsProperty(),
		exceptions:     fields.ExceptionsExisting || fields.ExceptionsNew,
		params:         fields.MemberParams,
		typeParams:     fields.MemberTypeParams,
		paramNames:     m.ParamNames(),
		typeParamNames: m.TypeParamNames(),
		returnType:     m.ReturnType(),
	}

	id := m.DocID()
	if f, ok := p.resolve(m); ok {
		p.port(&m.Docs, id, f, sc)
	}
	p.undocumented(&m.Docs, id, sc)
}

func (p *Porter) resolve(m *docsxml.Member) (*apidoc.Fragment, bool) {
	var res *apidoc.Fragment
	if f, ok := p.store.Get(m.DocID()); ok {
		res = fromIntelliSense(f)
	}
	if p.cfg.Porting.SkipInterfaceImplementations {
		return res, res != nil
	}
	for _, iid := range m.Implements() {
		var iface *apidoc.Fragment
		if f, ok := p.store.Get(iid); ok {
			iface = fromIntelliSense(f)
		} else if dm, ok := p.docs.Member(iid); ok {
			iface = fromDocs(dm)
		}
		if iface == nil {
			continue
		}
		if res == nil {
			res = apidoc.NewFragment(m.DocID(), iface.Source())
		}
		res.ResetChanged()
		fill(res, iface, !p.cfg.Porting.SkipInterfaceRemarks)
		if res.Changed() {
			p.log.Debug("Using interface documentation", zap.String("id", m.DocID()), zap.String("interface", iid))
		}
	}
	return res, res != nil
}

// port writes fragment (already in Docs dialect) into destination.
func (p *Porter) port(d *docsxml.Docs, id string, f *apidoc.Fragment, sc scope) {
	if f.Empty() {
		p.log.Debug("Nothing to port", zap.String("id", id))
		return
	}
	f.SetReturnType(sc.returnType)
	if sc.summary && len(f.Summary()) > 0 {
		p.result(id, common.FieldKindSummary)(d.SetSummary(f.Summary()))
	}
	if sc.remarks && len(f.Remarks()) > 0 && d.SetRemarks(f.Remarks()) {
		p.sum.Modified(id, common.FieldKindRemarks)
	}
	if sc.returns && f.ReturnsApplicable() && len(f.Returns()) > 0 {
		p.result(id, common.FieldKindReturns)(d.SetReturns(f.Returns()))
	}
	if sc.value && len(f.Value()) > 0 {
		p.result(id, common.FieldKindValue)(d.SetValue(f.Value()))
	}
	if sc.typeParams {
		for _, tp := range f.TypeParams() {
			if p.named(id, "type parameter", tp.Name, sc.typeParamNames, d.TypeParam) {
				p.result(id, common.FieldKindTypeparam)(d.SetTypeParam(tp.Name, tp.Text, slices.Contains(sc.typeParamNames, tp.Name)))
			}
		}
	}
	if sc.params {
		for _, prm := range f.Params() {
			if p.named(id, "parameter", prm.Name, sc.paramNames, d.Param) {
				p.result(id, common.FieldKindParam)(d.SetParam(prm.Name, prm.Text, slices.Contains(sc.paramNames, prm.Name)))
			}
		}
	}
	if sc.exceptions {
		p.portExceptions(d, id, f)
	}
}

// named checks that parameter is known to destination: either declared or
// already documented. Misnamed parameters are reported and not ported.
func (p *Porter) named(id, what, name string, declared []string, documented func(string) (string, bool)) bool {
	if _, ok := documented(name); ok || slices.Contains(declared, name) {
		return true
	}
	p.log.Warn("Name not found in Docs, not ported", zap.String("id", id), zap.String(what, name), zap.Strings("declared", declared))
	return false
}

func (p *Porter) portExceptions(d *docsxml.Docs, id string, f *apidoc.Fragment) {
	fields := p.cfg.Porting.Fields
	for _, ex := range f.Exceptions() {
		existing, found := d.Exception(ex.Cref)
		switch {
		case found && fields.ExceptionsExisting:
			if collides(existing, ex.Text, p.cfg.Porting.ExceptionCollisionThreshold) {
				continue
			}
			p.result(id, common.FieldKindException)(d.SetException(ex.Cref, ex.Text))
		case !found && fields.ExceptionsNew:
			p.result(id, common.FieldKindException)(d.AddException(ex.Cref, ex.Text))
		}
	}
}

// result returns function recording outcome of a single field update.
func (p *Porter) result(id string, field common.FieldKind) func(bool, error) {
	return func(changed bool, err error) {
		if err != nil {
			p.log.Error("Unable to parse ported text, stored as is", zap.String("id", id), zap.Stringer("field", field), zap.Error(err))
		}
		if changed {
			p.sum.Modified(id, field)
		}
	}
}

// undocumented records fields which are still missing documentation after
// porting.
func (p *Porter) undocumented(d *docsxml.Docs, id string, sc scope) {
	if markup.IsDocsEmpty(d.Summary()) {
		p.sum.Undocumented(id, common.FieldKindSummary)
	}
	if sc.returns && apidoc.IsReturning(sc.returnType) && markup.IsDocsEmpty(d.Returns()) {
		p.sum.Undocumented(id, common.FieldKindReturns)
	}
	if sc.value && markup.IsDocsEmpty(d.Value()) {
		p.sum.Undocumented(id, common.FieldKindValue)
	}
	for _, name := range sc.typeParamNames {
		if text, _ := d.TypeParam(name); markup.IsDocsEmpty(text) {
			p.sum.Undocumented(id, common.FieldKindTypeparam)
		}
	}
	for _, name := range sc.paramNames {
		if text, _ := d.Param(name); markup.IsDocsEmpty(text) {
			p.sum.Undocumented(id, common.FieldKindParam)
		}
	}
}

// collides reports whether existing text already contains at least
// threshold percent of words of the new text.
func collides(existing, text string, threshold int) bool {
	words := strings.FieldsFunc(strings.ToLower(text), notWord)
	if len(words) == 0 {
		return true
	}
	known := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(existing), notWord) {
		known[w] = true
	}
	hits := 0
	for _, w := range words {
		if known[w] {
			hits++
		}
	}
	return hits*100 >= threshold*len(words)
}

func notWord(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
