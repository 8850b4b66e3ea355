package tripleslash

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"docsync/apidoc"
	"docsync/config"
	"docsync/docsxml"
	"docsync/summary"
	"docsync/syntax"
)

// Porter merges Docs documentation into triple slash comments of source
// files.
type Porter struct {
	cfg        *config.Config
	docsDirs   []string
	sourceDirs []string
	rpt        *config.Report
	sum        *summary.Summary
	log        *zap.Logger

	store  *apidoc.Store
	docs   *docsxml.Container
	binder *Binder
}

// New creates porter. Report could be nil.
func New(cfg *config.Config, docsDirs, sourceDirs []string, rpt *config.Report, sum *summary.Summary, log *zap.Logger) *Porter {
	return &Porter{
		cfg:        cfg,
		docsDirs:   docsDirs,
		sourceDirs: sourceDirs,
		rpt:        rpt,
		sum:        sum,
		log:        log,
		store:      apidoc.NewStore(),
		docs:       docsxml.NewContainer(&cfg.Filters, cfg.Porting.SkipInterfaceImplementations, log.Named("docs")),
	}
}

func (p *Porter) options() Options {
	return Options{Fields: p.cfg.Porting.Fields, SkipRemarks: p.cfg.Porting.SkipRemarks}
}

// Start loads Docs, then ports every discovered source file.
func (p *Porter) Start(ctx context.Context) error {
	if err := p.Load(ctx); err != nil {
		return err
	}
	files, err := p.Discover(ctx)
	if err != nil {
		return err
	}
	p.log.Info("Porting source files", zap.Int("files", len(files)))

	var (
		saved   int
		changed int
		errs    error
	)
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := p.PortFile(name)
		switch {
		case errors.Is(err, errParse):
			p.log.Warn("Skipping source file", zap.String("file", name), zap.Error(err))
			continue
		case err != nil:
			p.log.Error("Unable to save source file", zap.String("file", name), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		if ok {
			changed++
			if p.cfg.Porting.Save {
				saved++
			}
		}
	}
	p.sum.Saved(saved)
	p.log.Info("Porting done", zap.Int("changed", changed), zap.Int("modified apis", p.sum.ModifiedCount()))
	if !p.cfg.Porting.Save && changed > 0 {
		p.log.Warn("No files were saved, did you forget to request saving?", zap.Int("changed", changed))
	}
	if errs != nil {
		return fmt.Errorf("unable to save some of source files: %w", errs)
	}
	return nil
}

// Load reads Docs files and builds fragments out of them.
func (p *Porter) Load(ctx context.Context) error {
	if err := p.docs.Collect(ctx, p.docsDirs); err != nil {
		return fmt.Errorf("unable to load Docs files: %w", err)
	}
	n := LoadStore(p.docs, p.store, p.log)
	if n == 0 {
		p.log.Warn("No Docs documentation found", zap.Strings("locations", p.docsDirs))
	}
	p.binder = NewBinder(p.store, NewNameResolver(p.store.IDs()))
	return nil
}

// Discover finds source files to port in natural order.
func (p *Porter) Discover(ctx context.Context) ([]string, error) {
	if len(p.sourceDirs) == 0 {
		return nil, fmt.Errorf("no source directories were specified")
	}
	src := p.cfg.Source
	seen := make(map[string]bool)
	var files []string
	for _, root := range p.sourceDirs {
		fsys := os.DirFS(root)
		for _, pattern := range src.Include {
			err := doublestar.GlobWalk(fsys, pattern, func(rel string, d fs.DirEntry) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				for _, ex := range src.Exclude {
					if ok, _ := doublestar.Match(ex, rel); ok {
						return nil
					}
				}
				name := filepath.Join(root, filepath.FromSlash(rel))
				if !seen[name] {
					seen[name] = true
					files = append(files, name)
				}
				return nil
			}, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("unable to enumerate %s: %w", root, err)
			}
		}
	}
	sort.Sort(natural.StringSlice(files))
	return files, nil
}

var errParse = errors.New("unable to parse source")

// PortFile ports documentation into a single source file. It reports whether
// file content changed. Files which cannot be parsed are returned with
// errParse and left alone.
func (p *Porter) PortFile(name string) (bool, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return false, fmt.Errorf("%w: %w", errParse, err)
	}
	f, err := syntax.Parse(name, data)
	if err != nil {
		return false, fmt.Errorf("%w: %w", errParse, err)
	}

	if p.rpt != nil {
		p.rpt.StoreData(config.EntryName("syntax", name+".txt"), []byte(f.Dump()))
	}

	opts := p.options()
	decls := f.Decls()
	for i, d := range decls {
		if d.Doc != nil && d.Doc.Err != nil {
			p.log.Warn("Malformed documentation comment left as is", zap.String("file", name), zap.Int("line", d.Line()+1), zap.Error(d.Doc.Err))
			continue
		}
		id, frag, ok := p.binder.Bind(d)
		if !ok {
			if len(id) > 0 {
				p.log.Debug("No documentation for declaration", zap.String("id", id))
			}
			continue
		}
		nd, modified := merge(d, frag, opts)
		for _, field := range modified {
			p.sum.Modified(id, field)
		}
		for _, field := range missing(nd) {
			p.sum.Undocumented(id, field)
		}
		decls[i] = nd
	}

	nf, changed := f.Rewrite(decls)
	if !changed {
		return false, nil
	}
	out := nf.Bytes()
	p.rpt.StoreData(config.EntryName("result", name), out)
	if !p.cfg.Porting.Save {
		return true, nil
	}
	if err := p.rpt.StoreCopy(config.EntryName("original", name), name); err != nil {
		p.log.Debug("Unable to store pristine copy", zap.String("file", name), zap.Error(err))
	}
	mode := fs.FileMode(0644)
	if info, err := os.Stat(name); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(name, out, mode); err != nil {
		return true, err
	}
	p.log.Info("Saved", zap.String("file", name))
	return true, nil
}
