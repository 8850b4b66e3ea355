// Package intellisense loads compiled IntelliSense XML files (produced by
// the compiler next to assemblies) into documentation store.
package intellisense

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"docsync/apidoc"
	"docsync/archive"
	"docsync/docsxml"
	"docsync/markup"
)

// Loader fills store with fragments found in directories and packages.
type Loader struct {
	store     *apidoc.Store
	forbidden []string
	log       *zap.Logger

	files int
}

// NewLoader creates loader. Directories with names from forbidden list are
// never entered.
func NewLoader(store *apidoc.Store, forbidden []string, log *zap.Logger) *Loader {
	return &Loader{store: store, forbidden: forbidden, log: log}
}

// Files returns number of IntelliSense files loaded so far.
func (l *Loader) Files() int { return l.files }

// Load processes every location: directory, NuGet package (or any zip
// archive) or single XML file. Missing location is an error, problems with
// individual files are logged and skipped.
func (l *Loader) Load(ctx context.Context, locations []string) error {
	if len(locations) == 0 {
		return fmt.Errorf("no IntelliSense locations were specified")
	}
	for _, loc := range locations {
		fi, err := os.Stat(loc)
		if err != nil {
			return fmt.Errorf("unable to access IntelliSense location: %w", err)
		}
		if fi.IsDir() {
			err = l.loadDir(ctx, loc)
		} else {
			err = l.loadFile(ctx, loc)
		}
		if err != nil {
			return err
		}
	}
	l.log.Info("IntelliSense files loaded", zap.Int("files", l.files), zap.Int("apis", l.store.Len()))
	return nil
}

func (l *Loader) forbiddenDir(name string) bool {
	return slices.ContainsFunc(l.forbidden, func(f string) bool { return strings.EqualFold(f, name) })
}

func (l *Loader) loadDir(ctx context.Context, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			l.log.Warn("Skipping path", zap.String("path", p), zap.Error(err))
			return nil
		}
		if d.IsDir() {
			if p != dir && l.forbiddenDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := l.loadFile(ctx, p); err != nil {
			l.log.Error("Unable to process file", zap.String("file", p), zap.Error(err))
		}
		return nil
	})
}

func (l *Loader) loadFile(ctx context.Context, fname string) error {
	if strings.EqualFold(filepath.Ext(fname), ".xml") {
		data, err := os.ReadFile(fname)
		if err != nil {
			return err
		}
		l.loadXML(data, fname)
		return nil
	}

	isArchive, err := archive.IsArchive(fname)
	if err != nil {
		return fmt.Errorf("unable to check archive type: %w", err)
	}
	if !isArchive {
		l.log.Debug("Skipping file, not recognized as XML or archive", zap.String("file", fname))
		return nil
	}
	return l.loadArchive(ctx, fname)
}

func (l *Loader) loadArchive(ctx context.Context, fname string) error {
	return archive.Walk(fname, archive.IntelliSensePattern, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := f.Open()
		if err != nil {
			l.log.Error("Unable to process file in archive",
				zap.String("archive", arc), zap.String("file", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		defer r.Close()

		data, err := io.ReadAll(r)
		if err != nil {
			l.log.Error("Unable to process file in archive",
				zap.String("archive", arc), zap.String("file", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		l.loadXML(data, arc+"!"+path.Clean(f.FileHeader.Name))
		return nil
	})
}

// loadXML registers all members of IntelliSense document. Anything else
// (project files, Docs XML and so on) is quietly ignored.
func (l *Loader) loadXML(data []byte, name string) {
	doc, err := docsxml.Parse(data, name)
	if err != nil {
		l.log.Debug("Skipping file, unable to parse", zap.String("file", name), zap.Error(err))
		return
	}
	root := doc.Root()
	if root == nil || root.Tag != "doc" {
		l.log.Debug("Skipping file, not IntelliSense XML", zap.String("file", name))
		return
	}
	members := root.SelectElement("members")
	if members == nil {
		l.log.Debug("Skipping file, no members", zap.String("file", name))
		return
	}

	l.files++
	count := 0
	for _, el := range members.SelectElements("member") {
		id := strings.TrimSpace(el.SelectAttrValue("name", ""))
		if len(id) == 0 {
			continue
		}
		f := Fragment(el, id, name)
		if strings.IndexByte("TMPFE", f.Kind()) < 0 {
			l.log.Debug("Skipping member, no Docs counterpart", zap.String("id", id))
			continue
		}
		if old, added := l.store.Add(f); !added {
			l.log.Warn("Duplicate API, keeping first", zap.String("id", id),
				zap.String("kept", old.Source()), zap.String("dropped", name))
			continue
		}
		count++
	}
	l.log.Debug("IntelliSense file loaded", zap.String("file", name), zap.Int("apis", count))
}

// Fragment builds documentation fragment out of IntelliSense "member" element.
// Elements without text are left out.
func Fragment(el *etree.Element, id, source string) *apidoc.Fragment {
	f := apidoc.NewFragment(id, source)
	for _, kid := range el.ChildElements() {
		text := markup.Dedent(docsxml.InnerXML(kid))
		if markup.IsIntelliSenseEmpty(text) {
			continue
		}
		switch kid.Tag {
		case "summary":
			f.SetSummary(text)
		case "remarks":
			f.SetRemarks(text)
		case "returns":
			f.SetReturns(text)
		case "value":
			f.SetValue(text)
		case "param":
			f.SetParam(kid.SelectAttrValue("name", ""), text)
		case "typeparam":
			f.SetTypeParam(kid.SelectAttrValue("name", ""), text)
		case "exception":
			f.AddException(kid.SelectAttrValue("cref", ""), text)
		}
	}
	f.ResetChanged()
	return f
}
