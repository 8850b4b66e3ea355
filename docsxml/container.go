package docsxml

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"docsync/config"
)

// Container holds all Docs types selected for porting and index of their
// members. First registered type or member wins on duplicate ids.
type Container struct {
	filters *config.FiltersConfig
	skipEII bool
	log     *zap.Logger

	types   map[string]*Type
	members map[string]*Member
	order   []*Type
}

// NewContainer creates empty container. When skipInterfaces is false public
// interfaces outside of included assemblies are loaded too, so explicit
// interface implementations could get documentation from them.
func NewContainer(filters *config.FiltersConfig, skipInterfaces bool, log *zap.Logger) *Container {
	return &Container{
		filters: filters,
		skipEII: skipInterfaces,
		log:     log,
		types:   make(map[string]*Type),
		members: make(map[string]*Member),
	}
}

// Types returns loaded types in load order.
func (c *Container) Types() []*Type { return c.order }

func (c *Container) Type(id string) (*Type, bool) {
	t, ok := c.types[id]
	return t, ok
}

func (c *Container) Member(id string) (*Member, bool) {
	m, ok := c.members[id]
	return m, ok
}

// Len returns number of loaded types and members.
func (c *Container) Len() (types, members int) {
	return len(c.types), len(c.members)
}

func anyPrefix(s string, prefixes ...[]string) bool {
	for _, list := range prefixes {
		for _, p := range list {
			if strings.HasPrefix(s, p) {
				return true
			}
		}
	}
	return false
}

// allowed applies filters to the type. Interfaces are taken regardless of
// included assemblies unless explicitly excluded or interface implementations
// are skipped.
func (c *Container) allowed(t *Type) (add, asInterface bool) {
	f := c.filters
	asms := t.Assemblies()

	for _, a := range asms {
		if anyPrefix(a, f.ExcludedAssemblies, f.ExcludedNamespaces) {
			return false, false
		}
	}

	if !c.skipEII && t.IsInterface() {
		return true, true
	}

	included := false
	for _, a := range asms {
		if anyPrefix(a, f.IncludedAssemblies, f.IncludedNamespaces) {
			included = true
			break
		}
	}
	if !included {
		return false, false
	}

	if len(f.IncludedNamespaces) > 0 {
		ns := t.Namespace()
		if !anyPrefix(ns, f.IncludedNamespaces) || anyPrefix(ns, f.ExcludedNamespaces) {
			return false, false
		}
	}
	name := t.Name()
	if len(f.IncludedTypes) > 0 && !slices.Contains(f.IncludedTypes, name) {
		return false, false
	}
	if slices.Contains(f.ExcludedTypes, name) {
		return false, false
	}
	return true, false
}

// Add registers already parsed document. Malformed documents are rejected
// with error, filtered out types are reported as not added.
func (c *Container) Add(doc *Document) (*Type, bool, error) {
	t, err := NewType(doc)
	if err != nil {
		return nil, false, err
	}

	add, asInterface := c.allowed(t)
	if !add {
		c.log.Debug("Type filtered out", zap.String("id", t.DocID()), zap.String("file", doc.Path()))
		return t, false, nil
	}

	id := t.DocID()
	if old, exists := c.types[id]; exists {
		c.log.Warn("Duplicate type, keeping first", zap.String("id", id),
			zap.String("kept", old.FilePath()), zap.String("dropped", doc.Path()))
		return old, false, nil
	}
	c.types[id] = t
	c.order = append(c.order, t)

	for _, m := range t.Members() {
		mid := m.DocID()
		if old, exists := c.members[mid]; exists {
			c.log.Warn("Duplicate member, keeping first", zap.String("id", mid),
				zap.String("kept", old.Type().FilePath()), zap.String("dropped", doc.Path()))
			continue
		}
		c.members[mid] = m
	}

	switch {
	case asInterface:
		c.log.Debug("Interface added", zap.String("id", id), zap.Int("members", len(t.Members())), zap.String("file", doc.Path()))
	case len(t.Members()) == 0:
		c.log.Warn("Type added without members", zap.String("id", id), zap.String("file", doc.Path()))
	default:
		c.log.Debug("Type added", zap.String("id", id), zap.Int("members", len(t.Members())), zap.String("file", doc.Path()))
	}
	return t, true, nil
}

// LoadFile reads and registers single Docs file.
func (c *Container) LoadFile(fname string) (*Type, bool, error) {
	doc, err := ReadFile(fname)
	if err != nil {
		return nil, false, err
	}
	return c.Add(doc)
}

func allowedFileName(name string) bool {
	return !strings.HasPrefix(name, "ns-") && name != "index.xml" && name != "_filter.xml"
}

// globMeta escapes pattern metacharacters of directory names.
var globMeta = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `{`, `\{`)

// EnumerateFiles finds Docs files of included assemblies and namespaces
// (directories named after them) and, unless interface implementations are
// skipped, interface files from System* directories.
func (c *Container) EnumerateFiles(dirs []string) ([]string, error) {
	f := c.filters
	var included []string
	for _, s := range slices.Concat(f.IncludedAssemblies, f.IncludedNamespaces) {
		if !slices.Contains(included, s) {
			included = append(included, s)
		}
	}
	excluded := slices.Concat(f.ExcludedAssemblies, f.ExcludedNamespaces)

	seen := make(map[string]bool)
	var files []string
	add := func(root, rel string) {
		name := filepath.Join(root, filepath.FromSlash(rel))
		if !seen[name] {
			seen[name] = true
			files = append(files, name)
		}
	}

	for _, root := range dirs {
		fsys := os.DirFS(root)
		for _, inc := range included {
			if anyPrefix(inc, excluded) {
				continue
			}
			matches, err := doublestar.Glob(fsys, globMeta.Replace(inc)+"*/**/*.xml", doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("unable to enumerate %s: %w", root, err)
			}
			for _, m := range matches {
				if allowedFileName(path.Base(m)) {
					add(root, m)
				}
			}
		}
		if c.skipEII || len(included) == 0 {
			continue
		}
		matches, err := doublestar.Glob(fsys, "**/System*/**/I[A-Z]*.xml", doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("unable to enumerate interfaces in %s: %w", root, err)
		}
		for _, m := range matches {
			if interfaceDirAllowed(m, excluded) {
				add(root, m)
			}
		}
	}
	return files, nil
}

// interfaceDirAllowed checks System* directory the file belongs to.
func interfaceDirAllowed(rel string, excluded []string) bool {
	parts := strings.Split(path.Dir(rel), "/")
	for _, p := range parts {
		if !strings.HasPrefix(p, "System") {
			continue
		}
		if anyPrefix(p, excluded) || strings.HasSuffix(p, ".Tests") {
			return false
		}
	}
	return true
}

// Collect enumerates and loads Docs files. Malformed files are reported and
// skipped.
func (c *Container) Collect(ctx context.Context, dirs []string) error {
	if len(dirs) == 0 {
		return fmt.Errorf("no Docs XML directories were specified")
	}
	files, err := c.EnumerateFiles(dirs)
	if err != nil {
		return err
	}
	c.log.Info("Loading Docs XML files", zap.Int("files", len(files)))
	for _, fname := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, _, err := c.LoadFile(fname); err != nil {
			c.log.Error("Skipping malformed Docs file", zap.String("file", fname), zap.Error(err))
		}
	}
	types, members := c.Len()
	c.log.Info("Docs XML files loaded", zap.Int("types", types), zap.Int("members", members))
	return nil
}

// Changed returns changed types in load order.
func (c *Container) Changed() []*Type {
	var res []*Type
	for _, t := range c.order {
		if t.Changed() {
			res = append(res, t)
		}
	}
	return res
}

// Save writes changed types back. When save is false nothing is written
// but content which would have been written is still put into the report.
// Failures are logged per file and returned combined, they do not stop
// processing of the remaining files.
func (c *Container) Save(save bool, rpt *config.Report) (saved int, err error) {
	for _, t := range c.Changed() {
		data, derr := t.Document().Bytes()
		if derr != nil {
			c.log.Error("Unable to serialize Docs file", zap.String("file", t.FilePath()), zap.Error(derr))
			err = multierr.Append(err, derr)
			continue
		}
		rpt.StoreData(config.EntryName("result", t.FilePath()), data)
		if !save {
			continue
		}
		if cerr := rpt.StoreCopy(config.EntryName("original", t.FilePath()), t.FilePath()); cerr != nil {
			c.log.Debug("Unable to store pristine copy", zap.String("file", t.FilePath()), zap.Error(cerr))
		}
		if werr := t.Document().Save(); werr != nil {
			c.log.Error("Unable to save Docs file", zap.String("file", t.FilePath()), zap.Error(werr))
			err = multierr.Append(err, werr)
			continue
		}
		c.log.Info("Saved", zap.String("file", t.FilePath()))
		saved++
	}
	if !save {
		c.log.Warn("No files were saved, did you forget to request saving?", zap.Int("changed", len(c.Changed())))
	}
	return saved, err
}
