// Package summary collects what porting did to APIs and renders human
// readable report at the end of the run.
package summary

import (
	_ "embed"
	"fmt"
	"io"
	"maps"
	"slices"
	"sort"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/google/uuid"
	"github.com/maruel/natural"

	"docsync/common"
)

//go:embed report.tmpl
var reportTmpl string

// Entry is an API and its fields.
type Entry struct {
	ID     string
	Fields []string
}

// Summary accumulates per API information. NOTE: not to be used concurrently!
type Summary struct {
	runID     uuid.UUID
	direction common.PortDirection
	modified  map[string][]string
	undoc     map[string][]string
	files     int
}

func New(runID uuid.UUID, direction common.PortDirection) *Summary {
	return &Summary{
		runID:     runID,
		direction: direction,
		modified:  make(map[string][]string),
		undoc:     make(map[string][]string),
	}
}

func record(m map[string][]string, id, field string) {
	if !slices.Contains(m[id], field) {
		m[id] = append(m[id], field)
	}
}

// Modified records that field of API was changed.
func (s *Summary) Modified(id string, field common.FieldKind) { record(s.modified, id, field.String()) }

// Undocumented records that field of API still has no documentation.
func (s *Summary) Undocumented(id string, field common.FieldKind) {
	record(s.undoc, id, field.String())
}

// Saved adds number of files written.
func (s *Summary) Saved(n int) { s.files += n }

func (s *Summary) ModifiedCount() int     { return len(s.modified) }
func (s *Summary) UndocumentedCount() int { return len(s.undoc) }
func (s *Summary) Files() int             { return s.files }

func entries(m map[string][]string) []Entry {
	keys := slices.Collect(maps.Keys(m))
	sort.Sort(natural.StringSlice(keys))
	res := make([]Entry, 0, len(keys))
	for _, k := range keys {
		res = append(res, Entry{ID: k, Fields: m[k]})
	}
	return res
}

// ModifiedAPIs returns modified APIs in natural order of ids.
func (s *Summary) ModifiedAPIs() []Entry { return entries(s.modified) }

// UndocumentedAPIs returns undocumented APIs in natural order of ids.
func (s *Summary) UndocumentedAPIs() []Entry { return entries(s.undoc) }

// values is what report template sees.
type values struct {
	RunID        string
	Direction    string
	Files        int
	Modified     []Entry
	Undocumented []Entry
	Details      bool
	Undoc        bool
}

// Render writes report. Lists of modified and undocumented APIs are only
// written when requested.
func (s *Summary) Render(w io.Writer, details, undoc bool) error {
	tmpl, err := template.New("summary").Funcs(sprig.FuncMap()).Parse(reportTmpl)
	if err != nil {
		return fmt.Errorf("unable to parse summary template: %w", err)
	}
	v := values{
		RunID:        s.runID.String(),
		Direction:    s.direction.String(),
		Files:        s.files,
		Modified:     s.ModifiedAPIs(),
		Undocumented: s.UndocumentedAPIs(),
		Details:      details,
		Undoc:        undoc,
	}
	if err := tmpl.Execute(w, v); err != nil {
		return fmt.Errorf("unable to render summary: %w", err)
	}
	_, err = io.WriteString(w, "\n")
	return err
}
