package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

type treeWriter struct {
	w strings.Builder
}

func (tw *treeWriter) line(depth int, format string, args ...any) {
	tw.w.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(&tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw *treeWriter) text(depth int, label, value string) {
	if len(value) > 0 {
		value = strconv.Quote(value)
	}
	tw.line(depth, "%s: %s", label, value)
}

// Dump describes declarations of the file and their documentation
// comments. It is used for debugging only.
func (f *File) Dump() string {
	tw := &treeWriter{}
	tw.line(0, "file %s (bom: %t, eol: %q, lines: %d)", f.path, f.bom, f.EOL(), len(f.lines))
	for _, d := range f.decls {
		scope := strings.Join(append([]string{d.Namespace}, d.Containers...), ".")
		tw.line(1, "%s %s [line %d, scope %q, public %t]", d.Kind, d.Name, d.line+1, scope, d.IsPublic())
		if len(d.Modifiers) > 0 {
			tw.line(2, "modifiers: %s", strings.Join(d.Modifiers, " "))
		}
		if len(d.TypeParams) > 0 {
			tw.line(2, "type params: %s", strings.Join(d.TypeParams, ", "))
		}
		for _, p := range d.Params {
			tw.line(2, "param %s: %s", p.Name, p.Type)
		}
		if len(d.ReturnType) > 0 {
			tw.line(2, "type: %s", d.ReturnType)
		}
		if d.Doc == nil {
			continue
		}
		if d.Doc.Err != nil {
			tw.line(2, "doc error: %v", d.Doc.Err)
			continue
		}
		for _, e := range d.Doc.Elements {
			tw.text(2, e.startTag(), e.Inner)
		}
	}
	return tw.w.String()
}
