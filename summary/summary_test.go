package summary

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"docsync/common"
)

func TestSummary(t *testing.T) {
	id := uuid.MustParse("0192d7a4-8a8b-7c3e-9f00-0123456789ab")
	s := New(id, common.PortDirectionTodocs)

	s.Modified("M:N.C.M10", common.FieldKindSummary)
	s.Modified("M:N.C.M2", common.FieldKindParam)
	s.Modified("M:N.C.M2", common.FieldKindParam)
	s.Modified("M:N.C.M2", common.FieldKindRemarks)
	s.Undocumented("T:N.C", common.FieldKindSummary)
	s.Saved(2)

	if s.ModifiedCount() != 2 || s.UndocumentedCount() != 1 || s.Files() != 2 {
		t.Fatalf("counts = %d, %d, %d", s.ModifiedCount(), s.UndocumentedCount(), s.Files())
	}

	apis := s.ModifiedAPIs()
	if apis[0].ID != "M:N.C.M2" || apis[1].ID != "M:N.C.M10" {
		t.Errorf("ModifiedAPIs() not in natural order: %v", apis)
	}
	if got := strings.Join(apis[0].Fields, ","); got != "param,remarks" {
		t.Errorf("Fields = %q", got)
	}

	tests := []struct {
		name     string
		details  bool
		undoc    bool
		contains []string
		absent   []string
	}{
		{
			name:     "counts only",
			contains: []string{"Run " + id.String() + " (todocs) finished.", "2 file(s) saved, 2 API(s) modified, 1 API(s) left undocumented."},
			absent:   []string{"Modified APIs:", "Undocumented APIs:"},
		},
		{
			name:     "details",
			details:  true,
			contains: []string{"Modified APIs:\n  M:N.C.M2: param, remarks\n  M:N.C.M10: summary"},
			absent:   []string{"Undocumented APIs:"},
		},
		{
			name:     "undocumented",
			undoc:    true,
			contains: []string{"Undocumented APIs:\n  T:N.C: summary"},
			absent:   []string{"Modified APIs:"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			if err := s.Render(&b, tt.details, tt.undoc); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			out := b.String()
			for _, c := range tt.contains {
				if !strings.Contains(out, c) {
					t.Errorf("Render() output does not contain %q:\n%s", c, out)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(out, a) {
					t.Errorf("Render() output contains %q:\n%s", a, out)
				}
			}
		})
	}
}
