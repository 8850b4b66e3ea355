package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer r.Close()

	out := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("unable to read %s: %v", f.Name, err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func TestReport_Archive(t *testing.T) {
	tmpDir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(tmpDir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	src := filepath.Join(tmpDir, "MyType.xml")
	if err := os.WriteFile(src, []byte("<Type />"), 0644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}
	if err := r.StoreCopy("original/MyType.xml", src); err != nil {
		t.Fatalf("StoreCopy() error = %v", err)
	}
	// file changes after copy was taken, report must keep the old content
	if err := os.WriteFile(src, []byte("<Type Name=\"changed\" />"), 0644); err != nil {
		t.Fatalf("failed to rewrite source: %v", err)
	}
	r.StoreData("result/MyType.xml", []byte("<Type Name=\"new\" />"))
	r.StoreData("result/MyType.xml", []byte("second"))

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files := readArchive(t, conf.Destination)
	if _, ok := files["MANIFEST"]; !ok {
		t.Error("report has no MANIFEST")
	}
	if got := files["original/MyType.xml"]; got != "<Type />" {
		t.Errorf("original copy = %q, want pristine content", got)
	}
	if got := files["result/MyType.xml"]; got != "<Type Name=\"new\" />" {
		t.Errorf("stored data = %q", got)
	}
	versioned := 0
	for name := range files {
		if strings.HasPrefix(name, "result/MyType.xml-") {
			versioned++
		}
	}
	if versioned != 1 {
		t.Errorf("expected one versioned duplicate entry, got %d", versioned)
	}
	for _, dir := range r.copies {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Errorf("temporary copy %s was not removed", dir)
		}
	}
}

func TestReport_StoreConflictPanics(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.Store("final.log", "/tmp/a.log")
	defer func() {
		if recover() == nil {
			t.Error("expected panic when overwriting stored file entry")
		}
	}()
	r.Store("final.log", "/tmp/b.log")
}

func TestEntryName(t *testing.T) {
	tests := []struct {
		dir, file, want string
	}{
		{"result", "System.Text/JsonSerializer.xml", "result/system-text/jsonserializer.xml"},
		{"original", "/abs/My Type`1.xml", "original/abs/my-type-1.xml"},
		{"source", "Program.cs", "source/program.cs"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			if got := EntryName(tt.dir, tt.file); got != tt.want {
				t.Errorf("EntryName(%q, %q) = %q, want %q", tt.dir, tt.file, got, tt.want)
			}
		})
	}
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	r.StoreData("x", []byte("y"))
	if err := r.StoreCopy("x", "y"); err != nil {
		t.Errorf("StoreCopy on nil report should not error, got: %v", err)
	}
	if r.Name() != "" {
		t.Error("nil report must have empty name")
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
