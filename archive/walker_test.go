package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func makeZip(t *testing.T, names ...string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "package.nupkg")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(zipFile)
	for _, name := range names {
		if name[len(name)-1] == '/' {
			hdr := &zip.FileHeader{Name: name}
			hdr.SetMode(os.ModeDir | 0755)
			if _, err := w.CreateHeader(hdr); err != nil {
				t.Fatalf("Failed to create directory %s in zip: %v", name, err)
			}
			continue
		}
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", name, err)
		}
		if _, err := fw.Write([]byte(name + " content")); err != nil {
			t.Fatalf("Failed to write content for %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
	zipFile.Close()
	return zipPath
}

func TestWalk(t *testing.T) {
	zipPath := makeZip(t,
		"MyPackage.nuspec",
		"lib/",
		"lib/net8.0/MyAssembly.dll",
		"lib/net8.0/MyAssembly.xml",
		"ref/netstandard2.0/MyAssembly.xml",
		"content/readme.xml",
	)

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{"intellisense files", IntelliSensePattern, []string{"lib/net8.0/MyAssembly.xml", "ref/netstandard2.0/MyAssembly.xml"}},
		{"only ref", "ref/**/*.xml", []string{"ref/netstandard2.0/MyAssembly.xml"}},
		{"no match", "tools/**", nil},
		{"everything", "", []string{"MyPackage.nuspec", "content/readme.xml", "lib/net8.0/MyAssembly.dll", "lib/net8.0/MyAssembly.xml", "ref/netstandard2.0/MyAssembly.xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var visited []string
			err := Walk(zipPath, tt.pattern, func(archive string, file *zip.File) error {
				if archive != zipPath {
					t.Errorf("archive = %s, want %s", archive, zipPath)
				}
				visited = append(visited, file.Name)
				return nil
			})
			if err != nil {
				t.Fatalf("Walk() error = %v", err)
			}
			sort.Strings(visited)
			want := append([]string(nil), tt.want...)
			sort.Strings(want)
			if len(visited) != len(want) {
				t.Fatalf("visited %v, want %v", visited, want)
			}
			for i := range want {
				if visited[i] != want[i] {
					t.Errorf("visited[%d] = %s, want %s", i, visited[i], want[i])
				}
			}
		})
	}
}

func TestWalk_EarlyTermination(t *testing.T) {
	zipPath := makeZip(t, "lib/a.xml", "lib/b.xml", "lib/c.xml")

	var visited int
	stopErr := errors.New("stop walking")
	err := Walk(zipPath, IntelliSensePattern, func(archive string, file *zip.File) error {
		visited++
		if visited == 2 {
			return stopErr
		}
		return nil
	})
	if err != stopErr {
		t.Errorf("Walk() error = %v, want %v", err, stopErr)
	}
	if visited != 2 {
		t.Errorf("visited %d files, want 2 (early termination)", visited)
	}
}

func TestWalk_FileContent(t *testing.T) {
	zipPath := makeZip(t, "lib/net8.0/MyAssembly.xml")

	err := Walk(zipPath, IntelliSensePattern, func(archive string, file *zip.File) error {
		rc, err := file.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(rc); err != nil {
			return err
		}
		if buf.String() != "lib/net8.0/MyAssembly.xml content" {
			t.Errorf("content = %s", buf.String())
		}
		return nil
	})
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
}

func TestWalk_Invalid(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		if err := Walk("/nonexistent/file.zip", "", func(string, *zip.File) error { return nil }); err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		invalidZip := filepath.Join(t.TempDir(), "invalid.zip")
		if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}
		if err := Walk(invalidZip, "", func(string, *zip.File) error { return nil }); err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})

	t.Run("bad pattern", func(t *testing.T) {
		zipPath := makeZip(t, "lib/a.xml")
		if err := Walk(zipPath, "lib/[", func(string, *zip.File) error { return nil }); err == nil {
			t.Error("Expected error for malformed pattern")
		}
	})

	t.Run("zip slip", func(t *testing.T) {
		zipPath := makeZip(t, "lib/../../evil.xml")
		if err := Walk(zipPath, "", func(string, *zip.File) error { return nil }); err == nil {
			t.Error("Expected error for path traversal entry")
		}
	})
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"lib/net8.0/a.xml", true},
		{"a..b/c.xml", true},
		{"/etc/passwd", false},
		{`\windows\system.ini`, false},
		{"lib/../../x", false},
		{`lib\..\x`, false},
	}
	for _, tt := range tests {
		if got := isSafePath(tt.name); got != tt.want {
			t.Errorf("isSafePath(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsArchive(t *testing.T) {
	t.Run("nupkg", func(t *testing.T) {
		ok, err := IsArchive(makeZip(t, "lib/a.xml"))
		if err != nil {
			t.Fatalf("IsArchive() error = %v", err)
		}
		if !ok {
			t.Error("IsArchive() = false for zip content")
		}
	})

	t.Run("xml", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "MyAssembly.xml")
		if err := os.WriteFile(name, []byte(`<?xml version="1.0"?><doc></doc>`), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		ok, err := IsArchive(name)
		if err != nil {
			t.Fatalf("IsArchive() error = %v", err)
		}
		if ok {
			t.Error("IsArchive() = true for xml content")
		}
	})

	t.Run("nonexistent", func(t *testing.T) {
		if _, err := IsArchive("/nonexistent/file.nupkg"); err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})
}
