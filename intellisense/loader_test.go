package intellisense

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"go.uber.org/zap/zaptest"

	"docsync/apidoc"
)

const myAssemblyXML = `<?xml version="1.0"?>
<doc>
    <assembly>
        <name>MyAssembly</name>
    </assembly>
    <members>
        <member name="T:MyNamespace.MyType">
            <summary>This is the MyType class summary.</summary>
            <remarks>
            These are the
            type remarks.
            </remarks>
        </member>
        <member name="M:MyNamespace.MyType.MyMethod(System.String)">
            <summary>Method summary with <see cref="T:System.String"/>.</summary>
            <param name="myParam">The parameter.</param>
            <returns>The value.</returns>
            <exception cref="T:System.ArgumentNullException"><paramref name="myParam"/> is <see langword="null"/>.</exception>
        </member>
    </members>
</doc>
`

const duplicateXML = `<?xml version="1.0"?>
<doc>
    <members>
        <member name="T:MyNamespace.MyType">
            <summary>Duplicate summary.</summary>
        </member>
        <member name="T:MyNamespace.Other">
            <summary>Other summary.</summary>
        </member>
        <member name="N:MyNamespace">
            <summary>Namespace summary.</summary>
        </member>
        <member name="!:MyNamespace.Unresolved">
            <summary>Broken reference.</summary>
        </member>
    </members>
</doc>
`

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func makePackage(t *testing.T, files map[string]string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "MyAssembly.1.0.0.nupkg")
	f, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for n, content := range files {
		fw, err := w.Create(n)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return name
}

func checkMyAssembly(t *testing.T, store *apidoc.Store) {
	t.Helper()

	tf, ok := store.Get("T:MyNamespace.MyType")
	if !ok {
		t.Fatal("type fragment was not loaded")
	}
	if got := tf.Summary(); got != "This is the MyType class summary." {
		t.Errorf("Summary() = %q", got)
	}
	if got := tf.Remarks(); got != "These are the\ntype remarks." {
		t.Errorf("Remarks() = %q", got)
	}
	if tf.Changed() {
		t.Error("freshly loaded fragment is changed")
	}

	mf, ok := store.Get("M:MyNamespace.MyType.MyMethod(System.String)")
	if !ok {
		t.Fatal("method fragment was not loaded")
	}
	if got := mf.Summary(); got != `Method summary with <see cref="T:System.String" />.` {
		t.Errorf("Summary() = %q", got)
	}
	if got, ok := mf.Param("myParam"); !ok || got != "The parameter." {
		t.Errorf("Param() = %q, %v", got, ok)
	}
	if got := mf.Returns(); got != "The value." {
		t.Errorf("Returns() = %q", got)
	}
	ex := mf.Exceptions()
	if len(ex) != 1 || ex[0].Cref != "T:System.ArgumentNullException" ||
		ex[0].Text != `<paramref name="myParam" /> is <see langword="null" />.` {
		t.Errorf("Exceptions() = %v", ex)
	}
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "MyAssembly", "net8.0", "MyAssembly.xml"), myAssemblyXML)
	writeFile(t, filepath.Join(dir, "MyAssembly", "net8.0", "MyAssembly.deps.json"), "{}")
	writeFile(t, filepath.Join(dir, "MyAssembly", "net8.0", "project.xml"), "<Project />")
	writeFile(t, filepath.Join(dir, "tests", "MyAssembly.xml"), duplicateXML)
	writeFile(t, filepath.Join(dir, "zzz", "Notes.xml"), "plain text, not markup")

	store := apidoc.NewStore()
	l := NewLoader(store, []string{"Tests"}, zaptest.NewLogger(t))
	if err := l.Load(context.Background(), []string{dir}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if l.Files() != 1 {
		t.Errorf("Files() = %d, want 1", l.Files())
	}
	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
	checkMyAssembly(t, store)
}

func TestLoad_Duplicates(t *testing.T) {
	dir := t.TempDir()
	first, second := filepath.Join(dir, "a", "MyAssembly.xml"), filepath.Join(dir, "b", "MyAssembly.xml")
	writeFile(t, first, myAssemblyXML)
	writeFile(t, second, duplicateXML)

	store := apidoc.NewStore()
	l := NewLoader(store, nil, zaptest.NewLogger(t))
	if err := l.Load(context.Background(), []string{first, second}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if store.Len() != 3 {
		t.Errorf("Len() = %d, want 3", store.Len())
	}
	for _, id := range []string{"N:MyNamespace", "!:MyNamespace.Unresolved"} {
		if _, ok := store.Get(id); ok {
			t.Errorf("%s was loaded", id)
		}
	}
	f, _ := store.Get("T:MyNamespace.MyType")
	if f.Source() != first {
		t.Errorf("duplicate replaced first fragment, source %s", f.Source())
	}
	checkMyAssembly(t, store)
}

func TestLoad_Package(t *testing.T) {
	pkg := makePackage(t, map[string]string{
		"lib/net8.0/MyAssembly.xml": myAssemblyXML,
		"lib/net8.0/MyAssembly.dll": "MZ",
		"docs/Other.xml":            duplicateXML,
		"MyAssembly.nuspec":         "<package />",
	})

	store := apidoc.NewStore()
	l := NewLoader(store, nil, zaptest.NewLogger(t))
	if err := l.Load(context.Background(), []string{pkg}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
	checkMyAssembly(t, store)

	f, _ := store.Get("T:MyNamespace.MyType")
	if want := pkg + "!lib/net8.0/MyAssembly.xml"; f.Source() != want {
		t.Errorf("Source() = %q, want %q", f.Source(), want)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		locations []string
	}{
		{"nothing", nil},
		{"missing", []string{filepath.Join(t.TempDir(), "missing")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoader(apidoc.NewStore(), nil, zaptest.NewLogger(t))
			if err := l.Load(context.Background(), tt.locations); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}

func TestLoad_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "MyAssembly.xml"), myAssemblyXML)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := NewLoader(apidoc.NewStore(), nil, zaptest.NewLogger(t))
	if err := l.Load(ctx, []string{dir}); err == nil {
		t.Error("Load() expected context error")
	}
}

func TestFragment_EmptyElements(t *testing.T) {
	doc := etree.NewDocument()
	err := doc.ReadFromString(`<member name="M:N.C.M(System.Int32)">
    <summary>
        Does it.
    </summary>
    <param name="value">  </param>
    <returns/>
</member>`)
	if err != nil {
		t.Fatal(err)
	}
	f := Fragment(doc.Root(), "M:N.C.M(System.Int32)", "N.xml")
	if f.Summary() != "Does it." {
		t.Errorf("Summary() = %q", f.Summary())
	}
	if _, ok := f.Param("value"); ok {
		t.Error("empty parameter was recorded")
	}
	if f.Changed() {
		t.Error("loaded fragment is marked changed")
	}
}
