package syntax

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

const myTypeSource = `// Licensed to the .NET Foundation under one or more agreements.
using System;
using System.Collections.Generic;

namespace MyNamespace
{
    /// <summary>This is the MyType class summary.</summary>
    /// <remarks>Type remarks.</remarks>
    [Serializable]
    public class MyType<T> : IDisposable where T : class
    {
        private readonly string _name = "}{";
        public const int MaxValue = 10, MinValue = 0;
        public int MyField = 1;

        /// <summary>
        /// Creates instance.
        /// </summary>
        /// <param name="name">The name.</param>
        public MyType(string name) => _name = name;

        public static MyType<T> operator +(MyType<T> a, MyType<T> b) => a;

        public static implicit operator string(MyType<T> value) => value._name;

        public string this[int index] { get { return $"{_name}{{{index}}}"; } }

        public Dictionary<string, List<int>> Lookup { get; set; } = new() { };

        public event EventHandler? Changed;

        /// <inheritdoc/>
        public void Dispose() { }

        public bool TryGet<TKey>(TKey key, out T? value) where TKey : notnull
        {
            value = default;
            if (key is null) { return false; }
            char c = '{';
            string s = @"verbatim ""}"" text";
            /* } */
            return true;
        }

        internal void Hidden() { }

        public delegate void Handler(object sender, int count);

        public enum Color
        {
            Red = 1,
            /// <summary>Green color.</summary>
            Green,
            Blue
        }
    }

    public interface IShape
    {
        double Area { get; }
        void Draw();
    }
}
`

func parse(t *testing.T, src string) *File {
	t.Helper()
	f, err := Parse("MyType.cs", []byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return f
}

func find(t *testing.T, f *File, kind Kind, name string) Decl {
	t.Helper()
	for _, d := range f.Decls() {
		if d.Kind == kind && d.Name == name {
			return d
		}
	}
	t.Fatalf("declaration %s %s not found", kind, name)
	return Decl{}
}

func TestParse_Declarations(t *testing.T) {
	f := parse(t, myTypeSource)

	type kn struct {
		kind Kind
		name string
	}
	var got []kn
	for _, d := range f.Decls() {
		got = append(got, kn{d.Kind, d.Name})
	}
	want := []kn{
		{KindClass, "MyType"},
		{KindField, "_name"},
		{KindField, "MyField"},
		{KindConstructor, "MyType"},
		{KindOperator, "+"},
		{KindConversion, "implicit"},
		{KindIndexer, "this"},
		{KindProperty, "Lookup"},
		{KindEvent, "Changed"},
		{KindMethod, "Dispose"},
		{KindMethod, "TryGet"},
		{KindMethod, "Hidden"},
		{KindDelegate, "Handler"},
		{KindEnum, "Color"},
		{KindEnummember, "Red"},
		{KindEnummember, "Green"},
		{KindEnummember, "Blue"},
		{KindInterface, "IShape"},
		{KindProperty, "Area"},
		{KindMethod, "Draw"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Decls() =\n%v\nwant\n%v", got, want)
	}
}

func TestParse_Details(t *testing.T) {
	f := parse(t, myTypeSource)

	typ := find(t, f, KindClass, "MyType")
	if typ.Namespace != "MyNamespace" || len(typ.Containers) != 0 {
		t.Errorf("type namespace %q, containers %v", typ.Namespace, typ.Containers)
	}
	if !slices.Equal(typ.TypeParams, []string{"T"}) || typ.Indent != "    " || typ.Line() != 8 {
		t.Errorf("type params %v, indent %q, line %d", typ.TypeParams, typ.Indent, typ.Line())
	}

	tryGet := find(t, f, KindMethod, "TryGet")
	wantParams := []Param{{Name: "key", Type: "TKey"}, {Name: "value", Type: "T?"}}
	if !slices.Equal(tryGet.Params, wantParams) || !slices.Equal(tryGet.TypeParams, []string{"TKey"}) {
		t.Errorf("TryGet params %v, type params %v", tryGet.Params, tryGet.TypeParams)
	}
	if tryGet.ReturnType != "bool" || !slices.Equal(tryGet.Containers, []string{"MyType`1"}) {
		t.Errorf("TryGet return type %q, containers %v", tryGet.ReturnType, tryGet.Containers)
	}

	if p := find(t, f, KindProperty, "Lookup"); p.ReturnType != "Dictionary<string, List<int>>" {
		t.Errorf("Lookup type %q", p.ReturnType)
	}
	if conv := find(t, f, KindConversion, "implicit"); conv.ReturnType != "string" || len(conv.Params) != 1 {
		t.Errorf("conversion %+v", conv)
	}
	if ix := find(t, f, KindIndexer, "this"); !slices.Equal(ix.Params, []Param{{Name: "index", Type: "int"}}) {
		t.Errorf("indexer params %v", ix.Params)
	}
	if ev := find(t, f, KindEvent, "Changed"); ev.ReturnType != "EventHandler?" {
		t.Errorf("event type %q", ev.ReturnType)
	}
	if green := find(t, f, KindEnummember, "Green"); !slices.Equal(green.Containers, []string{"MyType`1", "Color"}) {
		t.Errorf("enum member containers %v", green.Containers)
	}
	if op := find(t, f, KindOperator, "+"); !op.HasModifier("static") || len(op.Params) != 2 {
		t.Errorf("operator %+v", op)
	}
}

func TestParse_Public(t *testing.T) {
	f := parse(t, myTypeSource)
	tests := []struct {
		kind Kind
		name string
		want bool
	}{
		{KindClass, "MyType", true},
		{KindField, "_name", false},
		{KindMethod, "Hidden", false},
		{KindMethod, "Dispose", true},
		{KindEnummember, "Blue", true},
		{KindProperty, "Area", true},
		{KindMethod, "Draw", true},
	}
	for _, tt := range tests {
		if got := find(t, f, tt.kind, tt.name).IsPublic(); got != tt.want {
			t.Errorf("%s %s IsPublic() = %v, want %v", tt.kind, tt.name, got, tt.want)
		}
	}
}

func TestParse_DocComments(t *testing.T) {
	f := parse(t, myTypeSource)

	typ := find(t, f, KindClass, "MyType")
	if typ.Doc == nil || len(typ.Doc.Elements) != 2 {
		t.Fatalf("type doc %+v", typ.Doc)
	}
	if e := typ.Doc.Elements[0]; e.Tag != "summary" || e.Inner != "This is the MyType class summary." {
		t.Errorf("summary element %+v", e)
	}

	ctor := find(t, f, KindConstructor, "MyType")
	if ctor.Doc == nil {
		t.Fatal("constructor doc missing")
	}
	if s, ok := ctor.Doc.Find("summary", "", ""); !ok || s.Inner != "\nCreates instance.\n" {
		t.Errorf("summary %q", s.Inner)
	}
	if p, ok := ctor.Doc.Find("param", "name", "name"); !ok || p.Inner != "The name." {
		t.Errorf("param %+v", p)
	}

	dispose := find(t, f, KindMethod, "Dispose")
	if dispose.Doc == nil || len(dispose.Doc.Elements) != 1 || dispose.Doc.Elements[0].Tag != "inheritdoc" {
		t.Errorf("dispose doc %+v", dispose.Doc)
	}
	if find(t, f, KindField, "MyField").Doc != nil {
		t.Error("undocumented field has doc")
	}
}

func TestParse_MalformedDoc(t *testing.T) {
	src := "namespace N\n{\n    /// <summary>a < b</summary>\n    public class C\n    {\n    }\n}\n"
	d := find(t, parse(t, src), KindClass, "C")
	if d.Doc == nil || d.Doc.Err == nil {
		t.Errorf("expected doc error, got %+v", d.Doc)
	}
}

func TestParse_FileScopedNamespace(t *testing.T) {
	src := "namespace My.Space;\n\npublic record Point(int X, int Y);\n\npublic static class Ext\n{\n    public static int Twice(this int v) => v * 2;\n}\n"
	f := parse(t, src)
	p := find(t, f, KindRecord, "Point")
	if p.Namespace != "My.Space" || len(p.Params) != 2 {
		t.Errorf("record %+v", p)
	}
	m := find(t, f, KindMethod, "Twice")
	if m.Namespace != "My.Space" || !slices.Equal(m.Params, []Param{{Name: "v", Type: "int"}}) {
		t.Errorf("method %+v", m)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unbalanced", "namespace A\n{\n    class B\n    {\n", errUnbalanced},
		{"extra brace", "class B { }\n}\n", errUnbalanced},
		{"string", "class B { string s = \"open\n; }\n", errUnterminated},
		{"comment", "class B { /* open\n", errUnterminated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("x.cs", []byte(tt.src))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := Parse("x.cs", []byte{0xFF, 0xFE, 'a', 0}); !errors.Is(err, errEncoding) {
		t.Errorf("Parse() error = %v, want %v", err, errEncoding)
	}
}

func TestRewrite_Unchanged(t *testing.T) {
	f := parse(t, myTypeSource)
	if string(f.Bytes()) != myTypeSource {
		t.Fatal("Bytes() does not reproduce source")
	}

	var decls []Decl
	for _, d := range f.Decls() {
		if d.Doc != nil {
			d = d.WithDoc(NewDocComment(d.Doc.Elements))
		}
		decls = append(decls, d)
	}
	nf, changed := f.Rewrite(decls)
	if changed || nf != f {
		t.Errorf("Rewrite() changed file:\n%s", nf.Bytes())
	}
}

func TestRewrite(t *testing.T) {
	f := parse(t, myTypeSource)
	var decls []Decl
	for _, d := range f.Decls() {
		switch {
		case d.Kind == KindMethod && d.Name == "Dispose":
			d = d.WithDoc(NewDocComment([]DocElement{NewElement("summary", "Releases resources.")}))
		case d.Kind == KindField && d.Name == "MyField":
			d = d.WithDoc(NewDocComment([]DocElement{
				NewElement("summary", "<para>First.</para>\n<para>Second.</para>"),
				NewElement("remarks", `See <see cref="T:System.String" />.`),
			}))
		}
		decls = append(decls, d)
	}
	nf, changed := f.Rewrite(decls)
	if !changed {
		t.Fatal("Rewrite() reported no changes")
	}

	want := strings.Replace(myTypeSource, "        /// <inheritdoc/>\n",
		"        /// <summary>Releases resources.</summary>\n", 1)
	want = strings.Replace(want, "        public int MyField = 1;\n", `        /// <summary>
        /// <para>First.</para>
        /// <para>Second.</para>
        /// </summary>
        /// <remarks>See <see cref="T:System.String" />.</remarks>
        public int MyField = 1;
`, 1)
	if got := string(nf.Bytes()); got != want {
		t.Errorf("Rewrite() =\n%s\nwant\n%s", got, want)
	}
	if string(f.Bytes()) != myTypeSource {
		t.Error("original file was modified")
	}

	// declarations of the new file point to shifted lines
	for _, d := range nf.Decls() {
		if d.Kind == KindMethod && d.Name == "Dispose" {
			line := strings.Split(want, "\n")[d.Line()]
			if !strings.Contains(line, "public void Dispose()") {
				t.Errorf("Dispose is at line %d: %q", d.Line(), line)
			}
			if d.Doc == nil || d.Doc.Elements[0].Inner != "Releases resources." {
				t.Errorf("Dispose doc %+v", d.Doc)
			}
		}
	}
	if again, changed := nf.Rewrite(nf.Decls()); changed || again != nf {
		t.Error("second Rewrite() changed file")
	}
}

func TestRewrite_LineEndings(t *testing.T) {
	src := "\xEF\xBB\xBFnamespace N\r\n{\r\n    public class C\r\n    {\r\n    }\r\n}"
	f := parse(t, src)
	if f.EOL() != "\r\n" {
		t.Errorf("EOL() = %q", f.EOL())
	}
	d := find(t, f, KindClass, "C").WithDoc(NewDocComment([]DocElement{NewElement("summary", "Sample.")}))
	nf, changed := f.Rewrite([]Decl{d})
	if !changed {
		t.Fatal("Rewrite() reported no changes")
	}
	want := "\xEF\xBB\xBFnamespace N\r\n{\r\n    /// <summary>Sample.</summary>\r\n    public class C\r\n    {\r\n    }\r\n}"
	if got := string(nf.Bytes()); got != want {
		t.Errorf("Rewrite() = %q, want %q", got, want)
	}
}

func TestRender(t *testing.T) {
	doc := NewDocComment([]DocElement{
		NewElement("param", "The value.", Attr{Name: "name", Value: "value"}),
		NewElement("code", "\nvar x = 1;\n\nx++;\n"),
	})
	want := []string{
		`  /// <param name="value">The value.</param>`,
		"  /// <code>",
		"  /// var x = 1;",
		"  ///",
		"  /// x++;",
		"  /// </code>",
	}
	if got := doc.Render("  "); !slices.Equal(got, want) {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestDump(t *testing.T) {
	f := parse(t, myTypeSource)
	dump := f.Dump()
	for _, want := range []string{
		"file MyType.cs (bom: false, eol: \"\\n\", lines: ",
		"  class MyType [line 9, scope \"MyNamespace\", public true]\n",
		"    type params: T\n",
		"    <summary>: \"This is the MyType class summary.\"\n",
		"  method Hidden [line 45, scope \"MyNamespace.MyType`1\", public false]\n",
		"    param name: string\n",
	} {
		if !strings.Contains(dump, want) {
			t.Errorf("Dump() does not contain %q:\n%s", want, dump)
		}
	}
}
