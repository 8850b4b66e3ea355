package markup

import (
	"strings"
	"testing"
)

func TestToMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"see cref", `See <see cref="M:MyNamespace.MyType.MyMethod" />.`, "See <xref:MyNamespace.MyType.MyMethod>."},
		{"seealso cref", `See <seealso cref="T:MyNamespace.MyType"/>.`, "See <xref:MyNamespace.MyType>."},
		{"see cref content", `See <see cref="T:N.C">this class</see>.`, "See [this class](xref:N.C)."},
		{"generic arity", "<see cref=\"T:System.Collections.Generic.List`1\"/>", "<xref:System.Collections.Generic.List%601>"},
		{"primitives", `Remarks: <see cref="bool"/>, <see cref="ushort"/>, <see cref="dynamic"/>.`, "Remarks: `bool`, `ushort`, `dynamic`."},
		{"langword", `Langword <see langword="true"/>.`, "Langword `true`."},
		{"paramref", `Paramref <paramref name="myParam"/>.`, "Paramref `myParam`."},
		{"typeparamref", `Typeparamref <typeparamref name="T"/>.`, "Typeparamref `T`."},
		{"inline code", `Returns <c>-1</c> on failure.`, "Returns `-1` on failure."},
		{"inline code entities", `Use <c>List&lt;T&gt;</c>.`, "Use `List<T>`."},
		{"href", `Visit <see href="https://learn.microsoft.com">docs</see>.`, "Visit [docs](https://learn.microsoft.com)."},
		{"p blocks", `<p>If found in remarks,</p><p>need to convert them to double newlines.</p>`,
			"If found in remarks,\n\nneed to convert them to double newlines."},
		{"para blocks", "<para>First.</para>\n<para>Second.</para>", "First.\n\nSecond."},
		{"code block", `Example:<code language="csharp">var x = a &lt; b;</code>`, "Example:\n\n```csharp\nvar x = a < b;\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToMarkdown(tt.in); got != tt.want {
				t.Errorf("ToMarkdown() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestFromMarkdown(t *testing.T) {
	names := Names{
		Params:     []string{"myParam", "value"},
		TypeParams: []string{"T"},
		Resolve: func(uid string) (string, bool) {
			if uid == "N.C.M`1" {
				return "M:" + uid, true
			}
			return "", false
		},
	}
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "  \n", ""},
		{"paramref", "Paramref `myParam`.", `Paramref <paramref name="myParam" />.`},
		{"code spans",
			"`T`, `null`, `int`, `dynamic` and `foo`",
			`<typeparamref name="T" />, <see langword="null" />, <see cref="int" />, <see langword="dynamic" /> and <c>foo</c>`},
		{"paragraphs", "A\n\nB", "<para>A</para>\n<para>B</para>"},
		{"continuation lines", "A\nB", "A\nB"},
		{"xref resolved", "See <xref:N.C.M%601>.", "See <see cref=\"M:N.C.M`1\" />."},
		{"xref unresolved", "See <xref:System.String?displayProperty=nameWithType>.", `See <see cref="System.String" />.`},
		{"xref link", "See [the method](xref:N.C.M%601).", "See <see cref=\"M:N.C.M`1\">the method</see>."},
		{"link", "[docs](https://example.com)", `<a href="https://example.com">docs</a>`},
		{"escaping", "a < b & c", "a &lt; b &amp; c"},
		{"entities kept", "a &amp; b &#169;", "a &amp; b &#169;"},
		{"raw tags kept", `Use <see cref="T:N.C" /> here.`, `Use <see cref="T:N.C" /> here.`},
		{"fenced code",
			"Use:\n\n```csharp\nif (a < b) {}\n```\n\nDone.",
			"<para>Use:</para>\n<code language=\"csharp\">if (a &lt; b) {}</code>\n<para>Done.</para>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromMarkdown(tt.in, names); got != tt.want {
				t.Errorf("FromMarkdown() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestMarkdownRoundTrip(t *testing.T) {
	names := Names{Params: []string{"value"}, TypeParams: []string{"TKey"}}
	for _, in := range []string{
		`Call with <paramref name="value" /> set to <see langword="null" />.`,
		`Keys of type <typeparamref name="TKey" /> use <c>Equals</c>.`,
		"<para>First paragraph.</para>\n<para>Second paragraph.</para>",
		`Use <c>List&lt;T&gt;</c> here.`,
		`Either a &amp; b or a &lt; b.`,
	} {
		if got := FromMarkdown(ToMarkdown(in), names); got != in {
			t.Errorf("round trip of %q produced %q", in, got)
		}
	}
}

func TestRemarksMarkdown(t *testing.T) {
	indent := strings.Repeat(" ", 10)
	got := RemarksMarkdown("See <xref:N.C>.\n", indent)
	want := "\n\n## Remarks\n\nSee <xref:N.C>.\n\n" + indent
	if got != want {
		t.Fatalf("RemarksMarkdown() = %q, want %q", got, want)
	}

	inner := "\n" + indent + `<format type="text/markdown"><![CDATA[` + got + "]]></format>\n        "
	md, ok := ExtractMarkdown(inner)
	if !ok {
		t.Fatal("ExtractMarkdown() did not recognize markdown remarks")
	}
	if md != "See <xref:N.C>." {
		t.Errorf("ExtractMarkdown() = %q", md)
	}

	if _, ok := ExtractMarkdown("Plain <c>remarks</c>."); ok {
		t.Error("ExtractMarkdown() accepted plain remarks")
	}
}

func TestXrefUID(t *testing.T) {
	tests := map[string]string{
		"T:System.Collections.Generic.List`1": "System.Collections.Generic.List%601",
		"System.String":                       "System.String",
		"M:N.C.M(System.Int32)":               "N.C.M(System.Int32)",
	}
	for in, want := range tests {
		if got := XrefUID(in); got != want {
			t.Errorf("XrefUID(%q) = %q, want %q", in, got, want)
		}
	}
}
