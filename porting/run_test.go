package porting

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"docsync/config"
	"docsync/state"
)

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = cfg
	return ctx, env
}

func command(action cli.ActionFunc) *cli.Command {
	return &cli.Command{Name: "totripleslash", Flags: ToTripleSlashFlags(), Action: action}
}

func TestApplyFlags(t *testing.T) {
	ctx, env := setupTestEnv(t)
	cfg := env.Cfg
	cmd := command(func(_ context.Context, cmd *cli.Command) error {
		apply(cmd, cfg)
		return nil
	})
	err := cmd.Run(ctx, []string{"totripleslash",
		"--docs", "d", "--source", "s",
		"--included-assemblies", "System.Text,System.IO",
		"--excluded-types", "System.IO.Path",
		"--port-member-remarks=false",
		"--port-exceptions-existing",
		"--save",
		"--exception-collision-threshold", "42",
		"--include", "src/**/*.cs",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !slices.Equal(cfg.Filters.IncludedAssemblies, []string{"System.Text", "System.IO"}) {
		t.Errorf("IncludedAssemblies = %v", cfg.Filters.IncludedAssemblies)
	}
	if !slices.Equal(cfg.Filters.ExcludedTypes, []string{"System.IO.Path"}) {
		t.Errorf("ExcludedTypes = %v", cfg.Filters.ExcludedTypes)
	}
	p := cfg.Porting
	if p.Fields.MemberRemarks || !p.Fields.ExceptionsExisting || !p.Save || p.ExceptionCollisionThreshold != 42 {
		t.Errorf("porting = %+v", p)
	}
	// not set on command line, defaults stay
	if !p.Fields.MemberSummaries || !p.SkipInterfaceRemarks {
		t.Errorf("defaults changed: %+v", p)
	}
	if !slices.Equal(cfg.Source.Include, []string{"src/**/*.cs"}) || len(cfg.Source.Exclude) != 3 {
		t.Errorf("source = %+v", cfg.Source)
	}
}

func TestRun_Rejected(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name string
		args []string
	}{
		{"no assemblies", []string{"--docs", dir, "--source", dir}},
		{"threshold", []string{"--docs", dir, "--source", dir, "--included-assemblies", "A", "--exception-collision-threshold", "101"}},
		{"missing location", []string{"--docs", filepath.Join(dir, "none"), "--source", dir, "--included-assemblies", "A"}},
		{"no source", []string{"--docs", dir, "--included-assemblies", "A"}},
		{"bad bool", []string{"--docs", dir, "--source", dir, "--included-assemblies", "A", "--save=maybe"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx, _ := setupTestEnv(t)
			if err := command(RunToTripleSlash).Run(ctx, append([]string{"totripleslash"}, c.args...)); err == nil {
				t.Error("Run() succeeded")
			}
		})
	}
}

func TestRunToTripleSlash(t *testing.T) {
	root := t.TempDir()
	docs := filepath.Join(root, "docs", "MyAssembly", "MyNamespace", "MyType.xml")
	src := filepath.Join(root, "src", "MyType.cs")
	for name, data := range map[string]string{
		docs: `<Type Name="MyType" FullName="MyNamespace.MyType">
  <TypeSignature Language="DocId" Value="T:MyNamespace.MyType" />
  <AssemblyInfo>
    <AssemblyName>MyAssembly</AssemblyName>
  </AssemblyInfo>
  <Docs>
    <summary>This is MyType.</summary>
    <remarks>To be added.</remarks>
  </Docs>
  <Members />
</Type>
`,
		src: "namespace MyNamespace\n{\n    public class MyType\n    {\n    }\n}\n",
	} {
		if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(name, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	Stdout = &out
	t.Cleanup(func() { Stdout = os.Stdout })

	ctx, _ := setupTestEnv(t)
	err := command(RunToTripleSlash).Run(ctx, []string{"totripleslash",
		"--docs", filepath.Join(root, "docs"),
		"--source", filepath.Join(root, "src"),
		"--included-assemblies", "MyAssembly",
		"--save", "--print-summary",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	want := "namespace MyNamespace\n{\n    /// <summary>This is MyType.</summary>\n    public class MyType\n    {\n    }\n}\n"
	if string(data) != want {
		t.Errorf("source =\n%s\nwant\n%s", data, want)
	}
	for _, s := range []string{"1 file(s) saved, 1 API(s) modified", "T:MyNamespace.MyType: summary"} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("summary %q does not contain %q", out.String(), s)
		}
	}
}
