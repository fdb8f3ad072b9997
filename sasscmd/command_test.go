package sasscmd_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/caffeineduck/gosass/engine/enginetest"
	"github.com/caffeineduck/gosass/interp"
	"github.com/caffeineduck/gosass/sasscmd"
)

func dispatch(t *testing.T, eng *enginetest.Engine, args ...string) ([]string, error) {
	t.Helper()
	cmd := sasscmd.NewCommand(eng)
	return cmd.Dispatch(context.Background(), append([]string{"sass"}, args...))
}

// pairs turns a result into a map for field lookup.
func pairs(t *testing.T, res []string) map[string]string {
	t.Helper()
	if len(res)%2 != 0 {
		t.Fatalf("odd result length %d: %q", len(res), res)
	}
	m := make(map[string]string, len(res)/2)
	for i := 0; i < len(res); i += 2 {
		m[res[i]] = res[i+1]
	}
	return m
}

// =============================================================================
// VERSION
// =============================================================================

func TestVersion(t *testing.T) {
	eng := enginetest.New()
	got, err := dispatch(t, eng, "version")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{sasscmd.LibraryName, enginetest.DefaultVersion}, got); diff != "" {
		t.Errorf("version mismatch (-want +got):\n%s", diff)
	}
}

func TestVersionArity(t *testing.T) {
	_, err := dispatch(t, enginetest.New(), "version", "extra")
	if !errors.Is(err, sasscmd.ErrArity) {
		t.Fatalf("expected ErrArity, got %v", err)
	}
	if err.Error() != `wrong # args: should be "sass version"` {
		t.Errorf("message = %q", err.Error())
	}
}

// =============================================================================
// DISPATCH
// =============================================================================

func TestDispatchArity(t *testing.T) {
	_, err := dispatch(t, enginetest.New())
	if !errors.Is(err, sasscmd.ErrArity) {
		t.Fatalf("expected ErrArity, got %v", err)
	}
	if err.Error() != `wrong # args: should be "sass option ?arg ...?"` {
		t.Errorf("message = %q", err.Error())
	}
}

func TestDispatchUnknownVerb(t *testing.T) {
	_, err := dispatch(t, enginetest.New(), "build", "x")
	if !errors.Is(err, sasscmd.ErrUnknownVerb) {
		t.Fatalf("expected ErrUnknownVerb, got %v", err)
	}
	if err.Error() != `bad option "build": must be compile or version` {
		t.Errorf("message = %q", err.Error())
	}
}

func TestCommandName(t *testing.T) {
	cmd := sasscmd.NewCommand(enginetest.New(), sasscmd.WithCommandName("scss"))
	_, err := cmd.Dispatch(context.Background(), []string{"scss", "compile"})
	if err == nil || err.Error() != `wrong # args: should be "scss compile ?options? source"` {
		t.Errorf("unexpected error: %v", err)
	}
}

// =============================================================================
// COMPILE
// =============================================================================

func TestCompileArity(t *testing.T) {
	tests := [][]string{
		{"compile"},
		{"compile", "-type", "data"},
		{"compile", "--"},
		{"compile", "a{}", "extra"},
		{"compile", "-options", "precision 2", "a{}", "b{}"},
		{"compile", "-options", "precision 2"},
	}
	for _, args := range tests {
		eng := enginetest.New()
		_, err := dispatch(t, eng, args...)
		if !errors.Is(err, sasscmd.ErrArity) {
			t.Errorf("%q: expected ErrArity, got %v", args, err)
			continue
		}
		if err.Error() != `wrong # args: should be "sass compile ?options? source"` {
			t.Errorf("%q: message = %q", args, err.Error())
		}
		assertClean(t, eng)
	}
}

func TestCompileDataDefault(t *testing.T) {
	eng := enginetest.New()
	got, err := dispatch(t, eng, "compile", "a { color: red; }")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"errorStatus", "0", "outputString", "a { color: red; }\n"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"copy", "data context", "compile", "delete", "free"}, eng.Events()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	assertClean(t, eng)
}

func TestCompileWellFormedInputs(t *testing.T) {
	inputs := []string{
		"a { b: c; }",
		"$x: 1px;\n.a { width: $x; }",
		".a {\n  .b { color: blue; }\n}",
		"@media screen { a { b: c } }",
	}
	for _, src := range inputs {
		eng := enginetest.New()
		got, err := dispatch(t, eng, "compile", "-type", "data", src)
		if err != nil {
			t.Fatalf("%q: %v", src, err)
		}
		m := pairs(t, got)
		if m["errorStatus"] != "0" {
			t.Errorf("%q: status %s", src, m["errorStatus"])
		}
		if m["outputString"] == "" {
			t.Errorf("%q: empty output", src)
		}
		assertClean(t, eng)
	}
}

func TestCompileSyntaxError(t *testing.T) {
	for _, src := range []string{"a { b: c;", "}", "a {\n  b { c: d; }\n"} {
		eng := enginetest.New()
		got, err := dispatch(t, eng, "compile", "-type", "data", src)
		if err != nil {
			t.Fatalf("%q: compilation errors are results, got %v", src, err)
		}
		m := pairs(t, got)
		if m["errorStatus"] == "0" {
			t.Errorf("%q: expected nonzero status", src)
		}
		if m["errorMessage"] == "" {
			t.Errorf("%q: empty message", src)
		}
		if m["errorLine"] == "" || m["errorLine"] == "0" {
			t.Errorf("%q: errorLine = %q", src, m["errorLine"])
		}
		if _, ok := m["errorColumn"]; !ok {
			t.Errorf("%q: no errorColumn", src)
		}
		assertClean(t, eng)
	}
}

func TestCompileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.scss")
	if err := os.WriteFile(path, []byte(".x { y: z; }"), 0o644); err != nil {
		t.Fatal(err)
	}
	eng := enginetest.New()
	got, err := dispatch(t, eng, "compile", "-type", "file", "--", path)
	if err != nil {
		t.Fatal(err)
	}
	if m := pairs(t, got); m["outputString"] != ".x { y: z; }\n" {
		t.Errorf("output = %q", m["outputString"])
	}
	assertClean(t, eng)
}

func TestCompileDoubleDashProtectsSource(t *testing.T) {
	eng := enginetest.New()
	got, err := dispatch(t, eng, "compile", "--", "-type")
	if err != nil {
		t.Fatal(err)
	}
	if m := pairs(t, got); m["outputString"] != "-type\n" {
		t.Errorf("output = %q", m["outputString"])
	}
}

func TestCompileOutputStyles(t *testing.T) {
	for _, style := range []string{"nested", "expanded", "compact", "compressed"} {
		eng := enginetest.New()
		got, err := dispatch(t, eng, "compile", "-options", "output_style "+style, "a { b: c; }")
		if err != nil {
			t.Errorf("%s: %v", style, err)
			continue
		}
		if pairs(t, got)["errorStatus"] != "0" {
			t.Errorf("%s: failed: %q", style, got)
		}
		assertClean(t, eng)
	}

	eng := enginetest.New()
	_, err := dispatch(t, eng, "compile", "-options", "output_style pretty", "a {}")
	if !errors.Is(err, sasscmd.ErrArgumentType) {
		t.Fatalf("expected ErrArgumentType, got %v", err)
	}
	for _, name := range []string{"nested", "expanded", "compact", "compressed"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("message %q does not list %s", err.Error(), name)
		}
	}
	assertClean(t, eng)
}

func TestCompileSourceMap(t *testing.T) {
	eng := enginetest.New()
	got, err := dispatch(t, eng, "compile", "-options", "source_map_file out.css.map output_path out.css", "a { b: c; }")
	if err != nil {
		t.Fatal(err)
	}
	m := pairs(t, got)
	if !strings.Contains(m["sourceMapString"], `"file":"out.css"`) {
		t.Errorf("sourceMapString = %q", m["sourceMapString"])
	}
	if !strings.HasSuffix(m["outputString"], "/*# sourceMappingURL=out.css.map */") {
		t.Errorf("outputString = %q", m["outputString"])
	}
	assertClean(t, eng)
}

func TestCompileEmptySourceMapFileOmitsMap(t *testing.T) {
	eng := enginetest.New()
	got, err := dispatch(t, eng, "compile", "-options", "source_map_file {}", "a { b: c; }")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := pairs(t, got)["sourceMapString"]; ok {
		t.Error("sourceMapString present for empty source_map_file")
	}
}

func TestCompileIdempotent(t *testing.T) {
	eng := enginetest.New()
	args := []string{"compile", "-options", "output_style compressed precision 3", "a {\n  b: c;\n}"}
	first, err := dispatch(t, eng, args...)
	if err != nil {
		t.Fatal(err)
	}
	second, err := dispatch(t, eng, args...)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("outputs differ (-first +second):\n%s", diff)
	}
	if eng.Compiles() != 2 {
		t.Errorf("expected two compiles, got %d", eng.Compiles())
	}
	assertClean(t, eng)
}

func TestCompileUnknownOptionListsEveryKey(t *testing.T) {
	eng := enginetest.New()
	_, err := dispatch(t, eng, "compile", "-options", "precision 1 colour red", "a {}")
	if !errors.Is(err, sasscmd.ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
	msg := strings.TrimPrefix(err.Error(), `bad option "colour": must be `)
	msg = strings.Replace(msg, ", or ", ", ", 1)
	if diff := cmp.Diff(sasscmd.DefaultRegistry().Names(), strings.Split(msg, ", ")); diff != "" {
		t.Errorf("listed names mismatch (-want +got):\n%s", diff)
	}
	assertClean(t, eng)
}

func TestCompileErrorsLeaveNothingAllocated(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"odd dict", []string{"compile", "-options", "precision", "a"}, sasscmd.ErrMalformedDictionary},
		{"bad type", []string{"compile", "-type", "folder", "a"}, sasscmd.ErrUnsupportedContextType},
		{"bad bool", []string{"compile", "-options", "source_comments perhaps", "a"}, sasscmd.ErrArgumentType},
		{"duplicate", []string{"compile", "-options", "indent a indent b", "a"}, sasscmd.ErrDuplicateOption},
		{"missing type", []string{"compile", "-type"}, sasscmd.ErrMissingValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := enginetest.New()
			_, err := dispatch(t, eng, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var argErr *sasscmd.ArgError
			if !errors.As(err, &argErr) {
				t.Errorf("expected *ArgError, got %T", err)
			}
			if eng.Compiles() != 0 {
				t.Error("compiled despite argument error")
			}
			assertClean(t, eng)
		})
	}
}

func TestCompileAllocationFailure(t *testing.T) {
	eng := enginetest.New()
	eng.FailContext = true
	_, err := dispatch(t, eng, "compile", "-options", "precision 4", "a {}")
	if !errors.Is(err, sasscmd.ErrAllocation) {
		t.Fatalf("expected ErrAllocation, got %v", err)
	}
	assertClean(t, eng)
}

func TestCompileThroughInterp(t *testing.T) {
	eng := enginetest.New()
	cmd := sasscmd.NewCommand(eng)
	in := interp.New()
	in.CreateCommand("sass", cmd.Func(), nil)

	out, err := in.Eval(context.Background(), `sass compile -options {output_style compressed} {a { b : c; }}`)
	if err != nil {
		t.Fatal(err)
	}
	elems, err := interp.SplitList(out)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"errorStatus", "0", "outputString", "a{b:c;}\n"}
	if diff := cmp.Diff(want, elems); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	assertClean(t, eng)
}

func BenchmarkCompile(b *testing.B) {
	eng := enginetest.New()
	cmd := sasscmd.NewCommand(eng)
	args := []string{"sass", "compile", "-options", "output_style compressed precision 5", ".a { .b { c: d; } }"}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := cmd.Invoke(ctx, args); err != nil {
			b.Fatal(err)
		}
	}
}
