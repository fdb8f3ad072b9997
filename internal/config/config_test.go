package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFull(t *testing.T) {
	src := `
engine      = "wasm"
sassc_path  = "/opt/bin/sassc"
wasm_module = "sassc.wasm"
cache_dir   = "/tmp/gosass"
memory      = "256MB"
log_level   = "debug"
log_format  = "json"

defaults = {
  precision       = 8
  output_style    = "compressed"
  source_comments = true
}
`
	got, err := Parse([]byte(src), "test.hcl")
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Engine:     EngineWasm,
		SasscPath:  "/opt/bin/sassc",
		WasmModule: "sassc.wasm",
		CacheDir:   "/tmp/gosass",
		Memory:     4096,
		LogLevel:   "debug",
		LogFormat:  "json",
		Defaults:   []string{"output_style", "compressed", "precision", "8", "source_comments", "true"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmpty(t *testing.T) {
	got, err := Parse(nil, "empty.hcl")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", `engine = `, "failed to parse"},
		{"unknown key", `colour = "red"`, "failed to decode"},
		{"bad engine", `engine = "dart"`, `unknown engine "dart"`},
		{"wasm without module", `engine = "wasm"`, "needs wasm_module"},
		{"bad memory", `memory = "3mb"`, `unknown memory limit "3mb"`},
		{"bad level", `log_level = "loud"`, `unknown log level "loud"`},
		{"bad format", `log_format = "xml"`, `unknown log format "xml"`},
		{"defaults not object", `defaults = "x"`, "must be an object"},
		{"nested default", `defaults = { output_style = { a = 1 } }`, `Option "output_style"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.hcl")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gosass.hcl")
	if err := os.WriteFile(path, []byte(`log_level = "warn"`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.LogLevel != "warn" || got.Engine != EngineSassc {
		t.Errorf("unexpected config: %+v", got)
	}

	if _, err := Load(filepath.Join(dir, "missing.hcl")); err == nil {
		t.Error("expected error for missing explicit file")
	}
}

func TestLoadDefaultFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	got, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDefaultFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, DefaultFile), []byte(`engine = "libsass"`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if got.Engine != EngineLibsass {
		t.Errorf("engine = %q", got.Engine)
	}
}

func TestParseMemoryLimit(t *testing.T) {
	tests := map[string]uint32{"": 0, "64mb": 1024, "1GB": 16384, "4gb": 0}
	for in, want := range tests {
		got, err := ParseMemoryLimit(in)
		if err != nil || got != want {
			t.Errorf("ParseMemoryLimit(%q) = %d, %v", in, got, err)
		}
	}
	if _, err := ParseMemoryLimit("lots"); err == nil {
		t.Error("expected error")
	}
}
