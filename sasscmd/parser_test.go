package sasscmd_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/caffeineduck/gosass/engine"
	"github.com/caffeineduck/gosass/engine/enginetest"
	"github.com/caffeineduck/gosass/sasscmd"
)

func parse(t *testing.T, eng *enginetest.Engine, args ...string) (sasscmd.ParseResult, error) {
	t.Helper()
	return sasscmd.ParseOptions(eng, sasscmd.DefaultRegistry(), append([]string{"sass", "compile"}, args...), 2)
}

func TestParseOptionsPositions(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		origin engine.Origin
		next   int
	}{
		{"bare source", []string{"a{}"}, engine.OriginData, 2},
		{"type file", []string{"-type", "file", "x.scss"}, engine.OriginFile, 4},
		{"type data", []string{"-type", "data", "a{}"}, engine.OriginData, 4},
		{"double dash", []string{"--", "-type"}, engine.OriginData, 3},
		{"double dash last", []string{"-type", "file", "--"}, engine.OriginFile, sasscmd.NoIndex},
		{"exhausted", []string{"-type", "file"}, engine.OriginFile, sasscmd.NoIndex},
		{"empty", nil, engine.OriginData, sasscmd.NoIndex},
		{"stops at first other", []string{"src", "-type", "file"}, engine.OriginData, 2},
		{"type repeated", []string{"-type", "file", "-type", "data", "s"}, engine.OriginData, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := enginetest.New()
			res, err := parse(t, eng, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Origin != tt.origin {
				t.Errorf("origin = %v, want %v", res.Origin, tt.origin)
			}
			if res.Next != tt.next {
				t.Errorf("next = %d, want %d", res.Next, tt.next)
			}
			if res.Options != nil {
				t.Errorf("options allocated without -options")
			}
			if got := eng.Live(); got != (enginetest.Counts{}) {
				t.Errorf("live objects: %+v", got)
			}
		})
	}
}

func TestParseOptionsAppliesDictionary(t *testing.T) {
	eng := enginetest.New()
	res, err := parse(t, eng,
		"-options", "precision 3 {output_style} compressed",
		"-options", "{source_map_file} {out.css.map} indent {  }",
		"src")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Options == nil {
		t.Fatal("expected options")
	}
	defer res.Options.Release()

	fake := eng.LastOptions()
	if fake.Precision != 3 || fake.OutputStyle != engine.StyleCompressed {
		t.Errorf("precision/style not applied: %+v", fake)
	}
	if fake.SourceMapFile != "out.css.map" || fake.Indent != "  " {
		t.Errorf("strings not applied: %+v", fake)
	}
	want := map[string]int{"precision": 1, "output_style": 1, "source_map_file": 1, "indent": 1}
	if diff := cmp.Diff(want, fake.Calls); diff != "" {
		t.Errorf("setter calls (-want +got):\n%s", diff)
	}
	if got := eng.Live().Options; got != 1 {
		t.Errorf("expected one options object, got %d", got)
	}
}

func TestParseOptionsEmptyDictionaryAllocates(t *testing.T) {
	eng := enginetest.New()
	res, err := parse(t, eng, "-options", "", "src")
	if err != nil {
		t.Fatal(err)
	}
	if res.Options == nil {
		t.Fatal("expected options for empty dictionary")
	}
	res.Options.Release()
	if got := eng.Live(); got != (enginetest.Counts{}) {
		t.Errorf("live objects: %+v", got)
	}
}

func TestParseOptionsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
		msg  string
	}{
		{"missing type", []string{"-type"}, sasscmd.ErrMissingValue, "missing context type"},
		{"missing dict", []string{"-options"}, sasscmd.ErrMissingValue, "missing options dictionary"},
		{"bad type", []string{"-type", "folder", "s"}, sasscmd.ErrUnsupportedContextType, `bad context type "folder": must be data or file`},
		{"odd dict", []string{"-options", "precision", "s"}, sasscmd.ErrMalformedDictionary, "malformed dictionary"},
		{"odd dict three", []string{"-options", "precision 1 indent", "s"}, sasscmd.ErrMalformedDictionary, "malformed dictionary"},
		{"unbalanced dict", []string{"-options", "precision {1", "s"}, sasscmd.ErrMalformedDictionary, "malformed dictionary"},
		{"unknown key", []string{"-options", "bogus 1", "s"}, sasscmd.ErrUnknownOption, ""},
		{"bad value", []string{"-options", "precision x", "s"}, sasscmd.ErrArgumentType, `expected integer but got "x"`},
		{"duplicate in dict", []string{"-options", "precision 1 precision 2", "s"}, sasscmd.ErrDuplicateOption, `duplicate option "precision"`},
		{"duplicate across dicts", []string{"-options", "indent a", "-options", "indent b", "s"}, sasscmd.ErrDuplicateOption, `duplicate option "indent"`},
		{"error after good", []string{"-options", "precision 1", "-type", "x"}, sasscmd.ErrUnsupportedContextType, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := enginetest.New()
			res, err := parse(t, eng, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if tt.msg != "" && err.Error() != tt.msg {
				t.Errorf("message %q, want %q", err.Error(), tt.msg)
			}
			if res != (sasscmd.ParseResult{}) {
				t.Errorf("partial result returned: %+v", res)
			}
			if got := eng.Live(); got != (enginetest.Counts{}) {
				t.Errorf("leaked objects: %+v", got)
			}
			if m := eng.Misuse(); len(m) != 0 {
				t.Errorf("misuse: %v", m)
			}
		})
	}
}

func TestParseOptionsAllocationFailure(t *testing.T) {
	eng := enginetest.New()
	eng.FailOptions = true
	_, err := parse(t, eng, "-options", "precision 1", "s")
	if !errors.Is(err, sasscmd.ErrAllocation) {
		t.Fatalf("expected ErrAllocation, got %v", err)
	}
}

func TestParseOptionsOddDictionaryAnyContent(t *testing.T) {
	for _, dict := range []string{"a", "a b c", "precision 1 output_style", "{} {} {}", "x y z w v"} {
		eng := enginetest.New()
		if _, err := parse(t, eng, "-options", dict, "s"); !errors.Is(err, sasscmd.ErrMalformedDictionary) {
			t.Errorf("dict %q: expected ErrMalformedDictionary, got %v", dict, err)
		}
		if eng.Live().Options != 0 {
			t.Errorf("dict %q: options allocated", dict)
		}
	}
}
