package sasscmd_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/caffeineduck/gosass/engine/enginetest"
	"github.com/caffeineduck/gosass/sasscmd"
)

func TestSuccessPairs(t *testing.T) {
	m := `{"version":3}`
	tests := []struct {
		name string
		res  sasscmd.Result
		want []string
	}{
		{"css only", &sasscmd.Success{Output: "a{}"}, []string{"errorStatus", "0", "outputString", "a{}"}},
		{"with map", &sasscmd.Success{Output: "", SourceMap: &m}, []string{"errorStatus", "0", "outputString", "", "sourceMapString", m}},
		{"failure", &sasscmd.Failure{Status: 1, Message: "bad", Line: 3, Column: 7}, []string{
			"errorStatus", "1", "errorMessage", "bad", "errorLine", "3", "errorColumn", "7",
		}},
		{"failure at zero", &sasscmd.Failure{Status: 3, Message: "io"}, []string{
			"errorStatus", "3", "errorMessage", "io", "errorLine", "0", "errorColumn", "0",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.res.Pairs()); diff != "" {
				t.Errorf("pairs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarshalSourceMapOnlyWhenRequested(t *testing.T) {
	for _, file := range []string{"", "out.css.map"} {
		eng := enginetest.New()
		opts, _ := eng.NewOptions()
		opts.SetSourceMapFile(file)

		buf, _ := eng.CopyString("a { b: c; }")
		c, _ := eng.NewDataContext(buf)
		c.SetOptions(opts)
		c.Compile(context.Background())

		res := sasscmd.Marshal(c)
		s, ok := res.(*sasscmd.Success)
		if !ok {
			t.Fatalf("expected success, got %#v", res)
		}
		if (s.SourceMap != nil) != (file != "") {
			t.Errorf("source_map_file %q: source map present = %v", file, s.SourceMap != nil)
		}

		// Marshal leaves the context alive.
		if eng.Live().Contexts != 1 {
			t.Errorf("context released by Marshal")
		}
		c.Delete()
		buf.Free()
		assertClean(t, eng)
	}
}

func TestFailureError(t *testing.T) {
	f := &sasscmd.Failure{Status: 1, Message: "Invalid CSS", Line: 2, Column: 5}
	want := "compilation failed at line 2, column 5: Invalid CSS"
	if f.Error() != want {
		t.Errorf("Error() = %q, want %q", f.Error(), want)
	}
}
