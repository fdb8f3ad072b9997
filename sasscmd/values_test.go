package sasscmd_test

import (
	"errors"
	"testing"

	"github.com/caffeineduck/gosass/engine"
	"github.com/caffeineduck/gosass/sasscmd"
)

func TestResolveBool(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
		ok   bool
	}{
		{"1", true, true},
		{"0", false, true},
		{"-7", true, true},
		{"0x0", false, true},
		{"true", true, true},
		{"False", false, true},
		{"YES", true, true},
		{"no", false, true},
		{" on ", true, true},
		{"off", false, true},
		{"", false, false},
		{"y", false, false},
		{"t", false, false},
		{"2.0", false, false},
	}
	for _, tt := range tests {
		got, err := sasscmd.ResolveBool(tt.raw)
		if tt.ok != (err == nil) {
			t.Errorf("ResolveBool(%q): err = %v, want ok=%v", tt.raw, err, tt.ok)
			continue
		}
		if err != nil && !errors.Is(err, sasscmd.ErrArgumentType) {
			t.Errorf("ResolveBool(%q): expected ErrArgumentType, got %v", tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("ResolveBool(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestResolveOutputStyleAll(t *testing.T) {
	for _, s := range engine.OutputStyles() {
		got, err := sasscmd.ResolveOutputStyle(s.String())
		if err != nil {
			t.Errorf("ResolveOutputStyle(%q): %v", s, err)
		}
		if got != s {
			t.Errorf("ResolveOutputStyle(%q) = %v", s, got)
		}
	}
	for _, raw := range []string{"", "nest", "nestedx", "COMPRESSED", " compact"} {
		if _, err := sasscmd.ResolveOutputStyle(raw); !errors.Is(err, sasscmd.ErrArgumentType) {
			t.Errorf("ResolveOutputStyle(%q): expected ErrArgumentType, got %v", raw, err)
		}
	}
}

func TestResolveOrigin(t *testing.T) {
	if o, err := sasscmd.ResolveOrigin("data"); err != nil || o != engine.OriginData {
		t.Errorf("data: got %v, %v", o, err)
	}
	if o, err := sasscmd.ResolveOrigin("file"); err != nil || o != engine.OriginFile {
		t.Errorf("file: got %v, %v", o, err)
	}
	for _, raw := range []string{"folder", "Data", "", "unset"} {
		_, err := sasscmd.ResolveOrigin(raw)
		if !errors.Is(err, sasscmd.ErrUnsupportedContextType) {
			t.Errorf("ResolveOrigin(%q): expected ErrUnsupportedContextType, got %v", raw, err)
		}
	}
}
