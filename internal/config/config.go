// Package config loads gosass settings from an HCL file.
//
//	engine      = "wasm"
//	wasm_module = "tools/sassc.wasm"
//	memory      = "256mb"
//	log_level   = "debug"
//
//	defaults = {
//	  output_style = "compressed"
//	  precision    = 8
//	}
//
// Command-line flags override file values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// DefaultFile is read from the working directory when no file is named.
const DefaultFile = ".gosass.hcl"

// Engine names.
const (
	EngineSassc   = "sassc"
	EngineWasm    = "wasm"
	EngineLibsass = "libsass"
)

// Config is the resolved configuration.
type Config struct {
	Engine     string
	SasscPath  string
	WasmModule string
	CacheDir   string
	// Memory is the guest memory limit in 64KB pages, 0 for no limit.
	Memory    uint32
	LogLevel  string
	LogFormat string
	// Defaults are compile options as ordered name/value pairs, applied
	// before any given on the command line.
	Defaults []string
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Engine:    EngineSassc,
		SasscPath: "sassc",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

type file struct {
	Engine     *string        `hcl:"engine,optional"`
	SasscPath  *string        `hcl:"sassc_path,optional"`
	WasmModule *string        `hcl:"wasm_module,optional"`
	CacheDir   *string        `hcl:"cache_dir,optional"`
	Memory     *string        `hcl:"memory,optional"`
	LogLevel   *string        `hcl:"log_level,optional"`
	LogFormat  *string        `hcl:"log_format,optional"`
	Defaults   hcl.Expression `hcl:"defaults,optional"`
}

// Load reads path over the defaults. If path is empty, DefaultFile is
// read when it exists.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	src, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, path)
}

// Parse decodes HCL source over the defaults. filename is used in
// diagnostics.
func Parse(src []byte, filename string) (Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to parse HCL file %s: %s", filename, diags.Error())
	}

	var raw file
	diags = gohcl.DecodeBody(f.Body, nil, &raw)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to decode HCL file %s: %s", filename, diags.Error())
	}

	cfg := Default()
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&cfg.Engine, raw.Engine)
	set(&cfg.SasscPath, raw.SasscPath)
	set(&cfg.WasmModule, raw.WasmModule)
	set(&cfg.CacheDir, raw.CacheDir)
	set(&cfg.LogLevel, raw.LogLevel)
	set(&cfg.LogFormat, raw.LogFormat)

	if raw.Memory != nil {
		pages, err := ParseMemoryLimit(*raw.Memory)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", filename, err)
		}
		cfg.Memory = pages
	}

	if raw.Defaults != nil {
		pairs, diags := decodeDefaults(raw.Defaults)
		if diags.HasErrors() {
			return Config{}, fmt.Errorf("failed to decode defaults in %s: %s", filename, diags.Error())
		}
		cfg.Defaults = pairs
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// decodeDefaults turns an object of scalars into name/value pairs sorted
// by name. Numbers and bools are rendered as strings.
func decodeDefaults(expr hcl.Expression) ([]string, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() || val.IsNull() {
		return nil, diags
	}

	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid defaults value",
			Detail:   "The 'defaults' attribute must be an object of option names to values.",
			Subject:  expr.Range().Ptr(),
		})
	}

	var pairs []string
	it := val.ElementIterator()
	for it.Next() {
		k, v := it.Element()
		s, err := convert.Convert(v, cty.String)
		if err != nil || s.IsNull() || !s.IsKnown() {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid defaults value",
				Detail:   fmt.Sprintf("Option %q must be a string, number or bool.", k.AsString()),
				Subject:  expr.Range().Ptr(),
			})
			continue
		}
		pairs = append(pairs, k.AsString(), s.AsString())
	}
	return pairs, diags
}

// Validate checks the engine name, log settings and that a wasm engine
// has a module.
func (c Config) Validate() error {
	switch c.Engine {
	case EngineSassc, EngineLibsass:
	case EngineWasm:
		if c.WasmModule == "" {
			return errors.New("engine \"wasm\" needs wasm_module")
		}
	default:
		return fmt.Errorf("unknown engine %q: use %s, %s, or %s", c.Engine, EngineSassc, EngineWasm, EngineLibsass)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q: use debug, info, warn, or error", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q: use text or json", c.LogFormat)
	}
	return nil
}

var memoryLimits = map[string]uint32{
	"64mb":  1024,
	"256mb": 4096,
	"1gb":   16384,
	"4gb":   0,
}

// ParseMemoryLimit converts a size such as "256mb" to 64KB pages. Empty
// means no limit.
func ParseMemoryLimit(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	pages, ok := memoryLimits[strings.ToLower(s)]
	if !ok {
		names := make([]string, 0, len(memoryLimits))
		for name := range memoryLimits {
			names = append(names, name)
		}
		sort.Strings(names)
		return 0, fmt.Errorf("unknown memory limit %q: use one of %s", s, strings.Join(names, ", "))
	}
	return pages, nil
}
