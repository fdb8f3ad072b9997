package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/caffeineduck/gosass/engine"
	"github.com/caffeineduck/gosass/engine/sassc"
	"github.com/caffeineduck/gosass/engine/wasm"
	"github.com/caffeineduck/gosass/internal/config"
	"github.com/caffeineduck/gosass/interp"
	"github.com/caffeineduck/gosass/sasscmd"
)

// newEngine opens the compiler selected by cfg. Tests replace it.
var newEngine = openEngine

// host is an interpreter with the sass package loaded.
type host struct {
	cfg    config.Config
	logger *slog.Logger
	pkg    *sasscmd.Package
	in     *interp.Interp
}

// openHost resolves settings for cmd, opens the engine and loads the sass
// package into a fresh interpreter whose puts output goes to stdout.
func openHost(cmd *cobra.Command, stdout io.Writer) (*host, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

	noCache, _ := cmd.Flags().GetBool("no-cache")
	eng, err := newEngine(cfg, noCache, logger)
	if err != nil {
		return nil, err
	}

	pkg := sasscmd.NewPackage(eng, sasscmd.WithLogger(logger))
	in := interp.New(interp.WithStdout(stdout))
	if err := pkg.Init(in); err != nil {
		pkg.Teardown()
		return nil, err
	}
	logger.Debug("host ready", "engine", cfg.Engine, "version", eng.Version())
	return &host{cfg: cfg, logger: logger, pkg: pkg, in: in}, nil
}

func (h *host) Close() {
	h.pkg.Teardown()
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{"engine", &cfg.Engine},
		{"sassc", &cfg.SasscPath},
		{"wasm-module", &cfg.WasmModule},
		{"cache-dir", &cfg.CacheDir},
		{"log-level", &cfg.LogLevel},
		{"log-format", &cfg.LogFormat},
	}
	for _, o := range overrides {
		if flags.Changed(o.flag) {
			*o.dst, _ = flags.GetString(o.flag)
		}
	}
	if flags.Changed("memory") {
		s, _ := flags.GetString("memory")
		pages, err := config.ParseMemoryLimit(s)
		if err != nil {
			return cfg, err
		}
		cfg.Memory = pages
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger builds a leveled text or JSON logger writing to w.
func newLogger(levelStr, formatStr string, w io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}

func openEngine(cfg config.Config, noCache bool, logger *slog.Logger) (engine.Engine, error) {
	switch cfg.Engine {
	case config.EngineSassc:
		return sassc.New(sassc.ProcessRunner{Path: cfg.SasscPath}, sassc.WithLogger(logger)), nil

	case config.EngineWasm:
		opts := []wasm.Option{
			wasm.WithLogger(logger),
			wasm.WithMemoryLimit(cfg.Memory),
		}
		if !noCache {
			opts = append(opts, wasm.WithDiskCache(cfg.CacheDir))
		}
		r, err := wasm.Load(cfg.WasmModule, opts...)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", cfg.WasmModule, err)
		}
		return sassc.New(r, sassc.WithLogger(logger)), nil

	case config.EngineLibsass:
		return openLibsass()
	}
	return nil, fmt.Errorf("unknown engine %q", cfg.Engine)
}
