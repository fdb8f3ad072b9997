package wasm

import "log/slog"

// Option configures a Runner at creation time.
type Option func(*config)

type config struct {
	diskCache        bool
	cacheDir         string
	memoryLimitPages uint32 // 0 = wazero default (4GB)
	logger           *slog.Logger
	name             string
}

func defaultConfig() config {
	return config{
		logger: slog.New(slog.DiscardHandler),
		name:   "sassc",
	}
}

// WithDiskCache keeps compiled modules on disk across processes.
// Optionally provide a directory; otherwise uses XDG_CACHE_HOME/gosass or
// ~/.cache/gosass.
//
//	wasm.Load("sassc.wasm", wasm.WithDiskCache())
//	wasm.Load("sassc.wasm", wasm.WithDiskCache("/tmp/cache"))
func WithDiskCache(dir ...string) Option {
	return func(c *config) {
		c.diskCache = true
		if len(dir) > 0 && dir[0] != "" {
			c.cacheDir = dir[0]
		}
	}
}

// WithMemoryLimit caps guest memory in 64KB pages. Default is 0 (no limit,
// up to 4GB).
func WithMemoryLimit(pages uint32) Option {
	return func(c *config) {
		c.memoryLimitPages = pages
	}
}

// WithLogger sets the logger for per-run traces.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithProgramName sets argv[0] seen by the guest. Default "sassc".
func WithProgramName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// Memory limit constants for convenience.
const (
	MemoryLimit64MB  uint32 = 1024
	MemoryLimit256MB uint32 = 4096
	MemoryLimit1GB   uint32 = 16384
)
