// Package wasm runs a WASI build of sassc under wazero as a sassc.Runner.
//
// The module is compiled once when the Runner is created and instantiated
// fresh for every run. The guest sees the directories named by the
// invocation and the working directory, each at its host path: the output
// dir read-write and the rest read-only.
package wasm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"

	"github.com/caffeineduck/gosass/engine/sassc"
)

var ErrClosed = errors.New("wasm runner closed")

// Runner implements sassc.Runner with a compiled WebAssembly module.
type Runner struct {
	runtime  wazero.Runtime
	cache    wazero.CompilationCache
	compiled wazero.CompiledModule
	cfg      config

	mu     sync.RWMutex
	closed bool
}

var _ sassc.Runner = (*Runner)(nil)

// Load reads a module from path and compiles it.
func Load(path string, opts ...Option) (*Runner, error) {
	bin, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read module: %w", err)
	}
	return New(bin, opts...)
}

// New compiles bin, a WASI command module.
func New(bin []byte, opts ...Option) (*Runner, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx := context.Background()

	var cache wazero.CompilationCache
	var err error

	if cfg.diskCache {
		cacheDir := cfg.cacheDir
		if cacheDir == "" {
			cacheDir = defaultCacheDir()
		}
		cache, err = wazero.NewCompilationCacheWithDir(cacheDir)
		if err != nil {
			return nil, fmt.Errorf("create disk cache: %w", err)
		}
	}

	rtConfig := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	if cache != nil {
		rtConfig = rtConfig.WithCompilationCache(cache)
	}
	if cfg.memoryLimitPages > 0 {
		rtConfig = rtConfig.WithMemoryLimitPages(cfg.memoryLimitPages)
	}

	rt := wazero.NewRuntimeWithConfig(ctx, rtConfig)
	fail := func(err error) (*Runner, error) {
		rt.Close(ctx)
		if cache != nil {
			cache.Close(ctx)
		}
		return nil, err
	}

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		return fail(fmt.Errorf("instantiate WASI: %w", err))
	}
	compiled, err := rt.CompileModule(ctx, bin)
	if err != nil {
		return fail(fmt.Errorf("compile module: %w", err))
	}

	return &Runner{runtime: rt, cache: cache, compiled: compiled, cfg: cfg}, nil
}

// Run instantiates the module with inv's arguments and mounts and waits
// for it to exit.
func (r *Runner) Run(ctx context.Context, inv sassc.Invocation, stdout, stderr io.Writer) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return -1, ErrClosed
	}

	fsConfig := wazero.NewFSConfig()
	seen := make(map[string]bool)
	if inv.WriteDir != "" {
		fsConfig = fsConfig.WithDirMount(inv.WriteDir, inv.WriteDir)
		seen[inv.WriteDir] = true
	}
	for _, dir := range inv.ReadDirs {
		abs, err := filepath.Abs(dir)
		if err != nil || seen[abs] {
			continue
		}
		seen[abs] = true
		fsConfig = fsConfig.WithReadOnlyDirMount(abs, abs)
	}
	// Relative load paths resolve against the guest's working directory.
	if wd, err := os.Getwd(); err == nil && !seen[wd] {
		fsConfig = fsConfig.WithReadOnlyDirMount(wd, wd)
	}

	stdin := inv.Stdin
	if stdin == nil {
		stdin = eofReader{}
	}

	moduleConfig := wazero.NewModuleConfig().
		WithStdout(stdout).
		WithStderr(stderr).
		WithStdin(stdin).
		WithArgs(append([]string{r.cfg.name}, inv.Args...)...).
		WithFSConfig(fsConfig).
		WithSysWalltime().
		WithName("")

	mod, err := r.runtime.InstantiateModule(ctx, r.compiled, moduleConfig)
	if mod != nil {
		defer mod.Close(ctx)
	}

	if err != nil && ctx.Err() != nil {
		return -1, fmt.Errorf("execution cancelled: %w", ctx.Err())
	}
	code, err := exitCode(err)
	r.cfg.logger.Debug("wasm run", "args", inv.Args, "exit", code)
	if err != nil {
		return -1, fmt.Errorf("execution failed: %w", err)
	}
	return code, nil
}

// exitCode separates a guest exit from a failure to run.
func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *sys.ExitError
	if errors.As(err, &exitErr) {
		return int(exitErr.ExitCode()), nil
	}
	return -1, err
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

// Close releases the runtime and the compilation cache.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	ctx := context.Background()

	var errs []error
	if err := r.runtime.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if r.cache != nil {
		if err := r.cache.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func defaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "gosass")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "gosass")
	}
	return filepath.Join(os.TempDir(), "gosass-cache")
}
