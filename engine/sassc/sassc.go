// Package sassc implements the engine contract by running the sassc
// command line, either as a child process or through another Runner such
// as the WebAssembly one in engine/wasm.
//
// Each compile runs sassc once with its output directed into a fresh
// temporary directory, which is removed before Compile returns.
package sassc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/caffeineduck/gosass/engine"
)

// Status codes reported by Context.ErrorStatus besides sassc's own exit
// code.
const (
	StatusOutputMissing = 2
	StatusRunFailed     = 3
)

// UnknownVersion is reported when the libsass version cannot be read.
const UnknownVersion = "unknown"

// Option configures an Engine.
type Option func(*config)

type config struct {
	logger  *slog.Logger
	tempDir string
}

// WithLogger sets the logger for per-run traces.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTempDir sets the parent of the per-compile output directories.
// Default is os.TempDir().
func WithTempDir(dir string) Option {
	return func(c *config) {
		c.tempDir = dir
	}
}

// Engine runs sassc through a Runner.
type Engine struct {
	runner  Runner
	logger  *slog.Logger
	tempDir string

	versionOnce sync.Once
	version     string
}

// New returns an engine that runs sassc with r.
func New(r Runner, opts ...Option) *Engine {
	cfg := config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{runner: r, logger: cfg.logger, tempDir: cfg.tempDir}
}

// Version runs "sassc --version" on first use and reports the libsass
// line.
func (e *Engine) Version() string {
	e.versionOnce.Do(func() {
		e.version = UnknownVersion
		var stdout, stderr bytes.Buffer
		code, err := e.runner.Run(context.Background(), Invocation{Args: []string{"--version"}}, &stdout, &stderr)
		if err != nil || code != 0 {
			e.logger.Warn("sassc version failed", "exit", code, "error", err, "stderr", stderr.String())
			return
		}
		if v, ok := parseVersion(stdout.String()); ok {
			e.version = v
		}
	})
	return e.version
}

// Close closes the runner if it holds resources.
func (e *Engine) Close() error {
	if c, ok := e.runner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (e *Engine) NewOptions() (engine.Options, error) {
	return &Options{}, nil
}

func (e *Engine) NewFileContext(path string) (engine.Context, error) {
	return &Context{eng: e, origin: engine.OriginFile, path: path}, nil
}

func (e *Engine) CopyString(s string) (engine.Buffer, error) {
	return &Buffer{data: []byte(s)}, nil
}

func (e *Engine) NewDataContext(src engine.Buffer) (engine.Context, error) {
	b := src.Bytes()
	if b == nil {
		return nil, errors.New("data context from freed buffer")
	}
	return &Context{eng: e, origin: engine.OriginData, source: append([]byte(nil), b...)}, nil
}

// Buffer is a private copy of a source string.
type Buffer struct {
	data []byte
}

func (b *Buffer) Bytes() []byte { return b.data }
func (b *Buffer) Free()         { b.data = nil }

// Options collects settings until they are turned into sassc flags.
// input_path, output_path and source_map_contents have no sassc flag and
// are only recorded.
type Options struct {
	precision    int
	hasPrecision bool
	style        engine.OutputStyle
	hasStyle     bool

	sourceComments    bool
	sourceMapEmbed    bool
	sourceMapContents bool
	omitSourceMapURL  bool
	indented          bool

	indent        string
	linefeed      string
	inputPath     string
	outputPath    string
	includePath   string
	sourceMapFile string
}

func (o *Options) SetPrecision(n int) { o.precision, o.hasPrecision = n, true }

func (o *Options) SetOutputStyle(s engine.OutputStyle) { o.style, o.hasStyle = s, true }

func (o *Options) SetSourceComments(b bool)      { o.sourceComments = b }
func (o *Options) SetSourceMapEmbed(b bool)      { o.sourceMapEmbed = b }
func (o *Options) SetSourceMapContents(b bool)   { o.sourceMapContents = b }
func (o *Options) SetOmitSourceMapURL(b bool)    { o.omitSourceMapURL = b }
func (o *Options) SetIsIndentedSyntaxSrc(b bool) { o.indented = b }
func (o *Options) SetIndent(s string)            { o.indent = s }
func (o *Options) SetLinefeed(s string)          { o.linefeed = s }
func (o *Options) SetInputPath(s string)         { o.inputPath = s }
func (o *Options) SetOutputPath(s string)        { o.outputPath = s }
func (o *Options) SetIncludePath(s string)       { o.includePath = s }
func (o *Options) SetSourceMapFile(s string)     { o.sourceMapFile = s }

// Release is a no-op; options hold no external resources.
func (o *Options) Release() {}

// Context is one sassc run.
type Context struct {
	eng    *Engine
	origin engine.Origin
	path   string
	source []byte
	opts   *Options

	status  int
	message string
	line    int
	column  int
	output  string
	srcMap  string
}

// SetOptions attaches opts, which must come from the same package.
func (c *Context) SetOptions(opts engine.Options) {
	if o, ok := opts.(*Options); ok {
		c.opts = o
	}
}

func (c *Context) options() *Options {
	if c.opts == nil {
		return &Options{}
	}
	return c.opts
}

func (c *Context) Compile(ctx context.Context) int {
	opts := c.options()

	dir, err := os.MkdirTemp(c.eng.tempDir, "gosass-")
	if err != nil {
		return c.fail(StatusRunFailed, fmt.Sprintf("create output directory: %v", err))
	}
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, outputName)
	inv := Invocation{
		ReadDirs: opts.includeDirs(),
		WriteDir: dir,
	}
	if c.origin == engine.OriginFile {
		inv.Args = opts.args(c.path, false, out)
		if abs, err := filepath.Abs(c.path); err == nil {
			inv.ReadDirs = append(inv.ReadDirs, filepath.Dir(abs))
		}
	} else {
		inv.Args = opts.args("", true, out)
		inv.Stdin = bytes.NewReader(c.source)
	}

	var stdout, stderr bytes.Buffer
	code, err := c.eng.runner.Run(ctx, inv, &stdout, &stderr)
	c.eng.logger.Debug("sassc run", "args", inv.Args, "exit", code)
	if err != nil {
		return c.fail(StatusRunFailed, err.Error())
	}
	if code != 0 {
		msg := stderr.String()
		if msg == "" {
			msg = fmt.Sprintf("sassc exited with status %d", code)
		}
		c.line, c.column = parseDiagnostic(msg)
		return c.fail(code, msg)
	}

	css, err := os.ReadFile(out)
	if err != nil {
		return c.fail(StatusOutputMissing, fmt.Sprintf("read sassc output: %v", err))
	}
	c.output = opts.finish(string(css))

	switch {
	case opts.sourceMapFile == "":
	case opts.sourceMapEmbed:
		c.srcMap = inlineMap(c.output)
	default:
		if m, err := os.ReadFile(out + ".map"); err == nil {
			c.srcMap = strings.TrimRight(string(m), "\n")
		}
	}
	return 0
}

func (c *Context) fail(status int, msg string) int {
	c.status = status
	c.message = msg
	return status
}

func (c *Context) ErrorStatus() int        { return c.status }
func (c *Context) ErrorMessage() string    { return c.message }
func (c *Context) ErrorLine() int          { return c.line }
func (c *Context) ErrorColumn() int        { return c.column }
func (c *Context) OutputString() string    { return c.output }
func (c *Context) SourceMapString() string { return c.srcMap }
func (c *Context) SourceMapFile() string   { return c.options().sourceMapFile }

// Delete drops the context and its options.
func (c *Context) Delete() {
	c.opts = nil
	c.source = nil
}
