// Package enginetest provides an in-memory engine for testing code that
// drives the engine contract, without a real SASS compiler.
//
// The fake "compiles" by checking brace balance and echoing the source in a
// style-dependent layout, which is enough to exercise option plumbing,
// diagnostics and object lifetimes. It also counts live objects and records
// every lifecycle event so tests can assert that nothing leaks.
package enginetest

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/caffeineduck/gosass/engine"
)

// DefaultVersion is reported by Version unless overridden.
const DefaultVersion = "3.6.5-fake"

// Counts reports live native objects.
type Counts struct {
	Options  int
	Contexts int
	Buffers  int
}

// Engine is a fake engine.Engine.
type Engine struct {
	VersionString string

	// Allocation failures to inject.
	FailOptions bool
	FailContext bool
	FailCopy    bool

	mu       sync.Mutex
	live     Counts
	events   []string
	misuse   []string
	compiles int
	last     *Options
}

// New returns a fake engine.
func New() *Engine {
	return &Engine{VersionString: DefaultVersion}
}

func (e *Engine) Version() string {
	return e.VersionString
}

// Live returns the number of objects allocated and not yet released.
func (e *Engine) Live() Counts {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live
}

// Events returns the lifecycle events in order.
func (e *Engine) Events() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.events...)
}

// Misuse returns ownership violations seen so far, such as releasing
// attached options or deleting a context twice.
func (e *Engine) Misuse() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.misuse...)
}

// Compiles returns how many times Compile was called.
func (e *Engine) Compiles() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.compiles
}

// LastOptions returns the options object most recently allocated.
func (e *Engine) LastOptions() *Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

func (e *Engine) event(format string, args ...any) {
	e.events = append(e.events, fmt.Sprintf(format, args...))
}

func (e *Engine) misused(format string, args ...any) {
	e.misuse = append(e.misuse, fmt.Sprintf(format, args...))
}

func (e *Engine) NewOptions() (engine.Options, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FailOptions {
		return nil, fmt.Errorf("options allocation failed")
	}
	o := &Options{eng: e, Calls: make(map[string]int), Precision: 10}
	e.live.Options++
	e.last = o
	e.event("options")
	return o, nil
}

func (e *Engine) NewFileContext(path string) (engine.Context, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FailContext {
		return nil, fmt.Errorf("file context allocation failed")
	}
	e.live.Contexts++
	e.event("file context %s", path)
	return &Context{eng: e, origin: engine.OriginFile, path: path}, nil
}

func (e *Engine) CopyString(s string) (engine.Buffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FailCopy {
		return nil, fmt.Errorf("string copy failed")
	}
	e.live.Buffers++
	e.event("copy")
	return &Buffer{eng: e, data: []byte(s)}, nil
}

func (e *Engine) NewDataContext(src engine.Buffer) (engine.Context, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if b, ok := src.(*Buffer); ok && b.freed {
		e.misused("data context made from freed buffer")
	}
	if e.FailContext {
		return nil, fmt.Errorf("data context allocation failed")
	}
	e.live.Contexts++
	e.event("data context")
	return &Context{eng: e, origin: engine.OriginData, source: string(src.Bytes())}, nil
}

// Buffer is a fake engine.Buffer.
type Buffer struct {
	eng   *Engine
	data  []byte
	freed bool
}

func (b *Buffer) Bytes() []byte { return b.data }

func (b *Buffer) Free() {
	b.eng.mu.Lock()
	defer b.eng.mu.Unlock()
	if b.freed {
		b.eng.misused("buffer freed twice")
		return
	}
	b.freed = true
	b.data = nil
	b.eng.live.Buffers--
	b.eng.event("free")
}

// Options is a fake engine.Options that records every setter call.
type Options struct {
	eng *Engine

	// Calls counts setter invocations by option name.
	Calls map[string]int

	Precision           int
	OutputStyle         engine.OutputStyle
	SourceComments      bool
	SourceMapEmbed      bool
	SourceMapContents   bool
	OmitSourceMapURL    bool
	IsIndentedSyntaxSrc bool
	Indent              string
	Linefeed            string
	InputPath           string
	OutputPath          string
	IncludePath         string
	SourceMapFile       string

	attached bool
	released bool
}

func (o *Options) call(name string) {
	o.eng.mu.Lock()
	defer o.eng.mu.Unlock()
	if o.released {
		o.eng.misused("set %s on released options", name)
	}
	o.Calls[name]++
}

func (o *Options) SetPrecision(n int) { o.call("precision"); o.Precision = n }
func (o *Options) SetOutputStyle(s engine.OutputStyle) { o.call("output_style"); o.OutputStyle = s }
func (o *Options) SetSourceComments(b bool) { o.call("source_comments"); o.SourceComments = b }
func (o *Options) SetSourceMapEmbed(b bool) { o.call("source_map_embed"); o.SourceMapEmbed = b }
func (o *Options) SetSourceMapContents(b bool) { o.call("source_map_contents"); o.SourceMapContents = b }
func (o *Options) SetOmitSourceMapURL(b bool) { o.call("omit_source_map_url"); o.OmitSourceMapURL = b }
func (o *Options) SetIsIndentedSyntaxSrc(b bool) { o.call("is_indented_syntax_src"); o.IsIndentedSyntaxSrc = b }
func (o *Options) SetIndent(s string) { o.call("indent"); o.Indent = s }
func (o *Options) SetLinefeed(s string) { o.call("linefeed"); o.Linefeed = s }
func (o *Options) SetInputPath(s string) { o.call("input_path"); o.InputPath = s }
func (o *Options) SetOutputPath(s string) { o.call("output_path"); o.OutputPath = s }
func (o *Options) SetIncludePath(s string) { o.call("include_path"); o.IncludePath = s }
func (o *Options) SetSourceMapFile(s string) { o.call("source_map_file"); o.SourceMapFile = s }

func (o *Options) Release() {
	o.eng.mu.Lock()
	defer o.eng.mu.Unlock()
	switch {
	case o.attached:
		o.eng.misused("release of attached options")
		return
	case o.released:
		o.eng.misused("options released twice")
		return
	}
	o.released = true
	o.eng.live.Options--
	o.eng.event("release options")
}

// Context is a fake engine.Context.
type Context struct {
	eng    *Engine
	origin engine.Origin
	path   string
	source string
	opts   *Options

	compiled bool
	deleted  bool

	status  int
	message string
	line    int
	column  int
	output  string
	srcMap  string
}

func (c *Context) SetOptions(opts engine.Options) {
	c.eng.mu.Lock()
	defer c.eng.mu.Unlock()
	o, ok := opts.(*Options)
	if !ok {
		c.eng.misused("foreign options attached")
		return
	}
	if o.attached || o.released {
		c.eng.misused("options attached twice or after release")
		return
	}
	if c.opts != nil {
		c.eng.misused("context options replaced")
	}
	o.attached = true
	c.opts = o
	c.eng.event("attach")
}

func (c *Context) Compile(ctx context.Context) int {
	c.eng.mu.Lock()
	if c.compiled {
		c.eng.misused("context compiled twice")
	}
	if c.deleted {
		c.eng.misused("compile after delete")
	}
	c.compiled = true
	c.eng.compiles++
	c.eng.event("compile")
	c.eng.mu.Unlock()

	if err := ctx.Err(); err != nil {
		c.fail(1, err.Error(), 0, 0)
		return c.status
	}

	name := "stdin"
	src := c.source
	if c.origin == engine.OriginFile {
		name = c.path
		data, err := os.ReadFile(c.path)
		if err != nil {
			c.fail(1, "File to read not found or unreadable: "+c.path, 0, 0)
			return c.status
		}
		src = string(data)
	}
	if c.opts != nil && c.opts.InputPath != "" {
		name = c.opts.InputPath
	}

	if msg, line, col, ok := checkBraces(src); !ok {
		c.fail(1, fmt.Sprintf("Error: %s\n        on line %d:%d of %s\n", msg, line, col, name), line, col)
		return c.status
	}

	c.output = c.render(src, name)
	return 0
}

func (c *Context) fail(status int, msg string, line, col int) {
	c.status = status
	c.message = msg
	c.line = line
	c.column = col
}

func (c *Context) render(src, name string) string {
	var opts Options
	if c.opts != nil {
		opts = *c.opts
	}

	var b strings.Builder
	if opts.SourceComments {
		fmt.Fprintf(&b, "/* line 1, %s */\n", name)
	}
	if opts.OutputStyle == engine.StyleCompressed {
		b.WriteString(strings.Join(strings.Fields(src), ""))
		b.WriteString("\n")
	} else {
		for _, line := range strings.Split(strings.TrimSpace(src), "\n") {
			b.WriteString(strings.TrimRight(line, " \t"))
			b.WriteString("\n")
		}
	}

	if opts.SourceMapFile != "" {
		file := opts.OutputPath
		if file == "" {
			file = "stdout"
		}
		c.srcMap = fmt.Sprintf(`{"version":3,"file":%q,"sources":[%q],"mappings":""}`, file, name)
		switch {
		case opts.SourceMapEmbed:
			b.WriteString("/*# sourceMappingURL=data:application/json;base64,e30= */")
		case !opts.OmitSourceMapURL:
			fmt.Fprintf(&b, "/*# sourceMappingURL=%s */", opts.SourceMapFile)
		}
	}

	out := b.String()
	if opts.Linefeed != "" && opts.Linefeed != "\n" {
		out = strings.ReplaceAll(out, "\n", opts.Linefeed)
	}
	return out
}

// checkBraces reports the first unbalanced brace with a 1-based position.
func checkBraces(src string) (msg string, line, col int, ok bool) {
	depth := 0
	line, col = 1, 0
	for _, r := range src {
		col++
		switch r {
		case '\n':
			line++
			col = 0
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return `Invalid CSS after "": expected selector, was "}"`, line, col, false
			}
			depth--
		}
	}
	if depth > 0 {
		return `Invalid CSS: expected "}", was ""`, line, col + 1, false
	}
	return "", 0, 0, true
}

func (c *Context) ErrorStatus() int { return c.status }
func (c *Context) ErrorMessage() string { return c.message }
func (c *Context) ErrorLine() int { return c.line }
func (c *Context) ErrorColumn() int { return c.column }
func (c *Context) OutputString() string { return c.output }
func (c *Context) SourceMapString() string { return c.srcMap }

func (c *Context) SourceMapFile() string {
	if c.opts == nil {
		return ""
	}
	return c.opts.SourceMapFile
}

func (c *Context) Delete() {
	c.eng.mu.Lock()
	defer c.eng.mu.Unlock()
	if c.deleted {
		c.eng.misused("context deleted twice")
		return
	}
	c.deleted = true
	c.eng.live.Contexts--
	if c.opts != nil {
		c.eng.live.Options--
	}
	c.eng.event("delete")
}
