//go:build cgo && libsass

// Package libsass binds the engine contract to the libsass C library.
//
// Build with -tags libsass and libsass headers and library installed.
package libsass

// #cgo LDFLAGS: -lsass
// #include <stdlib.h>
// #include <sass.h>
import "C"

import (
	"context"
	"errors"
	"unsafe"

	"github.com/caffeineduck/gosass/engine"
)

var errNull = errors.New("libsass returned NULL")

// Engine is the linked libsass library.
type Engine struct{}

// New returns the libsass engine.
func New() Engine {
	return Engine{}
}

func (Engine) Version() string {
	return C.GoString(C.libsass_version())
}

func (Engine) NewOptions() (engine.Options, error) {
	p := C.sass_make_options()
	if p == nil {
		return nil, errNull
	}
	return &Options{p: p}, nil
}

func (Engine) NewFileContext(path string) (engine.Context, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	fc := C.sass_make_file_context(cpath)
	if fc == nil {
		return nil, errNull
	}
	return &Context{file: fc, ctx: C.sass_file_context_get_context(fc)}, nil
}

func (Engine) CopyString(s string) (engine.Buffer, error) {
	p := C.CString(s)
	if p == nil {
		return nil, errNull
	}
	return &Buffer{p: p, n: len(s)}, nil
}

// NewDataContext hands libsass its own copy of src, since the data
// context frees its source when deleted.
func (Engine) NewDataContext(src engine.Buffer) (engine.Context, error) {
	b, ok := src.(*Buffer)
	if !ok || b.p == nil {
		return nil, errors.New("data context needs a live libsass buffer")
	}
	cp := C.sass_copy_c_string(b.p)
	if cp == nil {
		return nil, errNull
	}
	dc := C.sass_make_data_context(cp)
	if dc == nil {
		C.sass_free_memory(unsafe.Pointer(cp))
		return nil, errNull
	}
	return &Context{data: dc, ctx: C.sass_data_context_get_context(dc)}, nil
}

// Buffer is a NUL-terminated C string.
type Buffer struct {
	p *C.char
	n int
}

func (b *Buffer) Bytes() []byte {
	if b.p == nil {
		return nil
	}
	return C.GoBytes(unsafe.Pointer(b.p), C.int(b.n))
}

func (b *Buffer) Free() {
	if b.p != nil {
		C.free(unsafe.Pointer(b.p))
		b.p = nil
	}
}

// Options wraps struct Sass_Options. It is invalid once attached.
type Options struct {
	p *C.struct_Sass_Options
}

func (o *Options) setString(set func(*C.struct_Sass_Options, *C.char), s string) {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	set(o.p, cs)
}

func (o *Options) SetPrecision(n int) { C.sass_option_set_precision(o.p, C.int(n)) }

func (o *Options) SetOutputStyle(s engine.OutputStyle) {
	var style C.enum_Sass_Output_Style
	switch s {
	case engine.StyleExpanded:
		style = C.SASS_STYLE_EXPANDED
	case engine.StyleCompact:
		style = C.SASS_STYLE_COMPACT
	case engine.StyleCompressed:
		style = C.SASS_STYLE_COMPRESSED
	default:
		style = C.SASS_STYLE_NESTED
	}
	C.sass_option_set_output_style(o.p, style)
}

func (o *Options) SetSourceComments(b bool) { C.sass_option_set_source_comments(o.p, C.bool(b)) }
func (o *Options) SetSourceMapEmbed(b bool) { C.sass_option_set_source_map_embed(o.p, C.bool(b)) }
func (o *Options) SetSourceMapContents(b bool) {
	C.sass_option_set_source_map_contents(o.p, C.bool(b))
}
func (o *Options) SetOmitSourceMapURL(b bool) { C.sass_option_set_omit_source_map_url(o.p, C.bool(b)) }
func (o *Options) SetIsIndentedSyntaxSrc(b bool) {
	C.sass_option_set_is_indented_syntax_src(o.p, C.bool(b))
}

func (o *Options) SetIndent(s string) {
	o.setString(func(p *C.struct_Sass_Options, cs *C.char) { C.sass_option_set_indent(p, cs) }, s)
}

func (o *Options) SetLinefeed(s string) {
	o.setString(func(p *C.struct_Sass_Options, cs *C.char) { C.sass_option_set_linefeed(p, cs) }, s)
}

func (o *Options) SetInputPath(s string) {
	o.setString(func(p *C.struct_Sass_Options, cs *C.char) { C.sass_option_set_input_path(p, cs) }, s)
}

func (o *Options) SetOutputPath(s string) {
	o.setString(func(p *C.struct_Sass_Options, cs *C.char) { C.sass_option_set_output_path(p, cs) }, s)
}

func (o *Options) SetIncludePath(s string) {
	o.setString(func(p *C.struct_Sass_Options, cs *C.char) { C.sass_option_set_include_path(p, cs) }, s)
}

func (o *Options) SetSourceMapFile(s string) {
	o.setString(func(p *C.struct_Sass_Options, cs *C.char) { C.sass_option_set_source_map_file(p, cs) }, s)
}

// Release frees options that were never attached.
func (o *Options) Release() {
	if o.p != nil {
		C.sass_delete_options(o.p)
		o.p = nil
	}
}

// Context wraps a file or data context.
type Context struct {
	file *C.struct_Sass_File_Context
	data *C.struct_Sass_Data_Context
	ctx  *C.struct_Sass_Context
}

// SetOptions moves the settings into the context. libsass copies the
// struct and resets the source's pointers, so the emptied shell is freed
// here.
func (c *Context) SetOptions(opts engine.Options) {
	o, ok := opts.(*Options)
	if !ok || o.p == nil {
		return
	}
	if c.file != nil {
		C.sass_file_context_set_options(c.file, o.p)
	} else {
		C.sass_data_context_set_options(c.data, o.p)
	}
	C.sass_delete_options(o.p)
	o.p = nil
}

// Compile blocks until libsass returns; ctx is not consulted.
func (c *Context) Compile(ctx context.Context) int {
	if c.file != nil {
		return int(C.sass_compile_file_context(c.file))
	}
	return int(C.sass_compile_data_context(c.data))
}

func (c *Context) ErrorStatus() int     { return int(C.sass_context_get_error_status(c.ctx)) }
func (c *Context) ErrorMessage() string { return C.GoString(C.sass_context_get_error_message(c.ctx)) }
func (c *Context) ErrorLine() int       { return int(C.sass_context_get_error_line(c.ctx)) }
func (c *Context) ErrorColumn() int     { return int(C.sass_context_get_error_column(c.ctx)) }
func (c *Context) OutputString() string { return C.GoString(C.sass_context_get_output_string(c.ctx)) }

func (c *Context) SourceMapString() string {
	return C.GoString(C.sass_context_get_source_map_string(c.ctx))
}

func (c *Context) SourceMapFile() string {
	return C.GoString(C.sass_option_get_source_map_file(C.sass_context_get_options(c.ctx)))
}

// Delete frees the context, its options and, for data contexts, the
// source copy.
func (c *Context) Delete() {
	switch {
	case c.file != nil:
		C.sass_delete_file_context(c.file)
	case c.data != nil:
		C.sass_delete_data_context(c.data)
	}
	c.file, c.data, c.ctx = nil, nil, nil
}
