// Package gosass exposes a Sass compiler to a small embedded script
// interpreter as the "sass" command.
//
// # Overview
//
// A compile request names the input kind, a dictionary of compiler
// settings and the source:
//
//	sass compile -type data -options {output_style compressed precision 3} {a { b: c }}
//	sass compile -type file -- styles/main.scss
//	sass version
//
// The result is a flat list of key/value pairs. A successful compile
// yields errorStatus 0 and outputString, plus sourceMapString when a
// source map file was requested. A failed one yields errorStatus,
// errorMessage, errorLine and errorColumn.
//
// # Packages
//
//	engine           the compiler contract: options, contexts, buffers
//	engine/sassc     drives a sassc binary through a Runner
//	engine/wasm      a Runner for a WASI build of sassc under wazero
//	engine/libsass   cgo binding to libsass (build tag libsass)
//	sasscmd          option registry, parser, executor and the sass command
//	interp           the script interpreter hosting the command
//
// # Basic Usage
//
//	eng := sassc.New(sassc.ProcessRunner{Path: "sassc"})
//	pkg := sasscmd.NewPackage(eng)
//	defer pkg.Teardown()
//
//	in := interp.New()
//	if err := pkg.Init(in); err != nil {
//	    return err
//	}
//	out, err := in.Eval(ctx, `sass compile -options {output_style compressed} {a { b: c }}`)
//
// # Engines
//
// The sassc engine needs nothing but a sassc executable. The wasm engine
// runs a sassc.wasm module with no native dependency:
//
//	r, _ := wasm.Load("sassc.wasm", wasm.WithDiskCache())
//	eng := sassc.New(r)
//
// The libsass engine links the C library directly and is only built with
// -tags libsass.
//
// # CLI
//
// cmd/gosass wraps the same command in compile, eval, run, repl and serve
// subcommands, configured by an optional .gosass.hcl file.
package gosass
