// Package engine defines the contract between gosass and a native SASS
// compiler.
//
// # Overview
//
// The contract mirrors the libsass C API: an options object is populated
// through typed setters, a compilation context is made for either a file
// path or an inline source buffer, the options are attached, the context is
// compiled exactly once, its result fields are read, and the context is
// deleted.
//
//	opts, _ := eng.NewOptions()
//	opts.SetOutputStyle(engine.StyleCompressed)
//
//	c, _ := eng.NewFileContext("style.scss")
//	defer c.Delete()
//
//	c.SetOptions(opts) // c now owns opts
//	if c.Compile(ctx) == 0 {
//	    fmt.Print(c.OutputString())
//	}
//
// # Ownership
//
// Every object returned by an [Engine] is owned by exactly one party:
//
//	Options  - owned by the caller until passed to Context.SetOptions,
//	           owned by the context afterwards; Release only if never attached
//	Context  - owned by the caller; Delete exactly once
//	Buffer   - owned by the caller; Free exactly once, after any context
//	           made from it has been deleted
//
// Backends live in subpackages: [github.com/caffeineduck/gosass/engine/sassc]
// drives the sassc command line (as a process or as a WebAssembly module via
// [github.com/caffeineduck/gosass/engine/wasm]), and
// [github.com/caffeineduck/gosass/engine/libsass] binds libsass through cgo
// when built with the libsass tag.
package engine
