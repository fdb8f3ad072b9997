// Package sasscmd implements the sass script command on top of an
// engine.Engine.
//
// The command has two verbs:
//
//	sass compile ?-type data|file? ?-options {name value ...}? ?--? source
//	sass version
//
// A compile request is parsed into an origin and an options object, run
// through one create/configure/compile/read/destroy cycle on the engine,
// and returned as ordered pairs:
//
//	errorStatus 0 outputString <css> ?sourceMapString <map>?
//	errorStatus <n> errorMessage <text> errorLine <n> errorColumn <n>
//
// A compilation error is a normal result. Errors returned by Invoke are
// argument problems or allocation failures; they are *ArgError values that
// unwrap to the sentinels in this package.
//
// Hosts install the command with a Package:
//
//	pkg := sasscmd.NewPackage(eng, sasscmd.WithLogger(logger))
//	defer pkg.Teardown()
//
//	in := interp.New()
//	if err := pkg.Init(in); err != nil {
//	    return err
//	}
//	out, err := in.Eval(ctx, `sass compile -options {output_style compressed} {a { b: c }}`)
package sasscmd
