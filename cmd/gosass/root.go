package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gosass [script]",
	Short: "Sass compiler front end and script host",
	Long: `gosass - Compile Sass and SCSS through the sass script command.

The sass command takes a compile request, builds an options object from
a dictionary of named compiler settings, compiles text or a file and
returns the result as key/value pairs. Scripts, the REPL and the HTTP
server all go through the same command.

Settings are read from .gosass.hcl in the working directory, or from the
file named by --config. Flags override the file.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default: ./.gosass.hcl if present)")
	pf.String("engine", "", "Compiler engine: sassc, wasm, libsass")
	pf.String("sassc", "", "Path to the sassc executable")
	pf.String("wasm-module", "", "Path to a WASI build of sassc")
	pf.String("cache-dir", "", "Compilation cache directory for the wasm engine")
	pf.Bool("no-cache", false, "Disable the wasm compilation cache")
	pf.String("memory", "", "Wasm memory limit: 64mb, 256mb, 1gb, 4gb")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: text, json")
}

// runRoot runs a script file when one is given and shows help otherwise.
func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	return runScriptFile(cmd, args[0])
}
