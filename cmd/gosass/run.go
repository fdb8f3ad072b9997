package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a script file",
	Long: `Run a script file with the sass command loaded.

Use "-" to read the script from stdin. The result of the last command is
printed when it is not empty.

Example script:
  package present sass
  sass compile -options {output_style compressed} {a { b: c }}`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScriptFile(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runScriptFile(cmd *cobra.Command, path string) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return runScript(cmd, string(data))
}

func runScript(cmd *cobra.Command, script string) error {
	out := cmd.OutOrStdout()
	h, err := openHost(cmd, out)
	if err != nil {
		return err
	}
	defer h.Close()

	result, err := h.in.Eval(cmd.Context(), script)
	if err != nil {
		return err
	}
	if result != "" {
		fmt.Fprintln(out, result)
	}
	return nil
}
