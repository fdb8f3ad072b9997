package main

import "github.com/spf13/cobra"

var evalCmd = &cobra.Command{
	Use:   "eval <script>",
	Short: "Evaluate an inline script",
	Long: `Evaluate a script given on the command line.

Examples:
  gosass eval 'sass version'
  gosass eval 'sass compile {a { b: c }}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScript(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
}
