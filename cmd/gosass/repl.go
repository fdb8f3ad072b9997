package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const (
	promptMain = "% "
	promptMore = "> "
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive script shell",
	Long: `Start an interactive shell with the sass command loaded.

Features:
  - Command history (up/down arrows)
  - Line editing (left/right, backspace, delete)
  - History search (Ctrl+R)
  - Multi-line input (end line with \, or leave a brace open)

The interpreter persists between lines. Type 'exit' or 'quit' to end the
session, or press Ctrl+D.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	replCmd.Flags().String("history", "", "History file path (default: ~/.gosass_history)")
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	historyFile, _ := cmd.Flags().GetString("history")
	if historyFile == "" {
		home, _ := os.UserHomeDir()
		historyFile = filepath.Join(home, ".gosass_history")
	}

	out := cmd.OutOrStdout()
	h, err := openHost(cmd, out)
	if err != nil {
		return err
	}
	defer h.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            promptMain,
		HistoryFile:       historyFile,
		HistoryLimit:      1000,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		Stdout:            out,
		Stderr:            cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("initializing readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(cmd.ErrOrStderr(), "gosass %s (type 'exit' to quit, Ctrl+D to exit)\n", version)

	var pending strings.Builder
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				pending.Reset()
				rl.SetPrompt(promptMain)
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		if strings.HasSuffix(line, "\\") {
			pending.WriteString(strings.TrimSuffix(line, "\\"))
			pending.WriteString("\n")
			rl.SetPrompt(promptMore)
			continue
		}
		pending.WriteString(line)
		script := pending.String()
		if !complete(script) {
			pending.WriteString("\n")
			rl.SetPrompt(promptMore)
			continue
		}
		pending.Reset()
		rl.SetPrompt(promptMain)

		script = strings.TrimSpace(script)
		if script == "" {
			continue
		}
		if script == "exit" || script == "quit" {
			return nil
		}

		result, err := h.in.Eval(cmd.Context(), script)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			continue
		}
		if result != "" {
			fmt.Fprintln(out, result)
		}
	}
}

// complete reports whether script has no unclosed braces.
func complete(script string) bool {
	depth := 0
	for i := 0; i < len(script); i++ {
		switch script[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth <= 0
}
