package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caffeineduck/gosass/engine"
	"github.com/caffeineduck/gosass/interp"
	"github.com/caffeineduck/gosass/sasscmd"
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a Sass file, inline source or stdin to CSS",
	Long: `Compile Sass or SCSS to CSS.

The source is a file path, inline text given with -c, or stdin when
neither is present. Compile options from the config file's defaults
block apply first; flags and --option override them by name.

Examples:
  gosass compile main.scss
  gosass compile -c 'a { b: c }' --style compressed
  gosass compile main.scss -o main.css --source-map
  gosass compile main.scss --option precision=3 -I vendor/scss`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	f := compileCmd.Flags()
	f.StringP("code", "c", "", "Inline source to compile")
	f.String("style", "", "Output style: nested, expanded, compact, compressed")
	f.Int("precision", 0, "Decimal places for numbers")
	f.StringArrayP("include-path", "I", nil, "Import search directory (repeatable)")
	f.Bool("sass", false, "Treat the source as indented syntax")
	f.Bool("line-comments", false, "Emit source line comments")
	f.Bool("source-map", false, "Write a source map next to --output")
	f.StringP("output", "o", "", "Write CSS to this file instead of stdout")
	f.StringArray("option", nil, "Compile option name=value (repeatable)")
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	origin, source, err := compileSource(cmd, args)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")

	h, err := openHost(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer h.Close()

	opts, err := compileOptions(cmd, h.cfg.Defaults)
	if err != nil {
		return err
	}

	res, err := h.pkg.Command().Compile(cmd.Context(), compileWords(origin, opts, source))
	if err != nil {
		return err
	}
	switch r := res.(type) {
	case *sasscmd.Failure:
		return r
	case *sasscmd.Success:
		return writeOutput(cmd.OutOrStdout(), output, r)
	}
	return fmt.Errorf("unexpected result %T", res)
}

// compileSource picks the origin and source text or path from -c, a file
// argument or stdin.
func compileSource(cmd *cobra.Command, args []string) (engine.Origin, string, error) {
	if cmd.Flags().Changed("code") {
		if len(args) > 0 {
			return engine.OriginUnset, "", errors.New("give either -c or a file, not both")
		}
		code, _ := cmd.Flags().GetString("code")
		return engine.OriginData, code, nil
	}
	if len(args) > 0 && args[0] != "-" {
		return engine.OriginFile, args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return engine.OriginUnset, "", fmt.Errorf("read stdin: %w", err)
	}
	return engine.OriginData, string(data), nil
}

// compileOptions merges defaults with the option flags, later values
// replacing earlier ones of the same name.
func compileOptions(cmd *cobra.Command, defaults []string) ([]string, error) {
	var opts optionList
	for i := 0; i+1 < len(defaults); i += 2 {
		opts.set(defaults[i], defaults[i+1])
	}

	f := cmd.Flags()
	if f.Changed("style") {
		v, _ := f.GetString("style")
		opts.set("output_style", v)
	}
	if f.Changed("precision") {
		v, _ := f.GetInt("precision")
		opts.set("precision", strconv.Itoa(v))
	}
	if dirs, _ := f.GetStringArray("include-path"); len(dirs) > 0 {
		opts.set("include_path", strings.Join(dirs, string(filepath.ListSeparator)))
	}
	if v, _ := f.GetBool("sass"); v {
		opts.set("is_indented_syntax_src", "true")
	}
	if v, _ := f.GetBool("line-comments"); v {
		opts.set("source_comments", "true")
	}

	output, _ := f.GetString("output")
	if output != "" {
		opts.set("output_path", output)
	}
	if v, _ := f.GetBool("source-map"); v {
		if output == "" {
			return nil, errors.New("--source-map requires --output")
		}
		opts.set("source_map_file", output+".map")
	}

	kvs, _ := f.GetStringArray("option")
	for _, kv := range kvs {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid option %q: want name=value", kv)
		}
		opts.set(name, value)
	}
	return opts.pairs(), nil
}

// compileWords builds a "sass compile" invocation.
func compileWords(origin engine.Origin, opts []string, source string) []string {
	words := []string{sasscmd.CommandName, "compile", "-type", origin.String()}
	if len(opts) > 0 {
		words = append(words, "-options", interp.FormatList(opts...))
	}
	return append(words, "--", source)
}

func writeOutput(stdout io.Writer, output string, s *sasscmd.Success) error {
	if output == "" {
		_, err := io.WriteString(stdout, s.Output)
		return err
	}
	if err := os.WriteFile(output, []byte(s.Output), 0o644); err != nil {
		return err
	}
	if s.SourceMap != nil {
		if err := os.WriteFile(output+".map", []byte(*s.SourceMap), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// optionList is an ordered name/value set.
type optionList struct {
	names  []string
	values map[string]string
}

func (l *optionList) set(name, value string) {
	if l.values == nil {
		l.values = make(map[string]string)
	}
	if _, ok := l.values[name]; !ok {
		l.names = append(l.names, name)
	}
	l.values[name] = value
}

func (l *optionList) pairs() []string {
	pairs := make([]string, 0, 2*len(l.names))
	for _, name := range l.names {
		pairs = append(pairs, name, l.values[name])
	}
	return pairs
}
