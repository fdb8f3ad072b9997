package sassc

import (
	"path/filepath"
	"strconv"
	"strings"
)

const (
	outputName = "out.css"
	mapName    = outputName + ".map"
)

// args builds the sassc command line. Input is either a path or, when
// stdin is true, read from standard input; output goes to out.
func (o *Options) args(input string, stdin bool, out string) []string {
	var args []string
	if stdin {
		args = append(args, "--stdin")
	}
	if o.hasPrecision {
		args = append(args, "--precision", strconv.Itoa(o.precision))
	}
	if o.hasStyle {
		args = append(args, "--style", o.style.String())
	}
	if o.sourceComments {
		args = append(args, "--line-comments")
	}
	if o.indented {
		args = append(args, "--sass")
	}
	for _, dir := range o.includeDirs() {
		args = append(args, "--load-path", dir)
	}
	if o.sourceMapFile != "" {
		if o.sourceMapEmbed {
			args = append(args, "--sourcemap=inline")
		} else {
			args = append(args, "--sourcemap=auto")
		}
		if o.omitSourceMapURL {
			args = append(args, "--omit-map-comment")
		}
	}
	if !stdin {
		args = append(args, input)
	}
	return append(args, out)
}

func (o *Options) includeDirs() []string {
	if o.includePath == "" {
		return nil
	}
	var dirs []string
	for _, dir := range filepath.SplitList(o.includePath) {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// finish applies the options sassc has no flag for to the produced CSS.
func (o *Options) finish(css string) string {
	if o.sourceMapFile != "" && !o.sourceMapEmbed {
		css = strings.Replace(css, "sourceMappingURL="+mapName, "sourceMappingURL="+o.sourceMapFile, 1)
	}
	if o.indent != "" && o.indent != defaultIndent {
		css = reindent(css, o.indent)
	}
	if o.linefeed != "" && o.linefeed != "\n" {
		css = strings.ReplaceAll(css, "\n", o.linefeed)
	}
	return css
}

const defaultIndent = "  "

// reindent replaces each leading two-space unit with indent.
func reindent(css, indent string) string {
	lines := strings.Split(css, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		depth := (len(line) - len(trimmed)) / len(defaultIndent)
		if depth == 0 {
			continue
		}
		rest := line[depth*len(defaultIndent):]
		lines[i] = strings.Repeat(indent, depth) + rest
	}
	return strings.Join(lines, "\n")
}
