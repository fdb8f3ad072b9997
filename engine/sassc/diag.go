package sassc

import (
	"bufio"
	"encoding/base64"
	"regexp"
	"strconv"
	"strings"
)

var positionRE = regexp.MustCompile(`on line (\d+)(?::(\d+))? of `)

// parseDiagnostic extracts the 1-based position from a sassc error
// report. Missing parts are zero.
func parseDiagnostic(stderr string) (line, column int) {
	m := positionRE.FindStringSubmatch(stderr)
	if m == nil {
		return 0, 0
	}
	line, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		column, _ = strconv.Atoi(m[2])
	}
	return line, column
}

// parseVersion finds the libsass version in "sassc --version" output.
func parseVersion(out string) (string, bool) {
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		name, version, ok := strings.Cut(sc.Text(), ":")
		if ok && strings.TrimSpace(name) == "libsass" {
			return strings.TrimSpace(version), true
		}
	}
	return "", false
}

const inlinePrefix = "sourceMappingURL=data:application/json;base64,"

// inlineMap decodes a source map embedded in css, or returns "".
func inlineMap(css string) string {
	_, rest, ok := strings.Cut(css, inlinePrefix)
	if !ok {
		return ""
	}
	end := strings.IndexAny(rest, " *\n")
	if end >= 0 {
		rest = rest[:end]
	}
	m, err := base64.StdEncoding.DecodeString(rest)
	if err != nil {
		return ""
	}
	return string(m)
}
