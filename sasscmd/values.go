package sasscmd

import (
	"strconv"
	"strings"

	"github.com/caffeineduck/gosass/engine"
)

// ResolveInt parses an integer in decimal, 0x hex, 0o octal or 0b binary
// form, with optional sign and surrounding whitespace.
func ResolveInt(raw string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 0, 32)
	if err != nil {
		return 0, argErrorf(ErrArgumentType, "expected integer but got %q", raw)
	}
	return int(n), nil
}

// ResolveBool accepts any integer (non-zero is true) and the words true,
// false, yes, no, on and off in any case.
func ResolveBool(raw string) (bool, error) {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	}
	if n, err := strconv.ParseInt(s, 0, 64); err == nil {
		return n != 0, nil
	}
	return false, argErrorf(ErrArgumentType, "expected boolean value but got %q", raw)
}

func outputStyleNames() []string {
	styles := engine.OutputStyles()
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = s.String()
	}
	return names
}

// ResolveOutputStyle matches raw exactly against the four style names.
func ResolveOutputStyle(raw string) (engine.OutputStyle, error) {
	for _, s := range engine.OutputStyles() {
		if raw == s.String() {
			return s, nil
		}
	}
	return 0, argErrorf(ErrArgumentType, "bad output style %q: must be %s", raw, choiceList(outputStyleNames()))
}

// ResolveOrigin maps the -type flag value to an origin. Only data and file
// are accepted.
func ResolveOrigin(raw string) (engine.Origin, error) {
	switch raw {
	case "data":
		return engine.OriginData, nil
	case "file":
		return engine.OriginFile, nil
	}
	return engine.OriginUnset, argErrorf(ErrUnsupportedContextType, "bad context type %q: must be data or file", raw)
}
