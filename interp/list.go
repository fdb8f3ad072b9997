package interp

import (
	"fmt"
	"strings"
)

// SplitList parses a list value into its elements.
func SplitList(list string) ([]string, error) {
	s := &scanner{src: list}
	var elems []string
	for {
		s.skipSpace()
		if s.pos >= len(s.src) {
			return elems, nil
		}
		w, err := s.word()
		if err != nil {
			return nil, fmt.Errorf("list %w", err)
		}
		elems = append(elems, w)
	}
}

// FormatList joins elements into a list value that SplitList turns back
// into the same elements.
func FormatList(elems ...string) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = quoteElement(e, i == 0)
	}
	return strings.Join(parts, " ")
}

const specialChars = " \t\n\r\v\f{}[]$;\"\\"

func quoteElement(s string, first bool) string {
	if s == "" {
		return "{}"
	}
	if !strings.ContainsAny(s, specialChars) && !(first && s[0] == '#') {
		return s
	}
	if canBrace(s) {
		return "{" + s + "}"
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case ' ', '{', '}', '[', ']', '$', ';', '"', '\\', '\v', '\f':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '#':
			if i == 0 && first {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// canBrace reports whether s survives being wrapped in braces: its braces
// must balance and it must not end inside a backslash escape.
func canBrace(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 >= len(s) || s[i+1] == '\n' {
				return false
			}
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
