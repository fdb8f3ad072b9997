package interp

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnmatchedBrace = errors.New("unmatched open brace")
	ErrUnmatchedQuote = errors.New("unmatched open quote")
)

// scanner splits source text into words. In script mode newlines and
// semicolons end a command; in list mode they are plain whitespace.
type scanner struct {
	src    string
	pos    int
	script bool
}

func isSpace(c byte, script bool) bool {
	switch c {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	case '\n':
		return !script
	}
	return false
}

func (s *scanner) atCommandEnd() bool {
	if s.pos >= len(s.src) {
		return true
	}
	c := s.src[s.pos]
	return s.script && (c == '\n' || c == ';')
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if isSpace(c, s.script) {
			s.pos++
			continue
		}
		// Backslash-newline continues a command onto the next line.
		if c == '\\' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '\n' {
			s.pos += 2
			continue
		}
		return
	}
}

// skipSeparators moves past blank lines, semicolons and comments between
// commands.
func (s *scanner) skipSeparators() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case isSpace(c, false) || c == ';':
			s.pos++
		case c == '#':
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				if s.src[s.pos] == '\\' && s.pos+1 < len(s.src) {
					s.pos++
				}
				s.pos++
			}
		default:
			return
		}
	}
}

// word reads one word starting at the current position.
func (s *scanner) word() (string, error) {
	switch s.src[s.pos] {
	case '{':
		return s.braced()
	case '"':
		return s.quoted()
	default:
		return s.bare(), nil
	}
}

func (s *scanner) checkWordEnd(kind string) error {
	if s.pos >= len(s.src) || isSpace(s.src[s.pos], s.script) || s.atCommandEnd() {
		return nil
	}
	return fmt.Errorf("%s followed by %q instead of space", kind, s.src[s.pos:s.pos+1])
}

func (s *scanner) braced() (string, error) {
	start := s.pos + 1
	depth := 1
	for i := start; i < len(s.src); i++ {
		switch s.src[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				s.pos = i + 1
				return s.src[start:i], s.checkWordEnd("element in braces")
			}
		}
	}
	return "", ErrUnmatchedBrace
}

func (s *scanner) quoted() (string, error) {
	var b strings.Builder
	for i := s.pos + 1; i < len(s.src); i++ {
		c := s.src[i]
		switch c {
		case '\\':
			i = backslash(s.src, i, &b)
		case '"':
			s.pos = i + 1
			return b.String(), s.checkWordEnd("element in quotes")
		default:
			b.WriteByte(c)
		}
	}
	return "", ErrUnmatchedQuote
}

func (s *scanner) bare() string {
	var b strings.Builder
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if isSpace(c, s.script) || s.atCommandEnd() {
			break
		}
		if c == '\\' {
			if s.pos+1 < len(s.src) && s.src[s.pos+1] == '\n' {
				break
			}
			s.pos = backslash(s.src, s.pos, &b) + 1
			continue
		}
		b.WriteByte(c)
		s.pos++
	}
	return b.String()
}

// backslash decodes the escape at src[i] into b and returns the index of
// the last byte consumed.
func backslash(src string, i int, b *strings.Builder) int {
	if i+1 >= len(src) {
		b.WriteByte('\\')
		return i
	}
	c := src[i+1]
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case '\n':
		b.WriteByte(' ')
		j := i + 2
		for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
			j++
		}
		return j - 1
	default:
		b.WriteByte(c)
	}
	return i + 1
}

// ParseScript splits a script into commands, each a list of words.
func ParseScript(script string) ([][]string, error) {
	s := &scanner{src: script, script: true}
	var cmds [][]string
	for {
		s.skipSeparators()
		if s.pos >= len(s.src) {
			return cmds, nil
		}
		var words []string
		for {
			s.skipSpace()
			if s.atCommandEnd() {
				break
			}
			w, err := s.word()
			if err != nil {
				return nil, err
			}
			words = append(words, w)
		}
		if len(words) > 0 {
			cmds = append(cmds, words)
		}
	}
}
