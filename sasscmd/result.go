package sasscmd

import (
	"fmt"
	"strconv"

	"github.com/caffeineduck/gosass/engine"
)

// Result is either a *Success or a *Failure.
type Result interface {
	// Pairs returns the result as ordered key/value pairs.
	Pairs() []string
	isResult()
}

// Success holds compiled CSS. SourceMap is nil unless a source map file
// was requested.
type Success struct {
	Output    string
	SourceMap *string
}

func (*Success) isResult() {}

func (s *Success) Pairs() []string {
	pairs := []string{"errorStatus", "0", "outputString", s.Output}
	if s.SourceMap != nil {
		pairs = append(pairs, "sourceMapString", *s.SourceMap)
	}
	return pairs
}

// Failure is a compilation error reported by the engine. Line and Column
// are 1-based as the engine reports them.
type Failure struct {
	Status  int
	Message string
	Line    int
	Column  int
}

func (*Failure) isResult() {}

func (f *Failure) Pairs() []string {
	return []string{
		"errorStatus", strconv.Itoa(f.Status),
		"errorMessage", f.Message,
		"errorLine", strconv.Itoa(f.Line),
		"errorColumn", strconv.Itoa(f.Column),
	}
}

// Error makes a Failure usable as a compilation error.
func (f *Failure) Error() string {
	return fmt.Sprintf("compilation failed at line %d, column %d: %s", f.Line, f.Column, f.Message)
}

// Marshal reads the outcome of a compiled context. It does not modify or
// release c.
func Marshal(c engine.Context) Result {
	if status := c.ErrorStatus(); status != 0 {
		return &Failure{
			Status:  status,
			Message: c.ErrorMessage(),
			Line:    c.ErrorLine(),
			Column:  c.ErrorColumn(),
		}
	}

	s := &Success{Output: c.OutputString()}
	if c.SourceMapFile() != "" {
		m := c.SourceMapString()
		s.SourceMap = &m
	}
	return s
}
