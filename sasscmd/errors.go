package sasscmd

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrArity                  = errors.New("wrong # args")
	ErrUnknownVerb            = errors.New("unknown verb")
	ErrUnknownOption          = errors.New("unknown option")
	ErrArgumentType           = errors.New("argument type mismatch")
	ErrMalformedDictionary    = errors.New("malformed dictionary")
	ErrUnsupportedContextType = errors.New("unsupported context type")
	ErrUnsupportedOrigin      = errors.New("unsupported origin kind")
	ErrAllocation             = errors.New("allocation failed")
	ErrMissingValue           = errors.New("missing value")
	ErrDuplicateOption        = errors.New("duplicate option")
	ErrNoSetter               = errors.New("option has no setter")
)

// ArgError is a command failure with a caller-facing message. It unwraps
// to one of the sentinel errors above so callers can use errors.Is.
type ArgError struct {
	Kind error
	Msg  string
}

func (e *ArgError) Error() string { return e.Msg }

func (e *ArgError) Unwrap() error { return e.Kind }

func argErrorf(kind error, format string, args ...any) error {
	return &ArgError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrongNumArgs(usage string) error {
	return argErrorf(ErrArity, "wrong # args: should be %q", usage)
}

// choiceList renders names as "a, b, or c" ("a or b" for two).
func choiceList(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
}
