// Package interp is a small command interpreter that hosts gosass commands.
//
// It keeps a table of named commands, per-interpreter associated data and
// the set of provided packages, and evaluates scripts made of commands
// separated by newlines or semicolons. Words follow list syntax: braces
// group literally, double quotes group with backslash escapes, and there is
// no variable or command substitution.
//
//	in := interp.New()
//	in.CreateCommand("greet", func(ctx context.Context, in *interp.Interp, args []string) (string, error) {
//	    return "hello " + args[1], nil
//	}, nil)
//
//	out, err := in.Eval(ctx, "greet {big world}") // "hello big world"
package interp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
)

// CommandFunc implements a command. args[0] is the command name.
type CommandFunc func(ctx context.Context, in *Interp, args []string) (string, error)

// Token identifies one registration of a command. Re-creating a command
// under the same name invalidates earlier tokens.
type Token struct {
	name string
	id   uint64
}

// Name returns the command name the token was issued for.
func (t Token) Name() string { return t.name }

type command struct {
	id       uint64
	fn       CommandFunc
	onDelete func()
}

// Interp holds commands and evaluates scripts. Evaluation is serialized;
// table operations are safe to call from any goroutine.
type Interp struct {
	mu       sync.RWMutex
	commands map[string]*command
	nextID   uint64
	assoc    map[string]any
	packages map[string]string

	evalMu sync.Mutex
	stdout io.Writer
}

// Option configures an Interp.
type Option func(*Interp)

// WithStdout sets where the puts command writes. Default discards output.
func WithStdout(w io.Writer) Option {
	return func(in *Interp) {
		in.stdout = w
	}
}

// New creates an interpreter with the built-in list, puts and package
// commands.
func New(opts ...Option) *Interp {
	in := &Interp{
		commands: make(map[string]*command),
		assoc:    make(map[string]any),
		packages: make(map[string]string),
		stdout:   io.Discard,
	}
	for _, opt := range opts {
		opt(in)
	}
	in.CreateCommand("list", listCmd, nil)
	in.CreateCommand("puts", putsCmd, nil)
	in.CreateCommand("package", packageCmd, nil)
	return in
}

// CreateCommand registers fn under name, replacing any existing command of
// that name. onDelete, if non-nil, runs when the command is deleted or
// replaced.
func (in *Interp) CreateCommand(name string, fn CommandFunc, onDelete func()) Token {
	in.mu.Lock()
	in.nextID++
	old := in.commands[name]
	in.commands[name] = &command{id: in.nextID, fn: fn, onDelete: onDelete}
	tok := Token{name: name, id: in.nextID}
	in.mu.Unlock()

	if old != nil && old.onDelete != nil {
		old.onDelete()
	}
	return tok
}

// DeleteCommand removes the named command.
func (in *Interp) DeleteCommand(name string) error {
	in.mu.Lock()
	cmd, ok := in.commands[name]
	if ok {
		delete(in.commands, name)
	}
	in.mu.Unlock()

	if !ok {
		return fmt.Errorf("can't delete %q: command doesn't exist", name)
	}
	if cmd.onDelete != nil {
		cmd.onDelete()
	}
	return nil
}

// DeleteCommandFromToken removes the command registration tok refers to.
func (in *Interp) DeleteCommandFromToken(tok Token) error {
	in.mu.Lock()
	cmd, ok := in.commands[tok.name]
	if ok && cmd.id == tok.id {
		delete(in.commands, tok.name)
	} else {
		ok = false
	}
	in.mu.Unlock()

	if !ok {
		return fmt.Errorf("can't delete %q: stale command token", tok.name)
	}
	if cmd.onDelete != nil {
		cmd.onDelete()
	}
	return nil
}

// Command looks up a command by name.
func (in *Interp) Command(name string) (CommandFunc, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	cmd, ok := in.commands[name]
	if !ok {
		return nil, false
	}
	return cmd.fn, true
}

// Commands returns the sorted names of all registered commands.
func (in *Interp) Commands() []string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	names := make([]string, 0, len(in.commands))
	for name := range in.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (in *Interp) SetAssocData(key string, v any) {
	in.mu.Lock()
	in.assoc[key] = v
	in.mu.Unlock()
}

func (in *Interp) AssocData(key string) (any, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	v, ok := in.assoc[key]
	return v, ok
}

// DeleteAssocData removes key. Deleting a missing key is a no-op.
func (in *Interp) DeleteAssocData(key string) {
	in.mu.Lock()
	delete(in.assoc, key)
	in.mu.Unlock()
}

// PkgProvide records that version of package name is loaded.
func (in *Interp) PkgProvide(name, version string) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if cur, ok := in.packages[name]; ok && cur != version {
		return fmt.Errorf("conflicting versions provided for package %q: %s, then %s", name, cur, version)
	}
	in.packages[name] = version
	return nil
}

// PkgPresent returns the provided version of package name.
func (in *Interp) PkgPresent(name string) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	v, ok := in.packages[name]
	return v, ok
}

// PkgForget removes package name from the provided set.
func (in *Interp) PkgForget(name string) {
	in.mu.Lock()
	delete(in.packages, name)
	in.mu.Unlock()
}

// Eval runs every command in script and returns the result of the last one.
// The first failing command stops evaluation.
func (in *Interp) Eval(ctx context.Context, script string) (string, error) {
	cmds, err := ParseScript(script)
	if err != nil {
		return "", err
	}

	in.evalMu.Lock()
	defer in.evalMu.Unlock()

	var result string
	for _, words := range cmds {
		result, err = in.Invoke(ctx, words)
		if err != nil {
			return "", err
		}
	}
	return result, nil
}

// Invoke runs a single command given as pre-split words.
func (in *Interp) Invoke(ctx context.Context, words []string) (string, error) {
	if len(words) == 0 {
		return "", nil
	}
	fn, ok := in.Command(words[0])
	if !ok {
		return "", fmt.Errorf("invalid command name %q", words[0])
	}
	return fn(ctx, in, words)
}

func listCmd(ctx context.Context, in *Interp, args []string) (string, error) {
	return FormatList(args[1:]...), nil
}

func putsCmd(ctx context.Context, in *Interp, args []string) (string, error) {
	newline := true
	rest := args[1:]
	if len(rest) > 0 && rest[0] == "-nonewline" {
		newline = false
		rest = rest[1:]
	}
	if len(rest) != 1 {
		return "", errors.New(`wrong # args: should be "puts ?-nonewline? string"`)
	}
	text := rest[0]
	if newline {
		text += "\n"
	}
	_, err := io.WriteString(in.stdout, text)
	return "", err
}

func packageCmd(ctx context.Context, in *Interp, args []string) (string, error) {
	if len(args) < 2 {
		return "", errors.New(`wrong # args: should be "package option ?arg ...?"`)
	}
	switch args[1] {
	case "present":
		if len(args) != 3 {
			return "", errors.New(`wrong # args: should be "package present package"`)
		}
		v, ok := in.PkgPresent(args[2])
		if !ok {
			return "", fmt.Errorf("package %s is not present", args[2])
		}
		return v, nil
	case "provide":
		switch len(args) {
		case 3:
			v, _ := in.PkgPresent(args[2])
			return v, nil
		case 4:
			return "", in.PkgProvide(args[2], args[3])
		}
		return "", errors.New(`wrong # args: should be "package provide package ?version?"`)
	case "names":
		in.mu.RLock()
		names := make([]string, 0, len(in.packages))
		for name := range in.packages {
			names = append(names, name)
		}
		in.mu.RUnlock()
		sort.Strings(names)
		return FormatList(names...), nil
	default:
		return "", fmt.Errorf("bad option %q: must be names, present, or provide", args[1])
	}
}
