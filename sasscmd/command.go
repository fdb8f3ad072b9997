package sasscmd

import (
	"context"
	"log/slog"

	"github.com/caffeineduck/gosass/engine"
	"github.com/caffeineduck/gosass/interp"
)

// LibraryName is the first element of the version result.
const LibraryName = "libsass"

// Command implements the sass command: "compile" and "version".
type Command struct {
	eng    engine.Engine
	reg    *Registry
	exec   *Executor
	logger *slog.Logger
	name   string
}

// Option configures a Command or Package.
type Option func(*config)

type config struct {
	logger   *slog.Logger
	registry *Registry
	name     string
}

func defaultConfig() config {
	return config{
		logger:   discardLogger(),
		registry: DefaultRegistry(),
		name:     CommandName,
	}
}

// WithLogger sets the logger for trace output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRegistry replaces the compiler option table.
func WithRegistry(r *Registry) Option {
	return func(c *config) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithCommandName sets the name the command is registered under.
func WithCommandName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewCommand returns the sass command bound to eng.
func NewCommand(eng engine.Engine, opts ...Option) *Command {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Command{
		eng:    eng,
		reg:    cfg.registry,
		exec:   NewExecutor(eng, cfg.logger),
		logger: cfg.logger,
		name:   cfg.name,
	}
}

var verbs = []string{"compile", "version"}

// Invoke runs the command. args[0] is the command name. The result is a
// list value.
func (c *Command) Invoke(ctx context.Context, args []string) (string, error) {
	res, err := c.Dispatch(ctx, args)
	if err != nil {
		return "", err
	}
	return interp.FormatList(res...), nil
}

// Dispatch runs the command and returns the result elements.
func (c *Command) Dispatch(ctx context.Context, args []string) ([]string, error) {
	if len(args) < 2 {
		return nil, wrongNumArgs(c.name + " option ?arg ...?")
	}

	switch args[1] {
	case "compile":
		res, err := c.compile(ctx, args)
		if err != nil {
			return nil, err
		}
		return res.Pairs(), nil
	case "version":
		if len(args) != 2 {
			return nil, wrongNumArgs(c.name + " version")
		}
		return []string{LibraryName, c.eng.Version()}, nil
	}
	return nil, argErrorf(ErrUnknownVerb, "bad option %q: must be %s", args[1], choiceList(verbs))
}

// Compile runs "compile" on args (args[0] is the command name, args[1] the
// verb) and returns the typed result.
func (c *Command) Compile(ctx context.Context, args []string) (Result, error) {
	return c.compile(ctx, args)
}

func (c *Command) compile(ctx context.Context, args []string) (Result, error) {
	usage := c.name + " compile ?options? source"
	if len(args) < 3 {
		return nil, wrongNumArgs(usage)
	}

	parsed, err := ParseOptions(c.eng, c.reg, args, 2)
	if err != nil {
		return nil, err
	}
	if parsed.Next == NoIndex || parsed.Next != len(args)-1 {
		if parsed.Options != nil {
			parsed.Options.Release()
		}
		return nil, wrongNumArgs(usage)
	}

	return c.exec.Execute(ctx, parsed.Origin, parsed.Options, args[parsed.Next])
}

// Func adapts the command to an interpreter command.
func (c *Command) Func() interp.CommandFunc {
	return func(ctx context.Context, in *interp.Interp, args []string) (string, error) {
		return c.Invoke(ctx, args)
	}
}
