package sasscmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/caffeineduck/gosass/engine"
	"github.com/caffeineduck/gosass/interp"
)

const (
	// CommandName is the default name of the registered command.
	CommandName = "sass"

	// PackageName and PackageVersion are provided to each interpreter.
	PackageName    = "sass"
	PackageVersion = "1.0"

	assocKey = "sass::package"
)

// UnloadFlags says why a package is being unloaded.
type UnloadFlags int

const (
	UnloadDetachFromInterp UnloadFlags = 1 << iota
	UnloadDetachFromProcess
	UnloadFromInit
)

func (f UnloadFlags) String() string {
	switch f {
	case UnloadDetachFromInterp:
		return "interp"
	case UnloadDetachFromProcess:
		return "process"
	case UnloadFromInit:
		return "init"
	}
	return fmt.Sprintf("UnloadFlags(%d)", int(f))
}

var ErrTornDown = errors.New("package torn down")

// Package installs the sass command into interpreters. One Package is
// created per process by the host, which calls Teardown exactly once on
// exit.
type Package struct {
	cmd    *Command
	eng    engine.Engine
	logger *slog.Logger

	mu       sync.Mutex
	tokens   map[*interp.Interp]interp.Token
	tornDown bool
}

// NewPackage returns a package whose command compiles with eng.
func NewPackage(eng engine.Engine, opts ...Option) *Package {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Package{
		cmd:    NewCommand(eng, opts...),
		eng:    eng,
		logger: cfg.logger,
		tokens: make(map[*interp.Interp]interp.Token),
	}
}

// Command returns the command the package installs.
func (p *Package) Command() *Command { return p.cmd }

// Init registers the command in in and provides the package. Calling it
// again for the same interpreter replaces the registration.
func (p *Package) Init(in *interp.Interp) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tornDown {
		return ErrTornDown
	}

	tok := in.CreateCommand(p.cmd.name, p.cmd.Func(), nil)
	p.tokens[in] = tok
	in.SetAssocData(assocKey, p)

	if err := in.PkgProvide(PackageName, PackageVersion); err != nil {
		if uerr := p.unloadLocked(in, UnloadFromInit); uerr != nil {
			p.logger.Error("sass package unload failed", "flags", UnloadFromInit.String(), "error", uerr)
		}
		return fmt.Errorf("provide %s %s: %w", PackageName, PackageVersion, err)
	}

	p.logger.Debug("sass package init", "command", p.cmd.name)
	return nil
}

// Unload removes the command and package data from in.
func (p *Package) Unload(in *interp.Interp, flags UnloadFlags) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unloadLocked(in, flags)
}

func (p *Package) unloadLocked(in *interp.Interp, flags UnloadFlags) error {
	defer in.DeleteAssocData(assocKey)

	tok, ok := p.tokens[in]
	if !ok {
		return nil
	}
	delete(p.tokens, in)
	if flags != UnloadFromInit {
		in.PkgForget(PackageName)
	}

	p.logger.Debug("sass package unload", "flags", flags.String())
	return in.DeleteCommandFromToken(tok)
}

// Teardown unloads every interpreter and closes the engine if it holds
// resources. Only the first call has an effect; its failures are logged.
func (p *Package) Teardown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tornDown {
		return
	}
	p.tornDown = true

	for in := range p.tokens {
		if err := p.unloadLocked(in, UnloadDetachFromProcess); err != nil {
			p.logger.Error("sass package unload failed", "flags", UnloadDetachFromProcess.String(), "error", err)
		}
	}
	if c, ok := p.eng.(io.Closer); ok {
		if err := c.Close(); err != nil {
			p.logger.Error("sass engine close failed", "error", err)
		}
	}
}

// FromInterp returns the package installed in in, if any.
func FromInterp(in *interp.Interp) (*Package, bool) {
	v, ok := in.AssocData(assocKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Package)
	return p, ok
}
