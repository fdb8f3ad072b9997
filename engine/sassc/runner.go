package sassc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// Invocation is one run of the sassc command line.
type Invocation struct {
	// Args follow the program name.
	Args  []string
	Stdin io.Reader

	// ReadDirs are host directories the compiler reads from, WriteDir
	// the one it writes its output into. Process runners see the whole
	// filesystem and ignore them; sandboxed runners mount them.
	ReadDirs []string
	WriteDir string
}

// Runner executes sassc. A non-zero exit is reported through the exit
// code; err is only for failures to run at all.
type Runner interface {
	Run(ctx context.Context, inv Invocation, stdout, stderr io.Writer) (exitCode int, err error)
}

// DefaultPath is the program ProcessRunner runs when Path is empty.
const DefaultPath = "sassc"

// ProcessRunner runs a sassc binary as a child process.
type ProcessRunner struct {
	Path string
}

func (r ProcessRunner) Run(ctx context.Context, inv Invocation, stdout, stderr io.Writer) (int, error) {
	path := r.Path
	if path == "" {
		path = DefaultPath
	}

	cmd := exec.CommandContext(ctx, path, inv.Args...)
	cmd.Stdin = inv.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, fmt.Errorf("run %s: %w", path, err)
	}
	return 0, nil
}
