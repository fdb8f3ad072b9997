package sasscmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/caffeineduck/gosass/engine"
)

// Executor runs one compilation per call against an engine.
type Executor struct {
	eng    engine.Engine
	logger *slog.Logger
}

// NewExecutor returns an executor for eng. A nil logger discards.
func NewExecutor(eng engine.Engine, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = discardLogger()
	}
	return &Executor{eng: eng, logger: logger}
}

// Execute compiles source and returns the marshaled result. source is a
// path for engine.OriginFile and the style sheet for engine.OriginData.
//
// Execute takes ownership of opts, which may be nil: it is attached to the
// context, or released if no context could be made. For data sources the
// payload is copied into an engine buffer that Execute frees after the
// context has been deleted.
func (x *Executor) Execute(ctx context.Context, origin engine.Origin, opts engine.Options, source string) (Result, error) {
	attached := false
	defer func() {
		if opts != nil && !attached {
			opts.Release()
		}
	}()

	var (
		c   engine.Context
		err error
	)
	switch origin {
	case engine.OriginFile:
		c, err = x.eng.NewFileContext(source)
		if err != nil {
			return nil, argErrorf(ErrAllocation, "file context allocation failed: %v", err)
		}
	case engine.OriginData:
		buf, err := x.eng.CopyString(source)
		if err != nil {
			return nil, argErrorf(ErrAllocation, "source copy failed: %v", err)
		}
		// Registered before the context's Delete so it runs after it.
		defer buf.Free()

		c, err = x.eng.NewDataContext(buf)
		if err != nil {
			return nil, argErrorf(ErrAllocation, "data context allocation failed: %v", err)
		}
	default:
		return nil, argErrorf(ErrUnsupportedOrigin, "unsupported origin kind %q", origin)
	}
	defer c.Delete()

	if opts != nil {
		c.SetOptions(opts)
		attached = true
	}

	start := time.Now()
	status := c.Compile(ctx)
	res := Marshal(c)

	x.logger.Debug("sass compile",
		"origin", origin.String(),
		"status", status,
		"duration", time.Since(start),
	)
	return res, nil
}
