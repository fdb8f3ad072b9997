//go:build !(cgo && libsass)

package main

import (
	"errors"

	"github.com/caffeineduck/gosass/engine"
)

func openLibsass() (engine.Engine, error) {
	return nil, errors.New("libsass engine not built in; rebuild with -tags libsass")
}
