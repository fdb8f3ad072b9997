//go:build cgo && libsass

package main

import (
	"github.com/caffeineduck/gosass/engine"
	"github.com/caffeineduck/gosass/engine/libsass"
)

func openLibsass() (engine.Engine, error) {
	return libsass.New(), nil
}
