// Package obslog wraps a zerolog.Logger for the routing engine's ambient
// diagnostics: lifecycle transitions on RouterDb's Latest slot, tile
// rewrites when a classification function is replaced, and search caps or
// exhaustion in the edge-based Dijkstra.
//
// Nothing in this package is called from inside the Dijkstra relaxation
// loop itself — only at injection and termination boundaries — since the
// engine's search loop promises no I/O.
package obslog

import (
	"os"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

var (
	once    sync.Once
	base    zerolog.Logger
	disable bool
)

func root() zerolog.Logger {
	once.Do(func() {
		base = zerolog.New(os.Stderr).With().Timestamp().Logger()
	})
	if disable {
		return zerolog.Nop()
	}

	return base
}

// Disable silences all obslog output.
func Disable() { disable = true }

// Component returns a child logger tagged with a component name, e.g.
// "routingnetwork" or "dijkstra".
func Component(name string) zerolog.Logger {
	return root().With().Str("component", name).Logger()
}

// Bytes formats a byte count the way the logger's call sites want it
// printed: humanize.Bytes keeps tile-arena size diagnostics readable.
func Bytes(n uint64) string { return humanize.Bytes(n) }

// Comma formats an integer with thousands separators, used for visit counts
// and vertex/edge totals in diagnostic log lines.
func Comma(n int64) string { return humanize.Comma(n) }
