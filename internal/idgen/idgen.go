// Package idgen provides monotone, process-scoped identifier generation.
//
// Generators are plain values threaded explicitly by callers instead of
// package-level globals, so a caller can run two independent searches with
// independent id spaces (e.g. in tests) without cross-talk.
package idgen

import "sync/atomic"

// Generator hands out strictly increasing int64 values starting at 1.
// The zero value is ready to use.
type Generator struct {
	counter atomic.Int64
}

// New returns a Generator ready to mint ids starting at 1.
func New() *Generator {
	return &Generator{}
}

// Next returns the next id in the sequence. Safe for concurrent use.
func (g *Generator) Next() int64 {
	return g.counter.Add(1)
}
