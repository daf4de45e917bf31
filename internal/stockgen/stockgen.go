// Package stockgen implements the L5 stock-solution generator: a lazy,
// background-producer/foreground-consumer stream of stock subsets covering
// demand, enumerated by increasing cardinality and lexicographic order
// (§4.6).
package stockgen

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/piwi3910/cutstock/internal/model"
)

// Entry is one distinct sheet type available in the catalogue, bounded by
// how many copies of it exist.
type Entry struct {
	Stock    model.ScaledStock
	MaxCount int
}

// Solution is one generated stock subset — a multiset of sheets drawn from
// the catalogue, in the order they were drawn.
type Solution []model.ScaledStock

// Generator produces Solutions on a background goroutine and serves them to
// one or more foreground consumers by index (§4.6 "background-producer,
// foreground-consumer").
type Generator struct {
	catalogue      []Entry
	requiredArea   int64
	requiredMaxDim int64
	minBuffer      int

	mu     sync.Mutex
	buffer []Solution
	seen   map[string]struct{}
	notify chan struct{}

	fullFit   atomic.Bool
	stopped   atomic.Bool
	exhausted atomic.Bool
}

// New builds a generator over catalogue, sorted ascending by sheet area as
// required by the enumeration order. minBuffer is the buffer size at which
// the producer may stop early once the consumer already has a full fit.
func New(catalogue []Entry, requiredArea, requiredMaxDim int64, minBuffer int) *Generator {
	sorted := append([]Entry(nil), catalogue...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Stock.Width*sorted[i].Stock.Height < sorted[j].Stock.Width*sorted[j].Stock.Height
	})
	return &Generator{
		catalogue:      sorted,
		requiredArea:   requiredArea,
		requiredMaxDim: requiredMaxDim,
		minBuffer:      minBuffer,
		seen:           make(map[string]struct{}),
		notify:         make(chan struct{}),
	}
}

// SignalFullFit tells the producer the foreground consumer already holds a
// fully-fitting solution — condition (a) for early producer stop.
func (g *Generator) SignalFullFit() {
	g.fullFit.Store(true)
	g.wake()
}

// Stop tells the producer the owning task left the running state —
// condition (b).
func (g *Generator) Stop() {
	g.stopped.Store(true)
	g.wake()
}

func (g *Generator) wake() {
	g.mu.Lock()
	close(g.notify)
	g.notify = make(chan struct{})
	g.mu.Unlock()
}

func (g *Generator) shouldHalt() bool {
	if g.stopped.Load() || g.exhausted.Load() {
		return true
	}
	g.mu.Lock()
	n := len(g.buffer)
	g.mu.Unlock()
	return n >= g.minBuffer && g.fullFit.Load()
}

// Run drives the producer loop until ctx is cancelled, Stop is called, the
// early-stop condition fires, or the catalogue is exhausted. It is meant to
// run on its own goroutine; callers read results through At.
func (g *Generator) Run(ctx context.Context) {
	n := len(g.catalogue)
	if n == 0 {
		g.exhausted.Store(true)
		g.wake()
		return
	}

	capacity := 0
	for _, e := range g.catalogue {
		capacity += e.MaxCount
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Millisecond
	bo.MaxInterval = 50 * time.Millisecond
	var idleStreak int

	for length := 1; length <= capacity; length++ {
		combo := make([]int, length)
		for {
			if g.shouldHalt() {
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}

			found := false
			if withinCounts(combo, g.catalogue) {
				sol := materialize(combo, g.catalogue)
				area, maxDim := solutionMetrics(sol)
				if area >= g.requiredArea && maxDim >= g.requiredMaxDim {
					key := comboKey(combo)
					g.mu.Lock()
					if _, dup := g.seen[key]; !dup {
						g.seen[key] = struct{}{}
						g.buffer = append(g.buffer, sol)
						found = true
					}
					g.mu.Unlock()
					if found {
						g.wake()
					}
				}
			}

			if found {
				idleStreak = 0
				bo.Reset()
			} else {
				idleStreak++
				// Pace CPU-bound scanning once a long stretch of combinations
				// produced nothing new, instead of busy-spinning.
				if idleStreak%4096 == 0 {
					next, err := bo.NextBackOff()
					if err == nil {
						select {
						case <-time.After(next):
						case <-ctx.Done():
							return
						}
					}
				}
			}

			if !nextCombo(combo, n) {
				break
			}
		}
	}

	g.exhausted.Store(true)
	g.wake()
}

// At blocks until the Solution at index is available, the generator halts
// before reaching it, or ctx is cancelled. The second return is false in
// the latter two cases.
func (g *Generator) At(ctx context.Context, index int) (Solution, bool) {
	for {
		g.mu.Lock()
		if index < len(g.buffer) {
			sol := g.buffer[index]
			g.mu.Unlock()
			return sol, true
		}
		halted := g.stopped.Load() || g.exhausted.Load() || (len(g.buffer) >= g.minBuffer && g.fullFit.Load())
		ch := g.notify
		g.mu.Unlock()
		if halted {
			return nil, false
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, false
		}
	}
}

// Len returns the number of solutions produced so far.
func (g *Generator) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.buffer)
}

func withinCounts(combo []int, catalogue []Entry) bool {
	counts := make(map[int]int)
	for _, idx := range combo {
		counts[idx]++
		if counts[idx] > catalogue[idx].MaxCount {
			return false
		}
	}
	return true
}

func materialize(combo []int, catalogue []Entry) Solution {
	sol := make(Solution, len(combo))
	for i, idx := range combo {
		sol[i] = catalogue[idx].Stock
	}
	return sol
}

func solutionMetrics(sol Solution) (area int64, maxDim int64) {
	for _, s := range sol {
		area += s.Width * s.Height
		if s.Width > maxDim {
			maxDim = s.Width
		}
		if s.Height > maxDim {
			maxDim = s.Height
		}
	}
	return area, maxDim
}

func comboKey(combo []int) string {
	var b strings.Builder
	for _, idx := range combo {
		fmt.Fprintf(&b, "%d,", idx)
	}
	return b.String()
}

// nextCombo advances combo (nondecreasing indices into a catalogue of size
// n, fixed length len(combo)) to the next multiset in lexicographic order.
// It returns false once combo was the last one of its length.
func nextCombo(combo []int, n int) bool {
	i := len(combo) - 1
	for i >= 0 && combo[i] == n-1 {
		i--
	}
	if i < 0 {
		return false
	}
	combo[i]++
	for j := i + 1; j < len(combo); j++ {
		combo[j] = combo[i]
	}
	return true
}
