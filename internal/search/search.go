// Package search implements the L7 search coordinator: building the
// permutation set and stock-solution stream, fanning workers out over a
// bounded pool, merging contributions into the task-scoped pool, and
// applying the early-exit heuristic (§4.8).
package search

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/piwi3910/cutstock/internal/idgen"
	"github.com/piwi3910/cutstock/internal/model"
	"github.com/piwi3910/cutstock/internal/permute"
	"github.com/piwi3910/cutstock/internal/solution"
	"github.com/piwi3910/cutstock/internal/stockgen"
	"github.com/piwi3910/cutstock/internal/worker"
)

// moderateEarlyExitEfficiency is the lower of the two early-exit bars
// (§4.8 step 5: "...or 85% with all parts placed, stop dispatching").
const moderateEarlyExitEfficiency = 0.85

// stockGenMinBuffer bounds how far the background stock-solution producer
// runs ahead before it is allowed to stop early on a full fit (§4.6).
const stockGenMinBuffer = 16

// Config holds one task's search parameters.
type Config struct {
	Parts                []model.TileDimensions
	Stocks               []model.ScaledStock // already expanded, one entry per physical sheet
	AccuracyFactor       int
	Kerf                 int64
	MinTrim              int64
	OptimizationPriority int
	MaxWorkersPerTask    int
	HighEfficiencyExit   float64 // e.g. 0.98; the "100% placed, efficiency above threshold" bar
	CreatorTag           string
}

// Coordinator runs one task's search and exposes its live pool and
// aggregate progress while in flight.
type Coordinator struct {
	pool *Pool

	mu       sync.Mutex
	progress []*atomic.Int64
}

// NewCoordinator returns an idle coordinator ready for Run.
func NewCoordinator() *Coordinator {
	return &Coordinator{pool: NewPool()}
}

// Pool returns the task-scoped solution pool (readable concurrently with Run).
func (c *Coordinator) Pool() *Pool {
	return c.pool
}

// Progress reports the task's aggregate percent-done as the max across all
// dispatched workers, not the mean (§4.10).
func (c *Coordinator) Progress() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var max int64
	for _, p := range c.progress {
		if v := p.Load(); v > max {
			max = v
		}
	}
	return max
}

// Run dispatches workers for every (stock-solution, permutation) pair until
// the stock generator is exhausted, ctx is cancelled, or the early-exit
// heuristic fires. It blocks until all dispatched workers have returned.
func (c *Coordinator) Run(ctx context.Context, cfg Config, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	if cfg.MaxWorkersPerTask <= 0 {
		cfg.MaxWorkersPerTask = 1
	}

	catalogue := buildCatalogue(cfg.Stocks)
	var requiredArea, requiredMaxDim int64
	for _, p := range cfg.Parts {
		requiredArea += p.Area()
		if p.Width > requiredMaxDim {
			requiredMaxDim = p.Width
		}
		if p.Height > requiredMaxDim {
			requiredMaxDim = p.Height
		}
	}

	gen := stockgen.New(catalogue, requiredArea, requiredMaxDim, stockGenMinBuffer)
	go gen.Run(ctx)
	defer gen.Stop()

	orderings := permute.Orderings(cfg.Parts)
	totalParts := len(cfg.Parts)

	nodeGen := idgen.New()
	solutionIDs := idgen.New()

	dispatchCtx, cancelDispatch := context.WithCancel(ctx)
	defer cancelDispatch()

	sem := make(chan struct{}, cfg.MaxWorkersPerTask)
	var wg sync.WaitGroup

	dispatched := 0

stockLoop2:
	for stockIdx := 0; ; stockIdx++ {
		stockSolution, ok := gen.At(dispatchCtx, stockIdx)
		if !ok {
			// No subset of the catalogue meets the area/max-dimension bar
			// (demand exceeds every achievable combination) — still run one
			// attempt against everything available so oversized parts are
			// correctly recorded as no-fit rather than the task silently
			// producing an empty pool.
			if stockIdx == 0 && dispatched == 0 && len(cfg.Stocks) > 0 {
				stockSolution = append([]model.ScaledStock(nil), cfg.Stocks...)
			} else {
				break
			}
		}
		queue := append([]model.ScaledStock(nil), stockSolution...)

		for _, ordering := range orderings {
			select {
			case <-dispatchCtx.Done():
				break stockLoop2
			default:
			}

			progressCounter := &atomic.Int64{}
			c.mu.Lock()
			c.progress = append(c.progress, progressCounter)
			c.mu.Unlock()

			select {
			case sem <- struct{}{}:
			case <-dispatchCtx.Done():
				break stockLoop2
			}

			dispatched++
			wg.Add(1)
			go func(ordering []model.TileDimensions, stockQueue []model.ScaledStock, progress *atomic.Int64) {
				defer wg.Done()
				defer func() { <-sem }()

				wCfg := worker.Config{
					Parts:                ordering,
					StockQueue:           stockQueue,
					AccuracyFactor:       cfg.AccuracyFactor,
					Kerf:                 cfg.Kerf,
					MinTrim:              cfg.MinTrim,
					OptimizationPriority: cfg.OptimizationPriority,
					CreatorTag:           cfg.CreatorTag,
				}
				worker.Run(dispatchCtx, wCfg, nodeGen, solutionIDs.Next, c.pool, progress, log)
			}(ordering, queue, progressCounter)

			if best, ok := c.pool.Best(); ok && shouldExitEarly(best, totalParts, cfg.HighEfficiencyExit) {
				gen.SignalFullFit()
				cancelDispatch()
				break stockLoop2
			}
		}
	}

	wg.Wait()
	return nil
}

// shouldExitEarly implements §4.8 step 5's two-tier early-exit bar.
func shouldExitEarly(best *solution.Solution, totalParts int, highThreshold float64) bool {
	if totalParts == 0 {
		return false
	}
	if best.PlacedCount() != totalParts {
		return false
	}
	eff := efficiencyOf(best)
	if highThreshold > 0 && eff > highThreshold {
		return true
	}
	return eff >= moderateEarlyExitEfficiency
}

// efficiencyOf returns used-area / total-area across every mosaic in s.
func efficiencyOf(s *solution.Solution) float64 {
	var used, total int64
	for _, m := range s.Mosaics {
		total += m.Root.Area()
		used += m.Root.UsedArea()
	}
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total)
}

func buildCatalogue(stocks []model.ScaledStock) []stockgen.Entry {
	type key struct {
		w, h int64
		mat  string
	}
	order := make([]key, 0)
	byKey := make(map[key]*stockgen.Entry)
	for _, s := range stocks {
		k := key{s.Width, s.Height, s.Material}
		e, ok := byKey[k]
		if !ok {
			e = &stockgen.Entry{Stock: s, MaxCount: 0}
			byKey[k] = e
			order = append(order, k)
		}
		e.MaxCount++
	}
	out := make([]stockgen.Entry, 0, len(order))
	for _, k := range order {
		out = append(out, *byKey[k])
	}
	return out
}
