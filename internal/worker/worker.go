// Package worker implements the L4 worker: one (part-permutation,
// stock-solution) attempt, run as a bounded beam search over partial
// solutions (§4.5).
package worker

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/piwi3910/cutstock/internal/idgen"
	"github.com/piwi3910/cutstock/internal/model"
	"github.com/piwi3910/cutstock/internal/rank"
	"github.com/piwi3910/cutstock/internal/solution"
)

// Pool is the shared, cross-worker destination for surviving solutions
// (§4.5 step 3 "append solutions to the shared global pool"). L7 supplies
// the concrete implementation; the worker only needs to hand off and prune.
type Pool interface {
	Merge(solutions []*solution.Solution, final rank.PriorityList, accuracyFactor int)
}

// Config holds one worker attempt's fixed parameters.
type Config struct {
	Parts                []model.TileDimensions // already in the permutation order to try
	StockQueue           []model.ScaledStock
	AccuracyFactor       int
	Kerf                 int64
	MinTrim              int64
	OptimizationPriority int
	CreatorTag           string
}

// Result summarizes one completed (or cancelled) attempt.
type Result struct {
	Solutions    []*solution.Solution
	Cancelled    bool
	PartsHandled int
}

// Run executes the beam search described by §4.5. It checks ctx at least
// once per outer-loop iteration (one per part) and, on cancellation, returns
// immediately with whatever it has so far discarded from the shared pool —
// Run itself never merges into pool when cancelled.
func Run(ctx context.Context, cfg Config, gen *idgen.Generator, idSeq func() int64, pool Pool, progress *atomic.Int64, log *slog.Logger) Result {
	if log == nil {
		log = slog.Default()
	}

	final := rank.FinalList(cfg.OptimizationPriority)
	intermediate := rank.IntermediateList(cfg.OptimizationPriority)

	solutions := []*solution.Solution{solution.FromStockSolution(idSeq(), cfg.StockQueue, cfg.CreatorTag)}

	total := len(cfg.Parts)
	for i, part := range cfg.Parts {
		select {
		case <-ctx.Done():
			log.Debug("worker cancelled", "parts_done", i, "parts_total", total)
			return Result{Cancelled: true, PartsHandled: i}
		default:
		}

		next, err := expand(solutions, part, gen, idSeq, cfg.Kerf, cfg.MinTrim)
		if err != nil {
			log.Error("worker step failed", "error", err, "part", part.ID, "step", i)
			return Result{Cancelled: false, PartsHandled: i}
		}

		next = dedupeByStructure(next)
		intermediate.Sort(next)
		if len(next) > cfg.AccuracyFactor {
			next = next[:cfg.AccuracyFactor]
		}
		solutions = next

		if total > 0 && progress != nil {
			progress.Store(int64((i + 1) * 100 / total))
		}
	}

	if pool != nil {
		pool.Merge(solutions, final, cfg.AccuracyFactor)
	}
	return Result{Solutions: solutions, PartsHandled: total}
}

// expand applies try_place_tile for part across every current solution,
// flattening all of their successors into one slice (§4.5 step 2a).
func expand(solutions []*solution.Solution, part model.TileDimensions, gen *idgen.Generator, idSeq func() int64, kerf, minTrim int64) ([]*solution.Solution, error) {
	var out []*solution.Solution
	for _, s := range solutions {
		produced, err := solution.TryPlaceTile(s, part, gen, idSeq, kerf, minTrim)
		if err != nil {
			return nil, err
		}
		out = append(out, produced...)
	}
	return out, nil
}

// dedupeByStructure keeps the first occurrence of each distinct structural
// identifier, preserving relative order (§4.1, §4.5 step 2b).
func dedupeByStructure(solutions []*solution.Solution) []*solution.Solution {
	seen := make(map[string]struct{}, len(solutions))
	out := make([]*solution.Solution, 0, len(solutions))
	for _, s := range solutions {
		key := s.StructureIdentifier()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
