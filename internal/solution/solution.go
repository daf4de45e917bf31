// Package solution implements the L2 sequential builder: extending a
// partial Solution by one part at a time, across all of its mosaics, with
// fallback to fresh stock and finally to a no-fit list (§4.3).
package solution

import (
	"fmt"
	"sort"
	"strings"

	"github.com/piwi3910/cutstock/internal/idgen"
	"github.com/piwi3910/cutstock/internal/model"
	"github.com/piwi3910/cutstock/internal/mosaic"
)

// Solution is a multiset of mosaics plus the queue of unused stock and the
// list of parts that could not be placed (§3 "Solution").
type Solution struct {
	ID         int64
	Mosaics    []*mosaic.Mosaic
	StockQueue []model.ScaledStock
	NoFit      []model.TileDimensions
	CreatorTag string
}

// FromStockSolution builds the initial solution for one (permutation,
// stock-solution) attempt: no mosaics yet, the full stock queue available
// (§4.5 step 1 "solutions <- [Solution.from_stock_solution(stock)]").
func FromStockSolution(id int64, stockQueue []model.ScaledStock, creatorTag string) *Solution {
	q := make([]model.ScaledStock, len(stockQueue))
	copy(q, stockQueue)
	return &Solution{ID: id, StockQueue: q, CreatorTag: creatorTag}
}

func (s *Solution) clone(newID int64) *Solution {
	mosaics := make([]*mosaic.Mosaic, len(s.Mosaics))
	copy(mosaics, s.Mosaics)
	queue := make([]model.ScaledStock, len(s.StockQueue))
	copy(queue, s.StockQueue)
	noFit := make([]model.TileDimensions, len(s.NoFit))
	copy(noFit, s.NoFit)
	return &Solution{ID: newID, Mosaics: mosaics, StockQueue: queue, NoFit: noFit, CreatorTag: s.CreatorTag}
}

func sortByAscendingFreeArea(mosaics []*mosaic.Mosaic) {
	sort.SliceStable(mosaics, func(i, j int) bool {
		return mosaics[i].Root.UnusedArea() < mosaics[j].Root.UnusedArea()
	})
}

// TryPlaceTile extends s by part, returning every distinct successor
// solution (§4.3). kerf/minTrim configure any freshly opened stock panel;
// existing mosaics already carry their own. It never mutates s or any of
// its mosaics.
func TryPlaceTile(s *Solution, part model.TileDimensions, gen *idgen.Generator, nextID func() int64, kerf, minTrim int64) ([]*Solution, error) {
	var out []*Solution

	// Step 1: try every existing mosaic.
	for i, m := range s.Mosaics {
		produced, err := m.Add(part, gen)
		if err != nil {
			return nil, err
		}
		for _, m2 := range produced {
			s2 := s.clone(nextID())
			s2.Mosaics[i] = m2
			sortByAscendingFreeArea(s2.Mosaics)
			out = append(out, s2)
		}
	}
	if len(out) > 0 {
		return out, nil
	}

	// Step 2: fall back to fresh stock, first queued panel only.
	if len(s.StockQueue) > 0 {
		stock := s.StockQueue[0]
		m0, err := mosaic.NewFromStock(stock, gen, kerf, minTrim)
		if err != nil {
			return nil, err
		}
		produced, err := m0.Add(part, gen)
		if err != nil {
			return nil, err
		}
		for _, m2 := range produced {
			s2 := s.clone(nextID())
			s2.StockQueue = s2.StockQueue[1:]
			s2.Mosaics = append(s2.Mosaics, m2)
			sortByAscendingFreeArea(s2.Mosaics)
			out = append(out, s2)
		}
		if len(out) > 0 {
			return out, nil
		}
	}

	// Step 3: no placement anywhere and no usable stock — record no-fit.
	s2 := s.clone(nextID())
	s2.NoFit = append(s2.NoFit, part)
	return []*Solution{s2}, nil
}

// StructureIdentifier returns the canonical dedup key for s: each mosaic's
// tree structural id, sorted, concatenated (§3 "Structural identifier").
func (s *Solution) StructureIdentifier() string {
	ids := make([]string, len(s.Mosaics))
	for i, m := range s.Mosaics {
		ids[i] = m.Root.StructureID()
	}
	sort.Strings(ids)
	var b strings.Builder
	for _, id := range ids {
		b.WriteString(id)
		b.WriteByte('|')
	}
	fmt.Fprintf(&b, "nofit=%d", len(s.NoFit))
	return b.String()
}

// PlacedCount returns the total number of final leaves across all mosaics.
func (s *Solution) PlacedCount() int {
	n := 0
	for _, m := range s.Mosaics {
		n += len(m.Root.FinalLeaves())
	}
	return n
}

// TotalWastedArea returns the sum of unused area across all mosaics (queued,
// never-opened stock is not waste — it is simply unused inventory).
func (s *Solution) TotalWastedArea() int64 {
	var total int64
	for _, m := range s.Mosaics {
		total += m.Root.UnusedArea()
	}
	return total
}

// TotalCuts returns the sum of cut-log entries across all mosaics.
func (s *Solution) TotalCuts() int {
	n := 0
	for _, m := range s.Mosaics {
		n += len(m.Cuts)
	}
	return n
}
