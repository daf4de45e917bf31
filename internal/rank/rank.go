// Package rank implements the L3 ranking layer: the nine named comparators
// and the MultiCriteria lexicographic priority-list composition used to
// totally order solutions (§4.4).
package rank

import (
	"math"
	"sort"

	"github.com/piwi3910/cutstock/internal/solution"
)

// Ordering is the three-valued result of a comparison.
type Ordering int

const (
	Less Ordering = iota - 1
	Equal
	Greater
)

// Kind enumerates the nine named comparators (§9 "prefer a tagged variant
// over dynamic dispatch when the variant set is closed and known at
// compile time").
type Kind int

const (
	MostTiles Kind = iota
	LeastWastedArea
	LeastNbrCuts
	LeastNbrMosaics
	BiggestUnusedTileArea
	MostHVDiscrepancy
	SmallestCenterOfMassDistToOrigin
	LeastNbrUnusedTiles
	MostUnusedPanelArea
)

func (k Kind) String() string {
	switch k {
	case MostTiles:
		return "MostTiles"
	case LeastWastedArea:
		return "LeastWastedArea"
	case LeastNbrCuts:
		return "LeastNbrCuts"
	case LeastNbrMosaics:
		return "LeastNbrMosaics"
	case BiggestUnusedTileArea:
		return "BiggestUnusedTileArea"
	case MostHVDiscrepancy:
		return "MostHVDiscrepancy"
	case SmallestCenterOfMassDistToOrigin:
		return "SmallestCenterOfMassDistToOrigin"
	case LeastNbrUnusedTiles:
		return "LeastNbrUnusedTiles"
	case MostUnusedPanelArea:
		return "MostUnusedPanelArea"
	default:
		return "Unknown"
	}
}

// metric returns a value for s such that LOWER is always better, regardless
// of whether the named comparator is a "most" or "least" kind — maximizing
// comparators are simply negated so every Kind shares one comparison rule.
func (k Kind) metric(s *solution.Solution) float64 {
	switch k {
	case MostTiles:
		return -float64(s.PlacedCount())
	case LeastWastedArea:
		return float64(s.TotalWastedArea())
	case LeastNbrCuts:
		return float64(s.TotalCuts())
	case LeastNbrMosaics:
		return float64(len(s.Mosaics))
	case BiggestUnusedTileArea:
		return -float64(biggestUnusedTileArea(s))
	case MostHVDiscrepancy:
		return -float64(hvDiscrepancy(s))
	case SmallestCenterOfMassDistToOrigin:
		return centerOfMassDistance(s)
	case LeastNbrUnusedTiles:
		return float64(countFreeLeaves(s))
	case MostUnusedPanelArea:
		return -float64(mostUnusedPanelArea(s))
	default:
		return 0
	}
}

// Compare applies this single comparator. NaN on either side falls back to
// Equal, a stable tie-break rather than an undefined ordering (§4.4).
func (k Kind) Compare(a, b *solution.Solution) Ordering {
	ma, mb := k.metric(a), k.metric(b)
	if math.IsNaN(ma) || math.IsNaN(mb) {
		return Equal
	}
	switch {
	case ma < mb:
		return Less
	case ma > mb:
		return Greater
	default:
		return Equal
	}
}

func biggestUnusedTileArea(s *solution.Solution) int64 {
	var best int64
	for _, m := range s.Mosaics {
		if a := m.Root.BiggestFreeLeafArea(); a > best {
			best = a
		}
	}
	return best
}

func hvDiscrepancy(s *solution.Solution) int64 {
	var h, v int64
	for _, m := range s.Mosaics {
		mh, mv := m.Root.CountFinalOrientation()
		h += int64(mh)
		v += int64(mv)
	}
	d := h - v
	if d < 0 {
		d = -d
	}
	return d
}

func centerOfMassDistance(s *solution.Solution) float64 {
	var weightedX, weightedY, totalArea float64
	for _, m := range s.Mosaics {
		for _, leaf := range m.Root.FinalLeaves() {
			area := float64(leaf.Area())
			cx := float64(leaf.Rect.X1+leaf.Rect.X2) / 2
			cy := float64(leaf.Rect.Y1+leaf.Rect.Y2) / 2
			weightedX += cx * area
			weightedY += cy * area
			totalArea += area
		}
	}
	if totalArea == 0 {
		return 0
	}
	cx, cy := weightedX/totalArea, weightedY/totalArea
	return math.Sqrt(cx*cx + cy*cy)
}

func countFreeLeaves(s *solution.Solution) int {
	n := 0
	for _, m := range s.Mosaics {
		n += len(m.Root.FreeLeaves())
	}
	return n
}

func mostUnusedPanelArea(s *solution.Solution) int64 {
	var best int64
	for _, m := range s.Mosaics {
		if a := m.Root.UnusedArea(); a > best {
			best = a
		}
	}
	return best
}

// PriorityList composes comparators lexicographically: the first non-Equal
// entry decides (§4.4, §9 "MultiCriteria([C1,...,Cn])").
type PriorityList []Kind

// Compare returns the first non-Equal result walking the list in order.
func (p PriorityList) Compare(a, b *solution.Solution) Ordering {
	for _, k := range p {
		if o := k.Compare(a, b); o != Equal {
			return o
		}
	}
	return Equal
}

// Less reports whether a sorts strictly before b under this priority list.
func (p PriorityList) Less(a, b *solution.Solution) bool {
	return p.Compare(a, b) == Less
}

// Sort orders solutions ascending (best first) under this priority list.
// Ties are broken by input-order stability (§5 "Equal yields input-order
// stability").
func (p PriorityList) Sort(solutions []*solution.Solution) {
	sort.SliceStable(solutions, func(i, j int) bool {
		return p.Less(solutions[i], solutions[j])
	})
}

// FinalList builds the priority list used to rank the task-scoped global
// pool. optimizationPriority 0 = area-first, 1 = cuts-first; any other
// value is treated as area-first (§4.4).
func FinalList(optimizationPriority int) PriorityList {
	second, third := LeastWastedArea, LeastNbrCuts
	if optimizationPriority == 1 {
		second, third = LeastNbrCuts, LeastWastedArea
	}
	return PriorityList{
		MostTiles,
		second,
		third,
		LeastNbrMosaics,
		BiggestUnusedTileArea,
		MostHVDiscrepancy,
		SmallestCenterOfMassDistToOrigin,
		LeastNbrUnusedTiles,
		MostUnusedPanelArea,
	}
}

// IntermediateList builds the priority list used inside a worker on each
// step — the first four entries of the final list (§4.4).
func IntermediateList(optimizationPriority int) PriorityList {
	return FinalList(optimizationPriority)[:4]
}
