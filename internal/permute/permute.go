// Package permute implements the L6 permutation driver: the set of part
// orderings fed to workers, full-factorial for small part counts and a
// curated heuristic set otherwise (§4.7).
package permute

import (
	"fmt"
	"sort"
	"strings"

	"github.com/piwi3910/cutstock/internal/model"
)

// SmallThreshold is N_small: at or below this many permutation slots, every
// permutation is emitted; above it, the curated heuristic set is used.
const SmallThreshold = 7

// slotsPerKey bounds how many chunks a single (width,height) group is split
// into, regardless of how many copies it contains — the heuristic cap that
// the grouping-size division targets (§9 resolution 1: "max(1, ceil(n/k))").
const slotsPerKey = 3

// slot is one permutation element: a contiguous run of identical-dimension
// parts that is never internally reordered.
type slot []model.TileDimensions

func (s slot) area() int64 {
	if len(s) == 0 {
		return 0
	}
	return s[0].Area()
}

func (s slot) maxDim() int64 {
	if len(s) == 0 {
		return 0
	}
	if s[0].Width > s[0].Height {
		return s[0].Width
	}
	return s[0].Height
}

func (s slot) perimeter() int64 {
	if len(s) == 0 {
		return 0
	}
	return 2 * (s[0].Width + s[0].Height)
}

// Orderings returns the set of part orderings to hand to workers, flattened
// back to []model.TileDimensions and deduplicated by dimension sequence.
func Orderings(parts []model.TileDimensions) [][]model.TileDimensions {
	slots := group(parts)

	var slotOrderings [][]slot
	if len(slots) <= SmallThreshold {
		slotOrderings = permutations(slots)
	} else {
		slotOrderings = curatedOrderings(slots)
	}

	return dedupe(flattenAll(slotOrderings))
}

// group coalesces identical (width,height,material,orientation) parts into
// groups, preserving input order within a group, then splits each group of
// n parts into at most slotsPerKey chunks of ceil(n/slotsPerKey) parts (the
// last chunk may be shorter) — the floor-1-guarded division from §9
// resolution 1.
func group(parts []model.TileDimensions) []slot {
	order := make([]string, 0)
	byKey := make(map[string][]model.TileDimensions)
	for _, p := range parts {
		k := dimKey(p)
		if _, ok := byKey[k]; !ok {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], p)
	}

	var slots []slot
	for _, k := range order {
		items := byKey[k]
		n := len(items)
		chunkSize := (n + slotsPerKey - 1) / slotsPerKey
		if chunkSize < 1 {
			chunkSize = 1
		}
		for i := 0; i < n; i += chunkSize {
			end := i + chunkSize
			if end > n {
				end = n
			}
			chunk := make(slot, end-i)
			copy(chunk, items[i:end])
			slots = append(slots, chunk)
		}
	}
	return slots
}

func dimKey(p model.TileDimensions) string {
	return fmt.Sprintf("%d|%d|%s|%v", p.Width, p.Height, p.Material, p.Orientation)
}

// permutations returns every ordering of slots (full factorial).
func permutations(slots []slot) [][]slot {
	if len(slots) == 0 {
		return [][]slot{{}}
	}
	var out [][]slot
	var rec func(prefix []slot, remaining []slot)
	rec = func(prefix []slot, remaining []slot) {
		if len(remaining) == 0 {
			cp := make([]slot, len(prefix))
			copy(cp, prefix)
			out = append(out, cp)
			return
		}
		for i := range remaining {
			next := make([]slot, 0, len(remaining)-1)
			next = append(next, remaining[:i]...)
			next = append(next, remaining[i+1:]...)
			rec(append(prefix, remaining[i]), next)
		}
	}
	rec(nil, slots)
	return out
}

// curatedOrderings builds between 5 and 8 heuristic orderings over slots
// (§4.7): descending area, descending max-dim, descending width, descending
// height, descending perimeter, ascending area, reversed-input, and a
// size-alternating interleave (largest, smallest, second-largest, ...).
func curatedOrderings(slots []slot) [][]slot {
	base := make([]slot, len(slots))
	copy(base, slots)

	byMetric := func(metric func(slot) int64, descending bool) []slot {
		out := make([]slot, len(base))
		copy(out, base)
		sort.SliceStable(out, func(i, j int) bool {
			if descending {
				return metric(out[i]) > metric(out[j])
			}
			return metric(out[i]) < metric(out[j])
		})
		return out
	}

	reversed := make([]slot, len(base))
	for i, s := range base {
		reversed[len(base)-1-i] = s
	}

	descArea := byMetric(slot.area, true)
	alternating := sizeAlternate(descArea)

	return [][]slot{
		descArea,
		byMetric(slot.maxDim, true),
		byMetric(func(s slot) int64 {
			if len(s) == 0 {
				return 0
			}
			return s[0].Width
		}, true),
		byMetric(func(s slot) int64 {
			if len(s) == 0 {
				return 0
			}
			return s[0].Height
		}, true),
		byMetric(slot.perimeter, true),
		byMetric(slot.area, false),
		reversed,
		alternating,
	}
}

// sizeAlternate interleaves from both ends of a descending-area ordering:
// largest, smallest, second-largest, second-smallest, ...
func sizeAlternate(descArea []slot) []slot {
	out := make([]slot, 0, len(descArea))
	lo, hi := 0, len(descArea)-1
	fromHigh := true
	for lo <= hi {
		if fromHigh {
			out = append(out, descArea[lo])
			lo++
		} else {
			out = append(out, descArea[hi])
			hi--
		}
		fromHigh = !fromHigh
	}
	return out
}

func flattenAll(slotOrderings [][]slot) [][]model.TileDimensions {
	out := make([][]model.TileDimensions, 0, len(slotOrderings))
	for _, so := range slotOrderings {
		out = append(out, flatten(so))
	}
	return out
}

func flatten(so []slot) []model.TileDimensions {
	var total int
	for _, s := range so {
		total += len(s)
	}
	out := make([]model.TileDimensions, 0, total)
	for _, s := range so {
		out = append(out, s...)
	}
	return out
}

// dedupe removes orderings whose dimension sequence (width,height pairs, in
// order) already appeared, keeping first occurrence (§4.7 "deduplicated by
// a hash of the dimension-sequence, order-sensitive").
func dedupe(orderings [][]model.TileDimensions) [][]model.TileDimensions {
	seen := make(map[string]struct{}, len(orderings))
	out := make([][]model.TileDimensions, 0, len(orderings))
	for _, o := range orderings {
		key := sequenceKey(o)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, o)
	}
	return out
}

func sequenceKey(parts []model.TileDimensions) string {
	var b strings.Builder
	for _, p := range parts {
		fmt.Fprintf(&b, "%d,%d;", p.Width, p.Height)
	}
	return b.String()
}
