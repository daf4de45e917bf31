package search

import (
	"sync"

	"github.com/google/btree"

	"github.com/piwi3910/cutstock/internal/rank"
	"github.com/piwi3910/cutstock/internal/solution"
)

// Pool is the task-scoped, mutex-guarded solution pool (§5 "one mutex-
// guarded vector; workers append under lock, coordinator sorts under
// lock"). It is backed by a B-tree keyed on the final comparator stack so
// that truncation to accuracy_factor after every worker contribution is an
// ordered trim instead of a full re-sort.
type Pool struct {
	mu    sync.Mutex
	tree  *btree.BTreeG[*solution.Solution]
	order rank.PriorityList
}

// NewPool returns an empty pool. The ordering is fixed by the first Merge
// call's PriorityList and held for the pool's lifetime — every worker in a
// task shares the same optimization_priority, so this is always consistent.
func NewPool() *Pool {
	return &Pool{}
}

func lessFor(order rank.PriorityList) func(a, b *solution.Solution) bool {
	return func(a, b *solution.Solution) bool {
		switch order.Compare(a, b) {
		case rank.Less:
			return true
		case rank.Greater:
			return false
		default:
			// Tiebreak on ID only to give the tree a strict weak ordering;
			// this never changes which solutions rank best, only how two
			// fully-tied solutions are stored without overwriting each other.
			return a.ID < b.ID
		}
	}
}

// Merge implements worker.Pool: append solutions under lock, then trim to
// accuracyFactor by evicting the worst entries (§4.5 step 3, §4.8 step 4).
func (p *Pool) Merge(solutions []*solution.Solution, final rank.PriorityList, accuracyFactor int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tree == nil {
		p.order = final
		p.tree = btree.NewG(32, lessFor(final))
	}
	for _, s := range solutions {
		p.tree.ReplaceOrInsert(s)
	}
	for accuracyFactor > 0 && p.tree.Len() > accuracyFactor {
		p.tree.DeleteMax()
	}
}

// Best returns the top-ranked solution, if any.
func (p *Pool) Best() (*solution.Solution, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tree == nil {
		return nil, false
	}
	return p.tree.Min()
}

// Len returns the current pool size.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tree == nil {
		return 0
	}
	return p.tree.Len()
}

// Snapshot returns all pool members ordered best-first.
func (p *Pool) Snapshot() []*solution.Solution {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tree == nil {
		return nil
	}
	out := make([]*solution.Solution, 0, p.tree.Len())
	p.tree.Ascend(func(s *solution.Solution) bool {
		out = append(out, s)
		return true
	})
	return out
}
