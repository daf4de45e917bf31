// Package tree implements the L0 spatial decomposition layer: a binary
// guillotine tree representing the recursive cuts made into one stock
// sheet (§4.1).
package tree

import (
	"fmt"
	"strings"

	"github.com/piwi3910/cutstock/internal/idgen"
	"github.com/piwi3910/cutstock/internal/model"
)

// Rect is an axis-aligned half-open box in the integer-scaled plane.
type Rect struct {
	X1, Y1, X2, Y2 int64
}

func (r Rect) Width() int64  { return r.X2 - r.X1 }
func (r Rect) Height() int64 { return r.Y2 - r.Y1 }
func (r Rect) Area() int64   { return r.Width() * r.Height() }

func (r Rect) valid() bool {
	return r.X1 < r.X2 && r.Y1 < r.Y2
}

// Orientation tags a Cut as having split its parent along the X or Y axis.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

// Cut is a derived log entry produced at each split (§3 "Cut").
type Cut struct {
	Orientation Orientation
	Coordinate  int64
	ParentID    int64
	Child1ID    int64
	Child2ID    int64
}

// TileNode is one node of the binary guillotine tree. A node has either
// zero children (a leaf) or exactly two, which tile the parent exactly.
// IsFinal is true only on leaves that hold a placed part. Nodes are never
// mutated after construction; Split/MarkFinal return new nodes, and the
// only mutable field any caller sees is reached through reconstruction of
// the ancestor path (§9 "trees are deep-cloned on fan-out").
type TileNode struct {
	ID         int64
	Rect       Rect
	Child1     *TileNode
	Child2     *TileNode
	IsFinal    bool
	ExternalID string
	IsRotated  bool

	usedArea int64 // memoized at construction time (§3 "memoized used_area cache")
}

// NewLeaf creates a fresh, non-final leaf covering rect.
func NewLeaf(id int64, rect Rect) *TileNode {
	return &TileNode{ID: id, Rect: rect}
}

// Area returns the node's own rectangle area.
func (n *TileNode) Area() int64 { return n.Rect.Area() }

// UsedArea returns the memoized sum of final-leaf areas under n.
func (n *TileNode) UsedArea() int64 { return n.usedArea }

// UnusedArea returns Area() - UsedArea().
func (n *TileNode) UnusedArea() int64 { return n.Area() - n.usedArea }

// IsLeaf reports whether n has no children.
func (n *TileNode) IsLeaf() bool { return n.Child1 == nil && n.Child2 == nil }

// SplitVertical splits a non-final leaf at x = c, producing a left child
// (X1,Y1,c,Y2) and right child (c,Y1,X2,Y2). Returns the new parent node
// (same id and rect, now internal) and the Cut log entry.
func (n *TileNode) SplitVertical(gen *idgen.Generator, c int64) (*TileNode, Cut, error) {
	if !n.IsLeaf() {
		return nil, Cut{}, fmt.Errorf("%w: node %d is not a leaf", model.ErrInvalidCutPosition, n.ID)
	}
	if c <= n.Rect.X1 || c >= n.Rect.X2 {
		return nil, Cut{}, fmt.Errorf("%w: vertical cut at x=%d outside (%d,%d)", model.ErrInvalidCutPosition, c, n.Rect.X1, n.Rect.X2)
	}
	c1 := NewLeaf(gen.Next(), Rect{n.Rect.X1, n.Rect.Y1, c, n.Rect.Y2})
	c2 := NewLeaf(gen.Next(), Rect{c, n.Rect.Y1, n.Rect.X2, n.Rect.Y2})
	cut := Cut{Orientation: Vertical, Coordinate: c, ParentID: n.ID, Child1ID: c1.ID, Child2ID: c2.ID}
	return &TileNode{ID: n.ID, Rect: n.Rect, Child1: c1, Child2: c2, usedArea: 0}, cut, nil
}

// SplitHorizontal splits a non-final leaf at y = c, producing a top child
// (X1,Y1,X2,c) and bottom child (X1,c,X2,Y2).
func (n *TileNode) SplitHorizontal(gen *idgen.Generator, c int64) (*TileNode, Cut, error) {
	if !n.IsLeaf() {
		return nil, Cut{}, fmt.Errorf("%w: node %d is not a leaf", model.ErrInvalidCutPosition, n.ID)
	}
	if c <= n.Rect.Y1 || c >= n.Rect.Y2 {
		return nil, Cut{}, fmt.Errorf("%w: horizontal cut at y=%d outside (%d,%d)", model.ErrInvalidCutPosition, c, n.Rect.Y1, n.Rect.Y2)
	}
	c1 := NewLeaf(gen.Next(), Rect{n.Rect.X1, n.Rect.Y1, n.Rect.X2, c})
	c2 := NewLeaf(gen.Next(), Rect{n.Rect.X1, c, n.Rect.X2, n.Rect.Y2})
	cut := Cut{Orientation: Horizontal, Coordinate: c, ParentID: n.ID, Child1ID: c1.ID, Child2ID: c2.ID}
	return &TileNode{ID: n.ID, Rect: n.Rect, Child1: c1, Child2: c2, usedArea: 0}, cut, nil
}

// MarkFinal returns a copy of the leaf n marked final and occupied by the
// given part identifier.
func (n *TileNode) MarkFinal(externalID string, rotated bool) (*TileNode, error) {
	if !n.IsLeaf() {
		return nil, fmt.Errorf("%w: node %d already has children", model.ErrGeneralCuttingError, n.ID)
	}
	return &TileNode{
		ID:         n.ID,
		Rect:       n.Rect,
		IsFinal:    true,
		ExternalID: externalID,
		IsRotated:  rotated,
		usedArea:   n.Rect.Area(),
	}, nil
}

// WithChildren returns a copy of n with its used-area cache recomputed from
// the given (already-updated) children. Callers use this to rebuild the
// ancestor path after modifying a descendant deep in the tree.
func (n *TileNode) WithChildren(c1, c2 *TileNode) *TileNode {
	return &TileNode{
		ID:       n.ID,
		Rect:     n.Rect,
		Child1:   c1,
		Child2:   c2,
		usedArea: c1.UsedArea() + c2.UsedArea(),
	}
}

// Clone deep-copies the subtree rooted at n (§9 "trees are deep-cloned on
// fan-out").
func (n *TileNode) Clone() *TileNode {
	if n == nil {
		return nil
	}
	cp := *n
	cp.Child1 = n.Child1.Clone()
	cp.Child2 = n.Child2.Clone()
	return &cp
}

// Leaves returns every leaf under n, in left-to-right preorder.
func (n *TileNode) Leaves() []*TileNode {
	var out []*TileNode
	n.walkLeaves(&out)
	return out
}

func (n *TileNode) walkLeaves(out *[]*TileNode) {
	if n == nil {
		return
	}
	if n.IsLeaf() {
		*out = append(*out, n)
		return
	}
	n.Child1.walkLeaves(out)
	n.Child2.walkLeaves(out)
}

// FinalLeaves returns only the leaves holding a placed part.
func (n *TileNode) FinalLeaves() []*TileNode {
	var out []*TileNode
	for _, l := range n.Leaves() {
		if l.IsFinal {
			out = append(out, l)
		}
	}
	return out
}

// FreeLeaves returns only the non-final (unoccupied) leaves.
func (n *TileNode) FreeLeaves() []*TileNode {
	var out []*TileNode
	for _, l := range n.Leaves() {
		if !l.IsFinal {
			out = append(out, l)
		}
	}
	return out
}

// CountFinalOrientation returns how many final leaves are landscape
// (width >= height) versus portrait.
func (n *TileNode) CountFinalOrientation() (horizontal, vertical int) {
	for _, l := range n.FinalLeaves() {
		if l.Rect.Width() >= l.Rect.Height() {
			horizontal++
		} else {
			vertical++
		}
	}
	return horizontal, vertical
}

// BiggestFreeLeafArea returns the largest single free-leaf area under n, or
// 0 if there are none.
func (n *TileNode) BiggestFreeLeafArea() int64 {
	var best int64
	for _, l := range n.FreeLeaves() {
		if a := l.Area(); a > best {
			best = a
		}
	}
	return best
}

// DimensionFingerprints returns a "WxH" tag per final leaf, used as an
// input to the distinct-tile metric.
func (n *TileNode) DimensionFingerprints() []string {
	var out []string
	for _, l := range n.FinalLeaves() {
		out = append(out, fmt.Sprintf("%dx%d", l.Rect.Width(), l.Rect.Height()))
	}
	return out
}

// StructureID returns the canonical preorder string identifier of the
// subtree rooted at n: a concatenation of (x1,y1,x2,y2,is_final) tuples
// (§3 "Structural identifier", §8).
func (n *TileNode) StructureID() string {
	var b strings.Builder
	n.writeStructureID(&b)
	return b.String()
}

func (n *TileNode) writeStructureID(b *strings.Builder) {
	if n == nil {
		b.WriteString("()")
		return
	}
	fmt.Fprintf(b, "(%d,%d,%d,%d,%t)", n.Rect.X1, n.Rect.Y1, n.Rect.X2, n.Rect.Y2, n.IsFinal)
	if !n.IsLeaf() {
		n.Child1.writeStructureID(b)
		n.Child2.writeStructureID(b)
	}
}
