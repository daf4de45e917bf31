// Package mosaic implements the L1 placement kernel: given an immutable
// sheet layout (a Mosaic) and a part, enumerate every distinct mosaic
// obtainable by placing that part into exactly one free leaf (§4.2).
package mosaic

import (
	"fmt"

	"github.com/piwi3910/cutstock/internal/idgen"
	"github.com/piwi3910/cutstock/internal/model"
	"github.com/piwi3910/cutstock/internal/tree"
)

// Mosaic is one sheet's cutting layout: a spatial-tree root, the ordered
// cut log, the material label, the source stock identifier, kerf width,
// min-trim threshold, and the sheet's grain flag. A Mosaic is immutable
// under Add; Add returns new Mosaics (§3 "Mosaic").
type Mosaic struct {
	Root     *tree.TileNode
	Cuts     []tree.Cut
	Material string
	StockID  string
	Kerf     int64
	MinTrim  int64
	Grain    model.Grain
}

// NewFromStock builds the initial, empty mosaic for one stock sheet unit:
// a single free leaf covering the trimmed sheet rectangle (edge trim and
// simple-mode tab padding pre-subtracted, §3).
func NewFromStock(stock model.ScaledStock, gen *idgen.Generator, kerf, minTrim int64) (*Mosaic, error) {
	left, top, right, bottom := stock.TrimmedInsets()
	rect := tree.Rect{X1: left, Y1: top, X2: stock.Width - right, Y2: stock.Height - bottom}
	if rect.Width() <= 0 || rect.Height() <= 0 {
		return nil, fmt.Errorf("%w: stock %s trimmed to non-positive extent", model.ErrGeneralCuttingError, stock.ID)
	}
	root := tree.NewLeaf(gen.Next(), rect)
	return &Mosaic{
		Root:     root,
		Material: stock.Material,
		StockID:  stock.ID,
		Kerf:     kerf,
		MinTrim:  minTrim,
		Grain:    stock.Grain,
	}, nil
}

// candidate is one admissible (leaf, orientation) placement option.
type candidate struct {
	leaf    *tree.TileNode
	width   int64 // oriented width of the part against this leaf
	height  int64
	rotated bool
}

// candidates enumerates every free leaf × admissible orientation that can
// hold part, honoring kerf (a split axis needs part-dim + kerf of leaf
// capacity, unless the leaf matches the part exactly on that axis) and
// min-trim. A cut may leave a remnant thinner than MinTrim, but such a
// remnant is never split further on that axis: a leaf smaller than MinTrim
// on one axis accepts only an exact fit there, since consuming it whole
// needs no further cut.
func (m *Mosaic) candidates(part model.TileDimensions) []candidate {
	var out []candidate
	for _, leaf := range m.Root.FreeLeaves() {
		if m.fitsAxisTrimmed(leaf.Rect.Width(), part.Width) && m.fitsAxisTrimmed(leaf.Rect.Height(), part.Height) {
			out = append(out, candidate{leaf: leaf, width: part.Width, height: part.Height, rotated: false})
		}
		if !part.IsSquare() && part.CanRotate(m.Grain) {
			if m.fitsAxisTrimmed(leaf.Rect.Width(), part.Height) && m.fitsAxisTrimmed(leaf.Rect.Height(), part.Width) {
				out = append(out, candidate{leaf: leaf, width: part.Height, height: part.Width, rotated: true})
			}
		}
	}
	return out
}

// fitsAxisTrimmed applies fitsAxis, then rejects a non-exact fit into a
// leaf that is already thinner than MinTrim on this axis.
func (m *Mosaic) fitsAxisTrimmed(leafDim, partDim int64) bool {
	if !m.fitsAxis(leafDim, partDim) {
		return false
	}
	if leafDim == partDim {
		return true
	}
	return leafDim >= m.MinTrim
}

func (m *Mosaic) fitsAxis(leafDim, partDim int64) bool {
	if leafDim == partDim {
		return true
	}
	return leafDim >= partDim+m.Kerf
}

// Add returns every distinct mosaic obtainable by placing part into one
// free leaf, across all admissible leaves and orientations (§4.2).
func (m *Mosaic) Add(part model.TileDimensions, gen *idgen.Generator) ([]*Mosaic, error) {
	var out []*Mosaic
	for _, c := range m.candidates(part) {
		newRoot, cuts, err := placeAt(m.Root, c.leaf.Rect, gen, c.width, c.height, m.MinTrim, part.ID, c.rotated)
		if err != nil {
			return nil, err
		}
		out = append(out, &Mosaic{
			Root:     newRoot,
			Cuts:     append(append([]tree.Cut{}, m.Cuts...), cuts...),
			Material: m.Material,
			StockID:  m.StockID,
			Kerf:     m.Kerf,
			MinTrim:  m.MinTrim,
			Grain:    m.Grain,
		})
	}
	return out, nil
}

// placeAt walks down to the leaf matching targetRect (leaves never overlap,
// so rectangle containment identifies a unique path) and applies the
// exact-fit/one-cut/two-cut policy there, rebuilding the ancestor path so
// used-area caches stay correct (§9 "no back-references"; siblings off the
// path are shared, not copied — a permitted optimization over full
// deep cloning).
func placeAt(node *tree.TileNode, targetRect tree.Rect, gen *idgen.Generator, w, h, minTrim int64, externalID string, rotated bool) (*tree.TileNode, []tree.Cut, error) {
	if node.IsLeaf() {
		if node.Rect != targetRect {
			return nil, nil, fmt.Errorf("%w: target leaf not found", model.ErrGeneralCuttingError)
		}
		return placeInLeaf(node, gen, w, h, externalID, rotated)
	}
	if rectContains(node.Child1.Rect, targetRect) {
		newChild1, cuts, err := placeAt(node.Child1, targetRect, gen, w, h, minTrim, externalID, rotated)
		if err != nil {
			return nil, nil, err
		}
		return node.WithChildren(newChild1, node.Child2), cuts, nil
	}
	if rectContains(node.Child2.Rect, targetRect) {
		newChild2, cuts, err := placeAt(node.Child2, targetRect, gen, w, h, minTrim, externalID, rotated)
		if err != nil {
			return nil, nil, err
		}
		return node.WithChildren(node.Child1, newChild2), cuts, nil
	}
	return nil, nil, fmt.Errorf("%w: target leaf not under this subtree", model.ErrGeneralCuttingError)
}

func rectContains(outer, inner tree.Rect) bool {
	return inner.X1 >= outer.X1 && inner.Y1 >= outer.Y1 && inner.X2 <= outer.X2 && inner.Y2 <= outer.Y2
}

// placeInLeaf applies the exact-fit/one-cut/two-cut policy (§4.2 step 2).
// The two-cut case only ever performs the vertical-then-horizontal split
// order (§5 resolution of the source's split-order ambiguity).
func placeInLeaf(leaf *tree.TileNode, gen *idgen.Generator, w, h int64, externalID string, rotated bool) (*tree.TileNode, []tree.Cut, error) {
	lw, lh := leaf.Rect.Width(), leaf.Rect.Height()

	switch {
	case lw == w && lh == h:
		final, err := leaf.MarkFinal(externalID, rotated)
		return final, nil, err

	case lw > w && lh == h:
		parent, cut, err := leaf.SplitVertical(gen, leaf.Rect.X1+w)
		if err != nil {
			return nil, nil, err
		}
		finalChild1, err := parent.Child1.MarkFinal(externalID, rotated)
		if err != nil {
			return nil, nil, err
		}
		return parent.WithChildren(finalChild1, parent.Child2), []tree.Cut{cut}, nil

	case lh > h && lw == w:
		parent, cut, err := leaf.SplitHorizontal(gen, leaf.Rect.Y1+h)
		if err != nil {
			return nil, nil, err
		}
		finalChild1, err := parent.Child1.MarkFinal(externalID, rotated)
		if err != nil {
			return nil, nil, err
		}
		return parent.WithChildren(finalChild1, parent.Child2), []tree.Cut{cut}, nil

	case lw > w && lh > h:
		vParent, vCut, err := leaf.SplitVertical(gen, leaf.Rect.X1+w)
		if err != nil {
			return nil, nil, err
		}
		strip, remainder := vParent.Child1, vParent.Child2
		stripParent, hCut, err := strip.SplitHorizontal(gen, strip.Rect.Y1+h)
		if err != nil {
			return nil, nil, err
		}
		finalCell, err := stripParent.Child1.MarkFinal(externalID, rotated)
		if err != nil {
			return nil, nil, err
		}
		newStripParent := stripParent.WithChildren(finalCell, stripParent.Child2)
		newParent := vParent.WithChildren(newStripParent, remainder)
		return newParent, []tree.Cut{vCut, hCut}, nil

	default:
		return nil, nil, fmt.Errorf("%w: leaf %dx%d smaller than part %dx%d", model.ErrGeneralCuttingError, lw, lh, w, h)
	}
}
