package solution_test

import (
	"testing"

	"github.com/piwi3910/cutstock/internal/idgen"
	"github.com/piwi3910/cutstock/internal/model"
	"github.com/piwi3910/cutstock/internal/solution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIDFunc() func() int64 {
	g := idgen.New()
	return g.Next
}

func TestTryPlaceTileOpensFreshStock(t *testing.T) {
	gen := idgen.New()
	nextID := newIDFunc()
	stockQueue := []model.ScaledStock{{ID: "s1", Width: 50, Height: 30}}
	s0 := solution.FromStockSolution(nextID(), stockQueue, "")

	part, err := model.NewTileDimensions("p1", 50, 30, "", model.OrientationRotatable, "")
	require.NoError(t, err)

	results, err := solution.TryPlaceTile(s0, part, gen, nextID, 3, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Len(t, results[0].Mosaics, 1)
	assert.Empty(t, results[0].StockQueue)
	assert.Equal(t, 1, results[0].PlacedCount())
}

func TestTryPlaceTileFallsBackToNoFit(t *testing.T) {
	gen := idgen.New()
	nextID := newIDFunc()
	s0 := solution.FromStockSolution(nextID(), nil, "")

	part, err := model.NewTileDimensions("p1", 50, 30, "", model.OrientationRotatable, "")
	require.NoError(t, err)

	results, err := solution.TryPlaceTile(s0, part, gen, nextID, 3, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Len(t, results[0].NoFit, 1)
	assert.Empty(t, results[0].Mosaics)
}

func TestTryPlaceTilePartMultisetInvariant(t *testing.T) {
	gen := idgen.New()
	nextID := newIDFunc()
	stockQueue := []model.ScaledStock{{ID: "s1", Width: 1000, Height: 600}}
	s0 := solution.FromStockSolution(nextID(), stockQueue, "")

	p1, err := model.NewTileDimensions("p1", 500, 500, "", model.OrientationRotatable, "")
	require.NoError(t, err)

	var s *solution.Solution
	results, err := solution.TryPlaceTile(s0, p1, gen, nextID, 0, 0)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	s = results[0]

	for i := 0; i < 9; i++ {
		pn, err := model.NewTileDimensions("p1", 500, 500, "", model.OrientationRotatable, "")
		require.NoError(t, err)
		results, err = solution.TryPlaceTile(s, pn, gen, nextID, 0, 0)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		s = results[0]
	}

	// demand (10 x 500x500) exceeds supply (one 1000x600 sheet fits 2).
	assert.Equal(t, 10, s.PlacedCount()+len(s.NoFit))
	assert.LessOrEqual(t, s.PlacedCount(), 2)
}

func TestStructureIdentifierStableUnderMosaicOrder(t *testing.T) {
	gen := idgen.New()
	nextID := newIDFunc()
	stockQueue := []model.ScaledStock{{ID: "s1", Width: 50, Height: 30}}
	s0 := solution.FromStockSolution(nextID(), stockQueue, "")
	part, err := model.NewTileDimensions("p1", 50, 30, "", model.OrientationRotatable, "")
	require.NoError(t, err)

	results, err := solution.TryPlaceTile(s0, part, gen, nextID, 3, 10)
	require.NoError(t, err)
	id1 := results[0].StructureIdentifier()
	id2 := results[0].StructureIdentifier()
	assert.Equal(t, id1, id2)
}
