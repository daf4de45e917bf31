package task

import (
	"fmt"
	"strconv"

	"github.com/piwi3910/cutstock/internal/calcapi"
	"github.com/piwi3910/cutstock/internal/mosaic"
	"github.com/piwi3910/cutstock/internal/model"
	"github.com/piwi3910/cutstock/internal/solution"
)

// RenderResponse flattens one Solution into the §6 wire response, unscaling
// every dimension back to user units.
func RenderResponse(s *solution.Solution, parts []model.TileDimensions, noMaterial []model.TileDimensions, scale int64) calcapi.CalculationResponse {
	byID := make(map[string]model.TileDimensions, len(parts))
	for _, p := range parts {
		byID[p.ID] = p
	}

	var placements []calcapi.PlacementResponse
	var usedArea, totalArea int64
	for _, m := range s.Mosaics {
		totalArea += m.Root.Area()
		usedArea += m.Root.UsedArea()
		for _, leaf := range m.Root.FinalLeaves() {
			p := byID[leaf.ExternalID]
			placements = append(placements, calcapi.PlacementResponse{
				PartID:   leaf.ExternalID,
				Label:    p.Label,
				Width:    model.Unscale(leaf.Rect.Width(), scale),
				Height:   model.Unscale(leaf.Rect.Height(), scale),
				X:        model.Unscale(leaf.Rect.X1, scale),
				Y:        model.Unscale(leaf.Rect.Y1, scale),
				Rotated:  leaf.IsRotated,
				StockID:  m.StockID,
				Material: m.Material,
			})
		}
	}

	noFit := make([]calcapi.PartRequest, 0, len(s.NoFit))
	for _, td := range s.NoFit {
		noFit = append(noFit, toPartRequest(td, scale))
	}
	noMat := make([]calcapi.PartRequest, 0, len(noMaterial))
	for _, td := range noMaterial {
		noMat = append(noMat, toPartRequest(td, scale))
	}

	var efficiency float64
	if totalArea > 0 {
		efficiency = float64(usedArea) / float64(totalArea) * 100.0
	}

	return calcapi.CalculationResponse{
		Placements:      placements,
		NoFitParts:      noFit,
		NoMaterialParts: noMat,
		Offcuts:         offcutsFromMosaics(s.Mosaics, scale),
		Stats: calcapi.StatsBlock{
			TotalParts:        len(parts) + len(noMaterial),
			PlacedCount:       s.PlacedCount(),
			TotalArea:         model.Unscale(totalArea, scale),
			UsedArea:          model.Unscale(usedArea, scale),
			WasteArea:         model.Unscale(s.TotalWastedArea(), scale),
			EfficiencyPercent: efficiency,
			StockPanelsUsed:   len(s.Mosaics),
		},
	}
}

// offcutsFromMosaics reports each sheet's free leaves that are large enough
// to be worth recutting from later, rather than reconstructing them from
// the flattened placement list.
func offcutsFromMosaics(mosaics []*mosaic.Mosaic, scale int64) []calcapi.OffcutResponse {
	var out []calcapi.OffcutResponse
	for _, m := range mosaics {
		for _, leaf := range m.Root.FreeLeaves() {
			w := model.Unscale(leaf.Rect.Width(), scale)
			h := model.Unscale(leaf.Rect.Height(), scale)
			if w < model.MinOffcutDimension || h < model.MinOffcutDimension || w*h < model.MinOffcutArea {
				continue
			}
			out = append(out, calcapi.OffcutResponse{
				ID:       fmt.Sprintf("offcut-%d", len(out)+1),
				StockID:  m.StockID,
				Material: m.Material,
				X:        model.Unscale(leaf.Rect.X1, scale),
				Y:        model.Unscale(leaf.Rect.Y1, scale),
				Width:    w,
				Height:   h,
			})
		}
	}
	return out
}

func toPartRequest(td model.TileDimensions, scale int64) calcapi.PartRequest {
	return calcapi.PartRequest{
		ID:          td.ID,
		Label:       td.Label,
		Width:       formatScaled(td.Width, scale),
		Height:      formatScaled(td.Height, scale),
		Quantity:    1,
		Material:    td.Material,
		Enabled:     true,
		Orientation: int(td.Orientation),
	}
}

func formatScaled(v, scale int64) string {
	return strconv.FormatFloat(model.Unscale(v, scale), 'f', -1, 64)
}
