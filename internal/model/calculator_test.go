package model_test

import (
	"testing"

	"github.com/piwi3910/cutstock/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestCalculatePurchaseEstimateAppliesWasteFactor(t *testing.T) {
	parts := []model.Part{
		model.NewPart("shelf", 600, 400, 4),
	}
	est := model.CalculatePurchaseEstimate(parts, 2440, 1220, 3, 15, 42.5)

	assert.Equal(t, float64(4*(600+3)*(400+3)), est.TotalPartArea)
	assert.InDelta(t, 1, est.SheetsNeededMin, 0)
	assert.GreaterOrEqual(t, est.SheetsWithWaste, est.SheetsNeededMin)
	assert.Equal(t, float64(est.SheetsWithWaste)*42.5, est.EstimatedCost)
}

func TestCalculatePurchaseEstimateZeroSheetAreaStillReportsPartArea(t *testing.T) {
	parts := []model.Part{model.NewPart("shelf", 600, 400, 1)}
	est := model.CalculatePurchaseEstimate(parts, 0, 0, 0, 10, 0)

	assert.Equal(t, 600.0*400.0, est.TotalPartArea)
	assert.Zero(t, est.SheetArea)
	assert.Zero(t, est.SheetsNeededMin)
}

func TestCalculatePurchaseEstimateNeverRoundsBelowExactSheets(t *testing.T) {
	parts := []model.Part{model.NewPart("panel", 1000, 1000, 10)}
	est := model.CalculatePurchaseEstimate(parts, 2440, 1220, 0, 0, 0)

	assert.GreaterOrEqual(t, est.SheetsWithWaste, est.SheetsNeededMin)
}
