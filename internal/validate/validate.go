// Package validate implements the §4.9 pre-search validation gate: request
// shape, count/dimension bounds, configuration scalar ranges, client id
// shape, and the material cross-check that splits out no-material parts.
package validate

import (
	"regexp"
	"strings"

	"github.com/piwi3910/cutstock/internal/calcapi"
	"github.com/piwi3910/cutstock/internal/model"
)

// MaxPanelCount bounds both part and stock counts to the half-open interval
// (0, MaxPanelCount] (§4.9).
const MaxPanelCount = 5000

// MaxClientIDLength bounds the client id's length (§4.9).
const MaxClientIDLength = 100

var clientIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Result is the gate's output: scaled, validated engine inputs plus the
// parts excluded for lacking any matching stock material.
type Result struct {
	Scale         int64
	DecimalPlaces int
	Settings      model.CutSettings
	Parts         []model.TileDimensions
	Stocks        []model.ScaledStock
	NoMaterial    []model.TileDimensions
}

// Validate runs the full gate described in §4.9, returning a typed
// *model.ValidationError (via errors.As) on the first failure.
func Validate(req calcapi.CalculationRequest) (Result, error) {
	if err := validateClientID(req.Client.ID); err != nil {
		return Result{}, err
	}

	if len(req.Parts) == 0 || len(req.Parts) > MaxPanelCount {
		return Result{}, &model.ValidationError{Code: model.CodeInvalidTiles, Message: "part count must be in (0, 5000]"}
	}
	if len(req.Stocks) == 0 || len(req.Stocks) > MaxPanelCount {
		return Result{}, &model.ValidationError{Code: model.CodeInvalidStockTiles, Message: "stock count must be in (0, 5000]"}
	}

	settings := model.CutSettings{
		KerfWidth:                req.Config.KerfWidth,
		MinTrimDimension:         req.Config.MinTrimDimension,
		OptimizationPriority:     req.Config.OptimizationPriority,
		UseSingleStockUnit:       req.Config.UseSingleStockUnit,
		CutOrientationPreference: model.CutOrientationPreference(req.Config.CutOrientationPreference),
		AccuracyFactor:           req.Config.AccuracyFactor,
		Thresholds:               model.DefaultPerformanceThresholds(),
	}
	if settings.AccuracyFactor == 0 {
		settings = model.DefaultSettings()
		settings.KerfWidth = req.Config.KerfWidth
		settings.MinTrimDimension = req.Config.MinTrimDimension
		settings.OptimizationPriority = req.Config.OptimizationPriority
		settings.UseSingleStockUnit = req.Config.UseSingleStockUnit
		settings.CutOrientationPreference = model.CutOrientationPreference(req.Config.CutOrientationPreference)
	}
	if req.Config.PerformanceThresholds != nil {
		settings.Thresholds.MaxSimultaneousThreadsPerTask = req.Config.PerformanceThresholds.MaxSimultaneousThreadsPerTask
		settings.Thresholds.MaxConcurrentTasks = req.Config.PerformanceThresholds.MaxConcurrentTasks
	}
	if err := settings.Validate(); err != nil {
		return Result{}, err
	}

	dims := make([]string, 0, 2*(len(req.Parts)+len(req.Stocks)))
	for _, p := range req.Parts {
		dims = append(dims, p.Width, p.Height)
	}
	for _, s := range req.Stocks {
		dims = append(dims, s.Width, s.Height)
	}
	scale, decimalPlaces, err := model.ComputeScale(dims)
	if err != nil {
		return Result{}, &model.ValidationError{Code: model.CodeInvalidInput, Message: err.Error()}
	}

	expandedParts, err := expandPartRequests(req.Parts, scale, decimalPlaces)
	if err != nil {
		return Result{}, err
	}
	expandedStocks, err := expandStockRequests(req.Stocks, scale, decimalPlaces)
	if err != nil {
		return Result{}, err
	}

	materials := make(map[string]struct{})
	for _, s := range expandedStocks {
		materials[s.Material] = struct{}{}
	}

	var usable, noMaterial []model.TileDimensions
	for _, p := range expandedParts {
		if _, ok := materials[p.Material]; ok || p.Material == "" {
			usable = append(usable, p)
		} else {
			noMaterial = append(noMaterial, p)
		}
	}

	return Result{
		Scale:         scale,
		DecimalPlaces: decimalPlaces,
		Settings:      settings,
		Parts:         usable,
		Stocks:        expandedStocks,
		NoMaterial:    noMaterial,
	}, nil
}

func validateClientID(id string) error {
	if id == "" || len(id) > MaxClientIDLength {
		return &model.ValidationError{Code: model.CodeInvalidInput, Message: "client id must be non-empty and <= 100 chars"}
	}
	if !clientIDPattern.MatchString(id) {
		return &model.ValidationError{Code: model.CodeInvalidInput, Message: "client id must be alphanumeric plus '_'/'-'"}
	}
	return nil
}

func expandPartRequests(parts []calcapi.PartRequest, scale int64, decimalPlaces int) ([]model.TileDimensions, error) {
	var out []model.TileDimensions
	for _, p := range parts {
		if !p.Enabled {
			continue
		}
		w, h, err := scaledDims(p.Width, p.Height, decimalPlaces)
		if err != nil {
			return nil, err
		}
		qty := p.Quantity
		if qty <= 0 {
			qty = 1
		}
		for i := 0; i < qty; i++ {
			id := p.ID
			if id == "" {
				id = strings.TrimSpace(p.Label)
			}
			td, err := model.NewTileDimensions(id, w, h, p.Material, model.Orientation(p.Orientation), p.Label)
			if err != nil {
				return nil, &model.ValidationError{Code: model.CodeInvalidTiles, Message: err.Error()}
			}
			out = append(out, td)
		}
	}
	return out, nil
}

func expandStockRequests(stocks []calcapi.StockRequest, scale int64, decimalPlaces int) ([]model.ScaledStock, error) {
	var out []model.ScaledStock
	for _, s := range stocks {
		w, h, err := scaledDims(s.Width, s.Height, decimalPlaces)
		if err != nil {
			return nil, err
		}
		qty := s.Quantity
		if qty <= 0 {
			qty = 1
		}
		for i := 0; i < qty; i++ {
			out = append(out, model.ScaledStock{
				ID:            s.ID,
				Width:         w,
				Height:        h,
				Material:      s.Material,
				Grain:         model.Orientation(s.Orientation).ToGrain(),
				PricePerSheet: s.PricePerSheet,
			})
		}
	}
	return out, nil
}

func scaledDims(widthStr, heightStr string, decimalPlaces int) (w, h int64, err error) {
	w, err = model.ScaleValue(widthStr, decimalPlaces)
	if err != nil {
		return 0, 0, &model.ValidationError{Code: model.CodeInvalidInput, Message: err.Error()}
	}
	h, err = model.ScaleValue(heightStr, decimalPlaces)
	if err != nil {
		return 0, 0, &model.ValidationError{Code: model.CodeInvalidInput, Message: err.Error()}
	}
	if w <= 0 || h <= 0 || w > model.MaxScaledDimension || h > model.MaxScaledDimension {
		return 0, 0, &model.ValidationError{Code: model.CodeInvalidTiles, Message: "dimension out of range after scaling"}
	}
	return w, h, nil
}
