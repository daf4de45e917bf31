// Package model holds the data shapes shared across the cutting-stock
// engine: request-facing parts and stock in user units, the scaled integer
// working types the engine layers operate on, and the engine's typed error
// vocabulary.
package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Grain represents the grain/orientation constraint for a part or sheet.
// GrainHorizontal and GrainVertical both forbid rotation; only the axis
// label differs. A part may rotate only when both it and the sheet it is
// being placed on carry GrainNone.
type Grain int

const (
	GrainNone       Grain = iota // no constraint, part may rotate freely
	GrainHorizontal              // grain runs along width; rotation forbidden
	GrainVertical                // grain runs along height; rotation forbidden
)

func (g Grain) String() string {
	switch g {
	case GrainHorizontal:
		return "Horizontal"
	case GrainVertical:
		return "Vertical"
	default:
		return "None"
	}
}

// Orientation is the wire-level rotation flag named in the external
// interface: 0 = rotatable, 1 = fixed.
type Orientation int

const (
	OrientationRotatable Orientation = 0
	OrientationFixed     Orientation = 1
)

// ToGrain maps the external orientation flag onto the internal Grain type.
// A fixed part collapses to GrainVertical; the placement kernel only cares
// that non-GrainNone disables rotation, never which axis it names.
func (o Orientation) ToGrain() Grain {
	if o == OrientationFixed {
		return GrainVertical
	}
	return GrainNone
}

// CanPlaceWithGrain reports whether a part with grain pg may be placed,
// rotated or not, against a sheet with grain sg. Rotation is only ever
// permitted when neither side constrains orientation.
func CanPlaceWithGrain(pg, sg Grain, rotated bool) bool {
	if !rotated {
		return true
	}
	return pg == GrainNone && sg == GrainNone
}

// EdgeBanding records which edges of a rectangular part need banding.
type EdgeBanding struct {
	Top    bool `json:"top"`
	Bottom bool `json:"bottom"`
	Left   bool `json:"left"`
	Right  bool `json:"right"`
}

// HasAny reports whether any edge needs banding.
func (e EdgeBanding) HasAny() bool {
	return e.Top || e.Bottom || e.Left || e.Right
}

// EdgeCount returns how many edges need banding.
func (e EdgeBanding) EdgeCount() int {
	n := 0
	for _, v := range []bool{e.Top, e.Bottom, e.Left, e.Right} {
		if v {
			n++
		}
	}
	return n
}

// LinearLength returns the total banding length in mm for one piece of the
// given width/height, summing whichever of its four edges are banded.
func (e EdgeBanding) LinearLength(width, height float64) float64 {
	var total float64
	if e.Top {
		total += width
	}
	if e.Bottom {
		total += width
	}
	if e.Left {
		total += height
	}
	if e.Right {
		total += height
	}
	return total
}

func (e EdgeBanding) String() string {
	s := ""
	if e.Top {
		s += "T"
	}
	if e.Bottom {
		s += "+B"
	}
	if e.Left {
		s += "+L"
	}
	if e.Right {
		s += "+R"
	}
	if s == "" {
		return "none"
	}
	return s
}

// Part is a required piece expressed in user units (mm, or whatever unit
// the caller's widths/heights are in). It corresponds to one demand line in
// a CalculationRequest (§6); Quantity copies are expanded into individual
// TileDimensions at normalization time.
type Part struct {
	ID          string      `json:"id"`
	Label       string      `json:"label"`
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	Quantity    int         `json:"quantity"`
	Material    string      `json:"material"`
	Grain       Grain       `json:"grain"`
	Enabled     bool        `json:"enabled"`
	EdgeBanding EdgeBanding `json:"edge_banding,omitempty"`
}

// NewPart creates a Part with a generated id, enabled, grain-free.
func NewPart(label string, w, h float64, qty int) Part {
	return Part{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Width:    w,
		Height:   h,
		Quantity: qty,
		Grain:    GrainNone,
		Enabled:  true,
	}
}

// StockSheet is an available sheet of material, in user units.
type StockSheet struct {
	ID            string         `json:"id"`
	Label         string         `json:"label"`
	Width         float64        `json:"width"`
	Height        float64        `json:"height"`
	Quantity      int            `json:"quantity"`
	Material      string         `json:"material"`
	PricePerSheet float64        `json:"price_per_sheet"`
	Tabs          StockTabConfig `json:"tabs"`
}

// NewStockSheet creates a StockSheet with a generated id and tabs disabled
// (the request's default tab configuration applies unless overridden).
func NewStockSheet(label string, w, h float64, qty int) StockSheet {
	return StockSheet{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Width:    w,
		Height:   h,
		Quantity: qty,
		Tabs:     StockTabConfig{Enabled: false},
	}
}

// StockTabConfig describes fixed hold-down/clamp exclusion zones along a
// stock sheet's edges. In simple mode the four paddings are pre-subtracted
// from the sheet's root free leaf before any part is placed (§3, "Edge
// trim, stock tabs, clamp zones"). Advanced-mode CustomZones are not
// subtracted: placement does not avoid them.
type StockTabConfig struct {
	Enabled      bool `json:"enabled"`
	AdvancedMode bool `json:"advanced_mode"`

	TopPadding    float64 `json:"top_padding"`
	BottomPadding float64 `json:"bottom_padding"`
	LeftPadding   float64 `json:"left_padding"`
	RightPadding  float64 `json:"right_padding"`

	CustomZones []TabZone `json:"custom_zones"`
}

// TabZone is a rectangular exclusion zone in mm from the stock sheet origin.
type TabZone struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CutOrientationPreference selects the first-cut axis preference passed to
// a worker (§4.5 "first-cut orientation preference").
type CutOrientationPreference int

const (
	CutOrientationBoth       CutOrientationPreference = 0
	CutOrientationHorizontal CutOrientationPreference = 1
	CutOrientationVertical   CutOrientationPreference = 2
)

// PerformanceThresholds bounds the search coordinator's early-exit check
// (§4.8 step 5).
type PerformanceThresholds struct {
	MaxSimultaneousThreadsPerTask int     `json:"max_simultaneous_threads_per_task"`
	ThresholdEfficiencyPercent    float64 `json:"threshold_efficiency_percent"` // full-placement early exit
	ThresholdPartialEfficiency    float64 `json:"threshold_partial_efficiency"` // 85%-placement early exit
}

// DefaultPerformanceThresholds returns the standard defaults: 100% placed +
// "above threshold" efficiency, or 85% placed with everything placed.
func DefaultPerformanceThresholds() PerformanceThresholds {
	return PerformanceThresholds{
		MaxSimultaneousThreadsPerTask: 4,
		ThresholdEfficiencyPercent:    95.0,
		ThresholdPartialEfficiency:    85.0,
	}
}

// CutSettings holds the engine's optimizer configuration (§4.5, §4.9).
// CNC post-processor concerns (tool diameter, feed rate, G-code profiles)
// are out of scope — see DESIGN.md "Dropped teacher modules".
type CutSettings struct {
	KerfWidth                float64                  `json:"kerf_width"`
	MinTrimDimension         float64                  `json:"min_trim_dimension"`
	EdgeTrim                 float64                  `json:"edge_trim"`
	OptimizationPriority     int                       `json:"optimization_priority"` // 0 = area-first, 1 = cuts-first
	CutOrientationPreference CutOrientationPreference  `json:"cut_orientation_preference"`
	UseSingleStockUnit       bool                      `json:"use_single_stock_unit"`
	AccuracyFactor           int                       `json:"accuracy_factor"` // beam width, default 100
	StockTabs                StockTabConfig            `json:"stock_tabs"`
	Thresholds               PerformanceThresholds     `json:"thresholds"`
}

// DefaultSettings returns the standard defaults: kerf 3, min-trim 10
// (both in the integer-scaled plane), accuracy factor 100.
func DefaultSettings() CutSettings {
	return CutSettings{
		KerfWidth:                3,
		MinTrimDimension:         10,
		EdgeTrim:                 0,
		OptimizationPriority:     0,
		CutOrientationPreference: CutOrientationBoth,
		UseSingleStockUnit:       false,
		AccuracyFactor:           100,
		StockTabs: StockTabConfig{
			Enabled:       false,
			TopPadding:    0,
			BottomPadding: 0,
			LeftPadding:   0,
			RightPadding:  0,
		},
		Thresholds: DefaultPerformanceThresholds(),
	}
}

// Validate checks the configuration scalar ranges named in §4.9.
func (s CutSettings) Validate() error {
	if s.KerfWidth < 0 {
		return &ValidationError{Code: CodeInvalidConfiguration, Message: "kerf width must be >= 0"}
	}
	if s.MinTrimDimension < 0 {
		return &ValidationError{Code: CodeInvalidConfiguration, Message: "min trim dimension must be >= 0"}
	}
	if s.OptimizationPriority < 0 || s.OptimizationPriority > 10 {
		return &ValidationError{Code: CodeInvalidConfiguration, Message: "optimization priority must be in [0,10]"}
	}
	if s.CutOrientationPreference < 0 || s.CutOrientationPreference > 2 {
		return &ValidationError{Code: CodeInvalidConfiguration, Message: "cut orientation preference must be in {0,1,2}"}
	}
	if s.AccuracyFactor <= 0 {
		return &ValidationError{Code: CodeInvalidConfiguration, Message: "accuracy factor must be > 0"}
	}
	return nil
}

// Placement is one part placed on a stock sheet, in user units, for
// rendering/export purposes.
type Placement struct {
	Part    Part    `json:"part"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Rotated bool    `json:"rotated"`
}

func (p Placement) PlacedWidth() float64 {
	if p.Rotated {
		return p.Part.Height
	}
	return p.Part.Width
}

func (p Placement) PlacedHeight() float64 {
	if p.Rotated {
		return p.Part.Width
	}
	return p.Part.Height
}

// SheetResult is one stock sheet with its placed parts, in user units.
type SheetResult struct {
	Stock      StockSheet  `json:"stock"`
	Placements []Placement `json:"placements"`
	CutCount   int         `json:"cut_count"`
}

func (sr SheetResult) UsedArea() float64 {
	var total float64
	for _, p := range sr.Placements {
		total += p.PlacedWidth() * p.PlacedHeight()
	}
	return total
}

func (sr SheetResult) TotalArea() float64 {
	return sr.Stock.Width * sr.Stock.Height
}

func (sr SheetResult) Efficiency() float64 {
	ta := sr.TotalArea()
	if ta == 0 {
		return 0
	}
	return (sr.UsedArea() / ta) * 100.0
}

// OptimizeResult is the rendered form of an engine Solution, in user units.
type OptimizeResult struct {
	Sheets          []SheetResult `json:"sheets"`
	UnplacedParts   []Part        `json:"unplaced_parts"`
	NoMaterialParts []Part        `json:"no_material_parts"`
	CalculationMS   int64         `json:"calculation_time_ms"`
}

func (or OptimizeResult) TotalEfficiency() float64 {
	var usedArea, totalArea float64
	for _, s := range or.Sheets {
		usedArea += s.UsedArea()
		totalArea += s.TotalArea()
	}
	if totalArea == 0 {
		return 0
	}
	return (usedArea / totalArea) * 100.0
}

func (or OptimizeResult) PlacedCount() int {
	n := 0
	for _, s := range or.Sheets {
		n += len(s.Placements)
	}
	return n
}

// --- Typed error vocabulary (§7) ---

// ValidationErrorCode enumerates the submit-path status codes (§6
// "Submit result").
type ValidationErrorCode int

const (
	CodeOk                  ValidationErrorCode = 0
	CodeInvalidTiles        ValidationErrorCode = 1
	CodeInvalidStockTiles   ValidationErrorCode = 2
	CodeTaskAlreadyRunning  ValidationErrorCode = 3
	CodeServerUnavailable   ValidationErrorCode = 4
	CodeTooManyPanels       ValidationErrorCode = 5
	CodeTooManyStockPanels  ValidationErrorCode = 6
	CodeInvalidInput        ValidationErrorCode = 7
	CodeInvalidConfiguration ValidationErrorCode = 8
)

// ValidationError is the single typed-error struct for validation-gate
// failures, carrying an enum Code checked with errors.As (§1 ambient
// stack, §7).
type ValidationError struct {
	Code    ValidationErrorCode
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", e.Message)
}

// Sentinel errors for the remaining kinds named in §7, checked with
// errors.Is at call sites.
var (
	ErrInvalidCutPosition   = errors.New("invalid cut position")
	ErrGeneralCuttingError  = errors.New("general cutting error")
	ErrResourceLimit        = errors.New("resource limit exceeded")
	ErrOperationCancelled   = errors.New("operation cancelled")
	ErrTimeout              = errors.New("operation timed out")
	ErrTaskAlreadyRunning   = errors.New("task already running for client")
)
