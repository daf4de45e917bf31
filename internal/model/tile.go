package model

import "fmt"

// TileDimensions is the engine's scaled-integer working form of a single
// required part (§3 "Part (TileDimensions)"). Request-level Part.Quantity
// copies expand into one TileDimensions each at normalization time; they
// are immutable afterwards.
type TileDimensions struct {
	ID          string
	Width       int64
	Height      int64
	Material    string
	Orientation Orientation
	Label       string
	Rotated     bool
}

// NewTileDimensions validates and constructs a TileDimensions. width and
// height must be positive and their product must fit an int64 (always true
// for values bounded by MaxScaledDimension, but checked defensively since
// it is a stated invariant, §3).
func NewTileDimensions(id string, width, height int64, material string, orientation Orientation, label string) (TileDimensions, error) {
	if width <= 0 || height <= 0 {
		return TileDimensions{}, fmt.Errorf("%w: tile %s has non-positive dimension %dx%d", ErrInvalidDimension, id, width, height)
	}
	area := width * height
	if area/width != height {
		return TileDimensions{}, fmt.Errorf("%w: tile %s area overflows i64", ErrInvalidDimension, id)
	}
	return TileDimensions{
		ID:          id,
		Width:       width,
		Height:      height,
		Material:    material,
		Orientation: orientation,
		Label:       label,
	}, nil
}

// Area returns width*height.
func (t TileDimensions) Area() int64 {
	return t.Width * t.Height
}

// IsSquare reports whether width equals height. Square parts are never
// considered "rotated" distinctly (§3).
func (t TileDimensions) IsSquare() bool {
	return t.Width == t.Height
}

// Grain maps the wire-level orientation flag onto the internal Grain type.
func (t TileDimensions) Grain() Grain {
	return t.Orientation.ToGrain()
}

// CanRotate reports whether this tile may be placed rotated against a sheet
// with the given grain. Square tiles may "rotate" trivially (it is a no-op)
// but are never reported as rotated (§3).
func (t TileDimensions) CanRotate(sheetGrain Grain) bool {
	if t.IsSquare() {
		return false
	}
	return CanPlaceWithGrain(t.Grain(), sheetGrain, true)
}

// WithRotated returns a copy of t flagged as rotated (width/height are not
// swapped here — callers compare against the leaf using t.Height/t.Width
// directly when rotated is true; Rotated only records the flag for output).
func (t TileDimensions) WithRotated(rotated bool) TileDimensions {
	t.Rotated = rotated
	return t
}

// ExpandParts turns request-level Parts (with Quantity and user-unit
// Width/Height) into individual scaled TileDimensions, one per unit of
// quantity. scale comes from ComputeScale over the full batch of
// part+stock dimension strings.
func ExpandParts(parts []Part, scale int64) ([]TileDimensions, error) {
	var out []TileDimensions
	for _, p := range parts {
		if !p.Enabled {
			continue
		}
		w := int64(p.Width*float64(scale) + 0.5)
		h := int64(p.Height*float64(scale) + 0.5)
		for i := 0; i < p.Quantity; i++ {
			id := fmt.Sprintf("%s#%d", p.ID, i)
			td, err := NewTileDimensions(id, w, h, p.Material, p.Grain.toOrientation(), p.Label)
			if err != nil {
				return nil, err
			}
			out = append(out, td)
		}
	}
	return out, nil
}

// ScaledTabZone is a TabZone after scaling to the integer plane.
type ScaledTabZone struct {
	X, Y, Width, Height int64
}

// ScaledStock is the engine's scaled-integer working form of one stock
// sheet unit. Request-level StockSheet.Quantity copies expand into one
// ScaledStock each, exactly like TileDimensions for parts.
type ScaledStock struct {
	ID            string
	Width         int64
	Height        int64
	Material      string
	Grain         Grain
	PricePerSheet float64

	EdgeTrim      int64
	TabsEnabled   bool
	TabAdvanced   bool
	TopPadding    int64
	BottomPadding int64
	LeftPadding   int64
	RightPadding  int64
	CustomZones   []ScaledTabZone
}

// TrimmedInsets returns how far the root free-leaf rectangle is inset from
// each sheet edge: the edge trim, or the simple-mode tab padding where that
// is larger. Advanced-mode CustomZones do not contribute
// (§3 "Edge trim, stock tabs, clamp zones").
func (s ScaledStock) TrimmedInsets() (left, top, right, bottom int64) {
	left, top, right, bottom = s.EdgeTrim, s.EdgeTrim, s.EdgeTrim, s.EdgeTrim
	if s.TabsEnabled && !s.TabAdvanced {
		left = maxI64(left, s.LeftPadding)
		top = maxI64(top, s.TopPadding)
		right = maxI64(right, s.RightPadding)
		bottom = maxI64(bottom, s.BottomPadding)
	}
	return left, top, right, bottom
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// ExpandStocks turns request-level StockSheets (with Quantity and user-unit
// Width/Height) into individual ScaledStock units.
func ExpandStocks(stocks []StockSheet, scale int64, edgeTrim float64) ([]ScaledStock, error) {
	var out []ScaledStock
	edgeTrimScaled := int64(edgeTrim*float64(scale) + 0.5)
	for _, s := range stocks {
		w := int64(s.Width*float64(scale) + 0.5)
		h := int64(s.Height*float64(scale) + 0.5)
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("%w: stock %s has non-positive dimension", ErrInvalidDimension, s.ID)
		}
		zones := make([]ScaledTabZone, 0, len(s.Tabs.CustomZones))
		for _, z := range s.Tabs.CustomZones {
			zones = append(zones, ScaledTabZone{
				X:      int64(z.X*float64(scale) + 0.5),
				Y:      int64(z.Y*float64(scale) + 0.5),
				Width:  int64(z.Width*float64(scale) + 0.5),
				Height: int64(z.Height*float64(scale) + 0.5),
			})
		}
		for i := 0; i < s.Quantity; i++ {
			out = append(out, ScaledStock{
				ID:            fmt.Sprintf("%s#%d", s.ID, i),
				Width:         w,
				Height:        h,
				Material:      s.Material,
				Grain:         GrainNone,
				PricePerSheet: s.PricePerSheet,
				EdgeTrim:      edgeTrimScaled,
				TabsEnabled:   s.Tabs.Enabled,
				TabAdvanced:   s.Tabs.AdvancedMode,
				TopPadding:    int64(s.Tabs.TopPadding*float64(scale) + 0.5),
				BottomPadding: int64(s.Tabs.BottomPadding*float64(scale) + 0.5),
				LeftPadding:   int64(s.Tabs.LeftPadding*float64(scale) + 0.5),
				RightPadding:  int64(s.Tabs.RightPadding*float64(scale) + 0.5),
				CustomZones:   zones,
			})
		}
	}
	return out, nil
}

// toOrientation is the inverse of Orientation.ToGrain: any grain constraint
// collapses to "fixed" for the placement kernel's purposes.
func (g Grain) toOrientation() Orientation {
	if g == GrainNone {
		return OrientationRotatable
	}
	return OrientationFixed
}
