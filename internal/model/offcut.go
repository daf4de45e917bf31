package model

// Offcut represents a usable rectangular remnant area left over after cutting.
type Offcut struct {
	ID            string  `json:"id"`
	SheetLabel    string  `json:"sheet_label"`     // Which sheet it came from
	SheetIndex    int     `json:"sheet_index"`     // Index of the source sheet in the result
	X             float64 `json:"x"`               // Position on the sheet (mm from left)
	Y             float64 `json:"y"`               // Position on the sheet (mm from top)
	Width         float64 `json:"width"`           // Usable width (mm)
	Height        float64 `json:"height"`          // Usable height (mm)
	PricePerSheet float64 `json:"price_per_sheet"` // Inherited price proportional to area (0 if not set)
}

// Area returns the area of the offcut in square mm.
func (o Offcut) Area() float64 {
	return o.Width * o.Height
}

// ToStockSheet converts an offcut into a stock sheet for reuse in future projects.
func (o Offcut) ToStockSheet() StockSheet {
	label := "Offcut " + o.SheetLabel
	sheet := NewStockSheet(label, o.Width, o.Height, 1)
	sheet.PricePerSheet = o.PricePerSheet
	return sheet
}

// MinOffcutDimension is the minimum width or height (in mm) for a remnant
// free leaf to be reported as a usable offcut rather than plain waste.
const MinOffcutDimension = 50.0

// MinOffcutArea is the minimum area (in sq mm) for a remnant to be
// considered usable.
const MinOffcutArea = 10000.0 // 100mm x 100mm equivalent

// TotalOffcutArea returns the total area of all offcuts in square mm.
func TotalOffcutArea(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Area()
	}
	return total
}
