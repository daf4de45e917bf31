package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/piwi3910/cutstock/internal/model"
)

// ExportHTML writes a self-contained HTML report with one inline SVG
// mosaic diagram per sheet plus a summary stats panel and an unplaced-parts
// section, the CLI's counterpart to ExportPDF for quick browser viewing.
func ExportHTML(path string, result model.OptimizeResult) error {
	var b strings.Builder
	writeHTMLHeader(&b, "Cut Optimization Report")
	writeStatsPanel(&b, result)

	b.WriteString(`<div class="sheets">`)
	for i, sheet := range result.Sheets {
		writeSheetSVG(&b, sheet, i+1)
	}
	b.WriteString(`</div>`)

	if len(result.UnplacedParts) > 0 || len(result.NoMaterialParts) > 0 {
		writeUnplacedSection(&b, result.UnplacedParts, result.NoMaterialParts)
	}
	writeHTMLFooter(&b)

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write export HTML: %w", err)
	}
	return nil
}

func writeHTMLHeader(b *strings.Builder, title string) {
	fmt.Fprintf(b, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; background: #f5f5f5; }
.info-panel { background: #fff; border-radius: 6px; padding: 16px; margin-bottom: 16px; }
.stats { display: flex; gap: 24px; flex-wrap: wrap; }
.stat .label { color: #666; margin-right: 6px; }
.stat .value { font-weight: bold; }
.sheets { display: flex; flex-wrap: wrap; gap: 16px; }
.sheet-panel { background: #fff; border-radius: 6px; padding: 12px; }
.sheet-panel h3 { margin: 0 0 8px; font-size: 14px; }
.unplaced { background: #fff3e0; border-radius: 6px; padding: 16px; margin-top: 16px; }
.unplaced li { margin: 2px 0; }
</style>
</head>
<body>
`, title)
}

func writeHTMLFooter(b *strings.Builder) {
	b.WriteString("</body>\n</html>\n")
}

func writeStatsPanel(b *strings.Builder, result model.OptimizeResult) {
	totalParts := result.PlacedCount() + len(result.UnplacedParts)
	fmt.Fprintf(b, `<div class="info-panel">
<h2>Summary</h2>
<div class="stats">
<div class="stat"><span class="label">Stock sheets used:</span><span class="value">%d</span></div>
<div class="stat"><span class="label">Parts placed:</span><span class="value">%d / %d</span></div>
<div class="stat"><span class="label">Not placed:</span><span class="value">%d</span></div>
<div class="stat"><span class="label">No material match:</span><span class="value">%d</span></div>
<div class="stat"><span class="label">Efficiency:</span><span class="value">%.1f%%</span></div>
</div>
</div>
`, len(result.Sheets), result.PlacedCount(), totalParts, len(result.UnplacedParts), len(result.NoMaterialParts), result.TotalEfficiency())
}

func writeSheetSVG(b *strings.Builder, sheet model.SheetResult, index int) {
	width, height := sheet.Stock.Width, sheet.Stock.Height
	scale := svgScale(width, height, 400, 300)
	svgW, svgH := width*scale, height*scale

	fmt.Fprintf(b, `<div class="sheet-panel">
<h3>Sheet %d - %s (%.0fx%.0f mm)</h3>
<svg width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect x="0" y="0" width="%.0f" height="%.0f" fill="none" stroke="rgb(51,51,51)" stroke-width="2"/>
`, index, sheet.Stock.Label, width, height, svgW, svgH, width, height, width, height)

	for i, p := range sheet.Placements {
		c := partColors[i%len(partColors)]
		pw, ph := p.PlacedWidth(), p.PlacedHeight()
		fmt.Fprintf(b, `<rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" fill="rgb(%d,%d,%d)" stroke="rgb(0,0,0)" stroke-width="1" opacity="0.85"/>
<text x="%.0f" y="%.0f" font-size="11" text-anchor="middle" dominant-baseline="middle">%s</text>
`, p.X*scale, p.Y*scale, pw*scale, ph*scale, c.R, c.G, c.B,
			(p.X+pw/2)*scale, (p.Y+ph/2)*scale, p.Part.Label)
	}

	b.WriteString("</svg>\n</div>\n")
}

func writeUnplacedSection(b *strings.Builder, unplaced, noMaterial []model.Part) {
	b.WriteString(`<div class="unplaced">
<h2>Unplaced parts</h2>
`)
	if len(unplaced) > 0 {
		b.WriteString("<h3>No room found</h3>\n<ul>\n")
		for _, p := range unplaced {
			fmt.Fprintf(b, "<li>%s: %.0fx%.0f</li>\n", p.Label, p.Width, p.Height)
		}
		b.WriteString("</ul>\n")
	}
	if len(noMaterial) > 0 {
		b.WriteString("<h3>No matching stock material</h3>\n<ul>\n")
		for _, p := range noMaterial {
			fmt.Fprintf(b, "<li>%s: %.0fx%.0f (%s)</li>\n", p.Label, p.Width, p.Height, p.Material)
		}
		b.WriteString("</ul>\n")
	}
	b.WriteString("</div>\n")
}

// svgScale mirrors the teacher's UI canvas fit-to-box scaling so a sheet of
// any aspect ratio renders inside a maxW x maxH box without distortion.
func svgScale(w, h, maxW, maxH float64) float64 {
	if w <= 0 || h <= 0 {
		return 1
	}
	sx, sy := maxW/w, maxH/h
	if sx < sy {
		return sx
	}
	return sy
}
