package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/piwi3910/cutstock/internal/calcapi"
	"github.com/piwi3910/cutstock/internal/config"
	"github.com/piwi3910/cutstock/internal/export"
	"github.com/piwi3910/cutstock/internal/importer"
	"github.com/piwi3910/cutstock/internal/logging"
	"github.com/piwi3910/cutstock/internal/metrics"
	"github.com/piwi3910/cutstock/internal/model"
	"github.com/piwi3910/cutstock/internal/task"
	"github.com/piwi3910/cutstock/internal/watchdog"
)

// stockFlag collects repeated -stock "WxH[xQTY[xMATERIAL]]" flags.
type stockFlag []calcapi.StockRequest

func (f *stockFlag) String() string {
	if f == nil {
		return ""
	}
	parts := make([]string, len(*f))
	for i, s := range *f {
		parts[i] = fmt.Sprintf("%sx%sx%d", s.Width, s.Height, s.Quantity)
	}
	return strings.Join(parts, ",")
}

func (f *stockFlag) Set(value string) error {
	fields := strings.Split(value, "x")
	if len(fields) < 2 {
		return fmt.Errorf("stock spec %q must be WIDTHxHEIGHT[xQTY[xMATERIAL]]", value)
	}
	req := calcapi.StockRequest{
		Width:    fields[0],
		Height:   fields[1],
		Quantity: 1,
		Enabled:  true,
	}
	if len(fields) >= 3 {
		qty, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("stock spec %q: invalid quantity: %w", value, err)
		}
		req.Quantity = qty
	}
	if len(fields) >= 4 {
		req.Material = fields[3]
	}
	*f = append(*f, req)
	return nil
}

func runOptimize(args []string) error {
	fs := newFlagSet("optimize")
	partsPath := fs.String("parts", "", "cut-list file (.csv, .json, or .xlsx)")
	var stocks stockFlag
	fs.Var(&stocks, "stock", `stock sheet, repeatable: "WIDTHxHEIGHT[xQTY[xMATERIAL]]"`)
	material := fs.String("material", "", "default material applied to parts without one")
	kerf := fs.Float64("kerf", 0, "kerf width override (0 keeps the config default)")
	minTrim := fs.Float64("min-trim", -1, "minimum offcut dimension override (-1 keeps the config default)")
	priority := fs.Int("priority", -1, "optimization priority override (-1 keeps the config default)")
	configPath := fs.String("config", config.DefaultConfigPath(), "path to config.yaml")
	outPath := fs.String("out", "", "write the result as JSON to this path")
	pdfPath := fs.String("pdf", "", "write a PDF placement report to this path")
	htmlPath := fs.String("html", "", "write an HTML placement report to this path")
	pollInterval := fs.Duration("poll-interval", 200*time.Millisecond, "status poll interval (accepted but not consulted: the command blocks until the task finishes)")
	wastePercent := fs.Float64("waste-percent", 10, "waste factor applied to the purchase and edge-banding estimates")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *partsPath == "" {
		return fmt.Errorf("-parts is required")
	}
	if len(stocks) == 0 {
		return fmt.Errorf("at least one -stock is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logging.New(nil, cfg.LogLevel, true)

	parts, err := importParts(*partsPath)
	if err != nil {
		return err
	}
	if *material != "" {
		for i := range parts {
			if parts[i].Material == "" {
				parts[i].Material = *material
			}
		}
	}

	cfgReq := configRequestFrom(cfg, *kerf, *minTrim, *priority)
	req := calcapi.CalculationRequest{
		Client: calcapi.ClientInfo{ID: "cutstock-cli", Name: "cutstock"},
		Config: cfgReq,
		Parts:  parts,
		Stocks: stocks,
	}

	reg := task.NewRegistry(metrics.New(nil), watchdog.New(cfg.WatchdogInterval, cfg.WatchdogIdleWarnings, log), log)
	result := reg.Submit(req, cfg.MaxWorkersPerTask)
	if result.StatusCode != calcapi.StatusOk {
		return fmt.Errorf("submit rejected: status code %d", result.StatusCode)
	}

	t, ok := reg.Get(result.TaskID)
	if !ok {
		return fmt.Errorf("task %s vanished immediately after submit", result.TaskID)
	}
	t.Wait()

	query := t.Query()
	fmt.Printf("status: %s\n", query.Status)
	if t.Err() != nil {
		return fmt.Errorf("optimization failed: %w", t.Err())
	}
	if query.Best == nil {
		return fmt.Errorf("optimization produced no result")
	}

	fmt.Printf("placed %d/%d parts, %.1f%% efficiency, %d stock panel(s) used\n",
		query.Best.Stats.PlacedCount, query.Best.Stats.TotalParts,
		query.Best.Stats.EfficiencyPercent, query.Best.Stats.StockPanelsUsed)

	printSupplementaryReports(query.Best, parts, stocks, cfgReq.KerfWidth, *wastePercent)

	if *outPath != "" {
		if err := export.ExportJSON(*outPath, *query.Best); err != nil {
			return fmt.Errorf("export json: %w", err)
		}
	}
	if *pdfPath != "" || *htmlPath != "" {
		optResult := toOptimizeResult(*query.Best)
		if *pdfPath != "" {
			if err := export.ExportPDF(*pdfPath, optResult, cfg.Defaults); err != nil {
				return fmt.Errorf("export pdf: %w", err)
			}
		}
		if *htmlPath != "" {
			if err := export.ExportHTML(*htmlPath, optResult); err != nil {
				return fmt.Errorf("export html: %w", err)
			}
		}
	}
	_ = pollInterval // reserved for a future streaming-status mode
	return nil
}

func importParts(path string) ([]calcapi.PartRequest, error) {
	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		result = importer.ImportCSV(path)
	case ".xlsx":
		result = importer.ImportExcel(path)
	case ".json":
		result = importer.ImportJSON(path)
	default:
		return nil, fmt.Errorf("unsupported cut-list extension %q (use .csv, .json, or .xlsx)", filepath.Ext(path))
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("cut-list import failed: %s", strings.Join(result.Errors, "; "))
	}
	for _, w := range result.Warnings {
		fmt.Printf("warning: %s\n", w)
	}

	out := make([]calcapi.PartRequest, 0, len(result.Parts))
	for _, p := range result.Parts {
		out = append(out, calcapi.PartRequest{
			ID:       p.ID,
			Label:    p.Label,
			Width:    strconv.FormatFloat(p.Width, 'f', -1, 64),
			Height:   strconv.FormatFloat(p.Height, 'f', -1, 64),
			Quantity: p.Quantity,
			Material: p.Material,
			Enabled:  p.Enabled,
		})
	}
	return out, nil
}

func configRequestFrom(cfg config.Config, kerfOverride, minTrimOverride float64, priorityOverride int) calcapi.ConfigRequest {
	d := cfg.Defaults
	req := calcapi.ConfigRequest{
		KerfWidth:                d.KerfWidth,
		MinTrimDimension:         d.MinTrimDimension,
		OptimizationPriority:     d.OptimizationPriority,
		UseSingleStockUnit:       d.UseSingleStockUnit,
		CutOrientationPreference: int(d.CutOrientationPreference),
		AccuracyFactor:           d.AccuracyFactor,
	}
	if kerfOverride > 0 {
		req.KerfWidth = kerfOverride
	}
	if minTrimOverride >= 0 {
		req.MinTrimDimension = minTrimOverride
	}
	if priorityOverride >= 0 {
		req.OptimizationPriority = priorityOverride
	}
	return req
}

// toOptimizeResult regroups a flat calcapi response by stock ID so it can
// feed the PDF exporter, which renders one page per sheet.
func toOptimizeResult(resp calcapi.CalculationResponse) model.OptimizeResult {
	order := make([]string, 0)
	byStock := make(map[string]*model.SheetResult)

	for _, p := range resp.Placements {
		sheet, ok := byStock[p.StockID]
		if !ok {
			sheet = &model.SheetResult{
				Stock: model.StockSheet{ID: p.StockID, Material: p.Material},
			}
			byStock[p.StockID] = sheet
			order = append(order, p.StockID)
		}
		sheet.Placements = append(sheet.Placements, model.Placement{
			Part: model.Part{
				ID:       p.PartID,
				Label:    p.Label,
				Width:    p.Width,
				Height:   p.Height,
				Material: p.Material,
			},
			X:       p.X,
			Y:       p.Y,
			Rotated: p.Rotated,
		})
	}

	sheets := make([]model.SheetResult, 0, len(order))
	for _, id := range order {
		sheet := byStock[id]
		// The wire response doesn't carry the source stock sheet's own
		// dimensions, only its placements; approximate it with the
		// occupied bounding box so the PDF report has something to draw.
		for _, p := range sheet.Placements {
			if right := p.X + p.PlacedWidth(); right > sheet.Stock.Width {
				sheet.Stock.Width = right
			}
			if top := p.Y + p.PlacedHeight(); top > sheet.Stock.Height {
				sheet.Stock.Height = top
			}
		}
		sheets = append(sheets, *sheet)
	}

	unplaced := make([]model.Part, 0, len(resp.NoFitParts))
	for _, p := range resp.NoFitParts {
		unplaced = append(unplaced, toModelPart(p))
	}
	noMaterial := make([]model.Part, 0, len(resp.NoMaterialParts))
	for _, p := range resp.NoMaterialParts {
		noMaterial = append(noMaterial, toModelPart(p))
	}

	return model.OptimizeResult{
		Sheets:          sheets,
		UnplacedParts:   unplaced,
		NoMaterialParts: noMaterial,
		CalculationMS:   resp.Stats.CalculationTimeMS,
	}
}

func toModelPart(p calcapi.PartRequest) model.Part {
	width, _ := strconv.ParseFloat(p.Width, 64)
	height, _ := strconv.ParseFloat(p.Height, 64)
	return model.Part{
		ID:       p.ID,
		Label:    p.Label,
		Width:    width,
		Height:   height,
		Quantity: p.Quantity,
		Material: p.Material,
		Enabled:  p.Enabled,
		EdgeBanding: model.EdgeBanding{
			Top:    p.EdgeBanding.Top,
			Bottom: p.EdgeBanding.Bottom,
			Left:   p.EdgeBanding.Left,
			Right:  p.EdgeBanding.Right,
		},
	}
}

func toModelOffcut(o calcapi.OffcutResponse, sheetIndex int) model.Offcut {
	return model.Offcut{
		ID:         o.ID,
		SheetLabel: o.StockID,
		SheetIndex: sheetIndex,
		X:          o.X,
		Y:          o.Y,
		Width:      o.Width,
		Height:     o.Height,
	}
}

// printSupplementaryReports prints the purchase-estimate, edge-banding, and
// reusable-offcut summaries alongside the main placement report. These are
// CLI-only conveniences over the task's placement/stats output; none of
// them feed back into the optimization itself.
func printSupplementaryReports(resp *calcapi.CalculationResponse, parts []calcapi.PartRequest, stocks []calcapi.StockRequest, kerf, wastePercent float64) {
	modelParts := make([]model.Part, 0, len(parts))
	for _, p := range parts {
		modelParts = append(modelParts, toModelPart(p))
	}

	if len(stocks) > 0 {
		sw, _ := strconv.ParseFloat(stocks[0].Width, 64)
		sh, _ := strconv.ParseFloat(stocks[0].Height, 64)
		estimate := model.CalculatePurchaseEstimate(modelParts, sw, sh, kerf, wastePercent, stocks[0].PricePerSheet)
		fmt.Printf("purchase estimate: %d sheet(s) (%.2f exact, %.0f%% waste applied)",
			estimate.SheetsWithWaste, estimate.SheetsNeededExact, wastePercent)
		if estimate.EstimatedCost > 0 {
			fmt.Printf(", est. cost %.2f", estimate.EstimatedCost)
		}
		fmt.Println()
	}

	banding := model.CalculateEdgeBanding(modelParts, wastePercent)
	if banding.PartCount > 0 {
		fmt.Printf("edge banding: %.2fm needed (%.2fm with waste) across %d edge(s) on %d part(s)\n",
			banding.TotalLinearM, banding.TotalWithWasteM, banding.EdgeCount, banding.PartCount)
	}

	if len(resp.Offcuts) > 0 {
		offcuts := make([]model.Offcut, 0, len(resp.Offcuts))
		for i, o := range resp.Offcuts {
			offcuts = append(offcuts, toModelOffcut(o, i))
		}
		fmt.Printf("offcuts: %d reusable remnant(s), %.0f sq mm total\n",
			len(offcuts), model.TotalOffcutArea(offcuts))
	}
}
