// Package calcapi defines the wire shapes exchanged across the engine
// boundary: requests, submit results, status queries, responses, and the
// system-wide stats block (§6).
package calcapi

import "time"

// ClientInfo identifies the submitting client for the per-client
// single-running-task policy (§4.8).
type ClientInfo struct {
	ID       string            `json:"id"`
	Name     string            `json:"name,omitempty"`
	Version  string            `json:"version,omitempty"`
	Platform string            `json:"platform,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ConfigRequest mirrors model.CutSettings at the wire boundary, before
// scaling and range validation (§4.9).
type ConfigRequest struct {
	KerfWidth                float64 `json:"kerf_width"`
	MinTrimDimension         float64 `json:"min_trim_dimension"`
	OptimizationPriority     int     `json:"optimization_priority"`
	UseSingleStockUnit       bool    `json:"use_single_stock_unit"`
	CutOrientationPreference int     `json:"cut_orientation_preference"`
	AccuracyFactor           int     `json:"accuracy_factor,omitempty"`
	PerformanceThresholds    *ThresholdsRequest `json:"performance_thresholds,omitempty"`
}

// ThresholdsRequest is the optional performance-threshold override block.
type ThresholdsRequest struct {
	MaxSimultaneousThreadsPerTask int `json:"max_simultaneous_threads_per_task"`
	MaxConcurrentTasks            int `json:"max_concurrent_tasks"`
}

// EdgeBandingRequest mirrors model.EdgeBanding at the wire boundary.
type EdgeBandingRequest struct {
	Top    bool `json:"top,omitempty"`
	Bottom bool `json:"bottom,omitempty"`
	Left   bool `json:"left,omitempty"`
	Right  bool `json:"right,omitempty"`
}

// PartRequest is one requested part. Width/Height are strings to preserve
// user-entered precision; scaling happens in internal/validate (§6, §3).
type PartRequest struct {
	ID          string             `json:"id,omitempty"`
	Label       string             `json:"label,omitempty"`
	Width       string             `json:"width"`
	Height      string             `json:"height"`
	Quantity    int                `json:"quantity"`
	Material    string             `json:"material,omitempty"`
	Enabled     bool               `json:"enabled"`
	Orientation int                `json:"orientation"`
	EdgeBanding EdgeBandingRequest `json:"edge_banding,omitempty"`
}

// StockRequest is one requested stock panel, same shape as PartRequest.
type StockRequest struct {
	ID            string  `json:"id,omitempty"`
	Label         string  `json:"label,omitempty"`
	Width         string  `json:"width"`
	Height        string  `json:"height"`
	Quantity      int     `json:"quantity"`
	Material      string  `json:"material,omitempty"`
	Orientation   int     `json:"orientation"`
	PricePerSheet float64 `json:"price_per_sheet,omitempty"`
}

// CalculationRequest is the full submit payload (§6).
type CalculationRequest struct {
	Client ClientInfo     `json:"client"`
	Config ConfigRequest  `json:"config"`
	Parts  []PartRequest  `json:"parts"`
	Stocks []StockRequest `json:"stocks"`
}

// StatusCode is the small enum returned by the submit path (§6).
type StatusCode int

const (
	StatusOk                 StatusCode = 0
	StatusInvalidTiles       StatusCode = 1
	StatusInvalidStockTiles  StatusCode = 2
	StatusTaskAlreadyRunning StatusCode = 3
	StatusServerUnavailable  StatusCode = 4
	StatusTooManyPanels      StatusCode = 5
	StatusTooManyStockPanels StatusCode = 6
)

// SubmitResult answers a submit request.
type SubmitResult struct {
	StatusCode StatusCode `json:"status_code"`
	TaskID     string     `json:"task_id,omitempty"`
}

// StatusQuery answers a status poll for one task (§6).
type StatusQuery struct {
	Status         string               `json:"status"`
	InitPercentage int64                `json:"init_percentage"`
	PercentageDone int64                `json:"percentage_done"`
	LastUpdated    time.Time            `json:"last_updated"`
	Best           *CalculationResponse `json:"best,omitempty"`
}

// PlacementResponse is one placed part in response coordinates.
type PlacementResponse struct {
	PartID     string  `json:"part_id"`
	Label      string  `json:"label,omitempty"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Rotated    bool    `json:"rotated"`
	StockID    string  `json:"stock_id"`
	Material   string  `json:"material,omitempty"`
}

// StatsBlock summarizes one response's placement quality (§6).
type StatsBlock struct {
	TotalParts        int     `json:"total_parts"`
	PlacedCount       int     `json:"placed_count"`
	TotalArea         float64 `json:"total_area"`
	UsedArea          float64 `json:"used_area"`
	WasteArea         float64 `json:"waste_area"`
	EfficiencyPercent float64 `json:"efficiency_percent"`
	CalculationTimeMS int64   `json:"calculation_time_ms"`
	StockPanelsUsed   int     `json:"stock_panels_used"`
}

// OffcutResponse is one reusable rectangular remnant left free on a sheet
// once placement finishes, reported so it can be fed back in as stock for
// a later cut list.
type OffcutResponse struct {
	ID       string  `json:"id"`
	StockID  string  `json:"stock_id"`
	Material string  `json:"material,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// CalculationResponse is the rendered result of one task (§6).
type CalculationResponse struct {
	Placements      []PlacementResponse `json:"placements"`
	NoFitParts      []PartRequest       `json:"no_fit_parts"`
	NoMaterialParts []PartRequest       `json:"no_material_parts"`
	Stats           StatsBlock          `json:"stats"`
	Offcuts         []OffcutResponse    `json:"offcuts,omitempty"`
	Metadata        map[string]string   `json:"metadata,omitempty"`
}

// Stats is the system-wide task/worker count surface (§6).
type Stats struct {
	TasksQueued     int64 `json:"tasks_queued"`
	TasksRunning    int64 `json:"tasks_running"`
	TasksFinished   int64 `json:"tasks_finished"`
	TasksStopped    int64 `json:"tasks_stopped"`
	TasksTerminated int64 `json:"tasks_terminated"`
	TasksError      int64 `json:"tasks_error"`
	WorkersQueued   int64 `json:"workers_queued"`
	WorkersRunning  int64 `json:"workers_running"`
	WorkersFinished int64 `json:"workers_finished"`
}
