// Package task implements the L8 task facade: the
// Queued -> Running -> {Finished, Stopped, Terminated, Error} lifecycle,
// the per-client single-running-task policy, and the concurrent task
// registry (§4.8).
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/piwi3910/cutstock/internal/calcapi"
	"github.com/piwi3910/cutstock/internal/metrics"
	"github.com/piwi3910/cutstock/internal/model"
	"github.com/piwi3910/cutstock/internal/search"
	"github.com/piwi3910/cutstock/internal/validate"
	"github.com/piwi3910/cutstock/internal/watchdog"
)

// Status is one of the task lifecycle's six states (§4.8).
type Status int

const (
	StatusQueued Status = iota
	StatusRunning
	StatusFinished
	StatusStopped
	StatusTerminated
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusRunning:
		return "running"
	case StatusFinished:
		return "finished"
	case StatusStopped:
		return "stopped"
	case StatusTerminated:
		return "terminated"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Task is one end-to-end optimization run.
type Task struct {
	ID        string
	ClientID  string
	CreatedAt time.Time

	mu          sync.Mutex
	status      Status
	lastUpdated time.Time
	err         error
	discard     bool

	coordinator *search.Coordinator
	parts       []model.TileDimensions
	noMaterial  []model.TileDimensions
	settings    model.CutSettings
	scale       int64

	cancel context.CancelFunc
	done   chan struct{}
}

// GetStatus returns the task's current lifecycle state.
func (t *Task) GetStatus() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *Task) setStatus(s Status) {
	t.mu.Lock()
	t.status = s
	t.lastUpdated = time.Now()
	t.mu.Unlock()
}

// Stop requests cooperative cancellation: in-flight workers finish their
// current outer-loop iteration and the pool is finalized from whatever
// already arrived (§5 "Stop is cooperative").
func (t *Task) Stop() {
	t.mu.Lock()
	if t.status != StatusRunning {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()
	t.cancel()
}

// Terminate requests forced cancellation: the pool is discarded outright
// (§5 "Terminate is forced").
func (t *Task) Terminate() {
	t.mu.Lock()
	if t.status != StatusRunning {
		t.mu.Unlock()
		return
	}
	t.discard = true
	t.mu.Unlock()
	t.cancel()
}

// Wait blocks until the task reaches a terminal state.
func (t *Task) Wait() {
	<-t.done
}

// Err returns the error a task ended with, if its final status is Error.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Progress returns the coordinator's aggregate percent-done.
func (t *Task) Progress() int64 {
	if t.coordinator == nil {
		return 0
	}
	return t.coordinator.Progress()
}

// Query renders the task's current status as the §6 StatusQuery wire shape.
func (t *Task) Query() calcapi.StatusQuery {
	t.mu.Lock()
	status := t.status
	lastUpdated := t.lastUpdated
	t.mu.Unlock()

	q := calcapi.StatusQuery{
		Status:         status.String(),
		PercentageDone: t.Progress(),
		LastUpdated:    lastUpdated,
	}
	if best, ok := t.coordinator.Pool().Best(); ok {
		resp := RenderResponse(best, t.parts, t.noMaterial, t.scale)
		q.Best = &resp
	}
	return q
}

// Registry is the concurrent, client-keyed task store (§5 "one concurrent
// map keyed by task id").
type Registry struct {
	mu          sync.Mutex
	tasks       map[string]*Task
	runningByID map[string]string // clientID -> taskID, at most one entry per client

	metrics  *metrics.Registry
	watchdog *watchdog.Watchdog
	log      *slog.Logger

	nextID int64
}

// NewRegistry builds an empty registry. metrics/wd may be nil.
func NewRegistry(m *metrics.Registry, wd *watchdog.Watchdog, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		tasks:       make(map[string]*Task),
		runningByID: make(map[string]string),
		metrics:     m,
		watchdog:    wd,
		log:         log,
	}
}

// Submit validates req, enforces the per-client running-task cap, and on
// success starts the search in the background, returning immediately with
// the new task's id (§4.8).
func (r *Registry) Submit(req calcapi.CalculationRequest, maxWorkersPerTask int) calcapi.SubmitResult {
	r.mu.Lock()
	if _, busy := r.runningByID[req.Client.ID]; busy {
		r.mu.Unlock()
		return calcapi.SubmitResult{StatusCode: calcapi.StatusTaskAlreadyRunning}
	}
	r.mu.Unlock()

	result, err := validate.Validate(req)
	if err != nil {
		r.log.Warn("task submit rejected", "client", req.Client.ID, "error", err)
		return calcapi.SubmitResult{StatusCode: statusCodeFor(err)}
	}

	r.mu.Lock()
	r.nextID++
	id := fmt.Sprintf("task-%d", r.nextID)
	t := &Task{
		ID:          id,
		ClientID:    req.Client.ID,
		CreatedAt:   time.Now(),
		status:      StatusQueued,
		lastUpdated: time.Now(),
		coordinator: search.NewCoordinator(),
		parts:       result.Parts,
		noMaterial:  result.NoMaterial,
		settings:    result.Settings,
		scale:       result.Scale,
		done:        make(chan struct{}),
	}
	r.tasks[id] = t
	r.runningByID[req.Client.ID] = id
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.TasksQueued.Inc()
	}

	runCtx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel

	go r.run(runCtx, t, result, maxWorkersPerTask)

	return calcapi.SubmitResult{StatusCode: calcapi.StatusOk, TaskID: id}
}

func (r *Registry) run(ctx context.Context, t *Task, validated validate.Result, maxWorkersPerTask int) {
	if r.metrics != nil {
		r.metrics.TasksQueued.Dec()
		r.metrics.TasksRunning.Inc()
	}
	t.setStatus(StatusRunning)

	if r.watchdog != nil {
		r.watchdog.Track(watchdog.Tracked{
			ID:       t.ID,
			Progress: t.Progress,
			Terminate: func() {
				t.Terminate()
			},
		})
		defer r.watchdog.Untrack(t.ID)
	}

	cfg := search.Config{
		Parts:                validated.Parts,
		Stocks:               validated.Stocks,
		AccuracyFactor:       t.settings.AccuracyFactor,
		Kerf:                 int64(t.settings.KerfWidth*float64(validated.Scale) + 0.5),
		MinTrim:              int64(t.settings.MinTrimDimension*float64(validated.Scale) + 0.5),
		OptimizationPriority: t.settings.OptimizationPriority,
		MaxWorkersPerTask:    maxWorkersPerTask,
		HighEfficiencyExit:   t.settings.Thresholds.ThresholdEfficiencyPercent / 100.0,
		CreatorTag:           t.ID,
	}

	err := func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("worker panic: %v", rec)
			}
		}()
		return t.coordinator.Run(ctx, cfg, r.log)
	}()

	t.mu.Lock()
	discard := t.discard
	cancelled := ctx.Err() != nil
	t.mu.Unlock()

	final := StatusFinished
	switch {
	case err != nil:
		final = StatusError
		t.mu.Lock()
		t.err = err
		t.mu.Unlock()
	case discard:
		final = StatusTerminated
	case cancelled:
		final = StatusStopped
	}
	t.setStatus(final)
	close(t.done)

	r.mu.Lock()
	if r.runningByID[t.ClientID] == t.ID {
		delete(r.runningByID, t.ClientID)
	}
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.TasksRunning.Dec()
		switch final {
		case StatusFinished:
			r.metrics.TasksFinished.Inc()
		case StatusStopped:
			r.metrics.TasksStopped.Inc()
		case StatusTerminated:
			r.metrics.TasksTerminated.Inc()
		case StatusError:
			r.metrics.TasksError.Inc()
		}
	}
}

// Get returns the task for id, if known.
func (r *Registry) Get(id string) (*Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	return t, ok
}

// Stop requests cooperative cancellation of the named task.
func (r *Registry) Stop(id string) bool {
	t, ok := r.Get(id)
	if !ok {
		return false
	}
	t.Stop()
	return true
}

// Terminate requests forced cancellation of the named task.
func (r *Registry) Terminate(id string) bool {
	t, ok := r.Get(id)
	if !ok {
		return false
	}
	t.Terminate()
	return true
}

func statusCodeFor(err error) calcapi.StatusCode {
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		return calcapi.StatusInvalidTiles
	}
	switch ve.Code {
	case model.CodeInvalidTiles:
		return calcapi.StatusInvalidTiles
	case model.CodeInvalidStockTiles:
		return calcapi.StatusInvalidStockTiles
	case model.CodeTaskAlreadyRunning:
		return calcapi.StatusTaskAlreadyRunning
	case model.CodeServerUnavailable:
		return calcapi.StatusServerUnavailable
	case model.CodeTooManyPanels:
		return calcapi.StatusTooManyPanels
	case model.CodeTooManyStockPanels:
		return calcapi.StatusTooManyStockPanels
	default:
		// CodeInvalidInput / CodeInvalidConfiguration have no dedicated
		// wire status in §6's small enum; fold into the nearest code.
		return calcapi.StatusInvalidTiles
	}
}
