// Package watchdog implements the shared stall/timeout detector described
// in §4.10: periodic polling of worker progress, idle-warning escalation,
// and forced termination after repeated stalls.
package watchdog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// DefaultInterval is the watchdog's polling cadence (§4.10 "default 5s").
const DefaultInterval = 5 * time.Second

// DefaultIdleWarnings is the number of consecutive idle polls tolerated
// before termination is requested (§4.10 "default 3").
const DefaultIdleWarnings = 3

// Tracked is one worker (or task) under observation.
type Tracked struct {
	ID            string
	Progress      func() int64 // current percent-done, monotone non-decreasing while healthy
	TotalDeadline time.Duration
	Terminate     func() // best-effort forced cancellation
}

type trackedState struct {
	tracked     Tracked
	lastSeen    int64
	idleStreak  int
	startedAt   time.Time
}

// Watchdog polls a set of Tracked targets and escalates idle ones.
type Watchdog struct {
	interval     time.Duration
	idleLimit    int
	log          *slog.Logger

	mu       sync.Mutex
	targets  map[string]*trackedState
}

// New builds a Watchdog with the given poll interval and idle-warning limit.
func New(interval time.Duration, idleLimit int, log *slog.Logger) *Watchdog {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if idleLimit <= 0 {
		idleLimit = DefaultIdleWarnings
	}
	if log == nil {
		log = slog.Default()
	}
	return &Watchdog{interval: interval, idleLimit: idleLimit, log: log, targets: make(map[string]*trackedState)}
}

// Track registers a worker/task for monitoring.
func (w *Watchdog) Track(t Tracked) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.targets[t.ID] = &trackedState{tracked: t, startedAt: time.Now()}
}

// Untrack removes a worker/task from monitoring (it finished normally).
func (w *Watchdog) Untrack(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.targets, id)
}

// Run polls at the configured interval until ctx is cancelled.
func (w *Watchdog) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.pollOnce()
		}
	}
}

func (w *Watchdog) pollOnce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, st := range w.targets {
		now := st.tracked.Progress()
		stalled := now <= st.lastSeen
		st.lastSeen = now

		overTotal := st.tracked.TotalDeadline > 0 && time.Since(st.startedAt) > st.tracked.TotalDeadline

		if !stalled && !overTotal {
			st.idleStreak = 0
			continue
		}

		st.idleStreak++
		if overTotal {
			w.log.Warn("watchdog: worker exceeded wall-clock deadline", "id", id, "elapsed", time.Since(st.startedAt))
			w.terminate(id, st)
			continue
		}

		w.log.Warn("watchdog: worker idle", "id", id, "idle_streak", st.idleStreak, "progress", now)
		if st.idleStreak >= w.idleLimit {
			w.terminate(id, st)
		}
	}
}

func (w *Watchdog) terminate(id string, st *trackedState) {
	w.log.Error("watchdog: terminating stalled worker", "id", id)
	if st.tracked.Terminate != nil {
		st.tracked.Terminate()
	}
	delete(w.targets, id)
}

// EscalationBackoff returns a fresh exponential backoff (250ms initial,
// 5s maximum interval). The watchdog itself does not use it: pollOnce
// requests termination once and then stops tracking the target, so there
// are no follow-up attempts to pace.
func EscalationBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	return b
}
