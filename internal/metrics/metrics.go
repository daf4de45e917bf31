// Package metrics exposes the Stats surface (§6) as Prometheus gauges,
// read by internal/task's registry and scraped by an operator's monitoring
// stack.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry groups every gauge this engine publishes, label-free since each
// tracks a single system-wide count (§6 "Stats").
type Registry struct {
	TasksQueued     prometheus.Gauge
	TasksRunning    prometheus.Gauge
	TasksFinished   prometheus.Gauge
	TasksStopped    prometheus.Gauge
	TasksTerminated prometheus.Gauge
	TasksError      prometheus.Gauge

	WorkersQueued   prometheus.Gauge
	WorkersRunning  prometheus.Gauge
	WorkersFinished prometheus.Gauge
}

func gauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cutstock",
		Subsystem: "engine",
		Name:      name,
		Help:      help,
	})
}

// New builds a Registry and registers every gauge against reg.
func New(reg prometheus.Registerer) *Registry {
	r := &Registry{
		TasksQueued:     gauge("tasks_queued", "Tasks currently queued."),
		TasksRunning:    gauge("tasks_running", "Tasks currently running."),
		TasksFinished:   gauge("tasks_finished", "Tasks finished since startup."),
		TasksStopped:    gauge("tasks_stopped", "Tasks stopped since startup."),
		TasksTerminated: gauge("tasks_terminated", "Tasks terminated since startup."),
		TasksError:      gauge("tasks_error", "Tasks that ended in error since startup."),
		WorkersQueued:   gauge("workers_queued", "Workers currently queued across all tasks."),
		WorkersRunning:  gauge("workers_running", "Workers currently running across all tasks."),
		WorkersFinished: gauge("workers_finished", "Workers finished since startup."),
	}
	if reg != nil {
		reg.MustRegister(
			r.TasksQueued, r.TasksRunning, r.TasksFinished, r.TasksStopped, r.TasksTerminated, r.TasksError,
			r.WorkersQueued, r.WorkersRunning, r.WorkersFinished,
		)
	}
	return r
}
