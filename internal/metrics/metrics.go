// Package metrics exposes scheduler activity as Prometheus metrics. Metrics
// implements scheduler.Observer and is fed by task transitions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kubev2v/task-executor/pkg/scheduler"
)

const (
	namespace = "executor"
	subsystem = "tasks"
)

type Metrics struct {
	TasksSubmitted *prometheus.CounterVec
	TasksCompleted *prometheus.CounterVec
	TasksFailed    *prometheus.CounterVec
	TasksCancelled *prometheus.CounterVec
	TasksQueued    prometheus.Gauge
	TasksActive    prometheus.Gauge
	QueueWait      prometheus.Histogram
	RunLatency     *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		TasksSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "submitted_total",
			Help:      "Tasks accepted by the queue.",
		}, []string{"kind", "trigger"}),
		TasksCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "completed_total",
			Help:      "Tasks that completed successfully.",
		}, []string{"kind"}),
		TasksFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "failed_total",
			Help:      "Tasks that returned an error or panicked.",
		}, []string{"kind"}),
		TasksCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cancelled_total",
			Help:      "Tasks cancelled before or while running.",
		}, []string{"kind"}),
		TasksQueued: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "queued",
			Help:      "Tasks waiting in the queue, delayed tasks included.",
		}),
		TasksActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active",
			Help:      "Tasks currently running on a worker.",
		}),
		QueueWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "queue_wait_seconds",
			Help:      "Time between the release time of a task and its start.",
			Buckets:   prometheus.DefBuckets,
		}),
		RunLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "run_duration_seconds",
			Help:      "Running time of finished tasks.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind", "state"}),
	}

	for _, c := range []prometheus.Collector{
		m.TasksSubmitted,
		m.TasksCompleted,
		m.TasksFailed,
		m.TasksCancelled,
		m.TasksQueued,
		m.TasksActive,
		m.QueueWait,
		m.RunLatency,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) Observe(info scheduler.TaskInfo) {
	kind := string(info.Kind)

	switch info.State {
	case scheduler.StatePending:
		m.TasksSubmitted.WithLabelValues(kind, string(info.Trigger)).Inc()
		m.TasksQueued.Inc()
	case scheduler.StateRunning:
		m.TasksQueued.Dec()
		m.TasksActive.Inc()
		wait := info.StartedAt.Sub(info.ReleaseAt)
		if wait < 0 {
			wait = 0
		}
		m.QueueWait.Observe(wait.Seconds())
	case scheduler.StateCompleted, scheduler.StateFailed:
		m.TasksActive.Dec()
		m.finished(info)
	case scheduler.StateCancelled:
		// a task cancelled before it started never left the queue
		if info.StartedAt.IsZero() {
			m.TasksQueued.Dec()
		} else {
			m.TasksActive.Dec()
		}
		m.finished(info)
	}
}

func (m *Metrics) finished(info scheduler.TaskInfo) {
	kind := string(info.Kind)

	switch info.State {
	case scheduler.StateCompleted:
		m.TasksCompleted.WithLabelValues(kind).Inc()
	case scheduler.StateFailed:
		m.TasksFailed.WithLabelValues(kind).Inc()
	case scheduler.StateCancelled:
		m.TasksCancelled.WithLabelValues(kind).Inc()
	}

	if !info.StartedAt.IsZero() && !info.CompletedAt.IsZero() {
		m.RunLatency.WithLabelValues(kind, string(info.State)).Observe(info.CompletedAt.Sub(info.StartedAt).Seconds())
	}
}
