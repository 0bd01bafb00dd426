// Package observability exposes the service's Prometheus collectors.
// Every helper is nil-safe so components can run without metrics in tests.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "chat_notify"

// Notification outcomes.
const (
	OutcomeDelivered = "delivered"
	OutcomeRejected  = "rejected"
)

type Metrics struct {
	Registry *prometheus.Registry

	Notifications    *prometheus.CounterVec
	EventsPublished  *prometheus.CounterVec
	EventsDiscarded  prometheus.Counter
	EventsDropped    prometheus.Counter
	FramesWritten    *prometheus.CounterVec
	RegistryUsers    prometheus.Gauge
	RegistrySessions prometheus.Gauge
	ProcessRSS       prometheus.Gauge
	ProcessCPU       prometheus.Gauge
	WorkerRestarts   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Change notifications read from the store, by channel and outcome.",
		}, []string{"channel", "outcome"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Events handed to a user's broadcast channel, by event name.",
		}, []string{"event"}),
		EventsDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_discarded_total",
			Help:      "Events addressed to users without a live session.",
		}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Buffered events evicted from lagging sessions.",
		}),
		FramesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_written_total",
			Help:      "Push frames flushed to clients, by transport and kind.",
		}, []string{"transport", "kind"}),
		RegistryUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_users",
			Help:      "Users with at least one live session.",
		}),
		RegistrySessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_sessions",
			Help:      "Live sessions across all users.",
		}),
		ProcessRSS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_rss_bytes",
			Help:      "Resident memory sampled by the stats worker.",
		}),
		ProcessCPU: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_cpu_percent",
			Help:      "CPU usage sampled by the stats worker.",
		}),
		WorkerRestarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_restarts_total",
			Help:      "Supervised worker restarts after an error or a panic.",
		}, []string{"worker"}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		m.Notifications, m.EventsPublished, m.EventsDiscarded, m.EventsDropped,
		m.FramesWritten, m.RegistryUsers, m.RegistrySessions,
		m.ProcessRSS, m.ProcessCPU, m.WorkerRestarts,
	)
	return m
}

func (m *Metrics) IncNotification(channel, outcome string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(channel, outcome).Inc()
}

func (m *Metrics) IncPublished(eventName string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(eventName).Inc()
}

func (m *Metrics) IncDiscarded() {
	if m == nil {
		return
	}
	m.EventsDiscarded.Inc()
}

func (m *Metrics) AddDropped(n int) {
	if m == nil || n == 0 {
		return
	}
	m.EventsDropped.Add(float64(n))
}

func (m *Metrics) IncFrame(transport, kind string) {
	if m == nil {
		return
	}
	m.FramesWritten.WithLabelValues(transport, kind).Inc()
}

func (m *Metrics) SessionOpened(newUser bool) {
	if m == nil {
		return
	}
	m.RegistrySessions.Inc()
	if newUser {
		m.RegistryUsers.Inc()
	}
}

func (m *Metrics) SessionClosed(lastForUser bool) {
	if m == nil {
		return
	}
	m.RegistrySessions.Dec()
	if lastForUser {
		m.RegistryUsers.Dec()
	}
}

func (m *Metrics) SetProcess(rss uint64, cpu float64) {
	if m == nil {
		return
	}
	m.ProcessRSS.Set(float64(rss))
	m.ProcessCPU.Set(cpu)
}

func (m *Metrics) IncRestart(worker string) {
	if m == nil {
		return
	}
	m.WorkerRestarts.WithLabelValues(worker).Inc()
}
