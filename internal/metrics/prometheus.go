// Package metrics provides Prometheus metrics for maze sessions and the
// phone relay.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Default win-time buckets, in seconds.
var defaultWinBuckets = []float64{5, 10, 20, 30, 45, 60, 90, 120, 180, 300}

// Manager owns the game metrics. A nil *Manager is valid and records nothing.
type Manager struct {
	namespace  string
	subsystem  string
	winBuckets []float64
	registry   *prometheus.Registry

	// Sessions
	sessionsStarted *prometheus.CounterVec
	sessionsActive  prometheus.Gauge

	// Game events
	falls      prometheus.Counter
	wins       prometheus.Counter
	winSeconds prometheus.Histogram

	// Phone relay
	phoneConnections prometheus.Counter
	phonesConnected  prometheus.Gauge
	readings         prometheus.Counter
}

// NewManager creates a metrics manager. Without WithRegistry it uses a
// fresh registry, so several managers can coexist.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:  "maze",
		subsystem:  "game",
		winBuckets: defaultWinBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.sessionsStarted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_started_total",
		Help:      "Game sessions started, by motion source",
	}, []string{"source"})

	m.sessionsActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_active",
		Help:      "Game sessions currently running",
	})

	m.falls = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "falls_total",
		Help:      "Times the ball fell into a black hole",
	})

	m.wins = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "wins_total",
		Help:      "Times the ball reached the finish hole",
	})

	m.winSeconds = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "win_seconds",
		Help:      "Elapsed time of winning runs",
		Buckets:   m.winBuckets,
	})

	m.phoneConnections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "relay",
		Name:      "connections_total",
		Help:      "Phone WebSocket connections accepted",
	})

	m.phonesConnected = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "relay",
		Name:      "phones_connected",
		Help:      "Phones currently streaming",
	})

	m.readings = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "relay",
		Name:      "readings_total",
		Help:      "Gravity readings received from phones",
	})
}

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SessionStarted records a session acquiring its motion source.
func (m *Manager) SessionStarted(source string) {
	if m == nil {
		return
	}
	m.sessionsStarted.WithLabelValues(source).Inc()
	m.sessionsActive.Inc()
}

// SessionEnded records a session releasing its motion source.
func (m *Manager) SessionEnded() {
	if m == nil {
		return
	}
	m.sessionsActive.Dec()
}

// Fell records a black hole contact.
func (m *Manager) Fell() {
	if m == nil {
		return
	}
	m.falls.Inc()
}

// Won records a finished run and its elapsed time.
func (m *Manager) Won(elapsed float64) {
	if m == nil {
		return
	}
	m.wins.Inc()
	m.winSeconds.Observe(elapsed)
}

// PhoneConnected implements motion.Observer.
func (m *Manager) PhoneConnected() {
	if m == nil {
		return
	}
	m.phoneConnections.Inc()
	m.phonesConnected.Inc()
}

// PhoneDisconnected implements motion.Observer.
func (m *Manager) PhoneDisconnected() {
	if m == nil {
		return
	}
	m.phonesConnected.Dec()
}

// ReadingReceived implements motion.Observer.
func (m *Manager) ReadingReceived() {
	if m == nil {
		return
	}
	m.readings.Inc()
}
