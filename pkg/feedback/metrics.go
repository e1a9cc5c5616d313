package feedback

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus instrumentation.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "feedback").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus instrumentation.
type MetricsOption func(*MetricsConfig)

// WithMetricsNamespace sets the metrics namespace.
func WithMetricsNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithMetricsSubsystem sets the metrics subsystem.
func WithMetricsSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithMetricsConstLabels sets constant labels for all metrics.
func WithMetricsConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithMetricsRegistry sets the Prometheus registry.
func WithMetricsRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "feedback",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics instruments a Manager. Attach with WithMetrics.
type Metrics struct {
	itemsAdded   *prometheus.CounterVec
	itemsRemoved *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	evictions    *prometheus.CounterVec
	overflows    *prometheus.CounterVec
	active       *prometheus.GaugeVec
}

// NewMetrics registers and returns the feedback metric set.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		itemsAdded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "items_added_total",
			Help:        "Feedback items admitted into the store.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"type"}),
		itemsRemoved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "items_removed_total",
			Help:        "Feedback items that completed their lifecycle.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"type"}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "status_transitions_total",
			Help:        "Lifecycle status transitions.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"type", "to"}),
		evictions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "evictions_total",
			Help:        "Items forced out early, by reason (max_visible, queue).",
			ConstLabels: cfg.ConstLabels,
		}, []string{"type", "reason"}),
		overflows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "queue_overflow_total",
			Help:        "Adds rejected by admission control.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"type"}),
		active: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "active_items",
			Help:        "Feedback items currently live in the store.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"type"}),
	}
}

func (m *Metrics) recordAdd(t Type) {
	if m == nil {
		return
	}
	m.itemsAdded.WithLabelValues(string(t)).Inc()
	m.active.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) recordRemove(t Type) {
	if m == nil {
		return
	}
	m.itemsRemoved.WithLabelValues(string(t)).Inc()
	m.active.WithLabelValues(string(t)).Dec()
}

func (m *Metrics) recordTransition(t Type, to Status) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(t), string(to)).Inc()
}

func (m *Metrics) recordEviction(t Type, reason string) {
	if m == nil {
		return
	}
	m.evictions.WithLabelValues(string(t), reason).Inc()
}

func (m *Metrics) recordOverflow(t Type) {
	if m == nil {
		return
	}
	m.overflows.WithLabelValues(string(t)).Inc()
}
