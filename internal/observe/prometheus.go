package observe

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMeter is a Meter backed by github.com/prometheus/client_golang.
// Metric vectors are created lazily on first use and registered against the
// supplied Registerer; a name that collides with something already
// registered there falls back to a no-op handle rather than panicking.
type PrometheusMeter struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec

	events *prometheus.CounterVec
}

// NewPrometheusMeter registers a wal_events_total counter vector against
// registerer and returns a Meter backed by it. It fails if that metric name
// is already registered.
func NewPrometheusMeter(registerer prometheus.Registerer) (*PrometheusMeter, error) {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wal_events_total",
		Help: "Total number of observability events emitted by the write-ahead log, by kind.",
	}, []string{"kind"})
	if err := registerer.Register(events); err != nil {
		return nil, err
	}
	return &PrometheusMeter{
		registerer: registerer,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		events:     events,
	}, nil
}

func splitLabels(labels map[string]string) ([]string, []string) {
	names := make([]string, 0, len(labels))
	for k := range labels {
		names = append(names, k)
	}
	sort.Strings(names)
	values := make([]string, len(names))
	for i, k := range names {
		values[i] = labels[k]
	}
	return names, values
}

func (m *PrometheusMeter) Counter(name string, labels map[string]string) Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	vec, ok := m.counters[name]
	if !ok {
		names, _ := splitLabels(labels)
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name}, names)
		if err := m.registerer.Register(vec); err != nil {
			return noopHandle{}
		}
		m.counters[name] = vec
	}
	_, values := splitLabels(labels)
	return vec.WithLabelValues(values...)
}

func (m *PrometheusMeter) Gauge(name string, labels map[string]string) Gauge {
	m.mu.Lock()
	defer m.mu.Unlock()

	vec, ok := m.gauges[name]
	if !ok {
		names, _ := splitLabels(labels)
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name}, names)
		if err := m.registerer.Register(vec); err != nil {
			return noopHandle{}
		}
		m.gauges[name] = vec
	}
	_, values := splitLabels(labels)
	return vec.WithLabelValues(values...)
}

func (m *PrometheusMeter) Histogram(name string, labels map[string]string) Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()

	vec, ok := m.histograms[name]
	if !ok {
		names, _ := splitLabels(labels)
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 20),
		}, names)
		if err := m.registerer.Register(vec); err != nil {
			return noopHandle{}
		}
		m.histograms[name] = vec
	}
	_, values := splitLabels(labels)
	return vec.WithLabelValues(values...)
}

func (m *PrometheusMeter) Event(evt Event) {
	m.events.WithLabelValues(evt.Kind.String()).Inc()
}
