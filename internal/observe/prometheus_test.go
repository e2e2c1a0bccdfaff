package observe_test

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nori-kv/wal/internal/observe"
)

var _ = Describe("PrometheusMeter", func() {
	It("registers wal_events_total and increments it by event kind", func() {
		registry := prometheus.NewRegistry()
		meter, err := observe.NewPrometheusMeter(registry)
		Expect(err).ToNot(HaveOccurred())

		meter.Event(observe.Event{Kind: observe.EventFsync})
		meter.Event(observe.Event{Kind: observe.EventFsync})
		meter.Event(observe.Event{Kind: observe.EventSegmentRoll})

		families, err := registry.Gather()
		Expect(err).ToNot(HaveOccurred())

		var found *dto.MetricFamily
		for _, f := range families {
			if f.GetName() == "wal_events_total" {
				found = f
			}
		}
		Expect(found).ToNot(BeNil())
		Expect(found.GetMetric()).To(HaveLen(2))
	})

	It("lazily creates and registers a counter on first use", func() {
		registry := prometheus.NewRegistry()
		meter, err := observe.NewPrometheusMeter(registry)
		Expect(err).ToNot(HaveOccurred())

		counter := meter.Counter("wal_records_appended_total", map[string]string{"node": "1"})
		counter.Add(3)

		families, err := registry.Gather()
		Expect(err).ToNot(HaveOccurred())

		var found bool
		for _, f := range families {
			if f.GetName() == "wal_records_appended_total" {
				found = true
				Expect(f.GetMetric()[0].GetCounter().GetValue()).To(Equal(3.0))
			}
		}
		Expect(found).To(BeTrue())
	})

	It("falls back to a no-op handle when a metric name collides", func() {
		registry := prometheus.NewRegistry()
		meter, err := observe.NewPrometheusMeter(registry)
		Expect(err).ToNot(HaveOccurred())

		existing := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "wal_rollover_duration_seconds"}, nil)
		Expect(registry.Register(existing)).To(Succeed())

		counter := meter.Counter("wal_rollover_duration_seconds", nil)
		Expect(func() { counter.Add(1) }).ToNot(Panic())
	})
})

var _ = Describe("NoopMeter", func() {
	It("discards everything without panicking", func() {
		var meter observe.Meter = observe.NoopMeter{}
		meter.Counter("x", nil).Add(1)
		meter.Gauge("x", nil).Set(1)
		meter.Histogram("x", nil).Observe(1)
		meter.Event(observe.Event{Kind: observe.EventFsync})
	})
})
