package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jjfarrow/authgate"
)

// metricsSource is the read side of the engine's counters. Satisfied by
// *authgate.Engine; narrowed to an interface so tests can feed snapshots
// directly.
type metricsSource interface {
	MetricsSnapshot() authgate.MetricsSnapshot
	AuditDropped() uint64
}

// Collector exposes engine counters as Prometheus metrics. Every counter is
// read fresh from the engine on each scrape, so the collector holds no
// state of its own and a single engine can back multiple registries.
type Collector struct {
	source  metricsSource
	descs   map[authgate.MetricID]*prometheus.Desc
	dropped *prometheus.Desc
}

// NewCollector builds a collector over the engine's counter set.
func NewCollector(engine *authgate.Engine) *Collector {
	return newCollector(engine)
}

func newCollector(source metricsSource) *Collector {
	snapshot := source.MetricsSnapshot()
	descs := make(map[authgate.MetricID]*prometheus.Desc, len(snapshot.Counters))
	for id := range snapshot.Counters {
		name := "authgate_" + id.Name() + "_total"
		descs[id] = prometheus.NewDesc(name, "Engine counter "+id.Name()+".", nil, nil)
	}
	return &Collector{
		source: source,
		descs:  descs,
		dropped: prometheus.NewDesc(
			"authgate_audit_dropped_total",
			"Audit events discarded because the dispatcher buffer was full.",
			nil, nil,
		),
	}
}

// Describe implements [prometheus.Collector].
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, desc := range c.descs {
		ch <- desc
	}
	ch <- c.dropped
}

// Collect implements [prometheus.Collector].
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snapshot := c.source.MetricsSnapshot()
	for id, value := range snapshot.Counters {
		desc, ok := c.descs[id]
		if !ok {
			continue
		}
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(value))
	}
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(c.source.AuditDropped()))
}

// Handler registers a collector for the engine on a private registry and
// returns the scrape handler for it.
func Handler(engine *authgate.Engine) (http.Handler, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(NewCollector(engine)); err != nil {
		return nil, err
	}
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil
}
