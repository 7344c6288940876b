// Package prometheus bridges the engine's counter table to Prometheus.
// [NewCollector] wraps an engine as a prometheus.Collector reading a fresh
// snapshot per scrape; [Handler] is the one-call path to a /metrics
// endpoint on a private registry.
package prometheus
