package query

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments the query client. Register it once per process;
// tests pass their own registry.
type Metrics struct {
	Requests   *prometheus.CounterVec
	CacheHits  *prometheus.CounterVec
	DedupJoins *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewMetrics builds and registers the collectors on reg. A nil reg
// registers nothing, which keeps unit tests free of global state.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "afs_query_requests_total",
			Help: "Outbound search API requests by endpoint and result.",
		}, []string{"endpoint", "result"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "afs_query_cache_hits_total",
			Help: "Responses served from the TTL cache.",
		}, []string{"endpoint"}),
		DedupJoins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "afs_query_dedup_joins_total",
			Help: "Callers joined onto an already in-flight request.",
		}, []string{"endpoint"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "afs_query_duration_seconds",
			Help:    "Search API request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}

	if reg != nil {
		reg.MustRegister(m.Requests, m.CacheHits, m.DedupJoins, m.Duration)
	}
	return m
}
