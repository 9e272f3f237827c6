package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "chatthread"

const (
	ReasonOrphan = "orphan"
	ReasonCycle  = "cycle"
)

// Metrics groups every collector exported by the service.
type Metrics struct {
	ThreadsBuilt     prometheus.Counter
	ExcludedMessages *prometheus.CounterVec
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	RequestDuration  *prometheus.HistogramVec
	ChannelLength    *prometheus.GaugeVec
	ChannelCapacity  *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ThreadsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "threads_built_total",
			Help:      "Number of thread forests built from storage.",
		}),
		ExcludedMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "excluded_messages_total",
			Help:      "Messages left out of a thread, by reason.",
		}, []string{"reason"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "thread_cache_hits_total",
			Help:      "Thread lookups served from the cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "thread_cache_misses_total",
			Help:      "Thread lookups that had to rebuild the forest.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "grpc_request_duration_seconds",
			Help:      "Duration of unary gRPC calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		ChannelLength: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "channel_length",
			Help:      "Buffered items waiting in an internal channel.",
		}, []string{"channel"}),
		ChannelCapacity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "channel_capacity",
			Help:      "Buffer size of an internal channel.",
		}, []string{"channel"}),
	}
	reg.MustRegister(m.ThreadsBuilt, m.ExcludedMessages, m.CacheHits, m.CacheMisses,
		m.RequestDuration, m.ChannelLength, m.ChannelCapacity)
	return m
}
