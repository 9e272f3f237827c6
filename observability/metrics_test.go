package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_RegistersEveryCollector(t *testing.T) {
	req := require.New(t)
	reg := prometheus.NewRegistry()

	// Given fresh metrics with one observation each
	m := NewMetrics(reg)
	m.ThreadsBuilt.Inc()
	m.ExcludedMessages.WithLabelValues(ReasonOrphan).Add(2)
	m.CacheHits.Inc()
	m.CacheMisses.Inc()
	m.RequestDuration.WithLabelValues("/chatthread.v1.ThreadService/GetThread").Observe(0.01)

	// When gathering
	families, err := reg.Gather()
	req.NoError(err)

	// Then every family is exported
	names := make(map[string]float64)
	for _, f := range families {
		metric := f.GetMetric()[0]
		switch {
		case metric.GetGauge() != nil:
			names[f.GetName()] = metric.GetGauge().GetValue()
		case metric.GetCounter() != nil:
			names[f.GetName()] = metric.GetCounter().GetValue()
		default:
			names[f.GetName()] = float64(metric.GetHistogram().GetSampleCount())
		}
	}
	req.Equal(float64(1), names["chatthread_threads_built_total"])
	req.Equal(float64(2), names["chatthread_excluded_messages_total"])
	req.Equal(float64(1), names["chatthread_thread_cache_hits_total"])
	req.Equal(float64(1), names["chatthread_thread_cache_misses_total"])
	req.Equal(float64(1), names["chatthread_grpc_request_duration_seconds"])
}

func TestNewMetrics_DoubleRegistrationPanics(t *testing.T) {
	req := require.New(t)
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	req.Panics(func() { NewMetrics(reg) })
}
