package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestNew_RegistersBuildInfo(t *testing.T) {
	r := New("v1.2.3", 1)
	families, err := r.Gatherer().Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "sentra_build_info" {
			found = true
		}
	}
	require.True(t, found)
}

func TestRegistry_CountersIncrement(t *testing.T) {
	r := New("v1", 1)
	r.RequestsTotal.Inc()
	r.RequestsTotal.Inc()
	require.Equal(t, float64(2), counterValue(t, r.RequestsTotal))
}

func TestRefreshUptime_Advances(t *testing.T) {
	r := New("v1", 1)
	r.RefreshUptime()
	var m dto.Metric
	require.NoError(t, r.ProcessUptimeSeconds.Write(&m))
	first := m.GetGauge().GetValue()

	time.Sleep(5 * time.Millisecond)
	r.RefreshUptime()
	require.NoError(t, r.ProcessUptimeSeconds.Write(&m))
	require.GreaterOrEqual(t, m.GetGauge().GetValue(), first)
}

func TestObserveLatency_TruncatesToWholeMilliseconds(t *testing.T) {
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "test_truncation_ms",
		Buckets: LatencyBucketsMs,
	})
	ObserveLatency(h, 1999*time.Microsecond) // 1.999ms truncates to 1ms

	var m dto.Metric
	require.NoError(t, h.Write(&m))
	require.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
	require.Equal(t, float64(1), m.GetHistogram().GetSampleSum())
}
