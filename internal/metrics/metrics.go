// Package metrics wraps a private Prometheus registry holding exactly the
// counters, histograms, and gauges enumerated in spec.md §6. A private
// registry (rather than the global default) keeps cardinality bounded and
// makes the registry trivially constructible in tests. Grounded on
// github.com/prometheus/client_golang, required directly by
// _examples/jordigilh-kubernaut/go.mod and
// _examples/rshade-pulumicost-core/go.mod.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LatencyBucketsMs is the fixed cumulative bucket set shared by every
// latency histogram (spec.md §4.8): 1, 2, 5, 10, 20, 50, 100, 200, 500,
// 1000, 2000, +∞ milliseconds.
var LatencyBucketsMs = []float64{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000}

// Registry bundles every metric Sentra exposes on GET /metrics.
type Registry struct {
	reg *prometheus.Registry

	RequestsTotal            prometheus.Counter
	BlocksTotal               prometheus.Counter
	AuditSuppressedTotal      prometheus.Counter
	TelemetryLinesTotal       prometheus.Counter
	TelemetryWriteErrorsTotal prometheus.Counter
	PluginErrorsTotal         *prometheus.CounterVec

	PluginBlocksTotal   *prometheus.CounterVec
	PluginEvalMsSum     *prometheus.CounterVec
	PluginEvalMsCount   *prometheus.CounterVec

	RequestLatencyMs prometheus.Histogram
	PluginLatencyMs  *prometheus.HistogramVec

	BuildInfo             *prometheus.GaugeVec
	ProcessStartTime      prometheus.Gauge
	ProcessUptimeSeconds  prometheus.Gauge
	LogFileSizeBytes      prometheus.Gauge

	startTime time.Time
}

// New builds and registers every metric against a fresh, private registry.
func New(version string, schemaVersion int) *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		RequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentra_requests_total",
			Help: "Total number of analyze-tool-execution decisions made.",
		}),
		BlocksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentra_blocks_total",
			Help: "Total number of decisions that blocked the tool call.",
		}),
		AuditSuppressedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentra_audit_suppressed_total",
			Help: "Total number of blocks suppressed by audit-only mode.",
		}),
		TelemetryLinesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentra_telemetry_lines_total",
			Help: "Total number of telemetry lines written.",
		}),
		TelemetryWriteErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentra_telemetry_write_errors_total",
			Help: "Total number of telemetry/audit line write failures.",
		}),
		PluginErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentra_plugin_errors_total",
			Help: "Total number of plugin panics/errors converted to Allow.",
		}, []string{"plugin"}),
		PluginBlocksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentra_plugin_blocks_total",
			Help: "Total number of blocks attributed to each plugin.",
		}, []string{"plugin"}),
		PluginEvalMsSum: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentra_plugin_eval_ms_sum",
			Help: "Cumulative plugin evaluation time in milliseconds.",
		}, []string{"plugin"}),
		PluginEvalMsCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentra_plugin_eval_ms_count",
			Help: "Number of plugin evaluations observed.",
		}, []string{"plugin"}),
		RequestLatencyMs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentra_request_latency_ms",
			Help:    "End-to-end pipeline latency in milliseconds.",
			Buckets: LatencyBucketsMs,
		}),
		PluginLatencyMs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sentra_plugin_latency_ms",
			Help:    "Per-plugin evaluation latency in milliseconds.",
			Buckets: LatencyBucketsMs,
		}, []string{"plugin"}),
		BuildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sentra_build_info",
			Help: "Always 1; labeled with the running build's version and telemetry schema version.",
		}, []string{"version", "schemaVersion"}),
		ProcessStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentra_process_start_time_seconds",
			Help: "Unix timestamp of process start.",
		}),
		ProcessUptimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentra_process_uptime_seconds",
			Help: "Seconds since process start, refreshed on scrape.",
		}),
		LogFileSizeBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentra_log_file_size_bytes",
			Help: "Current size in bytes of the telemetry file, if configured.",
		}),
		startTime: time.Now(),
	}

	reg.MustRegister(
		r.RequestsTotal, r.BlocksTotal, r.AuditSuppressedTotal,
		r.TelemetryLinesTotal, r.TelemetryWriteErrorsTotal,
		r.PluginErrorsTotal, r.PluginBlocksTotal, r.PluginEvalMsSum, r.PluginEvalMsCount,
		r.RequestLatencyMs, r.PluginLatencyMs,
		r.BuildInfo, r.ProcessStartTime, r.ProcessUptimeSeconds, r.LogFileSizeBytes,
	)

	r.BuildInfo.WithLabelValues(version, strconv.Itoa(schemaVersion)).Set(1)
	r.ProcessStartTime.Set(float64(r.startTime.Unix()))

	return r
}

// Gatherer exposes the underlying registry for promhttp exposition.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// RefreshUptime updates the uptime gauge; called on every /metrics scrape.
func (r *Registry) RefreshUptime() {
	r.ProcessUptimeSeconds.Set(time.Since(r.startTime).Seconds())
}

// ObserveLatency truncates d to whole milliseconds (not rounds) before
// observing, per spec.md §4.8.
func ObserveLatency(h prometheus.Histogram, d time.Duration) {
	h.Observe(float64(d.Milliseconds()))
}

