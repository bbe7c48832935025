package pipeline

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/N3mes1s/sentra/internal/evalctx"
	"github.com/N3mes1s/sentra/internal/matcher"
	"github.com/N3mes1s/sentra/internal/metrics"
	"github.com/N3mes1s/sentra/internal/plugin"
)

// SchemaVersion is the fixed telemetry schema version (spec.md §6).
const SchemaVersion = 1

// Pipeline holds the ordered plugin chain and the collaborators every run
// reports into.
type Pipeline struct {
	Plugins      []plugin.Plugin
	Matchers     *matcher.Matchers
	PluginBudget time.Duration
	PluginWarn   time.Duration
	AuditOnly    bool
	Metrics      *metrics.Registry
	Log          zerolog.Logger
}

// New builds a Pipeline from a resolved plugin order.
func New(plugins []plugin.Plugin, matchers *matcher.Matchers, pluginBudget, pluginWarn time.Duration, auditOnly bool, reg *metrics.Registry, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		Plugins:      plugins,
		Matchers:     matchers,
		PluginBudget: pluginBudget,
		PluginWarn:   pluginWarn,
		AuditOnly:    auditOnly,
		Metrics:      reg,
		Log:          log,
	}
}

// Run evaluates req through the configured plugin chain and returns the
// full decision record (spec.md §4.6).
func (p *Pipeline) Run(req *evalctx.Request, correlationID string) *DecisionRecord {
	start := time.Now()
	ctx := evalctx.New(req, correlationID, p.PluginBudget, p.Matchers)

	rec := &DecisionRecord{
		SchemaVersion: SchemaVersion,
		Ts:            start.UTC().Format(time.RFC3339),
		CorrelationID: correlationID,
		PluginTimings: make([]PluginTiming, 0, len(p.Plugins)),
	}

	for _, plg := range p.Plugins {
		pluginStart := time.Now()
		outcome := p.evaluateSafely(plg, ctx)
		elapsed := time.Since(pluginStart)

		rec.PluginTimings = append(rec.PluginTimings, PluginTiming{
			Plugin: plg.Name(),
			Ms:     elapsed.Milliseconds(),
		})
		if p.PluginWarn > 0 && elapsed > p.PluginWarn {
			p.Log.Warn().
				Str("plugin", plg.Name()).
				Int64("elapsed_ms", elapsed.Milliseconds()).
				Str("correlation_id", correlationID).
				Msg("plugin evaluation exceeded warn threshold")
		}
		metrics.ObserveLatency(p.Metrics.PluginLatencyMs.WithLabelValues(plg.Name()), elapsed)
		p.Metrics.PluginEvalMsSum.WithLabelValues(plg.Name()).Add(float64(elapsed.Milliseconds()))
		p.Metrics.PluginEvalMsCount.WithLabelValues(plg.Name()).Inc()

		if outcome.Blocked {
			rec.BlockAction = true
			rec.ReasonCode = outcome.ReasonCode
			rec.Reason = outcome.Reason
			rec.BlockedBy = plg.Name()
			rec.Diagnostics = outcome.Diagnostics
			p.Metrics.PluginBlocksTotal.WithLabelValues(plg.Name()).Inc()
			break
		}
	}

	rec.LatencyMs = time.Since(start).Milliseconds()
	if ctx.DeadlineExceeded() {
		p.Log.Warn().Str("correlation_id", correlationID).Msg("plugin budget exceeded")
	}

	if p.AuditOnly && rec.BlockAction {
		rec.AuditSuppressed = true
		p.Metrics.AuditSuppressedTotal.Inc()
	}

	p.Metrics.RequestsTotal.Inc()
	if rec.BlockAction {
		p.Metrics.BlocksTotal.Inc()
	}
	metrics.ObserveLatency(p.Metrics.RequestLatencyMs, time.Since(start))

	return rec
}

// evaluateSafely recovers from a plugin panic, converting it to Allow for
// availability (spec.md §4.6, §7); the pipeline must never 5xx because one
// plugin misbehaved.
func (p *Pipeline) evaluateSafely(plg plugin.Plugin, ctx *evalctx.Context) (outcome plugin.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			p.Log.Error().
				Str("plugin", plg.Name()).
				Interface("panic", r).
				Msg("plugin panicked, converting to allow")
			p.Metrics.PluginErrorsTotal.WithLabelValues(plg.Name()).Inc()
			outcome = plugin.Allow()
		}
	}()
	return plg.Evaluate(ctx)
}
