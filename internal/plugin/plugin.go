// Package plugin defines the uniform capability every Sentra plugin
// implements (spec.md §4.3): given an evaluation context, produce either
// an allow or a block with a structured diagnostic record. The pipeline
// driver (internal/pipeline) only needs first-class values it can iterate
// in configured order — no inheritance or mixins, per spec.md §9.
package plugin

import "github.com/N3mes1s/sentra/internal/evalctx"

// Outcome is the tagged result of a single plugin evaluation.
type Outcome struct {
	Blocked     bool
	ReasonCode  uint32
	Reason      string
	Diagnostics map[string]any
}

// Allow is the zero-value non-blocking outcome.
func Allow() Outcome {
	return Outcome{}
}

// Block builds a blocking outcome. diagnostics must carry at least
// "plugin" and "code" per spec.md §3; callers are expected to set both.
func Block(reasonCode uint32, reason string, diagnostics map[string]any) Outcome {
	return Outcome{
		Blocked:     true,
		ReasonCode:  reasonCode,
		Reason:      reason,
		Diagnostics: diagnostics,
	}
}

// Plugin is the capability every pipeline stage implements.
type Plugin interface {
	// Name returns the plugin's configured identifier, unique within a
	// pipeline (spec.md §3 invariants).
	Name() string

	// Evaluate inspects the evaluation context and returns an outcome.
	// Built-in plugins return synchronously within microseconds; the
	// external-HTTP plugin may block on network I/O up to its configured
	// timeout (spec.md §4.5).
	Evaluate(ctx *evalctx.Context) Outcome
}
