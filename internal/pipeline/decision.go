// Package pipeline drives the plugin chain: build the evaluation context,
// invoke each configured plugin in order, stop at the first block, apply
// audit suppression, and hand the result to the telemetry sink and metrics
// registry (spec.md §4.6).
package pipeline

// PluginTiming records how long one plugin evaluation took.
type PluginTiming struct {
	Plugin string `json:"plugin"`
	Ms     int64  `json:"ms"`
}

// DecisionRecord is the full internal result of one pipeline run. The
// outward AnalyzeResponse is derived from it after audit suppression is
// applied; the telemetry line is always built from the pre-suppression
// values (spec.md §4.6, §6).
type DecisionRecord struct {
	SchemaVersion   int            `json:"schemaVersion"`
	Ts              string         `json:"ts"`
	CorrelationID   string         `json:"correlationId,omitempty"`
	BlockAction     bool           `json:"blockAction"`
	ReasonCode      uint32         `json:"reasonCode,omitempty"`
	BlockedBy       string         `json:"blockedBy,omitempty"`
	Reason          string         `json:"reason,omitempty"`
	LatencyMs       int64          `json:"latencyMs"`
	Diagnostics     map[string]any `json:"diagnostics,omitempty"`
	PluginTimings   []PluginTiming `json:"pluginTimings"`
	AuditSuppressed bool           `json:"auditSuppressed"`
}

// AnalyzeResponse is the outward wire shape returned from
// POST /analyze-tool-execution (spec.md §6). Null/zero optional fields are
// omitted on the wire.
type AnalyzeResponse struct {
	BlockAction bool           `json:"blockAction"`
	ReasonCode  uint32         `json:"reasonCode,omitempty"`
	Reason      string         `json:"reason,omitempty"`
	BlockedBy   string         `json:"blockedBy,omitempty"`
	Diagnostics map[string]any `json:"diagnostics,omitempty"`
}

// Outward derives the client-facing response from the decision record,
// applying audit suppression: a suppressed block is reported as Allow.
func (d *DecisionRecord) Outward() AnalyzeResponse {
	if d.AuditSuppressed {
		return AnalyzeResponse{BlockAction: false}
	}
	return d.WouldBeOutward()
}

// WouldBeOutward reports the response the pipeline would have returned had
// audit suppression not applied; used to build the audit line's
// wouldResponse field (spec.md §6).
func (d *DecisionRecord) WouldBeOutward() AnalyzeResponse {
	if !d.BlockAction {
		return AnalyzeResponse{BlockAction: false}
	}
	return AnalyzeResponse{
		BlockAction: true,
		ReasonCode:  d.ReasonCode,
		Reason:      d.Reason,
		BlockedBy:   d.BlockedBy,
		Diagnostics: d.Diagnostics,
	}
}
