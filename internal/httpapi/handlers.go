// Package httpapi wires Sentra's HTTP surface: POST /validate,
// POST /analyze-tool-execution, GET /healthz, GET /metrics, plus the
// middleware chain that fronts them (spec.md §6, SPEC_FULL.md §4.10).
// Grounded on _examples/streamspace-dev-streamspace/api's gin router and
// internal/middleware layout.
package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/N3mes1s/sentra/internal/apierrors"
	"github.com/N3mes1s/sentra/internal/evalctx"
	"github.com/N3mes1s/sentra/internal/metrics"
	"github.com/N3mes1s/sentra/internal/pipeline"
	"github.com/N3mes1s/sentra/internal/telemetry"
	"github.com/N3mes1s/sentra/internal/validator"
)

// Server bundles the collaborators the HTTP handlers need: the pipeline,
// the telemetry sink, the metrics registry, and build metadata for
// GET /healthz.
type Server struct {
	Pipeline  *pipeline.Pipeline
	Telemetry *telemetry.Sink
	Metrics   *metrics.Registry
	Log       zerolog.Logger

	Version    string
	PluginCount int
	BudgetMs    int
}

// analyzeRequestBody mirrors evalctx.Request's wire shape, with validator
// tags enforcing spec.md §8's "empty userMessage -> errorCode 4002" rule.
type analyzeRequestBody struct {
	PlannerContext struct {
		UserMessage string `json:"userMessage" validate:"required"`
	} `json:"plannerContext" validate:"required"`
	ToolDefinition struct {
		Name string `json:"name" validate:"required"`
	} `json:"toolDefinition" validate:"required"`
	InputValues           map[string]any                `json:"inputValues"`
	ConversationMetadata *evalctx.ConversationMetadata `json:"conversationMetadata"`
}

func (b *analyzeRequestBody) toRequest(raw map[string]any) *evalctx.Request {
	return &evalctx.Request{
		PlannerContext:       evalctx.PlannerContext{UserMessage: b.PlannerContext.UserMessage},
		ToolDefinition:        evalctx.ToolDefinition{Name: b.ToolDefinition.Name},
		InputValues:           b.InputValues,
		ConversationMetadata: b.ConversationMetadata,
		Raw:                   raw,
	}
}

// requireAPIVersion enforces errorCode 4000 for a missing api-version query
// parameter (spec.md §6, §8). Unknown values are accepted and logged.
func requireAPIVersion(c *gin.Context, log zerolog.Logger) bool {
	v := c.Query("api-version")
	if v == "" {
		apierrors.Abort(c, apierrors.MissingAPIVersion())
		return false
	}
	log.Debug().Str("api_version", v).Msg("request api-version")
	return true
}

// Validate implements POST /validate: a lightweight availability probe used
// by collaborators before sending real traffic (spec.md §6).
func (s *Server) Validate(c *gin.Context) {
	if !requireAPIVersion(c, s.Log) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"isSuccessful": true, "status": "ok"})
}

// AnalyzeToolExecution implements POST /analyze-tool-execution: binds and
// validates the request, runs it through the plugin pipeline, records
// telemetry, and returns the outward AnalyzeResponse (spec.md §6).
func (s *Server) AnalyzeToolExecution(c *gin.Context) {
	if !requireAPIVersion(c, s.Log) {
		return
	}

	raw, err := readRawDocument(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.Abort(c, apierrors.PayloadTooLarge(tooLarge.Limit))
			return
		}
		apierrors.Abort(c, apierrors.MissingField("body"))
		return
	}

	var body analyzeRequestBody
	if !validator.BindAndValidate(c, &body) {
		return
	}

	req := body.toRequest(raw)
	correlationID := correlationIDFrom(c)

	rec := s.Pipeline.Run(req, correlationID)
	s.Telemetry.Record(rec, body)

	c.JSON(http.StatusOK, rec.Outward())
}

// Healthz implements GET /healthz (spec.md §6).
func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"version":     s.Version,
		"pluginCount": s.PluginCount,
		"budgetMs":    s.BudgetMs,
	})
}

// Metrics implements GET /metrics via promhttp exposition against the
// private registry (SPEC_FULL.md §4.14).
func (s *Server) Metrics(c *gin.Context) {
	s.Metrics.RefreshUptime()
	promhttp.HandlerFor(s.Metrics.Gatherer(), promhttp.HandlerOpts{}).ServeHTTP(c.Writer, c.Request)
}

// readRawDocument captures the full decoded request body, unknown fields
// included, before BindAndValidate consumes it, so evalctx.Request.Raw can
// carry the whole original document through to the external-HTTP plugin's
// templates (spec.md §3 "unknown fields are preserved as opaque JSON"). The
// body is restored onto c.Request so the subsequent ShouldBindJSON call
// still sees it. A malformed or non-object body is left for BindAndValidate
// to reject through the normal errorCode=4002 path.
func readRawDocument(c *gin.Context) (map[string]any, error) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(data))

	if len(data) == 0 {
		return nil, nil
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil
	}
	return raw, nil
}

func correlationIDFrom(c *gin.Context) string {
	if v, exists := c.Get("correlation_id"); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// ShutdownGrace is how long the HTTP server waits for in-flight requests to
// finish during graceful shutdown (cmd/sentra).
const ShutdownGrace = 30 * time.Second
