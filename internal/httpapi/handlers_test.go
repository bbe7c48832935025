package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/N3mes1s/sentra/internal/evalctx"
	"github.com/N3mes1s/sentra/internal/matcher"
	"github.com/N3mes1s/sentra/internal/metrics"
	"github.com/N3mes1s/sentra/internal/pipeline"
	"github.com/N3mes1s/sentra/internal/plugin"
	"github.com/N3mes1s/sentra/internal/telemetry"
)

type allowAllPlugin struct{}

func (allowAllPlugin) Name() string                             { return "allow_all" }
func (allowAllPlugin) Evaluate(ctx *evalctx.Context) plugin.Outcome { return plugin.Allow() }

type rawCapturingPlugin struct {
	captured *map[string]any
}

func (p rawCapturingPlugin) Name() string { return "raw_capture" }
func (p rawCapturingPlugin) Evaluate(ctx *evalctx.Context) plugin.Outcome {
	*p.captured = ctx.Request.Raw
	return plugin.Allow()
}

type blockAllPlugin struct{}

func (blockAllPlugin) Name() string { return "block_all" }
func (blockAllPlugin) Evaluate(ctx *evalctx.Context) plugin.Outcome {
	return plugin.Block(111, "blocked for test", map[string]any{"plugin": "block_all", "code": "x"})
}

func newTestServer(t *testing.T, plugins []plugin.Plugin) *Server {
	t.Helper()
	reg := metrics.New("test", pipeline.SchemaVersion)
	pl := pipeline.New(plugins, matcher.New(nil, nil, nil), 50*time.Millisecond, 10*time.Millisecond, false, reg, zerolog.Nop())
	sink, err := telemetry.New(telemetry.Config{}, reg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sink.Close() })

	return &Server{
		Pipeline:    pl,
		Telemetry:   sink,
		Metrics:     reg,
		Log:         zerolog.Nop(),
		Version:     "test-version",
		PluginCount: len(plugins),
		BudgetMs:    50,
	}
}

func newTestRouter(t *testing.T, plugins []plugin.Plugin) *gin.Engine {
	t.Helper()
	s := newTestServer(t, plugins)
	return NewRouter(s, RouterConfig{MaxRequestBytes: 1 << 20}, zerolog.Nop())
}

func TestValidate_RequiresAPIVersion(t *testing.T) {
	r := newTestRouter(t, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/validate", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"errorCode":4000`)
}

func TestValidate_SucceedsWithAPIVersion(t *testing.T) {
	r := newTestRouter(t, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/validate?api-version=2024-01-01", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isSuccessful":true`)
}

func TestAnalyzeToolExecution_AllowsCleanRequest(t *testing.T) {
	r := newTestRouter(t, []plugin.Plugin{allowAllPlugin{}})
	body := `{"plannerContext":{"userMessage":"hi"},"toolDefinition":{"name":"noop"}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze-tool-execution?api-version=2024-01-01", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp pipeline.AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.BlockAction)
}

func TestAnalyzeToolExecution_BlocksAndReturnsReason(t *testing.T) {
	r := newTestRouter(t, []plugin.Plugin{blockAllPlugin{}})
	body := `{"plannerContext":{"userMessage":"hi"},"toolDefinition":{"name":"noop"}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze-tool-execution?api-version=2024-01-01", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp pipeline.AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.BlockAction)
	assert.Equal(t, uint32(111), resp.ReasonCode)
	assert.Equal(t, "block_all", resp.BlockedBy)
}

func TestAnalyzeToolExecution_MissingUserMessageRejected(t *testing.T) {
	r := newTestRouter(t, []plugin.Plugin{allowAllPlugin{}})
	body := `{"plannerContext":{"userMessage":""},"toolDefinition":{"name":"noop"}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze-tool-execution?api-version=2024-01-01", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"errorCode":4002`)
}

func TestAnalyzeToolExecution_PreservesRawDocumentForPlugins(t *testing.T) {
	var captured map[string]any
	r := newTestRouter(t, []plugin.Plugin{rawCapturingPlugin{captured: &captured}})
	body := `{"plannerContext":{"userMessage":"hi"},"toolDefinition":{"name":"noop"},"sessionId":"abc-123"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze-tool-execution?api-version=2024-01-01", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "abc-123", captured["sessionId"])
}

func TestAnalyzeToolExecution_OversizedBodyReportsPayloadTooLarge(t *testing.T) {
	s := newTestServer(t, []plugin.Plugin{allowAllPlugin{}})
	r := NewRouter(s, RouterConfig{MaxRequestBytes: 10}, zerolog.Nop())

	body := `{"plannerContext":{"userMessage":"this body is definitely longer than ten bytes"},"toolDefinition":{"name":"noop"}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze-tool-execution?api-version=2024-01-01", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), `"errorCode":4001`)
}

func TestHealthz_ReportsVersionAndPluginCount(t *testing.T) {
	r := newTestRouter(t, []plugin.Plugin{allowAllPlugin{}})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "test-version", body["version"])
	assert.Equal(t, float64(1), body["pluginCount"])
}

func TestMetrics_ExposesPrometheusFormat(t *testing.T) {
	r := newTestRouter(t, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sentra_requests_total")
}
