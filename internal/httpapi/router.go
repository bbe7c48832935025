package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/N3mes1s/sentra/internal/apierrors"
	"github.com/N3mes1s/sentra/internal/middleware"
)

// defaultRequestTimeout bounds the whole HTTP round trip when RouterConfig
// doesn't set one explicitly.
const defaultRequestTimeout = 5 * time.Second

// RouterConfig carries the HTTP-layer settings resolved from config.Record
// (SPEC_FULL.md §4.10).
type RouterConfig struct {
	StrictAuth              bool
	StrictAuthAllowedTokens []string
	MaxRequestBytes         int64
	RequestTimeout          time.Duration
}

// NewRouter builds the gin engine: middleware chain first, then routes.
// Middleware order matches SPEC_FULL.md §4.10: correlation id, access
// logging, panic recovery, request timeout, request-size limiting, strict
// auth, security headers.
func NewRouter(s *Server, cfg RouterConfig, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	r.Use(
		middleware.CorrelationID(),
		middleware.AccessLog(log),
		apierrors.Recovery(log),
		middleware.Timeout(requestTimeout),
		middleware.RequestSizeLimiter(cfg.MaxRequestBytes),
		middleware.StrictAuth(cfg.StrictAuth, cfg.StrictAuthAllowedTokens),
		middleware.SecurityHeaders(),
	)

	r.POST("/validate", s.Validate)
	r.POST("/analyze-tool-execution", s.AnalyzeToolExecution)
	r.GET("/healthz", s.Healthz)
	r.GET("/metrics", s.Metrics)

	return r
}
