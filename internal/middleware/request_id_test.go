package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCorrelationID_EchoesSuppliedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CorrelationID())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, GetCorrelationID(c))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(CorrelationIDHeader, "caller-id-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "caller-id-123", w.Body.String())
	assert.Equal(t, "caller-id-123", w.Header().Get(CorrelationIDHeader))
}

func TestCorrelationID_AbsentHeaderLeavesEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CorrelationID())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, GetCorrelationID(c))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, "", w.Body.String())
	assert.Equal(t, "", w.Header().Get(CorrelationIDHeader))
}
