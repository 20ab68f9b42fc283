package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"docintake/internal/shared/telemetry"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	telemetry.Replace(zap.New(core))
	t.Cleanup(func() { telemetry.Replace(nil) })
	return logs
}

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := observeLogs(t)

	router := gin.New()
	router.Use(RequestID(), Logging())
	router.GET("/documents/:id", func(c *gin.Context) {
		c.Set("documentId", int64(7))
		c.JSON(http.StatusOK, gin.H{"id": 7})
	})

	req := httptest.NewRequest(http.MethodGet, "/documents/7", nil)
	req.Header.Set("X-Request-Id", "req-123")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	entries := logs.FilterMessage("request.complete").AllUntimed()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	for _, key := range []string{"request_id", "method", "path", "status", "duration_ms", "client_ip", "document_id"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, int64(7), fields["document_id"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "req-123", resp.Header().Get("X-Request-Id"))
}

func TestLoggingSkipsPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := observeLogs(t)

	router := gin.New()
	router.Use(Logging())
	router.OPTIONS("/upload", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodOptions, "/upload", nil))

	assert.Zero(t, logs.Len())
}

func TestRecoveryReturnsStandardError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := observeLogs(t)

	router := gin.New()
	router.Use(RequestID(), Recovery())
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.JSONEq(t, `{"error":{"code":"internal_error","message":"Unexpected server error"}}`, resp.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic").Len())
}
