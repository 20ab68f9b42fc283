package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newCORSRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS("http://localhost:3000"))
	router.POST("/send-email", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "sent"})
	})
	return router
}

func TestCORSOptionsPreflight(t *testing.T) {
	router := newCORSRouter()

	req := httptest.NewRequest(http.MethodOptions, "/send-email", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "http://localhost:3000", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "POST", resp.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "600", resp.Header().Get("Access-Control-Max-Age"))
}

func TestCORSHeadersOnPost(t *testing.T) {
	router := newCORSRouter()

	req := httptest.NewRequest(http.MethodPost, "/send-email", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "http://localhost:3000", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSRejectsOtherOrigins(t *testing.T) {
	router := newCORSRouter()

	req := httptest.NewRequest(http.MethodPost, "/send-email", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSEmptyOriginAllowsNothing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(""))
	router.GET("/documents", func(c *gin.Context) { c.JSON(http.StatusOK, []string{}) })

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}
