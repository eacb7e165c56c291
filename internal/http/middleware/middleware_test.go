package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(logBuf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	if logBuf != nil {
		r.Use(Logger(slog.New(slog.NewJSONHandler(logBuf, nil))))
	}
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/api/orders/confirmation", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })
	return r
}

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	r := newEngine(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rid := w.Header().Get(HeaderRequestID)
	_, err := uuid.Parse(rid)
	assert.NoError(t, err, "generated id should be a uuid, got %q", rid)
}

func TestRequestIDEchoesPlausibleInboundID(t *testing.T) {
	r := newEngine(nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "edge-proxy-1234")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "edge-proxy-1234", w.Header().Get(HeaderRequestID))
}

func TestRequestIDReplacesOversizedInboundID(t *testing.T) {
	r := newEngine(nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("x", maxInboundIDLen+1))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	rid := w.Header().Get(HeaderRequestID)
	_, err := uuid.Parse(rid)
	assert.NoError(t, err)
}

func TestLoggerLogsRouteNotQuery(t *testing.T) {
	var buf bytes.Buffer
	r := newEngine(&buf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/orders/confirmation?session_id=cs_test_secret123", nil))
	require.Equal(t, http.StatusOK, w.Code)

	out := buf.String()
	assert.Contains(t, out, "/api/orders/confirmation")
	assert.NotContains(t, out, "cs_test_secret123")
}

func TestLoggerSkipsHealthProbes(t *testing.T) {
	var buf bytes.Buffer
	r := newEngine(&buf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Empty(t, buf.String())
}
