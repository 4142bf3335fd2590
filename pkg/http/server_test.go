package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"FarmYield/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routes struct{}

func (routes) RegisterRoutes(e *echo.Echo) {
	e.GET("/ok", func(c echo.Context) error { return SuccessResponse(c, "fine") })
	e.GET("/boom", func(c echo.Context) error { panic("boom") })
	e.GET("/gone", func(c echo.Context) error {
		return AppErrorResponse(c, ServiceUnavailableError("ERR_CHAIN_UNAVAILABLE", "rpc down"))
	})
}

type denyAfter struct{ left int }

func (d *denyAfter) Allow(string, float64, float64) bool {
	d.left--
	return d.left >= 0
}

func serve(s *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServerRoutes(t *testing.T) {
	s := NewServer(routes{}, logger.Nop())

	rec := serve(s, "/ok")
	assert.Equal(t, http.StatusOK, rec.Code)
	var body APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 200, body.Status)
	assert.Equal(t, "fine", body.Data)

	rec = serve(s, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":404`)

	rec = serve(s, "/gone")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_CHAIN_UNAVAILABLE")
}

func TestServerRecoversPanics(t *testing.T) {
	s := NewServer(routes{}, logger.Nop())
	rec := serve(s, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServerRateLimit(t *testing.T) {
	s := NewServer(routes{}, logger.Nop(), WithRateLimit(&denyAfter{left: 1}, 1, 1))

	assert.Equal(t, http.StatusOK, serve(s, "/ok").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(s, "/ok").Code)
}

func TestServerMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewServer(routes{}, logger.Nop(), WithMetrics(reg, "/metrics", 0))

	serve(s, "/ok")
	rec := serve(s, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `http_requests_total{method="GET",route="/ok",status="200"} 1`))
}

func TestServerCORSPreflight(t *testing.T) {
	s := NewServer(routes{}, logger.Nop())

	req := httptest.NewRequest(http.MethodOptions, "/ok", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}
