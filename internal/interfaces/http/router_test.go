package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appprom "github.com/scholarfinder/engine/internal/infrastructure/monitoring/prometheus"
	"github.com/scholarfinder/engine/internal/interfaces/http/handlers"
	"github.com/scholarfinder/engine/pkg/errors"
)

func TestRouterHealthEndpoints(t *testing.T) {
	healthy := handlers.PingFunc(func(context.Context) error { return nil })
	router := NewRouter(RouterConfig{
		HealthHandler: handlers.NewHealthHandler(map[string]handlers.Pinger{"postgres": healthy}, nil),
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterReadinessDegradesWhenComponentDown(t *testing.T) {
	down := handlers.PingFunc(func(context.Context) error {
		return errors.New(errors.ErrCodeDatabaseError, "connection refused")
	})
	router := NewRouter(RouterConfig{
		HealthHandler: handlers.NewHealthHandler(map[string]handlers.Pinger{"postgres": down}, nil),
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouterServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := appprom.NewAppMetrics(reg)
	router := NewRouter(RouterConfig{
		Metrics:         metrics,
		MetricsGatherer: reg,
	})

	// Drive one request through the middleware so a series exists.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "scholar_http_requests_total")
}

func TestRouterEchoesRequestID(t *testing.T) {
	router := NewRouter(RouterConfig{})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
