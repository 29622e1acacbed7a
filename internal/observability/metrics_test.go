package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/test")

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTeapot, rr.Code)

	body := scrape(t, metrics)
	assert.Contains(t, body, `devconnect_http_requests_total{code="418",route="/test"} 1`)
	assert.Contains(t, body, `devconnect_http_request_duration_seconds_bucket{route="/test"`)
}

func TestTaskMiddlewareCountsOutcomes(t *testing.T) {
	metrics := NewMetrics()

	ok := metrics.TaskMiddleware(asynq.HandlerFunc(func(context.Context, *asynq.Task) error { return nil }))
	failing := metrics.TaskMiddleware(asynq.HandlerFunc(func(context.Context, *asynq.Task) error { return errors.New("boom") }))

	task := asynq.NewTask("posts:purge_user", nil)
	require.NoError(t, ok.ProcessTask(context.Background(), task))
	require.Error(t, failing.ProcessTask(context.Background(), task))

	body := scrape(t, metrics)
	assert.Contains(t, body, `devconnect_jobs_total{outcome="ok",task="posts:purge_user"} 1`)
	assert.Contains(t, body, `devconnect_jobs_total{outcome="error",task="posts:purge_user"} 1`)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	assert.NotNil(t, m.Middleware(next))

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
