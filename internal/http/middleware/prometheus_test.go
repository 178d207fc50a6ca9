package middleware

import (
	"net/http"
	"strings"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetricsApp(t *testing.T, skip ...string) (*fiber.App, *PrometheusMiddleware, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMiddleware(reg, skip...)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(m.Handler())
	return app, m, reg
}

func TestPrometheusMiddleware(t *testing.T) {
	app, m, _ := newMetricsApp(t)

	app.Get("/queues", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Delete("/documents/content/*", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Post("/queues/summaries", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad request")
	})

	for _, r := range []struct{ method, target string }{
		{http.MethodGet, "/queues"},
		{http.MethodDelete, "/documents/content/reports/a.pdf"},
		{http.MethodDelete, "/documents/content/reports/b.pdf"},
		{http.MethodPost, "/queues/summaries"},
	} {
		_, err := app.Test(httptest.NewRequest(r.method, r.target, nil))
		require.NoError(t, err)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/queues", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestCount.WithLabelValues("DELETE", "/documents/content/*", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("POST", "/queues/summaries", "400")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
}

func TestPrometheusMiddleware_LabelsSurviveLaterRequests(t *testing.T) {
	app, m, _ := newMetricsApp(t)
	app.Get("/queues", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Delete("/documents/content/*", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	for _, r := range []struct{ method, target string }{
		{http.MethodGet, "/queues"},
		{http.MethodDelete, "/documents/content/a.pdf"},
	} {
		_, err := app.Test(httptest.NewRequest(r.method, r.target, nil))
		require.NoError(t, err)
	}

	expected := `
# HELP kmapi_http_requests_total Total number of HTTP requests processed.
# TYPE kmapi_http_requests_total counter
kmapi_http_requests_total{method="DELETE",route="/documents/content/*",status="204"} 1
kmapi_http_requests_total{method="GET",route="/queues",status="200"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(m.requestCount, strings.NewReader(expected)))
}

func TestPrometheusMiddleware_SkipPaths(t *testing.T) {
	app, _, reg := newMetricsApp(t, "/metrics")
	app.Get("/metrics", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "kmapi_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestPrometheusMiddleware_UnmatchedRoute(t *testing.T) {
	app, m, _ := newMetricsApp(t)

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/no/such/route", nil))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "unmatched", "404")))
}

func TestPrometheusMiddleware_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	_, err = NewPrometheusMiddleware(reg)
	assert.Error(t, err)
}
