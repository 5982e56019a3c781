package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-feedback-api/internal/service"
)

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()

	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/webapi/course", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/webapi/course?courseid=abc", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	count, err := testutil.GatherAndCount(metrics.Registry(), "http_requests_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	body := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(body, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, strings.Contains(body.Body.String(), `path="/webapi/course"`))
}

type recordedRequest struct {
	method string
	path   string
	status int
}

type fakeRecorder struct {
	requests []recordedRequest
}

func (f *fakeRecorder) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	f.requests = append(f.requests, recordedRequest{method: method, path: path, status: status})
}

func TestMetricsSkipsProbePaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := &fakeRecorder{}

	r := gin.New()
	r.Use(Metrics(recorder, "/metrics", "/health"))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.PUT("/webapi/bin/course", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/health", nil),
		httptest.NewRequest(http.MethodGet, "/metrics", nil),
		httptest.NewRequest(http.MethodPut, "/webapi/bin/course?courseid=x", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	require.Len(t, recorder.requests, 1)
	assert.Equal(t, recordedRequest{method: http.MethodPut, path: "/webapi/bin/course", status: http.StatusNotFound}, recorder.requests[0])
}

func TestMetricsCollapsesUnmatchedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := &fakeRecorder{}

	r := gin.New()
	r.Use(Metrics(recorder))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-login.php", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/.env", nil))

	require.Len(t, recorder.requests, 2)
	for _, req := range recorder.requests {
		assert.Equal(t, "unmatched", req.path)
		assert.Equal(t, http.StatusNotFound, req.status)
	}
}
