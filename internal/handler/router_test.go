package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/noah-isme/course-feedback-api/internal/action"
	"github.com/noah-isme/course-feedback-api/internal/service"
	"github.com/noah-isme/course-feedback-api/pkg/config"
)

func newTestRouterConfig() *config.Config {
	return &config.Config{
		Env:       config.EnvDevelopment,
		APIPrefix: "/webapi",
		Backdoor:  config.BackdoorConfig{Key: "bk", CSRFKey: "ck"},
		Metrics:   config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func TestRouterServesProbesAndRejectsAnonymousActions(t *testing.T) {
	metrics := service.NewMetricsService()
	auth := service.NewAuthService(nil, zap.NewNop(), service.AuthConfig{Secret: "s"})
	r := NewRouter(RouterDeps{
		Config:   newTestRouterConfig(),
		Logger:   zap.NewNop(),
		Metrics:  metrics,
		Tokens:   auth,
		Executor: action.NewExecutor(nil, metrics, zap.NewNop()),
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/webapi/bin/course?courseid=c1", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/webapi/bin/course", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "action_executions_total")
}
