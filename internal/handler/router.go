package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/course-feedback-api/internal/action"
	"github.com/noah-isme/course-feedback-api/internal/middleware"
	"github.com/noah-isme/course-feedback-api/internal/service"
	"github.com/noah-isme/course-feedback-api/pkg/config"
	"github.com/noah-isme/course-feedback-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-feedback-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-feedback-api/pkg/middleware/requestid"
)

// RouterDeps collects what the HTTP surface is built from.
type RouterDeps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *service.MetricsService
	Tokens   middleware.TokenValidator
	Executor *action.Executor
	Actions  action.Deps
	DB       Pinger
}

// NewRouter assembles the gin engine: ambient middleware, probes, docs and every action route.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(deps.Metrics, cfg.Metrics.Path, "/health", "/ready"))
	}

	metricsHandler := NewMetricsHandler(deps.Metrics, deps.DB)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, metricsHandler.Prometheus)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Authenticate(deps.Tokens, middleware.BackdoorKeys{
		Key:     cfg.Backdoor.Key,
		CSRFKey: cfg.Backdoor.CSRFKey,
	}))
	NewActionHandler(deps.Executor, deps.Actions, action.Routes()).Register(api)

	return r
}
