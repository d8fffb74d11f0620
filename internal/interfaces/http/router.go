// Package http builds the REST API surface of the engine: the route tree,
// its middleware chain, and the server lifecycle.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scholarfinder/engine/internal/infrastructure/monitoring/logging"
	"github.com/scholarfinder/engine/internal/interfaces/http/handlers"
	"github.com/scholarfinder/engine/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and infrastructure the route tree
// needs. Nil handlers leave their routes unregistered, which keeps tests
// small and lets a stripped-down deployment omit whole resources.
type RouterConfig struct {
	ReviewerHandler *handlers.ReviewerHandler
	PaperHandler    *handlers.PaperHandler
	HealthHandler   *handlers.HealthHandler

	Logger  logging.Logger
	Metrics middleware.HTTPMetricsCollector

	// MetricsGatherer backs the /metrics scrape endpoint; nil disables it.
	MetricsGatherer prometheus.Gatherer
}

// NewRouter constructs the complete route tree as a ready-to-serve handler.
func NewRouter(cfg RouterConfig) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger, "/healthz", "/readyz", "/metrics"))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsGatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.MetricsGatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api/v1")
	registerReviewerRoutes(api, cfg.ReviewerHandler)
	registerPaperRoutes(api, cfg.PaperHandler)

	return r
}

func registerReviewerRoutes(api *gin.RouterGroup, h *handlers.ReviewerHandler) {
	if h == nil {
		return
	}
	rg := api.Group("/reviewers")
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.POST("/batch", h.BatchCreate)
	rg.POST("/validate", h.Validate)
	rg.POST("/networks", h.AnalyzeNetworks)
	rg.POST("/conflicts", h.DetectConflicts)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/profile", h.Profile)
}

func registerPaperRoutes(api *gin.RouterGroup, h *handlers.PaperHandler) {
	if h == nil {
		return
	}
	pg := api.Group("/papers")
	pg.POST("", h.Create)
	pg.GET("", h.List)
	pg.GET("/:id", h.Get)
	pg.PUT("/:id", h.Update)
	pg.DELETE("/:id", h.Delete)
}
