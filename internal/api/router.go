package api

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/nfsindex/config"
	"github.com/guttosm/nfsindex/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter builds the gin engine serving /api/v1, /metrics and /swagger.
// Middlewares run in order: request id, request log, metrics, recovery,
// error handler, per-IP rate limit, then the per-request timeout from cfg.
// /healthz and /readyz are mounted by app.InitializeApp.
func NewRouter(handler *Handler, cfg config.ServerConfig) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.RateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		middleware.Timeout(cfg.RequestTimeout),
	)

	// ─── Swagger / Metrics ────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1")
	{
		v1.GET("/models", handler.GetModels)
		v1.GET("/listings", handler.GetListings)
		v1.GET("/analytics/trends", handler.GetTrends)
		v1.GET("/analytics/stats", handler.GetStats)
		v1.GET("/dashboard", handler.GetDashboard)

		sessions := v1.Group("/sessions")
		sessions.POST("", handler.CreateSession)
		sessions.GET("/:id", handler.GetSession)
		sessions.PUT("/:id/model", handler.SelectModel)
		sessions.PUT("/:id/trim", handler.SetTrim)
		sessions.DELETE("/:id", handler.DeleteSession)
	}

	return router
}
