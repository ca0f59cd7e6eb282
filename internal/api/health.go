package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nfsindex/internal/logger"
)

// readyTimeout bounds a readiness check.
const readyTimeout = 2 * time.Second

// ReadyFunc reports whether the listing source can serve requests.
type ReadyFunc func(ctx context.Context) error

// HealthHandler serves the liveness and readiness probes. Readiness follows
// the configured data source: the upstream /health endpoint or a db ping.
type HealthHandler struct {
	ready ReadyFunc
}

// NewHealthHandler returns a handler; a nil ready func makes /readyz always succeed.
func NewHealthHandler(ready ReadyFunc) *HealthHandler {
	return &HealthHandler{ready: ready}
}

// Register mounts /healthz and /readyz at the router root.
func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
}

// Liveness godoc
// @Summary      Liveness probe
// @Description  Always returns OK if the process is serving
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness godoc
// @Summary      Readiness probe
// @Description  Returns ready if the data source (listings API or database) is reachable
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.ready == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()
	if err := h.ready(ctx); err != nil {
		log := logger.Component("health")
		log.Warn().Err(err).Msg("data source not ready")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
