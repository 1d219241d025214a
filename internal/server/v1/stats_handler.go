package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arbiter-ai/arbiter/pkg/api"
)

const statsCacheKey = "stats:snapshot"

// HandleStats returns aggregate router and evaluation statistics. Snapshots
// are cached briefly to keep the hot path off the engine locks.
//
// GET /v1/stats
func (h *Handler) HandleStats(c *gin.Context) {
	var cached api.StatsResponse
	if err := h.cache.Get(c.Request.Context(), statsCacheKey, &cached); err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	routerStats := h.router.GetStats()
	evalStats := h.seal.GetStats()

	resp := api.StatsResponse{
		Router: &routerStats,
		Eval:   &evalStats,
	}

	if err := h.cache.Set(c.Request.Context(), statsCacheKey, resp, 15*time.Second); err != nil {
		h.logger.Warn("failed to cache stats snapshot", zap.Error(err))
	}

	c.JSON(http.StatusOK, resp)
}
