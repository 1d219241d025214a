package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arbiter-ai/arbiter/pkg/api"
)

// HandleHealth reports liveness.
//
// GET /health
func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}
