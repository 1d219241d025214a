package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arbiter-ai/arbiter/internal/core/domain"
	"github.com/arbiter-ai/arbiter/pkg/api"
)

// HandleEvaluate scores an existing request/response pair against the
// registered metrics.
//
// POST /v1/evaluations
func (h *Handler) HandleEvaluate(c *gin.Context) {
	var req api.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.ValidationError(h.validator.ParseError(err)))
		return
	}

	result, err := h.seal.Evaluate(c.Request.Context(), req.RequestID, req.Input, req.Output, req.GroundTruth, req.Metrics)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleGetEvaluation fetches one stored evaluation by ID.
//
// GET /v1/evaluations/:id
func (h *Handler) HandleGetEvaluation(c *gin.Context) {
	result, ok := h.seal.GetEvaluation(c.Param("id"))
	if !ok {
		_ = c.Error(domain.NotFoundError("evaluation not found"))
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleCheckSafety runs the registered safety checks over raw text.
//
// POST /v1/safety/check
func (h *Handler) HandleCheckSafety(c *gin.Context) {
	var req api.CheckTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.ValidationError(h.validator.ParseError(err)))
		return
	}
	c.JSON(http.StatusOK, h.seal.CheckSafety(req.Text))
}

// HandleDetectBias runs the registered bias detectors over raw text.
//
// POST /v1/bias/detect
func (h *Handler) HandleDetectBias(c *gin.Context) {
	var req api.CheckTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.ValidationError(h.validator.ParseError(err)))
		return
	}
	c.JSON(http.StatusOK, h.seal.DetectBias(req.Text))
}
