package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arbiter-ai/arbiter/internal/core/domain"
	"github.com/arbiter-ai/arbiter/pkg/api"
)

// HandleRoute returns a routing decision without executing inference.
//
// POST /v1/route
func (h *Handler) HandleRoute(c *gin.Context) {
	var req api.RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.ValidationError(h.validator.ParseError(err)))
		return
	}

	task, err := domain.ParseTaskType(req.TaskType)
	if err != nil {
		_ = c.Error(domain.BadRequestError(err.Error()))
		return
	}

	decision, err := h.router.Route(domain.InferenceRequest{
		TaskType:    task,
		Prompt:      req.Prompt,
		Context:     req.Context,
		Constraints: req.Constraints.ToDomain(),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, decision)
}

// HandleInfer routes, executes inference, and optionally evaluates the reply.
//
// POST /v1/infer
func (h *Handler) HandleInfer(c *gin.Context) {
	var req api.InferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.ValidationError(h.validator.ParseError(err)))
		return
	}

	task, err := domain.ParseTaskType(req.TaskType)
	if err != nil {
		_ = c.Error(domain.BadRequestError(err.Error()))
		return
	}

	resp, err := h.router.Infer(c.Request.Context(), domain.InferenceRequest{
		TaskType:    task,
		Prompt:      req.Prompt,
		Context:     req.Context,
		Constraints: req.Constraints.ToDomain(),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	out := api.InferResponse{Response: resp}

	if req.Evaluate {
		eval, err := h.seal.Evaluate(c.Request.Context(), resp.ID, req.Prompt, resp.Text, req.GroundTruth, req.Metrics)
		if err != nil {
			// inference already succeeded; surface the evaluation problem
			// without discarding the response
			h.logger.Warn("post-inference evaluation failed", zap.Error(err))
		} else {
			out.Evaluation = eval
		}
	}

	c.JSON(http.StatusOK, out)
}
