package v1

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arbiter-ai/arbiter/internal/core/domain"
	"github.com/arbiter-ai/arbiter/pkg/api"
)

// HandleListModels returns the full registry.
//
// GET /v1/models
func (h *Handler) HandleListModels(c *gin.Context) {
	models := h.router.ListModels()
	c.JSON(http.StatusOK, api.ModelListResponse{
		Models: models,
		Count:  len(models),
	})
}

// HandleRegisterModel adds or replaces a model descriptor.
//
// POST /v1/models
func (h *Handler) HandleRegisterModel(c *gin.Context) {
	var req api.RegisterModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.ValidationError(h.validator.ParseError(err)))
		return
	}

	desc, err := req.ToDomain()
	if err != nil {
		_ = c.Error(domain.BadRequestError(err.Error()))
		return
	}

	h.router.RegisterModel(desc)
	c.JSON(http.StatusCreated, desc)
}

// HandleCompareModels ranks every capable model for a task without
// executing inference. Results are cached briefly since rankings only
// change on registration.
//
// GET /v1/models/compare?task_type=...&prompt=...
func (h *Handler) HandleCompareModels(c *gin.Context) {
	taskRaw := c.Query("task_type")
	prompt := c.Query("prompt")

	task, err := domain.ParseTaskType(taskRaw)
	if err != nil {
		_ = c.Error(domain.BadRequestError(err.Error()))
		return
	}

	key := compareCacheKey(taskRaw, prompt)
	var cached api.ComparisonResponse
	if err := h.cache.Get(c.Request.Context(), key, &cached); err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	rankings, err := h.router.CompareModels(task, prompt)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := api.ComparisonResponse{TaskType: taskRaw, Rankings: rankings}
	if err := h.cache.Set(c.Request.Context(), key, resp, 30*time.Second); err != nil {
		h.logger.Warn("failed to cache comparison", zap.Error(err))
	}

	c.JSON(http.StatusOK, resp)
}

func compareCacheKey(task, prompt string) string {
	hash := fnv.New64a()
	_, _ = hash.Write([]byte(prompt))
	return fmt.Sprintf("compare:%s:%x", task, hash.Sum64())
}
