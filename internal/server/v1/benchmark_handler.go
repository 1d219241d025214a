package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arbiter-ai/arbiter/internal/core/domain"
	"github.com/arbiter-ai/arbiter/pkg/api"
)

// HandleRunBenchmark drives a registered test battery through the router
// against one model.
//
// POST /v1/benchmarks/run
func (h *Handler) HandleRunBenchmark(c *gin.Context) {
	var req api.BenchmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.ValidationError(h.validator.ParseError(err)))
		return
	}

	infer := func(ctx context.Context, input string) (string, error) {
		resp, err := h.router.InferModel(ctx, req.ModelID, input)
		if err != nil {
			return "", err
		}
		return resp.Text, nil
	}

	result, err := h.seal.RunBenchmark(c.Request.Context(), req.BenchmarkID, req.ModelID, req.TestCases, infer)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleRegisterTestCase adds a test case to the battery.
//
// POST /v1/benchmarks/cases
func (h *Handler) HandleRegisterTestCase(c *gin.Context) {
	var req api.RegisterTestCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.ValidationError(h.validator.ParseError(err)))
		return
	}

	h.seal.RegisterTestCase(req.ToDomain())
	c.JSON(http.StatusCreated, gin.H{"id": req.ID})
}
