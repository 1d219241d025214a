// Package ports holds the small interfaces the core engines depend on.
// Implementations live at the edges (internal/backend, internal/store,
// internal/events) so the decision logic stays free of transport and
// persistence concerns.
package ports

import (
	"context"

	"github.com/arbiter-ai/arbiter/internal/core/domain"
)

// BackendResult is what a model backend returns for one prompt.
type BackendResult struct {
	Text string
	// TokensUsed is the provider-reported token count. Zero means the
	// provider gave no usage data and the caller should estimate.
	TokensUsed int
}

// Backend is the callable inference backend bound to one or more registered
// models. upstreamID is the model identifier the provider expects.
type Backend interface {
	Name() string
	Generate(ctx context.Context, upstreamID, prompt string) (*BackendResult, error)
}

// TokenEstimator approximates token usage without a precise tokenizer.
// Swappable per provider.
type TokenEstimator interface {
	Estimate(text string) int
}

// InferFunc is the caller-supplied inference function a benchmark drives.
type InferFunc func(ctx context.Context, input string) (string, error)

// EvalRepository is the persistence boundary for evaluation artifacts.
// The in-memory implementation is the reference behavior; a durable store
// can be swapped in without changing engine contracts.
type EvalRepository interface {
	SaveEvaluation(ctx context.Context, res *domain.EvaluationResult) error
	SaveBenchmark(ctx context.Context, res *domain.BenchmarkResult) error
}

// HistoryRepository is the persistence boundary for inference history.
type HistoryRepository interface {
	SaveResponse(ctx context.Context, resp *domain.InferenceResponse) error
}
