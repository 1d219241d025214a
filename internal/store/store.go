package store

import (
	"context"

	"github.com/arbiter-ai/arbiter/internal/store/model"
)

// Repository is the main contract for the data layer.
type Repository interface {
	Responses() ResponseRepository
	Evaluations() EvaluationRepository

	// transaction support
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	Close() error
}

type ResponseRepository interface {
	// Log stores a completed inference response.
	Log(ctx context.Context, log *model.ResponseLog) error
	// GetByID returns a single response by ID.
	GetByID(ctx context.Context, id string) (*model.ResponseLog, error)
	// GetRecent returns the last N responses.
	GetRecent(ctx context.Context, limit int) ([]model.ResponseLog, error)
	// GetDailyStats returns aggregated stats grouped by day.
	GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error)
}

type EvaluationRepository interface {
	// Save stores a completed evaluation.
	Save(ctx context.Context, rec *model.EvaluationRecord) error
	// GetByID returns a single evaluation by ID.
	GetByID(ctx context.Context, id string) (*model.EvaluationRecord, error)
	// GetByRequestID returns every evaluation recorded for a request.
	GetByRequestID(ctx context.Context, requestID string) ([]model.EvaluationRecord, error)
	// SaveBenchmark stores a completed benchmark run.
	SaveBenchmark(ctx context.Context, rec *model.BenchmarkRecord) error
	// GetBenchmarks returns recent benchmark runs for a model.
	GetBenchmarks(ctx context.Context, modelID string, limit int) ([]model.BenchmarkRecord, error)
}
