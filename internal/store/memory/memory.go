// Package memory provides an in-process store.Repository. It backs tests
// and the default development configuration where durability is not needed.
package memory

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/arbiter-ai/arbiter/internal/store"
	"github.com/arbiter-ai/arbiter/internal/store/model"
)

type MemoryRepository struct {
	mu          sync.RWMutex
	responses   []model.ResponseLog
	evaluations []model.EvaluationRecord
	benchmarks  []model.BenchmarkRecord
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Responses() store.ResponseRepository { return &responseRepo{r} }

func (r *MemoryRepository) Evaluations() store.EvaluationRepository { return &evaluationRepo{r} }

// WithTx runs fn under the repository lock. There is nothing to roll back;
// fn's error is simply surfaced.
func (r *MemoryRepository) WithTx(ctx context.Context, fn func(repo store.Repository) error) error {
	return fn(r)
}

func (r *MemoryRepository) Close() error { return nil }

type responseRepo struct {
	parent *MemoryRepository
}

func (r *responseRepo) Log(ctx context.Context, log *model.ResponseLog) error {
	r.parent.mu.Lock()
	defer r.parent.mu.Unlock()
	r.parent.responses = append(r.parent.responses, *log)
	return nil
}

func (r *responseRepo) GetByID(ctx context.Context, id string) (*model.ResponseLog, error) {
	r.parent.mu.RLock()
	defer r.parent.mu.RUnlock()
	for i := range r.parent.responses {
		if r.parent.responses[i].ID == id {
			out := r.parent.responses[i]
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *responseRepo) GetRecent(ctx context.Context, limit int) ([]model.ResponseLog, error) {
	r.parent.mu.RLock()
	defer r.parent.mu.RUnlock()
	n := len(r.parent.responses)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]model.ResponseLog, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, r.parent.responses[i])
	}
	return out, nil
}

func (r *responseRepo) GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error) {
	r.parent.mu.RLock()
	defer r.parent.mu.RUnlock()

	cutoff := time.Now().AddDate(0, 0, -days)
	byDay := make(map[string]*model.DailyStats)
	latencyTotals := make(map[string]int64)
	for i := range r.parent.responses {
		log := &r.parent.responses[i]
		if log.CreatedAt.Before(cutoff) {
			continue
		}
		day := log.CreatedAt.Format("2006-01-02")
		stats, ok := byDay[day]
		if !ok {
			stats = &model.DailyStats{Date: day}
			byDay[day] = stats
		}
		stats.TotalRequests++
		stats.TotalTokens += log.TokensUsed
		stats.TotalCostMicros += log.CostMicros
		latencyTotals[day] += log.LatencyMS
	}

	out := make([]model.DailyStats, 0, len(byDay))
	for day, stats := range byDay {
		stats.AverageLatency = float64(latencyTotals[day]) / float64(stats.TotalRequests)
		out = append(out, *stats)
	}
	return out, nil
}

type evaluationRepo struct {
	parent *MemoryRepository
}

func (r *evaluationRepo) Save(ctx context.Context, rec *model.EvaluationRecord) error {
	r.parent.mu.Lock()
	defer r.parent.mu.Unlock()
	r.parent.evaluations = append(r.parent.evaluations, *rec)
	return nil
}

func (r *evaluationRepo) GetByID(ctx context.Context, id string) (*model.EvaluationRecord, error) {
	r.parent.mu.RLock()
	defer r.parent.mu.RUnlock()
	for i := range r.parent.evaluations {
		if r.parent.evaluations[i].ID == id {
			out := r.parent.evaluations[i]
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *evaluationRepo) GetByRequestID(ctx context.Context, requestID string) ([]model.EvaluationRecord, error) {
	r.parent.mu.RLock()
	defer r.parent.mu.RUnlock()
	var out []model.EvaluationRecord
	for i := range r.parent.evaluations {
		if r.parent.evaluations[i].RequestID == requestID {
			out = append(out, r.parent.evaluations[i])
		}
	}
	return out, nil
}

func (r *evaluationRepo) SaveBenchmark(ctx context.Context, rec *model.BenchmarkRecord) error {
	r.parent.mu.Lock()
	defer r.parent.mu.Unlock()
	r.parent.benchmarks = append(r.parent.benchmarks, *rec)
	return nil
}

func (r *evaluationRepo) GetBenchmarks(ctx context.Context, modelID string, limit int) ([]model.BenchmarkRecord, error) {
	r.parent.mu.RLock()
	defer r.parent.mu.RUnlock()
	var out []model.BenchmarkRecord
	for i := len(r.parent.benchmarks) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		if modelID == "" || r.parent.benchmarks[i].ModelID == modelID {
			out = append(out, r.parent.benchmarks[i])
		}
	}
	return out, nil
}
