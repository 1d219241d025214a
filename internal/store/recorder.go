package store

import (
	"context"
	"encoding/json"

	"github.com/arbiter-ai/arbiter/internal/core/domain"
	"github.com/arbiter-ai/arbiter/internal/store/model"
)

const microsPerDollar = 1_000_000

// Recorder adapts the data layer to the persistence ports the engines
// depend on. It converts core domain values into storable rows.
type Recorder struct {
	repo Repository
}

func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

func (r *Recorder) SaveResponse(ctx context.Context, resp *domain.InferenceResponse) error {
	return r.repo.Responses().Log(ctx, &model.ResponseLog{
		ID:         resp.ID,
		ModelID:    resp.ModelID,
		Text:       resp.Text,
		TokensUsed: resp.TokensUsed,
		CostMicros: int64(resp.Cost * microsPerDollar),
		LatencyMS:  resp.LatencyMS,
		CreatedAt:  resp.Timestamp,
	})
}

func (r *Recorder) SaveEvaluation(ctx context.Context, res *domain.EvaluationResult) error {
	outcomes, err := json.Marshal(res.Outcomes)
	if err != nil {
		return err
	}
	issues, err := json.Marshal(res.Issues)
	if err != nil {
		return err
	}
	recs, err := json.Marshal(res.Recommendations)
	if err != nil {
		return err
	}
	return r.repo.Evaluations().Save(ctx, &model.EvaluationRecord{
		ID:                  res.ID,
		RequestID:           res.RequestID,
		OverallScore:        res.OverallScore,
		Passed:              res.Passed,
		OutcomesJSON:        string(outcomes),
		IssuesJSON:          string(issues),
		RecommendationsJSON: string(recs),
		CreatedAt:           res.Timestamp,
	})
}

func (r *Recorder) SaveBenchmark(ctx context.Context, res *domain.BenchmarkResult) error {
	outcomes, err := json.Marshal(res.Outcomes)
	if err != nil {
		return err
	}
	return r.repo.Evaluations().SaveBenchmark(ctx, &model.BenchmarkRecord{
		ID:           res.ID,
		BenchmarkID:  res.BenchmarkID,
		ModelID:      res.ModelID,
		OverallScore: res.OverallScore,
		PassRate:     res.PassRate,
		OutcomesJSON: string(outcomes),
		CreatedAt:    res.Timestamp,
	})
}
