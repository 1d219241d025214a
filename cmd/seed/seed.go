package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/arbiter-ai/arbiter/internal/store/model"
	"github.com/arbiter-ai/arbiter/internal/store/sqlite"
)

// Seeds a local sqlite database with sample inference history so the stats
// and comparison endpoints have something to show on first boot.
func main() {
	repo, err := sqlite.NewSQLiteStorage("arbiter.db")
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	ctx := context.Background()

	samples := []struct {
		modelID string
		text    string
		tokens  int
		micros  int64
		latency int64
	}{
		{"gpt-4o", "The capital of France is Paris.", 42, 210, 820},
		{"gpt-4o-mini", "Summary: quarterly revenue grew 12%.", 88, 13, 460},
		{"claude-3-5-sonnet", "Here is the refactored function.", 120, 360, 1150},
		{"claude-3-haiku", "Classified as: positive sentiment.", 25, 6, 310},
	}

	for _, s := range samples {
		err := repo.Responses().Log(ctx, &model.ResponseLog{
			ID:         uuid.New().String(),
			ModelID:    s.modelID,
			Text:       s.text,
			TokensUsed: s.tokens,
			CostMicros: s.micros,
			LatencyMS:  s.latency,
			CreatedAt:  time.Now(),
		})
		if err != nil {
			log.Fatal(err)
		}
	}

	evalID := uuid.New().String()
	err = repo.Evaluations().Save(ctx, &model.EvaluationRecord{
		ID:                  evalID,
		RequestID:           "seed-request",
		OverallScore:        0.94,
		Passed:              true,
		OutcomesJSON:        `[{"metric":"safety","score":1,"passed":true},{"metric":"accuracy","score":0.9,"passed":true}]`,
		IssuesJSON:          `[]`,
		RecommendationsJSON: `[]`,
		CreatedAt:           time.Now(),
	})
	if err != nil {
		log.Fatal(err)
	}

	err = repo.Evaluations().SaveBenchmark(ctx, &model.BenchmarkRecord{
		ID:           uuid.New().String(),
		BenchmarkID:  "starter-suite",
		ModelID:      "gpt-4o-mini",
		OverallScore: 0.88,
		PassRate:     0.75,
		OutcomesJSON: `[{"test_case_id":"tc-1","passed":true,"score":0.95,"latency_ms":420}]`,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Seeded %d responses, 1 evaluation (%s) and 1 benchmark run into arbiter.db\n", len(samples), evalID)
}
