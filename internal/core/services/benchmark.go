package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arbiter-ai/arbiter/internal/core/domain"
	"github.com/arbiter-ai/arbiter/internal/core/ports"
)

// RunBenchmark executes a fixed battery of test cases against a
// caller-supplied inference function and produces a pass-rate report.
//
// Test cases are isolated: a panicking or failing inference scores that
// case 0 and the batch continues. Only an empty resolution (no referenced
// ID registered) or context cancellation aborts the run.
func (e *SealEngine) RunBenchmark(ctx context.Context, benchmarkID, modelID string, testCaseIDs []string, infer ports.InferFunc) (*domain.BenchmarkResult, error) {
	cases := e.resolveCases(testCaseIDs)
	if len(cases) == 0 {
		return nil, domain.UnknownTestCaseError(testCaseIDs)
	}

	result := &domain.BenchmarkResult{
		ID:          uuid.New().String(),
		BenchmarkID: benchmarkID,
		ModelID:     modelID,
		Timestamp:   time.Now(),
	}

	var scoreSum float64
	var passCount int

	for _, tc := range cases {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("benchmark %s aborted: %w", benchmarkID, err)
		}

		outcome := e.runCase(ctx, benchmarkID, tc, infer)
		result.Outcomes = append(result.Outcomes, outcome)
		scoreSum += outcome.Score
		if outcome.Passed {
			passCount++
		}
	}

	result.OverallScore = scoreSum / float64(len(result.Outcomes))
	result.PassRate = float64(passCount) / float64(len(result.Outcomes))

	if e.repo != nil {
		if err := e.repo.SaveBenchmark(ctx, result); err != nil {
			e.logger.Error("failed to persist benchmark result", zap.String("id", result.ID), zap.Error(err))
		}
	}

	e.logger.Info("benchmark completed",
		zap.String("benchmark", benchmarkID),
		zap.String("model", modelID),
		zap.Int("cases", len(result.Outcomes)),
		zap.Float64("pass_rate", result.PassRate),
	)
	e.sink.Emit(ports.Event{
		Name:      ports.EventBenchmarkCompleted,
		Timestamp: time.Now(),
		Payload: map[string]any{
			"benchmark_id": benchmarkID,
			"model_id":     modelID,
			"run_id":       result.ID,
			"pass_rate":    result.PassRate,
			"score":        result.OverallScore,
		},
	})
	return result, nil
}

// resolveCases looks up IDs in reference order, skipping unknown ones.
func (e *SealEngine) resolveCases(ids []string) []domain.TestCase {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]domain.TestCase, 0, len(ids))
	for _, id := range ids {
		tc, ok := e.cases[id]
		if !ok {
			e.logger.Warn("skipping unknown test case", zap.String("test_case", id))
			continue
		}
		out = append(out, tc)
	}
	return out
}

func (e *SealEngine) runCase(ctx context.Context, benchmarkID string, tc domain.TestCase, infer ports.InferFunc) domain.TestOutcome {
	start := time.Now()
	output, err := invokeContained(ctx, infer, tc.Input)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		e.logger.Warn("benchmark case inference failed",
			zap.String("benchmark", benchmarkID),
			zap.String("test_case", tc.ID),
			zap.Error(err),
		)
		return domain.TestOutcome{
			TestCaseID: tc.ID,
			Passed:     false,
			Score:      0,
			LatencyMS:  latency,
			Error:      err.Error(),
		}
	}

	eval, err := e.Evaluate(ctx, benchmarkID+"/"+tc.ID, tc.Input, output, tc.ExpectedOutput, nil)
	if err != nil {
		return domain.TestOutcome{
			TestCaseID: tc.ID,
			Passed:     false,
			Score:      0,
			LatencyMS:  latency,
			Error:      err.Error(),
		}
	}

	return domain.TestOutcome{
		TestCaseID: tc.ID,
		Passed:     eval.Passed,
		Score:      eval.OverallScore,
		LatencyMS:  latency,
	}
}

// invokeContained shields the batch from a panicking inference function.
func invokeContained(ctx context.Context, infer ports.InferFunc, input string) (output string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("inference panicked: %v", r)
		}
	}()
	return infer(ctx, input)
}
