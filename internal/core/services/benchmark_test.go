package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arbiter-ai/arbiter/internal/core/domain"
	"github.com/arbiter-ai/arbiter/internal/core/ports"
)

func benchEngine() *SealEngine {
	engine := newTestSeal()
	engine.RegisterMetric(fixedMetric("echo-check", domain.CategoryAccuracy, 1.0, 0.5, 1.0))
	engine.RegisterTestCase(domain.TestCase{ID: "tc-1", Category: "math", Input: "1+1", ExpectedOutput: "2"})
	engine.RegisterTestCase(domain.TestCase{ID: "tc-2", Category: "math", Input: "2+2", ExpectedOutput: "4"})
	engine.RegisterTestCase(domain.TestCase{ID: "tc-3", Category: "math", Input: "3+3", ExpectedOutput: "6"})
	return engine
}

func TestRunBenchmark_PassRate(t *testing.T) {
	engine := benchEngine()

	result, err := engine.RunBenchmark(context.Background(), "arith", "model-a",
		[]string{"tc-1", "tc-2", "tc-3"},
		func(_ context.Context, input string) (string, error) { return "ok", nil },
	)
	require.NoError(t, err)

	assert.Len(t, result.Outcomes, 3)
	assert.InDelta(t, 1.0, result.PassRate, 1e-9)
	assert.InDelta(t, 1.0, result.OverallScore, 1e-9)
	assert.Equal(t, "arith", result.BenchmarkID)
	assert.Equal(t, "model-a", result.ModelID)
}

func TestRunBenchmark_EmptyResolutionFails(t *testing.T) {
	engine := benchEngine()

	_, err := engine.RunBenchmark(context.Background(), "arith", "model-a",
		[]string{"ghost-1", "ghost-2"},
		func(_ context.Context, _ string) (string, error) { return "ok", nil },
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownTestCase)
}

func TestRunBenchmark_UnknownCaseSkipped(t *testing.T) {
	engine := benchEngine()

	result, err := engine.RunBenchmark(context.Background(), "arith", "model-a",
		[]string{"tc-1", "ghost"},
		func(_ context.Context, _ string) (string, error) { return "ok", nil },
	)
	require.NoError(t, err)
	assert.Len(t, result.Outcomes, 1)
	assert.Equal(t, "tc-1", result.Outcomes[0].TestCaseID)
}

func TestRunBenchmark_FailureIsolation(t *testing.T) {
	engine := benchEngine()

	result, err := engine.RunBenchmark(context.Background(), "arith", "model-a",
		[]string{"tc-1", "tc-2", "tc-3"},
		func(_ context.Context, input string) (string, error) {
			switch input {
			case "1+1":
				return "", errors.New("provider timeout")
			case "2+2":
				panic("adapter bug")
			default:
				return "fine", nil
			}
		},
	)
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 3)

	assert.False(t, result.Outcomes[0].Passed)
	assert.Equal(t, 0.0, result.Outcomes[0].Score)
	assert.Contains(t, result.Outcomes[0].Error, "provider timeout")

	assert.False(t, result.Outcomes[1].Passed)
	assert.Contains(t, result.Outcomes[1].Error, "panicked")

	assert.True(t, result.Outcomes[2].Passed)
	assert.InDelta(t, 1.0/3.0, result.PassRate, 1e-9)
}

func TestRunBenchmark_Cancellation(t *testing.T) {
	engine := benchEngine()
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := engine.RunBenchmark(ctx, "arith", "model-a",
		[]string{"tc-1", "tc-2", "tc-3"},
		func(_ context.Context, _ string) (string, error) {
			calls++
			cancel()
			return "ok", nil
		},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRunBenchmark_EmitsCompletion(t *testing.T) {
	sink := &recordingSink{}
	engine := NewSealEngine(zap.NewNop(), sink, nil)
	engine.RegisterMetric(fixedMetric("m", domain.CategoryAccuracy, 1.0, 0.5, 1.0))
	engine.RegisterTestCase(domain.TestCase{ID: "tc-1", Input: "in", ExpectedOutput: "out"})

	_, err := engine.RunBenchmark(context.Background(), "suite", "model-a",
		[]string{"tc-1"},
		func(_ context.Context, _ string) (string, error) { return "out", nil },
	)
	require.NoError(t, err)
	assert.Contains(t, sink.names(), ports.EventBenchmarkCompleted)
}

func TestRunBenchmark_UsesExpectedOutputAsGroundTruth(t *testing.T) {
	engine := newTestSeal()
	engine.RegisterMetric(domain.EvaluationMetric{
		ID: "exact", Name: "exact", Category: domain.CategoryAccuracy,
		Threshold: 0.99, Weight: 1.0,
		Score: func(_, output, groundTruth string) float64 {
			if output == groundTruth {
				return 1.0
			}
			return 0.0
		},
	})
	engine.RegisterTestCase(domain.TestCase{ID: "tc-1", Input: "1+1", ExpectedOutput: "2"})
	engine.RegisterTestCase(domain.TestCase{ID: "tc-2", Input: "2+2", ExpectedOutput: "4"})

	result, err := engine.RunBenchmark(context.Background(), "exactness", "model-a",
		[]string{"tc-1", "tc-2"},
		func(_ context.Context, input string) (string, error) {
			if input == "1+1" {
				return "2", nil
			}
			return "5", nil
		},
	)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, result.PassRate, 1e-9)
}
