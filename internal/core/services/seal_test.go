package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arbiter-ai/arbiter/internal/core/domain"
	"github.com/arbiter-ai/arbiter/internal/core/ports"
)

func newTestSeal() *SealEngine {
	return NewSealEngine(zap.NewNop(), nil, nil)
}

func fixedMetric(id string, category domain.MetricCategory, score, threshold, weight float64) domain.EvaluationMetric {
	return domain.EvaluationMetric{
		ID:        id,
		Name:      id,
		Category:  category,
		Threshold: threshold,
		Weight:    weight,
		Score:     func(_, _, _ string) float64 { return score },
	}
}

func TestEvaluate_WeightedMean(t *testing.T) {
	engine := newTestSeal()
	engine.RegisterMetric(fixedMetric("a", domain.CategoryAccuracy, 0.9, 0.5, 1.5))
	engine.RegisterMetric(fixedMetric("b", domain.CategoryAccuracy, 0.6, 0.5, 1.0))
	engine.RegisterMetric(fixedMetric("c", domain.CategoryAccuracy, 0.3, 0.2, 0.5))

	res, err := engine.Evaluate(context.Background(), "req-1", "in", "out", "", nil)
	require.NoError(t, err)

	expected := (0.9*1.5 + 0.6*1.0 + 0.3*0.5) / (1.5 + 1.0 + 0.5)
	assert.Less(t, math.Abs(res.OverallScore-expected), 1e-9)
	assert.True(t, res.Passed)
	assert.Len(t, res.Outcomes, 3)
}

func TestEvaluate_PassedIffAllMetricsPass(t *testing.T) {
	engine := newTestSeal()
	engine.RegisterMetric(fixedMetric("passing", domain.CategoryAccuracy, 0.95, 0.9, 1.0))
	engine.RegisterMetric(fixedMetric("failing", domain.CategorySafety, 0.5, 0.9, 1.0))

	res, err := engine.Evaluate(context.Background(), "req-1", "in", "out", "", nil)
	require.NoError(t, err)

	assert.False(t, res.Passed)
	require.Len(t, res.Issues, 1)
	assert.Contains(t, res.Issues[0], "failing")
	assert.Contains(t, res.Issues[0], "0.50")
	require.NotEmpty(t, res.Recommendations)
	assert.Contains(t, res.Recommendations[0], "content filtering")
}

func TestEvaluate_ExplicitSubset(t *testing.T) {
	engine := newTestSeal()
	engine.RegisterMetric(fixedMetric("a", domain.CategoryAccuracy, 1.0, 0.5, 1.0))
	engine.RegisterMetric(fixedMetric("b", domain.CategoryAccuracy, 0.0, 0.5, 1.0))

	res, err := engine.Evaluate(context.Background(), "req-1", "in", "out", "", []string{"a"})
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Len(t, res.Outcomes, 1)
}

func TestEvaluate_UnknownMetricSkipped(t *testing.T) {
	engine := newTestSeal()
	engine.RegisterMetric(fixedMetric("known", domain.CategoryAccuracy, 1.0, 0.5, 1.0))

	res, err := engine.Evaluate(context.Background(), "req-1", "in", "out", "", []string{"known", "ghost"})
	require.NoError(t, err)
	assert.Len(t, res.Outcomes, 1)

	_, err = engine.Evaluate(context.Background(), "req-2", "in", "out", "", []string{"ghost"})
	assert.ErrorIs(t, err, domain.ErrUnknownMetric)
}

func TestEvaluate_PanickingScorerContained(t *testing.T) {
	engine := newTestSeal()
	engine.RegisterMetric(domain.EvaluationMetric{
		ID: "explosive", Name: "explosive", Category: domain.CategoryAccuracy,
		Threshold: 0.5, Weight: 1.0,
		Score: func(_, _, _ string) float64 { panic("boom") },
	})
	engine.RegisterMetric(fixedMetric("steady", domain.CategoryAccuracy, 1.0, 0.5, 1.0))

	res, err := engine.Evaluate(context.Background(), "req-1", "in", "out", "", nil)
	require.NoError(t, err)

	assert.False(t, res.Passed)
	assert.Equal(t, 0.0, res.Outcomes[0].Score)
	assert.False(t, res.Outcomes[0].Passed)
	assert.True(t, res.Outcomes[1].Passed)
}

func TestEvaluate_OutOfRangeScoreClamped(t *testing.T) {
	engine := newTestSeal()
	engine.RegisterMetric(fixedMetric("overshoot", domain.CategoryAccuracy, 1.7, 0.5, 1.0))
	engine.RegisterMetric(fixedMetric("undershoot", domain.CategoryAccuracy, -0.3, 0.5, 1.0))

	res, err := engine.Evaluate(context.Background(), "req-1", "in", "out", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Outcomes[0].Score)
	assert.Equal(t, 0.0, res.Outcomes[1].Score)
}

func TestEvaluate_AccuracyOverlapHeuristicWeakness(t *testing.T) {
	engine := newTestSeal()
	engine.RegisterDefaultPolicy()

	res, err := engine.Evaluate(context.Background(), "req-1",
		"What is 2+2?", "2+2 is 4", "4", []string{"accuracy"})
	require.NoError(t, err)

	// "2+2 is 4" shares one word of three with "4": Jaccard 1/3. A correct
	// answer still fails the 0.85 threshold. Known literal-overlap weakness.
	assert.False(t, res.Passed)
	assert.Less(t, res.Outcomes[0].Score, 0.85)
}

func TestEvaluate_EmitsFailedEvent(t *testing.T) {
	sink := &recordingSink{}
	engine := NewSealEngine(zap.NewNop(), sink, nil)
	engine.RegisterMetric(fixedMetric("failing", domain.CategorySafety, 0.1, 0.9, 1.0))

	_, err := engine.Evaluate(context.Background(), "req-1", "in", "out", "", nil)
	require.NoError(t, err)

	names := sink.names()
	assert.Contains(t, names, ports.EventEvaluationCompleted)
	assert.Contains(t, names, ports.EventEvaluationFailed)
}

func TestCheckSafety_HarmfulContent(t *testing.T) {
	engine := newTestSeal()
	engine.RegisterDefaultPolicy()

	report := engine.CheckSafety("I will hack the server")
	assert.False(t, report.Safe)
	require.NotEmpty(t, report.Violations)
	assert.Contains(t, report.Violations[0], "harmful")

	clean := engine.CheckSafety("The weather is pleasant today")
	assert.True(t, clean.Safe)
	assert.Empty(t, clean.Violations)
}

func TestDetectBias_Generalization(t *testing.T) {
	engine := newTestSeal()
	engine.RegisterDefaultPolicy()

	report := engine.DetectBias("All women are bad drivers")
	assert.True(t, report.Biased)
	require.NotEmpty(t, report.Detections)
	assert.Equal(t, "demographic", report.Detections[0].Category)
	assert.InDelta(t, 0.8, report.Detections[0].Confidence, 1e-9)

	clean := engine.DetectBias("The report covers three quarters of data")
	assert.False(t, clean.Biased)
}

func TestDefaultPolicy_HallucinationSmells(t *testing.T) {
	engine := newTestSeal()
	engine.RegisterDefaultPolicy()

	res, err := engine.Evaluate(context.Background(), "req-1",
		"Tell me about the company",
		"The company was founded on 2019-03-15 and made $4,500,000. Call 555-123-4567.",
		"", []string{"hallucination"})
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.InDelta(t, 0.25, res.Outcomes[0].Score, 1e-9)
}

func TestGetStats_PerMetricBreakdown(t *testing.T) {
	engine := newTestSeal()
	engine.RegisterMetric(fixedMetric("m", domain.CategoryAccuracy, 1.0, 0.5, 1.0))

	_, err := engine.Evaluate(context.Background(), "req-1", "in", "out", "", nil)
	require.NoError(t, err)

	engine.RegisterMetric(fixedMetric("m", domain.CategoryAccuracy, 0.2, 0.5, 1.0))
	_, err = engine.Evaluate(context.Background(), "req-2", "in", "out", "", nil)
	require.NoError(t, err)

	stats := engine.GetStats()
	assert.Equal(t, 2, stats.TotalEvaluations)
	assert.InDelta(t, 0.5, stats.PassRate, 1e-9)
	assert.InDelta(t, 0.6, stats.AvgScore, 1e-9)

	m := stats.ByMetric["m"]
	assert.Equal(t, 2, m.Count)
	assert.InDelta(t, 0.6, m.AvgScore, 1e-9)
	assert.InDelta(t, 0.5, m.PassRate, 1e-9)
}

func TestGetEvaluation_Lookup(t *testing.T) {
	engine := newTestSeal()
	engine.RegisterMetric(fixedMetric("m", domain.CategoryAccuracy, 1.0, 0.5, 1.0))

	res, err := engine.Evaluate(context.Background(), "req-1", "in", "out", "", nil)
	require.NoError(t, err)

	stored, ok := engine.GetEvaluation(res.ID)
	require.True(t, ok)
	assert.Equal(t, "req-1", stored.RequestID)

	_, ok = engine.GetEvaluation("missing")
	assert.False(t, ok)
}

func TestTokenOverlap(t *testing.T) {
	assert.InDelta(t, 1.0, tokenOverlap("the cat", "the cat"), 1e-9)
	assert.InDelta(t, 1.0/3.0, tokenOverlap("2+2 is 4", "4"), 1e-9)
	assert.Equal(t, 0.0, tokenOverlap("", "something"))
}

func TestContentWordRecall(t *testing.T) {
	assert.InDelta(t, 1.0, contentWordRecall("is a to it", "anything at all"), 1e-9)
	assert.InDelta(t, 1.0/3.0, contentWordRecall("explain gravity waves", "gravity is a force"), 1e-9)
}
