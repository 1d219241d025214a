package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arbiter-ai/arbiter/internal/core/domain"
	"github.com/arbiter-ai/arbiter/internal/core/ports"
)

// SealEngine scores request/response pairs against registered quality,
// safety, and bias criteria, and runs benchmark suites. It is a pure
// function of (input, output, ground truth) plus its own registries; it
// shares no mutable state with the router.
type SealEngine struct {
	logger *zap.Logger
	sink   ports.EventSink
	repo   ports.EvalRepository

	mu            sync.RWMutex
	metricOrder   []string
	metrics       map[string]domain.EvaluationMetric
	safetyChecks  []domain.SafetyCheck
	biasDetectors []domain.BiasDetector
	cases         map[string]domain.TestCase
	history       []*domain.EvaluationResult
	byID          map[string]*domain.EvaluationResult
}

// NewSealEngine constructs an engine with empty registries. Call
// RegisterDefaultPolicy to install the reference metric set.
func NewSealEngine(logger *zap.Logger, sink ports.EventSink, repo ports.EvalRepository) *SealEngine {
	if sink == nil {
		sink = ports.NopSink{}
	}
	return &SealEngine{
		logger:  logger,
		sink:    sink,
		repo:    repo,
		metrics: make(map[string]domain.EvaluationMetric),
		cases:   make(map[string]domain.TestCase),
		byID:    make(map[string]*domain.EvaluationResult),
	}
}

// RegisterMetric inserts or replaces by ID, keeping first insertion order.
func (e *SealEngine) RegisterMetric(m domain.EvaluationMetric) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.metrics[m.ID]; !exists {
		e.metricOrder = append(e.metricOrder, m.ID)
	}
	e.metrics[m.ID] = m
}

// RegisterSafetyCheck appends a named predicate to the ordered check list.
func (e *SealEngine) RegisterSafetyCheck(c domain.SafetyCheck) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.safetyChecks = append(e.safetyChecks, c)
}

// RegisterBiasDetector appends a named predicate to the ordered detector list.
func (e *SealEngine) RegisterBiasDetector(d domain.BiasDetector) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.biasDetectors = append(e.biasDetectors, d)
}

// RegisterTestCase inserts or replaces a benchmark test case by ID.
func (e *SealEngine) RegisterTestCase(tc domain.TestCase) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cases[tc.ID] = tc
}

// CheckSafety runs every registered safety check. Checks are independent;
// ordering only affects the violations list.
func (e *SealEngine) CheckSafety(text string) domain.SafetyReport {
	e.mu.RLock()
	checks := append([]domain.SafetyCheck(nil), e.safetyChecks...)
	e.mu.RUnlock()

	report := domain.SafetyReport{Safe: true}
	for _, c := range checks {
		verdict := c.Check(text)
		if !verdict.Safe {
			reason := verdict.Reason
			if reason == "" {
				reason = c.Name
			}
			report.Violations = append(report.Violations, reason)
		}
	}
	report.Safe = len(report.Violations) == 0
	return report
}

// DetectBias runs every registered bias detector.
func (e *SealEngine) DetectBias(text string) domain.BiasReport {
	e.mu.RLock()
	detectors := append([]domain.BiasDetector(nil), e.biasDetectors...)
	e.mu.RUnlock()

	report := domain.BiasReport{}
	for _, d := range detectors {
		verdict := d.Detect(text)
		if verdict.Biased {
			report.Detections = append(report.Detections, domain.BiasDetection{
				Category:   verdict.Category,
				Confidence: verdict.Confidence,
			})
		}
	}
	report.Biased = len(report.Detections) > 0
	return report
}

// selectMetrics resolves the requested subset against the registry as it
// exists at call time. Unknown IDs are skipped, not fatal.
func (e *SealEngine) selectMetrics(metricIDs []string) []domain.EvaluationMetric {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(metricIDs) == 0 {
		out := make([]domain.EvaluationMetric, 0, len(e.metricOrder))
		for _, id := range e.metricOrder {
			out = append(out, e.metrics[id])
		}
		return out
	}

	out := make([]domain.EvaluationMetric, 0, len(metricIDs))
	for _, id := range metricIDs {
		m, ok := e.metrics[id]
		if !ok {
			e.logger.Warn("skipping unknown metric", zap.String("metric", id))
			continue
		}
		out = append(out, m)
	}
	return out
}

// safeScore invokes a metric's scoring function with panic containment.
// A panicking scorer records 0 and a failure instead of aborting Evaluate.
func safeScore(m domain.EvaluationMetric, input, output, groundTruth string) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			score = 0
			err = fmt.Errorf("metric %s scorer panicked: %v", m.ID, r)
		}
	}()
	return m.Score(input, output, groundTruth), nil
}

// Evaluate scores the pair against the selected metrics and classifies the
// interaction. Out-of-range scores are clamped to [0,1] with a warning; the
// aggregate passes only when every selected metric passes its own threshold.
func (e *SealEngine) Evaluate(ctx context.Context, requestID, input, output, groundTruth string, metricIDs []string) (*domain.EvaluationResult, error) {
	selected := e.selectMetrics(metricIDs)
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: no evaluation metrics resolved", domain.ErrUnknownMetric)
	}

	result := &domain.EvaluationResult{
		ID:        uuid.New().String(),
		RequestID: requestID,
		Timestamp: time.Now(),
		Passed:    true,
	}

	var weightedSum, weightTotal float64
	failedCategories := make(map[domain.MetricCategory]bool)

	for _, m := range selected {
		score, scoreErr := safeScore(m, input, output, groundTruth)
		if scoreErr != nil {
			e.logger.Error("metric scorer panicked", zap.String("metric", m.ID), zap.Error(scoreErr))
			result.Issues = append(result.Issues, scoreErr.Error())
		}
		if score < 0 || score > 1 {
			e.logger.Warn("clamping out-of-range metric score",
				zap.String("metric", m.ID),
				zap.Float64("score", score),
			)
			score = clamp01(score)
		}

		passed := scoreErr == nil && score >= m.Threshold
		result.Outcomes = append(result.Outcomes, domain.MetricOutcome{
			Metric: m.ID,
			Score:  score,
			Passed: passed,
		})

		weightedSum += score * m.Weight
		weightTotal += m.Weight

		if !passed {
			result.Passed = false
			failedCategories[m.Category] = true
			if scoreErr == nil {
				result.Issues = append(result.Issues,
					fmt.Sprintf("metric %s failed with score %.2f (threshold %.2f)", m.ID, score, m.Threshold))
			}
		}
	}

	if weightTotal > 0 {
		result.OverallScore = weightedSum / weightTotal
	}
	result.Recommendations = recommendationsFor(failedCategories)

	e.mu.Lock()
	e.history = append(e.history, result)
	e.byID[result.ID] = result
	e.mu.Unlock()

	if e.repo != nil {
		if err := e.repo.SaveEvaluation(ctx, result); err != nil {
			e.logger.Error("failed to persist evaluation result", zap.String("id", result.ID), zap.Error(err))
		}
	}

	e.sink.Emit(ports.Event{
		Name:      ports.EventEvaluationCompleted,
		Timestamp: time.Now(),
		Payload:   map[string]any{"evaluation_id": result.ID, "request_id": requestID, "score": result.OverallScore, "passed": result.Passed},
	})
	if !result.Passed {
		e.sink.Emit(ports.Event{
			Name:      ports.EventEvaluationFailed,
			Timestamp: time.Now(),
			Payload:   map[string]any{"evaluation_id": result.ID, "request_id": requestID, "issues": len(result.Issues)},
		})
		e.logger.Warn("evaluation failed",
			zap.String("request_id", requestID),
			zap.Float64("score", result.OverallScore),
			zap.Strings("issues", result.Issues),
		)
	}

	return result, nil
}

// GetEvaluation looks up a stored result by its own identifier.
func (e *SealEngine) GetEvaluation(id string) (*domain.EvaluationResult, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	res, ok := e.byID[id]
	return res, ok
}

// GetStats aggregates the evaluation history with a per-metric breakdown.
func (e *SealEngine) GetStats() domain.EvalStats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := domain.EvalStats{ByMetric: make(map[string]domain.MetricStats)}
	if len(e.history) == 0 {
		return stats
	}

	var scoreSum float64
	var passCount int
	type acc struct {
		scoreSum float64
		passed   int
		count    int
	}
	perMetric := make(map[string]*acc)

	for _, res := range e.history {
		stats.TotalEvaluations++
		scoreSum += res.OverallScore
		if res.Passed {
			passCount++
		}
		for _, o := range res.Outcomes {
			a := perMetric[o.Metric]
			if a == nil {
				a = &acc{}
				perMetric[o.Metric] = a
			}
			a.scoreSum += o.Score
			a.count++
			if o.Passed {
				a.passed++
			}
		}
	}

	stats.AvgScore = scoreSum / float64(stats.TotalEvaluations)
	stats.PassRate = float64(passCount) / float64(stats.TotalEvaluations)
	for id, a := range perMetric {
		stats.ByMetric[id] = domain.MetricStats{
			AvgScore: a.scoreSum / float64(a.count),
			PassRate: float64(a.passed) / float64(a.count),
			Count:    a.count,
		}
	}
	return stats
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// recommendationsFor maps failed metric categories to fixed remediation
// advice. Placeholder guidance, same spirit as the heuristic detectors.
func recommendationsFor(failed map[domain.MetricCategory]bool) []string {
	advice := map[domain.MetricCategory]string{
		domain.CategorySafety:      "Strengthen content filtering or add a moderation pass before returning responses",
		domain.CategoryAccuracy:    "Provide ground-truth references or route to a higher-accuracy model for this task type",
		domain.CategoryBias:        "Review generation prompts for leading phrasing and consider a debiasing rewrite step",
		domain.CategoryCompliance:  "Audit the response against the applicable policy checklist before release",
		domain.CategoryPerformance: "Trim prompt context or select a lower-latency model for this workload",
	}

	var out []string
	for _, cat := range []domain.MetricCategory{
		domain.CategorySafety,
		domain.CategoryAccuracy,
		domain.CategoryBias,
		domain.CategoryCompliance,
		domain.CategoryPerformance,
	} {
		if failed[cat] {
			out = append(out, advice[cat])
		}
	}
	return out
}
