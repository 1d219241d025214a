package domain

import "time"

// MetricCategory groups evaluation metrics for reporting and remediation advice.
type MetricCategory string

const (
	CategorySafety      MetricCategory = "safety"
	CategoryAccuracy    MetricCategory = "accuracy"
	CategoryBias        MetricCategory = "bias"
	CategoryCompliance  MetricCategory = "compliance"
	CategoryPerformance MetricCategory = "performance"
)

// Scorer computes a score in [0,1] for a request/response pair.
// groundTruth is empty when the caller has no reference output.
type Scorer func(input, output, groundTruth string) float64

// EvaluationMetric is a named, weighted, thresholded scoring function.
// Registered once; the registry keys metrics by ID.
type EvaluationMetric struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Category  MetricCategory `json:"category"`
	Threshold float64        `json:"threshold"` // pass threshold in [0,1]
	Weight    float64        `json:"weight"`    // positive, not necessarily normalized
	Score     Scorer         `json:"-"`
}

// MetricOutcome is one metric's verdict inside an EvaluationResult.
type MetricOutcome struct {
	Metric string  `json:"metric"`
	Score  float64 `json:"score"`
	Passed bool    `json:"passed"`
}

// EvaluationResult is the immutable outcome of one Evaluate call.
type EvaluationResult struct {
	ID              string          `json:"id"`
	RequestID       string          `json:"request_id"`
	Timestamp       time.Time       `json:"timestamp"`
	Outcomes        []MetricOutcome `json:"outcomes"`
	OverallScore    float64         `json:"overall_score"`
	Passed          bool            `json:"passed"`
	Issues          []string        `json:"issues,omitempty"`
	Recommendations []string        `json:"recommendations,omitempty"`
}

// SafetyVerdict is the outcome of a single safety predicate.
type SafetyVerdict struct {
	Safe   bool
	Reason string
}

// SafetyCheck is a stateless predicate over response text.
type SafetyCheck struct {
	Name  string
	Check func(text string) SafetyVerdict
}

// SafetyReport aggregates every registered safety check.
type SafetyReport struct {
	Safe       bool     `json:"safe"`
	Violations []string `json:"violations,omitempty"`
}

// BiasVerdict is the outcome of a single bias predicate. Confidence is in [0,1].
type BiasVerdict struct {
	Biased     bool
	Category   string
	Confidence float64
}

// BiasDetector is a stateless predicate over response text.
type BiasDetector struct {
	Name   string
	Detect func(text string) BiasVerdict
}

// BiasDetection is one positive detection inside a BiasReport.
type BiasDetection struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// BiasReport aggregates every registered bias detector.
type BiasReport struct {
	Biased     bool            `json:"biased"`
	Detections []BiasDetection `json:"detections,omitempty"`
}

// TestCase is one fixed input in a benchmark battery.
type TestCase struct {
	ID             string            `json:"id"`
	Category       string            `json:"category"`
	Input          string            `json:"input"`
	ExpectedOutput string            `json:"expected_output,omitempty"`
	Constraints    map[string]string `json:"constraints,omitempty"`
}

// TestOutcome records one test case's run inside a benchmark.
type TestOutcome struct {
	TestCaseID string  `json:"test_case_id"`
	Passed     bool    `json:"passed"`
	Score      float64 `json:"score"`
	LatencyMS  int64   `json:"latency_ms"`
	Error      string  `json:"error,omitempty"`
}

// BenchmarkResult is the write-once artifact of a single benchmark run.
type BenchmarkResult struct {
	ID           string        `json:"id"`
	BenchmarkID  string        `json:"benchmark_id"`
	ModelID      string        `json:"model_id"`
	Timestamp    time.Time     `json:"timestamp"`
	Outcomes     []TestOutcome `json:"outcomes"`
	OverallScore float64       `json:"overall_score"`
	PassRate     float64       `json:"pass_rate"`
}

// MetricStats is the per-metric slice of EvalStats.
type MetricStats struct {
	AvgScore float64 `json:"avg_score"`
	PassRate float64 `json:"pass_rate"`
	Count    int     `json:"count"`
}

// EvalStats aggregates the evaluation history.
type EvalStats struct {
	TotalEvaluations int                    `json:"total_evaluations"`
	PassRate         float64                `json:"pass_rate"`
	AvgScore         float64                `json:"avg_score"`
	ByMetric         map[string]MetricStats `json:"by_metric"`
}
