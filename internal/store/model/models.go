package model

import "time"

// ResponseLog captures one completed inference response. Costs are stored
// in micros to keep the column integral.
type ResponseLog struct {
	ID         string    `db:"id" json:"id"`
	ModelID    string    `db:"model_id" json:"model_id"`
	Text       string    `db:"text" json:"text"`
	TokensUsed int       `db:"tokens_used" json:"tokens_used"`
	CostMicros int64     `db:"cost_micros" json:"cost_micros"`
	LatencyMS  int64     `db:"latency_ms" json:"latency_ms"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// EvaluationRecord is the stored form of an evaluation result. Per-metric
// outcomes, issues and recommendations are serialized as JSON arrays.
type EvaluationRecord struct {
	ID                  string    `db:"id" json:"id"`
	RequestID           string    `db:"request_id" json:"request_id"`
	OverallScore        float64   `db:"overall_score" json:"overall_score"`
	Passed              bool      `db:"passed" json:"passed"`
	OutcomesJSON        string    `db:"outcomes_json" json:"outcomes_json"`
	IssuesJSON          string    `db:"issues_json" json:"issues_json"`
	RecommendationsJSON string    `db:"recommendations_json" json:"recommendations_json"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

// BenchmarkRecord is the stored form of one benchmark run.
type BenchmarkRecord struct {
	ID           string    `db:"id" json:"id"`
	BenchmarkID  string    `db:"benchmark_id" json:"benchmark_id"`
	ModelID      string    `db:"model_id" json:"model_id"`
	OverallScore float64   `db:"overall_score" json:"overall_score"`
	PassRate     float64   `db:"pass_rate" json:"pass_rate"`
	OutcomesJSON string    `db:"outcomes_json" json:"outcomes_json"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// DailyStats represents aggregated usage data for a specific day.
type DailyStats struct {
	Date            string  `db:"date" json:"date"`
	TotalRequests   int     `db:"total_requests" json:"total_requests"`
	TotalTokens     int     `db:"total_tokens" json:"total_tokens"`
	TotalCostMicros int64   `db:"total_cost_micros" json:"total_cost_micros"`
	AverageLatency  float64 `db:"avg_latency" json:"avg_latency"`
}
