package domain

import "time"

// ModelDescriptor is the static configuration for one selectable model.
// Descriptors are immutable once registered; the registry keys them by ID.
type ModelDescriptor struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Provider          string     `json:"provider"`
	Capabilities      []TaskType `json:"capabilities"`
	CostPer1kTokens   float64    `json:"cost_per_1k_tokens"`
	MaxOutputTokens   int        `json:"max_output_tokens"`
	AvgLatencyMS      float64    `json:"avg_latency_ms"`
	AccuracyRating    float64    `json:"accuracy_rating"` // static rating in [0,1]
	ContextWindow     int        `json:"context_window"`
	SupportsStreaming bool       `json:"supports_streaming"`
	SupportsFineTune  bool       `json:"supports_fine_tune"`
}

// Supports reports whether the descriptor's capability set contains the task type.
func (m ModelDescriptor) Supports(task TaskType) bool {
	for _, c := range m.Capabilities {
		if c == task {
			return true
		}
	}
	return false
}

// Constraints narrows the candidate pool during routing. Zero values mean
// "unconstrained" for the numeric fields; an empty provider list means any.
type Constraints struct {
	MaxCost            float64  `json:"max_cost,omitempty"`
	MaxLatencyMS       float64  `json:"max_latency_ms,omitempty"`
	MinAccuracy        float64  `json:"min_accuracy,omitempty"`
	PreferredProviders []string `json:"preferred_providers,omitempty"`
}

// InferenceRequest is constructed per call and never stored.
type InferenceRequest struct {
	TaskType    TaskType     `json:"task_type"`
	Prompt      string       `json:"prompt"`
	Context     string       `json:"context,omitempty"`
	Constraints *Constraints `json:"constraints,omitempty"`
	Stream      bool         `json:"stream,omitempty"`
}

// RankedModel pairs a candidate with its routing score.
type RankedModel struct {
	Model ModelDescriptor `json:"model"`
	Score float64         `json:"score"`
}

// RoutingDecision is produced once per routing call and never mutated.
type RoutingDecision struct {
	Selected     ModelDescriptor `json:"selected"`
	Score        float64         `json:"score"`
	Reasoning    string          `json:"reasoning"`
	Alternatives []RankedModel   `json:"alternatives,omitempty"`
}

// InferenceResponse records one executed inference. Appended to an
// append-only history used for aggregate statistics.
type InferenceResponse struct {
	ID         string    `json:"id"`
	ModelID    string    `json:"model_id"`
	Text       string    `json:"text"`
	TokensUsed int       `json:"tokens_used"`
	Cost       float64   `json:"cost"`
	LatencyMS  int64     `json:"latency_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// ModelComparison is one row of a what-if ranking from CompareModels.
type ModelComparison struct {
	ModelID          string  `json:"model_id"`
	Name             string  `json:"name"`
	Provider         string  `json:"provider"`
	Score            float64 `json:"score"`
	EstimatedCost    float64 `json:"estimated_cost"`
	EstimatedLatency float64 `json:"estimated_latency_ms"`
}

// RouterStats aggregates the response history.
type RouterStats struct {
	TotalRequests int            `json:"total_requests"`
	TotalCost     float64        `json:"total_cost"`
	AvgLatencyMS  float64        `json:"avg_latency_ms"`
	ModelUsage    map[string]int `json:"model_usage"`
}
