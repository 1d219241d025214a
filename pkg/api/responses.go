package api

import "github.com/arbiter-ai/arbiter/internal/core/domain"

// InferResponse is the combined inference plus optional evaluation payload.
type InferResponse struct {
	Response   *domain.InferenceResponse `json:"response"`
	Decision   *domain.RoutingDecision   `json:"decision,omitempty"`
	Evaluation *domain.EvaluationResult  `json:"evaluation,omitempty"`
}

// ModelListResponse wraps the registry listing.
type ModelListResponse struct {
	Models []domain.ModelDescriptor `json:"models"`
	Count  int                      `json:"count"`
}

// ComparisonResponse wraps a what-if ranking.
type ComparisonResponse struct {
	TaskType string                   `json:"task_type"`
	Rankings []domain.ModelComparison `json:"rankings"`
}

// StatsResponse combines router and evaluation aggregates.
type StatsResponse struct {
	Router *domain.RouterStats `json:"router"`
	Eval   *domain.EvalStats   `json:"eval"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
