package api

import "github.com/arbiter-ai/arbiter/internal/core/domain"

// ConstraintsBody narrows routing candidates. All fields optional.
type ConstraintsBody struct {
	MaxCost            float64  `json:"max_cost,omitempty" binding:"omitempty,gt=0"`
	MaxLatencyMS       float64  `json:"max_latency_ms,omitempty" binding:"omitempty,gt=0"`
	MinAccuracy        float64  `json:"min_accuracy,omitempty" binding:"omitempty,gte=0,lte=1"`
	PreferredProviders []string `json:"preferred_providers,omitempty"`
}

func (c *ConstraintsBody) ToDomain() *domain.Constraints {
	if c == nil {
		return nil
	}
	return &domain.Constraints{
		MaxCost:            c.MaxCost,
		MaxLatencyMS:       c.MaxLatencyMS,
		MinAccuracy:        c.MinAccuracy,
		PreferredProviders: c.PreferredProviders,
	}
}

// RouteRequest asks for a routing decision without executing inference.
type RouteRequest struct {
	TaskType    string           `json:"task_type" binding:"required"`
	Prompt      string           `json:"prompt" binding:"required"`
	Context     string           `json:"context,omitempty"`
	Constraints *ConstraintsBody `json:"constraints,omitempty"`
}

// InferRequest routes and executes inference in one call.
type InferRequest struct {
	TaskType    string           `json:"task_type" binding:"required"`
	Prompt      string           `json:"prompt" binding:"required"`
	Context     string           `json:"context,omitempty"`
	Constraints *ConstraintsBody `json:"constraints,omitempty"`

	// Evaluate attaches a post-hoc evaluation of the response.
	Evaluate    bool     `json:"evaluate,omitempty"`
	Metrics     []string `json:"metrics,omitempty"`
	GroundTruth string   `json:"ground_truth,omitempty"`
}

// RegisterModelRequest adds or replaces a model descriptor.
type RegisterModelRequest struct {
	ID                string   `json:"id" binding:"required"`
	Name              string   `json:"name" binding:"required"`
	Provider          string   `json:"provider" binding:"required"`
	Capabilities      []string `json:"capabilities" binding:"required,min=1"`
	CostPer1kTokens   float64  `json:"cost_per_1k_tokens" binding:"gte=0"`
	MaxOutputTokens   int      `json:"max_output_tokens" binding:"gte=0"`
	AvgLatencyMS      float64  `json:"avg_latency_ms" binding:"gte=0"`
	AccuracyRating    float64  `json:"accuracy_rating" binding:"gte=0,lte=1"`
	ContextWindow     int      `json:"context_window" binding:"gte=0"`
	SupportsStreaming bool     `json:"supports_streaming,omitempty"`
	SupportsFineTune  bool     `json:"supports_fine_tune,omitempty"`
}

func (r *RegisterModelRequest) ToDomain() (domain.ModelDescriptor, error) {
	caps := make([]domain.TaskType, 0, len(r.Capabilities))
	for _, raw := range r.Capabilities {
		t, err := domain.ParseTaskType(raw)
		if err != nil {
			return domain.ModelDescriptor{}, err
		}
		caps = append(caps, t)
	}
	return domain.ModelDescriptor{
		ID:                r.ID,
		Name:              r.Name,
		Provider:          r.Provider,
		Capabilities:      caps,
		CostPer1kTokens:   r.CostPer1kTokens,
		MaxOutputTokens:   r.MaxOutputTokens,
		AvgLatencyMS:      r.AvgLatencyMS,
		AccuracyRating:    r.AccuracyRating,
		ContextWindow:     r.ContextWindow,
		SupportsStreaming: r.SupportsStreaming,
		SupportsFineTune:  r.SupportsFineTune,
	}, nil
}

// EvaluateRequest scores an existing request/response pair.
type EvaluateRequest struct {
	RequestID   string   `json:"request_id" binding:"required"`
	Input       string   `json:"input" binding:"required"`
	Output      string   `json:"output" binding:"required"`
	GroundTruth string   `json:"ground_truth,omitempty"`
	Metrics     []string `json:"metrics,omitempty"`
}

// CheckTextRequest feeds text through the safety or bias pipeline.
type CheckTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// BenchmarkRequest runs a registered test battery against a model.
type BenchmarkRequest struct {
	BenchmarkID string   `json:"benchmark_id" binding:"required"`
	ModelID     string   `json:"model_id" binding:"required"`
	TestCases   []string `json:"test_cases,omitempty"`
}

// RegisterTestCaseRequest adds a test case to the battery.
type RegisterTestCaseRequest struct {
	ID             string            `json:"id" binding:"required"`
	Category       string            `json:"category" binding:"required"`
	Input          string            `json:"input" binding:"required"`
	ExpectedOutput string            `json:"expected_output,omitempty"`
	Constraints    map[string]string `json:"constraints,omitempty"`
}

func (r *RegisterTestCaseRequest) ToDomain() domain.TestCase {
	return domain.TestCase{
		ID:             r.ID,
		Category:       r.Category,
		Input:          r.Input,
		ExpectedOutput: r.ExpectedOutput,
		Constraints:    r.Constraints,
	}
}
