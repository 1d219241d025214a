package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arbiter-ai/arbiter/internal/core/domain"
	"github.com/arbiter-ai/arbiter/internal/core/ports"
)

// MockBackend implements ports.Backend for testing
type MockBackend struct {
	mock.Mock
	ID string
}

func (m *MockBackend) Name() string { return m.ID }

func (m *MockBackend) Generate(ctx context.Context, upstreamID, prompt string) (*ports.BackendResult, error) {
	args := m.Called(ctx, upstreamID, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.BackendResult), args.Error(1)
}

// recordingSink captures emitted events in order.
type recordingSink struct {
	mu     sync.Mutex
	events []ports.Event
}

func (s *recordingSink) Emit(e ports.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, e := range s.events {
		out = append(out, e.Name)
	}
	return out
}

func newTestRouter(opts RouterOptions) *RouterEngine {
	return NewRouterEngine(zap.NewNop(), nil, nil, opts)
}

func qaModel(id, provider string, accuracy, cost, latency float64, ctx int) domain.ModelDescriptor {
	return domain.ModelDescriptor{
		ID:              id,
		Name:            id,
		Provider:        provider,
		Capabilities:    []domain.TaskType{domain.TaskQuestionAnswering},
		CostPer1kTokens: cost,
		AvgLatencyMS:    latency,
		AccuracyRating:  accuracy,
		ContextWindow:   ctx,
	}
}

func TestRoute_CapabilityFilter(t *testing.T) {
	engine := newTestRouter(RouterOptions{})
	engine.RegisterModel(qaModel("qa-model", "acme", 0.9, 0.01, 1000, 100000))

	summarizer := qaModel("summarizer", "acme", 0.9, 0.01, 1000, 100000)
	summarizer.Capabilities = []domain.TaskType{domain.TaskSummarization}
	engine.RegisterModel(summarizer)

	decision, err := engine.Route(domain.InferenceRequest{
		TaskType: domain.TaskQuestionAnswering,
		Prompt:   "What is the capital of France?",
	})
	require.NoError(t, err)
	assert.Equal(t, "qa-model", decision.Selected.ID)
	assert.Empty(t, decision.Alternatives)
}

func TestRoute_NoEligibleModel(t *testing.T) {
	engine := newTestRouter(RouterOptions{})
	engine.RegisterModel(qaModel("qa-model", "acme", 0.9, 0.01, 1000, 100000))

	_, err := engine.Route(domain.InferenceRequest{TaskType: domain.TaskTranslation, Prompt: "hola"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoEligibleModel)
	assert.Contains(t, err.Error(), "translation")
}

func TestRoute_ConstraintsHonored(t *testing.T) {
	engine := newTestRouter(RouterOptions{})
	engine.RegisterModel(qaModel("cheap", "acme", 0.80, 0.001, 400, 32000))
	engine.RegisterModel(qaModel("pricey", "acme", 0.97, 0.09, 3000, 200000))
	engine.RegisterModel(qaModel("middling", "other", 0.90, 0.01, 900, 128000))

	decision, err := engine.Route(domain.InferenceRequest{
		TaskType: domain.TaskQuestionAnswering,
		Prompt:   "q",
		Constraints: &domain.Constraints{
			MaxCost:      0.05,
			MaxLatencyMS: 1000,
			MinAccuracy:  0.85,
		},
	})
	require.NoError(t, err)

	for _, ranked := range append([]domain.RankedModel{{Model: decision.Selected}}, decision.Alternatives...) {
		assert.LessOrEqual(t, ranked.Model.CostPer1kTokens, 0.05)
		assert.LessOrEqual(t, ranked.Model.AvgLatencyMS, 1000.0)
		assert.GreaterOrEqual(t, ranked.Model.AccuracyRating, 0.85)
	}
	assert.Equal(t, "middling", decision.Selected.ID)
}

func TestRoute_PreferredProviderRelaxedWhenEmpty(t *testing.T) {
	engine := newTestRouter(RouterOptions{})
	engine.RegisterModel(qaModel("model-a", "acme", 0.9, 0.01, 1000, 100000))

	decision, err := engine.Route(domain.InferenceRequest{
		TaskType:    domain.TaskQuestionAnswering,
		Prompt:      "q",
		Constraints: &domain.Constraints{PreferredProviders: []string{"nonexistent"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "model-a", decision.Selected.ID)
}

func TestRoute_PreferredProviderStrictMode(t *testing.T) {
	engine := newTestRouter(RouterOptions{StrictProviders: true})
	engine.RegisterModel(qaModel("model-a", "acme", 0.9, 0.01, 1000, 100000))

	_, err := engine.Route(domain.InferenceRequest{
		TaskType:    domain.TaskQuestionAnswering,
		Prompt:      "q",
		Constraints: &domain.Constraints{PreferredProviders: []string{"nonexistent"}},
	})
	assert.ErrorIs(t, err, domain.ErrNoEligibleModel)
}

func TestRoute_TwoModelScenario(t *testing.T) {
	engine := newTestRouter(RouterOptions{})
	engine.RegisterModel(qaModel("model-a", "acme", 0.95, 0.01, 2000, 128000))
	engine.RegisterModel(qaModel("model-b", "other", 0.90, 0.0001, 800, 1000000))

	decision, err := engine.Route(domain.InferenceRequest{
		TaskType: domain.TaskQuestionAnswering,
		Prompt:   "q",
	})
	require.NoError(t, err)

	// B dominates on cost, latency, and context window despite the lower
	// accuracy rating: 36 + 29.94 + 16.8 + 10 vs A's 38 + 24 + 12 + 6.4.
	assert.Equal(t, "model-b", decision.Selected.ID)
	assert.InDelta(t, 92.74, decision.Score, 0.01)
	require.Len(t, decision.Alternatives, 1)
	assert.Equal(t, "model-a", decision.Alternatives[0].Model.ID)
	assert.InDelta(t, 80.4, decision.Alternatives[0].Score, 0.01)
}

func TestScoring_Monotonic(t *testing.T) {
	base := qaModel("m", "acme", 0.80, 0.02, 1500, 64000)
	baseScore := scoreModel(base)

	better := base
	better.AccuracyRating = 0.95
	assert.GreaterOrEqual(t, scoreModel(better), baseScore)

	cheaper := base
	cheaper.CostPer1kTokens = 0.001
	assert.GreaterOrEqual(t, scoreModel(cheaper), baseScore)
}

func TestRoute_AlternativesCapped(t *testing.T) {
	engine := newTestRouter(RouterOptions{})
	for _, id := range []string{"m1", "m2", "m3", "m4", "m5", "m6"} {
		engine.RegisterModel(qaModel(id, "acme", 0.9, 0.01, 1000, 100000))
	}

	decision, err := engine.Route(domain.InferenceRequest{TaskType: domain.TaskQuestionAnswering, Prompt: "q"})
	require.NoError(t, err)
	assert.Len(t, decision.Alternatives, 3)
	// ties break by registration order on a stable sort
	assert.Equal(t, "m1", decision.Selected.ID)
}

func TestCompareModels_RoundTrip(t *testing.T) {
	engine := newTestRouter(RouterOptions{})
	engine.RegisterModel(qaModel("fresh", "acme", 0.9, 0.01, 1000, 100000))

	rankings, err := engine.CompareModels(domain.TaskQuestionAnswering, "some prompt")
	require.NoError(t, err)

	seen := 0
	for _, r := range rankings {
		if r.ModelID == "fresh" {
			seen++
			assert.Greater(t, r.EstimatedCost, 0.0)
			assert.Equal(t, 1000.0, r.EstimatedLatency)
		}
	}
	assert.Equal(t, 1, seen)
}

func TestInfer_RecordsUsage(t *testing.T) {
	sink := &recordingSink{}
	engine := NewRouterEngine(zap.NewNop(), sink, nil, RouterOptions{})
	engine.RegisterModel(qaModel("model-a", "acme", 0.9, 0.02, 1000, 100000))

	backend := &MockBackend{ID: "acme"}
	backend.On("Generate", mock.Anything, "model-a", "What is 2+2?").
		Return(&ports.BackendResult{Text: "2+2 is 4"}, nil)
	engine.BindBackend("model-a", backend)

	resp, err := engine.Infer(context.Background(), domain.InferenceRequest{
		TaskType: domain.TaskQuestionAnswering,
		Prompt:   "What is 2+2?",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "model-a", resp.ModelID)

	// 12 prompt chars + 8 response chars at 4 chars/token, rounded up
	assert.Equal(t, 5, resp.TokensUsed)
	assert.InDelta(t, float64(resp.TokensUsed)/1000*0.02, resp.Cost, 1e-12)

	stats := engine.GetStats()
	assert.Equal(t, 1, stats.TotalRequests)
	assert.Equal(t, 1, stats.ModelUsage["model-a"])
	assert.Contains(t, sink.names(), ports.EventInferenceCompleted)
	backend.AssertExpectations(t)
}

func TestInfer_BackendFailurePropagates(t *testing.T) {
	engine := newTestRouter(RouterOptions{})
	engine.RegisterModel(qaModel("model-a", "acme", 0.9, 0.02, 1000, 100000))

	backend := &MockBackend{ID: "acme"}
	backend.On("Generate", mock.Anything, "model-a", mock.Anything).
		Return(nil, errors.New("upstream 500"))
	engine.BindBackend("model-a", backend)

	_, err := engine.Infer(context.Background(), domain.InferenceRequest{
		TaskType: domain.TaskQuestionAnswering,
		Prompt:   "q",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBackendFailure)
	assert.Contains(t, err.Error(), "upstream 500")
	assert.Equal(t, 0, engine.GetStats().TotalRequests)
}

func TestInfer_FailoverToAlternative(t *testing.T) {
	engine := newTestRouter(RouterOptions{MaxAttempts: 2})
	engine.RegisterModel(qaModel("primary", "acme", 0.99, 0.001, 100, 1000000))
	engine.RegisterModel(qaModel("fallback", "other", 0.85, 0.01, 2000, 64000))

	failing := &MockBackend{ID: "acme"}
	failing.On("Generate", mock.Anything, "primary", mock.Anything).
		Return(nil, errors.New("quota exceeded"))
	engine.BindBackend("primary", failing)

	working := &MockBackend{ID: "other"}
	working.On("Generate", mock.Anything, "fallback", mock.Anything).
		Return(&ports.BackendResult{Text: "ok", TokensUsed: 7}, nil)
	engine.BindBackend("fallback", working)

	resp, err := engine.Infer(context.Background(), domain.InferenceRequest{
		TaskType: domain.TaskQuestionAnswering,
		Prompt:   "q",
	})
	require.NoError(t, err)
	assert.Equal(t, "fallback", resp.ModelID)
	assert.Equal(t, 7, resp.TokensUsed)
	failing.AssertExpectations(t)
	working.AssertExpectations(t)
}

func TestInfer_NoBackendBound(t *testing.T) {
	engine := newTestRouter(RouterOptions{})
	engine.RegisterModel(qaModel("catalog-only", "acme", 0.9, 0.01, 1000, 100000))

	_, err := engine.Infer(context.Background(), domain.InferenceRequest{
		TaskType: domain.TaskQuestionAnswering,
		Prompt:   "q",
	})
	assert.ErrorIs(t, err, domain.ErrBackendFailure)
}

func TestInferModel_BypassesRouting(t *testing.T) {
	engine := newTestRouter(RouterOptions{})
	engine.RegisterModel(qaModel("strong", "acme", 0.95, 0.01, 500, 100000))
	engine.RegisterModel(qaModel("weak", "acme", 0.5, 0.01, 500, 100000))

	backend := &MockBackend{ID: "weak-backend"}
	backend.On("Generate", mock.Anything, "weak", "q").
		Return(&ports.BackendResult{Text: "answer"}, nil)
	engine.BindBackend("weak", backend)

	resp, err := engine.InferModel(context.Background(), "weak", "q")
	require.NoError(t, err)
	assert.Equal(t, "weak", resp.ModelID)
	backend.AssertExpectations(t)

	_, err = engine.InferModel(context.Background(), "missing", "q")
	assert.ErrorIs(t, err, domain.ErrBackendFailure)
}

func TestRegisterModel_ReplaceKeepsOrder(t *testing.T) {
	engine := newTestRouter(RouterOptions{})
	engine.RegisterModel(qaModel("m1", "acme", 0.9, 0.01, 1000, 100000))
	engine.RegisterModel(qaModel("m2", "acme", 0.9, 0.01, 1000, 100000))

	updated := qaModel("m1", "acme", 0.95, 0.01, 1000, 100000)
	engine.RegisterModel(updated)

	models := engine.ListModels()
	require.Len(t, models, 2)
	assert.Equal(t, "m1", models[0].ID)
	assert.Equal(t, 0.95, models[0].AccuracyRating)
}

func TestCharEstimator(t *testing.T) {
	est := NewCharEstimator()
	assert.Equal(t, 0, est.Estimate(""))
	assert.Equal(t, 1, est.Estimate("abc"))
	assert.Equal(t, 1, est.Estimate("abcd"))
	assert.Equal(t, 2, est.Estimate("abcde"))
}
