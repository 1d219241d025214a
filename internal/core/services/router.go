package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arbiter-ai/arbiter/internal/core/domain"
	"github.com/arbiter-ai/arbiter/internal/core/ports"
)

const maxAlternatives = 3

// RouterOptions tunes routing behavior beyond the reference defaults.
type RouterOptions struct {
	// StrictProviders makes a preferred-provider list that matches nothing a
	// hard NoEligibleModel failure instead of silently widening the pool.
	StrictProviders bool

	// MaxAttempts caps failover across the decision's ranked alternatives
	// when a backend call fails. 1 (the default) propagates the first
	// failure unchanged.
	MaxAttempts int

	// InferTimeout bounds each backend call. Zero means no engine-imposed
	// timeout beyond the caller's context.
	InferTimeout time.Duration
}

func (o RouterOptions) attempts() int {
	if o.MaxAttempts < 1 {
		return 1
	}
	return o.MaxAttempts
}

// RouterEngine selects the best-fit model for a request and optionally
// executes it. Explicit instances only; independent engines can coexist.
//
// Registries are read-mostly, so a single RWMutex covers the descriptor
// map, backend bindings, and the append-only response history.
type RouterEngine struct {
	logger    *zap.Logger
	sink      ports.EventSink
	estimator ports.TokenEstimator
	repo      ports.HistoryRepository
	opts      RouterOptions

	mu       sync.RWMutex
	order    []string
	models   map[string]domain.ModelDescriptor
	backends map[string]ports.Backend
	history  []domain.InferenceResponse
}

// NewRouterEngine constructs an engine. sink and repo may be nil; they are
// replaced by no-ops so call sites never branch.
func NewRouterEngine(logger *zap.Logger, sink ports.EventSink, repo ports.HistoryRepository, opts RouterOptions) *RouterEngine {
	if sink == nil {
		sink = ports.NopSink{}
	}
	return &RouterEngine{
		logger:    logger,
		sink:      sink,
		estimator: NewCharEstimator(),
		repo:      repo,
		opts:      opts,
		models:    make(map[string]domain.ModelDescriptor),
		backends:  make(map[string]ports.Backend),
	}
}

// SetTokenEstimator swaps the default character-count heuristic for a real
// tokenizer. Intended for wiring at startup, before traffic.
func (e *RouterEngine) SetTokenEstimator(est ports.TokenEstimator) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if est != nil {
		e.estimator = est
	}
}

// RegisterModel inserts or replaces a descriptor by ID. Replacement keeps
// the original insertion position so tie-breaking stays stable.
func (e *RouterEngine) RegisterModel(desc domain.ModelDescriptor) {
	e.mu.Lock()
	if _, exists := e.models[desc.ID]; !exists {
		e.order = append(e.order, desc.ID)
	}
	e.models[desc.ID] = desc
	e.mu.Unlock()

	e.logger.Info("model registered",
		zap.String("model", desc.ID),
		zap.String("provider", desc.Provider),
		zap.Float64("cost_per_1k", desc.CostPer1kTokens),
	)
	e.sink.Emit(ports.Event{
		Name:      ports.EventModelRegistered,
		Timestamp: time.Now(),
		Payload:   map[string]any{"model_id": desc.ID, "provider": desc.Provider},
	})
}

// BindBackend attaches a callable backend to a registered model. Models
// without a binding are descriptive only: Route ranks them, Infer fails.
func (e *RouterEngine) BindBackend(modelID string, b ports.Backend) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.backends[modelID] = b
}

// ListModels returns descriptors in registration order.
func (e *RouterEngine) ListModels() []domain.ModelDescriptor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked()
}

func (e *RouterEngine) snapshotLocked() []domain.ModelDescriptor {
	out := make([]domain.ModelDescriptor, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.models[id])
	}
	return out
}

// Route filters the registry against the request and returns the top-scoring
// candidate plus up to three ranked alternatives. It fails fast with
// NoEligibleModel when filtering leaves nothing; no partial decision is
// ever produced.
func (e *RouterEngine) Route(req domain.InferenceRequest) (*domain.RoutingDecision, error) {
	e.mu.RLock()
	pool := e.snapshotLocked()
	e.mu.RUnlock()

	candidates := filterByCapability(pool, req.TaskType)
	candidates = applyConstraints(candidates, req.Constraints)
	if req.Constraints != nil {
		candidates = applyProviderPreference(candidates, req.Constraints.PreferredProviders, e.opts.StrictProviders)
	}

	if len(candidates) == 0 {
		e.logger.Warn("routing found no eligible model", zap.String("task", string(req.TaskType)))
		return nil, domain.NoEligibleModelError(req.TaskType)
	}

	ranked := rankModels(candidates)
	top := ranked[0]

	alts := ranked[1:]
	if len(alts) > maxAlternatives {
		alts = alts[:maxAlternatives]
	}

	decision := &domain.RoutingDecision{
		Selected:     top.Model,
		Score:        top.Score,
		Reasoning:    buildReasoning(top, req.TaskType, len(candidates)),
		Alternatives: append([]domain.RankedModel(nil), alts...),
	}

	e.logger.Debug("routing decision",
		zap.String("task", string(req.TaskType)),
		zap.String("selected", top.Model.ID),
		zap.Float64("score", top.Score),
		zap.Int("alternatives", len(decision.Alternatives)),
	)
	return decision, nil
}

// Infer routes the request and executes the selected model's backend call.
// Backend failures propagate unchanged unless MaxAttempts > 1, in which case
// the engine cascades down the ranked alternatives and surfaces the last
// error once attempts are exhausted.
func (e *RouterEngine) Infer(ctx context.Context, req domain.InferenceRequest) (*domain.InferenceResponse, error) {
	decision, err := e.Route(req)
	if err != nil {
		return nil, err
	}

	candidates := append([]domain.RankedModel{{Model: decision.Selected, Score: decision.Score}}, decision.Alternatives...)
	attempts := e.opts.attempts()
	if attempts > len(candidates) {
		attempts = len(candidates)
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		resp, err := e.invoke(ctx, candidates[i].Model, req.Prompt)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if i+1 < attempts {
			e.logger.Warn("backend call failed, trying next ranked model",
				zap.String("model", candidates[i].Model.ID),
				zap.Error(err),
			)
		}
	}
	return nil, lastErr
}

// InferModel executes inference on one named model, bypassing routing.
// Benchmark runs use it to pin the model under test.
func (e *RouterEngine) InferModel(ctx context.Context, modelID, prompt string) (*domain.InferenceResponse, error) {
	e.mu.RLock()
	model, ok := e.models[modelID]
	e.mu.RUnlock()
	if !ok {
		return nil, domain.BackendError(modelID, errors.New("model not registered"))
	}
	return e.invoke(ctx, model, prompt)
}

func (e *RouterEngine) invoke(ctx context.Context, model domain.ModelDescriptor, prompt string) (*domain.InferenceResponse, error) {
	e.mu.RLock()
	backend := e.backends[model.ID]
	estimator := e.estimator
	e.mu.RUnlock()

	if backend == nil {
		return nil, domain.BackendError(model.ID, errors.New("no backend bound"))
	}

	if e.opts.InferTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.InferTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := backend.Generate(ctx, model.ID, prompt)
	latency := time.Since(start)
	if err != nil {
		return nil, domain.BackendError(model.ID, err)
	}

	tokens := result.TokensUsed
	if tokens == 0 {
		tokens = estimator.Estimate(prompt + result.Text)
	}

	resp := &domain.InferenceResponse{
		ID:         uuid.New().String(),
		ModelID:    model.ID,
		Text:       result.Text,
		TokensUsed: tokens,
		Cost:       float64(tokens) / 1000 * model.CostPer1kTokens,
		LatencyMS:  latency.Milliseconds(),
		Timestamp:  time.Now(),
	}

	e.mu.Lock()
	e.history = append(e.history, *resp)
	e.mu.Unlock()

	if e.repo != nil {
		if err := e.repo.SaveResponse(ctx, resp); err != nil {
			e.logger.Error("failed to persist inference response", zap.String("id", resp.ID), zap.Error(err))
		}
	}

	e.sink.Emit(ports.Event{
		Name:      ports.EventInferenceCompleted,
		Timestamp: time.Now(),
		Payload: map[string]any{
			"request_id": resp.ID,
			"model_id":   resp.ModelID,
			"tokens":     resp.TokensUsed,
			"cost":       resp.Cost,
			"latency_ms": resp.LatencyMS,
		},
	})
	return resp, nil
}

// CompareModels ranks every model capable of the task with estimated cost
// and latency, without executing anything. Used for what-if analysis.
func (e *RouterEngine) CompareModels(task domain.TaskType, prompt string) ([]domain.ModelComparison, error) {
	e.mu.RLock()
	pool := e.snapshotLocked()
	estimator := e.estimator
	e.mu.RUnlock()

	candidates := filterByCapability(pool, task)
	if len(candidates) == 0 {
		return nil, domain.NoEligibleModelError(task)
	}

	tokens := estimator.Estimate(prompt)
	ranked := rankModels(candidates)

	out := make([]domain.ModelComparison, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, domain.ModelComparison{
			ModelID:          r.Model.ID,
			Name:             r.Model.Name,
			Provider:         r.Model.Provider,
			Score:            r.Score,
			EstimatedCost:    float64(tokens) / 1000 * r.Model.CostPer1kTokens,
			EstimatedLatency: r.Model.AvgLatencyMS,
		})
	}
	return out, nil
}

// GetStats derives aggregates by scanning the response history.
func (e *RouterEngine) GetStats() domain.RouterStats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := domain.RouterStats{ModelUsage: make(map[string]int)}
	var totalLatency int64
	for _, r := range e.history {
		stats.TotalRequests++
		stats.TotalCost += r.Cost
		totalLatency += r.LatencyMS
		stats.ModelUsage[r.ModelID]++
	}
	if stats.TotalRequests > 0 {
		stats.AvgLatencyMS = float64(totalLatency) / float64(stats.TotalRequests)
	}
	return stats
}
