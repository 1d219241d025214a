package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/arbiter-ai/arbiter/internal/core/domain"
)

// Scoring reference points. A model at or above the reference cost scores
// zero on the cost-efficiency term; latency and context window saturate at
// their ceilings.
const (
	referenceCostPer1k = 0.05
	latencyCeilingMS   = 5000.0
	contextCeiling     = 200000.0
)

// scoreModel computes the weighted multi-criteria routing score out of 100.
func scoreModel(m domain.ModelDescriptor) float64 {
	accuracy := m.AccuracyRating * 40
	costEfficiency := math.Max(0, 1-m.CostPer1kTokens/referenceCostPer1k) * 30
	latency := math.Max(0, 1-m.AvgLatencyMS/latencyCeilingMS) * 20
	contextWindow := math.Min(float64(m.ContextWindow)/contextCeiling, 1) * 10
	return accuracy + costEfficiency + latency + contextWindow
}

func filterByCapability(models []domain.ModelDescriptor, task domain.TaskType) []domain.ModelDescriptor {
	out := make([]domain.ModelDescriptor, 0, len(models))
	for _, m := range models {
		if m.Supports(task) {
			out = append(out, m)
		}
	}
	return out
}

// applyConstraints applies the numeric constraint filters in sequence.
func applyConstraints(models []domain.ModelDescriptor, c *domain.Constraints) []domain.ModelDescriptor {
	if c == nil {
		return models
	}

	out := make([]domain.ModelDescriptor, 0, len(models))
	for _, m := range models {
		if c.MaxCost > 0 && m.CostPer1kTokens > c.MaxCost {
			continue
		}
		if c.MaxLatencyMS > 0 && m.AvgLatencyMS > c.MaxLatencyMS {
			continue
		}
		if c.MinAccuracy > 0 && m.AccuracyRating < c.MinAccuracy {
			continue
		}
		out = append(out, m)
	}
	return out
}

// applyProviderPreference restricts candidates to the preferred providers.
// When strict is false and the restriction would empty the pool, the filter
// is skipped and the full pool is returned, matching "preferred-first, else
// any" semantics. When strict is true an empty restriction stands, so the
// caller fails with NoEligibleModel instead of silently substituting a
// provider.
func applyProviderPreference(models []domain.ModelDescriptor, preferred []string, strict bool) []domain.ModelDescriptor {
	if len(preferred) == 0 {
		return models
	}

	allowed := make(map[string]bool, len(preferred))
	for _, p := range preferred {
		allowed[p] = true
	}

	out := make([]domain.ModelDescriptor, 0, len(models))
	for _, m := range models {
		if allowed[m.Provider] {
			out = append(out, m)
		}
	}

	if len(out) == 0 && !strict {
		return models
	}
	return out
}

// rankModels scores every candidate and sorts descending. The sort is stable
// so ties keep registry insertion order.
func rankModels(models []domain.ModelDescriptor) []domain.RankedModel {
	ranked := make([]domain.RankedModel, 0, len(models))
	for _, m := range models {
		ranked = append(ranked, domain.RankedModel{Model: m, Score: scoreModel(m)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func buildReasoning(selected domain.RankedModel, task domain.TaskType, candidates int) string {
	return fmt.Sprintf(
		"selected %s (%s) with score %.1f/100: best of %d candidates for %s (accuracy %.2f, $%.4f/1k tokens, avg %dms)",
		selected.Model.ID,
		selected.Model.Provider,
		selected.Score,
		candidates,
		task,
		selected.Model.AccuracyRating,
		selected.Model.CostPer1kTokens,
		int(selected.Model.AvgLatencyMS),
	)
}
