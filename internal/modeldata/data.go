// Package modeldata ships a starter catalog of model descriptors so a fresh
// deployment can route before any operator registration happens.
package modeldata

import "github.com/arbiter-ai/arbiter/internal/core/domain"

var KnownModels = []domain.ModelDescriptor{
	// OpenAI
	{
		ID:       "gpt-4o",
		Name:     "GPT-4o",
		Provider: "openai",
		Capabilities: []domain.TaskType{
			domain.TaskTextGeneration, domain.TaskSummarization, domain.TaskQuestionAnswering,
			domain.TaskCodeGeneration, domain.TaskTranslation, domain.TaskExtraction,
			domain.TaskAnalysis,
		},
		CostPer1kTokens:   0.005,
		MaxOutputTokens:   16384,
		AvgLatencyMS:      900,
		AccuracyRating:    0.92,
		ContextWindow:     128000,
		SupportsStreaming: true,
	},
	{
		ID:       "gpt-4o-mini",
		Name:     "GPT-4o mini",
		Provider: "openai",
		Capabilities: []domain.TaskType{
			domain.TaskTextGeneration, domain.TaskSummarization, domain.TaskQuestionAnswering,
			domain.TaskClassification, domain.TaskTranslation,
		},
		CostPer1kTokens:   0.00015,
		MaxOutputTokens:   16384,
		AvgLatencyMS:      500,
		AccuracyRating:    0.85,
		ContextWindow:     128000,
		SupportsStreaming: true,
		SupportsFineTune:  true,
	},

	// Anthropic
	{
		ID:       "claude-3-5-sonnet",
		Name:     "Claude 3.5 Sonnet",
		Provider: "anthropic",
		Capabilities: []domain.TaskType{
			domain.TaskTextGeneration, domain.TaskSummarization, domain.TaskQuestionAnswering,
			domain.TaskCodeGeneration, domain.TaskExtraction, domain.TaskAnalysis,
		},
		CostPer1kTokens:   0.003,
		MaxOutputTokens:   8192,
		AvgLatencyMS:      1100,
		AccuracyRating:    0.93,
		ContextWindow:     200000,
		SupportsStreaming: true,
	},
	{
		ID:       "claude-3-haiku",
		Name:     "Claude 3 Haiku",
		Provider: "anthropic",
		Capabilities: []domain.TaskType{
			domain.TaskTextGeneration, domain.TaskSummarization, domain.TaskClassification,
			domain.TaskQuestionAnswering,
		},
		CostPer1kTokens:   0.00025,
		MaxOutputTokens:   4096,
		AvgLatencyMS:      350,
		AccuracyRating:    0.80,
		ContextWindow:     200000,
		SupportsStreaming: true,
	},

	// Google
	{
		ID:       "gemini-1.5-pro",
		Name:     "Gemini 1.5 Pro",
		Provider: "google",
		Capabilities: []domain.TaskType{
			domain.TaskTextGeneration, domain.TaskSummarization, domain.TaskQuestionAnswering,
			domain.TaskCodeGeneration, domain.TaskTranslation, domain.TaskAnalysis,
		},
		CostPer1kTokens:   0.00125,
		MaxOutputTokens:   8192,
		AvgLatencyMS:      1300,
		AccuracyRating:    0.90,
		ContextWindow:     200000,
		SupportsStreaming: true,
	},
	{
		ID:       "gemini-1.5-flash",
		Name:     "Gemini 1.5 Flash",
		Provider: "google",
		Capabilities: []domain.TaskType{
			domain.TaskTextGeneration, domain.TaskSummarization, domain.TaskClassification,
			domain.TaskTranslation,
		},
		CostPer1kTokens:   0.000075,
		MaxOutputTokens:   8192,
		AvgLatencyMS:      400,
		AccuracyRating:    0.82,
		ContextWindow:     200000,
		SupportsStreaming: true,
		SupportsFineTune:  true,
	},
}
