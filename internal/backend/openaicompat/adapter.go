// Package openaicompat adapts any OpenAI-compatible chat completion API
// to the inference backend port. Most hosted providers and local runtimes
// expose this wire shape.
package openaicompat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/arbiter-ai/arbiter/internal/config"
	"github.com/arbiter-ai/arbiter/internal/core/ports"
	"github.com/arbiter-ai/arbiter/internal/httpclient"
)

type Adapter struct {
	cfg    config.BackendConfig
	client httpclient.HTTPClient
}

func NewAdapter(cfg config.BackendConfig) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	return &Adapter{
		cfg:    cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (a *Adapter) Name() string {
	return a.cfg.ID
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// upstreamErrorResponse mirrors the standard OpenAI error shape
type upstreamErrorResponse struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

func (a *Adapter) Generate(ctx context.Context, upstreamID, prompt string) (*ports.BackendResult, error) {
	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(a.cfg.BaseURL, "/"))
	headers := map[string]string{
		"Authorization": "Bearer " + a.cfg.APIKey,
	}

	req := chatRequest{
		Model:    upstreamID,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}

	var resp chatResponse
	if err := httpclient.SendRequest(ctx, a.client, "POST", url, headers, req, &resp); err != nil {
		return nil, a.handleUpstreamError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("upstream returned no choices for model %s", upstreamID)
	}

	return &ports.BackendResult{
		Text:       resp.Choices[0].Message.Content,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

func (a *Adapter) handleUpstreamError(err error) error {
	var upstreamErr *httpclient.UpstreamError
	if !errors.As(err, &upstreamErr) {
		return err
	}

	var apiErr upstreamErrorResponse
	if jsonErr := json.Unmarshal(upstreamErr.Body, &apiErr); jsonErr != nil || apiErr.Error.Message == "" {
		return err
	}

	return fmt.Errorf("upstream %d (%s): %s: %w",
		upstreamErr.StatusCode, apiErr.Error.Type, apiErr.Error.Message, err)
}
