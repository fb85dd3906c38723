package gateway

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/moeghashim/X-RAY/internal/config"
	"github.com/moeghashim/X-RAY/internal/logging"
	"github.com/moeghashim/X-RAY/internal/store"
)

//go:embed prompts/learning.md
var learningPrompt string

//go:embed prompts/news.md
var newsPrompt string

//go:embed prompts/inspiration.md
var inspirationPrompt string

// OpenAI implements Generator against the OpenAI chat completions API.
//
// One instance is constructed at process start and shared; requests pass
// through a rate limiter so a burst of submissions doesn't trip API limits.
type OpenAI struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
	settings *Settings
}

// NewOpenAI creates an OpenAI-backed Generator.
func NewOpenAI(cfg config.ModelSettings, settings *Settings) *OpenAI {
	model := cfg.Model
	if model == "" {
		model = "gpt-5-mini"
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1/chat/completions"
	}
	if settings == nil {
		settings, _ = parseSettings(defaultSettings)
	}
	return &OpenAI{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		limiter:  rate.NewLimiter(rate.Every(time.Second), 3),
		settings: settings,
	}
}

// Available returns true when an API key is configured.
func (o *OpenAI) Available() bool {
	return o.apiKey != ""
}

// GenerateLearning implements Generator.
func (o *OpenAI) GenerateLearning(ctx context.Context, text string) ([]store.LearningStep, error) {
	raw, err := o.generate(ctx, learningPrompt, text, o.settings.Learning)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Steps []store.LearningStep `json:"steps"`
	}
	if err := decodeJSON(raw, &payload); err != nil {
		return nil, err
	}
	if len(payload.Steps) != 4 {
		logging.Warn("Learning response had wrong step count", "steps", len(payload.Steps))
		return nil, ErrMalformedResponse
	}
	return payload.Steps, nil
}

// GenerateNews implements Generator.
func (o *OpenAI) GenerateNews(ctx context.Context, text string) (*store.NewsData, error) {
	raw, err := o.generate(ctx, newsPrompt, text, o.settings.News)
	if err != nil {
		return nil, err
	}

	var data store.NewsData
	if err := decodeJSON(raw, &data); err != nil {
		return nil, err
	}
	if data.Summary == "" {
		return nil, ErrMalformedResponse
	}
	return &data, nil
}

// GenerateInspiration implements Generator.
func (o *OpenAI) GenerateInspiration(ctx context.Context, text string) (*store.InspirationData, error) {
	raw, err := o.generate(ctx, inspirationPrompt, text, o.settings.Inspiration)
	if err != nil {
		return nil, err
	}

	var data store.InspirationData
	if err := decodeJSON(raw, &data); err != nil {
		return nil, err
	}
	if data.SuggestedTweet == "" && data.ContextAnalysis == "" {
		return nil, ErrMalformedResponse
	}
	return &data, nil
}

// generate performs one chat completion call and returns the raw content.
func (o *OpenAI) generate(ctx context.Context, systemPrompt, text string, agent AgentSettings) (string, error) {
	if !o.Available() {
		return "", fmt.Errorf("OPENAI_API_KEY is not configured")
	}

	if err := o.limiter.Wait(ctx); err != nil {
		return "", err
	}

	logging.Debug("Generation request starting", "model", o.model)

	maxTokens := agent.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	body := map[string]interface{}{
		"model": o.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": "Content to analyze:\n" + text},
		},
		"response_format":       map[string]string{"type": "json_object"},
		"max_completion_tokens": maxTokens,
	}
	if agent.Temperature != 0 {
		body["temperature"] = agent.Temperature
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", o.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logging.Error("Generation API error", "status", resp.StatusCode, "body", string(respBody))
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Model string `json:"model"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", ErrMalformedResponse
	}

	content := result.Choices[0].Message.Content
	if result.Choices[0].FinishReason == "length" {
		logging.Warn("Generation response truncated",
			"model", result.Model,
			"max_tokens", maxTokens,
			"content_length", len(content))
	}

	logging.Info("Generation response",
		"model", result.Model,
		"content_length", len(content),
		"finish_reason", result.Choices[0].FinishReason)

	return content, nil
}
