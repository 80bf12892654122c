package llm

import (
	"encoding/json"
	"fmt"
)

// anthropicDialect speaks the Anthropic messages API.
type anthropicDialect struct{}

const (
	anthropicDefaultEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion         = "2023-06-01"
	anthropicMaxTokens       = 8192
)

func (anthropicDialect) Name() string { return "anthropic" }

func (anthropicDialect) URL(cfg ProviderConfig) (string, error) {
	if cfg.Endpoint != "" {
		return cfg.Endpoint, nil
	}
	return anthropicDefaultEndpoint, nil
}

func (anthropicDialect) Headers(cfg ProviderConfig) map[string]string {
	headers := map[string]string{
		"Content-Type":      "application/json",
		"x-api-key":         cfg.APIKey,
		"anthropic-version": anthropicVersion,
	}
	for k, v := range cfg.ExtraHeaders {
		headers[k] = v
	}
	return headers
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (anthropicDialect) BuildRequest(cfg ProviderConfig, prompt string) (any, error) {
	return anthropicRequest{
		Model:       cfg.Model,
		MaxTokens:   anthropicMaxTokens,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
		Temperature: completionTemperature,
	}, nil
}

func (d anthropicDialect) ParseResponse(body []byte) (string, error) {
	var resp anthropicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("anthropic: unmarshal response: %w", err)
	}
	if len(resp.Content) == 0 || resp.Content[0].Text == "" {
		return "", errEmptyResponse(d.Name())
	}
	return resp.Content[0].Text, nil
}
