package llm

import (
	"encoding/json"
	"fmt"
)

// openaiDialect speaks the OpenAI chat completions API.
type openaiDialect struct{}

const openaiDefaultEndpoint = "https://api.openai.com/v1/chat/completions"

func (openaiDialect) Name() string { return "openai" }

func (openaiDialect) URL(cfg ProviderConfig) (string, error) {
	if cfg.Endpoint != "" {
		return cfg.Endpoint, nil
	}
	return openaiDefaultEndpoint, nil
}

func (openaiDialect) Headers(cfg ProviderConfig) map[string]string {
	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + cfg.APIKey,
	}
	for k, v := range cfg.ExtraHeaders {
		headers[k] = v
	}
	return headers
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (openaiDialect) BuildRequest(cfg ProviderConfig, prompt string) (any, error) {
	return openaiRequest{
		Model:       cfg.Model,
		Messages:    []openaiMessage{{Role: "user", Content: prompt}},
		Temperature: completionTemperature,
	}, nil
}

func (d openaiDialect) ParseResponse(body []byte) (string, error) {
	var resp openaiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("openai: unmarshal response: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errEmptyResponse(d.Name())
	}
	return resp.Choices[0].Message.Content, nil
}
