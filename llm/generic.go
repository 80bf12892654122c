package llm

import (
	"encoding/json"
	"fmt"
)

// genericDialect covers self-hosted or unlisted providers. It sends an
// OpenAI-compatible request (the de facto standard for chat endpoints) and
// tolerates all three common response shapes when reading the reply.
type genericDialect struct{}

func (genericDialect) Name() string { return "generic" }

func (genericDialect) URL(cfg ProviderConfig) (string, error) {
	if cfg.Endpoint == "" {
		return "", fmt.Errorf("generic provider %q: endpoint is required", cfg.Name())
	}
	return cfg.Endpoint, nil
}

func (genericDialect) Headers(cfg ProviderConfig) map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + cfg.APIKey
	}
	for k, v := range cfg.ExtraHeaders {
		headers[k] = v
	}
	return headers
}

func (genericDialect) BuildRequest(cfg ProviderConfig, prompt string) (any, error) {
	return openaiRequest{
		Model:       cfg.Model,
		Messages:    []openaiMessage{{Role: "user", Content: prompt}},
		Temperature: completionTemperature,
	}, nil
}

// genericResponse accepts choices[].message.content (OpenAI style),
// candidates[].content.parts[].text (Gemini style), and content[].text
// (Anthropic style) in one shape.
type genericResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (d genericDialect) ParseResponse(body []byte) (string, error) {
	var resp genericResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("generic: unmarshal response: %w", err)
	}
	if len(resp.Choices) > 0 && resp.Choices[0].Message.Content != "" {
		return resp.Choices[0].Message.Content, nil
	}
	if len(resp.Candidates) > 0 && len(resp.Candidates[0].Content.Parts) > 0 &&
		resp.Candidates[0].Content.Parts[0].Text != "" {
		return resp.Candidates[0].Content.Parts[0].Text, nil
	}
	if len(resp.Content) > 0 && resp.Content[0].Text != "" {
		return resp.Content[0].Text, nil
	}
	return "", errEmptyResponse(d.Name())
}
