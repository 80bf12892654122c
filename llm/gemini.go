package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// geminiDialect speaks the Gemini generateContent API.
type geminiDialect struct{}

const geminiEndpointFormat = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"

func (geminiDialect) Name() string { return "gemini" }

func (geminiDialect) URL(cfg ProviderConfig) (string, error) {
	if cfg.Endpoint != "" {
		// Callers may template the model into a custom endpoint
		return strings.ReplaceAll(cfg.Endpoint, "{model}", cfg.Model), nil
	}
	if cfg.Model == "" {
		return "", fmt.Errorf("gemini: model is required")
	}
	return fmt.Sprintf(geminiEndpointFormat, cfg.Model), nil
}

func (geminiDialect) Headers(cfg ProviderConfig) map[string]string {
	headers := map[string]string{
		"Content-Type":   "application/json",
		"x-goog-api-key": cfg.APIKey,
	}
	for k, v := range cfg.ExtraHeaders {
		headers[k] = v
	}
	return headers
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (geminiDialect) BuildRequest(cfg ProviderConfig, prompt string) (any, error) {
	return geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{Temperature: completionTemperature},
	}, nil
}

func (d geminiDialect) ParseResponse(body []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("gemini: unmarshal response: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errEmptyResponse(d.Name())
	}
	text := resp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", errEmptyResponse(d.Name())
	}
	return text, nil
}
