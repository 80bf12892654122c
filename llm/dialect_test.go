package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	assert.Equal(t, "openai", DialectFor(ProviderConfig{ID: "openai"}).Name())
	assert.Equal(t, "gemini", DialectFor(ProviderConfig{ID: "gemini"}).Name())
	assert.Equal(t, "anthropic", DialectFor(ProviderConfig{ID: "anthropic"}).Name())
	assert.Equal(t, "generic", DialectFor(ProviderConfig{ID: "ollama"}).Name())
}

func TestProviderConfigName(t *testing.T) {
	assert.Equal(t, "OpenAI", ProviderConfig{ID: "openai", DisplayName: "OpenAI"}.Name())
	assert.Equal(t, "openai", ProviderConfig{ID: "openai"}.Name())
}

func TestProviderConfigTimeout(t *testing.T) {
	assert.Equal(t, "10m0s", ProviderConfig{}.Timeout().String())
	assert.Equal(t, "3m0s", ProviderConfig{TimeoutMinutes: 3}.Timeout().String())
}

func TestOpenAIDialect(t *testing.T) {
	d := openaiDialect{}
	cfg := ProviderConfig{ID: "openai", APIKey: "sk-test", Model: "gpt-4o-mini"}

	url, err := d.URL(cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", url)

	headers := d.Headers(cfg)
	assert.Equal(t, "Bearer sk-test", headers["Authorization"])

	body, err := d.BuildRequest(cfg, "hello")
	require.NoError(t, err)
	req := body.(openaiRequest)
	assert.Equal(t, "gpt-4o-mini", req.Model)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "user", req.Messages[0].Role)
	assert.Equal(t, "hello", req.Messages[0].Content)

	text, err := d.ParseResponse([]byte(`{"choices":[{"message":{"content":"hi there"}}]}`))
	require.NoError(t, err)
	assert.Equal(t, "hi there", text)

	_, err = d.ParseResponse([]byte(`{"choices":[]}`))
	assert.Error(t, err)
}

func TestGeminiDialect(t *testing.T) {
	d := geminiDialect{}
	cfg := ProviderConfig{ID: "gemini", APIKey: "g-test", Model: "gemini-2.0-flash"}

	url, err := d.URL(cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent", url)

	_, err = d.URL(ProviderConfig{ID: "gemini"})
	assert.Error(t, err, "model is required for the default endpoint")

	url, err = d.URL(ProviderConfig{ID: "gemini", Model: "m1", Endpoint: "http://localhost/v1/{model}:gen"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/v1/m1:gen", url)

	headers := d.Headers(cfg)
	assert.Equal(t, "g-test", headers["x-goog-api-key"])

	text, err := d.ParseResponse([]byte(`{"candidates":[{"content":{"parts":[{"text":"reply"}]}}]}`))
	require.NoError(t, err)
	assert.Equal(t, "reply", text)

	_, err = d.ParseResponse([]byte(`{"candidates":[]}`))
	assert.Error(t, err)
}

func TestAnthropicDialect(t *testing.T) {
	d := anthropicDialect{}
	cfg := ProviderConfig{ID: "anthropic", APIKey: "a-test", Model: "claude-sonnet-4"}

	url, err := d.URL(cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://api.anthropic.com/v1/messages", url)

	headers := d.Headers(cfg)
	assert.Equal(t, "a-test", headers["x-api-key"])
	assert.Equal(t, "2023-06-01", headers["anthropic-version"])

	body, err := d.BuildRequest(cfg, "hello")
	require.NoError(t, err)
	req := body.(anthropicRequest)
	assert.Equal(t, anthropicMaxTokens, req.MaxTokens)

	text, err := d.ParseResponse([]byte(`{"content":[{"type":"text","text":"reply"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "reply", text)
}

func TestGenericDialect(t *testing.T) {
	d := genericDialect{}

	_, err := d.URL(ProviderConfig{ID: "local"})
	assert.Error(t, err, "generic dialect requires an endpoint")

	url, err := d.URL(ProviderConfig{ID: "local", Endpoint: "http://localhost:11434/v1/chat/completions"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434/v1/chat/completions", url)

	headers := d.Headers(ProviderConfig{ID: "local"})
	_, hasAuth := headers["Authorization"]
	assert.False(t, hasAuth, "no auth header without an API key")

	// All three common response shapes are accepted
	for _, body := range []string{
		`{"choices":[{"message":{"content":"reply"}}]}`,
		`{"candidates":[{"content":{"parts":[{"text":"reply"}]}}]}`,
		`{"content":[{"text":"reply"}]}`,
	} {
		text, err := d.ParseResponse([]byte(body))
		require.NoError(t, err, body)
		assert.Equal(t, "reply", text, body)
	}

	_, err = d.ParseResponse([]byte(`{}`))
	assert.Error(t, err)
}

func TestExtraHeaders(t *testing.T) {
	cfg := ProviderConfig{
		ID:           "openai",
		APIKey:       "k",
		ExtraHeaders: map[string]string{"X-Proxy-Auth": "secret"},
	}
	assert.Equal(t, "secret", openaiDialect{}.Headers(cfg)["X-Proxy-Auth"])
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("the text", ProcessOptions{
		WantSummary:    true,
		KeepTimestamps: true,
		LanguageHint:   "de",
	})

	assert.Contains(t, prompt, "## Summary")
	assert.Contains(t, prompt, "## Transcript")
	assert.Contains(t, prompt, "timestamp link")
	assert.Contains(t, prompt, `"de"`)
	assert.Contains(t, prompt, "Transcript:\n\nthe text")

	plain := buildPrompt("the text", ProcessOptions{})
	assert.NotContains(t, plain, "## Summary")
	assert.NotContains(t, plain, "timestamp")
}
