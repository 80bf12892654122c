package ytscribe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ythttp "ytscribe/http"
	"ytscribe/llm"
)

// fakePlatform serves the watch page, player API, and caption document the
// pipeline walks through.
func fakePlatform(t *testing.T, captionXML string) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			w.Write([]byte(`<html><script>{"INNERTUBE_API_KEY": "fake-key"}</script></html>`))
		case "/player":
			require.Equal(t, "fake-key", r.URL.Query().Get("key"))
			payload := map[string]any{
				"videoDetails": map[string]any{
					"title":         "Test Video",
					"author":        "Test Channel",
					"lengthSeconds": "120",
					"viewCount":     "42",
				},
				"captions": map[string]any{
					"playerCaptionsTracklistRenderer": map[string]any{
						"captionTracks": []map[string]any{
							{"languageCode": "de", "baseUrl": server.URL + "/timedtext?lang=de"},
							{"languageCode": "en", "baseUrl": server.URL + "/timedtext?lang=en", "kind": "asr"},
						},
					},
				},
			}
			json.NewEncoder(w).Encode(payload)
		case "/timedtext":
			w.Write([]byte(captionXML))
		default:
			http.NotFound(w, r)
		}
	}))
	return server
}

func testOptions(server *httptest.Server) Options {
	httpCfg := ythttp.DefaultConfig()
	httpCfg.RateLimiter.DefaultRPS = 0
	return Options{
		HTTP:         httpCfg,
		WatchPageURL: server.URL + "/watch?v=%s",
		PlayerAPIURL: server.URL + "/player?key=%s",
	}
}

const captionXML = `<transcript>
  <text start="0.0">Hello and welcome.</text>
  <text start="65.0">Today we test things.</text>
</transcript>`

func TestFetchRawTranscript(t *testing.T) {
	server := fakePlatform(t, captionXML)
	defer server.Close()

	opts := testOptions(server)
	opts.Format.IncludeTimestamps = true
	opts.LanguagePreference = "en"

	result, err := Fetch(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", opts)
	require.NoError(t, err)

	assert.Equal(t, "Test Video", result.Title)
	require.NotNil(t, result.ChannelName)
	assert.Equal(t, "Test Channel", *result.ChannelName)
	assert.Nil(t, result.Summary)

	assert.Contains(t, result.Transcript, "[0:00]")
	assert.Contains(t, result.Transcript, "[1:05]")
	assert.Contains(t, result.Transcript, "Hello and welcome.")
	assert.Contains(t, result.Transcript, "dQw4w9WgXcQ&t=65s")

	assert.Equal(t, "en", result.Metadata["caption_language"])
	assert.Equal(t, true, result.Metadata["auto_generated"])
	assert.Equal(t, 120, result.Metadata["length_seconds"])
	assert.Equal(t, int64(42), result.Metadata["view_count"])
}

func TestFetchLanguagePreference(t *testing.T) {
	server := fakePlatform(t, captionXML)
	defer server.Close()

	opts := testOptions(server)
	opts.LanguagePreference = "de,it,fr"

	result, err := Fetch(context.Background(), "dQw4w9WgXcQ", opts)
	require.NoError(t, err)
	assert.Equal(t, "de", result.Metadata["caption_language"])
	assert.Equal(t, false, result.Metadata["auto_generated"])
}

func TestFetchInvalidInput(t *testing.T) {
	_, err := Fetch(context.Background(), "not a video", Options{})
	assert.True(t, errors.Is(err, ErrInvalidVideoID))
}

func TestFetchNoTranscriptContent(t *testing.T) {
	server := fakePlatform(t, `<transcript></transcript>`)
	defer server.Close()

	_, err := Fetch(context.Background(), "dQw4w9WgXcQ", testOptions(server))
	assert.True(t, errors.Is(err, ErrNoTranscriptContent))
}

func TestFetchWithLLMProcessing(t *testing.T) {
	server := fakePlatform(t, captionXML)
	defer server.Close()

	llmServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{
					"content": "## Summary\n\nA test video.\n\n## Transcript\n\nHello and welcome. Today we test things.",
				}},
			},
		})
	}))
	defer llmServer.Close()

	opts := testOptions(server)
	opts.WantSummary = true
	opts.Provider = &llm.ProviderConfig{
		ID:       "openai",
		APIKey:   "sk-test",
		Model:    "gpt-4o-mini",
		Endpoint: llmServer.URL,
	}

	var statuses []string
	opts.Status = func(msg string) { statuses = append(statuses, msg) }

	result, err := Fetch(context.Background(), "dQw4w9WgXcQ", opts)
	require.NoError(t, err)

	require.NotNil(t, result.Summary)
	assert.Equal(t, "A test video.", *result.Summary)
	assert.Contains(t, result.Transcript, "## Summary")
	assert.Contains(t, result.Transcript, "## Transcript")
	assert.Equal(t, "Test Video", result.Title)

	require.NotEmpty(t, statuses)
	assert.Equal(t, "", statuses[len(statuses)-1], "status is cleared on completion")
}

func TestCanonicalURL(t *testing.T) {
	assert.Equal(t,
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		CanonicalURL("dQw4w9WgXcQ"))
}
