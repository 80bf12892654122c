package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/rs/zerolog"

	ythttp "ytscribe/http"
)

const (
	// watchURLFormat is the public viewing page for a video.
	watchURLFormat = "https://www.youtube.com/watch?v=%s"
	// playerEndpointFormat is the internal player API, keyed with the
	// API key extracted from the watch page.
	playerEndpointFormat = "https://www.youtube.com/youtubei/v1/player?key=%s"

	// defaultClientName identifies a web client to the player API.
	defaultClientName = "WEB"
	// defaultClientVersion is the client version for web requests.
	defaultClientVersion = "2.20240101.00.00"

	// defaultUserAgent mimics a desktop browser. The watch page serves
	// different markup to unknown agents.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// apiKeyPattern locates the embedded API key literal in the watch page HTML.
var apiKeyPattern = regexp.MustCompile(`"INNERTUBE_API_KEY"\s*:\s*"([^"]+)"`)

// CaptionTrack is one available caption language for a video.
type CaptionTrack struct {
	// LanguageCode is the track's language (e.g. "en", "de").
	LanguageCode string `json:"languageCode"`
	// BaseURL is where the caption document can be fetched.
	BaseURL string `json:"baseUrl"`
	// Kind is "asr" for auto-generated tracks, empty for uploaded ones.
	Kind string `json:"kind,omitempty"`
}

// VideoDetails is the metadata the player API reports about a video.
type VideoDetails struct {
	Title            string   `json:"title"`
	Author           string   `json:"author"`
	LengthSeconds    string   `json:"lengthSeconds"`
	ViewCount        string   `json:"viewCount"`
	ShortDescription string   `json:"shortDescription"`
	Keywords         []string `json:"keywords"`
}

// CaptionSource is the result of the player handshake: caption tracks plus
// video metadata, fetched fresh per call and never cached.
type CaptionSource struct {
	VideoID string
	Tracks  []CaptionTrack
	Details VideoDetails
}

// Client performs the watch-page / player-API handshake. The handshake
// depends on undocumented internal endpoints; when the upstream contract
// changes, this is the one file that needs touching.
type Client struct {
	httpClient *ythttp.Client
	watchBase  string
	playerBase string
	log        zerolog.Logger
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURLs overrides the watch page and player endpoint URL formats.
// Both must contain one %s verb (video ID and API key respectively).
func WithBaseURLs(watchFormat, playerFormat string) ClientOption {
	return func(c *Client) {
		c.watchBase = watchFormat
		c.playerBase = playerFormat
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// NewClient creates a client for the caption source handshake.
func NewClient(httpClient *ythttp.Client, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: httpClient,
		watchBase:  watchURLFormat,
		playerBase: playerEndpointFormat,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// playerRequest is the body posted to the player endpoint.
type playerRequest struct {
	Context clientContext `json:"context"`
	VideoID string        `json:"videoId"`
}

// clientContext identifies the client making the request.
type clientContext struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	HL            string `json:"hl"`
	GL            string `json:"gl"`
}

// playerResponse is the subset of the player API response the pipeline reads.
type playerResponse struct {
	VideoDetails VideoDetails `json:"videoDetails"`
	Captions     *struct {
		PlayerCaptionsTracklistRenderer *struct {
			CaptionTracks []CaptionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

// FetchCaptionSource runs the three-step handshake: fetch the watch page,
// extract the embedded API key, then call the player API for caption tracks
// and video metadata.
func (c *Client) FetchCaptionSource(ctx context.Context, videoID string) (*CaptionSource, error) {
	watchURL := fmt.Sprintf(c.watchBase, videoID)
	c.log.Debug().Str("video_id", videoID).Msg("fetching watch page")

	page, err := c.httpClient.Do(ctx, http.MethodGet, watchURL, nil, map[string]string{
		"User-Agent":      defaultUserAgent,
		"Accept-Language": "en-US,en;q=0.9",
	})
	if err != nil {
		return nil, fmt.Errorf("fetch watch page: %w", err)
	}

	key, err := extractAPIKey(page.Body)
	if err != nil {
		return nil, err
	}

	reqBody, err := json.Marshal(playerRequest{
		Context: clientContext{
			Client: innertubeClient{
				ClientName:    defaultClientName,
				ClientVersion: defaultClientVersion,
				HL:            "en",
				GL:            "US",
			},
		},
		VideoID: videoID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal player request: %w", err)
	}

	playerURL := fmt.Sprintf(c.playerBase, key)
	c.log.Debug().Str("video_id", videoID).Msg("calling player API")

	resp, err := c.httpClient.Do(ctx, http.MethodPost, playerURL, reqBody, map[string]string{
		"Content-Type": "application/json",
		"User-Agent":   defaultUserAgent,
		"Origin":       "https://www.youtube.com",
		"Referer":      "https://www.youtube.com/",
	})
	if err != nil {
		return nil, fmt.Errorf("player request: %w", err)
	}

	var player playerResponse
	if err := json.Unmarshal(resp.Body, &player); err != nil {
		return nil, &ParseError{What: "player response", Err: err}
	}

	if player.Captions == nil ||
		player.Captions.PlayerCaptionsTracklistRenderer == nil ||
		len(player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks) == 0 {
		return nil, ErrNoCaptions
	}

	return &CaptionSource{
		VideoID: videoID,
		Tracks:  player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks,
		Details: player.VideoDetails,
	}, nil
}

// FetchCaptionDocument retrieves the raw caption document for a track.
func (c *Client) FetchCaptionDocument(ctx context.Context, track CaptionTrack) ([]byte, error) {
	resp, err := c.httpClient.Do(ctx, http.MethodGet, track.BaseURL, nil, map[string]string{
		"User-Agent": defaultUserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch caption document: %w", err)
	}
	return resp.Body, nil
}

// extractAPIKey pulls the internal API key literal out of the watch page.
// Its absence means the page layout changed or the request was blocked.
func extractAPIKey(page []byte) (string, error) {
	m := apiKeyPattern.FindSubmatch(page)
	if m == nil {
		return "", &ParseError{What: "watch page", Err: errors.New("API key not found")}
	}
	return string(m[1]), nil
}
