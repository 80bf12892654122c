package ytscribe

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	ythttp "ytscribe/http"
	"ytscribe/llm"
	"ytscribe/logger"
	"ytscribe/transcript"
	"ytscribe/youtube"
)

// Options configures one pipeline run. The zero value fetches a plain
// transcript with no timestamps and no LLM processing.
type Options struct {
	// WantSummary requests the two-section summary/transcript output from
	// the LLM step. Ignored when Provider is nil.
	WantSummary bool

	// Provider configures the LLM post-processing step. Nil skips it.
	Provider *llm.ProviderConfig

	// Format controls timestamp rendering. VideoID is filled in by the
	// pipeline.
	Format transcript.FormatOptions

	// LanguagePreference is an ordered comma-separated caption language
	// list (e.g. "de,it,fr").
	LanguagePreference string

	// Decider resolves retry/cancel choices on recoverable LLM failures.
	// Nil means recoverable failures are terminal.
	Decider llm.RetryDecider

	// Status receives progress messages; an empty string clears the
	// current status. Nil disables progress reporting.
	Status llm.StatusFunc

	// Logger for operational logging. Nil disables logging.
	Logger *zerolog.Logger

	// HTTP overrides the HTTP client configuration. Nil uses defaults.
	HTTP *ythttp.Config

	// WatchPageURL and PlayerAPIURL override the platform endpoints, each
	// with one %s verb (video ID and API key respectively). Empty uses the
	// public endpoints. Mainly for proxies and tests.
	WatchPageURL string
	PlayerAPIURL string
}

// TranscriptResult is the pipeline's final output. The caller owns it; the
// pipeline holds no reference after return.
type TranscriptResult struct {
	// Transcript is the final text: formatted captions, or the LLM's
	// cleaned-up two-section document when processing ran.
	Transcript string
	// Title is the video title.
	Title string
	// Summary is the extracted summary, nil when none was requested or
	// the LLM step was skipped.
	Summary *string
	// ChannelName is the video's channel, when known.
	ChannelName *string
	// Metadata carries extended video details (length, views, keywords,
	// caption language).
	Metadata map[string]any
}

// Fetch runs the full pipeline for one video: identifier resolution, the
// caption source handshake, track selection, parsing, formatting, and the
// optional LLM post-processing step.
func Fetch(ctx context.Context, urlOrID string, opts Options) (*TranscriptResult, error) {
	log := logger.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	log = log.With().Str("run_id", uuid.NewString()).Logger()

	setStatus := func(msg string) {
		if opts.Status != nil {
			opts.Status(msg)
		}
	}

	videoID, err := youtube.ResolveVideoID(urlOrID)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("video_id", videoID).Msg("resolved video ID")

	httpClient := ythttp.New(opts.HTTP)
	defer httpClient.Close()

	ytOpts := []youtube.ClientOption{
		youtube.WithLogger(logger.WithComponent(log, "youtube")),
	}
	if opts.WatchPageURL != "" && opts.PlayerAPIURL != "" {
		ytOpts = append(ytOpts, youtube.WithBaseURLs(opts.WatchPageURL, opts.PlayerAPIURL))
	}
	yt := youtube.NewClient(httpClient, ytOpts...)

	setStatus("Fetching video information...")
	source, err := yt.FetchCaptionSource(ctx, videoID)
	if err != nil {
		setStatus("")
		return nil, err
	}

	track := youtube.SelectTrack(source.Tracks, opts.LanguagePreference)
	log.Debug().Str("language", track.LanguageCode).Msg("selected caption track")

	setStatus("Fetching captions...")
	doc, err := yt.FetchCaptionDocument(ctx, track)
	if err != nil {
		setStatus("")
		return nil, err
	}

	segments, err := youtube.ParseCaptionDocument(doc)
	if err != nil {
		setStatus("")
		return nil, err
	}
	log.Debug().Int("segments", len(segments)).Msg("parsed caption document")

	formatOpts := opts.Format
	formatOpts.VideoID = videoID
	raw := transcript.Format(segments, formatOpts)

	result := &TranscriptResult{
		Transcript: raw,
		Title:      source.Details.Title,
		Metadata:   buildMetadata(source, track),
	}
	if author := source.Details.Author; author != "" {
		result.ChannelName = &author
	}

	if opts.Provider == nil {
		setStatus("")
		return result, nil
	}

	orch := llm.NewOrchestrator(*opts.Provider,
		llm.WithDecider(opts.Decider),
		llm.WithStatus(opts.Status),
		llm.WithLogger(logger.WithComponent(log, "llm")))

	resp, err := orch.Process(ctx, raw, llm.ProcessOptions{
		WantSummary:    opts.WantSummary,
		KeepTimestamps: formatOpts.IncludeTimestamps,
		LanguageHint:   track.LanguageCode,
	})
	if err != nil {
		setStatus("")
		return nil, err
	}

	result.Transcript = resp.Transcript
	result.Summary = resp.Summary
	setStatus("")
	return result, nil
}

// buildMetadata collects extended video details from the player response.
func buildMetadata(source *youtube.CaptionSource, track youtube.CaptionTrack) map[string]any {
	metadata := map[string]any{
		"caption_language": track.LanguageCode,
		"auto_generated":   track.Kind == "asr",
	}
	if v, err := strconv.Atoi(source.Details.LengthSeconds); err == nil {
		metadata["length_seconds"] = v
	}
	if v, err := strconv.ParseInt(source.Details.ViewCount, 10, 64); err == nil {
		metadata["view_count"] = v
	}
	if source.Details.ShortDescription != "" {
		metadata["description"] = source.Details.ShortDescription
	}
	if len(source.Details.Keywords) > 0 {
		metadata["keywords"] = source.Details.Keywords
	}
	return metadata
}

// CanonicalURL returns the watch URL for a video ID.
func CanonicalURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
}
