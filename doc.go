// Package ytscribe retrieves the spoken-word transcript of a YouTube video,
// normalizes it into timestamped text, and optionally runs it through an LLM
// cleanup/summarization step.
//
// Quick Start
//
// Fetch a formatted transcript:
//
//	result, err := ytscribe.Fetch(ctx, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", ytscribe.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Transcript)
//
// Add LLM cleanup and a summary:
//
//	result, err := ytscribe.Fetch(ctx, videoURL, ytscribe.Options{
//		WantSummary: true,
//		Provider: &llm.ProviderConfig{
//			ID:     "openai",
//			APIKey: os.Getenv("OPENAI_API_KEY"),
//			Model:  "gpt-4o-mini",
//		},
//	})
//
// The pipeline is stateless per call: concurrent fetches share no state and
// need no locking.
//
// Error Handling
//
// All operations return errors supporting the standard patterns:
//
//	if errors.Is(err, ytscribe.ErrNoCaptions) {
//		fmt.Println("video has no captions")
//	}
//
//	var provErr *ytscribe.ProviderError
//	if errors.As(err, &provErr) {
//		fmt.Printf("provider %s failed: status %d\n", provErr.Provider, provErr.StatusCode)
//	}
//
// ErrUserCancelled is special: it means the user deliberately aborted after
// a recoverable LLM failure, and callers should show nothing at all.
//
// Sub-packages
//
//   - youtube: video-ID resolution, the caption source handshake, parsing
//   - transcript: segment model and formatting policy
//   - llm: provider dialects, orchestration, response section parsing
//   - config: file/env configuration loading
package ytscribe
