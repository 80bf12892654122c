package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// RetryDecision is the answer a decision collaborator gives after a
// recoverable failure.
type RetryDecision int

const (
	// DecisionRetry re-issues the request once.
	DecisionRetry RetryDecision = iota
	// DecisionUseRaw skips processing and keeps the raw transcript.
	DecisionUseRaw
	// DecisionCancel aborts the run.
	DecisionCancel
)

// RetryReason describes the recoverable failure being asked about.
type RetryReason struct {
	// Provider is the provider's display name.
	Provider string
	// RateLimited is true for a 429, false for a timeout.
	RateLimited bool
	// Wait is the backoff applied before a rate limit retry.
	Wait time.Duration
}

// RetryDecider resolves retry/cancel choices on recoverable failures.
// Typically backed by a confirmation dialog; tests use a stub.
type RetryDecider interface {
	AskRetry(ctx context.Context, reason RetryReason) RetryDecision
}

// StatusFunc receives progress messages. An empty string clears the current
// status.
type StatusFunc func(msg string)

// rateLimitBackoff is the fixed wait before retrying a rate limited request.
const rateLimitBackoff = 60 * time.Second

// Orchestrator drives one provider: prompt construction, the timeout race,
// error classification, and the retry decision flow.
type Orchestrator struct {
	cfg     ProviderConfig
	dialect Dialect
	client  *http.Client
	decider RetryDecider
	status  StatusFunc
	log     zerolog.Logger

	timeout time.Duration
	backoff time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDecider installs the retry decision collaborator. Without one, any
// recoverable failure is terminal: there are no silent retries without
// explicit user consent.
func WithDecider(d RetryDecider) Option {
	return func(o *Orchestrator) { o.decider = d }
}

// WithStatus installs a progress observer.
func WithStatus(fn StatusFunc) Option {
	return func(o *Orchestrator) { o.status = fn }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithTimeout overrides the request timeout from the provider config.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithRateLimitBackoff overrides the fixed backoff before a rate limit retry.
func WithRateLimitBackoff(d time.Duration) Option {
	return func(o *Orchestrator) { o.backoff = d }
}

// NewOrchestrator creates an orchestrator for the given provider config.
func NewOrchestrator(cfg ProviderConfig, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:     cfg,
		dialect: DialectFor(cfg),
		// No client-level timeout: the orchestrator races the request
		// against its own timer so it can hand the decision to the user.
		client:  &http.Client{},
		log:     zerolog.Nop(),
		timeout: cfg.Timeout(),
		backoff: rateLimitBackoff,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Process runs the transcript through the provider and returns the parsed
// response. A missing API key is a warning, not an error: the raw transcript
// comes back unchanged so the caller never blocks on missing configuration.
func (o *Orchestrator) Process(ctx context.Context, transcript string, opts ProcessOptions) (*Response, error) {
	if o.cfg.APIKey == "" {
		o.log.Warn().Str("provider", o.cfg.Name()).Msg("no API key configured, skipping LLM processing")
		o.setStatus(fmt.Sprintf("No API key configured for %s, using raw transcript", o.cfg.Name()))
		return &Response{Transcript: transcript}, nil
	}

	prompt := buildPrompt(transcript, opts)
	o.setStatus(fmt.Sprintf("Processing transcript with %s...", o.cfg.Name()))
	defer o.setStatus("")

	text, err := o.attempt(ctx, prompt)
	if err == nil {
		return ParseSections(text, opts.WantSummary), nil
	}

	switch {
	case errors.Is(err, ErrTimeout):
		return o.handleTimeout(ctx, transcript, prompt, opts)
	default:
		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			return o.handleRateLimit(ctx, transcript, prompt, opts, rlErr)
		}
		return nil, err
	}
}

// handleTimeout asks the decision collaborator what to do after a timeout.
// A retry gets exactly one more attempt; its failure is terminal.
func (o *Orchestrator) handleTimeout(ctx context.Context, transcript, prompt string, opts ProcessOptions) (*Response, error) {
	o.log.Warn().Str("provider", o.cfg.Name()).Dur("timeout", o.timeout).Msg("llm request timed out")
	if o.decider == nil {
		return nil, ErrTimeout
	}

	switch o.decider.AskRetry(ctx, RetryReason{Provider: o.cfg.Name()}) {
	case DecisionRetry:
		text, err := o.attempt(ctx, prompt)
		if err != nil {
			return nil, err
		}
		return ParseSections(text, opts.WantSummary), nil
	case DecisionUseRaw:
		o.log.Info().Msg("user declined retry, using raw transcript")
		return &Response{Transcript: transcript}, nil
	default:
		return nil, ErrUserCancelled
	}
}

// handleRateLimit asks the decision collaborator what to do after a 429.
// A retry waits a fixed backoff and gets one more attempt; if that is rate
// limited again, the raw transcript comes back instead of looping.
func (o *Orchestrator) handleRateLimit(ctx context.Context, transcript, prompt string, opts ProcessOptions, rlErr *RateLimitError) (*Response, error) {
	o.log.Warn().Str("provider", o.cfg.Name()).Msg("llm request rate limited")
	if o.decider == nil {
		return nil, rlErr
	}

	reason := RetryReason{Provider: o.cfg.Name(), RateLimited: true, Wait: o.backoff}
	switch o.decider.AskRetry(ctx, reason) {
	case DecisionRetry:
		o.setStatus(fmt.Sprintf("Rate limited, waiting %s before retrying...", o.backoff))
		select {
		case <-time.After(o.backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		text, err := o.attempt(ctx, prompt)
		if err != nil {
			var rlErr *RateLimitError
			if errors.As(err, &rlErr) {
				o.log.Warn().Msg("rate limited again after backoff, using raw transcript")
				return &Response{Transcript: transcript}, nil
			}
			return nil, err
		}
		return ParseSections(text, opts.WantSummary), nil
	case DecisionUseRaw:
		o.log.Info().Msg("user declined retry, using raw transcript")
		return &Response{Transcript: transcript}, nil
	default:
		return nil, ErrUserCancelled
	}
}

// attemptResult carries the outcome of one request across the race boundary.
type attemptResult struct {
	text string
	err  error
}

// attempt issues one request, racing it against the timeout timer. The race
// loser's result is discarded: the channel is buffered, so the request
// goroutine can finish and its outcome simply goes unread.
func (o *Orchestrator) attempt(ctx context.Context, prompt string) (string, error) {
	ch := make(chan attemptResult, 1)
	go func() {
		text, err := o.doRequest(ctx, prompt)
		ch <- attemptResult{text: text, err: err}
	}()

	timer := time.NewTimer(o.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.text, res.err
	case <-timer.C:
		return "", ErrTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// doRequest sends one HTTP request and classifies the response by status.
func (o *Orchestrator) doRequest(ctx context.Context, prompt string) (string, error) {
	reqBody, err := o.dialect.BuildRequest(o.cfg, prompt)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url, err := o.dialect.URL(o.cfg)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	for k, v := range o.dialect.Headers(o.cfg) {
		req.Header.Set(k, v)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if err := o.classifyStatus(resp.StatusCode, resp.Header.Get("Retry-After"), body); err != nil {
		return "", err
	}
	return o.dialect.ParseResponse(body)
}

// classifyStatus maps a non-2xx status to a typed error.
func (o *Orchestrator) classifyStatus(status int, retryAfter string, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Provider: o.cfg.Name(), StatusCode: status}
	case http.StatusNotFound:
		return &NotFoundError{Provider: o.cfg.Name(), Model: o.cfg.Model}
	case http.StatusTooManyRequests:
		var wait time.Duration
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			wait = time.Duration(seconds) * time.Second
		}
		return &RateLimitError{Provider: o.cfg.Name(), RetryAfter: wait}
	default:
		return &ProviderError{Provider: o.cfg.Name(), StatusCode: status, Body: snippet(body)}
	}
}

func (o *Orchestrator) setStatus(msg string) {
	if o.status != nil {
		o.status(msg)
	}
}
