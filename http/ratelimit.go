package http

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter manages per-domain request rate limiting using a token bucket,
// plus a backoff window that opens whenever a domain answers with a rate
// limit response.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	backoff  map[string]*backoffState
	mu       sync.Mutex
	config   RateLimiterConfig
}

// backoffState tracks rate limit backoff for a domain.
type backoffState struct {
	// until is when requests to the domain may resume
	until time.Time
	// current is the backoff applied on the most recent error
	current time.Duration
	// consecutive counts rate limit errors without an intervening success
	consecutive int
}

const (
	// initialBackoff is the backoff applied on the first rate limit error.
	initialBackoff = 1 * time.Second
	// maxBackoff caps the backoff growth.
	maxBackoff = 60 * time.Second
	// backoffMultiplier grows the backoff on consecutive errors.
	backoffMultiplier = 2.0
)

// RateLimiterConfig defines rate limiting behavior.
type RateLimiterConfig struct {
	// DefaultRPS is requests per second applied to any domain without a
	// custom rate. 0 means unlimited. DefaultRateLimiterConfig uses 2.5,
	// conservative for YouTube endpoints.
	DefaultRPS float64
	// CustomRates maps domains to RPS values. 0 means unlimited.
	CustomRates map[string]float64
}

// DefaultRateLimiterConfig returns defaults aligned with YouTube's observed limits.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		DefaultRPS:  2.5,
		CustomRates: make(map[string]float64),
	}
}

// NewRateLimiter creates a new rate limiter with the given configuration.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.CustomRates == nil {
		cfg.CustomRates = make(map[string]float64)
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		backoff:  make(map[string]*backoffState),
		config:   cfg,
	}
}

// Wait blocks until the token bucket for the URL's domain allows a request,
// or the context is done.
func (rl *RateLimiter) Wait(ctx context.Context, urlStr string) error {
	if rl == nil {
		return nil
	}
	limiter := rl.getLimiter(urlStr)
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

// WaitForBackoff blocks while the URL's domain is inside a backoff window
// opened by a previous rate limit error.
func (rl *RateLimiter) WaitForBackoff(ctx context.Context, urlStr string) error {
	if rl == nil {
		return nil
	}
	domain := rl.extractDomain(urlStr)

	rl.mu.Lock()
	state, ok := rl.backoff[domain]
	var wait time.Duration
	if ok {
		wait = time.Until(state.until)
	}
	rl.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RecordRateLimitError notes a rate limit response for the URL's domain and
// returns the backoff the caller should honor. A server-provided Retry-After
// takes precedence when longer than the computed backoff.
func (rl *RateLimiter) RecordRateLimitError(urlStr string, retryAfter time.Duration) time.Duration {
	if rl == nil {
		return retryAfter
	}
	domain := rl.extractDomain(urlStr)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	state, ok := rl.backoff[domain]
	if !ok {
		state = &backoffState{current: initialBackoff}
		rl.backoff[domain] = state
	} else {
		state.current = time.Duration(float64(state.current) * backoffMultiplier)
		if state.current > maxBackoff {
			state.current = maxBackoff
		}
	}
	state.consecutive++

	backoff := state.current
	if retryAfter > backoff {
		backoff = retryAfter
	}
	state.until = time.Now().Add(backoff)
	return backoff
}

// RecordSuccess clears any backoff state for the URL's domain.
func (rl *RateLimiter) RecordSuccess(urlStr string) {
	if rl == nil {
		return
	}
	domain := rl.extractDomain(urlStr)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.backoff, domain)
}

// getLimiter returns the rate limiter for a given URL, creating one if
// necessary. Returns nil when the domain is unlimited.
func (rl *RateLimiter) getLimiter(urlStr string) *rate.Limiter {
	domain := rl.extractDomain(urlStr)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rps, ok := rl.config.CustomRates[domain]
	if !ok {
		rps = rl.config.DefaultRPS
	}
	if rps == 0 {
		return nil
	}

	if limiter, ok := rl.limiters[domain]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(rate.Limit(rps), 1)
	rl.limiters[domain] = limiter
	return limiter
}

// SetCustomRate sets a custom rate limit for a specific domain.
func (rl *RateLimiter) SetCustomRate(domain string, rps float64) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.config.CustomRates[domain] = rps
	delete(rl.limiters, domain)
}

// extractDomain extracts the host (without port) from a URL string.
func (rl *RateLimiter) extractDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	if host := u.Hostname(); host != "" {
		return host
	}
	return u.Host
}
