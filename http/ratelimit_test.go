package http

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterUnlimitedDomain(t *testing.T) {
	cfg := DefaultRateLimiterConfig()
	cfg.CustomRates["fast.example.com"] = 0
	rl := NewRateLimiter(cfg)

	start := time.Now()
	for i := 0; i < 10; i++ {
		if err := rl.Wait(context.Background(), "https://fast.example.com/x"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("unlimited domain should not throttle, took %v", elapsed)
	}
}

func TestRateLimiterThrottlesDefaultDomain(t *testing.T) {
	cfg := RateLimiterConfig{DefaultRPS: 50}
	rl := NewRateLimiter(cfg)

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := rl.Wait(context.Background(), "https://slow.example.com/x"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// 5 requests at 50 rps with burst 1 needs at least ~80ms
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("expected throttling, took only %v", elapsed)
	}
}

func TestRateLimiterBackoffGrowth(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	url := "https://www.youtube.com/watch"

	first := rl.RecordRateLimitError(url, 0)
	second := rl.RecordRateLimitError(url, 0)
	if second <= first {
		t.Errorf("expected growing backoff, got %v then %v", first, second)
	}
}

func TestRateLimiterRetryAfterWins(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())

	got := rl.RecordRateLimitError("https://www.youtube.com/watch", 90*time.Second)
	if got != 90*time.Second {
		t.Errorf("expected server Retry-After to win, got %v", got)
	}
}

func TestRateLimiterSuccessClearsBackoff(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	url := "https://www.youtube.com/watch"

	rl.RecordRateLimitError(url, time.Hour)
	rl.RecordSuccess(url)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := rl.WaitForBackoff(ctx, url); err != nil {
		t.Fatalf("expected backoff cleared, got %v", err)
	}
}

func TestRateLimiterBackoffHonorsContext(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	url := "https://www.youtube.com/watch"

	rl.RecordRateLimitError(url, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := rl.WaitForBackoff(ctx, url); err == nil {
		t.Fatal("expected context deadline error during backoff")
	}
}

func TestSetCustomRate(t *testing.T) {
	cfg := RateLimiterConfig{DefaultRPS: 1}
	rl := NewRateLimiter(cfg)
	url := "https://fast.example.com/x"

	// Prime the default limiter, then lift the limit for the domain
	if err := rl.Wait(context.Background(), url); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rl.SetCustomRate("fast.example.com", 0)

	start := time.Now()
	for i := 0; i < 10; i++ {
		if err := rl.Wait(context.Background(), url); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("custom unlimited rate should not throttle, took %v", elapsed)
	}
}

func TestExtractDomain(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())

	cases := map[string]string{
		"https://www.youtube.com/watch?v=abc": "www.youtube.com",
		"http://localhost:8080/player":        "localhost",
		"not a url":                           "unknown",
	}
	for input, want := range cases {
		if got := rl.extractDomain(input); got != want {
			t.Errorf("extractDomain(%q) = %q, want %q", input, got, want)
		}
	}
}
