package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"absent", "", 0},
		{"seconds", "12", 12 * time.Second},
		{"negative seconds", "-3", 0},
		{"http date", now.Add(90 * time.Second).Format(http.TimeFormat), 90 * time.Second},
		{"date in the past", now.Add(-time.Minute).Format(http.TimeFormat), 0},
		{"garbage", "soon", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.value != "" {
				h.Set("Retry-After", tt.value)
			}
			if got := parseRetryAfter(h, now); got != tt.want {
				t.Errorf("parseRetryAfter(%q) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
}

func TestRetryAfter(t *testing.T) {
	wrapped := fmt.Errorf("score: %w", &ErrRateLimit{RetryAfter: 5 * time.Second, Err: errors.New("429")})
	if d, ok := RetryAfter(wrapped); !ok || d != 5*time.Second {
		t.Fatalf("RetryAfter = %s, %v; want 5s, true", d, ok)
	}
	if _, ok := RetryAfter(&ErrRateLimit{Err: errors.New("429")}); ok {
		t.Fatal("expected no wait without a header")
	}
	if _, ok := RetryAfter(&ErrProviderUnavailable{}); ok {
		t.Fatal("expected no wait for other errors")
	}
}

func TestErrorMessages(t *testing.T) {
	rl := &ErrRateLimit{RetryAfter: 3 * time.Second, Err: errors.New("slow down")}
	if !strings.Contains(rl.Error(), "retry in 3s") {
		t.Errorf("unexpected message %q", rl.Error())
	}
	if msg := (&ErrRateLimit{Err: errors.New("slow down")}).Error(); strings.Contains(msg, "retry in") {
		t.Errorf("unexpected wait in %q", msg)
	}
	if msg := (&ErrInvalidResponse{}).Error(); msg != "invalid LLM response: unknown error" {
		t.Errorf("unexpected message %q", msg)
	}
	if msg := (&ErrProviderUnavailable{}).Error(); msg != "LLM provider unavailable" {
		t.Errorf("unexpected message %q", msg)
	}
}
