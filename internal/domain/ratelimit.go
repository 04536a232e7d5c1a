package domain

import (
	"context"
	"time"
)

// Endpoint classes for rate-limit keying.
const (
	RateClassLogin = "login"
	RateClassAPI   = "general-api"
)

type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter counts attempts per key within a window. It always returns an
// explicit decision; denials carry the window reset time so callers can back
// off deterministically.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (RateLimitDecision, error)
}

// RateLimitKey builds the counter key for one caller and endpoint class.
func RateLimitKey(client, class string) string {
	return "ratelimit:" + client + ":" + class
}
