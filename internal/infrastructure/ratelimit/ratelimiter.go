package ratelimit

import "time"

// Limit describes the per-window request budget for one endpoint class.
type Limit struct {
	PerMinute int
	PerHour   int
}

type RateLimiter interface {
	Allow(key string, limit Limit) (bool, error)
	GetRemaining(key string, window time.Duration) (int64, error)
	Reset(key string) error
}
