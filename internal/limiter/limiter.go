package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/cache"
)

type ActionConfig struct {
	Limit  int64
	Window time.Duration
}

// Actions guarded by the limiter. Each one fans out to the LLM.
const (
	ActionStory        = "story"
	ActionIllustration = "illustration"
	ActionGloss        = "gloss"
	ActionExpand       = "expand"
)

var DefaultLimits = map[string]ActionConfig{
	ActionStory:        {Limit: 10, Window: time.Minute},
	ActionIllustration: {Limit: 20, Window: time.Minute},
	ActionGloss:        {Limit: 60, Window: time.Minute},
	ActionExpand:       {Limit: 30, Window: time.Minute},
}

// Counter is a windowed counter store. *cache.RedisCache satisfies it.
type Counter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
}

type Limiter struct {
	counter Counter
	limits  map[string]ActionConfig
}

type CheckResult struct {
	Allowed   bool  `json:"allowed"`
	Remaining int64 `json:"remaining"`
	ResetAt   int64 `json:"reset_at"`
	Limit     int64 `json:"limit"`
}

func NewLimiter(counter Counter) *Limiter {
	return &Limiter{counter: counter, limits: DefaultLimits}
}

func (l *Limiter) Check(ctx context.Context, clientID, action string) (*CheckResult, error) {
	config, ok := l.limits[action]
	if !ok {
		// Default limit for unknown actions
		config = ActionConfig{Limit: 100, Window: time.Minute}
	}

	key := cache.CacheKey("rate", clientID, action)

	count, err := l.counter.Incr(ctx, key, config.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to increment counter: %w", err)
	}

	ttl, err := l.counter.TTL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get TTL: %w", err)
	}

	resetAt := time.Now().Add(ttl).Unix()
	remaining := config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &CheckResult{
		Allowed:   count <= config.Limit,
		Remaining: remaining,
		ResetAt:   resetAt,
		Limit:     config.Limit,
	}, nil
}
