package throttler

import (
	"context"
	"fmt"
	"time"
	"pawkeeper/sources/configuration"
	"pawkeeper/sources/platform"
	"pawkeeper/sources/tracing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Throttler spaces out AI feature requests per user ahead of the quota gate,
// so burst traffic does not burn through an allowance in seconds.
type Throttler struct {
	client *redis.Client
	limit  time.Duration
	log    *tracing.Logger
	ctx    context.Context
}

func NewThrottler(client *redis.Client, config *configuration.Config, log *tracing.Logger) *Throttler {
	// A zero TTL would make SetNX write a key that never expires, throttling
	// every user forever after their first request.
	limit := config.Throttler.Limit
	if limit <= 0 {
		limit = 5 * time.Second
	}

	ctx := context.Background()
	return &Throttler{client: client, limit: limit, log: log, ctx: ctx}
}

func (x *Throttler) IsAllowed(userID uuid.UUID) bool {
	ctx, cancel := platform.ContextTimeout(x.ctx)
	defer cancel()

	key := fmt.Sprintf("throttle:%s", userID)

	success, err := x.client.SetNX(ctx, key, time.Now().Unix(), x.limit).Result()
	if err != nil {
		x.log.E("Error setting throttle key", tracing.InnerError, err)
		return true
	}

	return success
}
