package cache

import (
	"context"
	"time"

	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewIdempotencyStore returns a Redis store when client is set and reachable,
// otherwise an in-memory store. In-memory state is per process, so a
// multi-instance deployment may process an event once per instance.
func NewIdempotencyStore(ctx context.Context, client redis.UniversalClient, logger *zap.Logger) shared.IdempotencyStore {
	if client != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()

		err := client.Ping(pingCtx).Err()
		if err == nil {
			logger.Info("Using Redis idempotency store")
			return NewRedisIdempotencyStore(client, "")
		}
		logger.Warn("Redis unavailable, falling back to in-memory idempotency store", zap.Error(err))
	}
	return NewInMemoryIdempotencyStore(0)
}
