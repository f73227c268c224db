package cache

import (
	"github.com/mead/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewIdempotencyStore returns a Redis-backed store when a client is
// available and an in-memory store otherwise
func NewIdempotencyStore(client *redis.Client, logger *zap.Logger) shared.IdempotencyStore {
	if client != nil {
		logger.Info("using Redis idempotency store")
		return NewRedisIdempotencyStore(client)
	}
	logger.Warn("Redis disabled, using in-memory idempotency store; " +
		"duplicate events are only detected within this process")
	return NewInMemoryIdempotencyStore()
}
