package database

import (
	"context"
	"time"

	"github.com/NDQnhat/realestatepro-api/internal/config"
	"github.com/NDQnhat/realestatepro-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Redis stays nil unless REDIS_ADDR is configured.
var Redis *redis.Client

// InitRedis connects when configured and reports whether Redis is usable.
func InitRedis() bool {
	if config.AppConfig.RedisAddr == "" {
		logger.Info().Msg("Redis not configured, using in-memory revocation store")
		return false
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := Redis.Ping(ctx).Result(); err != nil {
		logger.Warn().Err(err).Msg("Failed to connect to Redis, using in-memory revocation store")
		_ = Redis.Close()
		Redis = nil
		return false
	}
	logger.Info().Str("addr", config.AppConfig.RedisAddr).Msg("Connected to Redis")
	return true
}
