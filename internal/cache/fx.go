package cache

import (
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/pensio/internal/clock"
	"github.com/smallbiznis/pensio/internal/config"
	"go.uber.org/zap"

	"go.uber.org/fx"
)

// NewFromConfig picks the cache backend. Memory is the default; redis is
// opt-in for multi-instance deployments.
func NewFromConfig(cfg config.Config, clk clock.Clock, log *zap.Logger) (Store, error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		log.Info("cache backend: redis", zap.String("addr", cfg.Cache.RedisAddr))
		return NewRedisStore(client)
	default:
		log.Info("cache backend: memory")
		return NewMemoryStore(clk), nil
	}
}

var Module = fx.Module("cache",
	fx.Provide(NewFromConfig),
)
