package lock

import (
	"context"
	"strings"

	redis "github.com/redis/go-redis/v9"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	"github.com/smallbiznis/royalty/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("lock",
	fx.Provide(NewRedisClient),
	fx.Provide(NewLocker),
	fx.Provide(fx.Annotate(NewContentLock, fx.As(new(chargedomain.ContentLocker)))),
)

// NewRedisClient returns nil when REDIS_ADDR is unset; locking is then disabled.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *redis.Client {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		log.Info("redis not configured, accrual locking disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}
