package competitor

import (
	"time"

	"github.com/labsupply/smartpricing/internal/clock"
	"github.com/labsupply/smartpricing/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.competitor",
	fx.Provide(NewFromConfig),
	fx.Provide(NewCacheFromConfig),
)

func NewFromConfig(cfg config.Config, clk clock.Clock, log *zap.Logger) Provider {
	timeout := time.Duration(cfg.CompetitorTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return NewHTS(cfg.CompetitorBaseURL, timeout, clk, log)
}

// NewCacheFromConfig prefers redis when an address is configured and
// falls back to the in-process cache otherwise.
func NewCacheFromConfig(cfg config.Config, log *zap.Logger) Cache {
	if cfg.RedisAddr == "" {
		return NewMemoryCache()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return NewRedisCache(client, log)
}
