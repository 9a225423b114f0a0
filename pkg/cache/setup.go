package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shuldan/ioc/pkg/container"
	"github.com/shuldan/ioc/pkg/contracts"
	"github.com/shuldan/ioc/pkg/types"
)

const (
	InitName = "cache"
	BeanName = "cache.redis"
)

// Setup queues an init function that registers a *Client bean when
// redis.address is configured.
func Setup(ctx *container.Context) error {
	types.RegisterDowncast[*Client, contracts.HealthChecker](ctx.Types(), func(c *Client) contracts.HealthChecker { return c })

	return ctx.AddInitFn(InitName, func(root *container.Context) error {
		cfg, err := container.GetPrimaryBean[contracts.Config](root)
		if err != nil {
			return ErrResolveConfig.WithCause(err)
		}

		redisCfg, ok := cfg.GetSub("redis")
		if !ok || redisCfg.GetString("address") == "" {
			ctx.Logger().Debug("redis not configured, skipping cache")
			return nil
		}

		options := optionsFrom(redisCfg)
		return container.Provide(ctx, BeanName, func(*container.Context) (*Client, error) {
			return New(BeanName, options), nil
		},
			container.AsPrimary(),
			container.WithInit(func(c *container.Context, client *Client) error {
				if err := client.Open(context.Background()); err != nil {
					return err
				}
				c.Logger().Info("redis connected", "address", client.Address())
				return nil
			}),
			container.WithDestroy(func(_ *container.Context, client *Client) error {
				return client.Close()
			}),
		)
	})
}

func optionsFrom(cfg contracts.Config) *redis.Options {
	return &redis.Options{
		Addr:         cfg.GetString("address"),
		Username:     cfg.GetString("username", ""),
		Password:     cfg.GetString("password", ""),
		DB:           cfg.GetInt("db", 0),
		PoolSize:     cfg.GetInt("pool_size", 0),
		MaxRetries:   cfg.GetInt("max_retries", 0),
		DialTimeout:  seconds(cfg, "dial_timeout", 5*time.Second),
		ReadTimeout:  seconds(cfg, "read_timeout", 3*time.Second),
		WriteTimeout: seconds(cfg, "write_timeout", 3*time.Second),
	}
}

func seconds(cfg contracts.Config, key string, defaultValue time.Duration) time.Duration {
	if s, ok := cfg.Get(key).(string); ok {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
		return defaultValue
	}
	if !cfg.Has(key) {
		return defaultValue
	}
	return time.Duration(cfg.GetFloat64(key) * float64(time.Second))
}
