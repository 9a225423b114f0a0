package health

import (
	"fmt"
	"time"

	"github.com/shuldan/ioc/pkg/container"
	"github.com/shuldan/ioc/pkg/contracts"
	"github.com/shuldan/ioc/pkg/types"
)

const (
	InitName = "health"
	BeanName = "health.server"
)

// Setup queues an init function that registers the health Server as a
// Runner bean when server.health.port is set.
func Setup(ctx *container.Context) error {
	types.RegisterDowncast[*Server, contracts.Runner](ctx.Types(), func(s *Server) contracts.Runner { return s })

	return ctx.AddInitFn(InitName, func(root *container.Context) error {
		cfg, err := container.GetPrimaryBean[contracts.Config](root)
		if err != nil {
			return ErrResolveConfig.WithCause(err)
		}

		port := cfg.GetInt("server.health.port", 0)
		if port <= 0 {
			ctx.Logger().Warn("health server not started: disabled")
			return nil
		}
		addr := fmt.Sprintf("%s:%d", cfg.GetString("server.health.host", ""), port)
		timeout := time.Duration(cfg.GetInt("server.health.check_timeout_ms", 2000)) * time.Millisecond

		return container.Provide(ctx, BeanName, func(c *container.Context) (*Server, error) {
			log := c.Logger().With("component", "health")
			return NewServer(addr, NewHandler(root, log, timeout), log), nil
		})
	})
}
