package config

import (
	"github.com/shuldan/ioc/pkg/container"
	"github.com/shuldan/ioc/pkg/contracts"
	"github.com/shuldan/ioc/pkg/types"
)

const (
	// ContextName is the name of the Context built by NewContext.
	ContextName = "config"
	// BeanName is the name of the configuration bean.
	BeanName = "config"
	// DefaultEnvPrefix selects environment variables like APP_SERVER__PORT.
	DefaultEnvPrefix = "APP_"
)

// NewLoader builds the standard chain: YAML, JSON and dotenv files, then the
// environment, then command line overrides. String values are expanded
// afterwards.
func NewLoader(envPrefix string, files []string, args []string) Loader {
	return NewTemplatedLoader(NewChainLoader(
		NewYAMLLoader(withSuffix(files, ".yaml", ".yml")...),
		NewJSONLoader(withSuffix(files, ".json")...),
		NewDotenvConfigLoader(envPrefix, withSuffix(files, ".env")...),
		NewEnvConfigLoader(envPrefix),
		NewArgsConfigLoader(args),
	))
}

// NewContext loads configuration once and exposes it as the bean "config",
// resolvable as *MapConfig, contracts.Config and contracts.PropertyResolver.
func NewContext(reg *types.Registry, loader Loader, opts ...container.ContextOption) (*container.Context, error) {
	values, err := loader.Load()
	if err != nil {
		return nil, err
	}
	return NewContextFor(reg, NewMapConfig(values), opts...)
}

// NewContextFor exposes an already loaded configuration.
func NewContextFor(reg *types.Registry, cfg *MapConfig, opts ...container.ContextOption) (*container.Context, error) {
	if reg == nil {
		reg = types.NewRegistry()
	}
	types.RegisterDowncast[*MapConfig, contracts.Config](reg, func(c *MapConfig) contracts.Config { return c })
	types.RegisterDowncast[*MapConfig, contracts.PropertyResolver](reg, func(c *MapConfig) contracts.PropertyResolver { return c })

	ctx := container.NewContext(ContextName, reg, opts...)
	err := container.Provide(ctx, BeanName, func(*container.Context) (*MapConfig, error) {
		return cfg, nil
	}, container.AsPrimary())
	if err != nil {
		return nil, err
	}
	ctx.Logger().Debug("configuration loaded", "keys", len(cfg.values))
	return ctx, nil
}
