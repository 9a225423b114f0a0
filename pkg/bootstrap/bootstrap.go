package bootstrap

import (
	"os"
	"syscall"
	"time"

	"github.com/shuldan/ioc/pkg/app"
	"github.com/shuldan/ioc/pkg/autoreg"
	"github.com/shuldan/ioc/pkg/cache"
	"github.com/shuldan/ioc/pkg/config"
	"github.com/shuldan/ioc/pkg/container"
	"github.com/shuldan/ioc/pkg/contracts"
	"github.com/shuldan/ioc/pkg/datasource"
	"github.com/shuldan/ioc/pkg/health"
	"github.com/shuldan/ioc/pkg/logger"
	"github.com/shuldan/ioc/pkg/types"
)

const (
	// InfrastructureContextName holds the beans added by WithDatabase,
	// WithCache and WithHealth.
	InfrastructureContextName = "infrastructure"
	// LoggerBeanName is the bean exposing the application logger.
	LoggerBeanName = "logger"
)

type setup struct {
	name string
	fn   autoreg.SetupFunc
}

type Bootstrap struct {
	appName         string
	appVersion      string
	appEnvironment  string
	envPrefix       string
	configFiles     []string
	args            []string
	slice           *autoreg.Slice
	setups          []setup
	contexts        []*container.Context
	loggerOpts      []logger.Option
	gracefulTimeout time.Duration
	signals         []os.Signal
}

func New(appName string, appVersion string) *Bootstrap {
	appEnvironment := os.Getenv("APP_ENVIRONMENT")
	if appEnvironment == "" {
		appEnvironment = "development"
	}

	return &Bootstrap{
		appName:         appName,
		appVersion:      appVersion,
		appEnvironment:  appEnvironment,
		envPrefix:       config.DefaultEnvPrefix,
		configFiles:     config.DefaultFiles,
		args:            os.Args[1:],
		slice:           autoreg.Default(),
		gracefulTimeout: 30 * time.Second,
		signals:         []os.Signal{os.Interrupt, syscall.SIGTERM},
	}
}

func (b *Bootstrap) WithEnvPrefix(prefix string) *Bootstrap {
	b.envPrefix = prefix
	return b
}

func (b *Bootstrap) WithConfigFiles(paths ...string) *Bootstrap {
	b.configFiles = paths
	return b
}

// WithArgs replaces os.Args[1:] as the source of --key=value overrides.
func (b *Bootstrap) WithArgs(args []string) *Bootstrap {
	b.args = args
	return b
}

// WithSlice replaces the process-wide auto-registration slice.
func (b *Bootstrap) WithSlice(s *autoreg.Slice) *Bootstrap {
	b.slice = s
	return b
}

func (b *Bootstrap) WithContext(ctx *container.Context) *Bootstrap {
	b.contexts = append(b.contexts, ctx)
	return b
}

func (b *Bootstrap) WithLoggerOptions(opts ...logger.Option) *Bootstrap {
	b.loggerOpts = append(b.loggerOpts, opts...)
	return b
}

func (b *Bootstrap) WithGracefulTimeout(timeout time.Duration) *Bootstrap {
	b.gracefulTimeout = timeout
	return b
}

// WithSignals replaces SIGINT and SIGTERM as shutdown triggers. No
// arguments disables signal handling.
func (b *Bootstrap) WithSignals(sigs ...os.Signal) *Bootstrap {
	b.signals = sigs
	return b
}

func (b *Bootstrap) WithDatabase() *Bootstrap {
	b.setups = append(b.setups, setup{name: datasource.InitName, fn: datasource.Setup})
	return b
}

func (b *Bootstrap) WithCache() *Bootstrap {
	b.setups = append(b.setups, setup{name: cache.InitName, fn: cache.Setup})
	return b
}

func (b *Bootstrap) WithHealth() *Bootstrap {
	b.setups = append(b.setups, setup{name: health.InitName, fn: health.Setup})
	return b
}

// CreateApp loads configuration, installs the logger and assembles the
// context tree: config, infrastructure, the auto-registered slice and any
// contexts passed to WithContext, in that order.
func (b *Bootstrap) CreateApp() (*app.App, error) {
	values, err := config.NewLoader(b.envPrefix, b.configFiles, b.args).Load()
	if err != nil {
		return nil, ErrLoadConfig.WithCause(err)
	}
	cfg := config.NewMapConfig(values)

	log, err := logger.Init(cfg, b.loggerOpts...)
	if err != nil {
		return nil, ErrLoggerInit.WithCause(err)
	}

	reg := types.NewRegistry(types.WithLogger(log))
	ctxOpts := []container.ContextOption{container.WithLogger(log)}

	cfgCtx, err := config.NewContextFor(reg, cfg, ctxOpts...)
	if err != nil {
		return nil, err
	}
	if err := provideLogger(cfgCtx, log); err != nil {
		return nil, err
	}

	infra := container.NewContext(InfrastructureContextName, reg, ctxOpts...)
	for _, s := range b.setups {
		if err := s.fn(infra); err != nil {
			return nil, ErrSetup.WithDetail("name", s.name).WithCause(err)
		}
	}

	contributed, err := b.slice.Build(reg, ctxOpts...)
	if err != nil {
		return nil, err
	}

	opts := []app.Option{
		app.WithInfo(app.AppInfo{
			AppName:     cfg.GetString("app.name", b.appName),
			Version:     b.appVersion,
			Environment: b.appEnvironment,
		}),
		app.WithTypes(reg),
		app.WithLogger(log),
		app.WithGracefulTimeout(b.gracefulTimeout),
		app.WithContext(cfgCtx),
		app.WithContext(infra),
		app.WithContext(contributed),
	}
	if len(b.signals) > 0 {
		opts = append(opts, app.WithShutdownSignals(b.signals...))
	}
	for _, ctx := range b.contexts {
		opts = append(opts, app.WithContext(ctx))
	}

	return app.New(opts...)
}

type appLogger struct {
	contracts.Logger
}

func provideLogger(ctx *container.Context, log contracts.Logger) error {
	types.RegisterDowncast[*appLogger, contracts.Logger](ctx.Types(), func(l *appLogger) contracts.Logger { return l.Logger })

	return container.Provide(ctx, LoggerBeanName, func(*container.Context) (*appLogger, error) {
		return &appLogger{Logger: log}, nil
	}, container.AsPrimary())
}
