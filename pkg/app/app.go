package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/shuldan/ioc/pkg/container"
	"github.com/shuldan/ioc/pkg/contracts"
	"github.com/shuldan/ioc/pkg/errors"
	"github.com/shuldan/ioc/pkg/executor"
	"github.com/shuldan/ioc/pkg/logger"
	"github.com/shuldan/ioc/pkg/types"
)

// RootContextName is the name of the Context every App owns.
const RootContextName = "root"

type AppInfo struct {
	AppName     string
	Version     string
	Environment string
}

// App owns a root Context, initializes it and runs every Runner bean found
// in the tree.
type App struct {
	info            AppInfo
	types           *types.Registry
	logger          contracts.Logger
	executor        contracts.Executor
	signals         []os.Signal
	shutdownTimeout time.Duration
	pending         []*container.Context

	root     *container.Context
	state    atomic.Int32
	executed atomic.Bool
}

type Option func(*App)

func WithInfo(info AppInfo) Option {
	return func(a *App) {
		a.info = info
	}
}

func WithName(name string) Option {
	return func(a *App) {
		a.info.AppName = name
	}
}

func WithTypes(reg *types.Registry) Option {
	return func(a *App) {
		a.types = reg
	}
}

func WithLogger(l contracts.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithExecutor replaces the executor used by runners that do not provide
// their own.
func WithExecutor(e contracts.Executor) Option {
	return func(a *App) {
		if e != nil {
			a.executor = e
		}
	}
}

// WithShutdownSignals cancels the context handed to runners when one of
// sigs arrives.
func WithShutdownSignals(sigs ...os.Signal) Option {
	return func(a *App) {
		a.signals = sigs
	}
}

// WithGracefulTimeout bounds how long destroy hooks may take after the last
// runner returns.
func WithGracefulTimeout(timeout time.Duration) Option {
	return func(a *App) {
		a.shutdownTimeout = timeout
	}
}

func WithContext(child *container.Context) Option {
	return func(a *App) {
		a.pending = append(a.pending, child)
	}
}

func New(opts ...Option) (*App, error) {
	a := &App{
		info:            AppInfo{AppName: "app"},
		logger:          logger.Nop(),
		executor:        executor.Shared(),
		shutdownTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.types == nil {
		a.types = types.NewRegistry(types.WithLogger(a.logger))
	}
	a.logger = a.logger.With("app", a.info.AppName)
	a.root = container.NewContext(RootContextName, a.types, container.WithLogger(a.logger))

	for _, child := range a.pending {
		if err := a.AddContext(child); err != nil {
			return nil, err
		}
	}
	a.pending = nil
	return a, nil
}

func (a *App) Info() AppInfo {
	return a.info
}

func (a *App) Context() *container.Context {
	return a.root
}

func (a *App) Types() *types.Registry {
	return a.types
}

func (a *App) State() State {
	return State(a.state.Load())
}

// AddContext attaches child to the root. It is only allowed before Exec.
func (a *App) AddContext(child *container.Context) error {
	s := a.State()
	if s != StateCreated && s != StateContextsAssembled {
		return ErrAppAssemble.
			WithDetail("app", a.info.AppName).
			WithDetail("state", s.String())
	}
	if err := a.root.AddContext(child); err != nil {
		return err
	}
	a.state.CompareAndSwap(int32(StateCreated), int32(StateContextsAssembled))
	return nil
}

// Exec initializes the tree, runs all runners concurrently and waits for
// every one of them. A failing runner never stops its siblings; all
// failures are returned together.
func (a *App) Exec(ctx context.Context) error {
	if !a.executed.CompareAndSwap(false, true) {
		return ErrAppAlreadyRunning.WithDetail("app", a.info.AppName)
	}

	if len(a.signals) > 0 {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, a.signals...)
		defer stop()
	}

	log := a.logger.With("run", uuid.NewString())
	log.Info("application starting", "version", a.info.Version, "environment", a.info.Environment)

	if err := a.root.InitContexts(); err != nil {
		a.setState(StateFinished)
		log.Error("context initialization failed", "error", err)
		return errors.Join(
			ErrAppInit.WithDetail("app", a.info.AppName).WithCause(err),
			a.shutdown(log),
		)
	}
	a.setState(StateInitialized)

	runners, err := a.resolveRunners()
	if err != nil {
		a.setState(StateFinished)
		log.Error("runner resolution failed", "error", err)
		return errors.Join(
			ErrAppResolve.WithDetail("app", a.info.AppName).WithCause(err),
			a.shutdown(log),
		)
	}
	a.setState(StateRunnersResolved)
	log.Debug("runners resolved", "count", len(runners))

	a.setState(StateRunning)
	results := make([]error, len(runners))
	var wg sync.WaitGroup
	for i := range runners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = a.run(ctx, log, &runners[i])
		}()
	}
	wg.Wait()
	a.setState(StateFinished)

	var errs []error
	for i, err := range results {
		if err != nil {
			log.Error("runner failed", "runner", runners[i].name, "error", err)
			errs = append(errs, err)
		}
	}
	errs = append(errs, a.shutdown(log))

	if err := errors.Join(errs...); err != nil {
		return err
	}
	log.Info("application finished")
	return nil
}

func (a *App) setState(s State) {
	a.state.Store(int32(s))
}

// shutdown runs destroy hooks within the graceful timeout.
func (a *App) shutdown(log contracts.Logger) error {
	if a.shutdownTimeout <= 0 {
		return a.root.Destroy()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.root.Destroy()
	}()

	timer := time.NewTimer(a.shutdownTimeout)
	defer timer.Stop()

	select {
	case err := <-errCh:
		return err
	case <-timer.C:
		log.Warn("destroy hooks timed out", "timeout", a.shutdownTimeout)
		return ErrAppStop.WithDetail("reason", "graceful shutdown timed out after "+a.shutdownTimeout.String())
	}
}
