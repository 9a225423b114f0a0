package contracts

import "context"

// Runner is a long-running component started by the application driver.
type Runner interface {
	Run(ctx context.Context) error
}

// NamedRunner overrides the bean name used for a runner in diagnostics.
type NamedRunner interface {
	Runner
	Name() string
}

// ExecutorProvider lets a runner choose the substrate it runs on. Runners
// without it run on the shared default executor.
type ExecutorProvider interface {
	Executor(ctx context.Context) (Executor, error)
}

type Executor interface {
	// Execute runs task on the substrate and blocks until it returns.
	Execute(ctx context.Context, task func(ctx context.Context) error) error
	Close() error
}
