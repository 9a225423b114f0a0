package app

import (
	"context"
	"fmt"

	"github.com/shuldan/ioc/pkg/container"
	"github.com/shuldan/ioc/pkg/contracts"
	"github.com/shuldan/ioc/pkg/errors"
	"github.com/shuldan/ioc/pkg/executor"
)

type namedRunner struct {
	name   string
	runner contracts.Runner
}

func (a *App) resolveRunners() ([]namedRunner, error) {
	names := container.BeanNames[contracts.Runner](a.root)
	runners := make([]namedRunner, 0, len(names))
	for _, name := range names {
		r, err := container.GetBean[contracts.Runner](a.root, name)
		if err != nil {
			return nil, err
		}
		runners = append(runners, namedRunner{name: name, runner: r})
	}
	return runners, nil
}

// run owns everything a runner does on its goroutine, naming and executor
// provisioning included, so a panic anywhere stays with that runner.
func (a *App) run(ctx context.Context, log contracts.Logger, r *namedRunner) (err error) {
	defer func() {
		if p := recover(); p != nil {
			log.Critical("runner setup panicked", "runner", r.name, "panic", p)
			err = ErrRunnerTaskFailed.
				WithDetail("runner", r.name).
				WithCause(executor.ErrTaskPanic.
					WithDetail("executor", r.name).
					WithDetail("panic", fmt.Sprint(p)))
		}
	}()

	if nr, ok := r.runner.(contracts.NamedRunner); ok {
		if name := nr.Name(); name != "" {
			r.name = name
		}
	}
	log = log.With("runner", r.name)

	exec := a.executor
	if p, ok := r.runner.(contracts.ExecutorProvider); ok {
		own, err := p.Executor(ctx)
		if err != nil {
			return ErrRunnerSubstrate.WithDetail("runner", r.name).WithCause(err)
		}
		exec = own
		defer func() {
			if cerr := own.Close(); cerr != nil {
				log.Warn("runner executor close failed", "error", cerr)
			}
		}()
	}

	log.Debug("runner started")
	task := executor.Safe(r.name, executor.NewDefaultPanicHandler(log), r.runner.Run)
	if err := exec.Execute(ctx, task); err != nil {
		if errors.Is(err, executor.ErrTaskPanic) {
			return ErrRunnerTaskFailed.WithDetail("runner", r.name).WithCause(err)
		}
		return ErrRunnerFailed.WithDetail("runner", r.name).WithCause(err)
	}
	log.Debug("runner finished")
	return nil
}
