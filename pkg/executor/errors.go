package executor

import "github.com/shuldan/ioc/pkg/errors"

var newExecutorCode = errors.WithPrefix("EXECUTOR")

var (
	ErrExecutorClosed = newExecutorCode().New("executor {{.executor}} is closed")
	ErrTaskPanic      = newExecutorCode().New("task panicked on {{.executor}}: {{.panic}}")
	ErrInvalidSize    = newExecutorCode().New("executor {{.executor}} needs a positive size, got {{.size}}")
)
