package executor

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/shuldan/ioc/pkg/contracts"
)

type PanicHandler interface {
	Handle(executor string, panicValue any, stack []byte)
}

type defaultPanicHandler struct{ logger contracts.Logger }

func NewDefaultPanicHandler(logger contracts.Logger) PanicHandler {
	return &defaultPanicHandler{logger: logger}
}

func (d *defaultPanicHandler) Handle(executor string, panicValue any, stack []byte) {
	if d.logger == nil {
		slog.Error("task panic", "executor", executor, "panic", panicValue, "stack", string(stack))
		return
	}
	d.logger.Critical("task panic", "executor", executor, "panic", panicValue, "stack", string(stack))
}

// Safe wraps task so that a panic is reported to h and returned as
// ErrTaskPanic instead of unwinding the calling goroutine.
func Safe(name string, h PanicHandler, task func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				if h != nil {
					h.Handle(name, r, stack)
				}
				err = ErrTaskPanic.
					WithDetail("executor", name).
					WithDetail("panic", fmt.Sprint(r)).
					WithDetail("stack", string(stack))
			}
		}()
		return task(ctx)
	}
}
