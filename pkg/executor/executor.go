package executor

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/shuldan/ioc/pkg/contracts"
)

type Option func(*options)

type options struct {
	panicHandler PanicHandler
}

func WithPanicHandler(h PanicHandler) Option {
	return func(o *options) {
		o.panicHandler = h
	}
}

func WithLogger(l contracts.Logger) Option {
	return func(o *options) {
		o.panicHandler = NewDefaultPanicHandler(l)
	}
}

func buildOptions(opts []Option) *options {
	o := &options{panicHandler: NewDefaultPanicHandler(nil)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type goroutineExecutor struct {
	name         string
	panicHandler PanicHandler
}

var (
	shared     contracts.Executor
	sharedOnce sync.Once
)

// Shared is the process default: every task gets its own goroutine and
// Close is a no-op.
func Shared() contracts.Executor {
	sharedOnce.Do(func() {
		shared = NewGoroutine("shared")
	})
	return shared
}

func NewGoroutine(name string, opts ...Option) contracts.Executor {
	o := buildOptions(opts)
	return &goroutineExecutor{name: name, panicHandler: o.panicHandler}
}

func (e *goroutineExecutor) Execute(ctx context.Context, task func(ctx context.Context) error) error {
	done := make(chan error, 1)
	go func() {
		done <- Safe(e.name, e.panicHandler, task)(ctx)
	}()
	return <-done
}

func (e *goroutineExecutor) Close() error {
	return nil
}

// Pool runs at most size tasks at once. Execute blocks while the pool is
// full.
type Pool struct {
	name         string
	size         int
	panicHandler PanicHandler

	mu     sync.RWMutex
	closed bool
	group  *errgroup.Group
}

var _ contracts.Executor = (*Pool)(nil)

func NewPool(name string, size int, opts ...Option) (*Pool, error) {
	if size <= 0 {
		return nil, ErrInvalidSize.WithDetail("executor", name).WithDetail("size", size)
	}
	o := buildOptions(opts)

	g := &errgroup.Group{}
	g.SetLimit(size)

	return &Pool{
		name:         name,
		size:         size,
		panicHandler: o.panicHandler,
		group:        g,
	}, nil
}

func (p *Pool) Name() string {
	return p.name
}

func (p *Pool) Size() int {
	return p.size
}

func (p *Pool) Execute(ctx context.Context, task func(ctx context.Context) error) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrExecutorClosed.WithDetail("executor", p.name)
	}

	done := make(chan error, 1)
	safe := Safe(p.name, p.panicHandler, task)
	p.group.Go(func() error {
		done <- safe(ctx)
		return nil
	})
	p.mu.RUnlock()

	return <-done
}

// Close rejects new tasks and waits for running ones.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	return p.group.Wait()
}
