package autoreg

import (
	"sync"

	"github.com/shuldan/ioc/pkg/container"
	"github.com/shuldan/ioc/pkg/errors"
	"github.com/shuldan/ioc/pkg/types"
)

// ContextName is the name of the Context produced by Build.
const ContextName = "auto-registered"

var newAutoregCode = errors.WithPrefix("AUTOREG")

var ErrSetupFailed = newAutoregCode().New("auto-registration {{.name}} failed")

type SetupFunc func(ctx *container.Context) error

type contribution struct {
	name string
	fn   SetupFunc
}

// Slice is an append-only list of setup functions contributed by modules
// that do not know about each other.
type Slice struct {
	mu      sync.RWMutex
	entries []contribution
}

func New() *Slice {
	return &Slice{}
}

// Contribute appends fn. It panics on a nil fn, like sql.Register does for a
// nil driver.
func (s *Slice) Contribute(name string, fn SetupFunc) {
	if fn == nil {
		panic("autoreg: Contribute " + name + " with nil SetupFunc")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, contribution{name: name, fn: fn})
}

func (s *Slice) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Slice) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.name
	}
	return names
}

// Build creates a fresh Context and runs every contribution against it in
// contribution order. The first failure aborts.
func (s *Slice) Build(reg *types.Registry, opts ...container.ContextOption) (*container.Context, error) {
	s.mu.RLock()
	entries := append([]contribution(nil), s.entries...)
	s.mu.RUnlock()

	ctx := container.NewContext(ContextName, reg, opts...)
	for _, e := range entries {
		if err := e.fn(ctx); err != nil {
			return nil, ErrSetupFailed.WithDetail("name", e.name).WithCause(err)
		}
		ctx.Logger().Trace("auto-registration applied", "contribution", e.name)
	}
	return ctx, nil
}

var defaultSlice = New()

// Default is the process-wide slice filled by Contribute.
func Default() *Slice {
	return defaultSlice
}

// Contribute appends fn to the process-wide slice. Call it from a package
// init function.
func Contribute(name string, fn SetupFunc) {
	defaultSlice.Contribute(name, fn)
}
