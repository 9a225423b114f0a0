package container

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/shuldan/ioc/pkg/contracts"
	"github.com/shuldan/ioc/pkg/errors"
	"github.com/shuldan/ioc/pkg/logger"
	"github.com/shuldan/ioc/pkg/types"
)

// InitFn is a deferred setup step, run against the root of the tree by
// InitContexts. It may register further beans.
type InitFn func(ctx *Context) error

// Context is a named scope of bean definitions with child scopes and a cache
// of constructed beans. A Context value handed to a factory additionally
// remembers which beans are being built so cycles are reported instead of
// deadlocking.
type Context struct {
	s     *scope
	chain *link
}

type scope struct {
	id     string
	name   string
	types  *types.Registry
	logger contracts.Logger

	mu          sync.RWMutex
	defs        []*BeanDef
	children    []*scope
	initFns     []namedInitFn
	initialized bool

	cache  sync.Map
	flight singleflight.Group
}

type namedInitFn struct {
	name string
	fn   InitFn
}

type entry struct {
	def    *BeanDef
	handle any
	seq    uint64
}

type link struct {
	name   string
	parent *link
}

var constructed atomic.Uint64

type ContextOption func(*scope)

func WithLogger(l contracts.Logger) ContextOption {
	return func(s *scope) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewContext(name string, reg *types.Registry, opts ...ContextOption) *Context {
	if reg == nil {
		reg = types.NewRegistry()
	}
	s := &scope{
		id:     uuid.NewString(),
		name:   name,
		types:  reg,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("context", name)
	return &Context{s: s}
}

func (c *Context) ID() string {
	return c.s.id
}

func (c *Context) Name() string {
	return c.s.name
}

func (c *Context) Types() *types.Registry {
	return c.s.types
}

func (c *Context) Logger() contracts.Logger {
	return c.s.logger
}

func (c *Context) String() string {
	return c.s.name + "#" + c.s.id
}

// Register adds def to this Context. The name must not be visible from here
// yet, i.e. neither this Context nor its descendants may define it.
func (c *Context) Register(def *BeanDef) error {
	if def == nil {
		return ErrMissingType.WithDetail("name", "<nil>")
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if c.s.hasLocked(def.name) {
		return ErrDuplicateComponent.
			WithDetail("name", def.name).
			WithDetail("context", c.s.name)
	}
	c.s.defs = append(c.s.defs, def)
	c.s.logger.Debug("bean registered", "bean", def.name, "type", def.typ.Name())
	return nil
}

// AddInitFn queues fn under name. A second fn under the same name in this
// Context replaces the first.
func (c *Context) AddInitFn(name string, fn InitFn) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if c.s.initialized {
		return ErrAlreadyInitialized.WithDetail("context", c.s.name)
	}
	for i := range c.s.initFns {
		if c.s.initFns[i].name == name {
			c.s.logger.Warn("init function replaced", "init", name)
			c.s.initFns[i].fn = fn
			return nil
		}
	}
	c.s.initFns = append(c.s.initFns, namedInitFn{name: name, fn: fn})
	return nil
}

// AddContext attaches child for resolution. A child with the same name is
// replaced. Cycles are not detected.
func (c *Context) AddContext(child *Context) error {
	if child == nil || child.s == c.s {
		return ErrInvalidChild.
			WithDetail("context", c.s.name).
			WithDetail("child", describe(child))
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	for i, existing := range c.s.children {
		if existing.name == child.s.name {
			c.s.logger.Warn("child context replaced", "child", child.s.name)
			c.s.children[i] = child.s
			return nil
		}
	}
	c.s.children = append(c.s.children, child.s)
	c.s.logger.Debug("child context attached", "child", child.s.name)
	return nil
}

func (c *Context) Children() []*Context {
	children := c.s.snapshotChildren()
	result := make([]*Context, len(children))
	for i, s := range children {
		result[i] = &Context{s: s}
	}
	return result
}

// BeanDefs lists every definition visible from c, depth-first pre-order.
func (c *Context) BeanDefs() []*BeanDef {
	var result []*BeanDef
	c.s.walk(func(_ *scope, def *BeanDef) bool {
		result = append(result, def)
		return true
	})
	return result
}

// BeanInfo is a diagnostic view of one definition.
type BeanInfo struct {
	Context     string `json:"context"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Primary     bool   `json:"primary"`
	Constructed bool   `json:"constructed"`
}

func (c *Context) Snapshot() []BeanInfo {
	var result []BeanInfo
	c.s.walk(func(owner *scope, def *BeanDef) bool {
		_, ok := owner.cache.Load(def.name)
		result = append(result, BeanInfo{
			Context:     owner.name,
			Name:        def.name,
			Type:        def.typ.Name(),
			Primary:     def.primary,
			Constructed: ok,
		})
		return true
	})
	return result
}

// InitContexts runs every queued init function of the tree against c.
// Children are gathered before their parent, and a parent function replaces
// a same-named child function in place.
func (c *Context) InitContexts() error {
	c.s.mu.Lock()
	if c.s.initialized {
		c.s.mu.Unlock()
		return ErrAlreadyInitialized.WithDetail("context", c.s.name)
	}
	c.s.initialized = true
	c.s.mu.Unlock()

	var ordered []namedInitFn
	index := make(map[string]int)
	c.s.gatherInitFns(func(owner *scope, f namedInitFn) {
		if i, ok := index[f.name]; ok {
			c.s.logger.Warn("init function overridden", "init", f.name, "by", owner.name)
			ordered[i].fn = f.fn
			return
		}
		index[f.name] = len(ordered)
		ordered = append(ordered, f)
	})

	c.s.logger.Debug("running init functions", "count", len(ordered))
	for _, f := range ordered {
		if err := f.fn(c); err != nil {
			return ErrInitFnFailed.WithDetail("name", f.name).WithCause(err)
		}
		c.s.logger.Trace("init function done", "init", f.name)
	}
	return nil
}

// Bean resolves name to its handle, constructing it on first use. The handle
// is cached in the Context that owns the definition.
func (c *Context) Bean(name string) (any, error) {
	def, owner := c.s.find(name)
	if def == nil {
		return nil, ErrNotFound.
			WithDetail("name", name).
			WithDetail("context", c.s.name)
	}

	if e, ok := owner.cached(name); ok {
		c.s.logger.Trace("bean cache hit", "bean", name)
		return e.handle, nil
	}

	if c.chain.contains(name) {
		return nil, ErrCircularDependency.WithDetail("chain", c.chain.path(name))
	}

	handle, err, _ := owner.flight.Do(name, func() (any, error) {
		if e, ok := owner.cached(name); ok {
			return e.handle, nil
		}
		return owner.construct(&Context{s: c.s, chain: &link{name: name, parent: c.chain}}, def)
	})
	if err != nil {
		return nil, err
	}
	return handle, nil
}

// Destroy runs the destroy hooks of every bean constructed in the tree, most
// recently constructed first, and empties the caches.
func (c *Context) Destroy() error {
	var entries []*entry
	c.s.drain(&entries)

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq > entries[j].seq
	})

	var errs []error
	for _, e := range entries {
		if err := e.def.Destroy(c, e.handle); err != nil {
			c.s.logger.Error("bean destroy failed", "bean", e.def.name, "error", err)
			errs = append(errs, err)
			continue
		}
		c.s.logger.Trace("bean destroyed", "bean", e.def.name)
	}
	return errors.Join(errs...)
}

func (s *scope) construct(ctx *Context, def *BeanDef) (any, error) {
	s.logger.Debug("constructing bean", "bean", def.name, "chain", ctx.chain.path(""))

	_, handle, err := def.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := def.Init(ctx, handle); err != nil {
		return nil, err
	}

	e := &entry{def: def, handle: handle, seq: constructed.Add(1)}
	if _, loaded := s.cache.LoadOrStore(def.name, e); loaded {
		return nil, ErrUnexpectedDuplicate.
			WithDetail("name", def.name).
			WithDetail("context", s.name)
	}
	return handle, nil
}

func (s *scope) cached(name string) (*entry, bool) {
	v, ok := s.cache.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*entry), true
}

func (s *scope) snapshotChildren() []*scope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*scope(nil), s.children...)
}

func (s *scope) snapshotDefs() []*BeanDef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*BeanDef(nil), s.defs...)
}

// hasLocked reports whether name is defined here or below. s.mu is held.
func (s *scope) hasLocked(name string) bool {
	for _, d := range s.defs {
		if d.name == name {
			return true
		}
	}
	for _, child := range s.children {
		if def, _ := child.find(name); def != nil {
			return true
		}
	}
	return false
}

func (s *scope) find(name string) (*BeanDef, *scope) {
	var found *BeanDef
	var owner *scope
	s.walk(func(o *scope, def *BeanDef) bool {
		if def.name == name {
			found, owner = def, o
			return false
		}
		return true
	})
	return found, owner
}

// walk visits own definitions in registration order, then each child in
// attachment order. It stops when visit returns false.
func (s *scope) walk(visit func(owner *scope, def *BeanDef) bool) bool {
	for _, def := range s.snapshotDefs() {
		if !visit(s, def) {
			return false
		}
	}
	for _, child := range s.snapshotChildren() {
		if !child.walk(visit) {
			return false
		}
	}
	return true
}

func (s *scope) gatherInitFns(add func(owner *scope, f namedInitFn)) {
	for _, child := range s.snapshotChildren() {
		child.gatherInitFns(add)
	}

	s.mu.Lock()
	s.initialized = true
	fns := append([]namedInitFn(nil), s.initFns...)
	s.mu.Unlock()

	for _, f := range fns {
		add(s, f)
	}
}

func (s *scope) drain(into *[]*entry) {
	s.cache.Range(func(key, value any) bool {
		s.cache.Delete(key)
		*into = append(*into, value.(*entry))
		return true
	})
	for _, child := range s.snapshotChildren() {
		child.drain(into)
	}
}

func (l *link) contains(name string) bool {
	for cur := l; cur != nil; cur = cur.parent {
		if cur.name == name {
			return true
		}
	}
	return false
}

// path renders the chain from the outermost bean, followed by next.
func (l *link) path(next string) string {
	var names []string
	for cur := l; cur != nil; cur = cur.parent {
		names = append(names, cur.name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	if next != "" {
		names = append(names, next)
	}
	return strings.Join(names, " -> ")
}

func describe(c *Context) string {
	if c == nil {
		return "<nil>"
	}
	return c.s.name
}
