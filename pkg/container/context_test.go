package container

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shuldan/ioc/pkg/types"
)

type greeter interface {
	Greet() string
}

type propertyResolver interface {
	Lookup(key string) (string, bool)
}

type alpha struct {
	name string
}

func (a *alpha) Greet() string {
	return "hello from " + a.name
}

type staticResolver map[string]string

func (r staticResolver) Lookup(key string) (string, bool) {
	v, ok := r[key]
	return v, ok
}

func newTestContext(name string) *Context {
	return NewContext(name, types.NewRegistry())
}

func provideAlpha(t *testing.T, ctx *Context, name string, opts ...Option) {
	t.Helper()
	types.RegisterDowncast[*alpha, greeter](ctx.Types(), func(a *alpha) greeter { return a })
	if err := Provide(ctx, name, func(*Context) (*alpha, error) {
		return &alpha{name: name}, nil
	}, opts...); err != nil {
		t.Fatalf("Provide(%q) failed: %v", name, err)
	}
}

func TestContext_ConcreteAndCapabilityView(t *testing.T) {
	t.Parallel()
	ctx := newTestContext("root")
	provideAlpha(t, ctx, "A")

	concrete, err := GetBean[*alpha](ctx, "A")
	if err != nil {
		t.Fatalf("GetBean[*alpha] failed: %v", err)
	}
	viewed, err := GetBean[greeter](ctx, "A")
	if err != nil {
		t.Fatalf("GetBean[greeter] failed: %v", err)
	}

	if concrete.Greet() != viewed.Greet() {
		t.Errorf("greetings differ: %q vs %q", concrete.Greet(), viewed.Greet())
	}
}

func TestContext_Singleton(t *testing.T) {
	t.Parallel()
	ctx := newTestContext("root")

	var calls atomic.Int32
	err := Provide(ctx, "counter", func(*Context) (*counter, error) {
		calls.Add(1)
		return &counter{}, nil
	})
	if err != nil {
		t.Fatalf("Provide failed: %v", err)
	}

	first, _ := GetBean[*counter](ctx, "counter")
	first.value = 42
	second, _ := GetBean[*counter](ctx, "counter")

	if first != second || second.value != 42 {
		t.Error("expected the same instance on every resolution")
	}
	if calls.Load() != 1 {
		t.Errorf("factory called %d times", calls.Load())
	}
}

func TestContext_SingletonUnderContention(t *testing.T) {
	t.Parallel()
	ctx := newTestContext("root")

	var calls atomic.Int32
	_ = Provide(ctx, "slow", func(*Context) (*counter, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return &counter{}, nil
	})

	const workers = 16
	handles := make([]*counter, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i], errs[i] = GetBean[*counter](ctx, "slow")
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d failed: %v", i, errs[i])
		}
		if handles[i] != handles[0] {
			t.Fatalf("worker %d got a different instance", i)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("factory called %d times under contention", calls.Load())
	}
}

func TestContext_DuplicateRegistration(t *testing.T) {
	t.Parallel()
	root := newTestContext("root")
	child := NewContext("child", root.Types())
	_ = root.AddContext(child)

	provideAlpha(t, root, "A")

	err := Provide(root, "A", func(*Context) (*alpha, error) { return &alpha{name: "second"}, nil })
	if !errors.Is(err, ErrDuplicateComponent) {
		t.Fatalf("expected ErrDuplicateComponent, got %v", err)
	}

	provideAlpha(t, child, "B")
	err = Provide(root, "B", func(*Context) (*alpha, error) { return &alpha{}, nil })
	if !errors.Is(err, ErrDuplicateComponent) {
		t.Errorf("expected a descendant definition to block registration, got %v", err)
	}

	a, err := GetBean[*alpha](root, "A")
	if err != nil || a.name != "A" {
		t.Errorf("first registration should stay resolvable, got %v, %v", a, err)
	}
}

func TestContext_SiblingsMayShareNames(t *testing.T) {
	t.Parallel()
	root := newTestContext("root")
	left := NewContext("left", root.Types())
	right := NewContext("right", root.Types())

	provideAlpha(t, left, "shared")
	provideAlpha(t, right, "shared")

	if err := root.AddContext(left); err != nil {
		t.Fatal(err)
	}
	if err := root.AddContext(right); err != nil {
		t.Fatal(err)
	}

	if _, err := GetBean[*alpha](right, "shared"); err != nil {
		t.Errorf("sibling definition should resolve from its own context: %v", err)
	}
}

func TestContext_NotFound(t *testing.T) {
	t.Parallel()
	ctx := newTestContext("root")

	_, err := GetBean[*alpha](ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestContext_DowncastFailureSurfaces(t *testing.T) {
	t.Parallel()
	ctx := newTestContext("root")
	_ = Provide(ctx, "c", func(*Context) (*counter, error) { return &counter{}, nil })

	_, err := GetBean[greeter](ctx, "c")
	if !errors.Is(err, types.ErrNoDowncastRegistered) {
		t.Errorf("expected ErrNoDowncastRegistered, got %v", err)
	}
}

func TestContext_PrimaryBean(t *testing.T) {
	t.Parallel()

	t.Run("no_candidate", func(t *testing.T) {
		ctx := newTestContext("root")
		_, err := GetPrimaryBean[greeter](ctx)
		if !errors.Is(err, ErrNoCandidate) {
			t.Errorf("expected ErrNoCandidate, got %v", err)
		}
	})

	t.Run("single_deep_candidate", func(t *testing.T) {
		root := newTestContext("root")
		child := NewContext("child", root.Types())
		grandchild := NewContext("grandchild", root.Types())
		_ = root.AddContext(child)
		_ = child.AddContext(grandchild)
		provideAlpha(t, grandchild, "deep")

		g, err := GetPrimaryBean[greeter](root)
		if err != nil {
			t.Fatalf("GetPrimaryBean failed: %v", err)
		}
		if g.Greet() != "hello from deep" {
			t.Errorf("unexpected greeting %q", g.Greet())
		}
	})

	t.Run("ambiguous", func(t *testing.T) {
		ctx := newTestContext("root")
		provideAlpha(t, ctx, "one")
		provideAlpha(t, ctx, "two")

		_, err := GetPrimaryBean[greeter](ctx)
		if !errors.Is(err, ErrAmbiguousCandidate) {
			t.Fatalf("expected ErrAmbiguousCandidate, got %v", err)
		}
		if !strings.Contains(err.Error(), "one, two") {
			t.Errorf("expected candidate names in %q", err.Error())
		}
	})

	t.Run("primary_wins", func(t *testing.T) {
		ctx := newTestContext("root")
		provideAlpha(t, ctx, "one")
		provideAlpha(t, ctx, "two", AsPrimary())

		g, err := GetPrimaryBean[greeter](ctx)
		if err != nil {
			t.Fatalf("GetPrimaryBean failed: %v", err)
		}
		if g.Greet() != "hello from two" {
			t.Errorf("expected the primary bean, got %q", g.Greet())
		}
	})
}

func TestContext_GetBeansTreeWide(t *testing.T) {
	t.Parallel()
	grandparent := newTestContext("grandparent")
	parent := NewContext("parent", grandparent.Types())
	child := NewContext("child", grandparent.Types())
	_ = grandparent.AddContext(parent)
	_ = parent.AddContext(child)

	types.RegisterDowncast[staticResolver, propertyResolver](grandparent.Types(),
		func(r staticResolver) propertyResolver { return r })
	err := Provide(child, "cfg", func(*Context) (staticResolver, error) {
		return staticResolver{"a": "x"}, nil
	})
	if err != nil {
		t.Fatalf("Provide failed: %v", err)
	}

	resolvers, err := GetBeans[propertyResolver](grandparent)
	if err != nil {
		t.Fatalf("GetBeans failed: %v", err)
	}
	if len(resolvers) != 1 {
		t.Fatalf("expected 1 resolver, got %d", len(resolvers))
	}
	if v, _ := resolvers[0].Lookup("a"); v != "x" {
		t.Errorf("unexpected lookup result %q", v)
	}
}

func TestContext_PreOrder(t *testing.T) {
	t.Parallel()
	root := newTestContext("root")
	first := NewContext("first", root.Types())
	second := NewContext("second", root.Types())

	provideAlpha(t, root, "r1")
	_ = root.AddContext(first)
	_ = root.AddContext(second)
	provideAlpha(t, second, "s1")
	provideAlpha(t, first, "f1")
	provideAlpha(t, root, "r2")

	got := strings.Join(BeanNames[greeter](root), ",")
	if got != "r1,r2,f1,s1" {
		t.Errorf("unexpected order %q", got)
	}
}

func TestContext_CircularDependency(t *testing.T) {
	t.Parallel()
	ctx := newTestContext("root")

	_ = Provide(ctx, "a", func(c *Context) (*alpha, error) {
		if _, err := GetBean[*counter](c, "b"); err != nil {
			return nil, err
		}
		return &alpha{}, nil
	})
	_ = Provide(ctx, "b", func(c *Context) (*counter, error) {
		if _, err := GetBean[*alpha](c, "a"); err != nil {
			return nil, err
		}
		return &counter{}, nil
	})

	_, err := GetBean[*alpha](ctx, "a")
	if !errors.Is(err, ErrCircularDependency) {
		t.Fatalf("expected ErrCircularDependency, got %v", err)
	}
	if !strings.Contains(err.Error(), "a -> b -> a") {
		t.Errorf("expected the chain in %q", err.Error())
	}
}

func TestContext_DependencyThroughFactory(t *testing.T) {
	t.Parallel()
	ctx := newTestContext("root")
	provideAlpha(t, ctx, "dep")

	_ = Provide(ctx, "holder", func(c *Context) (*counter, error) {
		g, err := GetBean[greeter](c, "dep")
		if err != nil {
			return nil, err
		}
		return &counter{value: len(g.Greet())}, nil
	})

	h, err := GetBean[*counter](ctx, "holder")
	if err != nil {
		t.Fatalf("GetBean failed: %v", err)
	}
	if h.value != len("hello from dep") {
		t.Errorf("unexpected value %d", h.value)
	}
}

func TestContext_InitHookBeforeCache(t *testing.T) {
	t.Parallel()
	ctx := newTestContext("root")

	attempts := 0
	_ = Provide(ctx, "flaky", func(*Context) (*counter, error) {
		attempts++
		return &counter{value: attempts}, nil
	}, WithInit(func(_ *Context, c *counter) error {
		if c.value == 1 {
			return errors.New("not ready")
		}
		return nil
	}))

	if _, err := GetBean[*counter](ctx, "flaky"); !errors.Is(err, ErrInitFailed) {
		t.Fatalf("expected ErrInitFailed, got %v", err)
	}
	c, err := GetBean[*counter](ctx, "flaky")
	if err != nil {
		t.Fatalf("second resolution failed: %v", err)
	}
	if c.value != 2 {
		t.Errorf("a failed init must not be cached, got value %d", c.value)
	}
}

func TestContext_InitContexts(t *testing.T) {
	t.Parallel()
	root := newTestContext("root")
	child := NewContext("child", root.Types())
	_ = root.AddContext(child)

	var log []string
	record := func(label string) InitFn {
		return func(ctx *Context) error {
			if ctx != root && ctx.s != root.s {
				t.Errorf("init function %s ran against %s", label, ctx.Name())
			}
			log = append(log, label)
			return nil
		}
	}

	_ = child.AddInitFn("shared", record("child-shared"))
	_ = child.AddInitFn("child-only", record("child-only"))
	_ = root.AddInitFn("root-only", record("root-only"))
	_ = root.AddInitFn("shared", record("root-shared"))

	if err := root.InitContexts(); err != nil {
		t.Fatalf("InitContexts failed: %v", err)
	}

	got := strings.Join(log, ",")
	if got != "root-shared,child-only,root-only" {
		t.Errorf("unexpected init order %q", got)
	}

	if err := root.InitContexts(); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}
	if err := child.AddInitFn("late", record("late")); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("expected late init function to be rejected, got %v", err)
	}
}

func TestContext_InitFnRegistersBeans(t *testing.T) {
	t.Parallel()
	root := newTestContext("root")
	child := NewContext("child", root.Types())
	_ = root.AddContext(child)

	_ = child.AddInitFn("late-bean", func(ctx *Context) error {
		return Provide(ctx, "late", func(*Context) (*counter, error) { return &counter{value: 3}, nil })
	})

	if err := root.InitContexts(); err != nil {
		t.Fatalf("InitContexts failed: %v", err)
	}
	c, err := GetBean[*counter](root, "late")
	if err != nil || c.value != 3 {
		t.Errorf("bean registered by init function not resolvable: %v", err)
	}
}

func TestContext_InitFnFailure(t *testing.T) {
	t.Parallel()
	ctx := newTestContext("root")
	cause := errors.New("broken")
	_ = ctx.AddInitFn("broken", func(*Context) error { return cause })

	err := ctx.InitContexts()
	if !errors.Is(err, ErrInitFnFailed) || !errors.Is(err, cause) {
		t.Errorf("expected ErrInitFnFailed wrapping the cause, got %v", err)
	}
}

func TestContext_AddContext(t *testing.T) {
	t.Parallel()
	root := newTestContext("root")

	if err := root.AddContext(nil); !errors.Is(err, ErrInvalidChild) {
		t.Errorf("expected ErrInvalidChild for nil, got %v", err)
	}
	if err := root.AddContext(root); !errors.Is(err, ErrInvalidChild) {
		t.Errorf("expected ErrInvalidChild for self, got %v", err)
	}

	first := NewContext("config", root.Types())
	second := NewContext("config", root.Types())
	_ = root.AddContext(first)
	_ = root.AddContext(second)

	children := root.Children()
	if len(children) != 1 || children[0].ID() != second.ID() {
		t.Errorf("expected the second same-named child to replace the first")
	}
}

func TestContext_Destroy(t *testing.T) {
	t.Parallel()
	root := newTestContext("root")
	child := NewContext("child", root.Types())
	_ = root.AddContext(child)

	var order []string
	closer := func(name string, err error) Option {
		return WithDestroy(func(_ *Context, _ *counter) error {
			order = append(order, name)
			return err
		})
	}

	_ = Provide(child, "first", func(*Context) (*counter, error) { return &counter{}, nil }, closer("first", nil))
	_ = Provide(root, "second", func(c *Context) (*counter, error) {
		if _, err := GetBean[*counter](c, "first"); err != nil {
			return nil, err
		}
		return &counter{}, nil
	}, closer("second", errors.New("close failed")))
	_ = Provide(root, "unused", func(*Context) (*counter, error) { return &counter{}, nil }, closer("unused", nil))

	if _, err := GetBean[*counter](root, "second"); err != nil {
		t.Fatalf("GetBean failed: %v", err)
	}

	err := root.Destroy()
	if !errors.Is(err, ErrDestroyFailed) {
		t.Errorf("expected ErrDestroyFailed, got %v", err)
	}
	if strings.Join(order, ",") != "second,first" {
		t.Errorf("unexpected destroy order %v", order)
	}
	if err := root.Destroy(); err != nil {
		t.Errorf("second Destroy should be a no-op, got %v", err)
	}
}

func TestContext_Snapshot(t *testing.T) {
	t.Parallel()
	root := newTestContext("root")
	child := NewContext("child", root.Types())
	_ = root.AddContext(child)
	provideAlpha(t, root, "built")
	provideAlpha(t, child, "idle", AsPrimary())

	_, _ = GetBean[*alpha](root, "built")

	snapshot := root.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(snapshot))
	}
	if !snapshot[0].Constructed || snapshot[0].Context != "root" {
		t.Errorf("unexpected first entry %+v", snapshot[0])
	}
	if snapshot[1].Constructed || !snapshot[1].Primary || snapshot[1].Context != "child" {
		t.Errorf("unexpected second entry %+v", snapshot[1])
	}
	if len(root.BeanDefs()) != 2 {
		t.Errorf("expected 2 definitions")
	}
}
