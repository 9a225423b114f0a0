package container

import (
	"fmt"
	"reflect"

	"github.com/shuldan/ioc/pkg/types"
)

// Factory builds the handle of one bean. The Context it receives resolves
// dependencies on behalf of that bean.
type Factory func(ctx *Context) (any, error)

// Hook runs against a constructed handle.
type Hook func(ctx *Context, handle any) error

type BeanDef struct {
	name    string
	typ     *types.Type
	factory Factory
	init    []Hook
	destroy []Hook
	primary bool
}

type Builder struct {
	def BeanDef
}

func NewBeanDef() *Builder {
	return &Builder{}
}

func (b *Builder) Name(name string) *Builder {
	b.def.name = name
	return b
}

func (b *Builder) Type(t *types.Type) *Builder {
	b.def.typ = t
	return b
}

func (b *Builder) Factory(f Factory) *Builder {
	b.def.factory = f
	return b
}

// Init appends a hook; hooks run in the order they were added.
func (b *Builder) Init(h Hook) *Builder {
	b.def.init = append(b.def.init, h)
	return b
}

func (b *Builder) Destroy(h Hook) *Builder {
	b.def.destroy = append(b.def.destroy, h)
	return b
}

// Primary marks the bean as the winner when several beans match one
// capability.
func (b *Builder) Primary() *Builder {
	b.def.primary = true
	return b
}

func (b *Builder) Build() (*BeanDef, error) {
	if b.def.typ == nil {
		return nil, ErrMissingType.WithDetail("name", b.def.name)
	}
	name := b.def.name
	if name == "" {
		name = b.def.typ.Name()
	}
	if b.def.factory == nil {
		return nil, ErrMissingFactory.WithDetail("name", name)
	}

	def := b.def
	def.name = name
	def.init = append([]Hook(nil), b.def.init...)
	def.destroy = append([]Hook(nil), b.def.destroy...)
	return &def, nil
}

func (d *BeanDef) Name() string {
	return d.name
}

func (d *BeanDef) Type() *types.Type {
	return d.typ
}

func (d *BeanDef) IsPrimary() bool {
	return d.primary
}

// Get invokes the factory once and checks the handle against the declared
// type.
func (d *BeanDef) Get(ctx *Context) (string, any, error) {
	handle, err := d.factory(ctx)
	if err != nil {
		return d.name, nil, ErrFactoryFailed.WithDetail("name", d.name).WithCause(err)
	}

	if actual := reflect.TypeOf(handle); actual != d.typ.ID() {
		return d.name, nil, ErrUnexpectedType.
			WithDetail("name", d.name).
			WithDetail("actual", fmt.Sprint(actual)).
			WithDetail("expected", d.typ.Name())
	}
	return d.name, handle, nil
}

func (d *BeanDef) Init(ctx *Context, handle any) error {
	for _, h := range d.init {
		if err := h(ctx, handle); err != nil {
			return ErrInitFailed.WithDetail("name", d.name).WithCause(err)
		}
	}
	return nil
}

func (d *BeanDef) Destroy(ctx *Context, handle any) error {
	for _, h := range d.destroy {
		if err := h(ctx, handle); err != nil {
			return ErrDestroyFailed.WithDetail("name", d.name).WithCause(err)
		}
	}
	return nil
}

func (d *BeanDef) String() string {
	if d.primary {
		return d.name + " (" + d.typ.Name() + ", primary)"
	}
	return d.name + " (" + d.typ.Name() + ")"
}

// Option customises a bean registered through Provide.
type Option func(*Builder)

func WithInit[T any](fn func(ctx *Context, v T) error) Option {
	return func(b *Builder) {
		b.Init(func(ctx *Context, handle any) error {
			return fn(ctx, handle.(T))
		})
	}
}

func WithDestroy[T any](fn func(ctx *Context, v T) error) Option {
	return func(b *Builder) {
		b.Destroy(func(ctx *Context, handle any) error {
			return fn(ctx, handle.(T))
		})
	}
}

func AsPrimary() Option {
	return func(b *Builder) {
		b.Primary()
	}
}

// Provide registers a bean of concrete type T, resolvable as T itself.
// Further capabilities are added with types.RegisterDowncast.
func Provide[T any](ctx *Context, name string, factory func(ctx *Context) (T, error), opts ...Option) error {
	t := types.RegisterSelf[T](ctx.Types())

	b := NewBeanDef().
		Name(name).
		Type(t).
		Factory(func(c *Context) (any, error) {
			return factory(c)
		})
	for _, opt := range opts {
		opt(b)
	}

	def, err := b.Build()
	if err != nil {
		return err
	}
	return ctx.Register(def)
}
