package types

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/shuldan/ioc/pkg/contracts"
	"github.com/shuldan/ioc/pkg/logger"
)

// Registry maps concrete types to their descriptors. Descriptors are created
// lazily on first use; downcasts are only ever added explicitly.
type Registry struct {
	types  sync.Map
	count  atomic.Int64
	logger contracts.Logger
}

type Option func(*Registry)

func WithLogger(l contracts.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{logger: logger.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Of returns the descriptor for T. T should be the concrete type stored in
// handles; an interface type never matches a handle's dynamic type.
func Of[T any](r *Registry) *Type {
	return r.OfType(reflect.TypeOf((*T)(nil)).Elem())
}

// Capability returns the identity used as a downcast target for C.
func Capability[C any]() reflect.Type {
	return reflect.TypeOf((*C)(nil)).Elem()
}

func (r *Registry) OfType(id reflect.Type) *Type {
	if t, ok := r.types.Load(id); ok {
		return t.(*Type)
	}

	actual, loaded := r.types.LoadOrStore(id, newType(id))
	if !loaded {
		r.count.Add(1)
		r.logger.Trace("type descriptor created", "type", id.String())
	}
	return actual.(*Type)
}

func (r *Registry) Lookup(id reflect.Type) (*Type, bool) {
	if id == nil {
		return nil, false
	}
	t, ok := r.types.Load(id)
	if !ok {
		return nil, false
	}
	return t.(*Type), true
}

func (r *Registry) Len() int {
	return int(r.count.Load())
}

func (r *Registry) IsAssignable(source, capability reflect.Type) bool {
	t, ok := r.Lookup(source)
	if !ok {
		return false
	}
	return t.Assignable(capability)
}

// RegisterDowncast installs fn as the way to view a T handle as C. A second
// registration for the same pair replaces the first.
func RegisterDowncast[T, C any](r *Registry, fn func(T) C) *Type {
	t := Of[T](r)
	capability := Capability[C]()

	replaced := t.setDowncast(capability, func(handle any) (any, bool) {
		v, ok := handle.(T)
		if !ok {
			return nil, false
		}
		return fn(v), true
	})
	if replaced {
		r.logger.Warn("downcast replaced", "type", t.Name(), "capability", capability.String())
	}
	return t
}

// RegisterSelf makes T resolvable as itself.
func RegisterSelf[T any](r *Registry) *Type {
	return RegisterDowncast[T, T](r, func(v T) T { return v })
}

// Downcast views handle as C using the descriptor of the handle's dynamic
// type.
func Downcast[C any](r *Registry, handle any) (C, error) {
	var zero C
	capability := Capability[C]()

	id := reflect.TypeOf(handle)
	t, ok := r.Lookup(id)
	if !ok {
		return zero, ErrUnregisteredType.WithDetail("type", typeName(id))
	}

	fn, ok := t.downcast(capability)
	if !ok {
		return zero, ErrNoDowncastRegistered.
			WithDetail("type", t.Name()).
			WithDetail("capability", capability.String())
	}

	v, ok := fn(handle)
	if !ok {
		return zero, ErrDowncastMismatch.
			WithDetail("type", t.Name()).
			WithDetail("capability", capability.String())
	}
	c, ok := v.(C)
	if !ok {
		return zero, ErrDowncastMismatch.
			WithDetail("type", t.Name()).
			WithDetail("capability", capability.String())
	}
	return c, nil
}

func typeName(id reflect.Type) string {
	if id == nil {
		return "<nil>"
	}
	return id.String()
}
