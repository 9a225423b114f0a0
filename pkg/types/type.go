package types

import (
	"reflect"
	"sort"
	"sync"
)

type downcastFn func(handle any) (any, bool)

// Type describes one concrete type and the capabilities it can be viewed as.
type Type struct {
	id   reflect.Type
	name string

	mu        sync.RWMutex
	downcasts map[reflect.Type]downcastFn
}

func newType(id reflect.Type) *Type {
	return &Type{
		id:        id,
		name:      id.String(),
		downcasts: make(map[reflect.Type]downcastFn),
	}
}

func (t *Type) Name() string {
	return t.name
}

func (t *Type) ID() reflect.Type {
	return t.id
}

func (t *Type) Assignable(capability reflect.Type) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.downcasts[capability]
	return ok
}

// Capabilities lists registered targets sorted by name.
func (t *Type) Capabilities() []reflect.Type {
	t.mu.RLock()
	result := make([]reflect.Type, 0, len(t.downcasts))
	for c := range t.downcasts {
		result = append(result, c)
	}
	t.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].String() < result[j].String()
	})
	return result
}

func (t *Type) String() string {
	return t.name
}

func (t *Type) setDowncast(capability reflect.Type, fn downcastFn) (replaced bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, replaced = t.downcasts[capability]
	t.downcasts[capability] = fn
	return replaced
}

func (t *Type) downcast(capability reflect.Type) (downcastFn, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn, ok := t.downcasts[capability]
	return fn, ok
}
