package container

import (
	"strings"

	"github.com/shuldan/ioc/pkg/types"
)

// GetBean resolves name and views it as C.
func GetBean[C any](ctx *Context, name string) (C, error) {
	handle, err := ctx.Bean(name)
	if err != nil {
		var zero C
		return zero, err
	}
	return types.Downcast[C](ctx.Types(), handle)
}

// GetPrimaryBean resolves the single bean assignable to C. When several
// match, exactly one of them must be marked primary.
func GetPrimaryBean[C any](ctx *Context) (C, error) {
	var zero C
	capability := types.Capability[C]()
	candidates := candidatesOf[C](ctx)

	switch len(candidates) {
	case 0:
		return zero, ErrNoCandidate.
			WithDetail("capability", capability.String()).
			WithDetail("context", ctx.Name())
	case 1:
		return GetBean[C](ctx, candidates[0].name)
	}

	var primary []*BeanDef
	for _, def := range candidates {
		if def.primary {
			primary = append(primary, def)
		}
	}
	if len(primary) == 1 {
		return GetBean[C](ctx, primary[0].name)
	}

	return zero, ErrAmbiguousCandidate.
		WithDetail("capability", capability.String()).
		WithDetail("count", len(candidates)).
		WithDetail("names", strings.Join(namesOf(candidates), ", "))
}

// GetBeans resolves every bean assignable to C in BeanNames order.
func GetBeans[C any](ctx *Context) ([]C, error) {
	names := BeanNames[C](ctx)
	result := make([]C, 0, len(names))
	for _, name := range names {
		v, err := GetBean[C](ctx, name)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

// BeanNames lists the beans assignable to C, depth-first pre-order.
func BeanNames[C any](ctx *Context) []string {
	return namesOf(candidatesOf[C](ctx))
}

func candidatesOf[C any](ctx *Context) []*BeanDef {
	capability := types.Capability[C]()
	var result []*BeanDef
	ctx.s.walk(func(_ *scope, def *BeanDef) bool {
		if def.typ.Assignable(capability) {
			result = append(result, def)
		}
		return true
	})
	return result
}

func namesOf(defs []*BeanDef) []string {
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.name
	}
	return names
}
