package types

import "github.com/shuldan/ioc/pkg/errors"

var newTypesCode = errors.WithPrefix("TYPES")

var (
	ErrUnregisteredType     = newTypesCode().New("type {{.type}} has no descriptor")
	ErrNoDowncastRegistered = newTypesCode().New("no downcast from {{.type}} to {{.capability}}")
	ErrDowncastMismatch     = newTypesCode().New("downcast from {{.type}} to {{.capability}} rejected the handle")
)
