package cache

import "github.com/shuldan/ioc/pkg/errors"

var newCacheCode = errors.WithPrefix("CACHE")

var (
	ErrResolveConfig = newCacheCode().New("failed to resolve configuration")
	ErrFailedToOpen  = newCacheCode().New("failed to reach redis {{.address}}")
	ErrCloseFailed   = newCacheCode().New("failed to close redis client {{.name}}")
)
