package health

import "github.com/shuldan/ioc/pkg/errors"

var newHealthCode = errors.WithPrefix("HEALTH")

var (
	ErrResolveConfig = newHealthCode().New("failed to resolve configuration")
	ErrServerStart   = newHealthCode().New("health server failed to listen on {{.addr}}")
	ErrServerStop    = newHealthCode().New("health server shutdown failed")
)
