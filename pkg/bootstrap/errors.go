package bootstrap

import "github.com/shuldan/ioc/pkg/errors"

var newBootstrapCode = errors.WithPrefix("BOOTSTRAP")

var (
	ErrLoadConfig = newBootstrapCode().New("failed to load configuration")
	ErrLoggerInit = newBootstrapCode().New("failed to initialize logger")
	ErrSetup      = newBootstrapCode().New("infrastructure setup {{.name}} failed")
)
