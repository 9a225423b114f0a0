package app

import "github.com/shuldan/ioc/pkg/errors"

var newAppCode = errors.WithPrefix("APP")
var newRunnerCode = errors.WithPrefix("APP_RUNNER")

var (
	ErrAppAlreadyRunning = newAppCode().New("application {{.app}} was already executed")
	ErrAppInit           = newAppCode().New("application {{.app}} failed to initialize its contexts")
	ErrAppResolve        = newAppCode().New("application {{.app}} failed to resolve runners")
	ErrAppStop           = newAppCode().New("application stop failed with reason: {{.reason}}")
	ErrAppAssemble       = newAppCode().New("application {{.app}} cannot attach contexts in state {{.state}}")

	ErrRunnerFailed     = newRunnerCode().New("runner {{.runner}} failed")
	ErrRunnerTaskFailed = newRunnerCode().New("runner {{.runner}} task aborted")
	ErrRunnerSubstrate  = newRunnerCode().New("runner {{.runner}} could not obtain an executor")
)
