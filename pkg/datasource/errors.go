package datasource

import "github.com/shuldan/ioc/pkg/errors"

var newDatasourceCode = errors.WithPrefix("DATASOURCE")

var (
	ErrResolveConfig       = newDatasourceCode().New("failed to resolve configuration")
	ErrConnectionsNotFound = newDatasourceCode().New("database.connections section not found")
	ErrDriverNotSpecified  = newDatasourceCode().New("driver not specified for connection {{.name}}")
	ErrDSNNotSpecified     = newDatasourceCode().New("dsn not specified for connection {{.name}}")
	ErrUnknownDefault      = newDatasourceCode().New("default connection {{.name}} is not configured")
	ErrFailedToOpen        = newDatasourceCode().New("failed to open database {{.name}}")
	ErrNotConnected        = newDatasourceCode().New("database {{.name}} not connected")
	ErrCloseFailed         = newDatasourceCode().New("failed to close database {{.name}}")
)
