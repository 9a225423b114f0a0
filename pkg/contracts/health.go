package contracts

import "context"

// HealthChecker is implemented by beans backed by an external service that
// can be probed.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}
