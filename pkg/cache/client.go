package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shuldan/ioc/pkg/contracts"
	"github.com/shuldan/ioc/pkg/retry"
)

// Client wraps a go-redis client so it can be registered as a bean with
// lifecycle hooks and probed by health checks.
type Client struct {
	name     string
	options  *redis.Options
	client   *redis.Client
	attempts int
	backoff  retry.Backoff
}

var _ contracts.HealthChecker = (*Client)(nil)

func New(name string, options *redis.Options) *Client {
	return &Client{
		name:     name,
		options:  options,
		client:   redis.NewClient(options),
		attempts: 3,
		backoff:  retry.Exponential(100*time.Millisecond, 2*time.Second),
	}
}

func (c *Client) Name() string {
	return c.name
}

func (c *Client) Address() string {
	return c.options.Addr
}

func (c *Client) Redis() *redis.Client {
	return c.client
}

// Open waits until the server answers PING.
func (c *Client) Open(ctx context.Context) error {
	err := retry.Do(ctx, "ping "+c.options.Addr, c.attempts, c.backoff, c.Check)
	if err != nil {
		return ErrFailedToOpen.WithDetail("address", c.options.Addr).WithCause(err)
	}
	return nil
}

func (c *Client) Check(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if err := c.client.Close(); err != nil {
		return ErrCloseFailed.WithDetail("name", c.name).WithCause(err)
	}
	return nil
}
