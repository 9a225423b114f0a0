package datasource

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/shuldan/ioc/pkg/contracts"
	"github.com/shuldan/ioc/pkg/retry"
)

type settings struct {
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
	connMaxIdleTime time.Duration
	pingTimeout     time.Duration
	retryAttempts   int
	backoff         retry.Backoff
}

type Option func(*settings)

func WithConnectionPool(maxOpen, maxIdle int, maxLifetime time.Duration) Option {
	return func(s *settings) {
		s.maxOpenConns = maxOpen
		s.maxIdleConns = maxIdle
		s.connMaxLifetime = maxLifetime
	}
}

func WithConnectionIdleTime(idleTime time.Duration) Option {
	return func(s *settings) {
		s.connMaxIdleTime = idleTime
	}
}

func WithPingTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.pingTimeout = timeout
	}
}

func WithRetry(attempts int, backoff retry.Backoff) Option {
	return func(s *settings) {
		s.retryAttempts = attempts
		s.backoff = backoff
	}
}

// DB is a named *sql.DB whose lifecycle is driven by its bean hooks: Open
// runs as the init hook, Close as the destroy hook.
type DB struct {
	mu       sync.RWMutex
	name     string
	driver   string
	dsn      string
	settings settings
	db       *sql.DB
}

var _ contracts.HealthChecker = (*DB)(nil)

func New(name, driver, dsn string, opts ...Option) *DB {
	s := settings{
		maxOpenConns:    25,
		maxIdleConns:    5,
		connMaxLifetime: time.Hour,
		connMaxIdleTime: 5 * time.Minute,
		pingTimeout:     5 * time.Second,
		retryAttempts:   3,
		backoff:         retry.Exponential(200*time.Millisecond, 5*time.Second),
	}
	for _, opt := range opts {
		opt(&s)
	}

	return &DB{
		name:     name,
		driver:   driver,
		dsn:      dsn,
		settings: s,
	}
}

func (d *DB) Name() string {
	return d.name
}

func (d *DB) Driver() string {
	return d.driver
}

// Open connects and pings, retrying the ping with the configured backoff.
// Opening an open DB is a no-op.
func (d *DB) Open(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db != nil {
		return nil
	}

	db, err := sql.Open(d.driver, d.dsn)
	if err != nil {
		return ErrFailedToOpen.WithDetail("name", d.name).WithCause(err)
	}
	db.SetMaxOpenConns(d.settings.maxOpenConns)
	db.SetMaxIdleConns(d.settings.maxIdleConns)
	db.SetConnMaxLifetime(d.settings.connMaxLifetime)
	db.SetConnMaxIdleTime(d.settings.connMaxIdleTime)

	err = retry.Do(ctx, "ping "+d.name, d.settings.retryAttempts, d.settings.backoff, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, d.settings.pingTimeout)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		_ = db.Close()
		return ErrFailedToOpen.WithDetail("name", d.name).WithCause(err)
	}

	d.db = db
	return nil
}

// SQL returns the underlying pool, or nil before Open.
func (d *DB) SQL() *sql.DB {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.db
}

func (d *DB) Check(ctx context.Context) error {
	db := d.SQL()
	if db == nil {
		return ErrNotConnected.WithDetail("name", d.name)
	}
	return db.PingContext(ctx)
}

func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	if err != nil {
		return ErrCloseFailed.WithDetail("name", d.name).WithCause(err)
	}
	return nil
}
