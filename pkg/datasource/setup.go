package datasource

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shuldan/ioc/pkg/container"
	"github.com/shuldan/ioc/pkg/contracts"
	"github.com/shuldan/ioc/pkg/types"
)

const (
	// InitName is the name of the init function added by Setup.
	InitName = "datasource"
	// BeanPrefix prefixes every connection bean, as in "datasource.primary".
	BeanPrefix = "datasource."
)

// Setup queues an init function that reads database.connections from the
// primary contracts.Config bean and registers one *DB bean per connection on
// ctx. The connection named by database.default (or "primary") is marked
// primary. Without a database section nothing is registered.
func Setup(ctx *container.Context) error {
	types.RegisterDowncast[*DB, contracts.HealthChecker](ctx.Types(), func(d *DB) contracts.HealthChecker { return d })

	return ctx.AddInitFn(InitName, func(root *container.Context) error {
		cfg, err := container.GetPrimaryBean[contracts.Config](root)
		if err != nil {
			return ErrResolveConfig.WithCause(err)
		}
		return register(ctx, cfg)
	})
}

func register(ctx *container.Context, cfg contracts.Config) error {
	dbConfig, ok := cfg.GetSub("database")
	if !ok {
		ctx.Logger().Debug("no database section, skipping datasources")
		return nil
	}

	defaultName := dbConfig.GetString("default", "primary")
	connections, ok := dbConfig.GetSub("connections")
	if !ok {
		return ErrConnectionsNotFound
	}

	names := make([]string, 0, len(connections.All()))
	for name := range connections.All() {
		names = append(names, name)
	}
	sort.Strings(names)

	found := false
	for _, name := range names {
		conn, ok := connections.GetSub(name)
		if !ok {
			continue
		}
		db, err := fromConfig(name, conn)
		if err != nil {
			return err
		}

		opts := []container.Option{
			container.WithInit(func(c *container.Context, d *DB) error {
				if err := d.Open(context.Background()); err != nil {
					return err
				}
				c.Logger().Info("database connected", "name", d.Name(), "driver", d.Driver())
				return nil
			}),
			container.WithDestroy(func(_ *container.Context, d *DB) error {
				return d.Close()
			}),
		}
		if name == defaultName {
			found = true
			opts = append(opts, container.AsPrimary())
		}

		err = container.Provide(ctx, BeanPrefix+name, func(*container.Context) (*DB, error) {
			return db, nil
		}, opts...)
		if err != nil {
			return err
		}
	}

	if !found {
		return ErrUnknownDefault.WithDetail("name", defaultName)
	}
	return nil
}

func fromConfig(name string, conn contracts.Config) (*DB, error) {
	driver := conn.GetString("driver")
	if driver == "" {
		return nil, ErrDriverNotSpecified.WithDetail("name", name)
	}
	dsn := conn.GetString("dsn")
	if dsn == "" {
		return nil, ErrDSNNotSpecified.WithDetail("name", name)
	}

	var opts []Option
	if pool, ok := conn.GetSub("pool"); ok {
		opts = append(opts,
			WithConnectionPool(
				pool.GetInt("max_open_connections", 25),
				pool.GetInt("max_idle_connections", 5),
				durationValue(pool, "conn_max_lifetime", time.Hour),
			),
			WithConnectionIdleTime(durationValue(pool, "conn_max_idle_time", 5*time.Minute)),
		)
	}
	if conn.Has("ping_timeout") {
		opts = append(opts, WithPingTimeout(durationValue(conn, "ping_timeout", 5*time.Second)))
	}

	return New(name, SQLDriver(driver), dsn, opts...), nil
}

// SQLDriver maps configuration aliases to registered database/sql driver
// names.
func SQLDriver(driver string) string {
	switch strings.ToLower(driver) {
	case "mysql", "mariadb":
		return "mysql"
	case "postgres", "postgresql", "pgsql":
		return "postgres"
	case "sqlite", "sqlite3":
		return "sqlite3"
	default:
		return driver
	}
}

// durationValue accepts Go duration strings or a number of seconds.
func durationValue(cfg contracts.Config, key string, defaultValue time.Duration) time.Duration {
	switch v := cfg.Get(key).(type) {
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	case int, int64, uint64, float64:
		return time.Duration(cfg.GetFloat64(key) * float64(time.Second))
	}
	return defaultValue
}
