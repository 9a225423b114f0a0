package datasource

import (
	"errors"
	"testing"
	"time"

	"github.com/shuldan/ioc/pkg/config"
	"github.com/shuldan/ioc/pkg/container"
	"github.com/shuldan/ioc/pkg/contracts"
	"github.com/shuldan/ioc/pkg/types"
)

func newTree(t *testing.T, values map[string]any) (*container.Context, error) {
	t.Helper()
	reg := types.NewRegistry()

	cfgCtx, err := config.NewContextFor(reg, config.NewMapConfig(values))
	if err != nil {
		t.Fatalf("config context: %v", err)
	}
	ds := container.NewContext("datasources", reg)
	if err := Setup(ds); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	root := container.NewContext("root", reg)
	if err := root.AddContext(cfgCtx); err != nil {
		t.Fatal(err)
	}
	if err := root.AddContext(ds); err != nil {
		t.Fatal(err)
	}
	return root, root.InitContexts()
}

func sqliteConn() map[string]any {
	return map[string]any{
		"driver":       "sqlite",
		"dsn":          ":memory:",
		"ping_timeout": "2s",
		"pool": map[string]any{
			"max_open_connections": 1,
			"conn_max_lifetime":    60,
		},
	}
}

func TestSetup_RegistersConnections(t *testing.T) {
	t.Parallel()
	root, err := newTree(t, map[string]any{
		"database": map[string]any{
			"default": "main",
			"connections": map[string]any{
				"main":    sqliteConn(),
				"reports": sqliteConn(),
			},
		},
	})
	if err != nil {
		t.Fatalf("InitContexts failed: %v", err)
	}

	names := container.BeanNames[*DB](root)
	if len(names) != 2 || names[0] != "datasource.main" || names[1] != "datasource.reports" {
		t.Fatalf("unexpected beans %v", names)
	}

	db, err := container.GetPrimaryBean[*DB](root)
	if err != nil {
		t.Fatalf("GetPrimaryBean failed: %v", err)
	}
	if db.Name() != "main" || db.Driver() != "sqlite3" {
		t.Errorf("unexpected primary %s/%s", db.Name(), db.Driver())
	}
	if db.SQL() == nil {
		t.Fatal("init hook should have opened the pool")
	}
	if db.settings.pingTimeout != 2*time.Second || db.settings.connMaxLifetime != time.Minute {
		t.Errorf("settings not applied: %+v", db.settings)
	}

	checkers, err := container.GetBeans[contracts.HealthChecker](root)
	if err != nil || len(checkers) != 2 {
		t.Fatalf("expected two health checkers, got %d (%v)", len(checkers), err)
	}

	if err := root.Destroy(); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}
	if db.SQL() != nil {
		t.Error("destroy hook should have closed the pool")
	}
}

func TestSetup_NoDatabaseSection(t *testing.T) {
	t.Parallel()
	root, err := newTree(t, map[string]any{"app": map[string]any{"name": "x"}})
	if err != nil {
		t.Fatalf("InitContexts failed: %v", err)
	}
	if names := container.BeanNames[*DB](root); len(names) != 0 {
		t.Errorf("expected no datasources, got %v", names)
	}
}

func TestSetup_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		values map[string]any
		want   error
	}{
		{
			name:   "no_connections",
			values: map[string]any{"database": map[string]any{"default": "main"}},
			want:   ErrConnectionsNotFound,
		},
		{
			name: "no_driver",
			values: map[string]any{"database": map[string]any{
				"connections": map[string]any{"primary": map[string]any{"dsn": "x"}},
			}},
			want: ErrDriverNotSpecified,
		},
		{
			name: "no_dsn",
			values: map[string]any{"database": map[string]any{
				"connections": map[string]any{"primary": map[string]any{"driver": "sqlite"}},
			}},
			want: ErrDSNNotSpecified,
		},
		{
			name: "unknown_default",
			values: map[string]any{"database": map[string]any{
				"default":     "missing",
				"connections": map[string]any{"primary": sqliteConn()},
			}},
			want: ErrUnknownDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := newTree(t, tt.values)
			if !errors.Is(err, container.ErrInitFnFailed) || !errors.Is(err, tt.want) {
				t.Errorf("expected %v inside init failure, got %v", tt.want, err)
			}
		})
	}
}

func TestSetup_OpenFailureSurfacesOnResolve(t *testing.T) {
	t.Parallel()
	root, err := newTree(t, map[string]any{"database": map[string]any{
		"connections": map[string]any{"primary": map[string]any{
			"driver": "no-such-driver",
			"dsn":    "x",
		}},
	}})
	if err != nil {
		t.Fatalf("registration should succeed lazily: %v", err)
	}

	_, err = container.GetBean[*DB](root, "datasource.primary")
	if !errors.Is(err, ErrFailedToOpen) {
		t.Errorf("expected ErrFailedToOpen, got %v", err)
	}
}

func TestDurationValue(t *testing.T) {
	t.Parallel()
	cfg := config.NewMapConfig(map[string]any{
		"str":   "1m30s",
		"secs":  5,
		"float": 0.5,
		"bad":   "soon",
	})
	tests := []struct {
		key  string
		want time.Duration
	}{
		{"str", 90 * time.Second},
		{"secs", 5 * time.Second},
		{"float", 500 * time.Millisecond},
		{"bad", time.Hour},
		{"missing", time.Hour},
	}
	for _, tt := range tests {
		if got := durationValue(cfg, tt.key, time.Hour); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.key, got, tt.want)
		}
	}
}
