package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
	"github.com/spf13/viper"
)

const defaultConnection = "default"

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Schema string `mapstructure:"schema"`
	Active bool   `mapstructure:"active"`
}

// LoadDBConfigs returns the configured database connections.
func LoadDBConfigs() ([]DBConfig, error) {
	var configs []DBConfig
	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}
	return configs, nil
}

// SelectDBConfig picks the connection called name. When name is "default"
// and no connection has that name, the single active one is used.
func SelectDBConfig(configs []DBConfig, name string) (*DBConfig, error) {
	for i := range configs {
		if configs[i].Name == name {
			return &configs[i], nil
		}
	}
	if name != defaultConnection {
		return nil, fmt.Errorf("no database named %q in config", name)
	}

	var activeConfig *DBConfig
	count := 0
	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no database named %q and no active database found in config (set active: true)", name)
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}
	return activeConfig, nil
}

// Validate checks the connection settings before a connection is attempted.
func (c *DBConfig) Validate() error {
	if c.Driver == "" {
		return fmt.Errorf("database %q: driver is required", c.Name)
	}
	if c.DSN == "" {
		return fmt.Errorf("database %q: dsn is required", c.Name)
	}

	var err error
	switch c.Driver {
	case "mysql":
		_, err = mysql.ParseDSN(c.DSN)
	case "pgx":
		_, err = pgx.ParseConfig(c.DSN)
	case "postgres":
		if strings.HasPrefix(c.DSN, "postgres://") || strings.HasPrefix(c.DSN, "postgresql://") {
			_, err = pq.ParseURL(c.DSN)
		}
	case "sqlserver", "mssql", "oracle":
	default:
		return fmt.Errorf("database %q: unsupported driver %q", c.Name, c.Driver)
	}
	if err != nil {
		return fmt.Errorf("database %q: invalid dsn: %w", c.Name, err)
	}
	return nil
}

// Open connects to the database and checks it is reachable.
func (c *DBConfig) Open(ctx context.Context, timeout time.Duration) (*sql.DB, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open(c.Driver, c.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to db %q: %w", c.Name, err)
	}
	return db, nil
}

// fixtureDir returns the fixture directory of the application or of plugin.
func fixtureDir(plugin string) string {
	if plugin == "" {
		return viper.GetString("fixtures.path")
	}
	return fmt.Sprintf(viper.GetString("fixtures.plugin_path"), plugin)
}
