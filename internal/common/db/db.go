// Package db opens the relational backend behind the player store. The
// default backend is a local SQLite file, held to a single open connection;
// the "mysql" driver selects the server backend with a tunable pool.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Config holds connection settings for the SQL backend.
type Config struct {
	// Driver selects the backend: "sqlite" (default) or "mysql".
	Driver string `yaml:"driver"`

	// DSN is the data source name. For sqlite this is the database file
	// path; for mysql, "user:password@tcp(host:port)/dbname?parseTime=true".
	DSN string `yaml:"dsn"`

	MaxOpenConnections int           `yaml:"maxOpenConnections"`
	MaxIdleConnections int           `yaml:"maxIdleConnections"`
	ConnMaxLifetime    time.Duration `yaml:"connMaxLifetime"`
	ConnMaxIdleTime    time.Duration `yaml:"connMaxIdleTime"`
}

// Open connects to the configured backend, applies pool settings, and
// verifies the connection.
func Open(cfg Config) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	driver := cfg.Driver
	if driver == "" {
		driver = "sqlite"
	}
	switch driver {
	case "sqlite", "mysql":
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	handle, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database failed: %w", err)
	}

	maxOpen := cfg.MaxOpenConnections
	if maxOpen == 0 {
		maxOpen = 25
	}
	if driver == "sqlite" {
		// The file-backed driver serializes writers; a single connection
		// avoids SQLITE_BUSY under concurrent submissions.
		maxOpen = 1
	}
	handle.SetMaxOpenConns(maxOpen)
	maxIdle := cfg.MaxIdleConnections
	if maxIdle == 0 {
		maxIdle = 5
	}
	if maxIdle > maxOpen {
		maxIdle = maxOpen
	}
	handle.SetMaxIdleConns(maxIdle)
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = 5 * time.Minute
	}
	handle.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	if cfg.ConnMaxIdleTime == 0 {
		cfg.ConnMaxIdleTime = 10 * time.Minute
	}
	handle.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := handle.PingContext(ctx); err != nil {
		_ = handle.Close()
		return nil, fmt.Errorf("ping database failed: %w", err)
	}
	return handle, nil
}
