package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/nixbug/entebus-server/internal/config"
)

// NewPostgresDB creates and validates a database connection.
func NewPostgresDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	slog.Info("Connecting to the database...")

	opts := cfg.DB
	conn, err := sql.Open(opts.Driver, cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	conn.SetMaxOpenConns(opts.MaxOpenConns)
	conn.SetMaxIdleConns(opts.MaxIdleConns)
	conn.SetConnMaxIdleTime(opts.ConnMaxIdleTime.Duration)
	conn.SetConnMaxLifetime(opts.ConnMaxLifetime.Duration)

	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout.Duration)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	slog.Info("Connected to the database.", "db", cfg.Env.Postgres.Name, "host", cfg.Env.Postgres.Host)

	return conn, nil
}
