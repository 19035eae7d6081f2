/*
Package db owns the PostgreSQL connection pool, the embedded goose migrations,
and the hand-written queries backing the user and conversation stores.
*/
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"rubiechat/internal/pkg/logx"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationsDir = "migrations"

// NewPool opens and pings a PostgreSQL connection pool.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database DSN: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// Migrate applies all pending migrations through a database/sql handle on the pool's config.
func Migrate(pool *pgxpool.Pool) error {
	return withSQLDB(pool, func(sqlDB *sql.DB) error {
		if err := goose.Up(sqlDB, migrationsDir); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}

		version, err := goose.GetDBVersion(sqlDB)
		if err != nil {
			return fmt.Errorf("failed to read migration version: %w", err)
		}

		logx.Info("Database migrations applied successfully.", "version", version)
		return nil
	})
}

// MigrationStatus logs the applied state of every migration.
func MigrationStatus(pool *pgxpool.Pool) error {
	return withSQLDB(pool, func(sqlDB *sql.DB) error {
		if err := goose.Status(sqlDB, migrationsDir); err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		return nil
	})
}

func withSQLDB(pool *pgxpool.Pool, fn func(*sql.DB) error) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	return fn(sqlDB)
}
