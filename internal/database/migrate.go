package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
)

//go:embed migrations/001_initial.up.sql
var initialMigrationSQL string

//go:embed migrations/002_soft_delete.up.sql
var softDeleteSQL string

var requiredTables = []string{
	"organizations",
	"users",
	"refresh_tokens",
	"jobs",
	"vehicles",
	"vehicle_positions",
}

func (db *DB) EnsureSchema(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	exists, err := db.hasAllRequiredTables(ctx)
	if err != nil {
		return fmt.Errorf("check existing tables: %w", err)
	}

	if !exists {
		slog.Info("database schema missing tables; applying initial migration")
		if _, err := db.Pool.Exec(ctx, initialMigrationSQL); err != nil {
			return fmt.Errorf("apply initial migration: %w", err)
		}

		exists, err = db.hasAllRequiredTables(ctx)
		if err != nil {
			return fmt.Errorf("re-check tables after migration: %w", err)
		}

		if !exists {
			return fmt.Errorf("schema initialization incomplete: required tables are still missing")
		}
	}

	// ── Incremental migrations ───────────────────────────────────
	// 002: vehicle soft delete (columns, constraint, view predicate).
	if err := db.applySoftDelete(ctx); err != nil {
		return fmt.Errorf("apply soft delete migration: %w", err)
	}

	slog.Info("database schema ensured")
	return nil
}

// applySoftDelete runs migration 002 idempotently.
// The SQL uses IF NOT EXISTS so it is safe to re-run.
func (db *DB) applySoftDelete(ctx context.Context) error {
	var hasColumn bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_schema = 'public'
			  AND table_name = 'vehicles'
			  AND column_name = 'is_deleted'
		)
	`).Scan(&hasColumn)
	if err != nil {
		return fmt.Errorf("check is_deleted column: %w", err)
	}

	if !hasColumn {
		slog.Info("applying vehicle soft delete migration (002)")
		if _, err := db.Pool.Exec(ctx, softDeleteSQL); err != nil {
			return fmt.Errorf("exec soft delete SQL: %w", err)
		}
		slog.Info("vehicle soft delete migration applied")
	}

	return nil
}

func (db *DB) hasAllRequiredTables(ctx context.Context) (bool, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_name = ANY($1)
	`, requiredTables).Scan(&count)
	if err != nil {
		return false, err
	}

	return count == len(requiredTables), nil
}
