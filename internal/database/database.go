// Package database is the pgx-backed persistence layer.
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/recetas-abuela/backend/internal/sql"
)

type Database struct {
	Pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Database {
	return &Database{Pool: pool}
}

func (d *Database) Close() {
	d.Pool.Close()
}

// EnsureSchema applies the embedded schema when it is not yet present,
// detected by the absence of the users table.
func (d *Database) EnsureSchema(ctx context.Context) error {
	var exists bool
	err := d.Pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = 'users'
		)`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking schema exists: %w", err)
	}

	if exists {
		return nil
	}

	if _, err := d.Pool.Exec(ctx, sql.Schema()); err != nil {
		return fmt.Errorf("applying database schema: %w", err)
	}

	return nil
}
