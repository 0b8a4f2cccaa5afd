// Package db owns the schema. Migrations are embedded goose SQL files
// applied over a database/sql handle at process start.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies all pending migrations. It is safe to call on every boot.
func Migrate(ctx context.Context, databaseURL string) error {
	handle, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("open migration handle: %w", err)
	}
	defer handle.Close()

	if err := handle.PingContext(ctx); err != nil {
		return fmt.Errorf("ping migration handle: %w", err)
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, handle, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
