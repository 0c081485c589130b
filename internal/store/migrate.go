package store

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	"gitlab.com/dirk.krummacker/businesscard-service/internal/store/migrations"
)

// gooseRunContext is a seam for testing goose.RunContext.
var gooseRunContext = func(ctx context.Context, command string, db *sql.DB, dir string, args ...string) error {
	return goose.RunContext(ctx, command, db, dir, args...)
}

// Migrate runs a goose command such as "up", "down" or "status" with the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, command string, args ...string) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("mysql"); err != nil {
		return err
	}
	return gooseRunContext(ctx, command, db, ".", args...)
}
