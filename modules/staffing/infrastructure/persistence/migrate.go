package persistence

import (
	"context"
	"database/sql"
	"embed"

	gerrors "github.com/go-faster/errors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed schema/*.sql
var migrationsFS embed.FS

// Migrate brings the store schema up or down. Goose needs database/sql, so
// this opens its own connection from the DSN instead of sharing the pool.
func Migrate(ctx context.Context, dsn string, down bool) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return gerrors.Wrap(err, "failed to open migration connection")
	}
	defer func() {
		_ = db.Close()
	}()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return gerrors.Wrap(err, "failed to set goose dialect")
	}

	if down {
		return goose.DownContext(ctx, db, "schema")
	}
	return goose.UpContext(ctx, db, "schema")
}
