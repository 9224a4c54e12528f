// Package repositories opens the local SQLite database, applies schema
// migrations and hands out the repository set.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/promptsync/internal/repositories/migrations"
	"github.com/dmitrijs2005/promptsync/internal/repositories/prompts"
)

type Repositories struct {
	Prompts prompts.Repository

	db *sql.DB
}

func (r *Repositories) Close() error {
	return r.db.Close()
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if necessary) the prompt database at dsn and
// migrates it to the current schema.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Repositories{Prompts: prompts.NewSQLiteRepository(db), db: db}, nil
}
