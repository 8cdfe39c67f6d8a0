package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/messagely/internal/client/migrations"
	"github.com/dmitrijs2005/messagely/internal/client/repositories/inbox"
	"github.com/dmitrijs2005/messagely/internal/client/repositories/session"
	"github.com/dmitrijs2005/messagely/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	DB      *sql.DB
	Inbox   inbox.Repository
	Session session.Repository
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the cache at dsn and brings its schema up to date.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	if err := filex.EnsureParentDir(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		DB:      db,
		Inbox:   inbox.NewSQLiteRepository(db),
		Session: session.NewSQLiteRepository(db),
	}, nil
}
