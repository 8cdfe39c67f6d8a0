package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/messagely/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save replaces the stored session.
func (r *SQLiteRepository) Save(ctx context.Context, s Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session (slot, username, token, created_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			username = excluded.username,
			token = excluded.token,
			created_at = excluded.created_at
	`, s.Username, s.Token, s.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load returns the stored session, or (nil, nil) when there is none.
func (r *SQLiteRepository) Load(ctx context.Context) (*Session, error) {
	var (
		s         Session
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, `SELECT username, token, created_at FROM session WHERE slot = 1`).
		Scan(&s.Username, &s.Token, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if s.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", createdAt, err)
	}
	return &s, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
