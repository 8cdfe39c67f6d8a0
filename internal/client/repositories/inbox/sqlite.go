package inbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/messagely/internal/dbx"
	"github.com/dmitrijs2005/messagely/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert stores m for owner, replacing an earlier copy with the same id.
func (r *SQLiteRepository) Upsert(ctx context.Context, owner string, m models.ReceivedMessage) error {
	var readAt any
	if m.ReadAt != nil {
		readAt = m.ReadAt.UTC().Format(time.RFC3339Nano)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inbox (owner, id, body, sent_at, read_at, from_username, from_first_name, from_last_name, from_phone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner, id) DO UPDATE SET
			body = excluded.body,
			sent_at = excluded.sent_at,
			read_at = excluded.read_at,
			from_username = excluded.from_username,
			from_first_name = excluded.from_first_name,
			from_last_name = excluded.from_last_name,
			from_phone = excluded.from_phone
	`, owner, m.ID, m.Body, m.SentAt.UTC().Format(time.RFC3339Nano), readAt,
		m.FromUser.Username, m.FromUser.FirstName, m.FromUser.LastName, m.FromUser.Phone)
	if err != nil {
		return fmt.Errorf("failed to cache message %d: %w", m.ID, err)
	}
	return nil
}

// List returns owner's cached messages, oldest first.
func (r *SQLiteRepository) List(ctx context.Context, owner string) ([]models.ReceivedMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, body, sent_at, read_at, from_username, from_first_name, from_last_name, from_phone
		FROM inbox
		WHERE owner = ?
		ORDER BY sent_at, id
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached messages: %w", err)
	}
	defer rows.Close()

	out := make([]models.ReceivedMessage, 0)
	for rows.Next() {
		var (
			m      models.ReceivedMessage
			sentAt string
			readAt sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Body, &sentAt, &readAt,
			&m.FromUser.Username, &m.FromUser.FirstName, &m.FromUser.LastName, &m.FromUser.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan cached message: %w", err)
		}
		if m.SentAt, err = time.Parse(time.RFC3339Nano, sentAt); err != nil {
			return nil, fmt.Errorf("bad sent_at %q: %w", sentAt, err)
		}
		if readAt.Valid {
			ts, err := time.Parse(time.RFC3339Nano, readAt.String)
			if err != nil {
				return nil, fmt.Errorf("bad read_at %q: %w", readAt.String, err)
			}
			m.ReadAt = &ts
		}
		out = append(out, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cached messages: %w", err)
	}
	return out, nil
}

// Clear drops owner's cached messages.
func (r *SQLiteRepository) Clear(ctx context.Context, owner string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM inbox WHERE owner = ?`, owner); err != nil {
		return fmt.Errorf("failed to clear cached messages: %w", err)
	}
	return nil
}
