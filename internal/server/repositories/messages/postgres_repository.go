package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/dbx"
	"github.com/dmitrijs2005/messagely/internal/server/models"
)

const (
	// queryCreate inserts nothing unless both users exist.
	queryCreate = `INSERT INTO messages (from_username, to_username, body, sent_at)
	 SELECT $1, $2, $3, CURRENT_TIMESTAMP
	 WHERE EXISTS (SELECT 1 FROM users WHERE username = $1)
	   AND EXISTS (SELECT 1 FROM users WHERE username = $2)
	 RETURNING id, from_username, to_username, body, sent_at
	 `

	// queryMarkRead keeps the first read_at.
	queryMarkRead = `UPDATE messages SET read_at = COALESCE(read_at, CURRENT_TIMESTAMP)
	 WHERE id = $1
	 RETURNING id, read_at
	 `
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a message only when both users exist, in one statement.
// Zero inserted rows means one of them is missing.
func (r *PostgresRepository) Create(ctx context.Context, from, to, body string) (*models.Message, error) {
	m := &models.Message{}
	err := r.db.QueryRowContext(ctx, queryCreate, from, to, body).
		Scan(&m.ID, &m.FromUsername, &m.ToUsername, &m.Body, &m.SentAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.MessageDetail, error) {
	query :=
		`SELECT m.id, m.body, m.sent_at, m.read_at,
		        f.username, f.first_name, f.last_name, f.phone,
		        t.username, t.first_name, t.last_name, t.phone
		 FROM messages AS m
		 JOIN users AS f ON f.username = m.from_username
		 JOIN users AS t ON t.username = m.to_username
		 WHERE m.id = $1
		 `

	m := &models.MessageDetail{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Body, &m.SentAt, &m.ReadAt,
		&m.FromUser.Username, &m.FromUser.FirstName, &m.FromUser.LastName, &m.FromUser.Phone,
		&m.ToUser.Username, &m.ToUser.FirstName, &m.ToUser.LastName, &m.ToUser.Phone,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

// MarkRead sets read_at once. Later calls keep and return the first
// timestamp; the single UPDATE makes concurrent readers agree on it.
func (r *PostgresRepository) MarkRead(ctx context.Context, id int64) (*models.ReadReceipt, error) {
	rr := &models.ReadReceipt{}
	err := r.db.QueryRowContext(ctx, queryMarkRead, id).Scan(&rr.ID, &rr.ReadAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rr, nil
}

// ListFrom returns messages sent by username, oldest first, with the
// recipient denormalized. An unknown user is common.ErrorNotFound; a known
// user with no messages is an empty slice.
func (r *PostgresRepository) ListFrom(ctx context.Context, username string) ([]models.SentMessage, error) {
	if err := r.ensureUser(ctx, username); err != nil {
		return nil, err
	}

	query :=
		`SELECT m.id, m.body, m.sent_at, m.read_at,
		        u.username, u.first_name, u.last_name, u.phone
		 FROM messages AS m
		 JOIN users AS u ON u.username = m.to_username
		 WHERE m.from_username = $1
		 ORDER BY m.sent_at, m.id
		 `

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.SentMessage, 0)
	for rows.Next() {
		var m models.SentMessage
		if err := rows.Scan(&m.ID, &m.Body, &m.SentAt, &m.ReadAt,
			&m.ToUser.Username, &m.ToUser.FirstName, &m.ToUser.LastName, &m.ToUser.Phone); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// ListTo mirrors ListFrom for received messages, with the sender
// denormalized.
func (r *PostgresRepository) ListTo(ctx context.Context, username string) ([]models.ReceivedMessage, error) {
	if err := r.ensureUser(ctx, username); err != nil {
		return nil, err
	}

	query :=
		`SELECT m.id, m.body, m.sent_at, m.read_at,
		        u.username, u.first_name, u.last_name, u.phone
		 FROM messages AS m
		 JOIN users AS u ON u.username = m.from_username
		 WHERE m.to_username = $1
		 ORDER BY m.sent_at, m.id
		 `

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.ReceivedMessage, 0)
	for rows.Next() {
		var m models.ReceivedMessage
		if err := rows.Scan(&m.ID, &m.Body, &m.SentAt, &m.ReadAt,
			&m.FromUser.Username, &m.FromUser.FirstName, &m.FromUser.LastName, &m.FromUser.Phone); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ensureUser(ctx context.Context, username string) error {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if !exists {
		return common.ErrorNotFound
	}
	return nil
}
