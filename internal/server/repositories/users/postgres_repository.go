package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/dbx"
	"github.com/dmitrijs2005/messagely/internal/server/models"
)

// queryCreate returns no row when the username is taken.
const queryCreate = `INSERT INTO users (username, password_hash, first_name, last_name, phone, join_at)
	 VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
	 ON CONFLICT (username) DO NOTHING
	 RETURNING username, first_name, last_name, phone, join_at, last_login_at
	 `

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the user. Uniqueness is left to the primary key: a taken
// username inserts nothing and returns common.ErrorConflict.
func (r *PostgresRepository) Create(ctx context.Context, user *models.NewUser) (*models.User, error) {
	u := &models.User{}
	err := r.db.QueryRowContext(ctx, queryCreate,
		user.Username, user.PasswordHash, user.FirstName, user.LastName, user.Phone).
		Scan(&u.Username, &u.FirstName, &u.LastName, &u.Phone, &u.JoinAt, &u.LastLoginAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return u, nil
}

func (r *PostgresRepository) GetCredentials(ctx context.Context, username string) (*models.Credentials, error) {
	query :=
		`SELECT username, password_hash FROM users
		 WHERE username = $1
		 `

	c := &models.Credentials{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(&c.Username, &c.PasswordHash)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) UpdateLoginTimestamp(ctx context.Context, username string) (time.Time, error) {
	query :=
		`UPDATE users SET last_login_at = CURRENT_TIMESTAMP
		 WHERE username = $1
		 RETURNING last_login_at
		 `

	var at time.Time
	err := r.db.QueryRowContext(ctx, query, username).Scan(&at)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, common.ErrorNotFound
		}
		return time.Time{}, fmt.Errorf("db error: %w", err)
	}

	return at, nil
}

// List returns every user ordered by username, descending.
func (r *PostgresRepository) List(ctx context.Context) ([]models.UserSummary, error) {
	query :=
		`SELECT username, first_name, last_name FROM users
		 ORDER BY username DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.UserSummary, 0)
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.Username, &u.FirstName, &u.LastName); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT username, first_name, last_name, phone, join_at, last_login_at FROM users
		 WHERE username = $1
		 `

	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&u.Username, &u.FirstName, &u.LastName, &u.Phone, &u.JoinAt, &u.LastLoginAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return u, nil
}
