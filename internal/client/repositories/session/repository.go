// Package session persists the logged-in user and token between CLI runs.
package session

import (
	"context"
	"time"
)

// Session is the stored login. There is at most one.
type Session struct {
	Username  string
	Token     string
	CreatedAt time.Time
}

type Repository interface {
	Save(ctx context.Context, s Session) error
	Load(ctx context.Context) (*Session, error)
	Clear(ctx context.Context) error
}
