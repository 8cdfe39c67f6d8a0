// Package users is the user directory store.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/messagely/internal/server/models"
)

// Repository persists user records. Absent users yield common.ErrorNotFound;
// a taken username on Create yields common.ErrorConflict.
type Repository interface {
	Create(ctx context.Context, user *models.NewUser) (*models.User, error)
	GetCredentials(ctx context.Context, username string) (*models.Credentials, error)
	UpdateLoginTimestamp(ctx context.Context, username string) (time.Time, error)
	List(ctx context.Context) ([]models.UserSummary, error)
	Get(ctx context.Context, username string) (*models.User, error)
}
