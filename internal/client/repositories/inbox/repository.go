// Package inbox caches received messages locally so the CLI can show them
// while the server is unreachable.
package inbox

import (
	"context"

	"github.com/dmitrijs2005/messagely/internal/server/models"
)

type Repository interface {
	Upsert(ctx context.Context, owner string, m models.ReceivedMessage) error
	List(ctx context.Context, owner string) ([]models.ReceivedMessage, error)
	Clear(ctx context.Context, owner string) error
}
