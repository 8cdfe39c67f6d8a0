package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/guard"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/repomanager"
)

// MessageService provides message operations on behalf of a caller.
type MessageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewMessageService constructs a MessageService.
func NewMessageService(db *sql.DB, m repomanager.RepositoryManager) *MessageService {
	return &MessageService{db: db, repomanager: m}
}

// Send stores a message from the caller. The sender is always the caller.
func (s *MessageService) Send(ctx context.Context, id models.Identity, in models.SendMessageInput) (*models.Message, error) {
	if err := guard.Authenticate(id); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.repomanager.Messages(s.db).Create(ctx, id.Username, in.ToUsername, in.Body)
}

// Get returns a message to one of its parties. A missing message is
// reported as common.ErrorForbidden, the same as someone else's message.
func (s *MessageService) Get(ctx context.Context, id models.Identity, msgID int64) (*models.MessageDetail, error) {
	if err := guard.Authenticate(id); err != nil {
		return nil, err
	}
	m, err := s.load(ctx, msgID)
	if err != nil {
		return nil, err
	}
	if err := guard.AuthorizeView(id, m); err != nil {
		return nil, err
	}
	return m, nil
}

// MarkRead marks a message read on behalf of its recipient. Repeated calls
// return the first read time.
func (s *MessageService) MarkRead(ctx context.Context, id models.Identity, msgID int64) (*models.ReadReceipt, error) {
	if err := guard.Authenticate(id); err != nil {
		return nil, err
	}
	m, err := s.load(ctx, msgID)
	if err != nil {
		return nil, err
	}
	if err := guard.AuthorizeMarkRead(id, m); err != nil {
		return nil, err
	}

	r, err := s.repomanager.Messages(s.db).MarkRead(ctx, msgID)
	if err != nil {
		return nil, maskNotFound(err)
	}
	return r, nil
}

// ListFrom returns the messages the caller has sent.
func (s *MessageService) ListFrom(ctx context.Context, id models.Identity, username string) ([]models.SentMessage, error) {
	if err := guard.AuthorizeProfile(id, username); err != nil {
		return nil, err
	}
	return s.repomanager.Messages(s.db).ListFrom(ctx, username)
}

// ListTo returns the messages the caller has received.
func (s *MessageService) ListTo(ctx context.Context, id models.Identity, username string) ([]models.ReceivedMessage, error) {
	if err := guard.AuthorizeProfile(id, username); err != nil {
		return nil, err
	}
	return s.repomanager.Messages(s.db).ListTo(ctx, username)
}

func (s *MessageService) load(ctx context.Context, msgID int64) (*models.MessageDetail, error) {
	if msgID <= 0 {
		return nil, common.NewValidationError("id", "must be a positive integer")
	}
	m, err := s.repomanager.Messages(s.db).Get(ctx, msgID)
	if err != nil {
		return nil, maskNotFound(err)
	}
	return m, nil
}

func maskNotFound(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorForbidden
	}
	return err
}
