// Package services contains server-side business logic. UserService owns
// registration, authentication and the directory reads; MessageService owns
// sending, reading and the read transition. Both check the caller's identity
// before touching storage.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/dbx"
	"github.com/dmitrijs2005/messagely/internal/server/auth"
	"github.com/dmitrijs2005/messagely/internal/server/config"
	"github.com/dmitrijs2005/messagely/internal/server/guard"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/repomanager"
)

// Registration is the result of a successful Register.
type Registration struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// UserService provides the user directory operations.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenManager
}

// NewUserService constructs a UserService from repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	s := &UserService{
		db:          db,
		repomanager: m,
		hasher:      auth.NewPasswordHasher(cfg.BcryptCost),
		tokens:      auth.NewTokenManager(cfg.SecretKey, cfg.TokenValidityDuration),
	}
	// the first unknown-user login must not pay for generating the dummy hash
	s.hasher.DummyHash()
	return s
}

// Register creates the user, stamps the first login and issues a token.
// A taken username yields common.ErrorConflict and nothing is written.
func (s *UserService) Register(ctx context.Context, in models.RegisterInput) (*Registration, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	var user *models.User
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		u, err := repo.Create(ctx, &models.NewUser{
			Username:     in.Username,
			PasswordHash: hash,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Phone:        in.Phone,
		})
		if err != nil {
			return err
		}
		ts, err := repo.UpdateLoginTimestamp(ctx, u.Username)
		if err != nil {
			return err
		}
		u.LastLoginAt = &ts
		user = u
		return nil
	}); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &Registration{User: user, Token: token}, nil
}

// Authenticate reports whether password matches the stored hash. Unknown
// users run one bcrypt compare against a precomputed dummy hash, the same
// work as a wrong password, then fail with common.ErrorUnauthenticated.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	creds, err := s.repomanager.Users(s.db).GetCredentials(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.hasher.DummyHash())
			return false, common.ErrorUnauthenticated
		}
		return false, fmt.Errorf("error loading credentials: %w", err)
	}
	return s.hasher.Verify(password, creds.PasswordHash), nil
}

// RecordLogin stamps the user's last login.
func (s *UserService) RecordLogin(ctx context.Context, username string) error {
	if _, err := s.repomanager.Users(s.db).UpdateLoginTimestamp(ctx, username); err != nil {
		return fmt.Errorf("error recording login: %w", err)
	}
	return nil
}

// Login authenticates, records the login and returns a fresh token. Unknown
// user and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, in models.LoginInput) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}

	ok, err := s.Authenticate(ctx, in.Username, in.Password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", common.ErrorUnauthenticated
	}

	if err := s.RecordLogin(ctx, in.Username); err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(in.Username)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// Identify turns a bearer token into an identity.
func (s *UserService) Identify(token string) (models.Identity, error) {
	username, err := s.tokens.Verify(token)
	if err != nil {
		return models.Identity{}, common.ErrorUnauthenticated
	}
	return models.Identity{Username: username}, nil
}

// List returns the directory to any authenticated caller.
func (s *UserService) List(ctx context.Context, id models.Identity) ([]models.UserSummary, error) {
	if err := guard.Authenticate(id); err != nil {
		return nil, err
	}
	return s.repomanager.Users(s.db).List(ctx)
}

// Get returns the caller's own profile. Any other target is forbidden
// regardless of whether it exists.
func (s *UserService) Get(ctx context.Context, id models.Identity, username string) (*models.User, error) {
	if err := guard.AuthorizeProfile(id, username); err != nil {
		return nil, err
	}
	return s.repomanager.Users(s.db).Get(ctx, username)
}
