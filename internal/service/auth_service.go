package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/storefront-service/internal/auth"
	"github.com/spec-kit/storefront-service/internal/config"
	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/events"
	"github.com/spec-kit/storefront-service/internal/repository"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

// RegisterInput carries fields for a new account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Password  string
}

// AuthService coordinates registration and credential verification.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.TokenSecret, cfg.Auth.TokenTTLMinutes),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account and issues a token for immediate use.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, "", errors.New("username already taken")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Username:     input.Username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokenMgr.Issue(user.Identity())
	if err != nil {
		return nil, "", err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventUserRegistered,
		EntityID: user.ID,
		Payload:  events.UserPayload{Username: user.Username},
	})
	return user, token, nil
}

// Authenticate verifies credentials and issues a token. An unknown username
// and a wrong password both produce the same failure so callers cannot probe
// which accounts exist.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", apperrors.NewAuthenticationError("invalid credentials")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", apperrors.NewAuthenticationError("invalid credentials")
	}

	token, err := s.tokenMgr.Issue(user.Identity())
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
