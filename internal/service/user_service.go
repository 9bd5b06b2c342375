package service

import (
	"context"

	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/events"
	"github.com/spec-kit/storefront-service/internal/repository"
)

// UserService exposes account read and delete operations.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{users: users, dispatcher: dispatcher}
}

// List returns all accounts.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Get returns a single account by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// Delete removes an account and returns the deleted record.
func (s *UserService) Delete(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventUserDeleted,
		EntityID: user.ID,
		Payload:  events.UserPayload{Username: user.Username},
	})
	return user, nil
}
