package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/events"
	"github.com/spec-kit/storefront-service/internal/repository/inmem"
)

func TestUserDeleteReturnsRecordAndPublishes(t *testing.T) {
	t.Parallel()

	users := inmem.NewUserRepository()
	dispatcher := events.NewInMemoryDispatcher()

	var deletedEvents []events.Event
	dispatcher.Subscribe(events.EventUserDeleted, func(_ context.Context, event events.Event) error {
		deletedEvents = append(deletedEvents, event)
		return nil
	})

	user := &domain.User{Username: "jdoe", PasswordHash: "x"}
	require.NoError(t, users.Create(context.Background(), user))

	svc := NewUserService(users, dispatcher)
	deleted, err := svc.Delete(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", deleted.Username)

	require.Len(t, deletedEvents, 1)
	assert.Equal(t, user.ID, deletedEvents[0].EntityID)
	assert.NotEmpty(t, deletedEvents[0].ID)
	assert.False(t, deletedEvents[0].Timestamp.IsZero())

	_, err = svc.Get(context.Background(), user.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestUserListEmpty(t *testing.T) {
	t.Parallel()

	svc := NewUserService(inmem.NewUserRepository(), nil)
	users, err := svc.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, users)
	assert.Empty(t, users)
}
