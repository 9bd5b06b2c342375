package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{
			name:       "missing credential",
			err:        NewMissingCredential("authorization header missing"),
			wantCode:   "MISSING_CREDENTIAL",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed credential",
			err:        NewMalformedCredential("token not found"),
			wantCode:   "MALFORMED_CREDENTIAL",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			err:        NewInvalidToken("invalid token"),
			wantCode:   "INVALID_TOKEN",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "authentication failure",
			err:        NewAuthenticationError("invalid credentials"),
			wantCode:   "AUTHENTICATION_FAILED",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "validation failure",
			err:        NewValidationError("invalid product id"),
			wantCode:   "VALIDATION_FAILED",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "row miss maps to not found",
			err:        pgx.ErrNoRows,
			wantCode:   "NOT_FOUND",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "wrapped row miss maps to not found",
			err:        fmt.Errorf("loading user: %w", pgx.ErrNoRows),
			wantCode:   "NOT_FOUND",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown error becomes opaque 500",
			err:        errors.New("connection reset"),
			wantCode:   "INTERNAL_ERROR",
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			domainErr := ToDomainError(tt.err)
			assert.Equal(t, tt.wantCode, domainErr.Code)
			assert.Equal(t, tt.wantStatus, domainErr.HTTPStatus)
		})
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("pool exhausted at 10.0.0.5")
	domainErr := ToDomainError(NewInternalError(cause))

	assert.Equal(t, "internal server error", domainErr.Message)
	assert.ErrorIs(t, domainErr, cause)
}

func TestToDomainErrorNil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, ToDomainError(nil))
}
