package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-service/internal/domain"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

const identityKey = "auth_identity"

// AuthMiddleware gates protected routes behind bearer-token verification. The
// identity forwarded to handlers comes entirely from the token claims; no
// store lookup happens here.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs the gate.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes. The checks run in
// strict order and each failure terminates the request on its own path; the
// protected handler is unreachable unless verification succeeded.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			// Generic failure on purpose: gate internals must not leak.
			err = apperrors.NewInternalError(nil)
		}
	}()

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewMissingCredential("authorization header missing")
	}

	// The scheme is deliberately not inspected: any header with fewer than
	// two space-separated parts carries no usable token.
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[1] == "" {
		return apperrors.NewMalformedCredential("token not found")
	}

	identity, verifyErr := m.tokens.Verify(parts[1])
	if verifyErr != nil {
		return apperrors.NewInvalidToken("invalid token")
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return domain.Identity{}, false
	}
	identity, ok := val.(domain.Identity)
	return identity, ok
}
