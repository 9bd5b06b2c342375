package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/storefront-service/internal/domain"
)

// ErrNoSigningKey indicates the manager was built without a secret. This is a
// configuration error and should never be reachable when config.Load ran.
var ErrNoSigningKey = errors.New("signing key not configured")

// TokenManager issues and verifies stateless session tokens. Verification is a
// pure computation against the injected secret; it never touches the store, so
// a token's validity is fully determined by its signature.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a manager around a signing key. ttlMinutes of zero
// means issued tokens carry no expiry claim.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	var ttl time.Duration
	if ttlMinutes > 0 {
		ttl = time.Duration(ttlMinutes) * time.Minute
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Claims describes the JWT payload carrying an identity.
type Claims struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs a token embedding the identity.
func (tm *TokenManager) Issue(identity domain.Identity) (string, error) {
	if len(tm.secret) == 0 {
		return "", ErrNoSigningKey
	}

	claims := &Claims{
		Username:  identity.Username,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  identity.ID,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if tm.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(tm.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Verify validates the signature and returns the embedded identity.
func (tm *TokenManager) Verify(tokenStr string) (domain.Identity, error) {
	if len(tm.secret) == 0 {
		return domain.Identity{}, ErrNoSigningKey
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return domain.Identity{}, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.Identity{}, errors.New("invalid token claims")
	}

	return domain.Identity{
		ID:        claims.Subject,
		Username:  claims.Username,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}, nil
}
