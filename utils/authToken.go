package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/o1egl/paseto"
)

// AccessTokenExpiry is the lifetime of a session token.
const AccessTokenExpiry = 24 * time.Hour

var (
	ErrInvalidKeyLength        = errors.New("symmetric key must be 32 bytes long")
	ErrTokenExpired            = errors.New("token expired")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)

// TokenClaims struct represents the data in the token (UserID, Role, Expiry).
type TokenClaims struct {
	UserID string    `json:"userId"`
	Role   string    `json:"role"`
	Expiry time.Time `json:"expiry"`
}

// TokenMaker issues and validates PASETO v2 local tokens.
type TokenMaker struct {
	key    []byte
	expiry time.Duration
}

// NewTokenMaker returns a TokenMaker for the given 32 byte symmetric key.
func NewTokenMaker(symmetricKey string) (*TokenMaker, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKeyLength, len(symmetricKey))
	}
	return &TokenMaker{key: []byte(symmetricKey), expiry: AccessTokenExpiry}, nil
}

// Generate creates an access token for the given user ID and role.
func (m *TokenMaker) Generate(userID, role string) (string, error) {
	claims := TokenClaims{
		UserID: userID,
		Role:   role,
		Expiry: time.Now().Add(m.expiry),
	}
	token, err := paseto.NewV2().Encrypt(m.key, claims, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Validate decrypts the token, checks expiry and, when roles are given,
// that the token carries one of them.
func (m *TokenMaker) Validate(token string, requiredRoles ...string) (*TokenClaims, error) {
	var claims TokenClaims
	if err := paseto.NewV2().Decrypt(token, m.key, &claims, nil); err != nil {
		return nil, fmt.Errorf("failed to decrypt token: %w", err)
	}

	if time.Now().After(claims.Expiry) {
		return nil, ErrTokenExpired
	}

	if len(requiredRoles) == 0 {
		return &claims, nil
	}
	for _, role := range requiredRoles {
		if claims.Role == role {
			return &claims, nil
		}
	}
	return nil, ErrInsufficientPermissions
}
