// Package auth implements the stateless token service and password
// hashing. Tokens are signed HS256 JWTs; there is no server-side session
// store and no revocation list, so logout is client-side token deletion.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed payload, unexpected algorithm, or expiry.
var ErrInvalidToken = errors.New("invalid or expired token")

const issuer = "finch-server"

// TokenService issues and verifies bearer tokens. The secret and expiry
// are explicit constructor arguments, never globals, so tests can build
// isolated instances.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

// NewTokenService creates a token service. A zero expiry defaults to
// 7 days.
func NewTokenService(secret string, expiry time.Duration) *TokenService {
	if expiry <= 0 {
		expiry = 168 * time.Hour
	}
	return &TokenService{secret: []byte(secret), expiry: expiry}
}

// Issue produces a signed token embedding the user id with an expiration
// expiry out from now. Stateless: no side effects.
func (s *TokenService) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iss": issuer,
		"iat": now.Unix(),
		"exp": now.Add(s.expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiration and returns the embedded user
// id. Any failure returns ErrInvalidToken; callers never learn which
// check failed.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
