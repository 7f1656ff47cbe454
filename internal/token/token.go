// Package token issues and verifies signed session tokens.
//
// Tokens are stateless HS256 JWTs carrying the user identifier and an
// expiry a fixed offset from issuance. There is no revocation; a token
// stays valid for its full lifetime.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates a token that is malformed, carries a bad
// signature, or has expired. All verification failures collapse into
// this one error so callers cannot distinguish them.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the statements embedded in a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Service signs and verifies session tokens with a process-wide secret.
// The secret is injected at construction; the service never reads
// ambient state.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// New creates a token Service. ttl is the fixed lifetime applied to
// every issued token.
func New(secret []byte, ttl time.Duration) *Service {
	return &Service{secret: secret, ttl: ttl}
}

// Issue produces a signed token for the given user identifier.
// The token records issuance time and expires ttl after it.
func (s *Service) Issue(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a token and returns the
// embedded user identifier. Expiry is strict: no clock-skew leeway.
func (s *Service) Verify(tokenStr string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}
