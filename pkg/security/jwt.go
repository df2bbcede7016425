package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrTokenInvalid = errors.New("authorization token invalid")

type AuthClaims struct {
	UserID string `json:"user_id"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// MakeAuthToken signs an HS256 access token for a user
func MakeAuthToken(userID, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("no signing secret provided")
	}

	now := time.Now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		UserID: userID,
		Type:   "auth",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	return t.SignedString([]byte(secret))
}

// ParseAuthToken validates the signature and expiry of a token made by
// MakeAuthToken and returns its claims
func ParseAuthToken(tokenStr, secret string) (*AuthClaims, error) {
	var claims AuthClaims

	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	if !token.Valid || claims.UserID == "" || claims.Type != "auth" {
		return nil, ErrTokenInvalid
	}

	return &claims, nil
}
