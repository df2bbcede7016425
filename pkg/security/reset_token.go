package security

import (
	"bitwise74/event-api/pkg/util"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

const (
	resetTokenSize = 32
	ResetTokenTTL  = time.Hour * 24
)

type ResetToken struct {
	// Plain is mailed to the user and never stored
	Plain     string
	Hash      string
	ExpiresAt time.Time
}

// MakeResetToken generates a password reset token that stays valid for the
// given duration
func MakeResetToken(validFor time.Duration) (*ResetToken, error) {
	if validFor <= 0 {
		return nil, errors.New("reset token must expire in the future")
	}

	token, err := util.GenerateToken(resetTokenSize)
	if err != nil {
		return nil, err
	}

	return &ResetToken{
		Plain:     token,
		Hash:      HashResetToken(token),
		ExpiresAt: time.Now().Add(validFor).UTC(),
	}, nil
}

// HashResetToken is what's stored and looked up in the database
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
