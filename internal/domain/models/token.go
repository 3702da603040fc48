package models

import (
	"time"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/types"
	"github.com/golang-jwt/jwt/v5"
)

// AccessToken is an issued bearer credential
type AccessToken struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
}

// ExpiresIn returns the remaining lifetime relative to now, rounded down to seconds
func (t *AccessToken) ExpiresIn(now time.Time) int64 {
	d := t.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}

// Claims is the payload of every token the service signs. Subject is the username.
type Claims struct {
	TokenType types.TokenType `json:"typ"`
	jwt.RegisteredClaims
}
