package models

import (
	"time"
)

type UserCreateRequest struct {
	Name     string
	Username string
	Password string
}

// User is a registered account. PasswordHash is empty for accounts created by federated login,
// which therefore cannot use password login.
type User struct {
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsFederatedOnly reports whether the account has no local password
func (u *User) IsFederatedOnly() bool {
	return u.PasswordHash == ""
}

// FederatedIdentity is what the identity provider tells us about the end user
type FederatedIdentity struct {
	Email         string
	EmailVerified bool
	Name          string
}
