package dto

import (
	"strings"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	"github.com/Temutjin2k/bookshelf-auth/pkg/passhash"
	"github.com/Temutjin2k/bookshelf-auth/pkg/validator"
)

type RegisterUserRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Username string `json:"username" validate:"required,min=3,max=64,printascii"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (r *RegisterUserRequest) ToModel() *models.UserCreateRequest {
	return &models.UserCreateRequest{
		Name:     strings.TrimSpace(r.Name),
		Username: r.Username,
		Password: r.Password,
	}
}

func ValidateNewUser(v *validator.Validator, req *RegisterUserRequest) {
	v.Struct(req)
	// max=72 counts runes; bcrypt's limit is in bytes
	v.Check(len(req.Password) <= passhash.MaxPasswordLen, "password", "must not be more than 72 bytes long")
	v.Check(!strings.ContainsAny(req.Username, " \t"), "username", "must not contain spaces")
	v.Check(strings.TrimSpace(req.Name) != "", "name", "must be provided")
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=320"`
	Password string `json:"password" validate:"required,max=72"`
}

func ValidateLogin(v *validator.Validator, req *LoginRequest) {
	v.Struct(req)
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type AuthorizationURLResponse struct {
	AuthorizationURL string `json:"authorization_url"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error any `json:"error"`
}
