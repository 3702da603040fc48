package dto

import (
	"strings"
	"testing"

	"github.com/Temutjin2k/bookshelf-auth/pkg/validator"
	"github.com/stretchr/testify/assert"
)

func TestValidateNewUser_PasswordBytes(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"ascii at limit", strings.Repeat("x", 72), true},
		{"multibyte under limit", strings.Repeat("é", 36), true},
		{"multibyte over limit", strings.Repeat("é", 40), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateNewUser(v, &RegisterUserRequest{Name: "Grace", Username: "grace", Password: tt.password})

			assert.Equal(t, tt.valid, v.Valid(), v.Errors)
			if !tt.valid {
				assert.Equal(t, "must not be more than 72 bytes long", v.Errors["password"])
			}
		})
	}
}
