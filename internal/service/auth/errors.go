package auth

import (
	"errors"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/types"
)

var (
	ErrInvalidCredentials     = types.ErrInvalidCredentials
	ErrUsernameTaken          = types.ErrUsernameTaken
	ErrTokenExpired           = types.ErrTokenExpired
	ErrTokenMalformed         = types.ErrTokenMalformed
	ErrInvalidState           = types.ErrInvalidState
	ErrProviderExchangeFailed = types.ErrProviderExchangeFailed
	ErrProviderDisabled       = types.ErrProviderDisabled
	ErrUnexpected             = types.ErrUnexpected

	ErrTokenGenerateFail = errors.Join(types.ErrUnexpected, errors.New("failed to generate token"))
)
