package dto

import (
	"strings"

	"github.com/Temutjin2k/bookshelf-auth/pkg/validator"
)

type FavoriteBookRequest struct {
	Book string `json:"book" validate:"required,max=500"`
}

func ValidateFavoriteBook(v *validator.Validator, req *FavoriteBookRequest) {
	v.Struct(req)
	v.Check(strings.TrimSpace(req.Book) != "", "book", "must be provided")
}

type FavoritesResponse struct {
	Favorites []string `json:"favorites"`
}

// WebSocket frames of the live favorites feed.
type (
	WSAuthRequest struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	}

	WSAuthOK struct {
		Type      string   `json:"type"`
		Username  string   `json:"username"`
		Favorites []string `json:"favorites"`
	}
)
