package events

import (
	"context"
	"errors"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	ws "github.com/Temutjin2k/bookshelf-auth/pkg/wsHub"
)

// FavoritesUpdated is the frame pushed to a user's live feed.
type FavoritesUpdated struct {
	Type      string   `json:"type"`
	Favorites []string `json:"favorites"`
}

const TypeFavoritesUpdated = "favorites.updated"

func NewFavoritesUpdated(list []string) FavoritesUpdated {
	if list == nil {
		list = []string{}
	}
	return FavoritesUpdated{Type: TypeFavoritesUpdated, Favorites: list}
}

// WSSink pushes favorite changes to the owner's websocket, if one is open.
type WSSink struct {
	hub *ws.ConnectionHub
}

func NewWSSink(hub *ws.ConnectionHub) *WSSink {
	return &WSSink{hub: hub}
}

func (s *WSSink) Name() string {
	return "websocket"
}

func (s *WSSink) Publish(_ context.Context, event models.Event) error {
	if !event.Type.IsFavoriteEvent() {
		return nil
	}

	err := s.hub.SendTo(event.Username, NewFavoritesUpdated(event.Favorites))
	if errors.Is(err, ws.ErrConnIsNotFound) {
		return nil
	}
	return err
}
