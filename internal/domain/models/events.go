package models

import (
	"time"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/types"
)

// Event is emitted after a successful state change
type Event struct {
	Type       types.EventType `json:"type"`
	Username   string          `json:"username"`
	Title      string          `json:"title,omitempty"`
	Favorites  []string        `json:"favorites,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func NewEvent(t types.EventType, username string) Event {
	return Event{
		Type:       t,
		Username:   username,
		OccurredAt: time.Now().UTC(),
	}
}
