package models

import "time"

// Favorite is one book title on a user's list
type Favorite struct {
	Username  string
	Title     string
	CreatedAt time.Time
}
