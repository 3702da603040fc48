package types

// TokenType is the `typ` claim of tokens signed by the service
type TokenType string

const (
	// AccessToken authenticates API calls
	AccessToken TokenType = "access"
	// StateToken protects the federated login round trip
	StateToken TokenType = "oauth_state"
)

func (t TokenType) String() string {
	return string(t)
}

// BearerScheme is the token_type returned to clients
const BearerScheme = "bearer"

// EventType names what happened; also used as RabbitMQ routing key
type EventType string

const (
	EventUserRegistered  EventType = "user.registered"
	EventUserFederated   EventType = "user.federated"
	EventFavoriteAdded   EventType = "favorite.added"
	EventFavoriteRemoved EventType = "favorite.removed"
)

func (e EventType) String() string {
	return string(e)
}

// IsFavoriteEvent reports whether the event changes a favorites list
func (e EventType) IsFavoriteEvent() bool {
	return e == EventFavoriteAdded || e == EventFavoriteRemoved
}
