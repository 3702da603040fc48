package types

import "errors"

// ErrorKind groups domain errors by how a caller should react to them.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindAuthentication
	KindNotFound
	KindConflict
	KindUpstream
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// Validation
var (
	ErrValidation = errors.New("validation failed")
)

// Authentication
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenMalformed     = errors.New("invalid token")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidState       = errors.New("invalid oauth state")
)

// Not found
var (
	ErrUserNotFound = errors.New("user not found")
)

// Conflict
var (
	ErrUsernameTaken   = errors.New("username already exists")
	ErrAlreadyFavorite = errors.New("book is already in favorites")
)

// Upstream
var (
	ErrProviderExchangeFailed = errors.New("identity provider exchange failed")
	ErrProviderDisabled       = errors.New("federated login is not configured")
	ErrUnexpected             = errors.New("internal server error")
)

// Kind classifies err. Unknown errors are treated as upstream failures by callers.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case IsOneOf(err, ErrValidation):
		return KindValidation
	case IsOneOf(err, ErrInvalidCredentials, ErrTokenExpired, ErrTokenMalformed, ErrUnauthenticated, ErrInvalidState):
		return KindAuthentication
	case IsOneOf(err, ErrUserNotFound):
		return KindNotFound
	case IsOneOf(err, ErrUsernameTaken, ErrAlreadyFavorite):
		return KindConflict
	case IsOneOf(err, ErrProviderExchangeFailed, ErrProviderDisabled, ErrUnexpected):
		return KindUpstream
	default:
		return KindUnknown
	}
}

// IsOneOf reports whether err matches any of targets.
func IsOneOf(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
