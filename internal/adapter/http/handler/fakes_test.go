package handler

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	"github.com/Temutjin2k/bookshelf-auth/internal/domain/types"
)

const validToken = "valid-token"

type fakeAuth struct {
	registered map[string]bool
	err        error
	disabled   bool
	loginCalls int
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{registered: map[string]bool{"ada": true}}
}

func (f *fakeAuth) Register(_ context.Context, req *models.UserCreateRequest) error {
	if f.err != nil {
		return f.err
	}
	if f.registered[req.Username] {
		return types.ErrUsernameTaken
	}
	f.registered[req.Username] = true
	return nil
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (*models.AccessToken, error) {
	f.loginCalls++
	if username != "ada" || password != "longpassword1" {
		return nil, types.ErrInvalidCredentials
	}
	return &models.AccessToken{Token: validToken, TokenType: "bearer", ExpiresAt: time.Now().Add(30 * time.Minute)}, nil
}

func (f *fakeAuth) FederatedBegin(context.Context) (string, error) {
	if f.disabled {
		return "", types.ErrProviderDisabled
	}
	return "https://idp.example.com/auth?state=s1", nil
}

func (f *fakeAuth) FederatedLogin(_ context.Context, code, state string) (*models.AccessToken, error) {
	switch {
	case f.disabled:
		return nil, types.ErrProviderDisabled
	case state != "s1":
		return nil, types.ErrInvalidState
	case code != "good":
		return nil, types.ErrProviderExchangeFailed
	}
	return &models.AccessToken{Token: "federated-token", TokenType: "bearer", ExpiresAt: time.Now().Add(time.Minute)}, nil
}

func (f *fakeAuth) ValidateSession(_ context.Context, token string) (string, error) {
	if token != validToken {
		return "", types.ErrTokenMalformed
	}
	return "ada", nil
}

type fakeFavorites struct {
	mu    sync.Mutex
	books map[string][]string
	err   error
}

func newFakeFavorites() *fakeFavorites {
	return &fakeFavorites{books: map[string][]string{"ada": {}}}
}

func (f *fakeFavorites) Add(_ context.Context, username, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	list, ok := f.books[username]
	if !ok {
		return types.ErrUserNotFound
	}
	if slices.Contains(list, title) {
		return types.ErrAlreadyFavorite
	}
	f.books[username] = append(list, title)
	return nil
}

func (f *fakeFavorites) Remove(_ context.Context, username, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	list, ok := f.books[username]
	if !ok {
		return types.ErrUserNotFound
	}
	f.books[username] = slices.DeleteFunc(list, func(s string) bool { return s == title })
	return nil
}

func (f *fakeFavorites) List(_ context.Context, username string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	list, ok := f.books[username]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return slices.Clone(list), nil
}
