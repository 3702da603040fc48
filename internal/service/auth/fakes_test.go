package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	"github.com/Temutjin2k/bookshelf-auth/internal/domain/types"
)

type memUserRepo struct {
	mu      sync.Mutex
	users   map[string]*models.User
	lookups int
	failGet error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.Username]; ok {
		return types.ErrUsernameTaken
	}
	cp := *u
	r.users[u.Username] = &cp
	return nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lookups++
	if r.failGet != nil {
		return nil, r.failGet
	}
	u, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// plainHasher keeps tests fast; bcrypt itself is covered in pkg/passhash.
type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) VerifyPassword(password, hash string) bool {
	return hash != "" && hash == "hashed:"+password
}

type fakeProvider struct {
	identity *models.FederatedIdentity
	err      error
	codes    []string
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://idp.example.com/auth?client_id=cid&state=" + state
}

func (p *fakeProvider) Exchange(_ context.Context, code string) (*models.FederatedIdentity, error) {
	p.codes = append(p.codes, code)
	if p.err != nil {
		return nil, p.err
	}
	return p.identity, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e models.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) Types() []types.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]types.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// inlineTx runs fn directly; transaction semantics are covered in pkg/trm.
type inlineTx struct {
	calls int
}

func (m *inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func (m *inlineTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

var errDBDown = errors.New("connection refused")
