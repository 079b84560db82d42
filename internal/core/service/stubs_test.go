package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pokebattle/battle-api/internal/core/domain"
	"github.com/pokebattle/battle-api/internal/core/ports"
)

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User // by id
	err   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// addUser stores an account with a cheap bcrypt hash of password.
func (r *stubUserRepo) addUser(id, email, password string, active, verified bool) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &domain.User{
		ID:           id,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     active,
		IsVerified:   verified,
		RoleID:       domain.DefaultRoleID,
	}
	r.mu.Lock()
	r.users[id] = cloneUser(u)
	r.mu.Unlock()
	return u
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubRoleRepo struct{}

func (stubRoleRepo) FindByID(_ context.Context, id int) (*domain.Role, error) {
	if id == domain.DefaultRoleID {
		return &domain.Role{ID: id, Name: "player"}, nil
	}
	return nil, nil
}

type stubQueue struct {
	mu  sync.Mutex
	got []ports.Notification
	err error
}

func (q *stubQueue) Enqueue(n ports.Notification) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.got = append(q.got, n)
	return nil
}

func (q *stubQueue) last() (ports.Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.got) == 0 {
		return ports.Notification{}, false
	}
	return q.got[len(q.got)-1], true
}

type stubNotifier struct {
	got []ports.Notification
	err error
}

func (n *stubNotifier) Send(_ context.Context, note ports.Notification) error {
	n.got = append(n.got, note)
	return n.err
}

type stubOTPGenerator struct {
	code string
	err  error
}

func (g stubOTPGenerator) Generate(string) (string, error) { return g.code, g.err }

// memoryOTPCache mimics the redis cache including single use.
type memoryOTPCache struct {
	mu     sync.Mutex
	codes  map[string]string
	ttls   map[string]time.Duration
	putErr error
	getErr error
}

func newMemoryOTPCache() *memoryOTPCache {
	return &memoryOTPCache{codes: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *memoryOTPCache) Put(_ context.Context, subjectID, code string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.putErr != nil {
		return c.putErr
	}
	c.codes[subjectID] = code
	c.ttls[subjectID] = ttl
	return nil
}

func (c *memoryOTPCache) VerifyAndConsume(_ context.Context, subjectID, candidate string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return false, c.getErr
	}
	code, ok := c.codes[subjectID]
	if !ok || candidate == "" || code != candidate {
		return false, nil
	}
	delete(c.codes, subjectID)
	return true, nil
}

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: map[string]string{}}
}

func (s *memorySessionStore) Save(_ context.Context, tokenID, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[tokenID] = userID
	return nil
}

func (s *memorySessionStore) Lookup(_ context.Context, tokenID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.sessions[tokenID]
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return id, nil
}

func (s *memorySessionStore) Delete(_ context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tokenID)
	return nil
}

type stubIssuer struct {
	issued []string
	err    error
}

func (i *stubIssuer) Login(_ context.Context, user *domain.User) (*domain.Session, error) {
	if i.err != nil {
		return nil, i.err
	}
	i.issued = append(i.issued, user.ID)
	return &domain.Session{Token: "token-" + user.ID, TokenType: domain.TokenTypeBearer, UserID: user.ID}, nil
}

func (i *stubIssuer) Logout(context.Context, string) error { return nil }

type stubBattleRepo struct {
	inserted []*domain.BattleLog
	err      error
}

func (r *stubBattleRepo) Insert(_ context.Context, log *domain.BattleLog) error {
	if r.err != nil {
		return r.err
	}
	log.ID = "battle-1"
	r.inserted = append(r.inserted, log)
	return nil
}

type stubPokemonClient struct {
	pokemon  map[string]*domain.Pokemon
	list     json.RawMessage
	getCalls int
	lstCalls int
}

func (c *stubPokemonClient) Get(_ context.Context, name string) (*domain.Pokemon, error) {
	c.getCalls++
	p, ok := c.pokemon[name]
	if !ok {
		return nil, domain.ErrPokemonNotFound
	}
	return p, nil
}

func (c *stubPokemonClient) List(context.Context, int) (json.RawMessage, error) {
	c.lstCalls++
	return c.list, nil
}

type memoryCache struct {
	data map[string][]byte
	err  error
}

func newMemoryCache() *memoryCache { return &memoryCache{data: map[string][]byte{}} }

func (c *memoryCache) Get(_ context.Context, key string, dst any) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if c.err != nil {
		return c.err
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

type stubUploader struct {
	dir, name, content string
	err                error
}

func (u *stubUploader) Upload(_ context.Context, _ ports.FTPCredentials, dir, name string, content []byte) error {
	if u.err != nil {
		return u.err
	}
	u.dir, u.name, u.content = dir, name, string(content)
	return nil
}

var errBackend = errors.New("backend down")
