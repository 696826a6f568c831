package memory

import (
	"context"
	"sync"
	"time"
)

// IdentityStore keeps the player name in process memory with an expiry,
// standing in for the cookie a browser front end would use.
type IdentityStore struct {
	clock func() time.Time

	mu        sync.RWMutex
	username  string
	expiresAt time.Time
}

func NewIdentityStore() *IdentityStore {
	return NewIdentityStoreWithClock(time.Now)
}

// NewIdentityStoreWithClock allows deterministic expiry in tests.
func NewIdentityStoreWithClock(clock func() time.Time) *IdentityStore {
	return &IdentityStore{clock: clock}
}

func (s *IdentityStore) Save(_ context.Context, username string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
	s.expiresAt = s.clock().Add(ttl)
	return nil
}

// Load returns the stored name, or "" once it has expired or was cleared.
func (s *IdentityStore) Load(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.username == "" || !s.expiresAt.After(s.clock()) {
		return "", nil
	}
	return s.username, nil
}

func (s *IdentityStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = ""
	s.expiresAt = time.Time{}
	return nil
}
