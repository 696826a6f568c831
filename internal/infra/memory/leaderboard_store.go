package memory

import (
	"context"
	"sync"

	"trivia-game-service/internal/domain"
)

// LeaderboardStore is an in-process append-only score list.
type LeaderboardStore struct {
	mu      sync.RWMutex
	entries []domain.ScoreEntry
}

func NewLeaderboardStore() *LeaderboardStore {
	return &LeaderboardStore{}
}

func (s *LeaderboardStore) Append(_ context.Context, entry domain.ScoreEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// List returns the entries in insertion order.
func (s *LeaderboardStore) List(_ context.Context) ([]domain.ScoreEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ScoreEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *LeaderboardStore) ResetAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}
