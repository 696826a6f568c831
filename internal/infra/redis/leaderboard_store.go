package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"trivia-game-service/internal/domain"
)

const scoresKey = "trivia:scores"

// LeaderboardStore keeps score entries in a Redis list. Insertion order is
// the list order, so no sorting happens on read.
type LeaderboardStore struct {
	client *redis.Client
}

func NewLeaderboardStore(client *redis.Client) *LeaderboardStore {
	return &LeaderboardStore{client: client}
}

func (s *LeaderboardStore) Append(ctx context.Context, entry domain.ScoreEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal score entry: %w", err)
	}
	return s.client.RPush(ctx, scoresKey, data).Err()
}

func (s *LeaderboardStore) List(ctx context.Context) ([]domain.ScoreEntry, error) {
	raw, err := s.client.LRange(ctx, scoresKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]domain.ScoreEntry, 0, len(raw))
	for _, item := range raw {
		var entry domain.ScoreEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("unmarshal score entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *LeaderboardStore) ResetAll(ctx context.Context) error {
	return s.client.Del(ctx, scoresKey).Err()
}
