package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-game-service/internal/domain"
)

// LeaderboardStore persists score entries in Postgres. The serial id column
// preserves insertion order for List.
type LeaderboardStore struct {
	pool *pgxpool.Pool
}

func NewLeaderboardStore(pool *pgxpool.Pool) *LeaderboardStore {
	return &LeaderboardStore{pool: pool}
}

func (s *LeaderboardStore) Append(ctx context.Context, entry domain.ScoreEntry) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO scores (username, score) VALUES ($1, $2)`, entry.Username, entry.Score)
	if err != nil {
		return fmt.Errorf("append score: %w", err)
	}
	return nil
}

func (s *LeaderboardStore) List(ctx context.Context) ([]domain.ScoreEntry, error) {
	rows, err := s.pool.Query(ctx, `SELECT username, score FROM scores ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var entries []domain.ScoreEntry
	for rows.Next() {
		var entry domain.ScoreEntry
		if err := rows.Scan(&entry.Username, &entry.Score); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return entries, nil
}

func (s *LeaderboardStore) ResetAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM scores`); err != nil {
		return fmt.Errorf("reset scores: %w", err)
	}
	return nil
}
