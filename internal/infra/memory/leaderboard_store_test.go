package memory

import (
	"context"
	"testing"

	"trivia-game-service/internal/domain"
)

func TestLeaderboardStoreKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewLeaderboardStore()

	if err := store.Append(ctx, domain.ScoreEntry{Username: "a", Score: 1}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Append(ctx, domain.ScoreEntry{Username: "b", Score: 2}); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 || entries[0].Username != "a" || entries[1].Username != "b" {
		t.Fatalf("expected [a b] in order, got %+v", entries)
	}
}

func TestLeaderboardStoreResetAll(t *testing.T) {
	ctx := context.Background()
	store := NewLeaderboardStore()

	_ = store.Append(ctx, domain.ScoreEntry{Username: "a", Score: 1})
	if err := store.ResetAll(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty leaderboard, got %+v", entries)
	}
}
