package game

import "trivia-game-service/internal/domain"

// ScoreTracker keeps the running total for the current game. It does not
// deduplicate repeated selections for the same question; that policy lives
// in the Session, which replays selections through Reset.
type ScoreTracker struct {
	total int
}

func NewScoreTracker() *ScoreTracker {
	return &ScoreTracker{}
}

// RecordSelection adds a point for a correct option and ignores the rest.
func (t *ScoreTracker) RecordSelection(option domain.AnswerOption) {
	if option.Correct {
		t.total++
	}
}

func (t *ScoreTracker) CurrentTotal() int {
	return t.total
}

func (t *ScoreTracker) Reset() {
	t.total = 0
}
