package game

import (
	"math/rand"
	"time"

	"trivia-game-service/internal/domain"
)

// Shuffler produces the randomized display order for a question's answers.
type Shuffler struct {
	rnd *rand.Rand
}

func NewShuffler() *Shuffler {
	return NewShufflerWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewShufflerWithRand allows a seeded source for deterministic tests.
func NewShufflerWithRand(rnd *rand.Rand) *Shuffler {
	return &Shuffler{rnd: rnd}
}

// Shuffle mixes the correct answer into the incorrect ones with a uniform
// Fisher-Yates pass. Correctness is decided by label equality, so a
// malformed bank that repeats the correct answer among the incorrect ones
// yields more than one correct option rather than an error.
func (s *Shuffler) Shuffle(correct string, incorrect []string) []domain.AnswerOption {
	options := make([]domain.AnswerOption, 0, 1+len(incorrect))
	options = append(options, domain.AnswerOption{Label: correct, Correct: true})
	for _, label := range incorrect {
		options = append(options, domain.AnswerOption{Label: label, Correct: label == correct})
	}
	s.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}
