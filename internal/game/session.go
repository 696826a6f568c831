package game

import (
	"context"
	"strings"
	"sync"
	"time"

	"trivia-game-service/internal/domain"
)

// QuestionSource fetches a batch of questions from the remote bank.
type QuestionSource interface {
	FetchQuestions(ctx context.Context, amount int) ([]domain.Question, error)
}

// IdentityStore persists the player name with an expiry (memory, Redis, etc).
type IdentityStore interface {
	Save(ctx context.Context, username string, ttl time.Duration) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// LeaderboardStore persists finished-game scores in insertion order.
type LeaderboardStore interface {
	Append(ctx context.Context, entry domain.ScoreEntry) error
	List(ctx context.Context) ([]domain.ScoreEntry, error)
	ResetAll(ctx context.Context) error
}

// State names the phases of the session lifecycle.
type State string

const (
	StateInitializing State = "initializing"
	StateLoading      State = "loading"
	StatePlaying      State = "playing"
	StateSubmitted    State = "submitted"
	StateErrored      State = "errored"
)

const (
	DefaultQuestionAmount = 10
	DefaultIdentityTTL    = 7 * 24 * time.Hour
)

// Session owns the game state for one player surface: identity, the current
// question set with shuffled options, the running score, and the per-session
// leaderboard. All mutation goes through its methods.
type Session struct {
	source      QuestionSource
	identity    IdentityStore
	leaderboard LeaderboardStore
	shuffler    *Shuffler
	amount      int
	identityTTL time.Duration

	mu          sync.RWMutex
	state       State
	username    string
	rendered    []domain.RenderedQuestion
	selections  map[int]domain.AnswerOption
	tracker     *ScoreTracker
	generation  int
	board       []domain.ScoreEntry
	subscribers map[chan domain.SessionView]struct{}
}

func NewSession(source QuestionSource, identity IdentityStore, leaderboard LeaderboardStore, amount int, identityTTL time.Duration) *Session {
	if amount <= 0 {
		amount = DefaultQuestionAmount
	}
	if identityTTL <= 0 {
		identityTTL = DefaultIdentityTTL
	}
	return &Session{
		source:      source,
		identity:    identity,
		leaderboard: leaderboard,
		shuffler:    NewShuffler(),
		amount:      amount,
		identityTTL: identityTTL,
		state:       StateInitializing,
		selections:  make(map[int]domain.AnswerOption),
		tracker:     NewScoreTracker(),
		subscribers: make(map[chan domain.SessionView]struct{}),
	}
}

// Start restores the persisted identity, clears the leaderboard, and loads
// the first question set. The leaderboard reset happens exactly once here,
// before any entry can be appended.
func (s *Session) Start(ctx context.Context) error {
	if err := s.leaderboard.ResetAll(ctx); err != nil {
		return err
	}
	username, err := s.identity.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.username = username
	s.board = nil
	s.mu.Unlock()

	return s.LoadQuestions(ctx)
}

// LoadQuestions fetches a fresh question set, discarding the previous one.
// It refuses to start a second fetch while one is outstanding.
func (s *Session) LoadQuestions(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateLoading {
		s.mu.Unlock()
		return domain.ErrLoadInProgress
	}
	gen := s.beginLoadLocked()
	s.mu.Unlock()

	return s.finishLoad(ctx, gen)
}

// beginLoadLocked clears question and answer state and opens a new loading
// attempt, invalidating any fetch still in flight.
func (s *Session) beginLoadLocked() int {
	s.generation++
	s.state = StateLoading
	s.rendered = nil
	s.selections = make(map[int]domain.AnswerOption)
	s.tracker.Reset()
	s.broadcastLocked()
	return s.generation
}

func (s *Session) finishLoad(ctx context.Context, gen int) error {
	questions, err := s.source.FetchQuestions(ctx, s.amount)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		// A reset superseded this attempt; the response is stale.
		return nil
	}
	if err != nil {
		s.state = StateErrored
		s.broadcastLocked()
		return err
	}

	s.rendered = make([]domain.RenderedQuestion, 0, len(questions))
	for _, q := range questions {
		s.rendered = append(s.rendered, domain.RenderedQuestion{
			Text:    q.Text,
			Options: s.shuffler.Shuffle(q.CorrectAnswer, q.IncorrectAnswers),
		})
	}
	s.state = StatePlaying
	s.broadcastLocked()
	return nil
}

// SelectAnswer records the player's choice for a question and returns the
// running total. Re-selecting a question replaces the previous choice; the
// selections are replayed through the tracker so toggling options cannot
// inflate the score.
func (s *Session) SelectAnswer(question, option int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePlaying {
		return 0, domain.ErrNotPlaying
	}
	if question < 0 || question >= len(s.rendered) {
		return 0, domain.ErrQuestionOutOfRange
	}
	options := s.rendered[question].Options
	if option < 0 || option >= len(options) {
		return 0, domain.ErrOptionOutOfRange
	}

	s.selections[question] = options[option]
	s.tracker.Reset()
	for _, selected := range s.selections {
		s.tracker.RecordSelection(selected)
	}
	s.broadcastLocked()
	return s.tracker.CurrentTotal(), nil
}

// SetUsername stages the player name used by the next Submit.
func (s *Session) SetUsername(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
	s.broadcastLocked()
}

// Submit finalizes the game: it persists the identity, appends the score to
// the leaderboard, and moves to Submitted. A blank username is a validation
// no-op; the session stays in Playing and nothing is persisted.
func (s *Session) Submit(ctx context.Context) (int, error) {
	s.mu.Lock()
	if s.state != StatePlaying {
		s.mu.Unlock()
		return 0, domain.ErrNotPlaying
	}
	username := strings.TrimSpace(s.username)
	score := s.tracker.CurrentTotal()
	s.mu.Unlock()

	if username == "" {
		return 0, domain.ErrEmptyUsername
	}

	if err := s.identity.Save(ctx, username, s.identityTTL); err != nil {
		return 0, err
	}
	entry := domain.ScoreEntry{Username: username, Score: score}
	if err := s.leaderboard.Append(ctx, entry); err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.state = StateSubmitted
	s.board = append(s.board, entry)
	s.broadcastLocked()
	s.mu.Unlock()
	return score, nil
}

// NewPlayer clears the stored identity and game state and loads a fresh
// question set. Unlike LoadQuestions it may interrupt an outstanding fetch;
// the superseded response is dropped by the generation check.
func (s *Session) NewPlayer(ctx context.Context) error {
	if err := s.identity.Clear(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.username = ""
	gen := s.beginLoadLocked()
	s.mu.Unlock()

	return s.finishLoad(ctx, gen)
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

func (s *Session) Score() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.CurrentTotal()
}

// Questions returns the current question set with shuffled options.
func (s *Session) Questions() []domain.RenderedQuestion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.RenderedQuestion, len(s.rendered))
	copy(out, s.rendered)
	return out
}

// Leaderboard reads the persisted score list in insertion order.
func (s *Session) Leaderboard(ctx context.Context) ([]domain.ScoreEntry, error) {
	return s.leaderboard.List(ctx)
}

// Subscribe returns a channel that receives a session snapshot on every
// state change, starting with the current one. The caller must invoke the
// returned cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan domain.SessionView, func()) {
	ch := make(chan domain.SessionView, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() {
	view := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- view:
		default:
			// Slow consumer: drop its oldest snapshot so the latest wins.
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}
}

func (s *Session) snapshotLocked() domain.SessionView {
	questions := make([]domain.RenderedQuestion, len(s.rendered))
	copy(questions, s.rendered)
	board := make([]domain.ScoreEntry, len(s.board))
	copy(board, s.board)
	return domain.SessionView{
		State:       string(s.state),
		Username:    s.username,
		Score:       s.tracker.CurrentTotal(),
		Questions:   questions,
		Leaderboard: board,
	}
}
