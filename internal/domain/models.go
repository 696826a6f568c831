package domain

// Question is one multiple-choice question as served by the trivia API.
// Text is passed through untouched; escaping is the renderer's problem.
type Question struct {
	Text             string   `json:"text"`
	CorrectAnswer    string   `json:"correctAnswer"`
	IncorrectAnswers []string `json:"incorrectAnswers"`
}

// AnswerOption is a single display choice derived from a Question.
// Exactly one option per question is correct, unless the source served
// an incorrect answer equal to the correct one.
type AnswerOption struct {
	Label   string `json:"label"`
	Correct bool   `json:"correct"`
}

// ScoreEntry is one finished game on the leaderboard.
type ScoreEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// RenderedQuestion pairs a question with its shuffled options.
type RenderedQuestion struct {
	Text    string         `json:"text"`
	Options []AnswerOption `json:"options"`
}

// SessionView is the snapshot pushed to the UI surface on every change.
type SessionView struct {
	State       string             `json:"state"`
	Username    string             `json:"username"`
	Score       int                `json:"score"`
	Questions   []RenderedQuestion `json:"questions"`
	Leaderboard []ScoreEntry       `json:"leaderboard"`
}
