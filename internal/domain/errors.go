package domain

import "errors"

var (
	// ErrFetchFailed is returned when the question request fails in transit
	// or the API answers with a non-2xx status.
	ErrFetchFailed = errors.New("question fetch failed")
	// ErrMalformedPayload is returned when the API body cannot be decoded.
	ErrMalformedPayload = errors.New("malformed question payload")
	// ErrEmptyUsername rejects a submission without a player name.
	ErrEmptyUsername = errors.New("username is empty")
	// ErrLoadInProgress rejects actions while a question fetch is outstanding.
	ErrLoadInProgress = errors.New("question load already in progress")
	// ErrNotPlaying is returned for selections or submissions outside an active game.
	ErrNotPlaying = errors.New("no game in progress")
	// ErrQuestionOutOfRange indicates a selection for an unknown question index.
	ErrQuestionOutOfRange = errors.New("question index out of range")
	// ErrOptionOutOfRange indicates a selection of an unknown option index.
	ErrOptionOutOfRange = errors.New("option index out of range")
)
