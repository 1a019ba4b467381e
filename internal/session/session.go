// Package session drives one learning or practice interaction: it loads an
// ordered exercise queue, applies the SM-2 scheduler to every answer and
// re-surfaces missed items within the same practice session.
package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/example/lingobot/pkg/models"
)

// Mode selects how a session's exercise queue is built
type Mode int

const (
	// ModeLevel presents the exercises of one curriculum level (first exposure)
	ModeLevel Mode = iota
	// ModePractice presents the currently due spaced-repetition batch
	ModePractice
)

// State of a session. Active loops on itself via answer submissions; all
// other states are terminal.
type State int

const (
	StateActive State = iota
	StateCompleted
	StateNothingDue
	StateGameOver
	StateCanceled
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateCompleted:
		return "completed"
	case StateNothingDue:
		return "nothing_due"
	case StateGameOver:
		return "game_over"
	case StateCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// ErrSessionClosed is returned when an answer arrives for a session that is
// no longer active, e.g. a completion callback landing after the learner
// dismissed the session.
var ErrSessionClosed = errors.New("session: session is not active")

// StartRequest describes how a session should be built
type StartRequest struct {
	Mode    Mode
	LevelID int64 // only for ModeLevel
}

// Answer is one submission from the UI. The app collapses answer grading to
// a binary signal before it reaches the runner. ExerciseID is optional; when
// set it must match the session's current exercise, which catches taps
// arriving for an exercise that has already been advanced past.
type Answer struct {
	ExerciseID int64
	IsCorrect  bool
}

// ErrStaleAnswer is returned when an answer names an exercise other than the
// session's current one.
var ErrStaleAnswer = errors.New("session: answer does not match the current exercise")

// Progress is the snapshot produced after each answer
type Progress struct {
	Current  int   // exercises answered so far
	Total    int   // current queue length, grows when items are re-queued
	Revealed bool  // true when the last answer was wrong and the solution was shown
	Correct  int   // correct answers so far
	State    State // StateCompleted / StateGameOver when terminal
}

// Session is the in-memory state of one interaction. It is owned by the
// runner for its whole lifetime, never persisted, and discarded on
// completion or abandonment.
type Session struct {
	ID      string
	Mode    Mode
	LevelID int64

	mu         sync.Mutex
	queue      []models.Exercise
	cursor     int
	state      State
	correct    int
	markedDone bool
}

func newSession(mode Mode, levelID int64, queue []models.Exercise, state State) *Session {
	return &Session{
		ID:      uuid.NewString(),
		Mode:    mode,
		LevelID: levelID,
		queue:   queue,
		state:   state,
	}
}

// State returns the session's current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the exercise awaiting an answer. ok is false once the
// session has left the active state or the queue is exhausted.
func (s *Session) Current() (models.Exercise, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive || s.cursor >= len(s.queue) {
		return models.Exercise{}, false
	}
	return s.queue[s.cursor], true
}

// AnsweredCount returns how many answers have been processed so far
func (s *Session) AnsweredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Size returns the current queue length
func (s *Session) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Session) snapshot(revealed bool) Progress {
	return Progress{
		Current:  s.cursor,
		Total:    len(s.queue),
		Revealed: revealed,
		Correct:  s.correct,
		State:    s.state,
	}
}
