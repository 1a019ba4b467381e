package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/lingobot/internal/review"
	"github.com/example/lingobot/internal/sm2"
	"github.com/example/lingobot/pkg/models"
)

// XPPerCorrect is the experience reward signalled per correct answer
const XPPerCorrect = 10

// ExerciseSource loads exercise content for a session queue
type ExerciseSource interface {
	GetByLevel(ctx context.Context, levelID int64) ([]models.Exercise, error)
	GetByIDs(ctx context.Context, ids []int64) ([]models.Exercise, error)
}

// ProgressStore records level completion
type ProgressStore interface {
	MarkLevelCompleted(ctx context.Context, levelID int64) error
}

// Rewarder receives correct/incorrect signals. Balance bookkeeping (XP
// totals, heart refills, streaks) happens behind this interface; the runner
// only signals.
type Rewarder interface {
	AddXP(ctx context.Context, points int) error
	DeductHeart(ctx context.Context) (remaining int, err error)
}

// Runner owns session lifecycles: start, answer submission, cancellation
type Runner struct {
	reviews   review.Store
	selector  *review.Selector
	exercises ExerciseSource
	progress  ProgressStore
	rewarder  Rewarder
	clock     sm2.Clock

	writeRetries int
	retryDelay   time.Duration
}

// NewRunner wires a runner with the default retry policy for review writes
func NewRunner(reviews review.Store, selector *review.Selector, exercises ExerciseSource, progress ProgressStore, rewarder Rewarder, clock sm2.Clock) *Runner {
	return &Runner{
		reviews:      reviews,
		selector:     selector,
		exercises:    exercises,
		progress:     progress,
		rewarder:     rewarder,
		clock:        clock,
		writeRetries: 3,
		retryDelay:   250 * time.Millisecond,
	}
}

// SetRetryPolicy overrides the bounded retry used for review-store writes
func (r *Runner) SetRetryPolicy(retries int, delay time.Duration) {
	r.writeRetries = retries
	r.retryDelay = delay
}

// Start builds a new session. In practice mode an empty due set yields a
// session already in StateNothingDue so the caller can show the right
// message instead of an empty queue. A load failure is surfaced as an error.
func (r *Runner) Start(ctx context.Context, req StartRequest) (*Session, error) {
	switch req.Mode {
	case ModeLevel:
		exercises, err := r.exercises.GetByLevel(ctx, req.LevelID)
		if err != nil {
			return nil, fmt.Errorf("failed to load level %d: %w", req.LevelID, err)
		}
		if len(exercises) == 0 {
			return nil, fmt.Errorf("level %d has no exercises", req.LevelID)
		}
		return newSession(ModeLevel, req.LevelID, exercises, StateActive), nil

	case ModePractice:
		ids, err := r.selector.SelectDue(ctx, r.clock.Today())
		if err != nil {
			return nil, fmt.Errorf("failed to load due set: %w", err)
		}
		if len(ids) == 0 {
			return newSession(ModePractice, 0, nil, StateNothingDue), nil
		}
		exercises, err := r.exercises.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load due exercises: %w", err)
		}
		if len(exercises) == 0 {
			return newSession(ModePractice, 0, nil, StateNothingDue), nil
		}
		return newSession(ModePractice, 0, exercises, StateActive), nil

	default:
		return nil, fmt.Errorf("unknown session mode %d", req.Mode)
	}
}

// Submit processes one answer for the session's current exercise: schedules
// it with SM-2, persists the review state, signals the rewarder, re-queues
// failed practice items and advances the cursor.
//
// Review-store write failures do not block the learner: after the bounded
// retry they are logged and the session continues on its in-memory state.
func (r *Runner) Submit(ctx context.Context, s *Session, answer Answer) (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return Progress{}, ErrSessionClosed
	}
	if s.cursor >= len(s.queue) {
		return Progress{}, ErrSessionClosed
	}
	exercise := s.queue[s.cursor]
	if answer.ExerciseID != 0 && answer.ExerciseID != exercise.ID {
		return Progress{}, ErrStaleAnswer
	}

	quality := sm2.QualityForAnswer(answer.IsCorrect)
	today := r.clock.Today()

	prior, found, err := r.reviews.Get(ctx, exercise.ID)
	if err != nil {
		// Read failures degrade to a fresh state so a transient store
		// problem cannot block the session.
		log.Printf("session %s: failed to read review state for exercise %d: %v", s.ID, exercise.ID, err)
		found = false
	}
	if found {
		if _, err := sm2.ParseDateKey(prior.NextReview); err != nil {
			return Progress{}, fmt.Errorf("malformed review state for exercise %d: %w", exercise.ID, err)
		}
	} else {
		// First answer to this exercise: in level mode this write is the
		// enrollment into the long-term review cycle, due the next
		// calendar day.
		prior = sm2.NewReviewState(exercise.ID)
	}

	result, err := sm2.Schedule(quality, prior, today)
	if err != nil {
		return Progress{}, err
	}

	r.persistReview(ctx, s.ID, result.Next)
	r.signalRewarder(ctx, s, answer.IsCorrect)

	if answer.IsCorrect {
		s.correct++
	}

	if s.state == StateGameOver {
		return s.snapshot(!answer.IsCorrect), nil
	}

	// Missed practice items resurface before the session ends. Level
	// sessions keep their fixed queue; the lapse is still recorded
	// long-term above.
	if result.RepeatAgain && s.Mode == ModePractice {
		s.queue = append(s.queue, exercise)
	}

	s.cursor++
	if s.cursor >= len(s.queue) {
		s.state = StateCompleted
		r.markCompleted(ctx, s)
	}

	return s.snapshot(!answer.IsCorrect), nil
}

// Cancel abandons an active session. In-memory state is discarded; review
// writes already committed for earlier answers stand. Late Submit calls
// return ErrSessionClosed.
func (r *Runner) Cancel(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateActive {
		s.state = StateCanceled
	}
}

// persistReview upserts with a bounded retry, then logs and gives up. Losing
// one review write only delays the exercise's schedule, it never corrupts it.
func (r *Runner) persistReview(ctx context.Context, sessionID string, state models.ReviewState) {
	var err error
	for attempt := 0; attempt <= r.writeRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * r.retryDelay)
		}
		if err = r.reviews.Upsert(ctx, state); err == nil {
			return
		}
	}
	log.Printf("session %s: dropping review update for exercise %d after %d attempts: %v",
		sessionID, state.ExerciseID, r.writeRetries+1, err)
}

// signalRewarder forwards the correct/incorrect signal. Reward bookkeeping
// is best-effort: failures are logged, never surfaced to the learner.
func (r *Runner) signalRewarder(ctx context.Context, s *Session, isCorrect bool) {
	if r.rewarder == nil {
		return
	}

	if isCorrect {
		if err := r.rewarder.AddXP(ctx, XPPerCorrect); err != nil {
			log.Printf("session %s: failed to add xp: %v", s.ID, err)
		}
		return
	}

	// Practice mistakes are free; level mistakes cost a heart.
	if s.Mode != ModeLevel {
		return
	}
	remaining, err := r.rewarder.DeductHeart(ctx)
	if err != nil {
		log.Printf("session %s: failed to deduct heart: %v", s.ID, err)
		return
	}
	if remaining <= 0 {
		s.state = StateGameOver
	}
}

// markCompleted records level completion exactly once per session
func (r *Runner) markCompleted(ctx context.Context, s *Session) {
	if s.Mode != ModeLevel || s.markedDone || r.progress == nil {
		return
	}
	s.markedDone = true
	if err := r.progress.MarkLevelCompleted(ctx, s.LevelID); err != nil {
		log.Printf("session %s: failed to mark level %d completed: %v", s.ID, s.LevelID, err)
	}
}
