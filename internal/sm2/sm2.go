package sm2

import (
	"errors"
	"fmt"
	"math"

	"github.com/example/lingobot/pkg/models"
)

// Quality grades a single answer on the classic SM-2 scale
type Quality int

const (
	// Complete blackout, unable to recall
	QualityBlackout Quality = 0
	// Incorrect response but remembered upon seeing the correct answer
	QualityIncorrect Quality = 1
	// Incorrect response but the correct answer felt familiar
	QualityIncorrectFamiliar Quality = 2
	// Correct response but required significant effort
	QualityCorrectDifficult Quality = 3
	// Correct response after some hesitation
	QualityCorrectHesitation Quality = 4
	// Perfect response with no hesitation
	QualityPerfect Quality = 5
)

const (
	// PassThreshold is the lowest quality counted as a successful recall
	PassThreshold Quality = 3
	// InitialEaseFactor is the EF assigned before any review has happened
	InitialEaseFactor = 2.5
	// MinEaseFactor is the SM-2 floor; below it intervals stop growing
	MinEaseFactor = 1.3
)

// ErrInvalidQuality is returned when quality is outside [0,5]. Out-of-range
// input is a caller bug and is rejected rather than clamped, since clamping
// would hide scoring errors upstream.
var ErrInvalidQuality = errors.New("sm2: quality must be between 0 and 5")

// Result is the outcome of scheduling one answer
type Result struct {
	// Next is the review state to persist for the exercise
	Next models.ReviewState
	// RepeatAgain asks the session runner to re-surface the exercise
	// before the current session ends. It is independent of Next's
	// long-term due date.
	RepeatAgain bool
}

// NewReviewState returns the state used for an exercise that has never been
// reviewed. Interval 0 is a sentinel for "never scheduled", not a real
// zero-day interval.
func NewReviewState(exerciseID int64) models.ReviewState {
	return models.ReviewState{
		ExerciseID:  exerciseID,
		EaseFactor:  InitialEaseFactor,
		Interval:    0,
		Repetitions: 0,
	}
}

// Schedule applies the SM-2 algorithm to one answer and returns the updated
// review state. It is a pure function of its arguments: "today" is passed in
// rather than read from the system clock.
//
// On success (quality >= 3) the interval progresses 1, 6, then
// round(interval * EF'); on failure repetitions reset and the exercise comes
// back tomorrow. The ease factor update applies in both cases.
func Schedule(quality Quality, prior models.ReviewState, today DateKey) (Result, error) {
	if quality < 0 || quality > 5 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidQuality, quality)
	}

	next := prior

	// EF' = EF + (0.1 - (5-q) * (0.08 + (5-q)*0.02)), floored at 1.3
	q := float64(quality)
	ef := prior.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ef < MinEaseFactor {
		ef = MinEaseFactor
	}
	next.EaseFactor = ef

	repeatAgain := false
	if quality >= PassThreshold {
		switch prior.Repetitions {
		case 0:
			next.Interval = 1
		case 1:
			next.Interval = 6
		default:
			next.Interval = int(math.Round(float64(prior.Interval) * ef))
		}
		next.Repetitions = prior.Repetitions + 1
	} else {
		next.Repetitions = 0
		next.Interval = 1
		repeatAgain = true
	}

	next.NextReview = string(today.AddDays(next.Interval))

	return Result{Next: next, RepeatAgain: repeatAgain}, nil
}

// QualityForAnswer maps the binary correct/incorrect signal coming from the
// UI onto the SM-2 scale. The app collects no finer-grained difficulty
// signal, so all correct answers grade as 5 and all mistakes as 1.
func QualityForAnswer(isCorrect bool) Quality {
	if isCorrect {
		return QualityPerfect
	}
	return QualityIncorrect
}
