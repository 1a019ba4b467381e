package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/lingobot/pkg/models"
)

// ReviewRepository handles database operations for SM-2 review state
type ReviewRepository struct{}

// NewReviewRepository creates a new repository instance
func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

// Get returns the review state for an exercise. The second return value is
// false when the exercise has never been reviewed; that is not an error.
func (r *ReviewRepository) Get(ctx context.Context, exerciseID int64) (models.ReviewState, bool, error) {
	var state models.ReviewState
	err := DB.GetContext(ctx, &state,
		"SELECT exercise_id, ease_factor, interval, repetitions, next_review_date FROM srs_reviews WHERE exercise_id = $1",
		exerciseID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ReviewState{}, false, nil
	}
	if err != nil {
		return models.ReviewState{}, false, fmt.Errorf("failed to get review state: %w", err)
	}
	return state, true, nil
}

// Upsert inserts or updates the review state for an exercise as a single
// atomic statement keyed by exercise id.
func (r *ReviewRepository) Upsert(ctx context.Context, state models.ReviewState) error {
	query := `
		INSERT INTO srs_reviews (exercise_id, ease_factor, interval, repetitions, next_review_date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (exercise_id) DO UPDATE SET
			ease_factor = EXCLUDED.ease_factor,
			interval = EXCLUDED.interval,
			repetitions = EXCLUDED.repetitions,
			next_review_date = EXCLUDED.next_review_date
	`
	_, err := DB.ExecContext(ctx, query,
		state.ExerciseID,
		state.EaseFactor,
		state.Interval,
		state.Repetitions,
		state.NextReview,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert review state for exercise %d: %w", state.ExerciseID, err)
	}
	return nil
}

// DueBefore returns all review states with next_review_date on or before the
// given day, most overdue first, ties broken by exercise id.
func (r *ReviewRepository) DueBefore(ctx context.Context, day string) ([]models.ReviewState, error) {
	var states []models.ReviewState
	query := `
		SELECT exercise_id, ease_factor, interval, repetitions, next_review_date
		FROM srs_reviews
		WHERE next_review_date <= $1
		ORDER BY next_review_date ASC, exercise_id ASC
	`
	if err := DB.SelectContext(ctx, &states, query, day); err != nil {
		return nil, fmt.Errorf("failed to get due reviews: %w", err)
	}
	return states, nil
}

// CountDue returns how many exercises are due on or before the given day
func (r *ReviewRepository) CountDue(ctx context.Context, day string) (int, error) {
	var count int
	err := DB.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM srs_reviews WHERE next_review_date <= $1", day)
	if err != nil {
		return 0, fmt.Errorf("failed to count due reviews: %w", err)
	}
	return count, nil
}
