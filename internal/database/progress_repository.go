package database

import (
	"context"
	"fmt"
)

// ProgressRepository handles database operations for level completion
type ProgressRepository struct{}

// NewProgressRepository creates a new repository instance
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{}
}

// MarkLevelCompleted records that a level has been finished. The write is an
// atomic upsert keyed by level id, so marking an already completed level is a
// no-op.
func (r *ProgressRepository) MarkLevelCompleted(ctx context.Context, levelID int64) error {
	query := `
		INSERT INTO user_progress (level_id, is_completed)
		VALUES ($1, 1)
		ON CONFLICT (level_id) DO UPDATE SET is_completed = 1
	`
	if _, err := DB.ExecContext(ctx, query, levelID); err != nil {
		return fmt.Errorf("failed to mark level %d completed: %w", levelID, err)
	}
	return nil
}

// IsLevelCompleted reports whether a level has been finished
func (r *ProgressRepository) IsLevelCompleted(ctx context.Context, levelID int64) (bool, error) {
	var count int
	err := DB.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM user_progress WHERE level_id = $1 AND is_completed = 1", levelID)
	if err != nil {
		return false, fmt.Errorf("failed to check level %d completion: %w", levelID, err)
	}
	return count > 0, nil
}
