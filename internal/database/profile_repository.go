package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/lingobot/pkg/models"
)

// MaxHearts is the heart refill ceiling
const MaxHearts = 5

// ProfileRepository handles database operations for the learner profile.
// The app tracks a single learner, stored as profile row id 1.
type ProfileRepository struct{}

// NewProfileRepository creates a new repository instance
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{}
}

// Get returns the learner profile, creating the default row on first use
func (r *ProfileRepository) Get(ctx context.Context) (models.Profile, error) {
	var profile models.Profile
	err := DB.GetContext(ctx, &profile, "SELECT * FROM profiles WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := DB.ExecContext(ctx, "INSERT INTO profiles (id) VALUES (1)"); err != nil {
			return models.Profile{}, fmt.Errorf("failed to create profile: %w", err)
		}
		err = DB.GetContext(ctx, &profile, "SELECT * FROM profiles WHERE id = 1")
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// AddXP credits experience points to the profile
func (r *ProfileRepository) AddXP(ctx context.Context, points int) error {
	if _, err := r.Get(ctx); err != nil {
		return err
	}
	_, err := DB.ExecContext(ctx,
		"UPDATE profiles SET total_xp = total_xp + $1 WHERE id = 1", points)
	if err != nil {
		return fmt.Errorf("failed to add xp: %w", err)
	}
	return nil
}

// DeductHeart removes one heart and returns the remaining count
func (r *ProfileRepository) DeductHeart(ctx context.Context) (int, error) {
	if _, err := r.Get(ctx); err != nil {
		return 0, err
	}
	_, err := DB.ExecContext(ctx,
		"UPDATE profiles SET hearts = hearts - 1 WHERE id = 1 AND hearts > 0")
	if err != nil {
		return 0, fmt.Errorf("failed to deduct heart: %w", err)
	}

	var remaining int
	if err := DB.GetContext(ctx, &remaining, "SELECT hearts FROM profiles WHERE id = 1"); err != nil {
		return 0, fmt.Errorf("failed to read hearts: %w", err)
	}
	return remaining, nil
}

// RefillHearts restores hearts to the maximum
func (r *ProfileRepository) RefillHearts(ctx context.Context) error {
	if _, err := r.Get(ctx); err != nil {
		return err
	}
	_, err := DB.ExecContext(ctx,
		"UPDATE profiles SET hearts = $1 WHERE id = 1", MaxHearts)
	if err != nil {
		return fmt.Errorf("failed to refill hearts: %w", err)
	}
	return nil
}

// TouchActivity updates the streak bookkeeping for the given local day.
// Consecutive days extend the streak, a gap resets it to 1.
func (r *ProfileRepository) TouchActivity(ctx context.Context, today string, yesterday string) error {
	profile, err := r.Get(ctx)
	if err != nil {
		return err
	}

	streak := profile.StreakCount
	switch profile.LastActiveAt {
	case today:
		return nil
	case yesterday:
		streak++
	default:
		streak = 1
	}

	_, err = DB.ExecContext(ctx,
		"UPDATE profiles SET streak_count = $1, last_active_at = $2 WHERE id = 1",
		streak, today)
	if err != nil {
		return fmt.Errorf("failed to update streak: %w", err)
	}
	return nil
}

// SetChatID remembers the chat the learner talks to the bot from, used by
// the reminder scheduler.
func (r *ProfileRepository) SetChatID(ctx context.Context, chatID int64) error {
	if _, err := r.Get(ctx); err != nil {
		return err
	}
	_, err := DB.ExecContext(ctx,
		"UPDATE profiles SET chat_id = $1 WHERE id = 1", chatID)
	if err != nil {
		return fmt.Errorf("failed to set chat id: %w", err)
	}
	return nil
}
