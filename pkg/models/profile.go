package models

// Profile holds the learner's gamification stats. The session runner only
// signals correct/incorrect; all balance bookkeeping lives here and in the
// profiles table.
type Profile struct {
	ID           int64  `json:"id" db:"id"`
	ChatID       int64  `json:"chat_id" db:"chat_id"`
	TotalXP      int    `json:"total_xp" db:"total_xp"`
	Hearts       int    `json:"hearts" db:"hearts"`
	StreakCount  int    `json:"streak_count" db:"streak_count"`
	LastActiveAt string `json:"last_active_at" db:"last_active_at"`
}
