package models

// ReviewState tracks the SM-2 scheduling data for a single exercise.
// There is at most one record per exercise; it is created on the first
// answer and never deleted afterwards.
type ReviewState struct {
	ExerciseID  int64   `json:"exercise_id" db:"exercise_id"`
	EaseFactor  float64 `json:"ease_factor" db:"ease_factor"`   // SM-2 EF parameter, floored at 1.3
	Interval    int     `json:"interval" db:"interval"`         // Days until next review; 0 means never scheduled
	Repetitions int     `json:"repetitions" db:"repetitions"`   // Consecutive successful recalls since last lapse
	NextReview  string  `json:"next_review_date" db:"next_review_date"` // Local calendar day, YYYY-MM-DD
}
