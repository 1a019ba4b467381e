package models

// LevelProgress marks completion of a curriculum level
type LevelProgress struct {
	ID          int64 `json:"id" db:"id"`
	LevelID     int64 `json:"level_id" db:"level_id"`
	IsCompleted bool  `json:"is_completed" db:"is_completed"`
	HighScore   int   `json:"high_score" db:"high_score"`
}
