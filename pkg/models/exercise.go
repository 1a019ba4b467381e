package models

// Exercise is a single task presented during a session
type Exercise struct {
	ID            int64  `json:"id" db:"id"`
	LevelID       int64  `json:"level_id" db:"level_id"`
	Type          string `json:"type" db:"type"` // multiple_choice, ordering, matching, true_false
	ContentJSON   string `json:"content_json" db:"content_json"`
	CorrectAnswer string `json:"correct_answer" db:"correct_answer"`
	Explanation   string `json:"explanation" db:"explanation"`
}

// ExerciseContent is the decoded shape of Exercise.ContentJSON
type ExerciseContent struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options,omitempty"`
}
