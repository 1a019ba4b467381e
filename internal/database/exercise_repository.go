package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/lingobot/pkg/models"
)

// ExerciseRepository handles database operations for exercises
type ExerciseRepository struct{}

// NewExerciseRepository creates a new repository instance
func NewExerciseRepository() *ExerciseRepository {
	return &ExerciseRepository{}
}

// GetByID returns a single exercise
func (r *ExerciseRepository) GetByID(ctx context.Context, id int64) (models.Exercise, error) {
	var ex models.Exercise
	err := DB.GetContext(ctx, &ex, "SELECT * FROM exercises WHERE id = $1", id)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("failed to get exercise %d: %w", id, err)
	}
	return ex, nil
}

// GetByLevel returns all exercises of a level in presentation order
func (r *ExerciseRepository) GetByLevel(ctx context.Context, levelID int64) ([]models.Exercise, error) {
	var exercises []models.Exercise
	err := DB.SelectContext(ctx, &exercises,
		"SELECT * FROM exercises WHERE level_id = $1 ORDER BY id ASC", levelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exercises for level %d: %w", levelID, err)
	}
	return exercises, nil
}

// GetByIDs returns the exercises for the given ids, preserving the order of
// the input slice. Unknown ids are skipped.
func (r *ExerciseRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Exercise, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In("SELECT * FROM exercises WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build exercise query: %w", err)
	}
	query = DB.Rebind(query)

	var fetched []models.Exercise
	if err := DB.SelectContext(ctx, &fetched, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get exercises by ids: %w", err)
	}

	byID := make(map[int64]models.Exercise, len(fetched))
	for _, ex := range fetched {
		byID[ex.ID] = ex
	}

	ordered := make([]models.Exercise, 0, len(ids))
	for _, id := range ids {
		if ex, ok := byID[id]; ok {
			ordered = append(ordered, ex)
		}
	}
	return ordered, nil
}

// FindByContent looks an exercise up by its level and content. Used by the
// importer to avoid duplicating rows on re-import.
func (r *ExerciseRepository) FindByContent(ctx context.Context, levelID int64, contentJSON string) (models.Exercise, bool, error) {
	var ex models.Exercise
	err := DB.GetContext(ctx, &ex,
		"SELECT * FROM exercises WHERE level_id = $1 AND content_json = $2", levelID, contentJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Exercise{}, false, nil
	}
	if err != nil {
		return models.Exercise{}, false, fmt.Errorf("failed to find exercise: %w", err)
	}
	return ex, true, nil
}

// Create inserts a new exercise and returns its id
func (r *ExerciseRepository) Create(ctx context.Context, ex models.Exercise) (int64, error) {
	result, err := DB.ExecContext(ctx,
		`INSERT INTO exercises (level_id, type, content_json, correct_answer, explanation)
		 VALUES ($1, $2, $3, $4, $5)`,
		ex.LevelID, ex.Type, ex.ContentJSON, ex.CorrectAnswer, ex.Explanation)
	if err != nil {
		return 0, fmt.Errorf("failed to create exercise: %w", err)
	}
	return result.LastInsertId()
}

// Update modifies an existing exercise
func (r *ExerciseRepository) Update(ctx context.Context, ex models.Exercise) error {
	_, err := DB.ExecContext(ctx,
		`UPDATE exercises SET type = $1, content_json = $2, correct_answer = $3, explanation = $4
		 WHERE id = $5`,
		ex.Type, ex.ContentJSON, ex.CorrectAnswer, ex.Explanation, ex.ID)
	if err != nil {
		return fmt.Errorf("failed to update exercise %d: %w", ex.ID, err)
	}
	return nil
}
