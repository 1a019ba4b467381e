package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/lingobot/pkg/models"
)

// CurriculumRepository handles database operations for units, nodes and levels
type CurriculumRepository struct{}

// NewCurriculumRepository creates a new repository instance
func NewCurriculumRepository() *CurriculumRepository {
	return &CurriculumRepository{}
}

// GetUnits returns all units in roadmap order
func (r *CurriculumRepository) GetUnits(ctx context.Context) ([]models.Unit, error) {
	var units []models.Unit
	err := DB.SelectContext(ctx, &units, "SELECT * FROM units ORDER BY order_index ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to get units: %w", err)
	}
	return units, nil
}

// GetUnitByTitle returns a unit by its title
func (r *CurriculumRepository) GetUnitByTitle(ctx context.Context, title string) (models.Unit, bool, error) {
	var unit models.Unit
	err := DB.GetContext(ctx, &unit, "SELECT * FROM units WHERE title = $1", title)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Unit{}, false, nil
	}
	if err != nil {
		return models.Unit{}, false, fmt.Errorf("failed to get unit: %w", err)
	}
	return unit, true, nil
}

// CreateUnit inserts a new unit and returns its id
func (r *CurriculumRepository) CreateUnit(ctx context.Context, unit models.Unit) (int64, error) {
	result, err := DB.ExecContext(ctx,
		"INSERT INTO units (title, description, order_index) VALUES ($1, $2, $3)",
		unit.Title, unit.Description, unit.OrderIndex)
	if err != nil {
		return 0, fmt.Errorf("failed to create unit: %w", err)
	}
	return result.LastInsertId()
}

// GetNodeByTitle returns a node inside a unit by its title
func (r *CurriculumRepository) GetNodeByTitle(ctx context.Context, unitID int64, title string) (models.Node, bool, error) {
	var node models.Node
	err := DB.GetContext(ctx, &node,
		"SELECT * FROM nodes WHERE unit_id = $1 AND title = $2", unitID, title)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Node{}, false, nil
	}
	if err != nil {
		return models.Node{}, false, fmt.Errorf("failed to get node: %w", err)
	}
	return node, true, nil
}

// CreateNode inserts a new node and returns its id
func (r *CurriculumRepository) CreateNode(ctx context.Context, node models.Node) (int64, error) {
	result, err := DB.ExecContext(ctx,
		"INSERT INTO nodes (unit_id, title, order_index) VALUES ($1, $2, $3)",
		node.UnitID, node.Title, node.OrderIndex)
	if err != nil {
		return 0, fmt.Errorf("failed to create node: %w", err)
	}
	return result.LastInsertId()
}

// GetNodeSummaries returns the nodes of a unit with level completion counts
func (r *CurriculumRepository) GetNodeSummaries(ctx context.Context, unitID int64) ([]models.NodeSummary, error) {
	var summaries []models.NodeSummary
	query := `
		SELECT n.id, n.title,
			(SELECT COUNT(*) FROM levels l WHERE l.node_id = n.id) AS total_levels,
			(SELECT COUNT(*) FROM levels l
				JOIN user_progress up ON l.id = up.level_id
				WHERE up.is_completed = 1 AND l.node_id = n.id) AS completed_levels
		FROM nodes n
		WHERE n.unit_id = $1
		ORDER BY n.order_index ASC
	`
	if err := DB.SelectContext(ctx, &summaries, query, unitID); err != nil {
		return nil, fmt.Errorf("failed to get node summaries: %w", err)
	}
	return summaries, nil
}

// GetLevelByTitle returns a level inside a node by its title
func (r *CurriculumRepository) GetLevelByTitle(ctx context.Context, nodeID int64, title string) (models.Level, bool, error) {
	var level models.Level
	err := DB.GetContext(ctx, &level,
		"SELECT * FROM levels WHERE node_id = $1 AND title = $2", nodeID, title)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Level{}, false, nil
	}
	if err != nil {
		return models.Level{}, false, fmt.Errorf("failed to get level: %w", err)
	}
	return level, true, nil
}

// CreateLevel inserts a new level and returns its id
func (r *CurriculumRepository) CreateLevel(ctx context.Context, level models.Level) (int64, error) {
	result, err := DB.ExecContext(ctx,
		"INSERT INTO levels (node_id, title, order_index) VALUES ($1, $2, $3)",
		level.NodeID, level.Title, level.OrderIndex)
	if err != nil {
		return 0, fmt.Errorf("failed to create level: %w", err)
	}
	return result.LastInsertId()
}

// GetRoadmapLevels returns the levels of a node joined with completion state
func (r *CurriculumRepository) GetRoadmapLevels(ctx context.Context, nodeID int64) ([]models.RoadmapLevel, error) {
	var levels []models.RoadmapLevel
	query := `
		SELECT l.id, l.title, l.order_index,
			COALESCE(up.is_completed, 0) AS is_completed
		FROM levels l
		LEFT JOIN user_progress up ON l.id = up.level_id
		WHERE l.node_id = $1
		ORDER BY l.order_index ASC
	`
	if err := DB.SelectContext(ctx, &levels, query, nodeID); err != nil {
		return nil, fmt.Errorf("failed to get roadmap levels: %w", err)
	}
	return levels, nil
}
