package models

// Unit is a top-level curriculum section
type Unit struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	OrderIndex  int    `json:"order_index" db:"order_index"`
}

// Node groups levels inside a unit (one stop on the roadmap)
type Node struct {
	ID         int64  `json:"id" db:"id"`
	UnitID     int64  `json:"unit_id" db:"unit_id"`
	Title      string `json:"title" db:"title"`
	OrderIndex int    `json:"order_index" db:"order_index"`
}

// Level is a playable lesson containing exercises
type Level struct {
	ID         int64  `json:"id" db:"id"`
	NodeID     int64  `json:"node_id" db:"node_id"`
	Title      string `json:"title" db:"title"`
	OrderIndex int    `json:"order_index" db:"order_index"`
}

// RoadmapLevel is a level joined with its completion state
type RoadmapLevel struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	OrderIndex  int    `json:"order_index" db:"order_index"`
	IsCompleted bool   `json:"is_completed" db:"is_completed"`
}

// NodeSummary is a node with aggregated level completion counts
type NodeSummary struct {
	ID              int64  `json:"id" db:"id"`
	Title           string `json:"title" db:"title"`
	TotalLevels     int    `json:"total_levels" db:"total_levels"`
	CompletedLevels int    `json:"completed_levels" db:"completed_levels"`
}
