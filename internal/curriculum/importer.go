// Package curriculum imports units, nodes, levels and exercises from
// spreadsheet files into the database.
package curriculum

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/lingobot/internal/database"
	"github.com/example/lingobot/pkg/models"
)

// ImportConfig defines the import configuration. Each row describes one
// exercise and names the unit/node/level it belongs to; curriculum rows are
// created on first mention.
type ImportConfig struct {
	FilePath   string // Path to the Excel or CSV file
	SheetName  string // Name of the sheet to import
	StartRow   int    // The row to start importing from (1-based index)
	OptionsSep string // Separator between answer options in the options cell
}

// Column layout of an import sheet
const (
	colUnit = iota
	colNode
	colLevel
	colType
	colPrompt
	colOptions
	colCorrectAnswer
	colExplanation
	minColumns = colCorrectAnswer + 1
)

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SheetName:  "Sheet1",
		StartRow:   2, // By default, start from the second row (skip header)
		OptionsSep: "|",
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	UnitsCreated   int
	NodesCreated   int
	LevelsCreated  int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// Importer loads curriculum content through the repositories
type Importer struct {
	curriculum *database.CurriculumRepository
	exercises  *database.ExerciseRepository
}

// NewImporter creates an importer over the default repositories
func NewImporter() *Importer {
	return &Importer{
		curriculum: database.NewCurriculumRepository(),
		exercises:  database.NewExerciseRepository(),
	}
}

// Import loads exercises from an Excel or CSV file
func (im *Importer) Import(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	if ext == ".csv" {
		return im.importFromCSV(ctx, config)
	}
	return im.importFromExcel(ctx, config)
}

// importFromExcel imports curriculum rows from an Excel file
func (im *Importer) importFromExcel(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	cache := newRowCache()

	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++

		if err := im.processRow(ctx, row, config, cache, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// importFromCSV imports curriculum rows from a CSV file
func (im *Importer) importFromCSV(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	f, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	result := &ImportResult{Errors: make([]string, 0)}
	cache := newRowCache()

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		if rowNum < config.StartRow {
			continue
		}
		result.TotalProcessed++

		if err := im.processRow(ctx, row, config, cache, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return result, nil
}

// rowCache avoids re-querying units/nodes/levels for every row of the sheet
type rowCache struct {
	units  map[string]int64
	nodes  map[string]int64
	levels map[string]int64
}

func newRowCache() *rowCache {
	return &rowCache{
		units:  make(map[string]int64),
		nodes:  make(map[string]int64),
		levels: make(map[string]int64),
	}
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// processRow imports a single sheet row
func (im *Importer) processRow(ctx context.Context, row []string, config ImportConfig, cache *rowCache, result *ImportResult) error {
	if len(row) < minColumns {
		result.Skipped++
		return nil
	}

	unitTitle := cell(row, colUnit)
	nodeTitle := cell(row, colNode)
	levelTitle := cell(row, colLevel)
	exType := cell(row, colType)
	prompt := cell(row, colPrompt)
	correct := cell(row, colCorrectAnswer)

	if unitTitle == "" || nodeTitle == "" || levelTitle == "" || prompt == "" || correct == "" {
		result.Skipped++
		return nil
	}
	if exType == "" {
		exType = "multiple_choice"
	}

	unitID, err := im.ensureUnit(ctx, unitTitle, cache, result)
	if err != nil {
		return err
	}
	nodeID, err := im.ensureNode(ctx, unitID, nodeTitle, cache, result)
	if err != nil {
		return err
	}
	levelID, err := im.ensureLevel(ctx, nodeID, levelTitle, cache, result)
	if err != nil {
		return err
	}

	content := models.ExerciseContent{Prompt: prompt}
	if options := cell(row, colOptions); options != "" {
		for _, opt := range strings.Split(options, config.OptionsSep) {
			if trimmed := strings.TrimSpace(opt); trimmed != "" {
				content.Options = append(content.Options, trimmed)
			}
		}
	}
	contentJSON, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to encode content: %w", err)
	}

	exercise := models.Exercise{
		LevelID:       levelID,
		Type:          exType,
		ContentJSON:   string(contentJSON),
		CorrectAnswer: correct,
		Explanation:   cell(row, colExplanation),
	}

	existing, found, err := im.exercises.FindByContent(ctx, levelID, exercise.ContentJSON)
	if err != nil {
		return err
	}
	if found {
		exercise.ID = existing.ID
		if err := im.exercises.Update(ctx, exercise); err != nil {
			return err
		}
		result.Updated++
		return nil
	}

	if _, err := im.exercises.Create(ctx, exercise); err != nil {
		return err
	}
	result.Created++
	return nil
}

func (im *Importer) ensureUnit(ctx context.Context, title string, cache *rowCache, result *ImportResult) (int64, error) {
	if id, ok := cache.units[title]; ok {
		return id, nil
	}
	unit, found, err := im.curriculum.GetUnitByTitle(ctx, title)
	if err != nil {
		return 0, err
	}
	if found {
		cache.units[title] = unit.ID
		return unit.ID, nil
	}
	id, err := im.curriculum.CreateUnit(ctx, models.Unit{Title: title, OrderIndex: len(cache.units) + 1})
	if err != nil {
		return 0, err
	}
	cache.units[title] = id
	result.UnitsCreated++
	return id, nil
}

func (im *Importer) ensureNode(ctx context.Context, unitID int64, title string, cache *rowCache, result *ImportResult) (int64, error) {
	key := fmt.Sprintf("%d/%s", unitID, title)
	if id, ok := cache.nodes[key]; ok {
		return id, nil
	}
	node, found, err := im.curriculum.GetNodeByTitle(ctx, unitID, title)
	if err != nil {
		return 0, err
	}
	if found {
		cache.nodes[key] = node.ID
		return node.ID, nil
	}
	id, err := im.curriculum.CreateNode(ctx, models.Node{UnitID: unitID, Title: title, OrderIndex: len(cache.nodes) + 1})
	if err != nil {
		return 0, err
	}
	cache.nodes[key] = id
	result.NodesCreated++
	return id, nil
}

func (im *Importer) ensureLevel(ctx context.Context, nodeID int64, title string, cache *rowCache, result *ImportResult) (int64, error) {
	key := fmt.Sprintf("%d/%s", nodeID, title)
	if id, ok := cache.levels[key]; ok {
		return id, nil
	}
	level, found, err := im.curriculum.GetLevelByTitle(ctx, nodeID, title)
	if err != nil {
		return 0, err
	}
	if found {
		cache.levels[key] = level.ID
		return level.ID, nil
	}
	id, err := im.curriculum.CreateLevel(ctx, models.Level{NodeID: nodeID, Title: title, OrderIndex: len(cache.levels) + 1})
	if err != nil {
		return 0, err
	}
	cache.levels[key] = id
	result.LevelsCreated++
	return id, nil
}
