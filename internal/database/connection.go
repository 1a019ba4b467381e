package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. The backend is selected
// with DB_TYPE: "sqlite" (default, file under ./data) or "postgres"
// (connection string in DATABASE_URL).
func Connect() error {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	var db *sqlx.DB
	var err error

	switch dbType {
	case "sqlite":
		dataDir := os.Getenv("DATA_DIR")
		if dataDir == "" {
			dataDir = "data"
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}

		dbPath := filepath.Join(dataDir, "lingobot.db")
		db, err = sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to sqlite: %w", err)
		}

		if _, err = db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}

		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		db, err = sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}

	default:
		return fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}

	DB = db

	return initializeSchema()
}

// ConnectForTest opens an in-memory sqlite database and installs the schema.
// Intended for package tests only.
func ConnectForTest() error {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		return fmt.Errorf("failed to open in-memory sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	DB = db
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	statements := []struct {
		name  string
		query string
	}{
		{"units", `
			CREATE TABLE IF NOT EXISTS units (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				title TEXT NOT NULL UNIQUE,
				description TEXT NOT NULL DEFAULT '',
				order_index INTEGER NOT NULL
			)
		`},
		{"nodes", `
			CREATE TABLE IF NOT EXISTS nodes (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				unit_id INTEGER NOT NULL,
				title TEXT NOT NULL,
				order_index INTEGER NOT NULL,
				FOREIGN KEY (unit_id) REFERENCES units(id),
				UNIQUE(unit_id, title)
			)
		`},
		{"levels", `
			CREATE TABLE IF NOT EXISTS levels (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				node_id INTEGER NOT NULL,
				title TEXT NOT NULL,
				order_index INTEGER NOT NULL,
				FOREIGN KEY (node_id) REFERENCES nodes(id),
				UNIQUE(node_id, title)
			)
		`},
		{"exercises", `
			CREATE TABLE IF NOT EXISTS exercises (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				level_id INTEGER NOT NULL,
				type TEXT NOT NULL,
				content_json TEXT NOT NULL,
				correct_answer TEXT NOT NULL,
				explanation TEXT NOT NULL DEFAULT '',
				FOREIGN KEY (level_id) REFERENCES levels(id)
			)
		`},
		{"profiles", `
			CREATE TABLE IF NOT EXISTS profiles (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				chat_id INTEGER NOT NULL DEFAULT 0,
				total_xp INTEGER NOT NULL DEFAULT 0,
				hearts INTEGER NOT NULL DEFAULT 5,
				streak_count INTEGER NOT NULL DEFAULT 0,
				last_active_at TEXT NOT NULL DEFAULT ''
			)
		`},
		{"user_progress", `
			CREATE TABLE IF NOT EXISTS user_progress (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				level_id INTEGER UNIQUE NOT NULL,
				is_completed INTEGER NOT NULL DEFAULT 0,
				high_score INTEGER NOT NULL DEFAULT 0,
				FOREIGN KEY (level_id) REFERENCES levels(id)
			)
		`},
		{"srs_reviews", `
			CREATE TABLE IF NOT EXISTS srs_reviews (
				exercise_id INTEGER PRIMARY KEY,
				ease_factor REAL NOT NULL DEFAULT 2.5,
				interval INTEGER NOT NULL DEFAULT 0,
				repetitions INTEGER NOT NULL DEFAULT 0,
				next_review_date TEXT NOT NULL,
				FOREIGN KEY (exercise_id) REFERENCES exercises(id)
			)
		`},
	}

	for _, stmt := range statements {
		if _, err := DB.Exec(stmt.query); err != nil {
			return fmt.Errorf("failed to create %s table: %w", stmt.name, err)
		}
	}

	return nil
}
