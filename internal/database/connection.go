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

// Connect establishes a connection to the database. If DATABASE_URL is set
// the connection uses PostgreSQL, otherwise a local SQLite file is used.
func Connect() error {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		db, err := sqlx.Connect("postgres", url)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}
		DB = db
		return initializeSchema()
	}

	// Create data directory if it doesn't exist
	dataDir := "data"
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	// Open database connection
	dbPath := filepath.Join(dataDir, "justlearn.db")
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite doesn't support multiple writers
	db.SetMaxIdleConns(1)

	DB = db

	// Initialize schema
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
	// Create users table
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			language TEXT DEFAULT 'en',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %v", err)
	}

	// Create questions table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			topic TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			prompt TEXT NOT NULL,
			choices TEXT NOT NULL,
			correct_choice TEXT NOT NULL,
			explanation TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create questions table: %v", err)
	}

	// Create user_sessions table (one JSON snapshot per user)
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS user_sessions (
			user_id TEXT PRIMARY KEY,
			session_data TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(user_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create user_sessions table: %v", err)
	}

	// Create test_results table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS test_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			test_type TEXT NOT NULL,
			taken_at TIMESTAMP NOT NULL,
			correct_count INTEGER NOT NULL DEFAULT 0,
			total_questions INTEGER NOT NULL DEFAULT 0,
			weak_topics TEXT,
			needs_training TEXT,
			question_ids TEXT,
			answers TEXT,
			topics_selected TEXT,
			passed_topics TEXT,
			substitutions TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(user_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create test_results table: %v", err)
	}

	// Create user_progress table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS user_progress (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			date TIMESTAMP NOT NULL,
			score REAL NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(user_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create user_progress table: %v", err)
	}

	// Create user_weak_topics table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS user_weak_topics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			topic TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(user_id),
			UNIQUE(user_id, topic)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create user_weak_topics table: %v", err)
	}

	// Create user_needs_training table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS user_needs_training (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			topic TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(user_id),
			UNIQUE(user_id, topic)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create user_needs_training table: %v", err)
	}

	// Create user_reminders table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS user_reminders (
			user_id TEXT PRIMARY KEY,
			enabled BOOLEAN DEFAULT false,
			hour INTEGER DEFAULT 9,
			timezone TEXT DEFAULT 'UTC',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(user_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create user_reminders table: %v", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_questions_topic ON questions(topic)",
		"CREATE INDEX IF NOT EXISTS idx_questions_topic_difficulty ON questions(topic, difficulty)",
		"CREATE INDEX IF NOT EXISTS idx_test_results_user_id ON test_results(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_user_progress_user_id ON user_progress(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_user_weak_topics_user_id ON user_weak_topics(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_user_needs_training_user_id ON user_needs_training(user_id)",
	}
	for _, idx := range indexes {
		if _, err := DB.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %v", err)
		}
	}

	return nil
}
