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

// Connect establishes a connection to the database. DB_TYPE selects the
// driver ("sqlite" by default, "postgres" with DATABASE_URL).
func Connect() error {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	switch dbType {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL is not set")
		}
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
		DB = db
	default:
		dbPath := os.Getenv("SQLITE_PATH")
		if dbPath == "" {
			dataDir := "data"
			if err := os.MkdirAll(dataDir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %v", err)
			}
			dbPath = filepath.Join(dataDir, "vocabot.db")
		}
		db, err := sqlx.Connect("sqlite3", dbPath+"?_foreign_keys=on")
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		DB = db
	}

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
	idType := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if DB.DriverName() == "postgres" {
		idType = "BIGSERIAL PRIMARY KEY"
	}

	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			language TEXT DEFAULT '',
			timezone TEXT DEFAULT 'UTC',
			direction_mode TEXT DEFAULT 'RANDOM',
			notifications_enabled BOOLEAN DEFAULT true,
			notification_interval_minutes INTEGER DEFAULT 30,
			max_notifications_per_day INTEGER DEFAULT 20,
			quiet_hours_start_minutes INTEGER DEFAULT 480,
			quiet_hours_end_minutes INTEGER DEFAULT 1380,
			notifications_sent_today INTEGER DEFAULT 0,
			notifications_date TIMESTAMP,
			last_notification_at TIMESTAMP,
			streak_count INTEGER DEFAULT 0,
			done_today_count INTEGER DEFAULT 0,
			last_done_date TIMESTAMP,
			last_streak_date TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %v", err)
	}

	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS words (
			id %s,
			user_id BIGINT NOT NULL,
			word_en TEXT NOT NULL,
			translation_ru TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)
	`, idType))
	if err != nil {
		return fmt.Errorf("failed to create words table: %v", err)
	}

	// Case-insensitive uniqueness per user
	_, err = DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_words_user_word ON words (user_id, lower(word_en))`)
	if err != nil {
		return fmt.Errorf("failed to create words index: %v", err)
	}

	_, err = DB.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS reviews (
			id %s,
			user_id BIGINT NOT NULL,
			word_id BIGINT NOT NULL UNIQUE,
			stage INTEGER DEFAULT 0,
			interval_minutes INTEGER DEFAULT 5,
			next_review_at TIMESTAMP NOT NULL,
			last_review_at TIMESTAMP,
			last_direction TEXT,
			last_result TEXT,
			last_answer_text TEXT,
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (word_id) REFERENCES words(id) ON DELETE CASCADE
		)
	`, idType))
	if err != nil {
		return fmt.Errorf("failed to create reviews table: %v", err)
	}

	_, err = DB.Exec(`CREATE INDEX IF NOT EXISTS idx_reviews_due ON reviews (user_id, next_review_at)`)
	if err != nil {
		return fmt.Errorf("failed to create reviews index: %v", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS user_sessions (
			user_id BIGINT PRIMARY KEY,
			state TEXT NOT NULL DEFAULT 'IDLE',
			review_id BIGINT,
			word_id BIGINT,
			direction TEXT,
			sent_at TIMESTAMP,
			reminder_step INTEGER DEFAULT 0,
			answer_text TEXT,
			payload TEXT,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create user_sessions table: %v", err)
	}

	return nil
}
