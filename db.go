package main

import (
	"database/sql"
	"log"
	"os"

	_ "github.com/lib/pq" // PostgreSQL driver
)

var db *sql.DB

func initDB() {
	// Get database URL from environment variable, fallback to default for development
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		connStr = "user=admin password=password dbname=roommatedb sslmode=disable"
		log.Default().Println("Warning: DATABASE_URL not set, using default connection string")
	}

	var err error
	db, err = sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Error connecting to the database:", err)
	}
	err = db.Ping()
	if err != nil {
		log.Fatal("Cannot reach the database:", err)
	}
	log.Default().Println("Database connection established successfully")

	if err := ensureSchema(db); err != nil {
		log.Fatal("Error initializing database schema:", err)
	}
}

// ensureSchema creates the tables on first start so a fresh database works
// without manual setup.
func ensureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			age INTEGER NOT NULL,
			gender TEXT NOT NULL,
			occupation TEXT NOT NULL,
			city TEXT NOT NULL,
			zip_code TEXT NOT NULL,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			rent_budget_min INTEGER NOT NULL,
			rent_budget_max INTEGER NOT NULL,
			sleep_schedule TEXT NOT NULL,
			cleanliness_level TEXT NOT NULL,
			noise_tolerance TEXT NOT NULL,
			hobbies TEXT NOT NULL,
			pet_preference TEXT NOT NULL,
			smoking_preference TEXT NOT NULL,
			lifestyle_description TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS match_history (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			matched_user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			overall_score DOUBLE PRECISION NOT NULL,
			similarity_score DOUBLE PRECISION NOT NULL,
			geo_score DOUBLE PRECISION NOT NULL,
			budget_score DOUBLE PRECISION NOT NULL,
			distance_miles DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_match_history_user ON match_history (user_id, created_at DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
