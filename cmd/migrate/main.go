package main

import (
	"log"

	"github.com/joho/godotenv"

	"taskwise/internal/config"
	"taskwise/internal/database"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		priority TEXT NOT NULL,
		priority_score INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		deadline TIMESTAMP,
		estimated_time TEXT NOT NULL DEFAULT '',
		ai_enhanced BOOLEAN NOT NULL DEFAULT FALSE,
		ai_suggestions JSONB,
		tags JSONB,
		created_at TIMESTAMP NOT NULL DEFAULT now(),
		updated_at TIMESTAMP NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS context_entries (
		id SERIAL PRIMARY KEY,
		content TEXT NOT NULL,
		source_type TEXT NOT NULL,
		processed_insights JSONB,
		extracted_tasks JSONB,
		is_processed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		color TEXT NOT NULL,
		usage_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT now(),
		CONSTRAINT categories_name_unique UNIQUE (name)
	)`,
	`CREATE INDEX IF NOT EXISTS category_idx ON tasks (category)`,
	`CREATE INDEX IF NOT EXISTS priority_idx ON tasks (priority)`,
	`CREATE INDEX IF NOT EXISTS status_idx ON tasks (status)`,
	`CREATE INDEX IF NOT EXISTS source_type_idx ON context_entries (source_type)`,
	`CREATE INDEX IF NOT EXISTS processed_idx ON context_entries (is_processed)`,
	`INSERT INTO categories (name, color) VALUES
		('Work', 'blue'),
		('Personal', 'green'),
		('Learning', 'purple'),
		('Health', 'red'),
		('Shopping', 'orange')
	ON CONFLICT (name) DO NOTHING`,
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Open(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Running database migrations...")
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("Failed to run migration: %v", err)
		}
	}
	log.Println("Migrations completed successfully!")
}
