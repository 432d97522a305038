package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"helpdesk-knowledge-be/internal/model"
	"helpdesk-knowledge-be/pkg/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.Workspace{},
		&model.Issue{},
		&model.FileRecord{},
		&model.KnowledgeBase{},
		&model.KnowledgeDocument{},
		&model.DocumentChunk{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Step 3: Creating vector and trigram indexes...")

	postMigrationSQL := []string{
		// HNSW index for cosine similarity search over chunk embeddings
		`CREATE INDEX IF NOT EXISTS idx_document_chunks_embedding_hnsw
		 ON document_chunks USING hnsw (embedding vector_cosine_ops);`,

		// Trigram indexes backing the ILIKE keyword search
		`CREATE EXTENSION IF NOT EXISTS pg_trgm;`,
		`CREATE INDEX IF NOT EXISTS idx_issues_title_trgm
		 ON issues USING gin (title gin_trgm_ops);`,
		`CREATE INDEX IF NOT EXISTS idx_issues_description_trgm
		 ON issues USING gin (description gin_trgm_ops);`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("Success: Database migration completed via GORM.")
}
