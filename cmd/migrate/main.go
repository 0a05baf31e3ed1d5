package main

import (
	"log"
	"os"

	"github.com/Srushti-17/Docolab/internal/model"
	"github.com/Srushti-17/Docolab/pkg/database"

	"github.com/joho/godotenv"
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

	log.Println("Starting GORM migration...")

	// gen_random_uuid() on the documents table needs pgcrypto.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	models := []interface{}{
		&model.UserRef{},
		&model.Document{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// Membership lookups run per websocket join and per listing; the
	// composite primary key AutoMigrate builds on the join tables does not
	// cover user-side lookups on its own.
	postMigrationSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_document_collaborators_user ON document_collaborators (user_ref_id);`,
		`CREATE INDEX IF NOT EXISTS idx_document_shared_viewers_user ON document_shared_viewers (user_ref_id);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_last_modified ON documents (last_modified DESC);`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("Success: Database migration completed via GORM.")
}
