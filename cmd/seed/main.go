package main

import (
	"log"
	"os"

	"github.com/Srushti-17/Docolab/internal/model"
	"github.com/Srushti-17/Docolab/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Seeds a small local user directory for development. In deployed
// environments the users table is populated by the identity service.
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

	log.Println("Seeding development users...")

	users := []model.UserRef{
		{Id: uuid.MustParse("6f1d9e1a-0b54-4f2e-9c43-6a1b0a4d9001"), Username: "alice", Email: "alice@example.com"},
		{Id: uuid.MustParse("6f1d9e1a-0b54-4f2e-9c43-6a1b0a4d9002"), Username: "bob", Email: "bob@example.com"},
		{Id: uuid.MustParse("6f1d9e1a-0b54-4f2e-9c43-6a1b0a4d9003"), Username: "carol", Email: "carol@example.com"},
	}

	for _, u := range users {
		var existing model.UserRef
		if err := db.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			log.Printf("User '%s' already exists, skipping...", u.Email)
			continue
		}

		if err := db.Create(&u).Error; err != nil {
			log.Printf("Error creating user '%s': %v", u.Email, err)
		} else {
			log.Printf("Created user: %s (%s)", u.Username, u.Email)
		}
	}

	log.Println("User seeding completed!")
}
