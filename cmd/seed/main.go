package main

import (
	"log"

	"friendfinder/backend/internal/config"
	"friendfinder/backend/internal/database"
)

func main() {
	config.LoadConfig()

	db, err := database.Connect(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.SeedTestData(db); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	log.Println("Seeding completed.")
}
