package main

import (
	"context"
	"friend-locator-service/internal/adapters/repositories"
	"friend-locator-service/internal/config"
	"friend-locator-service/internal/platform/db"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// dbtool prepares the Postgres schema and loads demo users.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	seedPath := pflag.String("seed", cfg.SeedPath, "JSON file of users to upsert")
	schemaOnly := pflag.Bool("schema-only", false, "create tables without seeding")
	pflag.Parse()

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, sqlDB); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if *schemaOnly {
		return
	}

	log.Printf("Seeding users from %s...", *seedPath)
	if err := repositories.SeedFromJSON(ctx, sqlDB, *seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}
