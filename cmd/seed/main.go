// Command seed populates the development database with demo users and posts.
package main

import (
	"flag"
	"log"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/seed"
)

func main() {
	users := flag.Int("users", 5, "number of demo users to create")
	posts := flag.Int("posts", 3, "number of posts per user")
	seedVal := flag.Int64("seed", 0, "fake-data seed (0 = random)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		Users:        *users,
		PostsPerUser: *posts,
		Seed:         *seedVal,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
