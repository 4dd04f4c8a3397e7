// Command main runs the database seeder.
package main

import (
	"context"
	"flag"
	"log"

	"scribe/internal/bootstrap"
	"scribe/internal/config"
	"scribe/internal/database"
	"scribe/internal/middleware"
	"scribe/internal/seed"
)

func main() {
	fixtures := flag.Bool("fixtures", false, "Replace all data with the demo fixtures")
	numUsers := flag.Int("users", 10, "Number of random users to create")
	numPosts := flag.Int("posts", 30, "Number of random posts to create")
	numComments := flag.Int("comments", 90, "Number of random comments to create")
	shouldClean := flag.Bool("clean", false, "Clean database before seeding")
	randSeed := flag.Int64("rand-seed", 0, "Seed for generated content (0 uses the clock)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.InitLogger(cfg.Env, cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	s := seed.NewSeeder(db, bootstrap.NewHasher(cfg))

	if *fixtures {
		if _, err := s.Fixtures(ctx); err != nil {
			log.Fatalf("Fixture seeding failed: %v", err)
		}
	} else {
		if _, err := s.Random(ctx, seed.Options{
			NumUsers:    *numUsers,
			NumPosts:    *numPosts,
			NumComments: *numComments,
			ShouldClean: *shouldClean,
			RandSeed:    *randSeed,
		}); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	}

	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
