// Package bootstrap prepares the database for the server and CLI tools.
package bootstrap

import (
	"context"
	"fmt"

	"scribe/internal/auth"
	"scribe/internal/config"
	"scribe/internal/database"
	"scribe/internal/seed"

	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedFixtures bool
}

// InitRuntime connects to the database, applies the schema and optionally
// replaces its contents with the demo fixtures.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.SeedFixtures {
		if _, err := seed.NewSeeder(db, NewHasher(cfg)).Fixtures(ctx); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("failed to seed fixtures: %w", err)
		}
	}

	return db, nil
}

// NewHasher builds the password hasher described by cfg.
func NewHasher(cfg *config.Config) *auth.Hasher {
	return auth.NewHasher(auth.Argon2Params{
		MemoryKB: uint32(cfg.Argon2MemoryKB),
		Time:     uint32(cfg.Argon2Time),
		Threads:  uint8(cfg.Argon2Threads),
	}, cfg.HashConcurrency)
}
