// Package seed fills the database with demo data for development and
// testing: a fixed set of fixtures and a random generator.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"scribe/internal/middleware"
	"scribe/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is the plaintext password of every seeded user.
const DefaultPassword = "password123"

const batchSize = 100

// PasswordHasher produces the stored form of a password.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
}

// Options configures the random generator.
type Options struct {
	NumUsers    int
	NumPosts    int
	NumComments int
	ShouldClean bool
	// RandSeed makes generated content reproducible; zero uses the clock.
	RandSeed int64
}

// Summary counts the rows a seeding run inserted.
type Summary struct {
	Users    int
	Posts    int
	Comments int
}

// Seeder writes seed data through GORM.
type Seeder struct {
	db     *gorm.DB
	hasher PasswordHasher
}

// NewSeeder creates a Seeder. Passwords are hashed with hasher at seed time.
func NewSeeder(db *gorm.DB, hasher PasswordHasher) *Seeder {
	return &Seeder{db: db, hasher: hasher}
}

// ClearAll removes every comment, post and user.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return clearAll(s.db.WithContext(ctx))
}

func clearAll(tx *gorm.DB) error {
	if tx.Dialector.Name() == "postgres" {
		// Restarting identities gives fixtures the same IDs on every run.
		return tx.Exec("TRUNCATE TABLE comments, posts, users RESTART IDENTITY CASCADE").Error
	}

	all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []interface{}{&models.Comment{}, &models.Post{}, &models.User{}} {
		if err := all.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Fixtures replaces all data with two users, three posts and nine comments.
func (s *Seeder) Fixtures(ctx context.Context) (*Summary, error) {
	hash, err := s.hasher.Hash(ctx, DefaultPassword)
	if err != nil {
		return nil, fmt.Errorf("hash fixture password: %w", err)
	}

	summary := &Summary{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearAll(tx); err != nil {
			return err
		}

		users := make([]models.User, 0, len(fixtureUsers))
		for _, fu := range fixtureUsers {
			users = append(users, models.User{Username: fu.Username, Email: fu.Email, PasswordHash: hash})
		}
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("insert users: %w", err)
		}
		summary.Users = len(users)

		commenter := users[0].ID
		for _, fp := range fixturePosts {
			post := models.Post{UserID: users[fp.Author].ID, Title: fp.Title, Body: fp.Body}
			if err := tx.Create(&post).Error; err != nil {
				return fmt.Errorf("insert post %q: %w", fp.Title, err)
			}
			summary.Posts++

			comments := make([]models.Comment, 0, len(fp.Comments))
			for _, body := range fp.Comments {
				comments = append(comments, models.Comment{UserID: commenter, PostID: post.ID, Body: body})
			}
			if err := tx.Create(&comments).Error; err != nil {
				return fmt.Errorf("insert comments for %q: %w", fp.Title, err)
			}
			summary.Comments += len(comments)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "fixtures seeded",
		slog.Int("users", summary.Users),
		slog.Int("posts", summary.Posts),
		slog.Int("comments", summary.Comments),
	)
	return summary, nil
}

// Random inserts generated users, posts and comments. Posts and comments
// are spread across the generated users and posts.
func (s *Seeder) Random(ctx context.Context, opts Options) (*Summary, error) {
	if opts.NumUsers < 1 {
		return nil, errors.New("at least one user is required")
	}
	if opts.NumComments > 0 && opts.NumPosts < 1 {
		return nil, errors.New("comments need at least one post")
	}

	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(seed)

	// One hash shared by every generated user.
	hash, err := s.hasher.Hash(ctx, DefaultPassword)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	db := s.db.WithContext(ctx)
	if opts.ShouldClean {
		if err := clearAll(db); err != nil {
			return nil, fmt.Errorf("clear existing data: %w", err)
		}
	}

	users := make([]models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(faker.Username()), i)
		users = append(users, models.User{
			Username:     username,
			Email:        username + "@example.com",
			PasswordHash: hash,
		})
	}
	if err := db.CreateInBatches(&users, batchSize).Error; err != nil {
		return nil, fmt.Errorf("insert users: %w", err)
	}

	posts := make([]models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[faker.Number(0, len(users)-1)]
		posts = append(posts, models.Post{
			UserID: author.ID,
			Title:  strings.TrimSuffix(faker.Sentence(faker.Number(2, 6)), "."),
			Body:   faker.Paragraph(1, 3, 12, " "),
		})
	}
	if len(posts) > 0 {
		if err := db.CreateInBatches(&posts, batchSize).Error; err != nil {
			return nil, fmt.Errorf("insert posts: %w", err)
		}
	}

	comments := make([]models.Comment, 0, opts.NumComments)
	for i := 0; i < opts.NumComments; i++ {
		comments = append(comments, models.Comment{
			UserID: users[faker.Number(0, len(users)-1)].ID,
			PostID: posts[faker.Number(0, len(posts)-1)].ID,
			Body:   faker.Sentence(faker.Number(4, 16)),
		})
	}
	if len(comments) > 0 {
		if err := db.CreateInBatches(&comments, batchSize).Error; err != nil {
			return nil, fmt.Errorf("insert comments: %w", err)
		}
	}

	summary := &Summary{Users: len(users), Posts: len(posts), Comments: len(comments)}
	middleware.Logger.InfoContext(ctx, "random data seeded",
		slog.Int("users", summary.Users),
		slog.Int("posts", summary.Posts),
		slog.Int("comments", summary.Comments),
		slog.Int64("rand_seed", seed),
	)
	return summary, nil
}
