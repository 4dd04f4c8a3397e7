package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"scribe/internal/auth"
	"scribe/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func testHasher() *auth.Hasher {
	return auth.NewHasher(auth.Argon2Params{MemoryKB: 1024, Time: 1, Threads: 1}, 1)
}

type failingHasher struct{}

func (failingHasher) Hash(context.Context, string) (string, error) {
	return "", errors.New("out of memory")
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestFixtures(t *testing.T) {
	db := setupDB(t)
	hasher := testHasher()
	s := NewSeeder(db, hasher)

	summary, err := s.Fixtures(t.Context())
	require.NoError(t, err)
	assert.Equal(t, &Summary{Users: 2, Posts: 3, Comments: 9}, summary)

	var john models.User
	require.NoError(t, db.Where("username = ?", "John Doe").Take(&john).Error)
	assert.Equal(t, "johndoe@example.com", john.Email)
	assert.True(t, strings.HasPrefix(john.PasswordHash, "$argon2id$"))

	ok, err := hasher.Verify(t.Context(), john.PasswordHash, DefaultPassword)
	require.NoError(t, err)
	assert.True(t, ok)

	var posts []models.Post
	require.NoError(t, db.Order("id ASC").Find(&posts).Error)
	require.Len(t, posts, 3)
	assert.Equal(t, "JavaScript", posts[0].Title)
	for _, p := range posts {
		assert.Equal(t, john.ID, p.UserID)
		var comments int64
		require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ? AND user_id = ?", p.ID, john.ID).Count(&comments).Error)
		assert.EqualValues(t, 3, comments)
	}
}

func TestFixtures_ReplacesExistingData(t *testing.T) {
	db := setupDB(t)
	s := NewSeeder(db, testHasher())

	require.NoError(t, db.Create(&models.User{Username: "stale", Email: "stale@example.com", PasswordHash: "x"}).Error)

	_, err := s.Fixtures(t.Context())
	require.NoError(t, err)
	_, err = s.Fixtures(t.Context())
	require.NoError(t, err)

	assert.EqualValues(t, 2, count(t, db, &models.User{}))
	assert.EqualValues(t, 3, count(t, db, &models.Post{}))
	assert.EqualValues(t, 9, count(t, db, &models.Comment{}))
}

func TestFixtures_HashFailureWritesNothing(t *testing.T) {
	db := setupDB(t)
	s := NewSeeder(db, failingHasher{})

	_, err := s.Fixtures(t.Context())
	require.Error(t, err)
	assert.Zero(t, count(t, db, &models.User{}))
}

func TestRandom(t *testing.T) {
	db := setupDB(t)
	s := NewSeeder(db, testHasher())

	summary, err := s.Random(t.Context(), Options{NumUsers: 5, NumPosts: 12, NumComments: 30, RandSeed: 42})
	require.NoError(t, err)
	assert.Equal(t, &Summary{Users: 5, Posts: 12, Comments: 30}, summary)

	assert.EqualValues(t, 5, count(t, db, &models.User{}))
	assert.EqualValues(t, 12, count(t, db, &models.Post{}))
	assert.EqualValues(t, 30, count(t, db, &models.Comment{}))

	var orphans int64
	require.NoError(t, db.Model(&models.Post{}).
		Where("user_id NOT IN (?)", db.Model(&models.User{}).Select("id")).
		Count(&orphans).Error)
	assert.Zero(t, orphans)
}

func TestRandom_Clean(t *testing.T) {
	db := setupDB(t)
	s := NewSeeder(db, testHasher())

	_, err := s.Fixtures(t.Context())
	require.NoError(t, err)

	_, err = s.Random(t.Context(), Options{NumUsers: 3, ShouldClean: true, RandSeed: 7})
	require.NoError(t, err)
	assert.EqualValues(t, 3, count(t, db, &models.User{}))
	assert.Zero(t, count(t, db, &models.Post{}))
	assert.Zero(t, count(t, db, &models.Comment{}))
}

func TestRandom_InvalidOptions(t *testing.T) {
	s := NewSeeder(setupDB(t), testHasher())

	_, err := s.Random(t.Context(), Options{})
	assert.Error(t, err)

	_, err = s.Random(t.Context(), Options{NumUsers: 1, NumComments: 3})
	assert.Error(t, err)
}

func TestClearAll(t *testing.T) {
	db := setupDB(t)
	s := NewSeeder(db, testHasher())

	_, err := s.Fixtures(t.Context())
	require.NoError(t, err)
	require.NoError(t, s.ClearAll(t.Context()))

	assert.Zero(t, count(t, db, &models.User{}))
	assert.Zero(t, count(t, db, &models.Comment{}))
}
