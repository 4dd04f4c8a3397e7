package repository

import (
	"context"
	"errors"

	"scribe/internal/models"

	"gorm.io/gorm"
)

const postWithAuthorColumns = "posts.id, posts.user_id, posts.title, posts.body, users.username"

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.PostWithAuthor, error)
	ListWithAuthor(ctx context.Context) ([]models.PostWithAuthor, error)
	ListByUser(ctx context.Context, userID uint) ([]models.PostWithAuthor, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("posts").
		Select(postWithAuthorColumns).
		Joins("JOIN users ON users.id = posts.user_id")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return translateWriteError(err, "Post")
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.PostWithAuthor, error) {
	var post models.PostWithAuthor
	if err := r.withAuthor(ctx).Where("posts.id = ?", id).Take(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// ListWithAuthor returns all posts, newest first.
func (r *postRepository) ListWithAuthor(ctx context.Context) ([]models.PostWithAuthor, error) {
	posts := make([]models.PostWithAuthor, 0)
	if err := r.withAuthor(ctx).Order("posts.id DESC").Scan(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint) ([]models.PostWithAuthor, error) {
	posts := make([]models.PostWithAuthor, 0)
	if err := r.withAuthor(ctx).
		Where("posts.user_id = ?", userID).
		Order("posts.id DESC").
		Scan(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
