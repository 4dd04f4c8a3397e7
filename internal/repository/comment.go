package repository

import (
	"context"

	"scribe/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID uint) ([]models.CommentWithAuthor, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return translateWriteError(err, "Comment")
	}
	return nil
}

// ListByPost returns a post's comments in the order they were written.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]models.CommentWithAuthor, error) {
	comments := make([]models.CommentWithAuthor, 0)
	err := r.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.post_id, comments.body, users.username").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.post_id = ?", postID).
		Order("comments.id ASC").
		Scan(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}
