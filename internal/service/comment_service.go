package service

import (
	"context"
	"strings"

	"scribe/internal/models"
	"scribe/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// CreateCommentInput is the payload of POST /comments.
type CreateCommentInput struct {
	PostID uint
	UserID uint
	Body   string
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// ListComments returns a post's comments oldest first. Comments of an
// unknown post are NotFound.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]models.CommentWithAuthor, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.PostID == 0 || in.UserID == 0 {
		return nil, models.NewValidationError("post_id and user_id are required")
	}
	if strings.TrimSpace(in.Body) == "" {
		return nil, models.NewValidationError("Comment body cannot be empty")
	}

	comment := &models.Comment{PostID: in.PostID, UserID: in.UserID, Body: in.Body}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
