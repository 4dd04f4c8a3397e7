package service

import (
	"context"
	"strings"

	"scribe/internal/models"
	"scribe/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
}

// CreatePostInput is the payload of POST /posts/new.
type CreatePostInput struct {
	UserID uint
	Title  string
	Body   string
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) ListPosts(ctx context.Context) ([]models.PostWithAuthor, error) {
	return s.postRepo.ListWithAuthor(ctx)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.PostWithAuthor, error) {
	return s.postRepo.GetByID(ctx, id)
}

// CreatePost stores a post. An unknown author surfaces as a validation
// error from the foreign key.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.UserID == 0 {
		return nil, models.NewValidationError("user_id is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("title is required")
	}

	post := &models.Post{UserID: in.UserID, Title: in.Title, Body: in.Body}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}
