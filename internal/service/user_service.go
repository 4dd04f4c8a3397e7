package service

import (
	"context"

	"scribe/internal/models"
	"scribe/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository) *UserService {
	return &UserService{userRepo: userRepo, postRepo: postRepo}
}

// ListUsers returns every user as {id, username}; email and hash stay private.
func (s *UserService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.UserSummary, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := user.Summary()
	return &summary, nil
}

// ListPostsByUser returns the user's posts, newest first. An unknown user
// is NotFound rather than an empty list.
func (s *UserService) ListPostsByUser(ctx context.Context, userID uint) ([]models.PostWithAuthor, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("User", userID)
	}
	return s.postRepo.ListByUser(ctx, userID)
}
