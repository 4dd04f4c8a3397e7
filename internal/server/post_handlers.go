package server

import (
	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	UserID uint   `json:"user_id" form:"user_id"`
	Title  string `json:"title" form:"title"`
	Body   string `json:"body" form:"body"`
}

// ListPosts handles GET /posts
// @Summary List posts
// @Description All posts with their author's username, newest first
// @Tags posts
// @Produce json
// @Success 200 {array} models.PostWithAuthor
// @Router /posts [get]
func (s *Server) ListPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /posts/:id
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.PostWithAuthor
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /posts/new
// @Summary Create a post
// @Description user_id comes from the bearer token when one is present, otherwise from the body
// @Tags posts
// @Accept json
// @Produce json
// @Param request body createPostRequest true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /posts/new [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if userID, ok := middleware.UserIDFrom(c); ok {
		req.UserID = userID
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID: req.UserID,
		Title:  req.Title,
		Body:   req.Body,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}
