package server

import (
	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	PostID uint   `json:"post_id" form:"post_id"`
	UserID uint   `json:"user_id" form:"user_id"`
	Body   string `json:"body" form:"body"`
}

// ListComments handles GET /comments/:id, where id is the post.
// @Summary List a post's comments
// @Tags comments
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {array} models.CommentWithAuthor
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [get]
func (s *Server) ListComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	comments, err := s.commentService.ListComments(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /comments
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Param request body createCommentRequest true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Router /comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if userID, ok := middleware.UserIDFrom(c); ok {
		req.UserID = userID
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		PostID: req.PostID,
		UserID: req.UserID,
		Body:   req.Body,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}
