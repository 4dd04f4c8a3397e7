package server

import (
	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/service"

	"github.com/gofiber/fiber/v2"
)

type signupRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	Token string `json:"token"`
}

// Signup handles POST /users
// @Summary Create a user
// @Description Register a new user account. The password is stored as an Argon2id hash.
// @Tags users
// @Accept json
// @Produce json
// @Param request body signupRequest true "Signup request"
// @Success 201 {object} models.CreatedUser
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Signup(c.UserContext(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /users/login
// @Summary Log in
// @Description Exchange a username and password for a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Login credentials"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /users/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		// An unreadable body is treated as missing credentials.
		req = loginRequest{}
	}

	result, err := s.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if !result.Succeeded() {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
			Error: service.WrongCredentialsMessage,
		})
	}

	return c.JSON(TokenResponse{Token: result.Token})
}

// Profile handles GET|POST /users/profile
// @Summary Decode the caller's token
// @Description Returns the claims of a valid bearer token whose user still exists
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.Claims
// @Failure 401 {object} models.ErrorResponse
// @Router /users/profile [get]
func (s *Server) Profile(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return models.RespondWithError(c, models.NewAuthError("Invalid or missing token"))
	}

	claims, err := s.authService.Profile(c.UserContext(), claims)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(claims)
}
