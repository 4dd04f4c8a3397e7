package middleware

import (
	"scribe/internal/auth"
	"scribe/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Locals keys set by the auth middleware.
const (
	LocalUserID = "userID"
	LocalClaims = "claims"
)

// TokenVerifier checks a session token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthRequired enforces a valid bearer token for protected routes.
func AuthRequired(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := authenticate(c, verifier); !ok {
			return models.RespondWithError(c, models.NewAuthError("Invalid or missing token"))
		}
		return c.Next()
	}
}

// OptionalAuth attaches the identity of a valid bearer token when one is
// sent. Missing or invalid tokens are ignored.
func OptionalAuth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authenticate(c, verifier)
		return c.Next()
	}
}

func authenticate(c *fiber.Ctx, verifier TokenVerifier) (*auth.Claims, bool) {
	token, ok := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return nil, false
	}

	claims, err := verifier.Verify(token)
	if err != nil {
		Logger.DebugContext(c.UserContext(), "bearer token rejected")
		return nil, false
	}

	c.Locals(LocalUserID, claims.UserID)
	c.Locals(LocalClaims, claims)
	ctx := WithUserID(c.UserContext(), claims.UserID)
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int64("enduser.id", int64(claims.UserID)),
		attribute.String("enduser.name", claims.Username),
	)
	c.SetUserContext(ctx)
	return claims, true
}

// ClaimsFrom returns the claims stored by AuthRequired or OptionalAuth.
func ClaimsFrom(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(LocalClaims).(*auth.Claims)
	return claims, ok && claims != nil
}

// UserIDFrom returns the authenticated user's id, if any.
func UserIDFrom(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(LocalUserID).(uint)
	return id, ok && id != 0
}
