// Package service holds the application operations the HTTP layer calls.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"scribe/internal/auth"
	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/observability"
	"scribe/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// WrongCredentialsMessage is the only message a failed login ever returns.
const WrongCredentialsMessage = "Wrong username or password"

// ErrUnknownUser marks a validly signed token whose user has been deleted.
var ErrUnknownUser = errors.New("token user no longer exists")

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, encoded, plaintext string) (bool, error)
}

// TokenManager issues and verifies session tokens.
type TokenManager interface {
	Issue(id auth.Identity) (string, error)
	Verify(token string) (*auth.Claims, error)
}

// LoginOutcome is the terminal state of a login attempt.
type LoginOutcome string

const (
	LoginCredentialsMissing LoginOutcome = "credentials_missing"
	LoginUserNotFound       LoginOutcome = "user_not_found"
	LoginPasswordMismatch   LoginOutcome = "password_mismatch"
	LoginSuccess            LoginOutcome = "success"
)

// LoginResult carries the outcome; Token and User are set only on success.
type LoginResult struct {
	Outcome LoginOutcome
	Token   string
	User    *models.User
}

// Succeeded reports whether the login produced a token.
func (r *LoginResult) Succeeded() bool {
	return r.Outcome == LoginSuccess
}

// SignupInput is the payload of a signup request.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// AuthService runs signup, login and token inspection.
type AuthService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenManager

	decoyOnce sync.Once
	decoyHash string
}

func NewAuthService(users repository.UserRepository, hasher PasswordHasher, tokens TokenManager) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// Signup hashes the password and stores a new user. The plaintext is never
// persisted; a hashing failure creates nothing.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (_ *models.CreatedUser, err error) {
	ctx, span := observability.StartSpan(ctx, "auth.signup")
	defer func() { observability.EndSpan(span, err) }()

	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		observability.Signups.WithLabelValues("invalid").Inc()
		return nil, models.NewValidationError("Username, email and password are required")
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		observability.Signups.WithLabelValues("error").Inc()
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Username: username, Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if models.KindOf(err) == models.KindConflict {
			observability.Signups.WithLabelValues("conflict").Inc()
		} else {
			observability.Signups.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	observability.Signups.WithLabelValues("created").Inc()
	middleware.Logger.InfoContext(ctx, "User signed up", slog.Uint64("new_user_id", uint64(user.ID)))

	return &models.CreatedUser{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}

// Login resolves a username/password pair to one of the LoginOutcome
// states. Credential failures are outcomes, not errors; the error return is
// reserved for store or signing failures.
func (s *AuthService) Login(ctx context.Context, username, password string) (result *LoginResult, err error) {
	ctx, span := observability.StartSpan(ctx, "auth.login")
	defer func() {
		if result != nil {
			span.SetAttributes(attribute.String("auth.outcome", string(result.Outcome)))
			observability.LoginAttempts.WithLabelValues(string(result.Outcome)).Inc()
		} else {
			observability.LoginAttempts.WithLabelValues("error").Inc()
		}
		observability.EndSpan(span, err)
	}()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return &LoginResult{Outcome: LoginCredentialsMissing}, nil
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Spend the same hashing work as a real mismatch.
		_, _ = s.hasher.Verify(ctx, s.decoy(ctx), password)
		return &LoginResult{Outcome: LoginUserNotFound}, nil
	}

	ok, err := s.hasher.Verify(ctx, user.PasswordHash, password)
	if err != nil {
		if !errors.Is(err, auth.ErrMalformedHash) {
			return nil, models.NewInternalError(err)
		}
		middleware.Logger.WarnContext(ctx, "Stored password hash is malformed",
			slog.Uint64("login_user_id", uint64(user.ID)))
		ok = false
	}
	if !ok {
		return &LoginResult{Outcome: LoginPasswordMismatch}, nil
	}

	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Username: user.Username, Email: user.Email})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &LoginResult{Outcome: LoginSuccess, Token: token, User: user}, nil
}

// decoy returns a throwaway hash, computed once per service.
func (s *AuthService) decoy(ctx context.Context) string {
	s.decoyOnce.Do(func() {
		hash, err := s.hasher.Hash(context.WithoutCancel(ctx), "decoy-password-for-unknown-users")
		if err != nil {
			middleware.Logger.WarnContext(ctx, "Failed to prepare decoy hash", slog.String("error", err.Error()))
			return
		}
		s.decoyHash = hash
	})
	return s.decoyHash
}

// Profile confirms that the user behind already-verified claims still
// exists.
func (s *AuthService) Profile(ctx context.Context, claims *auth.Claims) (*auth.Claims, error) {
	exists, err := s.users.Exists(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &models.AppError{Kind: models.KindAuth, Message: "User no longer exists", Err: ErrUnknownUser}
	}

	return claims, nil
}
