package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenSignature = errors.New("token signature is invalid")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenClaims    = errors.New("token claims are invalid")
	ErrNoSecret       = errors.New("token secret is not configured")
)

// Claims is the identity carried by a session token.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the input to Issue.
type Identity struct {
	UserID   uint
	Username string
	Email    string
}

// TokenConfig is fixed at construction. A zero TTL issues tokens without
// iat/exp; they stay valid until the secret changes.
type TokenConfig struct {
	Secret       []byte
	TTL          time.Duration
	IncludeEmail bool
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret       []byte
	ttl          time.Duration
	includeEmail bool
	now          func() time.Time
}

// NewTokenIssuer copies the secret out of cfg.
func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrNoSecret
	}
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &TokenIssuer{
		secret:       secret,
		ttl:          cfg.TTL,
		includeEmail: cfg.IncludeEmail,
		now:          time.Now,
	}, nil
}

// Issue signs a token for id.
func (t *TokenIssuer) Issue(id Identity) (string, error) {
	if id.UserID == 0 || id.Username == "" {
		return "", fmt.Errorf("%w: user id and username are required", ErrTokenClaims)
	}

	claims := Claims{
		UserID:   id.UserID,
		Username: id.Username,
	}
	if t.includeEmail {
		claims.Email = id.Email
	}
	if t.ttl > 0 {
		now := t.now()
		claims.IssuedAt = jwt.NewNumericDate(now)
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks the signature (HS256 only) and returns the embedded claims.
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrTokenMalformed
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, classify(err)
	}
	if !token.Valid {
		return nil, ErrTokenSignature
	}
	if claims.UserID == 0 || claims.Username == "" {
		return nil, ErrTokenClaims
	}

	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrTokenSignature, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenClaims, err)
	}
}

// BearerToken extracts the token from an Authorization header value. The
// "Bearer: <token>" form sent by older clients is accepted too.
func BearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	scheme, rest, ok := strings.Cut(header, " ")
	if !ok {
		return "", false
	}
	scheme = strings.TrimSuffix(scheme, ":")
	if !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(rest)
	if token == "" {
		return "", false
	}
	return token, true
}
